package search

import (
	"testing"

	"github.com/hakimzulkifli/pegawai-backend/internal/personnel"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []personnel.Record {
	return []personnel.Record{
		{ID: "1", Nama: "Ali bin Abu", Nokp: "900101-01-1234", Jawatan: "Pegawai Tadbir", Jabatan: "Pentadbiran"},
		{ID: "2", Nama: "Siti Aminah", Nokp: "880202-02-5678", Jawatan: "Penolong Pegawai", Jabatan: "Kewangan"},
		{ID: "3", Nama: "Ramesh Kumar", Nokp: "770303-03-9012", Jawatan: "Juruteknik", Jabatan: "Teknologi Maklumat"},
	}
}

func ids(records []personnel.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterEmptyQueryReturnsAll(t *testing.T) {
	records := sampleRecords()
	require.Equal(t, []string{"1", "2", "3"}, ids(Filter(records, "")))
	require.Equal(t, []string{"1", "2", "3"}, ids(Filter(records, "   ")))
}

func TestFilterNamaIsCaseInsensitive(t *testing.T) {
	records := sampleRecords()
	require.Equal(t, []string{"1"}, ids(Filter(records, "ALI BIN")))
	require.Equal(t, []string{"2"}, ids(Filter(records, "aminah")))
}

func TestFilterMatchesJawatanAndJabatan(t *testing.T) {
	records := sampleRecords()
	// "pegawai" hits both a jawatan and a partial jawatan.
	require.Equal(t, []string{"1", "2"}, ids(Filter(records, "pegawai")))
	require.Equal(t, []string{"3"}, ids(Filter(records, "teknologi")))
}

func TestFilterNokpIsCaseSensitiveSubstring(t *testing.T) {
	records := sampleRecords()
	require.Equal(t, []string{"2"}, ids(Filter(records, "880202")))
	require.Equal(t, []string{"1"}, ids(Filter(records, "-01-")))
}

func TestFilterNoMatches(t *testing.T) {
	require.Empty(t, Filter(sampleRecords(), "zulkifli"))
}

func TestFilterPreservesInputOrder(t *testing.T) {
	records := sampleRecords()
	got := Filter(records, "a")
	require.Equal(t, []string{"1", "2", "3"}, ids(got))
}
