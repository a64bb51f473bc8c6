package search

import (
	"strings"

	"github.com/hakimzulkifli/pegawai-backend/internal/personnel"
)

// Filter narrows records to those matching the query. Nama, jawatan, and
// jabatan match on a case-insensitive substring; nokp matches on an exact
// case-sensitive substring so partial identity numbers stay precise. An
// empty or whitespace-only query returns the full input.
func Filter(records []personnel.Record, query string) []personnel.Record {
	if strings.TrimSpace(query) == "" {
		return records
	}

	folded := strings.ToLower(query)
	out := make([]personnel.Record, 0, len(records))
	for _, record := range records {
		if matches(record, query, folded) {
			out = append(out, record)
		}
	}
	return out
}

func matches(record personnel.Record, query, folded string) bool {
	if strings.Contains(strings.ToLower(record.Nama), folded) {
		return true
	}
	if strings.Contains(strings.ToLower(record.Jawatan), folded) {
		return true
	}
	if strings.Contains(strings.ToLower(record.Jabatan), folded) {
		return true
	}
	return strings.Contains(record.Nokp, query)
}
