package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hakimzulkifli/pegawai-backend/internal/accounts"
	"github.com/hakimzulkifli/pegawai-backend/internal/personnel"
	"github.com/hakimzulkifli/pegawai-backend/internal/session"
	"github.com/hakimzulkifli/pegawai-backend/internal/store"
	"github.com/hakimzulkifli/pegawai-backend/pkg/config"
	"github.com/hakimzulkifli/pegawai-backend/pkg/logger"
	redisclient "github.com/hakimzulkifli/pegawai-backend/pkg/redis"
	"github.com/hakimzulkifli/pegawai-backend/pkg/security"
)

type fakeKV struct {
	mu   sync.Mutex
	docs map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{docs: map[string]string{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.docs[key]
	if !ok {
		return "", redisclient.ErrNotFound
	}
	return raw, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[key] = value.(string)
	return nil
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.docs, key)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	gateway := store.NewWithStore(newFakeKV(), nil)
	verifier := security.NewArgon2Verifier(config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})

	accountRegistry, err := accounts.NewRegistry(accounts.RegistryParams{
		Store:    gateway,
		Key:      "pegawai:v2:accounts",
		Verifier: verifier,
	})
	if err != nil {
		t.Fatalf("build account registry: %v", err)
	}

	directory, err := personnel.NewRegistry(personnel.RegistryParams{
		Store: gateway,
		Key:   "pegawai:v2:personnel",
	})
	if err != nil {
		t.Fatalf("build personnel registry: %v", err)
	}

	sessions, err := session.NewManager(gateway, "pegawai:v2:session")
	if err != nil {
		t.Fatalf("build session manager: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(cfg, logg, nil, accountRegistry, directory, sessions, prometheus.NewRegistry())
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, testConfig())
	rec := doJSON(t, router, http.MethodGet, "/health/live", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-Pegawai-Env") != "test" {
		t.Fatalf("expected env header, got %q", rec.Header().Get("X-Pegawai-Env"))
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(t, testConfig())
	rec := doJSON(t, router, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestPegawaiGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(t, testConfig())
	rec := doJSON(t, router, http.MethodGet, "/api/v1/pegawai", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", rec.Code)
	}
}

func TestRegisterLoginCRUDLogoutFlow(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "",
		[]byte(`{"nama":"Ali","nokp":"900101-01-1234","password":"abcdef","confirmPassword":"abcdef"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "",
		[]byte(`{"nokp":"900101-01-1234","password":"abcdef"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	token := rec.Header().Get("X-Pegawai-Token")
	if token == "" {
		t.Fatal("login: expected token header")
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200 got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/pegawai", token, []byte(`{
		"nama": "Siti Aminah",
		"nokp": "880202-02-5678",
		"jawatan": "Pegawai Tadbir",
		"jabatan": "Pentadbiran",
		"email": "siti@example.gov.my",
		"notel": "012-3456789"
	}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Data personnel.Record `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created record: %v", err)
	}
	if created.Data.AddedBy != "900101-01-1234" {
		t.Fatalf("expected provenance from token, got %q", created.Data.AddedBy)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/pegawai?q=siti", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/v1/pegawai/"+created.Data.ID, token, []byte(`{
		"nama": "Siti Aminah",
		"nokp": "880202-02-5678",
		"jawatan": "Pegawai Kanan",
		"jabatan": "Pentadbiran",
		"email": "siti@example.gov.my",
		"notel": "012-3456789"
	}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/pegawai/"+created.Data.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200 got %d", rec.Code)
	}

	// The token is still cryptographically valid but its session is gone.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/pegawai", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout got %d", rec.Code)
	}
}

func TestLoginWithUnknownAccountIsUnauthorized(t *testing.T) {
	router := newTestRouter(t, testConfig())
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "",
		[]byte(`{"nokp":"000000-00-0000","password":"abcdef"}`))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
