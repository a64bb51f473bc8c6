package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	redisclient "github.com/hakimzulkifli/pegawai-backend/pkg/redis"
)

type fakeKV struct {
	data    map[string]string
	getErr  error
	setErr  error
	delErr  error
	setHits int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return "", redisclient.ErrNotFound
	}
	return v, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setHits++
	f.data[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) error {
	if f.delErr != nil {
		return f.delErr
	}
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

type doc struct {
	Name string `json:"name"`
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	gw := NewWithStore(kv, nil)

	in := []doc{{Name: "a"}, {Name: "b"}}
	if err := gw.Save(ctx, "test:v2:docs", in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out []doc
	found, err := gw.Load(ctx, "test:v2:docs", &out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatal("expected document to be found")
	}
	if len(out) != 2 || out[0].Name != "a" || out[1].Name != "b" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestLoadMissingKeyReportsAbsent(t *testing.T) {
	gw := NewWithStore(newFakeKV(), nil)

	var out []doc
	found, err := gw.Load(context.Background(), "test:v2:docs", &out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatal("missing key should report absent")
	}
}

func TestLoadMalformedValueReportsAbsent(t *testing.T) {
	kv := newFakeKV()
	kv.data["test:v2:docs"] = "{not json"
	gw := NewWithStore(kv, nil)

	var out []doc
	found, err := gw.Load(context.Background(), "test:v2:docs", &out)
	if err != nil {
		t.Fatalf("malformed value must not surface an error, got %v", err)
	}
	if found {
		t.Fatal("malformed value should report absent")
	}
}

func TestLoadStoreFailureSurfacesDependencyError(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("connection refused")
	gw := NewWithStore(kv, nil)

	var out []doc
	if _, err := gw.Load(context.Background(), "test:v2:docs", &out); err == nil {
		t.Fatal("expected dependency error when the store is down")
	}
}

func TestRemoveDeletesDocument(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	gw := NewWithStore(kv, nil)

	if err := gw.Save(ctx, "test:v2:session", doc{Name: "x"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := gw.Remove(ctx, "test:v2:session"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	var out doc
	found, err := gw.Load(ctx, "test:v2:session", &out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatal("removed key should be absent")
	}
}
