package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hakimzulkifli/pegawai-backend/internal/accounts"
	pkgerrors "github.com/hakimzulkifli/pegawai-backend/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	docs      map[string]string
	saveErr   error
	removeErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]string)}
}

func (f *fakeStore) Load(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok := f.docs[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeStore) Save(ctx context.Context, key string, value any) error {
	if f.saveErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, f.saveErr, "save "+key)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.docs[key] = string(payload)
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, key string) error {
	if f.removeErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, f.removeErr, "remove "+key)
	}
	delete(f.docs, key)
	return nil
}

const testKey = "pegawai:v2:session"

func testAccount() accounts.Account {
	return accounts.Account{ID: "acc-1", Nama: "Ali", Nokp: "900101-01-1234"}
}

func newTestManager(t *testing.T, store *fakeStore) *Manager {
	t.Helper()
	mgr, err := NewManager(store, testKey)
	require.NoError(t, err)
	return mgr
}

func TestStartThenCurrent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mgr := newTestManager(t, store)

	require.Nil(t, mgr.Current())
	require.NoError(t, mgr.Start(ctx, testAccount(), "jti-1"))

	current := mgr.Current()
	require.NotNil(t, current)
	require.Equal(t, "900101-01-1234", current.Nokp)
	require.True(t, mgr.HasSession("jti-1"))
	require.False(t, mgr.HasSession("jti-2"))
	require.Contains(t, store.docs, testKey)
}

func TestStartReplacesPreviousSession(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t, newFakeStore())

	require.NoError(t, mgr.Start(ctx, testAccount(), "jti-1"))
	require.NoError(t, mgr.Start(ctx, testAccount(), "jti-2"))

	require.False(t, mgr.HasSession("jti-1"), "earlier token must lose authority")
	require.True(t, mgr.HasSession("jti-2"))
}

func TestEndClearsSessionAndStorage(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mgr := newTestManager(t, store)

	require.NoError(t, mgr.Start(ctx, testAccount(), "jti-1"))
	require.NoError(t, mgr.End(ctx))

	require.Nil(t, mgr.Current())
	require.False(t, mgr.HasSession("jti-1"))
	require.NotContains(t, store.docs, testKey)

	// Ending again is a no-op.
	require.NoError(t, mgr.End(ctx))
}

func TestStartKeepsOldSessionOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mgr := newTestManager(t, store)

	require.NoError(t, mgr.Start(ctx, testAccount(), "jti-1"))
	store.saveErr = errors.New("redis down")

	err := mgr.Start(ctx, testAccount(), "jti-2")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	require.True(t, mgr.HasSession("jti-1"), "failed start must not change the live session")
}

func TestEndKeepsSessionOnRemoveFailure(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mgr := newTestManager(t, store)

	require.NoError(t, mgr.Start(ctx, testAccount(), "jti-1"))
	store.removeErr = errors.New("redis down")

	err := mgr.End(ctx)
	require.Error(t, err)
	require.True(t, mgr.HasSession("jti-1"))
}

func TestResumeRestoresPersistedSession(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seed := newTestManager(t, store)
	require.NoError(t, seed.Start(ctx, testAccount(), "jti-1"))

	fresh := newTestManager(t, store)
	require.NoError(t, fresh.Resume(ctx))
	require.True(t, fresh.HasSession("jti-1"))
	require.NotNil(t, fresh.Current())
}

func TestResumeWithoutDocumentStaysSignedOut(t *testing.T) {
	mgr := newTestManager(t, newFakeStore())
	require.NoError(t, mgr.Resume(context.Background()))
	require.Nil(t, mgr.Current())
}
