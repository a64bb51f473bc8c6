package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/hakimzulkifli/pegawai-backend/pkg/errors"
	"github.com/hakimzulkifli/pegawai-backend/pkg/logger"
	redisclient "github.com/hakimzulkifli/pegawai-backend/pkg/redis"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Gateway provides typed JSON load/save/remove on top of the key-value
// store. Each collection lives under one generation-scoped key; readers of a
// different generation never see this data.
type Gateway struct {
	kv   kvStore
	logg *logger.Logger
}

// New builds a gateway over the provided key-value client.
func New(client *redisclient.Client, logg *logger.Logger) (*Gateway, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "kv client required")
	}
	return &Gateway{kv: client, logg: logg}, nil
}

// NewWithStore builds a gateway over any kv implementation. Used by tests.
func NewWithStore(kv kvStore, logg *logger.Logger) *Gateway {
	return &Gateway{kv: kv, logg: logg}
}

// Load reads the JSON document at key into dest. A missing key reports
// (false, nil). Malformed JSON is cold-start territory, not an error: it is
// logged and reported as absent so a fresh deploy can start over a stale or
// foreign value.
func (g *Gateway) Load(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := g.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redisclient.ErrNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+key)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		if g.logg != nil {
			logCtx := g.logg.WithFields(ctx, map[string]any{"key": key})
			g.logg.Warn(logCtx, "store.malformed_value_treated_as_absent")
		}
		return false, nil
	}
	return true, nil
}

// Save serializes value as JSON and writes it at key with no expiry.
func (g *Gateway) Save(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode "+key)
	}
	if err := g.kv.Set(ctx, key, string(payload), 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save "+key)
	}
	return nil
}

// Remove deletes the document at key.
func (g *Gateway) Remove(ctx context.Context, key string) error {
	if err := g.kv.Del(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove "+key)
	}
	return nil
}
