package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"mailgun-admin/config"
	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/core/ports"

	"github.com/rs/zerolog"
)

// CacheGateway is a read-through cache in front of the provider API.
// Entries are keyed by operation and parameters; concurrent misses on the
// same key each reach the provider.
type CacheGateway struct {
	store   ports.CacheStore
	enabled bool
	prefix  string
	log     zerolog.Logger
}

// NewCacheGateway creates a gateway over store. A nil store disables caching.
func NewCacheGateway(store ports.CacheStore, cfg config.CacheConfig, log zerolog.Logger) *CacheGateway {
	return &CacheGateway{
		store:   store,
		enabled: cfg.Enabled,
		prefix:  cfg.Prefix,
		log:     log.With().Str("component", "cache").Logger(),
	}
}

// Enabled reports whether reads go through the store.
func (g *CacheGateway) Enabled() bool {
	return g.enabled && g.store != nil
}

// Key derives the store key for an operation and its ordered parameters.
func (g *CacheGateway) Key(op domain.Operation, params []any) string {
	raw, err := json.Marshal(params)
	if err != nil {
		raw = []byte(fmt.Sprint(params...))
	}
	sum := sha256.Sum256([]byte(string(op) + "-" + string(raw)))
	return g.prefix + hex.EncodeToString(sum[:])
}

// Clear drops every entry under the gateway prefix.
func (g *CacheGateway) Clear(ctx context.Context) error {
	if g.store == nil {
		return nil
	}
	if err := g.store.Clear(ctx, g.prefix); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// cacheEnvelope is the stored form. OK=false marks a cached failure.
type cacheEnvelope struct {
	OK    bool            `json:"ok"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Fetch returns the cached value for (op, params) or computes and stores it.
//
// ok is false when the value is unavailable: either compute failed now, in
// which case its error is returned, or a failure was cached earlier, in which
// case err is nil. Failures are cached for the same ttl as values.
func Fetch[T any](
	ctx context.Context,
	g *CacheGateway,
	op domain.Operation,
	params []any,
	ttl time.Duration,
	compute func(ctx context.Context) (T, error),
) (value T, ok bool, err error) {
	var zero T

	if !g.Enabled() {
		v, err := compute(ctx)
		if err != nil {
			g.log.Debug().Err(err).Str("op", string(op)).Msg("upstream call failed")
			return zero, false, err
		}
		return v, true, nil
	}

	key := g.Key(op, params)

	raw, getErr := g.store.Get(ctx, key)
	switch {
	case getErr != nil:
		g.log.Warn().Err(getErr).Str("op", string(op)).Msg("cache read failed")
	case len(raw) > 0:
		var env cacheEnvelope
		if err := json.Unmarshal(raw, &env); err == nil {
			if !env.OK {
				return zero, false, nil
			}
			var v T
			if err := json.Unmarshal(env.Value, &v); err == nil {
				return v, true, nil
			}
		}
		g.log.Warn().Str("op", string(op)).Msg("discarding undecodable cache entry")
	}

	v, computeErr := compute(ctx)
	env := cacheEnvelope{OK: computeErr == nil}
	if computeErr != nil {
		g.log.Debug().Err(computeErr).Str("op", string(op)).Msg("upstream call failed")
	} else {
		encoded, err := json.Marshal(v)
		if err != nil {
			g.log.Warn().Err(err).Str("op", string(op)).Msg("cache encode failed")
			return v, true, nil
		}
		env.Value = encoded
	}

	if data, err := json.Marshal(env); err == nil {
		if err := g.store.Set(ctx, key, data, ttl); err != nil {
			g.log.Warn().Err(err).Str("op", string(op)).Msg("cache write failed")
		}
	}

	if computeErr != nil {
		return zero, false, computeErr
	}
	return v, true, nil
}
