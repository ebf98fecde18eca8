// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bankrecon/backend/internal/application/adapter"
)

// CachedRecordsProvider decorates an AccountingRecordsProvider with a Redis
// snapshot cache. A reconciliation session treats the record set as a
// read-only snapshot, so serving a slightly stale copy is acceptable within
// the TTL. Cache failures fall through to the underlying provider.
type CachedRecordsProvider struct {
	inner adapter.AccountingRecordsProvider
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachedRecordsProvider creates a new cached records provider instance.
func NewCachedRecordsProvider(inner adapter.AccountingRecordsProvider, rdb *redis.Client, ttl time.Duration) *CachedRecordsProvider {
	return &CachedRecordsProvider{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
	}
}

// GetSnapshot returns the cached snapshot for a company, loading and
// caching it on a miss.
func (p *CachedRecordsProvider) GetSnapshot(ctx context.Context, companyID uuid.UUID, limit int) (*adapter.RecordsSnapshot, error) {
	key := snapshotKey(companyID, limit)

	payload, err := p.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var snapshot adapter.RecordsSnapshot
		if err := json.Unmarshal(payload, &snapshot); err == nil {
			return &snapshot, nil
		}
		slog.Warn("Discarding unreadable records snapshot", "key", key)
	} else if err != redis.Nil {
		slog.Warn("Records cache read failed", "key", key, "error", err)
	}

	snapshot, err := p.inner.GetSnapshot(ctx, companyID, limit)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(snapshot); err == nil {
		if err := p.rdb.Set(ctx, key, payload, p.ttl).Err(); err != nil {
			slog.Warn("Records cache write failed", "key", key, "error", err)
		}
	}

	return snapshot, nil
}

// Invalidate drops the cached snapshot for a company.
func (p *CachedRecordsProvider) Invalidate(ctx context.Context, companyID uuid.UUID, limit int) error {
	return p.rdb.Del(ctx, snapshotKey(companyID, limit)).Err()
}

func snapshotKey(companyID uuid.UUID, limit int) string {
	return fmt.Sprintf("recon:records:%s:%d", companyID, limit)
}
