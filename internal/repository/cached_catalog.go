package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"inclusion-engine/internal/domain/aid"
	"inclusion-engine/internal/domain/sis"
	"inclusion-engine/internal/pkg/logger"
)

// Cache is the JSON cache the catalog decorators read through.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

const (
	sisCachePrefix = "catalog:sis:"
	aidCachePrefix = "catalog:aid:"
)

// readThrough serves key from the cache or loads and stores it. Cache
// failures are logged and never surface to the caller.
func readThrough[T any](ctx context.Context, c Cache, log *logger.Logger, ttl time.Duration, key string, load func() (T, error)) (T, error) {
	var out T
	if c != nil {
		hit, err := c.GetJSON(ctx, key, &out)
		if err != nil {
			log.Debug("catalog cache read failed", "key", key, "error", err)
		}
		if hit {
			return out, nil
		}
	}

	out, err := load()
	if err != nil {
		return out, err
	}
	if c != nil {
		if err := c.SetJSON(ctx, key, out, ttl); err != nil {
			log.Debug("catalog cache write failed", "key", key, "error", err)
		}
	}
	return out, nil
}

func idsKey(ids []int64) string {
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	parts := make([]string, 0, len(sorted))
	for i, id := range sorted {
		if i > 0 && id == sorted[i-1] {
			continue
		}
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, ",")))
	return hex.EncodeToString(sum[:12])
}

// CachedSISCatalog caches whole percentile and support-index tables per base
// questionnaire and answers narrower lookups from them.
type CachedSISCatalog struct {
	next  SISCatalog
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedSISCatalog(next SISCatalog, cache Cache, ttl time.Duration, log *logger.Logger) *CachedSISCatalog {
	return &CachedSISCatalog{next: next, cache: cache, ttl: ttl, log: logger.OrNop(log)}
}

func (c *CachedSISCatalog) GetSubitems(ctx context.Context, ids []int64) (map[int64]sis.Subitem, error) {
	if len(ids) == 0 {
		return map[int64]sis.Subitem{}, nil
	}
	return readThrough(ctx, c.cache, c.log, c.ttl, sisCachePrefix+"subitems:"+idsKey(ids), func() (map[int64]sis.Subitem, error) {
		return c.next.GetSubitems(ctx, ids)
	})
}

func (c *CachedSISCatalog) GetPercentileTable(ctx context.Context, base int64) ([]sis.PercentileRow, error) {
	return readThrough(ctx, c.cache, c.log, c.ttl, fmt.Sprintf("%spercentiles:%d", sisCachePrefix, base), func() ([]sis.PercentileRow, error) {
		return c.next.GetPercentileTable(ctx, base)
	})
}

func (c *CachedSISCatalog) GetSupportIndexRows(ctx context.Context, base int64) ([]sis.SupportIndexRow, error) {
	return readThrough(ctx, c.cache, c.log, c.ttl, fmt.Sprintf("%ssupport_index:%d", sisCachePrefix, base), func() ([]sis.SupportIndexRow, error) {
		return c.next.GetSupportIndexRows(ctx, base)
	})
}

func (c *CachedSISCatalog) Invalidate(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.DeleteByPrefix(ctx, sisCachePrefix)
}

type CachedAidCatalog struct {
	next  AidCatalog
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedAidCatalog(next AidCatalog, cache Cache, ttl time.Duration, log *logger.Logger) *CachedAidCatalog {
	return &CachedAidCatalog{next: next, cache: cache, ttl: ttl, log: logger.OrNop(log)}
}

func (c *CachedAidCatalog) GetImpediments(ctx context.Context) ([]aid.Impediment, error) {
	return readThrough(ctx, c.cache, c.log, c.ttl, aidCachePrefix+"impediments", func() ([]aid.Impediment, error) {
		return c.next.GetImpediments(ctx)
	})
}

func (c *CachedAidCatalog) GetAidsForImpediments(ctx context.Context, impedimentIDs []int64) ([]aid.Link, error) {
	if len(impedimentIDs) == 0 {
		return make([]aid.Link, 0), nil
	}
	return readThrough(ctx, c.cache, c.log, c.ttl, aidCachePrefix+"links:"+idsKey(impedimentIDs), func() ([]aid.Link, error) {
		return c.next.GetAidsForImpediments(ctx, impedimentIDs)
	})
}

func (c *CachedAidCatalog) Invalidate(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.DeleteByPrefix(ctx, aidCachePrefix)
}
