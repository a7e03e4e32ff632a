package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

var (
	ErrCacheMiss           = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "serialization failed")
)

const cacheName = "results"

// AccessRecorder receives one call per lookup.
type AccessRecorder interface {
	RecordCacheAccess(cache string, hit bool)
}

// ResultCache stores classification records under two keys: the SHA-256 of
// the raw input and the record id.
type ResultCache struct {
	client     *Client
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
	recorder   AccessRecorder
	group      singleflight.Group
}

type CacheOption func(*ResultCache)

func WithPrefix(prefix string) CacheOption {
	return func(c *ResultCache) { c.prefix = prefix }
}

// WithDefaultTTL sets the expiry of stored records.  Zero keeps them forever.
func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *ResultCache) { c.defaultTTL = ttl }
}

func WithAccessRecorder(r AccessRecorder) CacheOption {
	return func(c *ResultCache) { c.recorder = r }
}

func NewResultCache(client *Client, log logging.Logger, opts ...CacheOption) *ResultCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &ResultCache{
		client:     client,
		logger:     log.Named("result-cache"),
		prefix:     client.KeyPrefix(),
		defaultTTL: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ResultCache) hashKey(hash string) string { return c.prefix + "result:" + hash }
func (c *ResultCache) idKey(id string) string     { return c.prefix + "record:" + id }

// jitterTTL spreads expiry by +/-10% so a burst of writes does not expire at
// once.
func (c *ResultCache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

// Lookup returns the record cached for an input hash, or ErrCacheMiss.
func (c *ResultCache) Lookup(ctx context.Context, inputHash string) (registry.ClassificationRecord, error) {
	rec, err := c.get(ctx, c.hashKey(inputHash))
	c.record(err == nil)
	return rec, err
}

// LookupID returns the record cached under its id, or ErrCacheMiss.
func (c *ResultCache) LookupID(ctx context.Context, id string) (registry.ClassificationRecord, error) {
	rec, err := c.get(ctx, c.idKey(id))
	c.record(err == nil)
	return rec, err
}

func (c *ResultCache) get(ctx context.Context, key string) (registry.ClassificationRecord, error) {
	var rec registry.ClassificationRecord
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return rec, ErrCacheMiss
	}
	if err != nil {
		return rec, errors.Wrap(err, errors.ErrCodeCacheError, "cache read")
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, ErrSerializationFailed.WithCause(err)
	}
	return rec, nil
}

// Store writes rec under both of its keys in one transaction.
func (c *ResultCache) Store(ctx context.Context, rec registry.ClassificationRecord) error {
	rec.Cached = false
	data, err := json.Marshal(rec)
	if err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	if c.client.isClosed() {
		return ErrClientClosed
	}
	ttl := c.jitterTTL(c.defaultTTL)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, c.hashKey(rec.InputHash), data, ttl)
	pipe.Set(ctx, c.idKey(rec.ID), data, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache write")
	}
	return nil
}

// Invalidate removes both keys of rec.
func (c *ResultCache) Invalidate(ctx context.Context, rec registry.ClassificationRecord) error {
	if err := c.client.Del(ctx, c.hashKey(rec.InputHash), c.idKey(rec.ID)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache delete")
	}
	return nil
}

// GetOrCompute returns the cached record for inputHash, or runs compute once
// per hash across concurrent callers and caches its output.  cached reports
// whether the record came from redis.  A cache that cannot be read is logged
// and bypassed.
func (c *ResultCache) GetOrCompute(
	ctx context.Context,
	inputHash string,
	compute func(ctx context.Context) (registry.ClassificationRecord, error),
) (rec registry.ClassificationRecord, cached bool, err error) {
	rec, err = c.Lookup(ctx, inputHash)
	if err == nil {
		rec.Cached = true
		return rec, true, nil
	}
	if err != ErrCacheMiss {
		c.logger.Warn("cache lookup failed, computing", logging.Err(err), logging.String(logging.FieldInputHash, inputHash))
	}

	v, err, _ := c.group.Do(inputHash, func() (interface{}, error) {
		fresh, cerr := compute(ctx)
		if cerr != nil {
			return nil, cerr
		}
		if serr := c.Store(ctx, fresh); serr != nil {
			c.logger.Warn("failed to cache result", logging.Err(serr), logging.String(logging.FieldResultID, fresh.ID))
		}
		return fresh, nil
	})
	if err != nil {
		return registry.ClassificationRecord{}, false, err
	}
	return v.(registry.ClassificationRecord), false, nil
}

func (c *ResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}

func (c *ResultCache) record(hit bool) {
	if c.recorder != nil {
		c.recorder.RecordCacheAccess(cacheName, hit)
	}
}

//Personal.AI order the ending
