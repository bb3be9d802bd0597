package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	cacheKeyPrefix = "book:"
	cacheEpochKey  = "book:epoch"
	cacheScanMatch = "book:*"

	// Generation keys outlive any single fill by a wide margin.
	generationTTL = 24 * time.Hour
)

var errStaleFill = errors.New("book changed while loading")

// CachedRepo decorates a Repository with a read-through Redis cache for
// single-book lookups. Writes go to the wrapped repository first and then
// bump the book's generation and drop its entry. A fill only lands when the
// generation it observed before loading is still current.
type CachedRepo struct {
	Repository
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedRepo(next Repository, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedRepo {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CachedRepo{Repository: next, cache: cache, ttl: ttl, logger: logger}
}

func cacheKey(id int64) string {
	return cacheKeyPrefix + strconv.FormatInt(id, 10)
}

func generationKey(id int64) string {
	return cacheKey(id) + ":gen"
}

func (r *CachedRepo) FindByID(ctx context.Context, id int64) (Book, error) {
	key := cacheKey(id)
	stamp, err := r.stamp(ctx, r.cache, id)
	if err != nil {
		r.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		return r.Repository.FindByID(ctx, id)
	}

	data, err := r.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var b Book
		if err := json.Unmarshal(data, &b); err == nil {
			return b, nil
		}
		r.logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		r.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	b, err := r.Repository.FindByID(ctx, id)
	if err != nil {
		return Book{}, err
	}
	r.store(ctx, b, stamp)
	return b, nil
}

// FindByIDDirect skips the cache. Read-modify-write paths use it so a merge
// never starts from a cached copy.
func (r *CachedRepo) FindByIDDirect(ctx context.Context, id int64) (Book, error) {
	return r.Repository.FindByID(ctx, id)
}

func (r *CachedRepo) Save(ctx context.Context, b Book) (Book, error) {
	saved, err := r.Repository.Save(ctx, b)
	if err != nil {
		return Book{}, err
	}
	r.invalidate(ctx, saved.ID)
	return saved, nil
}

func (r *CachedRepo) Delete(ctx context.Context, b Book) error {
	if err := r.Repository.Delete(ctx, b); err != nil {
		return err
	}
	r.invalidate(ctx, b.ID)
	return nil
}

// DeleteAll empties the wrapped repository, which must support it, and then
// purges every cached book.
func (r *CachedRepo) DeleteAll(ctx context.Context) error {
	bulk, ok := r.Repository.(interface {
		DeleteAll(ctx context.Context) error
	})
	if !ok {
		return errors.New("wrapped repository cannot delete all books")
	}
	if err := bulk.DeleteAll(ctx); err != nil {
		return err
	}
	return r.Purge(ctx)
}

// Purge bumps the cache epoch, which voids fills already in flight, and
// deletes every cached book entry.
func (r *CachedRepo) Purge(ctx context.Context) error {
	if err := r.cache.Incr(ctx, cacheEpochKey).Err(); err != nil {
		return fmt.Errorf("bump cache epoch: %w", err)
	}

	var cursor uint64
	for {
		keys, next, err := r.cache.Scan(ctx, cursor, cacheScanMatch, 100).Result()
		if err != nil {
			return fmt.Errorf("scan cached books: %w", err)
		}
		var doomed []string
		for _, k := range keys {
			if k != cacheEpochKey {
				doomed = append(doomed, k)
			}
		}
		if len(doomed) > 0 {
			if err := r.cache.Del(ctx, doomed...).Err(); err != nil {
				return fmt.Errorf("delete cached books: %w", err)
			}
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	r.logger.InfoContext(ctx, "purged book cache")
	return nil
}

type mgetter interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// stamp captures the book's generation and the global epoch as one value.
func (r *CachedRepo) stamp(ctx context.Context, c mgetter, id int64) (string, error) {
	vals, err := c.MGet(ctx, generationKey(id), cacheEpochKey).Result()
	if err != nil {
		return "", err
	}
	return fmt.Sprint(vals...), nil
}

func (r *CachedRepo) store(ctx context.Context, b Book, seen string) {
	data, err := json.Marshal(b)
	if err != nil {
		r.logger.WarnContext(ctx, "cache encode failed", "id", b.ID, "error", err)
		return
	}

	key := cacheKey(b.ID)
	err = r.cache.Watch(ctx, func(tx *redis.Tx) error {
		now, err := r.stamp(ctx, tx, b.ID)
		if err != nil {
			return err
		}
		if now != seen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}, generationKey(b.ID), cacheEpochKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		r.logger.DebugContext(ctx, "skipped cache fill after concurrent write", "key", key)
	default:
		r.logger.WarnContext(ctx, "cache write failed", "id", b.ID, "error", err)
	}
}

func (r *CachedRepo) invalidate(ctx context.Context, id int64) {
	_, err := r.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(id))
		pipe.Expire(ctx, generationKey(id), generationTTL)
		pipe.Del(ctx, cacheKey(id))
		return nil
	})
	if err != nil {
		r.logger.WarnContext(ctx, "cache invalidation failed", "id", id, "error", err)
	}
}
