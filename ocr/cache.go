package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CachedEngine remembers results per image digest so a re-uploaded scan is not
// recognized twice. Cache failures are logged and otherwise ignored.
type CachedEngine struct {
	next Engine
	rdb  *redis.Client
	ttl  time.Duration
	log  *zap.Logger
}

func NewCachedEngine(next Engine, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedEngine {
	return &CachedEngine{next: next, rdb: rdb, ttl: ttl, log: log}
}

func (e *CachedEngine) Name() string { return e.next.Name() }

// CacheKey is the redis key a result for image is stored under.
func CacheKey(engine string, image []byte) string {
	sum := sha256.Sum256(image)
	return "ocr:" + engine + ":" + hex.EncodeToString(sum[:])
}

func (e *CachedEngine) Recognize(ctx context.Context, image []byte) (Result, error) {
	key := CacheKey(e.next.Name(), image)

	raw, err := e.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached Result
		if err := json.Unmarshal(raw, &cached); err == nil {
			e.log.Debug("OCR cache hit", zap.String("key", key))
			return cached, nil
		}
		e.log.Warn("Discarding unreadable OCR cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		e.log.Warn("OCR cache read failed", zap.Error(err))
	}

	res, err := e.next.Recognize(ctx, image)
	if err != nil {
		return Result{}, err
	}

	if payload, err := json.Marshal(res); err == nil {
		if err := e.rdb.Set(ctx, key, payload, e.ttl).Err(); err != nil {
			e.log.Warn("OCR cache write failed", zap.Error(err))
		}
	}
	return res, nil
}
