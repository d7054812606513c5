package extractor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"qbank/internal/cache"
	"qbank/internal/domain"
	"qbank/internal/logger"
)

// CachedExtractor remembers extracted text by content hash, so re-uploading
// the same document skips the extraction service. Concurrent extractions of
// the same content share one call.
type CachedExtractor struct {
	next  domain.TextExtractor
	cache domain.Cache
	ttl   time.Duration
	group singleflight.Group
}

func NewCachedExtractor(next domain.TextExtractor, c domain.Cache, ttl time.Duration) *CachedExtractor {
	return &CachedExtractor{next: next, cache: c, ttl: ttl}
}

func contentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return cache.ExtractionKey(hex.EncodeToString(sum[:]))
}

func (e *CachedExtractor) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	key := contentKey(file.Data)
	log := logger.Get().With(zap.String("key", key), zap.String("file", file.Name))

	text, err := e.cache.Get(ctx, key)
	switch {
	case err == nil && text != "":
		log.Debug("Extraction cache hit")
		return text, nil
	case err != nil && !errors.Is(err, domain.ErrCacheMiss):
		log.Warn("Extraction cache lookup failed", zap.Error(err))
	}

	v, err, shared := e.group.Do(key, func() (interface{}, error) {
		text, err := e.next.Extract(ctx, file)
		if err != nil {
			return "", err
		}
		if text != "" {
			if cerr := e.cache.Set(ctx, key, text, e.ttl); cerr != nil {
				log.Warn("Failed to cache extracted text", zap.Error(cerr))
			}
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		log.Debug("Extraction shared with a concurrent request")
	}
	return v.(string), nil
}
