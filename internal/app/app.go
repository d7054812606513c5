// Package app wires configuration into the collaborators a session needs.
// Both the HTTP API and the terminal client start from here.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"qbank/internal/adapter"
	"qbank/internal/adapter/extractor"
	"qbank/internal/adapter/llm"
	"qbank/internal/cache"
	"qbank/internal/config"
	"qbank/internal/docparse"
	"qbank/internal/domain"
	"qbank/internal/locale"
	"qbank/internal/logger"
	"qbank/internal/prompt"
	"qbank/internal/session"
	"qbank/internal/util"
)

// Components are the wired dependencies. Close releases the cache connection.
type Components struct {
	Deps  session.Deps
	Cache domain.Cache
	close func() error
}

func (c *Components) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// Build creates the model client, the extractor chain and the extraction
// cache. Redis is used when an address is configured; otherwise an
// in-process cache.
func Build(ctx context.Context, cfg *config.Config) (*Components, error) {
	log := logger.Get()

	bundle, err := locale.Lookup(cfg.Session.Locale)
	if err != nil {
		return nil, err
	}

	model, err := llm.NewModelClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	log.Info("Model client initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
	)

	comps := &Components{}
	if cfg.Redis.Address != "" {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		comps.Cache = adapter.NewRedisCacheAdapter(client)
		comps.close = client.Close
		log.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
	} else {
		comps.Cache = adapter.NewMemoryCacheAdapter(cfg.Cache.ExtractionTTL, cfg.Session.CleanupInterval)
		log.Info("Using in-memory extraction cache")
	}

	var base domain.TextExtractor
	switch cfg.Extractor.Mode {
	case "remote":
		base = extractor.NewHTTPExtractor(cfg.Extractor.URL, cfg.Extractor.Timeout)
		log.Info("Using remote extraction service", zap.String("url", cfg.Extractor.URL))
	default:
		base = extractor.NewLocalExtractor(docparse.Limits{
			MaxPages:    cfg.Extractor.MaxPages,
			MaxFileSize: cfg.Extractor.MaxFileSize,
		})
	}

	comps.Deps = session.Deps{
		Extractor: extractor.NewCachedExtractor(base, comps.Cache, cfg.Cache.ExtractionTTL),
		Model:     model,
		IDs:       util.NewULIDGenerator(),
		Locale:    bundle,
		Builder:   prompt.NewBuilder(bundle, prompt.WithExcerptLimit(cfg.Session.ExcerptLimit)),
	}
	return comps, nil
}

// NewManager builds the session registry for cfg.
func NewManager(cfg *config.Config, deps session.Deps) *session.Manager {
	var opts []session.ManagerOption
	if cfg.LLM.APIKey != "" {
		opts = append(opts, session.WithDefaultCredential(cfg.LLM.APIKey))
	}
	return session.NewManager(deps, cfg.Session.TTL, cfg.Session.CleanupInterval, opts...)
}
