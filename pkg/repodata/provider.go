package repodata

import (
	"context"
	"os"
	"sync"

	"github.com/glorpus-work/repodex/internal/logger"
	"github.com/glorpus-work/repodex/pkg/config"
	"github.com/glorpus-work/repodex/pkg/version"
)

// Provider is the process-wide access point to the index. The first Acquire
// builds the index; later calls return the same instance. Concurrent first
// calls are serialized so the expensive build runs at most once, and a
// failed build leaves no instance behind for the next attempt to reuse.
type Provider struct {
	mu      sync.Mutex
	index   *Index
	fetcher Fetcher
	cmp     version.Comparator
	cfg     *config.Config
}

// NewProvider creates a provider over the given fetcher. A nil comparator
// falls back to the default one, a nil config to the default channel and
// platform sets.
func NewProvider(fetcher Fetcher, cmp version.Comparator, cfg *config.Config) *Provider {
	if cmp == nil {
		cmp = version.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Provider{
		fetcher: fetcher,
		cmp:     cmp,
		cfg:     cfg,
	}
}

// Acquire returns the shared index, building it on first use. When a cache
// path is configured and the file exists, the table is loaded from it and
// no network access occurs. Otherwise the index is built from the network
// and, if a cache path is configured, persisted before returning.
func (p *Provider) Acquire(ctx context.Context) (*Index, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.index != nil {
		return p.index, nil
	}

	cachePath := p.cfg.Settings.CachePath
	if cachePath != "" {
		if _, err := os.Stat(cachePath); err == nil {
			records, err := LoadTable(cachePath)
			if err != nil {
				return nil, err
			}
			logger.Info("loaded index from cache", logger.Fields{
				"path":    cachePath,
				"records": len(records),
			})
			p.index = NewIndex(records, p.cmp)
			return p.index, nil
		}
	}

	index, err := Build(ctx, p.fetcher, p.cfg.Channels, p.cfg.Platforms, p.cmp)
	if err != nil {
		return nil, err
	}

	if cachePath != "" {
		if err := SaveTable(cachePath, index.Records()); err != nil {
			return nil, err
		}
	}

	p.index = index
	return p.index, nil
}
