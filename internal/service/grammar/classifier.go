package grammar

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"namestat/internal/model/naming"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheSize = 65536
	DefaultTimeout   = 2 * time.Second
)

type cacheKey struct {
	word     string
	category naming.Category
}

// ClassifierStats counts classifier activity for a run
type ClassifierStats struct {
	Lookups       int64 `json:"lookups"`
	CacheHits     int64 `json:"cache_hits"`
	ProviderCalls int64 `json:"provider_calls"`
	Failures      int64 `json:"failures"`
}

// Classifier memoizes provider answers per (word, category) and bounds each provider call.
// It is safe for concurrent use.
type Classifier struct {
	provider Provider
	cache    *lru.Cache[cacheKey, bool]
	inflight singleflight.Group
	timeout  time.Duration
	logger   *zap.Logger

	lookups  atomic.Int64
	hits     atomic.Int64
	calls    atomic.Int64
	failures atomic.Int64
}

// NewClassifier creates a memoizing classifier in front of provider
func NewClassifier(provider Provider, cacheSize int, timeout time.Duration, logger *zap.Logger) (*Classifier, error) {
	if provider == nil {
		return nil, fmt.Errorf("grammar provider is required")
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cache, err := lru.New[cacheKey, bool](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create classification cache: %w", err)
	}
	return &Classifier{
		provider: provider,
		cache:    cache,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Classify reports whether word belongs to category. An empty word is never classified.
// Provider failures and timeouts return ErrClassificationUnavailable and are not cached.
func (c *Classifier) Classify(ctx context.Context, word string, category naming.Category) (bool, error) {
	if word == "" {
		return false, nil
	}
	c.lookups.Add(1)

	key := cacheKey{word: word, category: category}
	if match, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return match, nil
	}

	// the shared call outlives any single caller; each caller waits on its own ctx
	ch := c.inflight.DoChan(category.String()+":"+word, func() (interface{}, error) {
		if match, ok := c.cache.Get(key); ok {
			return match, nil
		}

		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		c.calls.Add(1)
		match, err := c.provider.Classify(callCtx, word, category)
		if err != nil {
			return false, err
		}
		c.cache.Add(key, match)
		return match, nil
	})

	var v interface{}
	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case res := <-ch:
		v, err = res.Val, res.Err
	}
	if err != nil {
		c.failures.Add(1)
		c.logger.Debug("Classification unavailable",
			zap.String("word", word),
			zap.String("category", category.String()),
			zap.Error(err))
		return false, fmt.Errorf("%w: %q: %w", naming.ErrClassificationUnavailable, word, err)
	}
	return v.(bool), nil
}

// Stats returns a snapshot of the classifier counters
func (c *Classifier) Stats() ClassifierStats {
	return ClassifierStats{
		Lookups:       c.lookups.Load(),
		CacheHits:     c.hits.Load(),
		ProviderCalls: c.calls.Load(),
		Failures:      c.failures.Load(),
	}
}
