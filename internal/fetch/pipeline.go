package fetch

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/morikuni/failure/v2"

	"github.com/five82/sitelist/internal/blob"
	"github.com/five82/sitelist/internal/logger"
	"github.com/five82/sitelist/internal/metrics"
	"github.com/five82/sitelist/internal/website"
)

// DefaultCacheKey is the fixed key the last good payload is stored under.
const DefaultCacheKey = "websites_info.json"

// Source tells where a successful result came from.
type Source string

const (
	SourceNetwork Source = "network"
	SourceCache   Source = "cache"
)

// Result is a successful fetch. FetchedAt is when the result was produced,
// not when a cached payload was originally downloaded.
type Result struct {
	Websites  []website.Website
	Source    Source
	FetchedAt time.Time
}

// Stale reports whether the records came from the offline cache.
func (r Result) Stale() bool {
	return r.Source == SourceCache
}

// Options configure New.
type Options struct {
	Endpoint  string
	Timeout   time.Duration
	UserAgent string
	Transport http.RoundTripper
	Cache     blob.Store
	CacheKey  string
	IDs       website.IDFunc
	Logger    logger.Logger
	Metrics   *metrics.Metrics
}

// Pipeline fetches the website list, writes fresh payloads through to the
// cache and falls back to the cached payload when the network result is
// unusable. It makes exactly one network attempt per Fetch.
type Pipeline struct {
	client  *Client
	cache   blob.Store
	key     string
	ids     website.IDFunc
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New builds a Pipeline. A nil Cache means an in-memory store.
func New(opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	cache := opts.Cache
	if cache == nil {
		cache = blob.NewMemory()
	}
	key := opts.CacheKey
	if key == "" {
		key = DefaultCacheKey
	}
	ids := opts.IDs
	if ids == nil {
		ids = website.RandomID
	}
	return &Pipeline{
		client: NewClient(opts.Endpoint, ClientOptions{
			Timeout:   opts.Timeout,
			UserAgent: opts.UserAgent,
			Transport: opts.Transport,
			Logger:    log,
		}),
		cache:   cache,
		key:     key,
		ids:     ids,
		log:     log,
		metrics: opts.Metrics,
		now:     time.Now,
	}
}

// Endpoint returns the source URL the pipeline fetches from.
func (p *Pipeline) Endpoint() string {
	return p.client.Endpoint()
}

// Fetch runs one network attempt and, when it fails at transport, status or
// decode stage, one cache read. Only ErrInvalidEndpoint, ErrCacheUnavailable
// and ErrCacheCorrupt are returned.
func (p *Pipeline) Fetch(ctx context.Context) (Result, error) {
	start := p.now()

	body, err := p.client.Get(ctx)
	if err == nil {
		websites, decErr := website.Decode(body, p.ids)
		if decErr == nil {
			p.writeThrough(ctx, body)
			p.metrics.ObserveFetch(metrics.OutcomeNetwork, p.now().Sub(start))
			p.log.Info("fetched websites",
				logger.String("source", string(SourceNetwork)),
				logger.Int("count", len(websites)),
			)
			return Result{Websites: websites, Source: SourceNetwork, FetchedAt: p.now()}, nil
		}
		err = failure.New(ErrDecode,
			failure.Message("Website list source returned a malformed list"),
			failure.Context{"endpoint": p.client.Endpoint(), "error": decErr.Error()},
		)
	}

	if failure.Is(err, ErrInvalidEndpoint) {
		p.metrics.ObserveFetch(metrics.OutcomeInvalidEndpoint, p.now().Sub(start))
		p.log.Error("endpoint is invalid", logger.Error(err))
		return Result{}, err
	}

	code := firstStageCode(err)
	p.metrics.ObserveFallback(fallbackReason(code))
	p.log.Warn("network fetch failed, falling back to cache",
		logger.String("reason", string(code)),
		logger.Error(err),
	)

	res, cacheErr := p.loadCached(ctx, err)
	outcome := metrics.OutcomeCache
	switch {
	case failure.Is(cacheErr, ErrCacheUnavailable):
		outcome = metrics.OutcomeUnavailable
	case failure.Is(cacheErr, ErrCacheCorrupt):
		outcome = metrics.OutcomeCorrupt
	}
	p.metrics.ObserveFetch(outcome, p.now().Sub(start))
	if cacheErr != nil {
		p.log.Error("cache fallback failed", logger.Error(cacheErr))
		return Result{}, cacheErr
	}
	p.log.Info("fetched websites",
		logger.String("source", string(SourceCache)),
		logger.Int("count", len(res.Websites)),
	)
	return res, nil
}

// LoadCached decodes the cached payload without touching the network.
func (p *Pipeline) LoadCached(ctx context.Context) (Result, error) {
	return p.loadCached(ctx, nil)
}

// ClearCache removes the cached payload. It reports whether one existed.
func (p *Pipeline) ClearCache(ctx context.Context) (bool, error) {
	return p.cache.Delete(ctx, p.key)
}

func (p *Pipeline) loadCached(ctx context.Context, cause error) (Result, error) {
	causeText := ""
	if cause != nil {
		causeText = cause.Error()
	}

	data, err := p.cache.Get(ctx, p.key)
	if err != nil {
		msg := "No offline copy of the website list is available"
		if !errors.Is(err, blob.ErrNotFound) {
			msg = "The offline copy of the website list could not be read"
		}
		return Result{}, failure.New(ErrCacheUnavailable,
			failure.Message(msg),
			failure.Context{"key": p.key, "cause": causeText, "error": err.Error()},
		)
	}

	websites, err := website.Decode(data, p.ids)
	if err != nil {
		return Result{}, failure.New(ErrCacheCorrupt,
			failure.Message("The offline copy of the website list is corrupt"),
			failure.Context{"key": p.key, "cause": causeText, "error": err.Error()},
		)
	}
	return Result{Websites: websites, Source: SourceCache, FetchedAt: p.now()}, nil
}

func (p *Pipeline) writeThrough(ctx context.Context, body []byte) {
	if err := p.cache.Put(ctx, p.key, body); err != nil {
		p.metrics.CacheWriteFailed()
		p.log.Warn("cache write failed",
			logger.String("driver", string(p.cache.Driver())),
			logger.String("key", p.key),
			logger.Error(err),
		)
	}
}

func firstStageCode(err error) ErrorCode {
	for _, code := range []ErrorCode{ErrTransport, ErrHTTPStatus, ErrDecode} {
		if failure.Is(err, code) {
			return code
		}
	}
	return ErrTransport
}
