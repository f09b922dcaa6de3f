package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andyle182810/gapiclient/transport"
	"github.com/andyle182810/gapiclient/validator"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	DefaultLoaderTimeout = 30 * time.Second
	discoveryPathFormat  = "/discovery/v1/apis/%s/%s/rest"
)

var ErrDiscoveryFailed = errors.New("discovery: failed to fetch document")

// Ref identifies one API surface to discover.
type Ref struct {
	API     string
	Version string
}

func (r Ref) String() string {
	return r.API + "/" + r.Version
}

// Loader fetches and caches discovery documents.
type Loader struct {
	resty    *resty.Client
	cache    DocumentCache
	validate *validator.Validator
	logger   zerolog.Logger
}

type LoaderOption func(*Loader)

func NewLoader(baseURL string, opts ...LoaderOption) *Loader {
	l := &Loader{
		resty: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(DefaultLoaderTimeout).
			SetHeader("Accept", "application/json"),
		cache:    NewMemoryCache(),
		validate: validator.New(),
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func WithCache(cache DocumentCache) LoaderOption {
	return func(l *Loader) {
		if cache != nil {
			l.cache = cache
		}
	}
}

func WithRestyClient(client *resty.Client) LoaderOption {
	return func(l *Loader) {
		if client != nil {
			l.resty = client
		}
	}
}

func WithLoaderTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		if timeout > 0 {
			l.resty.SetTimeout(timeout)
		}
	}
}

func WithLoaderLogger(logger zerolog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Load returns the discovery document for one API, consulting the cache
// first. Documents are validated before they are cached or returned.
func (l *Loader) Load(ctx context.Context, api, version string) (*Document, error) {
	ref := Ref{API: api, Version: version}

	if doc, err := l.cache.Get(ctx, ref.String()); err == nil {
		l.logger.Debug().Str("api", ref.String()).Msg("Discovery document served from cache")

		return doc, nil
	}

	var doc Document

	resp, err := l.resty.R().
		SetContext(ctx).
		SetResult(&doc).
		Get(fmt.Sprintf(discoveryPathFormat, api, version))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDiscoveryFailed, ref, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s: status %d", ErrDiscoveryFailed, ref, resp.StatusCode())
	}

	if err := l.validate.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, ref, err)
	}

	if err := l.cache.Set(ctx, ref.String(), &doc); err != nil {
		// A broken cache must not break discovery.
		l.logger.Warn().Err(err).Str("api", ref.String()).Msg("Failed to cache discovery document")
	}

	l.logger.Info().Str("api", ref.String()).Msg("Discovery document loaded")

	return &doc, nil
}

// LoadAll fetches several documents in parallel. If any fetch fails the
// whole join fails with that error.
func (l *Loader) LoadAll(ctx context.Context, refs ...Ref) (map[Ref]*Document, error) {
	docs := make(map[Ref]*Document, len(refs))
	errCh := make(chan error, len(refs))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, ref := range refs {
		wg.Add(1)

		go func(ref Ref) {
			defer wg.Done()

			doc, err := l.Load(ctx, ref.API, ref.Version)
			if err != nil {
				errCh <- err

				return
			}

			mu.Lock()
			docs[ref] = doc
			mu.Unlock()
		}(ref)
	}

	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, err
	}

	return docs, nil
}

// Discover loads the document and binds a dynamic client to the document's
// base URL.
func (l *Loader) Discover(ctx context.Context, api, version string, opts ...transport.Option) (*Client, error) {
	doc, err := l.Load(ctx, api, version)
	if err != nil {
		return nil, err
	}

	return NewClient(doc, transport.New(doc.Base(), opts...)), nil
}
