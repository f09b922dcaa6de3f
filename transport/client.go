// Package transport turns API method parameters into HTTP requests and
// normalizes HTTP responses into a result or an *apierror.APIError. Both the
// statically bound API packages and the discovery-built clients issue every
// call through this layer, so header, body and error semantics are identical
// for the two.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/andyle182810/gapiclient/apierror"
	"github.com/google/uuid"
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
	InvalidateToken()
}

type Limiter interface {
	Wait(ctx context.Context) error
}

var _ Doer = (*http.Client)(nil)

type Client struct {
	baseURL         string
	httpClient      Doer
	requestIDKey    any
	defaultHeaders  map[string]string
	userAgent       string
	tokenProvider   TokenProvider
	limiter         Limiter
	logger          Logger
	maxResponseSize int64 // 0 means no limit
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		httpClient:      &http.Client{Timeout: DefaultTimeout}, //nolint:exhaustruct
		requestIDKey:    nil,
		defaultHeaders:  map[string]string{},
		userAgent:       DefaultUserAgent,
		tokenProvider:   nil,
		limiter:         nil,
		logger:          nopLogger{},
		maxResponseSize: 0,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get issues a GET request. GET calls never carry a request body and never
// set a Content-Type header.
func (c *Client) Get(ctx context.Context, path string, result any, opts ...CallOption) error {
	return c.call(ctx, http.MethodGet, path, nil, result, opts...)
}

// Post issues a POST request. When resource is non-nil it is encoded as JSON
// and Content-Type is set to application/json.
func (c *Client) Post(ctx context.Context, path string, resource, result any, opts ...CallOption) error {
	return c.call(ctx, http.MethodPost, path, resource, result, opts...)
}

func (c *Client) Put(ctx context.Context, path string, resource, result any, opts ...CallOption) error {
	return c.call(ctx, http.MethodPut, path, resource, result, opts...)
}

func (c *Client) Patch(ctx context.Context, path string, resource, result any, opts ...CallOption) error {
	return c.call(ctx, http.MethodPatch, path, resource, result, opts...)
}

// Delete issues a DELETE request. Like Get it never attaches a body or a
// Content-Type header.
func (c *Client) Delete(ctx context.Context, path string, result any, opts ...CallOption) error {
	return c.call(ctx, http.MethodDelete, path, nil, result, opts...)
}

// Do issues a request with an arbitrary HTTP method. The body policy of Get
// and Delete still applies: resources supplied alongside GET or DELETE are
// dropped rather than sent.
func (c *Client) Do(ctx context.Context, method, path string, resource, result any, opts ...CallOption) error {
	return c.call(ctx, method, path, resource, result, opts...)
}

func (c *Client) call(
	ctx context.Context,
	method string,
	path string,
	resource any,
	result any,
	opts ...CallOption,
) error {
	cfg := c.buildCallConfig(ctx, opts...)

	callCtx := ctx

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(callCtx); err != nil {
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
	}

	if c.tokenProvider != nil {
		token, err := c.tokenProvider.GetToken(callCtx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrAuthFailed, err)
		}

		cfg.headers[HeaderAuthorization] = "Bearer " + token
	}

	if neverTakesBody(method) {
		resource = nil
	}

	req, err := c.buildRequest(callCtx, method, path, resource, cfg)
	if err != nil {
		return err
	}

	c.logger.LogRequest(req, cfg.requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	c.logger.LogResponse(resp, cfg.requestID)

	return c.handleResponse(resp, result)
}

// neverTakesBody reports whether the method must not carry a request body
// even when a resource was mistakenly supplied.
func neverTakesBody(method string) bool {
	return method == http.MethodGet || method == http.MethodDelete || method == http.MethodHead
}

func (c *Client) buildCallConfig(ctx context.Context, opts ...CallOption) *callConfig {
	cfg := &callConfig{
		headers:   make(map[string]string),
		query:     nil,
		timeout:   0,
		requestID: "",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.requestID == "" {
		cfg.requestID = c.extractRequestID(ctx)
	}

	return cfg
}

func (c *Client) extractRequestID(ctx context.Context) string {
	if c.requestIDKey != nil {
		if id, ok := ctx.Value(c.requestIDKey).(string); ok && id != "" {
			return id
		}
	}

	return uuid.New().String()
}

func (c *Client) buildRequest(
	ctx context.Context,
	method string,
	path string,
	resource any,
	cfg *callConfig,
) (*http.Request, error) {
	url := c.buildURL(path, cfg.query)

	var bodyReader io.Reader

	if resource != nil {
		bodyBytes, err := json.Marshal(resource)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeBody, err)
		}

		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateRequest, err)
	}

	if bodyReader != nil {
		req.Header.Set(HeaderContentType, ContentTypeJSON)
	}

	if c.userAgent != "" {
		req.Header.Set(HeaderUserAgent, c.userAgent)
	}

	for k, v := range c.defaultHeaders {
		req.Header.Set(k, v)
	}

	// Per-call headers win over everything and are sent verbatim.
	for k, v := range cfg.headers {
		req.Header.Set(k, v)
	}

	if cfg.requestID != "" {
		req.Header.Set(HeaderXRequestID, cfg.requestID)
	}

	return req, nil
}

func (c *Client) handleResponse(resp *http.Response, result any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.normalizeError(resp)
	}

	if result == nil {
		return nil
	}

	body := io.Reader(resp.Body)
	if c.maxResponseSize > 0 {
		body = io.LimitReader(resp.Body, c.maxResponseSize+1)
	}

	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}

	if c.maxResponseSize > 0 && int64(len(bodyBytes)) > c.maxResponseSize {
		return ErrResponseTooLarge
	}

	if len(bodyBytes) == 0 {
		return nil
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}

	return nil
}

// normalizeError drains the body and hands it to the normalizer. A body that
// cannot be read still produces exactly one APIError carrying the status.
func (c *Client) normalizeError(resp *http.Response) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		bodyBytes = nil
	}

	return apierror.Normalize(resp.StatusCode, bodyBytes)
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) buildURL(path string, query map[string]string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	fullURL := c.baseURL + path

	if len(query) == 0 {
		return fullURL
	}

	params := url.Values{}
	for k, v := range query {
		params.Add(k, v)
	}

	return fullURL + "?" + params.Encode()
}
