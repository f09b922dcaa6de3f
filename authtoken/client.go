// Package authtoken implements an OAuth client-credentials token source that
// satisfies the transport.TokenProvider interface. Tokens are cached until
// shortly before expiry; expiry comes from the token endpoint's expires_in
// field, or from the access token's own exp claim when the endpoint omits it.
package authtoken

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenRequestFailed = errors.New("authtoken: token request failed")
	ErrNoAccessToken      = errors.New("authtoken: no access token in response")
)

const (
	DefaultTimeout = 10 * time.Second
	// defaultTokenTTL caches opaque tokens that carry no expiry information
	// at all; the buffer below still trims it.
	defaultTokenTTL      = time.Minute
	tokenExpiryBuffer    = 30 * time.Second
	headerContentType    = "Content-Type"
	contentTypeForm      = "application/x-www-form-urlencoded"
	grantTypeCredentials = "client_credentials"
)

//nolint:tagliatelle
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type Client struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

func New(tokenURL, clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{ //nolint:exhaustruct
			Timeout: DefaultTimeout,
		},
		mu:          sync.RWMutex{},
		accessToken: "",
		expiresAt:   time.Time{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) GetToken(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		token := c.accessToken
		c.mu.RUnlock()

		return token, nil
	}
	c.mu.RUnlock()

	return c.refreshToken(ctx)
}

func (c *Client) refreshToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine might have refreshed)
	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	token, expiresAt, err := c.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	c.accessToken = token
	// Refresh before actual expiry to avoid edge cases
	c.expiresAt = expiresAt.Add(-tokenExpiryBuffer)

	return c.accessToken, nil
}

func (c *Client) fetchToken(ctx context.Context) (string, time.Time, error) {
	data := url.Values{}
	data.Set("grant_type", grantTypeCredentials)
	data.Set("client_id", c.clientID)
	data.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.tokenURL,
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set(headerContentType, contentTypeForm)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to fetch token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("%w: status %d", ErrTokenRequestFailed, resp.StatusCode)
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return "", time.Time{}, ErrNoAccessToken
	}

	return tokenResp.AccessToken, tokenExpiry(tokenResp), nil
}

// tokenExpiry prefers the endpoint's expires_in; if absent it reads the exp
// claim out of the token itself. Signature verification is not needed here,
// the claim is only a cache hint.
func tokenExpiry(tokenResp tokenResponse) time.Time {
	if tokenResp.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}

	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(tokenResp.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}

	return time.Now().Add(defaultTokenTTL)
}

func (c *Client) InvalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accessToken = ""
	c.expiresAt = time.Time{}
}
