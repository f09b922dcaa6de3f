// Package oauthinfo is a statically bound client for the oauth2 v2
// tokeninfo endpoint.
package oauthinfo

import (
	"context"

	"github.com/andyle182810/gapiclient/transport"
)

const tokeninfoPath = "/oauth2/v2/tokeninfo"

//nolint:tagliatelle
type Tokeninfo struct {
	IssuedTo      string `json:"issued_to,omitempty"`
	Audience      string `json:"audience,omitempty"`
	Scope         string `json:"scope,omitempty"`
	ExpiresIn     int    `json:"expires_in,omitempty"`
	Email         string `json:"email,omitempty"`
	VerifiedEmail bool   `json:"verified_email,omitempty"`
}

type Service struct {
	transport *transport.Client
}

func NewService(t *transport.Client) *Service {
	return &Service{transport: t}
}

// Tokeninfo inspects an access token. The token travels as a query
// parameter; the POST carries no body.
func (s *Service) Tokeninfo(ctx context.Context, accessToken string, opts ...transport.CallOption) (*Tokeninfo, error) {
	var info Tokeninfo

	opts = append(opts, transport.WithQuery("access_token", accessToken))
	if err := s.transport.Post(ctx, tokeninfoPath, nil, &info, opts...); err != nil {
		return nil, err
	}

	return &info, nil
}
