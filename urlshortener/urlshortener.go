// Package urlshortener is a statically bound client for the urlshortener v1
// url resource.
package urlshortener

import (
	"context"

	"github.com/andyle182810/gapiclient/transport"
)

const urlPath = "/urlshortener/v1/url"

type URL struct {
	Kind    string `json:"kind,omitempty"`
	ID      string `json:"id,omitempty"`
	LongURL string `json:"longUrl,omitempty"`
	Status  string `json:"status,omitempty"`
}

type Service struct {
	URL *URLService
}

func NewService(t *transport.Client) *Service {
	return &Service{URL: &URLService{transport: t}}
}

type URLService struct {
	transport *transport.Client
}

func (s *URLService) Insert(ctx context.Context, u *URL, opts ...transport.CallOption) (*URL, error) {
	var inserted URL
	if err := s.transport.Post(ctx, urlPath, u, &inserted, opts...); err != nil {
		return nil, err
	}

	return &inserted, nil
}
