package discovery

import (
	"context"
	"fmt"
	"net/http"

	"github.com/andyle182810/gapiclient/transport"
)

// Params carries the per-call inputs of a dynamically invoked method.
type Params struct {
	// Path holds values for {placeholder} segments of the method path.
	Path map[string]string
	// Query is appended to the request URL.
	Query map[string]string
	// Headers is merged into the outgoing request verbatim.
	Headers map[string]string
	// Resource is the JSON request payload for insert-style methods.
	Resource any
}

// Client is a dynamically discovered API client. All calls are routed
// through the same transport as statically bound clients, so headers,
// content types and error normalization behave identically.
type Client struct {
	doc       *Document
	transport *transport.Client
}

func NewClient(doc *Document, t *transport.Client) *Client {
	return &Client{doc: doc, transport: t}
}

func (c *Client) Document() *Document {
	return c.doc
}

// Call invokes a method by its dotted ID, e.g. "files.list" or "tokeninfo".
// GET and DELETE methods never send a resource even if one is supplied.
func (c *Client) Call(ctx context.Context, methodID string, params Params, result any) error {
	method, err := c.doc.Lookup(methodID)
	if err != nil {
		return err
	}

	// Hand-built documents bypass loader validation, so guard here too.
	switch method.HTTPMethod {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownHTTPMethod, method.HTTPMethod)
	}

	path, err := method.ExpandPath(params.Path)
	if err != nil {
		return err
	}

	opts := make([]transport.CallOption, 0, 2)

	if len(params.Query) > 0 {
		opts = append(opts, transport.WithQueryParams(params.Query))
	}

	if len(params.Headers) > 0 {
		opts = append(opts, transport.WithHeaders(params.Headers))
	}

	resource := params.Resource
	if method.HTTPMethod == http.MethodGet || method.HTTPMethod == http.MethodDelete {
		resource = nil
	}

	return c.transport.Do(ctx, method.HTTPMethod, path, resource, result, opts...)
}

// CallJSON is the generic variant of Call.
//
//nolint:ireturn
func CallJSON[T any](ctx context.Context, c *Client, methodID string, params Params) (T, error) {
	var result T
	err := c.Call(ctx, methodID, params, &result)

	return result, err
}
