// Package discovery builds callable API clients from remote API descriptions.
// A discovery document lists an API's resources and methods; Client resolves
// dotted method IDs such as "files.list" against the document and issues the
// call through the shared transport, so a discovered client behaves exactly
// like a statically bound one.
package discovery

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrMethodNotFound    = errors.New("discovery: method not found in document")
	ErrMissingPathParam  = errors.New("discovery: missing required path parameter")
	ErrInvalidDocument   = errors.New("discovery: invalid document")
	ErrUnknownHTTPMethod = errors.New("discovery: document declares unknown http method")
)

type Document struct {
	Kind        string              `json:"kind"`
	Name        string              `json:"name"      validate:"required"`
	Version     string              `json:"version"   validate:"required"`
	RootURL     string              `json:"rootUrl"`
	ServicePath string              `json:"servicePath"`
	BaseURL     string              `json:"baseUrl"`
	Methods     map[string]Method   `json:"methods"   validate:"omitempty,dive"`
	Resources   map[string]Resource `json:"resources" validate:"omitempty,dive"`
}

type Resource struct {
	Methods   map[string]Method   `json:"methods"   validate:"omitempty,dive"`
	Resources map[string]Resource `json:"resources" validate:"omitempty,dive"`
}

type Method struct {
	ID         string               `json:"id"`
	Path       string               `json:"path"       validate:"required"`
	HTTPMethod string               `json:"httpMethod" validate:"required,oneof=GET POST PUT PATCH DELETE"`
	Parameters map[string]Parameter `json:"parameters"`
	// Request is set when the method accepts a resource payload.
	Request *MethodRequest `json:"request"`
}

type MethodRequest struct {
	Ref string `json:"$ref"`
}

type Parameter struct {
	Type     string `json:"type"`
	Location string `json:"location"`
	Required bool   `json:"required"`
}

// Base resolves the URL prefix all method paths are relative to.
func (d *Document) Base() string {
	if d.BaseURL != "" {
		return strings.TrimSuffix(d.BaseURL, "/")
	}

	return strings.TrimSuffix(d.RootURL, "/") + "/" + strings.Trim(d.ServicePath, "/")
}

// Lookup resolves a dotted method ID ("files.list", "tokeninfo") by walking
// the document's resource tree.
func (d *Document) Lookup(methodID string) (*Method, error) {
	parts := strings.Split(methodID, ".")

	if len(parts) == 1 {
		if m, ok := d.Methods[parts[0]]; ok {
			return &m, nil
		}

		return nil, fmt.Errorf("%w: %q", ErrMethodNotFound, methodID)
	}

	resources := d.Resources

	for _, name := range parts[:len(parts)-2] {
		res, ok := resources[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMethodNotFound, methodID)
		}

		resources = res.Resources
	}

	res, ok := resources[parts[len(parts)-2]]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMethodNotFound, methodID)
	}

	m, ok := res.Methods[parts[len(parts)-1]]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMethodNotFound, methodID)
	}

	return &m, nil
}

// ExpandPath substitutes {param} placeholders in the method path. Every
// placeholder must have a value; extra values are left to the query string.
func (m *Method) ExpandPath(pathParams map[string]string) (string, error) {
	expanded := m.Path

	for {
		start := strings.Index(expanded, "{")
		if start < 0 {
			break
		}

		end := strings.Index(expanded[start:], "}")
		if end < 0 {
			break
		}

		name := expanded[start+1 : start+end]

		value, ok := pathParams[name]
		if !ok || value == "" {
			return "", fmt.Errorf("%w: %q in %q", ErrMissingPathParam, name, m.Path)
		}

		expanded = expanded[:start] + url.PathEscape(value) + expanded[start+end+1:]
	}

	return expanded, nil
}
