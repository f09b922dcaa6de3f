package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/andyle182810/gapiclient/discovery"
	"github.com/labstack/echo/v5"
)

// RecordedRequest is one request as seen by the fake backend.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

type forcedResponse struct {
	status      int
	body        string
	contentType string
}

// FakeAPI serves the drive, oauth2 and urlshortener surfaces plus their
// discovery documents. It records every request for assertions, and can be
// forced into returning a fixed error body on all API routes. Reset clears
// both the recording and the forced response, so fixtures never leak
// between tests.
type FakeAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
	forced   *forcedResponse
}

func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{} //nolint:exhaustruct

	e := echo.New()
	e.Use(f.record)

	e.GET("/discovery/v1/apis/:api/:version/rest", f.handleDiscovery)
	e.GET("/drive/v2/files", f.handleListFiles)
	e.DELETE("/drive/v2/files/:fileId", f.handleDeleteFile)
	e.POST("/drive/v2/files/:fileId/comments", f.handleInsertComment)
	e.POST("/oauth2/v2/tokeninfo", f.handleTokeninfo)
	e.POST("/urlshortener/v1/url", f.handleInsertURL)

	f.server = httptest.NewServer(e)
	t.Cleanup(f.server.Close)

	return f
}

func (f *FakeAPI) URL() string {
	return f.server.URL
}

// FailWith makes every API route answer with the given status and raw body
// until Reset is called. Discovery documents keep being served normally.
func (f *FakeAPI) FailWith(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.forced = &forcedResponse{status: status, body: body, contentType: echo.MIMEApplicationJSON}
}

func (f *FakeAPI) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = nil
	f.forced = nil
}

func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]RecordedRequest(nil), f.requests...)
}

// Last returns the most recent recorded request.
func (f *FakeAPI) Last() RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.requests) == 0 {
		return RecordedRequest{} //nolint:exhaustruct
	}

	return f.requests[len(f.requests)-1]
}

func (f *FakeAPI) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx *echo.Context) error {
		req := ctx.Request()

		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method: req.Method,
			Path:   req.URL.Path,
			Query:  req.URL.Query(),
			Header: req.Header.Clone(),
			Body:   body,
		})
		f.mu.Unlock()

		return next(ctx)
	}
}

func (f *FakeAPI) forcedOrNil() *forcedResponse {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.forced
}

func (f *FakeAPI) handleDiscovery(ctx *echo.Context) error {
	api := ctx.Param("api")
	version := ctx.Param("version")

	doc, ok := f.documents()[api+"/"+version]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown api: "+api+"/"+version)
	}

	return ctx.JSON(http.StatusOK, doc)
}

func (f *FakeAPI) handleListFiles(ctx *echo.Context) error {
	if forced := f.forcedOrNil(); forced != nil {
		return ctx.Blob(forced.status, forced.contentType, []byte(forced.body))
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"kind": "drive#fileList",
		"items": []map[string]any{
			{"kind": "drive#file", "id": "1", "title": "Test file"},
		},
	})
}

func (f *FakeAPI) handleDeleteFile(ctx *echo.Context) error {
	if forced := f.forcedOrNil(); forced != nil {
		return ctx.Blob(forced.status, forced.contentType, []byte(forced.body))
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (f *FakeAPI) handleInsertComment(ctx *echo.Context) error {
	if forced := f.forcedOrNil(); forced != nil {
		return ctx.Blob(forced.status, forced.contentType, []byte(forced.body))
	}

	var comment map[string]any
	if err := ctx.Bind(&comment); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment payload")
	}

	if comment == nil {
		comment = map[string]any{}
	}

	comment["kind"] = "drive#comment"
	comment["commentId"] = "c1"

	return ctx.JSON(http.StatusOK, comment)
}

func (f *FakeAPI) handleTokeninfo(ctx *echo.Context) error {
	if forced := f.forcedOrNil(); forced != nil {
		return ctx.Blob(forced.status, forced.contentType, []byte(forced.body))
	}

	// The audience echoes the access token so callers can verify which
	// token was inspected.
	return ctx.JSON(http.StatusOK, map[string]any{
		"issued_to":      "test-client",
		"audience":       ctx.Request().URL.Query().Get("access_token"),
		"scope":          "https://www.googleapis.com/auth/drive",
		"expires_in":     3600,
		"email":          "user@example.com",
		"verified_email": true,
	})
}

func (f *FakeAPI) handleInsertURL(ctx *echo.Context) error {
	if forced := f.forcedOrNil(); forced != nil {
		return ctx.Blob(forced.status, forced.contentType, []byte(forced.body))
	}

	var u map[string]any
	if err := ctx.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid url payload")
	}

	longURL, _ := u["longUrl"].(string)

	return ctx.JSON(http.StatusOK, map[string]any{
		"kind":    "urlshortener#url",
		"id":      "https://goo.gl/xyz123",
		"longUrl": longURL,
	})
}

// documents returns the discovery documents for the three fake surfaces,
// rooted at this server's URL.
func (f *FakeAPI) documents() map[string]discovery.Document {
	root := f.server.URL

	return map[string]discovery.Document{
		"drive/v2": {
			Kind:        "discovery#restDescription",
			Name:        "drive",
			Version:     "v2",
			RootURL:     root,
			ServicePath: "drive/v2",
			Resources: map[string]discovery.Resource{
				"files": {
					Methods: map[string]discovery.Method{
						"list": {
							ID:         "drive.files.list",
							Path:       "files",
							HTTPMethod: http.MethodGet,
							Parameters: map[string]discovery.Parameter{
								"q": {Type: "string", Location: "query"},
							},
						},
						"delete": {
							ID:         "drive.files.delete",
							Path:       "files/{fileId}",
							HTTPMethod: http.MethodDelete,
							Parameters: map[string]discovery.Parameter{
								"fileId": {Type: "string", Location: "path", Required: true},
							},
						},
					},
				},
				"comments": {
					Methods: map[string]discovery.Method{
						"insert": {
							ID:         "drive.comments.insert",
							Path:       "files/{fileId}/comments",
							HTTPMethod: http.MethodPost,
							Parameters: map[string]discovery.Parameter{
								"fileId": {Type: "string", Location: "path", Required: true},
							},
							Request: &discovery.MethodRequest{Ref: "Comment"},
						},
					},
				},
			},
		},
		"oauth2/v2": {
			Kind:        "discovery#restDescription",
			Name:        "oauth2",
			Version:     "v2",
			RootURL:     root,
			ServicePath: "oauth2/v2",
			Methods: map[string]discovery.Method{
				"tokeninfo": {
					ID:         "oauth2.tokeninfo",
					Path:       "tokeninfo",
					HTTPMethod: http.MethodPost,
					Parameters: map[string]discovery.Parameter{
						"access_token": {Type: "string", Location: "query"},
					},
				},
			},
		},
		"urlshortener/v1": {
			Kind:        "discovery#restDescription",
			Name:        "urlshortener",
			Version:     "v1",
			RootURL:     root,
			ServicePath: "urlshortener/v1",
			Resources: map[string]discovery.Resource{
				"url": {
					Methods: map[string]discovery.Method{
						"insert": {
							ID:         "urlshortener.url.insert",
							Path:       "url",
							HTTPMethod: http.MethodPost,
							Request:    &discovery.MethodRequest{Ref: "Url"},
						},
					},
				},
			},
		},
	}
}
