package discovery_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/andyle182810/gapiclient/apierror"
	"github.com/andyle182810/gapiclient/discovery"
	"github.com/andyle182810/gapiclient/drive"
	"github.com/andyle182810/gapiclient/oauthinfo"
	"github.com/andyle182810/gapiclient/testutil"
	"github.com/andyle182810/gapiclient/transport"
	"github.com/andyle182810/gapiclient/urlshortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discoverClient(t *testing.T, fake *testutil.FakeAPI, api, version string) *discovery.Client {
	t.Helper()

	loader := discovery.NewLoader(fake.URL())

	client, err := loader.Discover(t.Context(), api, version)
	require.NoError(t, err)

	return client
}

func TestClient_CallFilesList(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeAPI(t)
	client := discoverClient(t, fake, "drive", "v2")

	var list map[string]any
	err := client.Call(t.Context(), "files.list", discovery.Params{
		Query: map[string]string{"q": "hello"},
	}, &list)

	require.NoError(t, err)
	require.Equal(t, "drive#fileList", list["kind"])

	last := fake.Last()
	require.Equal(t, http.MethodGet, last.Method)
	require.Equal(t, "/drive/v2/files", last.Path)
	require.Equal(t, "hello", last.Query.Get("q"))
}

func TestClient_CallMergesHeadersVerbatim(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeAPI(t)
	client := discoverClient(t, fake, "drive", "v2")

	err := client.Call(t.Context(), "files.list", discovery.Params{
		Headers: map[string]string{"If-None-Match": "12345"},
	}, nil)

	require.NoError(t, err)
	require.Equal(t, "12345", fake.Last().Header.Get("If-None-Match"))
}

func TestClient_CallInsertSetsJSONContentType(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeAPI(t)
	client := discoverClient(t, fake, "drive", "v2")

	var comment map[string]any
	err := client.Call(t.Context(), "comments.insert", discovery.Params{
		Path:     map[string]string{"fileId": "a"},
		Resource: map[string]string{"content": "hello world"},
	}, &comment)

	require.NoError(t, err)
	require.Equal(t, "hello world", comment["content"])

	last := fake.Last()
	require.Equal(t, "/drive/v2/files/a/comments", last.Path)
	require.True(t, strings.HasPrefix(last.Header.Get("Content-Type"), "application/json"))
}

func TestClient_CallGetAndDeleteNeverSendBody(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeAPI(t)
	client := discoverClient(t, fake, "drive", "v2")

	// Even a mistakenly supplied resource must not become a request body.
	err := client.Call(t.Context(), "files.list", discovery.Params{
		Resource: map[string]string{"title": "oops"},
	}, nil)
	require.NoError(t, err)

	last := fake.Last()
	assert.Empty(t, last.Body)
	assert.Empty(t, last.Header.Get("Content-Type"))

	err = client.Call(t.Context(), "files.delete", discovery.Params{
		Path:     map[string]string{"fileId": "test"},
		Resource: map[string]string{"title": "oops"},
	}, nil)
	require.NoError(t, err)

	last = fake.Last()
	require.Equal(t, http.MethodDelete, last.Method)
	require.Equal(t, "/drive/v2/files/test", last.Path)
	assert.Empty(t, last.Body)
	assert.Empty(t, last.Header.Get("Content-Type"))
}

func TestClient_CallUnknownMethodFails(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeAPI(t)
	client := discoverClient(t, fake, "drive", "v2")

	err := client.Call(t.Context(), "files.explode", discovery.Params{}, nil)

	require.ErrorIs(t, err, discovery.ErrMethodNotFound)
}

func TestClient_CallRejectsUnknownHTTPMethod(t *testing.T) {
	t.Parallel()

	doc := &discovery.Document{
		Name:    "broken",
		Version: "v1",
		BaseURL: "https://www.googleapis.com",
		Methods: map[string]discovery.Method{
			"explode": {ID: "broken.explode", Path: "explode", HTTPMethod: "BOGUS"},
		},
	}

	client := discovery.NewClient(doc, transport.New(doc.Base()))

	err := client.Call(t.Context(), "explode", discovery.Params{}, nil)

	require.ErrorIs(t, err, discovery.ErrUnknownHTTPMethod)
}

func TestClient_CallMissingPathParamFails(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeAPI(t)
	client := discoverClient(t, fake, "drive", "v2")

	err := client.Call(t.Context(), "files.delete", discovery.Params{}, nil)

	require.ErrorIs(t, err, discovery.ErrMissingPathParam)
}

func TestCallJSON_DecodesTypedResult(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeAPI(t)
	client := discoverClient(t, fake, "oauth2", "v2")

	info, err := discovery.CallJSON[map[string]any](t.Context(), client, "tokeninfo", discovery.Params{
		Query: map[string]string{"access_token": "hello"},
	})

	require.NoError(t, err)
	require.Equal(t, "hello", info["audience"])
}

// errorScenario is one upstream error fixture and the normalized error it
// must produce, regardless of how the client was bound.
type errorScenario struct {
	name        string
	status      int
	body        string
	wantCode    int
	wantMessage string
	wantReasons []string
}

func errorScenarios() []errorScenario {
	return []errorScenario{
		{
			name:        "structured object error",
			status:      400,
			body:        `{"error":{"code":400,"message":"Error!"}}`,
			wantCode:    400,
			wantMessage: "Error!",
			wantReasons: nil,
		},
		{
			name:        "oauth flat error",
			status:      400,
			body:        `{"error":"invalid_grant","error_description":"Code was already redeemed."}`,
			wantCode:    400,
			wantMessage: "invalid_grant",
			wantReasons: nil,
		},
		{
			name:        "bare string error",
			status:      500,
			body:        "There was an error!",
			wantCode:    500,
			wantMessage: "There was an error!",
			wantReasons: nil,
		},
		{
			name:        "object error without inner code",
			status:      500,
			body:        `{"error":{"message":"There was an error!"}}`,
			wantCode:    500,
			wantMessage: "There was an error!",
			wantReasons: nil,
		},
		{
			name:        "backend error list",
			status:      500,
			body:        `{"error":{"errors":[{"domain":"global","reason":"backendError","message":"There was an error!"}],"code":500,"message":"There was an error!"}}`,
			wantCode:    500,
			wantMessage: "There was an error!",
			wantReasons: []string{"backendError"},
		},
	}
}

func assertScenario(t *testing.T, scenario errorScenario, err error) {
	t.Helper()

	apiErr, ok := apierror.AsAPIError(err)
	require.True(t, ok, "expected a normalized API error, got %v", err)
	assert.Equal(t, scenario.wantCode, apiErr.Code)
	assert.Equal(t, scenario.wantMessage, apiErr.Message)

	reasons := make([]string, 0, len(apiErr.Errors))
	for _, item := range apiErr.Errors {
		reasons = append(reasons, item.Reason)
	}

	if len(scenario.wantReasons) == 0 {
		assert.Empty(t, reasons)
	} else {
		assert.Equal(t, scenario.wantReasons, reasons)
	}
}

// Every error scenario must normalize identically whether the client was
// statically bound or discovered at runtime.
func TestErrorNormalization_StaticAndDiscoveredClientsAgree(t *testing.T) {
	t.Parallel()

	type binding struct {
		name string
		call func(t *testing.T, fake *testutil.FakeAPI) error
	}

	bindings := []binding{
		{
			name: "static drive files.list",
			call: func(t *testing.T, fake *testutil.FakeAPI) error {
				svc := drive.NewService(transport.New(fake.URL()))
				_, err := svc.Files.List(t.Context(), transport.WithQuery("q", "hello"))

				return err
			},
		},
		{
			name: "static drive comments.insert",
			call: func(t *testing.T, fake *testutil.FakeAPI) error {
				svc := drive.NewService(transport.New(fake.URL()))
				_, err := svc.Comments.Insert(t.Context(), "a", &drive.Comment{Content: "Hello world"})

				return err
			},
		},
		{
			name: "static drive files.delete",
			call: func(t *testing.T, fake *testutil.FakeAPI) error {
				svc := drive.NewService(transport.New(fake.URL()))

				return svc.Files.Delete(t.Context(), "test")
			},
		},
		{
			name: "static oauth2 tokeninfo",
			call: func(t *testing.T, fake *testutil.FakeAPI) error {
				svc := oauthinfo.NewService(transport.New(fake.URL()))
				_, err := svc.Tokeninfo(t.Context(), "hello")

				return err
			},
		},
		{
			name: "static urlshortener url.insert",
			call: func(t *testing.T, fake *testutil.FakeAPI) error {
				svc := urlshortener.NewService(transport.New(fake.URL()))
				_, err := svc.URL.Insert(t.Context(), &urlshortener.URL{LongURL: "http://example.com/long"})

				return err
			},
		},
		{
			name: "discovered drive files.list",
			call: func(t *testing.T, fake *testutil.FakeAPI) error {
				client := discoverClient(t, fake, "drive", "v2")

				return client.Call(t.Context(), "files.list", discovery.Params{
					Query: map[string]string{"q": "hello"},
				}, nil)
			},
		},
		{
			name: "discovered drive comments.insert",
			call: func(t *testing.T, fake *testutil.FakeAPI) error {
				client := discoverClient(t, fake, "drive", "v2")

				return client.Call(t.Context(), "comments.insert", discovery.Params{
					Path:     map[string]string{"fileId": "a"},
					Resource: map[string]string{"content": "Hello world"},
				}, nil)
			},
		},
		{
			name: "discovered drive files.delete",
			call: func(t *testing.T, fake *testutil.FakeAPI) error {
				client := discoverClient(t, fake, "drive", "v2")

				return client.Call(t.Context(), "files.delete", discovery.Params{
					Path: map[string]string{"fileId": "test"},
				}, nil)
			},
		},
		{
			name: "discovered oauth2 tokeninfo",
			call: func(t *testing.T, fake *testutil.FakeAPI) error {
				client := discoverClient(t, fake, "oauth2", "v2")

				return client.Call(t.Context(), "tokeninfo", discovery.Params{
					Query: map[string]string{"access_token": "hello"},
				}, nil)
			},
		},
		{
			name: "discovered urlshortener url.insert",
			call: func(t *testing.T, fake *testutil.FakeAPI) error {
				client := discoverClient(t, fake, "urlshortener", "v1")

				return client.Call(t.Context(), "url.insert", discovery.Params{
					Resource: map[string]string{"longUrl": "http://example.com/long"},
				}, nil)
			},
		},
	}

	for _, scenario := range errorScenarios() {
		for _, bind := range bindings {
			t.Run(scenario.name+"/"+bind.name, func(t *testing.T) {
				t.Parallel()

				fake := testutil.NewFakeAPI(t)

				// Only API routes are forced to fail; discovery documents
				// keep being served so runtime binding still succeeds.
				fake.FailWith(scenario.status, scenario.body)

				err := bind.call(t, fake)

				assertScenario(t, scenario, err)
			})
		}
	}
}
