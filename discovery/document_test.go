package discovery_test

import (
	"net/http"
	"testing"

	"github.com/andyle182810/gapiclient/discovery"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *discovery.Document {
	return &discovery.Document{
		Kind:        "discovery#restDescription",
		Name:        "drive",
		Version:     "v2",
		RootURL:     "https://www.googleapis.com",
		ServicePath: "drive/v2",
		Methods: map[string]discovery.Method{
			"about": {ID: "drive.about", Path: "about", HTTPMethod: http.MethodGet},
		},
		Resources: map[string]discovery.Resource{
			"files": {
				Methods: map[string]discovery.Method{
					"list": {ID: "drive.files.list", Path: "files", HTTPMethod: http.MethodGet},
				},
				Resources: map[string]discovery.Resource{
					"permissions": {
						Methods: map[string]discovery.Method{
							"get": {
								ID:         "drive.files.permissions.get",
								Path:       "files/{fileId}/permissions/{permissionId}",
								HTTPMethod: http.MethodGet,
							},
						},
					},
				},
			},
		},
	}
}

func TestDocument_LookupTopLevelMethod(t *testing.T) {
	t.Parallel()

	method, err := sampleDocument().Lookup("about")

	require.NoError(t, err)
	require.Equal(t, "drive.about", method.ID)
}

func TestDocument_LookupResourceMethod(t *testing.T) {
	t.Parallel()

	method, err := sampleDocument().Lookup("files.list")

	require.NoError(t, err)
	require.Equal(t, http.MethodGet, method.HTTPMethod)
	require.Equal(t, "files", method.Path)
}

func TestDocument_LookupNestedResourceMethod(t *testing.T) {
	t.Parallel()

	method, err := sampleDocument().Lookup("files.permissions.get")

	require.NoError(t, err)
	require.Equal(t, "drive.files.permissions.get", method.ID)
}

func TestDocument_LookupUnknownMethodFails(t *testing.T) {
	t.Parallel()

	doc := sampleDocument()

	for _, id := range []string{"missing", "files.missing", "missing.list", "files.permissions.missing"} {
		_, err := doc.Lookup(id)
		require.ErrorIs(t, err, discovery.ErrMethodNotFound)
	}
}

func TestDocument_BasePrefersBaseURL(t *testing.T) {
	t.Parallel()

	doc := &discovery.Document{
		Name:    "drive",
		Version: "v2",
		BaseURL: "https://www.googleapis.com/drive/v2/",
	}

	require.Equal(t, "https://www.googleapis.com/drive/v2", doc.Base())
}

func TestDocument_BaseJoinsRootURLAndServicePath(t *testing.T) {
	t.Parallel()

	doc := &discovery.Document{
		Name:        "drive",
		Version:     "v2",
		RootURL:     "https://www.googleapis.com/",
		ServicePath: "/drive/v2/",
	}

	require.Equal(t, "https://www.googleapis.com/drive/v2", doc.Base())
}

func TestMethod_ExpandPathSubstitutesPlaceholders(t *testing.T) {
	t.Parallel()

	method := &discovery.Method{
		Path:       "files/{fileId}/permissions/{permissionId}",
		HTTPMethod: http.MethodGet,
	}

	path, err := method.ExpandPath(map[string]string{
		"fileId":       "abc",
		"permissionId": "p1",
	})

	require.NoError(t, err)
	require.Equal(t, "files/abc/permissions/p1", path)
}

func TestMethod_ExpandPathEscapesReservedCharacters(t *testing.T) {
	t.Parallel()

	method := &discovery.Method{Path: "files/{fileId}", HTTPMethod: http.MethodDelete}

	path, err := method.ExpandPath(map[string]string{"fileId": "a/b c"})

	require.NoError(t, err)
	require.Equal(t, "files/a%2Fb%20c", path)
}

func TestMethod_ExpandPathFailsOnMissingParam(t *testing.T) {
	t.Parallel()

	method := &discovery.Method{Path: "files/{fileId}", HTTPMethod: http.MethodDelete}

	_, err := method.ExpandPath(nil)

	require.ErrorIs(t, err, discovery.ErrMissingPathParam)
}

func TestMethod_ExpandPathLeavesPlainPathsAlone(t *testing.T) {
	t.Parallel()

	method := &discovery.Method{Path: "tokeninfo", HTTPMethod: http.MethodPost}

	path, err := method.ExpandPath(nil)

	require.NoError(t, err)
	require.Equal(t, "tokeninfo", path)
}
