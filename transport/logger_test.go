package transport_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andyle182810/gapiclient/logutil"
	"github.com/andyle182810/gapiclient/transport"
	"github.com/stretchr/testify/require"
)

func TestWithLogger_LogsRequestAndResponseAtDebug(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var buf bytes.Buffer

	client := transport.New(server.URL, transport.WithLogger(logutil.NewLogger(&buf, "debug")))

	require.NoError(t, client.Get(t.Context(), "/drive/v2/files", nil))

	logged := buf.String()
	require.Contains(t, logged, "Sending API request")
	require.Contains(t, logged, "Received API response")
}

func TestWithLogger_SuppressesDebugAtInfoLevel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var buf bytes.Buffer

	client := transport.New(server.URL, transport.WithLogger(logutil.NewLogger(&buf, "info")))

	require.NoError(t, client.Get(t.Context(), "/drive/v2/files", nil))

	require.Empty(t, buf.String())
}
