package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *Server {
	t.Helper()

	server := NewServer("127.0.0.1:0")
	require.NoError(t, server.Start(context.Background()), "Start() error")
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	})
	return server
}

func TestServer_StartAndShutdown(t *testing.T) {
	server := NewServer("127.0.0.1:0")
	assert.Empty(t, server.Addr())

	require.NoError(t, server.Start(context.Background()))
	assert.NotEmpty(t, server.Addr())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, server.Shutdown(shutdownCtx))
}

func TestServer_InvalidAddr(t *testing.T) {
	server := NewServer("not-an-addr")
	require.Error(t, server.Start(context.Background()))
}

func TestServer_Endpoints(t *testing.T) {
	server := startServer(t)
	baseURL := "http://" + server.Addr()

	DetectionPasses.Inc()

	tests := []struct {
		name     string
		endpoint string
		contains string
	}{
		{name: "metrics", endpoint: "/metrics", contains: "wingman_detection_passes_total"},
		{name: "pprof index", endpoint: "/debug/pprof/"},
		{name: "cmdline", endpoint: "/debug/pprof/cmdline"},
		{name: "symbol", endpoint: "/debug/pprof/symbol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(baseURL + tt.endpoint)
			require.NoError(t, err, "GET %s error", tt.endpoint)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			if tt.contains != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), tt.contains)
			}
		})
	}
}
