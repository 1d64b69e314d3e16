package cli

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturedRequest holds details captured from an incoming HTTP request.
type capturedRequest struct {
	Method  string
	Path    string
	Query   string
	Headers http.Header
	Body    string
}

// requestRecorder is a thread-safe recorder for HTTP requests received by httptest servers.
type requestRecorder struct {
	mu       sync.Mutex
	requests []capturedRequest
}

func (r *requestRecorder) record(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()

	body, _ := io.ReadAll(req.Body)
	defer func() { _ = req.Body.Close() }()

	r.requests = append(r.requests, capturedRequest{
		Method:  req.Method,
		Path:    req.URL.Path,
		Query:   req.URL.RawQuery,
		Headers: req.Header.Clone(),
		Body:    string(body),
	})
}

func (r *requestRecorder) last() capturedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.requests) == 0 {
		return capturedRequest{}
	}
	return r.requests[len(r.requests)-1]
}

func (r *requestRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

// newTestRootCmd creates a fresh root command pointed at the given httptest server.
// It isolates HOME so no real config is loaded.
func newTestRootCmd(t *testing.T, srv *httptest.Server) *cobra.Command {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"--host", srv.URL})
	return rootCmd
}

// jsonHandler returns an http.HandlerFunc that records the request and responds
// with the given status code and JSON body.
func jsonHandler(rec *requestRecorder, status int, respBody string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}
}

// === Error propagation ===

func TestCLI_ErrorPropagation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{
			name:   "HTTP 401 unauthorized",
			status: 401,
			body:   `{"error":{"message":"invalid admin key","code":"invalid_api_key"}}`,
		},
		{
			name:   "HTTP 404 not found",
			status: 404,
			body:   `{"error":{"message":"project not found"}}`,
		},
		{
			name:   "HTTP 500 internal error",
			status: 500,
			body:   `{"error":{"message":"internal server error"}}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &requestRecorder{}
			srv := httptest.NewServer(jsonHandler(rec, tc.status, tc.body))
			defer srv.Close()

			rootCmd := newTestRootCmd(t, srv)
			rootCmd.SetArgs([]string{"--host", srv.URL, "users", "list"})

			err := rootCmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "API error")
		})
	}
}

func TestCLI_ConnectionRefused(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"--host", "http://127.0.0.1:1", "users", "list"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute request")
}

func TestCLI_MissingRequiredArg(t *testing.T) {
	rec := &requestRecorder{}
	srv := httptest.NewServer(jsonHandler(rec, 200, `{}`))
	defer srv.Close()

	rootCmd := newTestRootCmd(t, srv)
	rootCmd.SetArgs([]string{"--host", srv.URL, "users", "get"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestCLI_UnsupportedOutputFormat(t *testing.T) {
	rec := &requestRecorder{}
	srv := httptest.NewServer(jsonHandler(rec, 200, `{"data":[]}`))
	defer srv.Close()

	rootCmd := newTestRootCmd(t, srv)
	rootCmd.SetArgs([]string{"--host", srv.URL, "-o", "xml", "users", "list"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

// === Auth and env precedence ===

func TestCLI_AdminKeyHeader(t *testing.T) {
	rec := &requestRecorder{}
	srv := httptest.NewServer(jsonHandler(rec, 200, `{"data":[],"has_more":false}`))
	defer srv.Close()

	rootCmd := newTestRootCmd(t, srv)
	rootCmd.SetArgs([]string{"--host", srv.URL, "--admin-key", "sk-admin-flag", "users", "list"})

	restore := captureStdout(t)
	err := rootCmd.Execute()
	restore()
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-admin-flag", rec.last().Headers.Get("Authorization"))
}

func TestCLI_AdminKeyFromEnv(t *testing.T) {
	rec := &requestRecorder{}
	srv := httptest.NewServer(jsonHandler(rec, 200, `{"data":[],"has_more":false}`))
	defer srv.Close()

	rootCmd := newTestRootCmd(t, srv)
	t.Setenv("ORGADM_ADMIN_KEY", "sk-admin-env")
	rootCmd.SetArgs([]string{"--host", srv.URL, "users", "list"})

	restore := captureStdout(t)
	err := rootCmd.Execute()
	restore()
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-admin-env", rec.last().Headers.Get("Authorization"))
}

func TestCLI_FlagBeatsEnv(t *testing.T) {
	rec := &requestRecorder{}
	srv := httptest.NewServer(jsonHandler(rec, 200, `{"data":[],"has_more":false}`))
	defer srv.Close()

	rootCmd := newTestRootCmd(t, srv)
	t.Setenv("ORGADM_ADMIN_KEY", "sk-admin-env")
	rootCmd.SetArgs([]string{"--host", srv.URL, "--admin-key", "sk-admin-flag", "users", "list"})

	restore := captureStdout(t)
	err := rootCmd.Execute()
	restore()
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-admin-flag", rec.last().Headers.Get("Authorization"))
}

func TestCLI_HostFromProfile(t *testing.T) {
	rec := &requestRecorder{}
	srv := httptest.NewServer(jsonHandler(rec, 200, `{"data":[],"has_more":false}`))
	defer srv.Close()

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	cfg := &UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {Host: srv.URL, AdminKey: "sk-admin-profile"},
		},
	}
	require.NoError(t, SaveUserConfig(cfg))

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"users", "list"})

	restore := captureStdout(t)
	err := rootCmd.Execute()
	restore()
	require.NoError(t, err)

	require.Equal(t, 1, rec.count())
	assert.Equal(t, "Bearer sk-admin-profile", rec.last().Headers.Get("Authorization"))
}

// === Destructive commands without a terminal ===

func TestCLI_DeleteRequiresForceWithoutTerminal(t *testing.T) {
	rec := &requestRecorder{}
	srv := httptest.NewServer(jsonHandler(rec, 200, `{"deleted":true}`))
	defer srv.Close()

	rootCmd := newTestRootCmd(t, srv)
	rootCmd.SetArgs([]string{"--host", srv.URL, "users", "delete", "user_1"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	assert.Equal(t, 0, rec.count(), "nothing is deleted without confirmation")
}
