package cli

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeysList_CompactsRedactedValue(t *testing.T) {
	rec := &requestRecorder{}
	srv := httptest.NewServer(jsonHandler(rec, 200,
		`{"data":[{"id":"key_1","name":"ci","redacted_value":"sk-svcacct-************************abcd","created_at":1731456000,"owner":{"type":"service_account","name":"ci-bot"}}],"has_more":false}`))
	defer srv.Close()

	rootCmd := newTestRootCmd(t, srv)
	rootCmd.SetArgs([]string{"--host", srv.URL, "keys", "list", "proj_1"})

	restore := captureStdout(t)
	err := rootCmd.Execute()
	out := restore()
	require.NoError(t, err)

	assert.Equal(t, "/projects/proj_1/api_keys", rec.last().Path)
	assert.Contains(t, out, "sk-svcacct-*****abcd")
	assert.NotContains(t, out, "************")
	assert.Contains(t, out, "ci-bot (service_account)")
}

func TestKeysListAdmin(t *testing.T) {
	rec := &requestRecorder{}
	srv := httptest.NewServer(jsonHandler(rec, 200,
		`{"data":[{"id":"key_adm","name":"admin","redacted_value":"sk-admin-****xyz","created_at":1731456000}],"has_more":false}`))
	defer srv.Close()

	rootCmd := newTestRootCmd(t, srv)
	rootCmd.SetArgs([]string{"--host", srv.URL, "keys", "list-admin"})

	restore := captureStdout(t)
	err := rootCmd.Execute()
	out := restore()
	require.NoError(t, err)

	assert.Equal(t, "/admin_api_keys", rec.last().Path)
	assert.Contains(t, out, "key_adm")
}

func TestKeysGet_LastUsedNA(t *testing.T) {
	rec := &requestRecorder{}
	srv := httptest.NewServer(jsonHandler(rec, 200,
		`{"id":"key_1","name":"ci","redacted_value":"sk-****","created_at":1731456000}`))
	defer srv.Close()

	rootCmd := newTestRootCmd(t, srv)
	rootCmd.SetArgs([]string{"--host", srv.URL, "keys", "get", "proj_1", "key_1"})

	restore := captureStdout(t)
	err := rootCmd.Execute()
	out := restore()
	require.NoError(t, err)

	assert.Equal(t, "/projects/proj_1/api_keys/key_1", rec.last().Path)
	assert.Contains(t, out, "N/A")
}

func TestKeysDelete_Forced(t *testing.T) {
	rec := &requestRecorder{}
	srv := httptest.NewServer(jsonHandler(rec, 200, `{"deleted":true}`))
	defer srv.Close()

	rootCmd := newTestRootCmd(t, srv)
	rootCmd.SetArgs([]string{"--host", srv.URL, "keys", "delete", "proj_1", "key_1", "--force"})

	restore := captureStdout(t)
	err := rootCmd.Execute()
	out := restore()
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, rec.last().Method)
	assert.Equal(t, "/projects/proj_1/api_keys/key_1", rec.last().Path)
	assert.Contains(t, out, "revoked")
}

func TestKeysDelete_RequiresForce(t *testing.T) {
	rec := &requestRecorder{}
	srv := httptest.NewServer(jsonHandler(rec, 200, `{}`))
	defer srv.Close()

	rootCmd := newTestRootCmd(t, srv)
	rootCmd.SetArgs([]string{"--host", srv.URL, "keys", "delete", "proj_1", "key_1"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, 0, rec.count())
}
