package adminapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// === NewClient ===

func TestNewClient_TrailingSlash(t *testing.T) {
	c := NewClient("http://localhost:8080/", "")
	assert.Equal(t, "http://localhost:8080", c.BaseURL)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient("", "sk-admin-test")
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
}

func TestNewClient_SetsTimeout(t *testing.T) {
	c := NewClient("http://localhost:8080", "")
	require.NotNil(t, c.HTTPClient)
	assert.Equal(t, 30*time.Second, c.HTTPClient.Timeout)
}

// === Client.Do ===

func TestDo_BearerAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "sk-admin-secret")
	resp, err := c.Do(http.MethodGet, "/users", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer sk-admin-secret", gotAuth)
}

func TestDo_RequestIDHeader(t *testing.T) {
	var gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	resp, err := c.Do(http.MethodGet, "/users", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.NotEmpty(t, gotRequestID)
}

func TestDo_QueryParams(t *testing.T) {
	var gotRawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	q := url.Values{}
	q.Set("limit", "10")
	q.Set("after", "user-abc")

	resp, err := c.Do(http.MethodGet, "/users", q, nil)
	require.NoError(t, err)
	resp.Body.Close()

	parsed, err := url.ParseQuery(gotRawQuery)
	require.NoError(t, err)
	assert.Equal(t, "10", parsed.Get("limit"))
	assert.Equal(t, "user-abc", parsed.Get("after"))
}

func TestDo_WithBody(t *testing.T) {
	var (
		gotContentType string
		gotBody        []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	resp, err := c.Do(http.MethodPost, "/projects", nil, map[string]string{"name": "inventory"})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "application/json", gotContentType)

	var parsed map[string]string
	require.NoError(t, json.Unmarshal(gotBody, &parsed))
	assert.Equal(t, "inventory", parsed["name"])
}

func TestDo_ConnectionRefused(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "")
	_, err := c.Do(http.MethodGet, "/users", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute request")
}

// === CheckError ===

func TestCheckError_SuccessRange(t *testing.T) {
	for _, status := range []int{200, 201, 204} {
		resp := &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader("")),
		}
		assert.NoError(t, CheckError(resp))
	}
}

func TestCheckError_StructuredError(t *testing.T) {
	body := `{"error":{"message":"invalid admin key","type":"invalid_request_error","code":"invalid_api_key"}}`
	resp := &http.Response{
		StatusCode: 401,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
	err := CheckError(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 401): invalid admin key")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.HTTPStatus)
	assert.Equal(t, "invalid_api_key", apiErr.Code)
}

func TestCheckError_RawBodyFallback(t *testing.T) {
	resp := &http.Response{
		StatusCode: 500,
		Body:       io.NopCloser(strings.NewReader("Internal Server Error")),
	}
	err := CheckError(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 500): Internal Server Error")
}

func TestIsNotFound(t *testing.T) {
	resp := &http.Response{
		StatusCode: 404,
		Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"no such resource"}}`)),
	}
	err := CheckError(resp)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(nil))
}

// === Pagination ===

func TestFetchAllPages_FollowsCursor(t *testing.T) {
	var gotAfters []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		after := r.URL.Query().Get("after")
		gotAfters = append(gotAfters, after)
		w.Header().Set("Content-Type", "application/json")
		switch after {
		case "":
			_, _ = w.Write([]byte(`{"data":[{"id":"sa_1"},{"id":"sa_2"}],"has_more":true,"last_id":"sa_2"}`))
		case "sa_2":
			_, _ = w.Write([]byte(`{"data":[{"id":"sa_3"}],"has_more":false,"last_id":"sa_3"}`))
		default:
			t.Errorf("unexpected after cursor %q", after)
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	items, err := c.fetchAllPages("/projects/proj_1/service_accounts", nil, 0)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, []string{"", "sa_2"}, gotAfters)
}

func TestFetchAllPages_MaxCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"a"},{"id":"b"},{"id":"c"}],"has_more":true,"last_id":"c"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	items, err := c.fetchAllPages("/users", nil, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

// === Typed endpoints ===

func TestListServiceAccounts(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"sa_1","name":"inventory-server-24-11","role":"member","created_at":1731456000}],"has_more":false}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	accounts, err := c.ListServiceAccounts("proj_123", 100)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "/projects/proj_123/service_accounts", gotPath)
	assert.Equal(t, "inventory-server-24-11", accounts[0].Name)
	assert.Equal(t, int64(1731456000), accounts[0].CreatedAt)
}

func TestCreateServiceAccount_ExtractsSecret(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"sa_new","name":"inventory-server-24-12","role":"member","created_at":1733011200,"api_key":{"id":"key_1","value":"sk-svcacct-secret"}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	created, err := c.CreateServiceAccount("proj_123", "inventory-server-24-12")
	require.NoError(t, err)
	require.NotNil(t, created.APIKey)
	assert.Equal(t, "sk-svcacct-secret", created.APIKey.Value)
	assert.Equal(t, "sa_new", created.ID)
}

func TestDeleteServiceAccount_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"service account not found"}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	err := c.DeleteServiceAccount("proj_123", "sa_gone")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
