package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(WithBaseURL(ts.URL))
}

func TestGetUser(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"ada","id":1,"name":"Ada Lovelace","public_repos":7}`))
	}))

	user, err := client.GetUser(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "ada", user.GetLogin())
	assert.Equal(t, "Ada Lovelace", user.GetName())
	assert.Equal(t, 7, user.GetPublicRepos())
}

func TestListRepos(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/repos", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "private", query.Get("visibility"))
		assert.Equal(t, "updated", query.Get("sort"))
		assert.Equal(t, "30", query.Get("per_page"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"engine","full_name":"ada/engine","private":true},{"id":2,"name":"notes","full_name":"ada/notes","private":true}]`))
	}))

	repos, err := client.ListRepos(context.Background(), "tok", "private")
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "ada/engine", repos[0].GetFullName())
	assert.True(t, repos[0].GetPrivate())
}

func TestListReposDefaultsVisibility(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("visibility"))
		_, _ = w.Write([]byte(`[]`))
	}))

	repos, err := client.ListRepos(context.Background(), "tok", "")
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestBadCredentials(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))

	_, err := client.GetUser(context.Background(), "expired")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "get_user", apiErr.Op)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Bad credentials", apiErr.Message)
}
