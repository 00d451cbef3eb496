package scm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NCAR/cirrus-portal/pkg/errors"
)

func TestGitHubClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/NCAR/cirrus-charts/git/ref/heads/main", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"object": map[string]string{"sha": "abc123"},
		})
	})
	mux.HandleFunc("POST /repos/NCAR/cirrus-charts/git/refs", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refs/heads/add-helm-chart-myapp", body["ref"])
		assert.Equal(t, "abc123", body["sha"])
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("GET /repos/NCAR/cirrus-charts/contents/helm/myapp/Chart.yaml", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("PUT /repos/NCAR/cirrus-charts/contents/helm/myapp/Chart.yaml", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Add Chart.yaml", body["message"])
		assert.NotEmpty(t, body["content"])
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("POST /repos/NCAR/cirrus-charts/pulls", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"html_url": "https://github.com/NCAR/cirrus-charts/pull/7",
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewGitHubClient("token123", WithBaseURL(srv.URL))
	ctx := context.Background()

	sha, err := c.ResolveHead(ctx, "NCAR/cirrus-charts", "main")
	require.NoError(t, err)
	assert.Equal(t, "abc123", sha)

	require.NoError(t, c.CreateBranch(ctx, "NCAR/cirrus-charts", "add-helm-chart-myapp", sha))

	_, found, err := c.GetFile(ctx, "NCAR/cirrus-charts", "helm/myapp/Chart.yaml", "add-helm-chart-myapp")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.CreateFile(ctx, "NCAR/cirrus-charts",
		"helm/myapp/Chart.yaml", "add-helm-chart-myapp", "Add Chart.yaml", "apiVersion: v2\n"))

	url, err := c.OpenPullRequest(ctx, "NCAR/cirrus-charts",
		"Add modular Helm chart for myapp", "body", "add-helm-chart-myapp", "main")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/NCAR/cirrus-charts/pull/7", url)
}

func TestGitHubClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewGitHubClient("bad", WithBaseURL(srv.URL))
	_, err := c.ResolveHead(context.Background(), "NCAR/cirrus-charts", "main")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUpstream, errors.CodeOf(err))
}
