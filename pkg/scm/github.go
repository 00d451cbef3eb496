package scm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NCAR/cirrus-portal/pkg/errors"
)

const (
	defaultGitHubAPI = "https://api.github.com"

	githubTimeout = 15 * time.Second
)

// GitHubClient implements SourceControl against the GitHub REST v3 API.
type GitHubClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// GitHubOption customizes a GitHubClient.
type GitHubOption func(*GitHubClient)

// WithBaseURL points the client at a different API endpoint, for GitHub
// Enterprise or tests.
func WithBaseURL(u string) GitHubOption {
	return func(c *GitHubClient) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) GitHubOption {
	return func(c *GitHubClient) {
		c.client = hc
	}
}

// NewGitHubClient creates a client authenticating with the given token.
func NewGitHubClient(token string, opts ...GitHubOption) *GitHubClient {
	c := &GitHubClient{
		baseURL: defaultGitHubAPI,
		token:   token,
		client:  &http.Client{Timeout: githubTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseRepoURL extracts the "owner/name" path from a github.com repository
// URL. Only https://github.com/ URLs are accepted.
func ParseRepoURL(repoURL string) (string, error) {
	const prefix = "https://github.com/"
	if !strings.HasPrefix(repoURL, prefix) {
		return "", errors.NewWithContext(errors.ErrCodeValidation,
			"repository URL must start with https://github.com/", map[string]any{"url": repoURL})
	}
	repo := strings.TrimSuffix(strings.TrimPrefix(repoURL, prefix), ".git")
	repo = strings.Trim(repo, "/")
	if strings.Count(repo, "/") != 1 {
		return "", errors.NewWithContext(errors.ErrCodeValidation,
			"repository URL must name owner and repository", map[string]any{"url": repoURL})
	}
	return repo, nil
}

func (c *GitHubClient) ResolveHead(ctx context.Context, repo, branch string) (string, error) {
	var out struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	path := fmt.Sprintf("/repos/%s/git/ref/heads/%s", repo, branch)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.Object.SHA, nil
}

func (c *GitHubClient) CreateBranch(ctx context.Context, repo, branch, sha string) error {
	body := map[string]string{
		"ref": "refs/heads/" + branch,
		"sha": sha,
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/git/refs", repo), body, nil)
}

func (c *GitHubClient) GetFile(ctx context.Context, repo, path, branch string) (string, bool, error) {
	var out struct {
		SHA string `json:"sha"`
	}
	reqPath := fmt.Sprintf("/repos/%s/contents/%s?ref=%s", repo, path, url.QueryEscape(branch))
	err := c.do(ctx, http.MethodGet, reqPath, nil, &out)
	if err != nil {
		if errors.CodeOf(err) == errors.ErrCodeNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return out.SHA, true, nil
}

func (c *GitHubClient) CreateFile(ctx context.Context, repo, path, branch, message, content string) error {
	body := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
		"branch":  branch,
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/repos/%s/contents/%s", repo, path), body, nil)
}

func (c *GitHubClient) UpdateFile(ctx context.Context, repo, path, branch, message, content, sha string) error {
	body := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
		"branch":  branch,
		"sha":     sha,
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/repos/%s/contents/%s", repo, path), body, nil)
}

func (c *GitHubClient) OpenPullRequest(ctx context.Context, repo, title, body, head, base string) (string, error) {
	req := map[string]string{
		"title": title,
		"body":  body,
		"head":  head,
		"base":  base,
	}
	var out struct {
		HTMLURL string `json:"html_url"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/pulls", repo), req, &out); err != nil {
		return "", err
	}
	return out.HTMLURL, nil
}

// do issues one API request, encoding body as JSON when present and
// decoding the response into out when non-nil.
func (c *GitHubClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "encoding request body", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "building request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeUpstream, "calling GitHub API", err,
			map[string]any{"method": method, "path": path})
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.NewWithContext(errors.ErrCodeNotFound, "GitHub resource not found",
			map[string]any{"method": method, "path": path})
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return errors.NewWithContext(errors.ErrCodeUpstream, "GitHub API request failed",
			map[string]any{
				"method": method,
				"path":   path,
				"status": resp.StatusCode,
				"detail": strings.TrimSpace(string(detail)),
			})
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(errors.ErrCodeUpstream, "decoding GitHub response", err)
		}
	}
	return nil
}
