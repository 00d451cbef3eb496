package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NCAR/cirrus-portal/pkg/errors"
)

// UCAR Jira intake configuration. New hosting requests are stories under
// the user-request epic so the operations team triages them in one place.
const (
	DefaultJiraServer = "https://jira.ucar.edu"

	jiraProjectID = "18470"
	jiraIssueType = "10903"
	jiraEpicField = "customfield_10281"
	jiraEpicLink  = "CCPP-108"

	jiraSummary = "Add new application to CIRRUS"

	jiraTimeout = 15 * time.Second
)

// JiraTracker files hosting requests on a Jira instance using personal
// access token (Bearer) authentication.
type JiraTracker struct {
	server string
	token  string
	client *http.Client
}

// JiraOption customizes a JiraTracker.
type JiraOption func(*JiraTracker)

// WithServer points the tracker at a different Jira instance, for tests.
func WithServer(server string) JiraOption {
	return func(t *JiraTracker) {
		t.server = strings.TrimSuffix(server, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) JiraOption {
	return func(t *JiraTracker) {
		t.client = hc
	}
}

// NewJiraTracker creates a tracker authenticating with the given token.
func NewJiraTracker(token string, opts ...JiraOption) *JiraTracker {
	t := &JiraTracker{
		server: DefaultJiraServer,
		token:  token,
		client: &http.Client{Timeout: jiraTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// File implements Tracker.
func (t *JiraTracker) File(ctx context.Context, req HostingRequest) (*Ticket, error) {
	if t.token == "" {
		return nil, errors.New(errors.ErrCodeInternal, "issue tracker token is not configured")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"project":     map[string]string{"id": jiraProjectID},
		"summary":     jiraSummary,
		"description": req.Description(),
		"issuetype":   map[string]string{"id": jiraIssueType},
		jiraEpicField: jiraEpicLink,
	}
	payload, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "encoding issue payload", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.server+"/rest/api/2/issue", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "building issue request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+t.token)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUpstream, "calling issue tracker", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, errors.NewWithContext(errors.ErrCodeUpstream, "issue tracker rejected request",
			map[string]any{
				"status": resp.StatusCode,
				"detail": strings.TrimSpace(string(detail)),
			})
	}

	var out struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUpstream, "decoding issue response", err)
	}

	return &Ticket{
		Key: out.Key,
		URL: t.server + "/browse/" + out.Key,
	}, nil
}
