package tracker

import (
	"context"
	"fmt"

	"github.com/NCAR/cirrus-portal/pkg/errors"
)

// HostingRequest is the intake form for onboarding an application.
type HostingRequest struct {
	SubmitterName  string `json:"submitter_name"`
	SubmitterEmail string `json:"submitter_email"`
	GitHubRepo     string `json:"github_repo"`
	GitHubBranch   string `json:"github_branch"`
	HelmFolder     string `json:"helm_folder"`
	AppURL         string `json:"app_url"`
}

// Validate checks the fields the ticket description depends on.
func (r HostingRequest) Validate() error {
	if r.SubmitterName == "" || r.SubmitterEmail == "" {
		return errors.New(errors.ErrCodeValidation, "submitter name and email are required")
	}
	if r.GitHubRepo == "" {
		return errors.New(errors.ErrCodeValidation, "github repository is required")
	}
	return nil
}

// Description renders the ticket body the operations team reads.
func (r HostingRequest) Description() string {
	return fmt.Sprintf(`Hello,

I have an application that I would like to host.

Submitted by: %s (%s)

Link to GitHub repository: %s
GitHub branch: %s
Helm chart folder: %s
URL to use: %s

Thank you`, r.SubmitterName, r.SubmitterEmail, r.GitHubRepo, r.GitHubBranch, r.HelmFolder, r.AppURL)
}

// Ticket identifies a filed request.
type Ticket struct {
	// Key is the tracker's issue key (e.g. "CCPP-241").
	Key string `json:"key"`
	// URL is the browser link to the issue.
	URL string `json:"url"`
}

// Tracker files hosting requests.
type Tracker interface {
	// File creates a ticket for the request and returns its identity.
	File(ctx context.Context, req HostingRequest) (*Ticket, error)
}
