package scm

import "context"

// SourceControl is the subset of a Git hosting API the publisher needs.
// Implementations resolve refs and manipulate files through the provider's
// HTTP API rather than a local clone.
type SourceControl interface {
	// ResolveHead returns the commit SHA at the tip of branch.
	ResolveHead(ctx context.Context, repo, branch string) (string, error)
	// CreateBranch creates branch pointing at sha. Creating a branch that
	// already exists is an error.
	CreateBranch(ctx context.Context, repo, branch, sha string) error
	// GetFile returns the blob SHA of path on branch, or found=false when
	// the path does not exist there.
	GetFile(ctx context.Context, repo, path, branch string) (sha string, found bool, err error)
	// CreateFile adds a new file on branch.
	CreateFile(ctx context.Context, repo, path, branch, message, content string) error
	// UpdateFile replaces an existing file on branch; sha identifies the
	// blob being replaced.
	UpdateFile(ctx context.Context, repo, path, branch, message, content, sha string) error
	// OpenPullRequest opens a pull request from head into base and returns
	// its browser URL.
	OpenPullRequest(ctx context.Context, repo, title, body, head, base string) (string, error)
}
