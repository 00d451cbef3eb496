package scm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/NCAR/cirrus-portal/pkg/chart"
	"github.com/NCAR/cirrus-portal/pkg/errors"
)

// DefaultBaseBranch is the branch pull requests target when the request
// does not name one.
const DefaultBaseBranch = "main"

// PublishRequest describes one chart publication.
type PublishRequest struct {
	// RepoURL is the https://github.com/ URL of the target repository.
	RepoURL string
	// BaseBranch is the pull request target, defaulting to main.
	BaseBranch string
	// AppName is the chart's application name; it determines the branch
	// name and the helm/<app>/ path prefix.
	AppName string
	// AddonNames are the display names of the enabled add-ons, listed in
	// the pull request body.
	AddonNames []string
	// Files is the generated chart.
	Files chart.FileSet
}

// Publish pushes the chart files to a new branch and opens a pull request,
// returning its browser URL. Files already present on the branch are
// updated in place. Commits that landed before a failure are left on the
// branch; the pull request is simply not opened.
func Publish(ctx context.Context, sc SourceControl, req PublishRequest) (string, error) {
	repo, err := ParseRepoURL(req.RepoURL)
	if err != nil {
		return "", err
	}

	base := req.BaseBranch
	if base == "" {
		base = DefaultBaseBranch
	}
	branch := "add-helm-chart-" + req.AppName

	sha, err := sc.ResolveHead(ctx, repo, base)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeUpstream, "resolving base branch", err,
			map[string]any{"repo": repo, "branch": base})
	}
	if err := sc.CreateBranch(ctx, repo, branch, sha); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeUpstream, "creating chart branch", err,
			map[string]any{"repo": repo, "branch": branch})
	}

	for _, path := range req.Files.SortedPaths() {
		fullPath := fmt.Sprintf("helm/%s/%s", req.AppName, path)
		content := req.Files[path]

		existingSHA, found, err := sc.GetFile(ctx, repo, fullPath, branch)
		if err != nil {
			return "", errors.WrapWithContext(errors.ErrCodeUpstream, "checking existing file", err,
				map[string]any{"path": fullPath})
		}
		if found {
			err = sc.UpdateFile(ctx, repo, fullPath, branch, "Update "+path, content, existingSHA)
		} else {
			err = sc.CreateFile(ctx, repo, fullPath, branch, "Add "+path, content)
		}
		if err != nil {
			return "", errors.WrapWithContext(errors.ErrCodeUpstream, "committing chart file", err,
				map[string]any{"path": fullPath})
		}
	}

	prURL, err := sc.OpenPullRequest(ctx, repo,
		fmt.Sprintf("Add modular Helm chart for %s", req.AppName),
		pullRequestBody(req.AppName, req.AddonNames),
		branch, base)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeUpstream, "opening pull request", err,
			map[string]any{"repo": repo, "branch": branch})
	}

	slog.Info("chart pull request opened",
		"repo", repo,
		"branch", branch,
		"files", len(req.Files),
		"url", prURL,
	)
	return prURL, nil
}

func pullRequestBody(appName string, addonNames []string) string {
	addons := "None"
	if len(addonNames) > 0 {
		addons = strings.Join(addonNames, ", ")
	}
	return fmt.Sprintf(`Generated modular Helm chart for **%s**

**Enabled add-ons:** %s

Generated using CIRRUS Modular Helm Chart Generator`, appName, addons)
}
