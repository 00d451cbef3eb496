package scm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NCAR/cirrus-portal/pkg/chart"
	"github.com/NCAR/cirrus-portal/pkg/errors"
)

type fakeSCM struct {
	headSHA  string
	existing map[string]string

	branches []string
	created  []string
	updated  []string
	prTitle  string
	prBody   string
	prHead   string
	prBase   string
}

func (f *fakeSCM) ResolveHead(_ context.Context, _, _ string) (string, error) {
	return f.headSHA, nil
}

func (f *fakeSCM) CreateBranch(_ context.Context, _, branch, _ string) error {
	f.branches = append(f.branches, branch)
	return nil
}

func (f *fakeSCM) GetFile(_ context.Context, _, path, _ string) (string, bool, error) {
	sha, ok := f.existing[path]
	return sha, ok, nil
}

func (f *fakeSCM) CreateFile(_ context.Context, _, path, _, _, _ string) error {
	f.created = append(f.created, path)
	return nil
}

func (f *fakeSCM) UpdateFile(_ context.Context, _, path, _, _, _, _ string) error {
	f.updated = append(f.updated, path)
	return nil
}

func (f *fakeSCM) OpenPullRequest(_ context.Context, _, title, body, head, base string) (string, error) {
	f.prTitle, f.prBody, f.prHead, f.prBase = title, body, head, base
	return "https://github.com/NCAR/cirrus-charts/pull/42", nil
}

func TestPublish(t *testing.T) {
	files := chart.FileSet{
		"Chart.yaml":  "apiVersion: v2\n",
		"values.yaml": "replicaCount: 2\n",
	}

	t.Run("creates branch, files and pull request", func(t *testing.T) {
		sc := &fakeSCM{headSHA: "abc123"}

		url, err := Publish(context.Background(), sc, PublishRequest{
			RepoURL:    "https://github.com/NCAR/cirrus-charts",
			AppName:    "myapp",
			AddonNames: []string{"CloudNativePG Cluster", "NFS Volume"},
			Files:      files,
		})
		require.NoError(t, err)
		assert.Equal(t, "https://github.com/NCAR/cirrus-charts/pull/42", url)

		assert.Equal(t, []string{"add-helm-chart-myapp"}, sc.branches)
		assert.Equal(t, []string{"helm/myapp/Chart.yaml", "helm/myapp/values.yaml"}, sc.created)
		assert.Empty(t, sc.updated)

		assert.Equal(t, "Add modular Helm chart for myapp", sc.prTitle)
		assert.Contains(t, sc.prBody, "**Enabled add-ons:** CloudNativePG Cluster, NFS Volume")
		assert.Equal(t, "add-helm-chart-myapp", sc.prHead)
		assert.Equal(t, "main", sc.prBase)
	})

	t.Run("updates files that already exist on the branch", func(t *testing.T) {
		sc := &fakeSCM{
			headSHA:  "abc123",
			existing: map[string]string{"helm/myapp/Chart.yaml": "blob1"},
		}

		_, err := Publish(context.Background(), sc, PublishRequest{
			RepoURL: "https://github.com/NCAR/cirrus-charts",
			AppName: "myapp",
			Files:   files,
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"helm/myapp/Chart.yaml"}, sc.updated)
		assert.Equal(t, []string{"helm/myapp/values.yaml"}, sc.created)
	})

	t.Run("no add-ons reads None", func(t *testing.T) {
		sc := &fakeSCM{headSHA: "abc123"}

		_, err := Publish(context.Background(), sc, PublishRequest{
			RepoURL: "https://github.com/NCAR/cirrus-charts",
			AppName: "myapp",
			Files:   files,
		})
		require.NoError(t, err)
		assert.Contains(t, sc.prBody, "**Enabled add-ons:** None")
	})

	t.Run("custom base branch", func(t *testing.T) {
		sc := &fakeSCM{headSHA: "abc123"}

		_, err := Publish(context.Background(), sc, PublishRequest{
			RepoURL:    "https://github.com/NCAR/cirrus-charts",
			BaseBranch: "develop",
			AppName:    "myapp",
			Files:      files,
		})
		require.NoError(t, err)
		assert.Equal(t, "develop", sc.prBase)
	})

	t.Run("rejects non-github URL", func(t *testing.T) {
		_, err := Publish(context.Background(), &fakeSCM{}, PublishRequest{
			RepoURL: "https://gitlab.com/NCAR/cirrus-charts",
			AppName: "myapp",
			Files:   files,
		})
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
	})
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"plain", "https://github.com/NCAR/cirrus-charts", "NCAR/cirrus-charts", false},
		{"dot git suffix", "https://github.com/NCAR/cirrus-charts.git", "NCAR/cirrus-charts", false},
		{"trailing slash", "https://github.com/NCAR/cirrus-charts/", "NCAR/cirrus-charts", false},
		{"not github", "https://example.com/NCAR/cirrus-charts", "", true},
		{"missing repo", "https://github.com/NCAR", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRepoURL(tc.url)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
