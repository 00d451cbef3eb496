package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/NCAR/cirrus-portal/pkg/chart"
	"github.com/NCAR/cirrus-portal/pkg/errors"
)

// ArtifactType is the media type for CIRRUS chart artifacts.
const ArtifactType = "application/vnd.ncar.cirrus.chart"

// PushOptions configures a chart push.
type PushOptions struct {
	Reference *Reference
	// Version annotates the manifest (org.opencontainers.image.version).
	Version string
	// PlainHTTP uses HTTP for the registry connection, for local registries.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushResult describes a pushed chart artifact.
type PushResult struct {
	// Digest is the SHA256 digest of the artifact manifest.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
}

// PushChart materializes the chart under appName/ in a scratch directory and
// pushes it to the registry as a single-layer artifact.
func PushChart(ctx context.Context, appName string, files chart.FileSet, opts PushOptions) (*PushResult, error) {
	if opts.Reference == nil || !opts.Reference.IsOCI {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "OCI reference is required")
	}
	if opts.Reference.Tag == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "tag is required to push a chart")
	}

	tempDir, err := os.MkdirTemp("", "cirrus-chart-*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "creating scratch directory", err)
	}
	defer os.RemoveAll(tempDir)

	if err := WriteDir(filepath.Join(tempDir, appName), files); err != nil {
		return nil, err
	}

	fs, err := file.New(tempDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "creating file store", err)
	}
	defer func() { _ = fs.Close() }()
	fs.TarReproducible = true

	layerDesc, err := fs.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, tempDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "adding chart to store", err)
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType,
		oras.PackManifestOptions{
			Layers: []ociv1.Descriptor{layerDesc},
			ManifestAnnotations: map[string]string{
				"org.opencontainers.image.title":   appName,
				"org.opencontainers.image.version": opts.Version,
				"org.opencontainers.image.vendor":  "NCAR",
			},
		})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "packing chart manifest", err)
	}

	if err := fs.Tag(ctx, manifestDesc, opts.Reference.Tag); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "tagging chart manifest", err)
	}

	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", opts.Reference.Registry, opts.Reference.Repository))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "initializing remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = newAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	desc, err := oras.Copy(ctx, fs, opts.Reference.Tag, repo, opts.Reference.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUpstream, "pushing chart to registry", err,
			map[string]any{"reference": opts.Reference.ImageReference()})
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: opts.Reference.ImageReference(),
	}, nil
}

// WriteDir materializes the file set on disk rooted at dir.
func WriteDir(dir string, files chart.FileSet) error {
	for _, path := range files.SortedPaths() {
		dst := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "creating chart directory", err)
		}
		if err := os.WriteFile(dst, []byte(files[path]), 0o644); err != nil {
			return errors.WrapWithContext(errors.ErrCodeInternal, "writing chart file", err,
				map[string]any{"path": path})
		}
	}
	return nil
}

// newAuthClient builds the registry HTTP client with Docker credential
// support and optional TLS relaxation.
func newAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	return &auth.Client{
		Client:     &http.Client{Transport: transport},
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(credStore),
	}
}
