package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	"github.com/NCAR/cirrus-portal/pkg/errors"
)

// URIScheme marks an output target as an OCI registry reference
// (e.g. "oci://hub.k8s.ucar.edu/cirrus/myapp:0.1.0").
const URIScheme = "oci://"

// Reference is a parsed chart output target: either an OCI registry
// reference or a local directory path.
type Reference struct {
	IsOCI bool
	// Registry, Repository and Tag are populated when IsOCI is true. An
	// empty Tag means none was specified and the caller applies a default.
	Registry   string
	Repository string
	Tag        string
	// LocalPath is populated when IsOCI is false.
	LocalPath string
}

// ParseOutputTarget classifies an output target string. Targets with the
// oci:// scheme are parsed and validated as image references; anything else
// is a local directory.
func ParseOutputTarget(target string) (*Reference, error) {
	if !strings.HasPrefix(target, URIScheme) {
		return &Reference{LocalPath: target}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	return &Reference{
		IsOCI:      true,
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
		Tag:        tag,
	}, nil
}

// String renders the reference back to its target form.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s%s/%s", URIScheme, r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s%s/%s:%s", URIScheme, r.Registry, r.Repository, r.Tag)
}

// ImageReference returns the Docker-style reference without the scheme, or
// "" for local paths.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy carrying the given tag. Local paths pass through
// unchanged.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	return &Reference{
		IsOCI:      true,
		Registry:   r.Registry,
		Repository: r.Repository,
		Tag:        tag,
	}
}
