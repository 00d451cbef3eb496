package chart

import (
	"strconv"
	"strings"

	"github.com/distribution/reference"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/NCAR/cirrus-portal/pkg/errors"
)

// Access selects which pre-provisioned ingress class exposes the app.
type Access string

const (
	// AccessExternal exposes the app on the public internet (nginx-external).
	AccessExternal Access = "external"
	// AccessInternal restricts the app to the UCAR network (nginx-internal).
	AccessInternal Access = "internal"
)

// ParseAccess coerces a free-form access value, defaulting to external.
func ParseAccess(s string) Access {
	if Access(strings.TrimSpace(strings.ToLower(s))) == AccessInternal {
		return AccessInternal
	}
	return AccessExternal
}

// Base configuration defaults applied at the form boundary.
const (
	DefaultReplicas = 2
	DefaultPort     = 8080
	DefaultImageTag = "latest"
)

// AppConfig is the base application description. It is constructed once per
// generation request from validated form input and immutable thereafter.
type AppConfig struct {
	// Name is used in resource names and as a path segment; it must be a
	// valid DNS label.
	Name string
	// Image is the container image reference (repository plus optional tag).
	Image string
	// Replicas is the pod replica count.
	Replicas int
	// Port is the container port.
	Port int
	// IngressEnabled controls whether an ingress manifest is emitted.
	IngressEnabled bool
	// IngressAccess switches between public and network-restricted exposure.
	IngressAccess Access
	// Domain is the externally visible FQDN, required when ingress is enabled.
	Domain string
}

// Validate checks the invariants the assembler depends on. It returns a
// VALIDATION error describing the first problem found.
func (c AppConfig) Validate() error {
	if c.Name == "" || c.Image == "" {
		return errors.New(errors.ErrCodeValidation, "app name and image are required")
	}
	if errs := validation.IsDNS1123Label(c.Name); len(errs) > 0 {
		return errors.NewWithContext(errors.ErrCodeValidation,
			"app name must be a valid DNS label", map[string]any{"name": c.Name, "detail": errs[0]})
	}
	if _, err := reference.ParseNormalizedNamed(c.Image); err != nil {
		return errors.WrapWithContext(errors.ErrCodeValidation,
			"invalid container image reference", err, map[string]any{"image": c.Image})
	}
	if c.IngressEnabled && c.Domain == "" {
		return errors.New(errors.ErrCodeValidation, "domain is required when ingress is enabled")
	}
	return nil
}

// SplitImage splits the image reference into repository and tag, defaulting
// the tag to "latest". A colon followed by a slash belongs to a registry
// port, not a tag.
func (c AppConfig) SplitImage() (repo, tag string) {
	if i := strings.LastIndex(c.Image, ":"); i >= 0 && !strings.Contains(c.Image[i+1:], "/") {
		return c.Image[:i], c.Image[i+1:]
	}
	return c.Image, DefaultImageTag
}

// internalDomainSuffix is the cluster's wildcard DNS zone. The certificate
// automation derives secret names by stripping it, so the derivation here
// must match byte for byte.
const internalDomainSuffix = ".k8s.ucar.edu"

// TLSSecretName derives the certificate secret name for a domain: the
// internal suffix is stripped when present, otherwise the first
// dot-separated label is used.
func TLSSecretName(domain string) string {
	host := domain
	if strings.Contains(domain, internalDomainSuffix) {
		host = strings.ReplaceAll(domain, internalDomainSuffix, "")
	} else if i := strings.Index(domain, "."); i >= 0 {
		host = domain[:i]
	}
	return "incommon-cert-" + host
}

// Selection is the set of enabled add-on identifiers plus the raw field
// values the form submitted for them.
type Selection struct {
	Addons []AddonID
	Values Values
}

// Enabled reports whether the given add-on is part of the selection.
func (s Selection) Enabled(id AddonID) bool {
	for _, a := range s.Addons {
		if a == id {
			return true
		}
	}
	return false
}

// Values holds free-form add-on field values as submitted. Accessors coerce
// to typed values with documented defaults rather than failing: the user can
// hand-edit the emitted chart, so best-effort emission beats a hard error.
type Values map[string]string

// String returns the trimmed value for key, or def when absent or blank.
func (v Values) String(key, def string) string {
	s := strings.TrimSpace(v[key])
	if s == "" {
		return def
	}
	return s
}

// Int returns the value for key parsed as an integer, or def when absent
// or unparsable.
func (v Values) Int(key string, def int) int {
	s := strings.TrimSpace(v[key])
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Bool returns the value for key parsed as a boolean, or def when absent
// or unparsable.
func (v Values) Bool(key string, def bool) bool {
	s := strings.TrimSpace(v[key])
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

// Quantity returns the value for key when it parses as a Kubernetes
// resource quantity (e.g. "20Gi", "500m"), or def otherwise. The user's
// original spelling is preserved in the output.
func (v Values) Quantity(key, def string) string {
	s := strings.TrimSpace(v[key])
	if s == "" {
		return def
	}
	if _, err := resource.ParseQuantity(s); err != nil {
		return def
	}
	return s
}

// AccessMode returns the value for key when it is a valid persistent volume
// access mode, or def otherwise.
func (v Values) AccessMode(key, def string) string {
	switch mode := corev1.PersistentVolumeAccessMode(strings.TrimSpace(v[key])); mode {
	case corev1.ReadWriteOnce, corev1.ReadOnlyMany, corev1.ReadWriteMany, corev1.ReadWriteOncePod:
		return string(mode)
	default:
		return def
	}
}
