package chart

import (
	"sort"
	"time"

	"github.com/NCAR/cirrus-portal/pkg/errors"
)

// FileSet maps forward-slash relative paths to rendered file contents.
type FileSet map[string]string

// SortedPaths returns the file paths in lexicographic order, for
// deterministic iteration when packaging or printing.
func (fs FileSet) SortedPaths() []string {
	paths := make([]string, 0, len(fs))
	for p := range fs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Assembler renders complete chart file sets from a validated configuration
// and add-on selection. It holds no per-request state and is safe for
// concurrent use.
type Assembler struct {
	registry *Registry
	now      func() time.Time
}

// AssemblerOption customizes an Assembler.
type AssemblerOption func(*Assembler)

// WithClock replaces the time source stamped into generated README files.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		a.now = now
	}
}

// NewAssembler creates an assembler over the given registry.
func NewAssembler(reg *Registry, opts ...AssemblerOption) *Assembler {
	a := &Assembler{registry: reg, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble renders the chart. The base files are always present; the ingress
// manifest joins them when ingress is enabled; each enabled add-on
// contributes its fragments in registry order. Unknown add-on IDs fail the
// whole generation before any file is rendered.
func (a *Assembler) Assemble(cfg AppConfig, sel Selection) (FileSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, id := range sel.Addons {
		if _, err := a.registry.Lookup(id); err != nil {
			return nil, err
		}
	}

	readme, err := renderReadme(cfg, sel, a.registry, a.now())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "rendering chart README", err)
	}

	files := FileSet{
		"Chart.yaml":                chartYAML(cfg.Name),
		"values.yaml":               valuesDocument(cfg, sel, a.registry),
		"templates/_helpers.tpl":    helpersTpl(),
		"templates/deployment.yaml": deploymentManifest(sel),
		"templates/service.yaml":    serviceManifest(),
		"README.md":                 readme,
	}
	if cfg.IngressEnabled {
		files["templates/ingress.yaml"] = ingressManifest()
	}

	// Fragments emit in registry order regardless of the order the request
	// listed the add-ons in.
	for _, def := range a.registry.All() {
		if !sel.Enabled(def.ID) {
			continue
		}
		for _, f := range def.Fragments {
			if f.When != nil && !f.When(sel.Values) {
				continue
			}
			files[f.Path] = f.Render(sel.Values)
		}
	}
	return files, nil
}
