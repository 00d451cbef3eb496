package chart

import (
	"strings"
	"text/template"
	"time"
)

var readmeTmpl = template.Must(template.ParseFS(templateFS, "templates/README.md.tmpl"))

type readmeData struct {
	Name           string
	FQDN           string
	IngressEnabled bool
	Access         Access
	Replicas       int
	Port           int
	ImageRepo      string
	ImageTag       string
	Components     []string
	HasDatabase    bool
	NFSReadOnly    bool
	Date           string
}

// renderReadme builds the chart README: deployment summary, a component line
// per enabled add-on in registry order, and operational run-book sections.
func renderReadme(cfg AppConfig, sel Selection, reg *Registry, now time.Time) (string, error) {
	repo, tag := cfg.SplitImage()

	fqdn := cfg.Domain
	if !cfg.IngressEnabled {
		fqdn = cfg.Name + internalDomainSuffix
	}

	var components []string
	for _, def := range reg.All() {
		if sel.Enabled(def.ID) {
			components = append(components, def.Summary(sel.Values))
		}
	}

	data := readmeData{
		Name:           cfg.Name,
		FQDN:           fqdn,
		IngressEnabled: cfg.IngressEnabled,
		Access:         cfg.IngressAccess,
		Replicas:       cfg.Replicas,
		Port:           cfg.Port,
		ImageRepo:      repo,
		ImageTag:       tag,
		Components:     components,
		HasDatabase:    sel.Enabled(AddonCNPG),
		NFSReadOnly:    sel.Enabled(AddonNFS) && sel.Values.Bool("nfs_readonly", false),
		Date:           now.Format("2006-01-02 15:04"),
	}

	var b strings.Builder
	if err := readmeTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
