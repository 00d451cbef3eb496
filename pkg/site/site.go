package site

import (
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/NCAR/cirrus-portal/pkg/errors"
)

// App is one hosted application on the portal listing.
type App struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url" yaml:"url"`
	Category    string `json:"category" yaml:"category"`
}

// Category groups hosted applications for display.
type Category struct {
	// ID is the category key as written in apps.yaml.
	ID string `json:"id"`
	// DisplayName is the human form shown on the portal.
	DisplayName string `json:"display_name"`
	Apps        []App  `json:"apps"`
}

// StatusPage identifies one uptime-kuma status page to aggregate.
type StatusPage struct {
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

// MonitorConfig is the uptime monitor roster.
type MonitorConfig struct {
	UptimeKumaURL string       `json:"uptime_kuma_url" yaml:"uptime_kuma_url"`
	StatusPages   []StatusPage `json:"status_pages" yaml:"status_pages"`
}

var titleCaser = cases.Title(language.English)

// LoadApps reads the hosted application listing and groups it by category.
// Categories are ordered alphabetically; apps keep file order within a
// category. Category keys like "data-tools" display as "Data Tools".
func LoadApps(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "reading application listing", err,
			map[string]any{"path": path})
	}

	var apps []App
	if err := yaml.Unmarshal(data, &apps); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "parsing application listing", err,
			map[string]any{"path": path})
	}

	byID := map[string]*Category{}
	var order []string
	for _, app := range apps {
		id := app.Category
		if id == "" {
			id = "other"
			app.Category = id
		}
		cat, ok := byID[id]
		if !ok {
			cat = &Category{ID: id, DisplayName: displayName(id)}
			byID[id] = cat
			order = append(order, id)
		}
		cat.Apps = append(cat.Apps, app)
	}
	sort.Strings(order)

	categories := make([]Category, 0, len(order))
	for _, id := range order {
		categories = append(categories, *byID[id])
	}
	return categories, nil
}

// LoadMonitorConfig reads the uptime monitor roster.
func LoadMonitorConfig(path string) (*MonitorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "reading monitor roster", err,
			map[string]any{"path": path})
	}

	var cfg MonitorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "parsing monitor roster", err,
			map[string]any{"path": path})
	}
	if cfg.UptimeKumaURL == "" {
		return nil, errors.New(errors.ErrCodeValidation, "monitor roster is missing uptime_kuma_url")
	}
	return &cfg, nil
}

func displayName(id string) string {
	return titleCaser.String(strings.ReplaceAll(strings.ReplaceAll(id, "-", " "), "_", " "))
}
