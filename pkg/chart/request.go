package chart

import (
	"encoding/json"
	"strconv"
)

// baseKeys are request fields consumed by the base app config and the
// delivery options; everything else is an add-on field value.
var baseKeys = map[string]struct{}{
	"app_name":       {},
	"image":          {},
	"replicas":       {},
	"port":           {},
	"enable_ingress": {},
	"ingress_type":   {},
	"domain":         {},
	"enabled_addons": {},
	"output_format":  {},
	"github_token":   {},
	"github_repo":    {},
	"github_branch":  {},
}

// ParseForm extracts the application configuration and add-on selection
// from a decoded request body. Field values arrive as free-form JSON
// scalars; they are stringified here and coerced with defaults at the point
// of use, keeping the fragment and assembly logic strongly typed.
func ParseForm(raw map[string]any) (AppConfig, Selection) {
	cfg := AppConfig{
		Name:           asString(raw["app_name"]),
		Image:          asString(raw["image"]),
		Replicas:       asInt(raw["replicas"], DefaultReplicas),
		Port:           asInt(raw["port"], DefaultPort),
		IngressEnabled: asBool(raw["enable_ingress"]),
		IngressAccess:  ParseAccess(asString(raw["ingress_type"])),
		Domain:         asString(raw["domain"]),
	}

	sel := Selection{Values: Values{}}
	if list, ok := raw["enabled_addons"].([]any); ok {
		for _, item := range list {
			if id := asString(item); id != "" {
				sel.Addons = append(sel.Addons, AddonID(id))
			}
		}
	}
	for k, v := range raw {
		if _, reserved := baseKeys[k]; reserved {
			continue
		}
		sel.Values[k] = asString(v)
	}
	return cfg, sel
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return ""
	}
}

func asInt(v any, def int) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n
		}
	}
	return def
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(t)
		return err == nil && b
	default:
		return false
	}
}
