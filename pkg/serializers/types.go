package serializers

// Format represents the output format type
type Format string

const (
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
	// FormatTable outputs data in table format
	FormatTable Format = "table"
)

func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// Tabular is implemented by values that can render themselves as a table.
// The writer falls back to YAML for values that do not implement it.
type Tabular interface {
	TableHeader() []string
	TableRows() [][]string
}
