package serializers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Writer handles serialization of data to various output formats.
type Writer struct {
	format Format
	output io.Writer
}

// NewWriter creates a new Writer with the specified format and output
// destination. If output is nil, os.Stdout will be used.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return &Writer{
		format: format,
		output: output,
	}
}

// NewStdoutWriter creates a new Writer that outputs to stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// Write serializes data in the writer's format.
func (w *Writer) Write(data any) error {
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.output)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w.output)
		defer enc.Close()
		return enc.Encode(data)
	case FormatTable:
		return w.writeTable(data)
	default:
		return fmt.Errorf("unknown output format: %s", w.format)
	}
}

func (w *Writer) writeTable(data any) error {
	tab, ok := data.(Tabular)
	if !ok {
		// Not every value has a tabular form; YAML keeps the output readable.
		enc := yaml.NewEncoder(w.output)
		defer enc.Close()
		return enc.Encode(data)
	}

	tw := tabwriter.NewWriter(w.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tab.TableHeader(), "\t"))
	for _, row := range tab.TableRows() {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
