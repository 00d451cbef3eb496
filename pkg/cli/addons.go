package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NCAR/cirrus-portal/pkg/chart"
	"github.com/NCAR/cirrus-portal/pkg/serializers"
)

// addonEntry is one row of the add-on listing.
type addonEntry struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Fields      []string `json:"fields" yaml:"fields"`
}

// addonList renders the registry for terminal or machine consumption.
type addonList []addonEntry

func (l addonList) TableHeader() []string {
	return []string{"ID", "NAME", "FIELDS", "DESCRIPTION"}
}

func (l addonList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		rows = append(rows, []string{e.ID, e.Name, strings.Join(e.Fields, ","), e.Description})
	}
	return rows
}

func addonsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "addons",
		EnableShellCompletion: true,
		Usage:                 "List available chart add-ons and their fields",
		Description: `Lists the add-ons the chart generator can enable, with the field
names each one accepts through the --set flag of 'cirrus generate'.

The listing can be output in JSON, YAML, or table format.`,
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat := serializers.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			var list addonList
			for _, def := range chart.NewRegistry().All() {
				list = append(list, addonEntry{
					ID:          string(def.ID),
					Name:        def.Name,
					Description: def.Description,
					Fields:      def.Fields,
				})
			}

			out := os.Stdout
			if path := cmd.String("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create output file %q: %w", path, err)
				}
				defer func() {
					if err := f.Close(); err != nil {
						slog.Warn("failed to close output file", "error", err)
					}
				}()
				out = f
			}

			return serializers.NewWriter(outFormat, out).Write(list)
		},
	}
}
