package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NCAR/cirrus-portal/pkg/archive"
	"github.com/NCAR/cirrus-portal/pkg/chart"
	"github.com/NCAR/cirrus-portal/pkg/oci"
)

// Output format constants.
const (
	outputFormatDir = "dir"
	outputFormatZip = "zip"
	outputFormatOCI = "oci"
	defaultOCITag   = "latest"
)

// generateCmdOptions holds parsed options for the generate command.
type generateCmdOptions struct {
	cfg          chart.AppConfig
	sel          chart.Selection
	target       *oci.Reference
	outputFormat string
	plainHTTP    bool
	insecureTLS  bool
}

// parseGenerateCmdOptions parses and validates command options.
func parseGenerateCmdOptions(cmd *cli.Command) (*generateCmdOptions, error) {
	opts := &generateCmdOptions{
		cfg: chart.AppConfig{
			Name:           cmd.String("name"),
			Image:          cmd.String("image"),
			Replicas:       int(cmd.Int("replicas")),
			Port:           int(cmd.Int("port")),
			IngressEnabled: cmd.Bool("ingress"),
			IngressAccess:  chart.ParseAccess(cmd.String("access")),
			Domain:         cmd.String("domain"),
		},
		outputFormat: cmd.String("output-format"),
		plainHTTP:    cmd.Bool("plain-http"),
		insecureTLS:  cmd.Bool("insecure-tls"),
	}

	for _, id := range cmd.StringSlice("addon") {
		opts.sel.Addons = append(opts.sel.Addons, chart.AddonID(id))
	}

	vals, err := parseFieldValues(cmd.StringSlice("set"))
	if err != nil {
		return nil, err
	}
	opts.sel.Values = vals

	switch opts.outputFormat {
	case outputFormatDir, outputFormatZip, outputFormatOCI:
	default:
		return nil, fmt.Errorf("--output-format must be '%s', '%s' or '%s', got '%s'",
			outputFormatDir, outputFormatZip, outputFormatOCI, opts.outputFormat)
	}

	opts.target, err = oci.ParseOutputTarget(cmd.String("output"))
	if err != nil {
		return nil, fmt.Errorf("invalid --output target: %w", err)
	}

	// An oci:// output target implies the oci format; a plain path cannot
	// satisfy it.
	if opts.target.IsOCI && opts.outputFormat == outputFormatDir {
		opts.outputFormat = outputFormatOCI
	}
	if opts.outputFormat == outputFormatOCI && !opts.target.IsOCI {
		return nil, fmt.Errorf("--output must be an oci:// reference when --output-format is '%s'", outputFormatOCI)
	}
	if opts.outputFormat == outputFormatZip && opts.target.IsOCI {
		return nil, fmt.Errorf("--output must be a local path when --output-format is '%s'", outputFormatZip)
	}

	if opts.target.IsOCI && opts.target.Tag == "" {
		tag := cmd.String("tag")
		if tag == "" {
			tag = defaultOCITag
		}
		opts.target = opts.target.WithTag(tag)
	}

	return opts, nil
}

// parseFieldValues parses repeated --set key=value flags into add-on field
// values.
func parseFieldValues(pairs []string) (chart.Values, error) {
	vals := chart.Values{}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --set flag %q (format: field=value)", pair)
		}
		vals[key] = value
	}
	return vals, nil
}

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "generate",
		EnableShellCompletion: true,
		Usage:                 "Generate a modular Helm chart for an application",
		Description: `Generates a deployment-ready Helm chart from the base application
configuration plus any enabled add-ons. The same generator backs the
portal's chart builder form.

# Add-ons

Enable add-ons with repeated --addon flags and configure their fields
with --set (run 'cirrus addons' for the full field list):

  cnpg              CloudNativePG PostgreSQL cluster
  dask              Dask distributed-compute cluster
  persistence       Ceph-backed persistent volume
  nfs               External NFS or Glade mount
  external_secrets  Vault secret injection
  autoscaling       CPU-based horizontal pod autoscaler

# Examples

Generate a chart into ./myapp:
  cirrus generate --name myapp --image hub.k8s.ucar.edu/cirrus/myapp:1.2.0

Generate with ingress and a PostgreSQL cluster:
  cirrus generate --name myapp --image myapp:1.2.0 \
    --ingress --domain myapp.k8s.ucar.edu \
    --addon cnpg --set cnpg_instances=3 --set cnpg_storage_size=50Gi

Package the chart as a zip archive:
  cirrus generate --name myapp --image myapp:1.2.0 --output-format zip

Push the chart to an OCI registry:
  cirrus generate --name myapp --image myapp:1.2.0 \
    --output oci://hub.k8s.ucar.edu/cirrus/myapp-chart:0.1.0`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Required: true,
				Usage:    "Application name (must be a valid DNS label)",
			},
			&cli.StringFlag{
				Name:     "image",
				Aliases:  []string{"i"},
				Required: true,
				Usage:    "Container image reference (repository plus optional tag)",
			},
			&cli.IntFlag{
				Name:  "replicas",
				Value: chart.DefaultReplicas,
				Usage: "Pod replica count",
			},
			&cli.IntFlag{
				Name:  "port",
				Value: chart.DefaultPort,
				Usage: "Container port",
			},
			&cli.BoolFlag{
				Name:  "ingress",
				Usage: "Expose the application through an ingress",
			},
			&cli.StringFlag{
				Name:  "access",
				Value: string(chart.AccessExternal),
				Usage: "Ingress exposure: 'external' (public) or 'internal' (UCAR network)",
			},
			&cli.StringFlag{
				Name:  "domain",
				Usage: "Fully qualified domain name (required with --ingress)",
			},
			&cli.StringSliceFlag{
				Name:    "addon",
				Aliases: []string{"a"},
				Usage:   "Enable an add-on by id (can be repeated)",
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "Set an add-on field value (format: field=value, can be repeated)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "Output directory, or an oci:// reference to push to",
			},
			&cli.StringFlag{
				Name:    "output-format",
				Aliases: []string{"F"},
				Value:   outputFormatDir,
				Usage:   "Output format: 'dir' (local directory), 'zip' (archive) or 'oci' (registry push)",
			},
			&cli.StringFlag{
				Name:  "tag",
				Usage: fmt.Sprintf("OCI tag when the reference carries none (default: %s)", defaultOCITag),
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the OCI registry (for local development)",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS certificate verification for the OCI registry",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseGenerateCmdOptions(cmd)
			if err != nil {
				return err
			}

			assembler := chart.NewAssembler(chart.NewRegistry())
			files, err := assembler.Assemble(opts.cfg, opts.sel)
			if err != nil {
				return fmt.Errorf("chart generation failed: %w", err)
			}

			slog.Info("chart generated",
				"app", opts.cfg.Name,
				"addons", len(opts.sel.Addons),
				"files", len(files),
				"output-format", opts.outputFormat,
			)

			switch opts.outputFormat {
			case outputFormatZip:
				return writeChartZip(opts.target.LocalPath, opts.cfg.Name, files)
			case outputFormatOCI:
				return pushChart(ctx, opts, files)
			default:
				return writeChartDir(opts.target.LocalPath, opts.cfg.Name, files)
			}
		},
	}
}

// writeChartDir materializes the chart under <dir>/<app> and prints
// deployment instructions.
func writeChartDir(dir, appName string, files chart.FileSet) error {
	chartDir := filepath.Join(dir, appName)
	if err := oci.WriteDir(chartDir, files); err != nil {
		return err
	}

	fmt.Printf("Helm chart generated successfully!\n")
	fmt.Printf("Output directory: %s\n", chartDir)
	fmt.Printf("Files generated: %d\n", len(files))
	fmt.Printf("\nTo deploy:\n")
	fmt.Printf("  helm install %s %s -n %s --create-namespace\n", appName, chartDir, appName)
	return nil
}

// writeChartZip packages the chart as a zip archive. A target ending in
// .zip is used as the archive path; anything else is treated as the
// destination directory.
func writeChartZip(target, appName string, files chart.FileSet) error {
	data, err := archive.Zip(appName, files)
	if err != nil {
		return err
	}

	path := target
	if !strings.HasSuffix(path, ".zip") {
		path = filepath.Join(target, archive.Filename(appName))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write chart archive: %w", err)
	}

	fmt.Printf("Helm chart archived successfully!\n")
	fmt.Printf("Archive: %s\n", path)
	fmt.Printf("Files archived: %d\n", len(files))
	return nil
}

// pushChart publishes the chart to the OCI registry named by the output
// target.
func pushChart(ctx context.Context, opts *generateCmdOptions, files chart.FileSet) error {
	slog.Info("pushing chart to registry", "reference", opts.target.ImageReference())

	res, err := oci.PushChart(ctx, opts.cfg.Name, files, oci.PushOptions{
		Reference:   opts.target,
		Version:     version,
		PlainHTTP:   opts.plainHTTP,
		InsecureTLS: opts.insecureTLS,
	})
	if err != nil {
		return fmt.Errorf("failed to push chart: %w", err)
	}

	fmt.Printf("Helm chart pushed successfully!\n")
	fmt.Printf("Reference: %s\n", res.Reference)
	fmt.Printf("Digest: %s\n", res.Digest)
	return nil
}
