package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anime-shed/image-quality-go/internal/config"
	"github.com/anime-shed/image-quality-go/internal/container"
	"github.com/anime-shed/image-quality-go/internal/logger"
	"github.com/anime-shed/image-quality-go/internal/report"
	"github.com/anime-shed/image-quality-go/pkg/models"
	"github.com/anime-shed/image-quality-go/pkg/validation"
)

const sidecarSuffix = "_quality_report.json"

var version = "dev"

// app carries the persistent flags and output streams shared by every
// subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer

	logLevel     string
	rawDeveloper string
	workers      int
}

type assessOptions struct {
	noJSON bool
	output string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	var opts assessOptions

	cmd := &cobra.Command{
		Use:   "assess <path|url>",
		Short: "Assess the technical quality of an image",
		Long: `Assess scores an image on sharpness, brightness, contrast, noise,
color balance and saturation, reports resolution and detail, and prints
recommendations.

The source may be a local raster or camera RAW file, or an http(s) URL.
A JSON copy of the results is written next to the input unless --no-json
is given.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.assess(cmd.Context(), args[0], opts)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "warn", "Log level written to stderr (debug, info, warn, error)")
	flags.StringVar(&a.rawDeveloper, "raw-developer", "", "RAW developer binary (default $RAW_DEVELOPER or dcraw)")
	flags.IntVar(&a.workers, "workers", 0, "Parallel assessments for demo (0 uses the CPU count)")

	cmd.Flags().BoolVar(&opts.noJSON, "no-json", false, "Do not write the JSON results file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Path of the JSON results file")

	cmd.AddCommand(newFormatsCommand(a))
	cmd.AddCommand(newSamplesCommand(a))
	cmd.AddCommand(newDemoCommand(a))

	return cmd
}

// container loads the configuration, applies flag overrides and wires the
// assessment stack.
func (a *app) container() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if a.rawDeveloper != "" {
		cfg.RawDeveloper = a.rawDeveloper
	}
	if a.workers > 0 {
		cfg.Workers = a.workers
	}
	logger.Configure(a.logLevel, a.stderr)

	return container.NewContainer(cfg)
}

func (a *app) assess(ctx context.Context, source string, opts assessOptions) error {
	c, err := a.container()
	if err != nil {
		return failure(err)
	}
	defer c.Close()

	resp, err := c.Service().AssessSource(ctx, source)
	if err != nil {
		fmt.Fprintln(a.stdout, report.RenderError(err))
		return reportedFailure(err)
	}

	fmt.Fprintln(a.stdout, resp.Report)

	if opts.noJSON {
		return nil
	}

	out := opts.output
	if out == "" {
		out = sidecarPath(source)
	}
	if err := writeSidecar(out, resp.Results); err != nil {
		return failure(err)
	}

	fmt.Fprintf(a.stdout, "\nDetailed results saved to: %s\n", out)
	return nil
}

// sidecarPath names the JSON results file: next to a local input, or in the
// working directory for a URL.
func sidecarPath(source string) string {
	if !validation.IsRemoteSource(source) {
		return strings.TrimSuffix(source, filepath.Ext(source)) + sidecarSuffix
	}

	stem := "image"
	if u, err := url.Parse(source); err == nil {
		base := path.Base(u.Path)
		if s := strings.TrimSuffix(base, path.Ext(base)); s != "" && s != "." && s != "/" {
			stem = s
		}
	}
	return stem + sidecarSuffix
}

func writeSidecar(file string, results *models.AssessmentReport) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}
