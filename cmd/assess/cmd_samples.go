package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/anime-shed/image-quality-go/internal/report"
	"github.com/anime-shed/image-quality-go/internal/samples"
	"github.com/anime-shed/image-quality-go/pkg/models"
)

const defaultSampleDir = "samples"

func sampleDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultSampleDir
}

func newSamplesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "samples [dir]",
		Short: "Generate synthetic sample images",
		Long: `Generate six 800x600 JPEG samples with known defects: a clean reference,
a blurred copy, an underexposed copy, an overexposed copy, a noisy copy and a
low contrast copy. The directory defaults to ./samples.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.generateSamples(cmd.Context(), sampleDir(args)); err != nil {
				return failure(err)
			}
			return nil
		},
	}
}

func (a *app) generateSamples(ctx context.Context, dir string) error {
	if _, err := samples.Generate(ctx, dir); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Sample images created in '%s' directory:\n", dir)
	for _, v := range samples.Variants() {
		fmt.Fprintf(a.stdout, "- %s: %s\n", v.Name, v.Description)
	}
	return nil
}

func newDemoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo [dir]",
		Short: "Assess the sample images",
		Long: `Assess every sample image in parallel and print a short summary for each.
Samples are generated first when the directory does not contain them all.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.demo(cmd.Context(), sampleDir(args))
		},
	}
}

var demoMetrics = []models.Aspect{
	models.AspectSharpness,
	models.AspectBrightness,
	models.AspectContrast,
	models.AspectNoise,
}

func (a *app) demo(ctx context.Context, dir string) error {
	if !samples.Exist(dir) {
		fmt.Fprintln(a.stdout, "Creating sample images...")
		if err := a.generateSamples(ctx, dir); err != nil {
			return failure(err)
		}
		fmt.Fprintln(a.stdout)
	}

	c, err := a.container()
	if err != nil {
		return failure(err)
	}
	defer c.Close()

	paths := samples.Paths(dir)
	sort.Slice(paths, func(i, j int) bool {
		return filepath.Base(paths[i]) < filepath.Base(paths[j])
	})

	fmt.Fprintln(a.stdout, "Running Image Quality Assessment Demo")
	fmt.Fprintln(a.stdout, "==================================================")

	var failed []error
	for _, res := range c.Assessor().AssessBatch(ctx, paths) {
		fmt.Fprintf(a.stdout, "\nAssessing: %s\n", filepath.Base(res.Path))
		fmt.Fprintln(a.stdout, "------------------------------")

		if res.Err != nil {
			fmt.Fprintln(a.stdout, report.RenderError(res.Err))
			failed = append(failed, res.Err)
			continue
		}
		a.printSummary(res.Report)
	}

	if len(failed) > 0 {
		return reportedFailure(fmt.Errorf("%d of %d samples failed: %w", len(failed), len(paths), errors.Join(failed...)))
	}
	return nil
}

func (a *app) printSummary(r *models.AssessmentReport) {
	fmt.Fprintf(a.stdout, "Overall Quality: %s (%s%%)\n", r.Overall.Quality, report.FormatScore(r.Overall.Score))
	fmt.Fprintf(a.stdout, "Summary: %s\n", r.Overall.Summary)

	fmt.Fprintln(a.stdout, "\nKey Metrics:")
	for _, aspect := range demoMetrics {
		m, _ := r.Metric(aspect)
		fmt.Fprintf(a.stdout, "  %s: %s (Score: %s)\n", report.AspectTitle(aspect), m.Quality, report.FormatScore(m.Score))
	}

	fmt.Fprintf(a.stdout, "\nResolution: %s - %s\n", r.Resolution.Resolution, r.Resolution.ResolutionQuality)
}
