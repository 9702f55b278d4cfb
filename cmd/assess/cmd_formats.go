package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anime-shed/image-quality-go/internal/decoder"
)

func newFormatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported image formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := decoder.RawExtensions()

			fmt.Fprintln(a.stdout, "Supported RAW formats:")
			for i, ext := range raw {
				fmt.Fprintf(a.stdout, "  %2d. %-5s %s\n", i+1, strings.ToUpper(ext), decoder.RawVendor(ext))
			}
			fmt.Fprintf(a.stdout, "\nTotal supported RAW formats: %d\n", len(raw))
			fmt.Fprintf(a.stdout, "\nSupported raster formats: %s\n", strings.Join(decoder.RasterExtensions(), ", "))
			return nil
		},
	}
}
