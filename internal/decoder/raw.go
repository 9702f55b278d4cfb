package decoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strings"

	"golang.org/x/image/tiff"
)

// DefaultRawDeveloper is the developer binary used when none is configured.
const DefaultRawDeveloper = "dcraw"

// RawDeveloper turns a camera RAW file into an 8-bit RGB image.
//
// Implementations must apply the white balance recorded by the camera, keep
// the full sensor resolution, leave exposure as metered (no auto-brightening)
// and quantise to 8 bits per channel.
type RawDeveloper interface {
	Develop(ctx context.Context, path string) (image.Image, error)
}

// DcrawDeveloper develops RAW files with a dcraw-compatible command line tool.
type DcrawDeveloper struct {
	binary string
}

// NewDcrawDeveloper creates a developer that runs binary. An empty binary
// falls back to DefaultRawDeveloper.
func NewDcrawDeveloper(binary string) *DcrawDeveloper {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultRawDeveloper
	}
	return &DcrawDeveloper{binary: binary}
}

// Binary returns the developer executable.
func (d *DcrawDeveloper) Binary() string {
	return d.binary
}

// Args returns the developer arguments for path:
// -c stdout, -w camera white balance, -W no auto-brighten, -T TIFF output.
// Full size and 8-bit output are dcraw's defaults.
func (d *DcrawDeveloper) Args(path string) []string {
	return []string{"-c", "-w", "-W", "-T", path}
}

// Develop runs the developer and decodes the TIFF it writes to stdout.
func (d *DcrawDeveloper) Develop(ctx context.Context, path string) (image.Image, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.binary, d.Args(path)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", d.binary, err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", d.binary, err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%s produced no output", d.binary)
	}

	img, err := tiff.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode developed image: %w", err)
	}
	return img, nil
}
