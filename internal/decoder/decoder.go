package decoder

import (
	"context"
	stderrors "errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "github.com/anime-shed/image-quality-go/internal/errors"
)

// Decoder resolves a file path into a CanonicalImage.
type Decoder struct {
	raster strategy
	raw    strategy
}

// strategy is one decode path, selected once per file by Kind.
type strategy interface {
	decode(ctx context.Context, path string) (image.Image, error)
}

// NewDecoder creates a decoder that develops RAW files with developer.
func NewDecoder(developer RawDeveloper) *Decoder {
	return &Decoder{
		raster: rasterStrategy{},
		raw:    rawStrategy{developer: developer},
	}
}

// Decode loads path. It fails with a not_found AppError when the path does
// not exist and with a decode (or unsupported_format) AppError otherwise.
// The context only bounds RAW development.
func (d *Decoder) Decode(ctx context.Context, path string) (*CanonicalImage, error) {
	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Image not found: %s", path), err)
		}
		return nil, apperrors.NewDecodeError(fmt.Sprintf("Could not load image: %s", path), err)
	}
	if info.IsDir() {
		return nil, apperrors.NewDecodeError(fmt.Sprintf("Could not load image: %s is a directory", path), nil)
	}

	kind := KindOf(path)
	img, err := d.strategyFor(kind).decode(ctx, path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, apperrors.NewDecodeError(fmt.Sprintf("Could not load image: %s has no pixels", path), nil)
	}

	return NewCanonicalImage(img), nil
}

func (d *Decoder) strategyFor(kind Kind) strategy {
	if kind == KindRaw {
		return d.raw
	}
	return d.raster
}

type rasterStrategy struct{}

func (rasterStrategy) decode(_ context.Context, path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDecodeError(fmt.Sprintf("Could not load image: %s", path), err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		ext := filepath.Ext(path)
		if stderrors.Is(err, image.ErrFormat) && !isDecodableExtension(ext) {
			return nil, apperrors.NewUnsupportedFormatError(
				fmt.Sprintf("Unsupported image format %q: %s", ext, path), err)
		}
		return nil, apperrors.NewDecodeError(fmt.Sprintf("Could not load image: %s", path), err)
	}
	return img, nil
}

type rawStrategy struct {
	developer RawDeveloper
}

func (s rawStrategy) decode(ctx context.Context, path string) (image.Image, error) {
	if s.developer == nil {
		return nil, apperrors.NewDecodeError(
			fmt.Sprintf("Could not process raw image %s: no raw developer configured", path), nil)
	}
	img, err := s.developer.Develop(ctx, path)
	if err != nil {
		return nil, apperrors.NewDecodeError(fmt.Sprintf("Could not process raw image %s", path), err)
	}
	return img, nil
}
