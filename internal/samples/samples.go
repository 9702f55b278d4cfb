// Package samples draws a small synthetic scene and writes degraded copies of
// it, one per quality problem the assessor is meant to detect.
package samples

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"
)

const (
	Width  = 800
	Height = 600

	// NoiseSeed keeps noisy_image.jpg identical between runs.
	NoiseSeed = 42

	captionScale = 2
)

var (
	SteelBlue = color.RGBA{70, 130, 180, 255}
	White     = color.RGBA{255, 255, 255, 255}
	Gold      = color.RGBA{255, 215, 0, 255}
	Crimson   = color.RGBA{220, 20, 60, 255}
)

// Variant is one generated sample file.
type Variant struct {
	Name        string
	Description string
	Quality     int

	caption      string
	captionAt    image.Point
	captionColor color.RGBA
	transform    func(*image.RGBA) *image.RGBA
}

var variants = []Variant{
	{
		Name:        "high_quality.jpg",
		Description: "Well-balanced, sharp image",
		Quality:     95,
	},
	{
		Name:         "blurry_image.jpg",
		Description:  "Blurred version for sharpness testing",
		Quality:      50,
		caption:      "BLURRY SAMPLE",
		captionAt:    image.Pt(250, 400),
		captionColor: White,
		transform:    func(img *image.RGBA) *image.RGBA { return gaussianBlur(img, 15) },
	},
	{
		Name:         "dark_image.jpg",
		Description:  "Underexposed image",
		Quality:      80,
		caption:      "DARK SAMPLE",
		captionAt:    image.Pt(280, 400),
		captionColor: color.RGBA{200, 200, 200, 255},
		transform:    func(img *image.RGBA) *image.RGBA { return scale(img, 0.3, 0, math.Trunc) },
	},
	{
		Name:         "bright_image.jpg",
		Description:  "Overexposed image",
		Quality:      80,
		caption:      "BRIGHT SAMPLE",
		captionAt:    image.Pt(260, 400),
		captionColor: color.RGBA{100, 100, 100, 255},
		transform:    func(img *image.RGBA) *image.RGBA { return scale(img, 1.8, 50, math.Trunc) },
	},
	{
		Name:         "noisy_image.jpg",
		Description:  "Image with added noise",
		Quality:      80,
		caption:      "NOISY SAMPLE",
		captionAt:    image.Pt(270, 400),
		captionColor: White,
		transform:    func(img *image.RGBA) *image.RGBA { return addNoise(img, 25, NoiseSeed) },
	},
	{
		Name:         "low_contrast.jpg",
		Description:  "Low contrast image",
		Quality:      80,
		caption:      "LOW CONTRAST",
		captionAt:    image.Pt(240, 400),
		captionColor: color.RGBA{150, 150, 150, 255},
		transform:    func(img *image.RGBA) *image.RGBA { return scale(img, 0.5, 100, math.Round) },
	},
}

// Variants lists the samples in generation order.
func Variants() []Variant {
	out := make([]Variant, len(variants))
	copy(out, variants)
	return out
}

// Scene draws the captioned base image every variant starts from.
func Scene() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(SteelBlue), image.Point{}, draw.Src)

	fillRect(img, image.Rect(100, 100, 301, 201), White)
	fillCircle(img, image.Pt(500, 150), 80, Gold)
	strokeRect(img, image.Rect(150, 300, 651, 501), 3, Crimson)
	drawCaption(img, "HIGH QUALITY SAMPLE", image.Pt(200, 400), White)

	return img
}

// Render produces the pixels of v from the shared base scene.
func Render(base *image.RGBA, v Variant) *image.RGBA {
	if v.transform == nil {
		return clone(base)
	}
	img := v.transform(base)
	if v.caption != "" {
		drawCaption(img, v.caption, v.captionAt, v.captionColor)
	}
	return img
}

// Paths returns where Generate writes the samples inside dir.
func Paths(dir string) []string {
	paths := make([]string, len(variants))
	for i, v := range variants {
		paths[i] = filepath.Join(dir, v.Name)
	}
	return paths
}

// Exist reports whether every sample is already present in dir.
func Exist(dir string) bool {
	for _, p := range Paths(dir) {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// Generate writes all samples to dir concurrently and returns their paths in
// Variants order.
func Generate(ctx context.Context, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sample directory: %w", err)
	}

	base := Scene()
	paths := Paths(dir)

	g, ctx := errgroup.WithContext(ctx)
	for i, v := range variants {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeJPEG(paths[i], Render(base, v), v.Quality)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func writeJPEG(path string, img image.Image, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

func clone(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// strokeRect draws the outline of r with a line of the given thickness
// centred on the rectangle's edges.
func strokeRect(img *image.RGBA, r image.Rectangle, thickness int, c color.RGBA) {
	half := thickness / 2
	minX, minY, maxX, maxY := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	fillRect(img, image.Rect(minX-half, minY-half, maxX+half+1, minY+half+1), c)
	fillRect(img, image.Rect(minX-half, maxY-half, maxX+half+1, maxY+half+1), c)
	fillRect(img, image.Rect(minX-half, minY-half, minX+half+1, maxY+half+1), c)
	fillRect(img, image.Rect(maxX-half, minY-half, maxX+half+1, maxY+half+1), c)
}

func fillCircle(img *image.RGBA, center image.Point, radius int, c color.RGBA) {
	r2 := radius * radius
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		for x := center.X - radius; x <= center.X+radius; x++ {
			dx, dy := x-center.X, y-center.Y
			if dx*dx+dy*dy <= r2 && image.Pt(x, y).In(img.Bounds()) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawCaption renders text with the 7x13 bitmap face enlarged captionScale
// times. origin is the left end of the baseline.
func drawCaption(img *image.RGBA, text string, origin image.Point, c color.RGBA) {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	ascent, descent := metrics.Ascent.Ceil(), metrics.Descent.Ceil()
	width := font.MeasureString(face, text).Ceil()

	mask := image.NewAlpha(image.Rect(0, 0, width, ascent+descent))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)

	target := image.Rect(
		origin.X, origin.Y-ascent*captionScale,
		origin.X+width*captionScale, origin.Y+descent*captionScale,
	)
	scaled := image.NewAlpha(image.Rect(0, 0, target.Dx(), target.Dy()))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), mask, mask.Bounds(), draw.Src, nil)
	draw.DrawMask(img, target, image.NewUniform(c), image.Point{}, scaled, image.Point{}, draw.Over)
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// scale maps every channel to round(v*alpha + beta), clipped to 0..255.
func scale(img *image.RGBA, alpha, beta float64, round func(float64) float64) *image.RGBA {
	out := clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			out.Pix[i+c] = clamp8(round(float64(out.Pix[i+c])*alpha + beta))
		}
	}
	return out
}

// addNoise adds zero-mean Gaussian noise with the given sigma per channel.
func addNoise(img *image.RGBA, sigma float64, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	out := clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			noise := math.Trunc(rng.NormFloat64() * sigma)
			out.Pix[i+c] = clamp8(float64(out.Pix[i+c]) + noise)
		}
	}
	return out
}

// gaussianKernel returns a normalised 1-D kernel of odd size; the sigma is
// derived from the size the usual way (0.3*((size-1)/2-1)+0.8).
func gaussianKernel(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	k := make([]float64, size)
	var sum float64
	for i := range k {
		x := float64(i - size/2)
		k[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// reflect101 maps an out-of-range index back into [0, n) mirroring around
// the edge pixels without repeating them (dcb|abcdefgh|gfe).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}

// gaussianBlur applies a separable size x size Gaussian to the RGB channels.
func gaussianBlur(img *image.RGBA, size int) *image.RGBA {
	k := gaussianKernel(size)
	r := size / 2
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	tmp := make([]float64, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < 3; c++ {
				var acc float64
				for j := -r; j <= r; j++ {
					acc += k[j+r] * float64(img.Pix[y*img.Stride+reflect101(x+j, w)*4+c])
				}
				tmp[(y*w+x)*3+c] = acc
			}
		}
	}

	out := clone(img)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < 3; c++ {
				var acc float64
				for j := -r; j <= r; j++ {
					acc += k[j+r] * tmp[(reflect101(y+j, h)*w+x)*3+c]
				}
				out.Pix[y*out.Stride+x*4+c] = clamp8(math.Round(acc))
			}
		}
	}
	return out
}
