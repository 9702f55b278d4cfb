package samples

import (
	"context"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/anime-shed/image-quality-go/internal/analyzer"
	"github.com/anime-shed/image-quality-go/internal/decoder"
)

func TestScene(t *testing.T) {
	img := Scene()

	if img.Bounds().Dx() != Width || img.Bounds().Dy() != Height {
		t.Fatalf("unexpected size %v", img.Bounds())
	}

	testCases := []struct {
		name string
		pt   image.Point
		want color.RGBA
	}{
		{"background", image.Pt(10, 10), SteelBlue},
		{"rectangle", image.Pt(150, 150), White},
		{"rectangle corner", image.Pt(300, 200), White},
		{"disc centre", image.Pt(500, 150), Gold},
		{"disc edge", image.Pt(580, 150), Gold},
		{"outside disc", image.Pt(581, 150), SteelBlue},
		{"outline top", image.Pt(400, 300), Crimson},
		{"outline thickness", image.Pt(400, 301), Crimson},
		{"inside outline", image.Pt(400, 330), SteelBlue},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := img.RGBAAt(tc.pt.X, tc.pt.Y); got != tc.want {
				t.Errorf("pixel %v = %v, want %v", tc.pt, got, tc.want)
			}
		})
	}

	captionPixels := 0
	for y := 370; y <= 404; y++ {
		for x := 200; x < 480; x++ {
			if img.RGBAAt(x, y) == White {
				captionPixels++
			}
		}
	}
	if captionPixels == 0 {
		t.Error("caption was not drawn")
	}
}

func TestScale(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 1, 1))
	base.SetRGBA(0, 0, SteelBlue)

	testCases := []struct {
		name  string
		alpha float64
		beta  float64
		round func(float64) float64
		want  color.RGBA
	}{
		{"bright clips", 1.8, 50, math.Trunc, color.RGBA{176, 255, 255, 255}},
		{"low contrast", 0.5, 100, math.Round, color.RGBA{135, 165, 190, 255}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := scale(base, tc.alpha, tc.beta, tc.round).RGBAAt(0, 0)
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}

	if base.RGBAAt(0, 0) != SteelBlue {
		t.Error("scale modified its input")
	}
}

func TestAddNoise_Reproducible(t *testing.T) {
	base := Scene()
	a := addNoise(base, 25, NoiseSeed)
	b := addNoise(base, 25, NoiseSeed)

	if string(a.Pix) != string(b.Pix) {
		t.Error("same seed produced different noise")
	}
	if string(a.Pix) == string(base.Pix) {
		t.Error("noise did not change the image")
	}
}

func TestGaussianKernel(t *testing.T) {
	k := gaussianKernel(15)
	if len(k) != 15 {
		t.Fatalf("expected 15 taps, got %d", len(k))
	}
	var sum float64
	for i := range k {
		sum += k[i]
		if math.Abs(k[i]-k[len(k)-1-i]) > 1e-12 {
			t.Errorf("kernel not symmetric at %d", i)
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("kernel sums to %v", sum)
	}
	if k[7] <= k[6] {
		t.Error("kernel should peak at the centre")
	}
}

func TestReflect101(t *testing.T) {
	// the 15x15 blur radius exceeds small images, so indexes fold more than once
	testCases := []struct{ i, n, want int }{
		{-1, 5, 1},
		{5, 5, 3},
		{-1, 1, 0},
		{7, 3, 1},
		{-7, 3, 1},
	}
	for _, tc := range testCases {
		if got := reflect101(tc.i, tc.n); got != tc.want {
			t.Errorf("reflect101(%d, %d) = %d, want %d", tc.i, tc.n, got, tc.want)
		}
	}
}

func TestGaussianBlur_UniformImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for i := range img.Pix {
		img.Pix[i] = 90
	}
	out := gaussianBlur(img, 15)
	for i, v := range out.Pix {
		if v != 90 {
			t.Fatalf("byte %d changed to %d", i, v)
		}
	}
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "samples")
	if Exist(dir) {
		t.Fatal("samples should not exist yet")
	}

	paths, err := Generate(context.Background(), dir)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(paths) != len(Variants()) {
		t.Fatalf("expected %d paths, got %d", len(Variants()), len(paths))
	}
	for i, v := range Variants() {
		if filepath.Base(paths[i]) != v.Name {
			t.Errorf("path %d = %s, want %s", i, paths[i], v.Name)
		}
		if _, err := os.Stat(paths[i]); err != nil {
			t.Errorf("missing %s: %v", v.Name, err)
		}
	}
	if !Exist(dir) {
		t.Error("Exist should report generated samples")
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Generate(ctx, t.TempDir()); err == nil {
		t.Error("expected cancelled generation to fail")
	}
}

// The variants must move the metrics in the direction their names promise.
func TestGenerate_VariantsDegradeAsNamed(t *testing.T) {
	dir := t.TempDir()
	if _, err := Generate(context.Background(), dir); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	dec := decoder.NewDecoder(nil)
	mc := analyzer.NewMetricsCalculator()
	load := func(name string) *decoder.CanonicalImage {
		img, err := dec.Decode(context.Background(), filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		return img
	}

	high := load("high_quality.jpg")
	if high.Width() != Width || high.Height() != Height {
		t.Fatalf("unexpected size %dx%d", high.Width(), high.Height())
	}

	if s, b := mc.Sharpness(high).Score, mc.Sharpness(load("blurry_image.jpg")).Score; b >= s {
		t.Errorf("blurry sharpness %v should be below %v", b, s)
	}
	if d, h := mc.Brightness(load("dark_image.jpg")).Score, mc.Brightness(high).Score; d >= h {
		t.Errorf("dark brightness %v should be below %v", d, h)
	}
	if b, h := mc.Brightness(load("bright_image.jpg")).Score, mc.Brightness(high).Score; b <= h {
		t.Errorf("bright brightness %v should be above %v", b, h)
	}
	if l, h := mc.Contrast(load("low_contrast.jpg")).Score, mc.Contrast(high).Score; l >= h {
		t.Errorf("low contrast %v should be below %v", l, h)
	}
	if n, h := mc.Noise(load("noisy_image.jpg")).Score, mc.Noise(high).Score; n <= h {
		t.Errorf("noisy estimate %v should be above %v", n, h)
	}
}
