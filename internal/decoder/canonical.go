package decoder

import (
	"image"
	"image/color"
	"image/draw"
)

// Ordering selects one of the two channel layouts held by a CanonicalImage.
type Ordering int

const (
	// OrderRGB stores samples as red, green, blue.
	OrderRGB Ordering = iota
	// OrderBGR stores samples as blue, green, red.
	OrderBGR
)

// Fixed-point luma weights (BT.601, 14 fractional bits).
const (
	lumaShift = 14
	lumaR     = 4899
	lumaG     = 9617
	lumaB     = 1868
	lumaHalf  = 1 << (lumaShift - 1)
)

// CanonicalImage is a decoded, format-independent 8-bit three-channel image.
// Both channel orderings and the luminance plane are built once at
// construction and describe the same pixels. The slices returned by its
// accessors are shared and must not be modified.
type CanonicalImage struct {
	width  int
	height int
	rgb    []uint8
	bgr    []uint8
	luma   []uint8
}

// NewCanonicalImage converts any decoded image into the canonical form.
// Alpha is discarded; colour samples are kept un-premultiplied.
func NewCanonicalImage(img image.Image) *CanonicalImage {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	src, ok := img.(*image.NRGBA)
	if !ok || src.Rect.Min != (image.Point{}) {
		src = image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(src, src.Rect, img, bounds.Min, draw.Src)
	}

	n := width * height
	ci := &CanonicalImage{
		width:  width,
		height: height,
		rgb:    make([]uint8, n*3),
		bgr:    make([]uint8, n*3),
		luma:   make([]uint8, n),
	}

	for y := 0; y < height; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+width*4]
		for x := 0; x < width; x++ {
			r, g, b := row[x*4], row[x*4+1], row[x*4+2]
			i := y*width + x
			ci.rgb[i*3], ci.rgb[i*3+1], ci.rgb[i*3+2] = r, g, b
			ci.bgr[i*3], ci.bgr[i*3+1], ci.bgr[i*3+2] = b, g, r
			ci.luma[i] = Luma(r, g, b)
		}
	}

	return ci
}

// Luma returns the BT.601 luminance of an 8-bit RGB triple, rounded to the
// nearest integer.
func Luma(r, g, b uint8) uint8 {
	return uint8((int(r)*lumaR + int(g)*lumaG + int(b)*lumaB + lumaHalf) >> lumaShift)
}

// Width returns the image width in pixels.
func (c *CanonicalImage) Width() int { return c.width }

// Height returns the image height in pixels.
func (c *CanonicalImage) Height() int { return c.height }

// TotalPixels returns width*height.
func (c *CanonicalImage) TotalPixels() int { return c.width * c.height }

// Pixels returns the interleaved samples in the requested ordering.
func (c *CanonicalImage) Pixels(order Ordering) []uint8 {
	if order == OrderBGR {
		return c.bgr
	}
	return c.rgb
}

// Luminance returns the single-channel luminance plane, row-major.
func (c *CanonicalImage) Luminance() []uint8 {
	return c.luma
}

// PixelAt returns the three samples at (x, y) in the requested ordering.
func (c *CanonicalImage) PixelAt(x, y int, order Ordering) [3]uint8 {
	i := (y*c.width + x) * 3
	p := c.Pixels(order)
	return [3]uint8{p[i], p[i+1], p[i+2]}
}

// ColorModel implements image.Image.
func (c *CanonicalImage) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (c *CanonicalImage) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }

// At implements image.Image.
func (c *CanonicalImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(c.Bounds())) {
		return color.RGBA{}
	}
	p := c.PixelAt(x, y, OrderRGB)
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: 0xff}
}
