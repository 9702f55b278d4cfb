package analyzer

import (
	"math"
)

// plane is a single-channel 8-bit image, row-major.
type plane struct {
	width  int
	height int
	pix    []uint8
}

func (p plane) at(x, y int) int {
	return int(p.pix[y*p.width+x])
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
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

// replicate clamps an index into [0, n).
func replicate(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// laplacian applies the 4-neighbour kernel [0 1 0; 1 -4 1; 0 1 0] to every
// pixel, reflecting at the borders.
func laplacian(p plane) []float64 {
	out := make([]float64, 0, p.width*p.height)
	for y := 0; y < p.height; y++ {
		up := reflect101(y-1, p.height)
		down := reflect101(y+1, p.height)
		for x := 0; x < p.width; x++ {
			left := reflect101(x-1, p.width)
			right := reflect101(x+1, p.width)
			v := p.at(x, up) + p.at(x, down) + p.at(left, y) + p.at(right, y) - 4*p.at(x, y)
			out = append(out, float64(v))
		}
	}
	return out
}

// gaussianKernel5 is the binomial approximation of a 5-tap Gaussian;
// taps sum to 16, so the separable 2D kernel sums to 256.
var gaussianKernel5 = [5]int{1, 4, 6, 4, 1}

// gaussianBlur5 smooths p with a 5x5 Gaussian, reflecting at the borders,
// and rounds back to 8 bits.
func gaussianBlur5(p plane) plane {
	w, h := p.width, p.height
	tmp := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0
			for k := -2; k <= 2; k++ {
				acc += gaussianKernel5[k+2] * p.at(reflect101(x+k, w), y)
			}
			tmp[y*w+x] = acc
		}
	}

	out := plane{width: w, height: h, pix: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0
			for k := -2; k <= 2; k++ {
				acc += gaussianKernel5[k+2] * tmp[reflect101(y+k, h)*w+x]
			}
			out.pix[y*w+x] = uint8((acc + 128) >> 8)
		}
	}
	return out
}

// residual returns the signed per-pixel difference a - b.
func residual(a, b plane) []float64 {
	out := make([]float64, len(a.pix))
	for i := range a.pix {
		out[i] = float64(int(a.pix[i]) - int(b.pix[i]))
	}
	return out
}

// saturationDivisors[v] is round((255 << 12) / v), the fixed-point
// reciprocal used to scale (max - min) / max onto 0-255.
var saturationDivisors = func() [256]int {
	var table [256]int
	for v := 1; v < 256; v++ {
		table[v] = int(math.Round(float64(255<<12) / float64(v)))
	}
	return table
}()

// saturation returns the HSV saturation of an 8-bit RGB triple on 0-255.
func saturation(r, g, b uint8) uint8 {
	maxC, minC := r, r
	if g > maxC {
		maxC = g
	}
	if b > maxC {
		maxC = b
	}
	if g < minC {
		minC = g
	}
	if b < minC {
		minC = b
	}
	diff := int(maxC) - int(minC)
	return uint8((diff*saturationDivisors[maxC] + (1 << 11)) >> 12)
}

// Canny edge map labels.
const (
	edgeNone      = 0
	edgeCandidate = 1
	edgeStrong    = 2
)

// tan(22.5 deg) in Q15.
const cannyTan22 = 13573

// cannyEdges runs a Canny detector with a 3x3 Sobel aperture and L1 gradient
// magnitude, and returns the number of edge pixels.
func cannyEdges(p plane, low, high int) int {
	w, h := p.width, p.height
	if w == 0 || h == 0 {
		return 0
	}

	dx := make([]int, w*h)
	dy := make([]int, w*h)
	mag := make([]int, w*h)
	for y := 0; y < h; y++ {
		ym, yp := replicate(y-1, h), replicate(y+1, h)
		for x := 0; x < w; x++ {
			xm, xp := replicate(x-1, w), replicate(x+1, w)
			gx := (p.at(xp, ym) - p.at(xm, ym)) +
				2*(p.at(xp, y)-p.at(xm, y)) +
				(p.at(xp, yp) - p.at(xm, yp))
			gy := (p.at(xm, yp) - p.at(xm, ym)) +
				2*(p.at(x, yp)-p.at(x, ym)) +
				(p.at(xp, yp) - p.at(xp, ym))
			i := y*w + x
			dx[i], dy[i] = gx, gy
			mag[i] = absInt(gx) + absInt(gy)
		}
	}

	// magnitude outside the image reads as zero
	magAt := func(x, y int) int {
		if x < 0 || x >= w || y < 0 || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	labels := make([]uint8, w*h)
	stack := make([]int, 0, 64)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := mag[i]
			if m <= low {
				continue
			}

			xs, ys := absInt(dx[i]), absInt(dy[i])
			tg22x := xs * cannyTan22
			tg67x := tg22x + xs<<16
			ys <<= 15

			var isMax bool
			switch {
			case ys < tg22x:
				isMax = m > magAt(x-1, y) && m >= magAt(x+1, y)
			case ys > tg67x:
				isMax = m > magAt(x, y-1) && m >= magAt(x, y+1)
			default:
				s := 1
				if (dx[i] ^ dy[i]) < 0 {
					s = -1
				}
				isMax = m > magAt(x-s, y-1) && m > magAt(x+s, y+1)
			}
			if !isMax {
				continue
			}

			if m > high {
				labels[i] = edgeStrong
				stack = append(stack, i)
			} else {
				labels[i] = edgeCandidate
			}
		}
	}

	// hysteresis: grow strong edges through 8-connected candidates
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for ny := y - 1; ny <= y+1; ny++ {
			for nx := x - 1; nx <= x+1; nx++ {
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				j := ny*w + nx
				if labels[j] == edgeCandidate {
					labels[j] = edgeStrong
					stack = append(stack, j)
				}
			}
		}
	}

	count := 0
	for _, l := range labels {
		if l == edgeStrong {
			count++
		}
	}
	return count
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// round2 rounds to two decimal places, ties to even.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// round4 rounds to four decimal places, ties to even.
func round4(v float64) float64 {
	return math.RoundToEven(v*10000) / 10000
}
