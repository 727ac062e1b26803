package thermal

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Annotation colors for the coldest and hottest pixel.
var (
	MinColor = color.RGBA{R: 255, A: 255}
	MaxColor = color.RGBA{B: 255, A: 255}
)

// Options controls the output of Process.
type Options struct {
	// Width and Height of the output image. Zero keeps the sample's size.
	Width  int
	Height int
}

// Extreme is the location and raw code of the coldest or hottest pixel,
// in sample coordinates.
type Extreme struct {
	Point image.Point
	Value CentiK
}

// Display is a rendered, annotated thermal frame.
type Display struct {
	Image *image.RGBA
	Min   Extreme
	Max   Extreme
}

// Process renders s as an RGB image scaled to the full 8-bit range and marks
// the coldest and hottest pixels with their Fahrenheit reading.
//
// Process does not modify s and allocates a new image on every call.
func Process(s *Sample, opts Options) *Display {
	if len(s.Pix) == 0 || len(s.Pix) != s.Width*s.Height {
		return &Display{Image: image.NewRGBA(image.Rectangle{})}
	}

	minE, maxE := MinMax(s)
	img := toRGB(s, uint16(minE.Value), uint16(maxE.Value))

	minAt, maxAt := minE.Point, maxE.Point
	if w, h := opts.Width, opts.Height; w > 0 && h > 0 && (w != s.Width || h != s.Height) {
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = scaled
		minAt = scalePoint(minAt, s.Width, s.Height, w, h)
		maxAt = scalePoint(maxAt, s.Width, s.Height, w, h)
	}

	annotate(img, minE.Value, minAt, MinColor)
	annotate(img, maxE.Value, maxAt, MaxColor)

	return &Display{Image: img, Min: minE, Max: maxE}
}

// MinMax returns the coldest and hottest pixels of s. Ties resolve to the
// first occurrence in row-major order. An empty sample yields zero extremes.
func MinMax(s *Sample) (minE, maxE Extreme) {
	if s == nil || s.Width <= 0 || s.Height <= 0 || len(s.Pix) < s.Width*s.Height {
		return minE, maxE
	}
	lo, hi := s.Pix[0], s.Pix[0]
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			v := s.At(x, y)
			if v < lo {
				lo, minE.Point = v, image.Pt(x, y)
			}
			if v > hi {
				hi, maxE.Point = v, image.Pt(x, y)
			}
		}
	}
	minE.Value, maxE.Value = CentiK(lo), CentiK(hi)
	return minE, maxE
}

// Normalize stretches pix linearly so that lo maps to 0 and hi to 65535.
// A flat frame (lo == hi) maps to all zeros.
func Normalize(pix []uint16, lo, hi uint16) []uint16 {
	out := make([]uint16, len(pix))
	if hi <= lo {
		return out
	}
	scale := 65535.0 / float64(hi-lo)
	for i, v := range pix {
		n := math.RoundToEven(float64(v-lo) * scale)
		if n > 65535 {
			n = 65535
		}
		out[i] = uint16(n)
	}
	return out
}

func toRGB(s *Sample, lo, hi uint16) *image.RGBA {
	norm := Normalize(s.Pix, lo, hi)
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for i, v := range norm {
		g := uint8(v >> 8)
		o := 4 * i
		img.Pix[o+0] = g
		img.Pix[o+1] = g
		img.Pix[o+2] = g
		img.Pix[o+3] = 0xff
	}
	return img
}

func scalePoint(p image.Point, inW, inH, outW, outH int) image.Point {
	return image.Pt(p.X*outW/inW, p.Y*outH/inH)
}
