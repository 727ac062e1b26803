package thermal

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const crosshairArm = 2

// annotate writes the Fahrenheit reading of v with its baseline starting at
// p, and a small crosshair centred on p.
func annotate(img *image.RGBA, v CentiK, p image.Point, c color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(p.X, p.Y),
	}
	d.DrawString(v.String())

	for i := -crosshairArm; i <= crosshairArm; i++ {
		img.SetRGBA(p.X+i, p.Y, c)
		img.SetRGBA(p.X, p.Y+i, c)
	}
}
