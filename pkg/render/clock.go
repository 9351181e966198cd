package render

import (
	"image"
	"image/color"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// clockScale enlarges the 7x13 base face into a wall-clock sized glyph.
const clockScale = 6

// ClockFrame renders the given wall-clock time as HH:MM:SS, large white
// text centered on a background-colored frame of the exact target size.
func ClockFrame(now time.Time, targetW, targetH int, bg color.NRGBA) *image.NRGBA {
	dst := Blank(targetW, targetH, bg)
	text := now.Format("15:04:05")

	face := basicfont.Face7x13
	textW := font.MeasureString(face, text).Ceil()
	textH := face.Height

	small := image.NewNRGBA(image.Rect(0, 0, textW+2, textH+2))
	drawer := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}),
		Face: face,
		Dot:  fixed.P(1, face.Ascent+1),
	}
	drawer.DrawString(text)
	// Second pass one pixel right thickens the strokes into a bold weight.
	drawer.Dot = fixed.P(2, face.Ascent+1)
	drawer.DrawString(text)

	scaledW := small.Bounds().Dx() * clockScale
	scaledH := small.Bounds().Dy() * clockScale
	x := (targetW - scaledW) / 2
	y := (targetH - scaledH) / 2
	r := image.Rect(x, y, x+scaledW, y+scaledH)
	draw.NearestNeighbor.Scale(dst, r, small, small.Bounds(), draw.Over, nil)

	return dst
}
