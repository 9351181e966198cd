// Package render turns source images into exact-size monitor frames.
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/alswo471/screensaver/pkg/types"
)

// Render scales src onto a targetW x targetH frame under the given scale
// mode. The returned buffer is always exactly the target size; any
// uncovered remainder is filled with the background color.
func Render(src image.Image, targetW, targetH int, mode types.ScaleMode, bg color.NRGBA) *image.NRGBA {
	dst := Blank(targetW, targetH, bg)
	if src == nil {
		return dst
	}

	srcW := src.Bounds().Dx()
	srcH := src.Bounds().Dy()
	if srcW <= 0 || srcH <= 0 || targetW <= 0 || targetH <= 0 {
		return dst
	}

	switch mode {
	case types.ScaleStretch:
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	case types.ScaleFill:
		ratio := maxRatio(float64(targetW)/float64(srcW), float64(targetH)/float64(srcH))
		scaledW := int(float64(srcW) * ratio)
		scaledH := int(float64(srcH) * ratio)
		// Center crop: scale into a rect larger than the frame, offset so
		// the overflow is split evenly on both sides.
		left := (scaledW - targetW) / 2
		top := (scaledH - targetH) / 2
		r := image.Rect(-left, -top, -left+scaledW, -top+scaledH)
		draw.CatmullRom.Scale(dst, r, src, src.Bounds(), draw.Over, nil)

	default: // fit
		ratio := minRatio(float64(targetW)/float64(srcW), float64(targetH)/float64(srcH))
		scaledW := int(float64(srcW) * ratio)
		scaledH := int(float64(srcH) * ratio)
		if scaledW < 1 {
			scaledW = 1
		}
		if scaledH < 1 {
			scaledH = 1
		}
		x := (targetW - scaledW) / 2
		y := (targetH - scaledH) / 2
		r := image.Rect(x, y, x+scaledW, y+scaledH)
		draw.CatmullRom.Scale(dst, r, src, src.Bounds(), draw.Over, nil)
	}

	return dst
}

// Blank returns a frame of the exact target size filled with the
// background color. Used for background-only mode and decode failures.
func Blank(targetW, targetH int, bg color.NRGBA) *image.NRGBA {
	if targetW < 0 {
		targetW = 0
	}
	if targetH < 0 {
		targetH = 0
	}
	dst := image.NewNRGBA(image.Rect(0, 0, targetW, targetH))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return dst
}

func minRatio(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxRatio(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
