package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/alswo471/screensaver/pkg/types"
)

var (
	red  = color.NRGBA{R: 0xFF, A: 0xFF}
	blue = color.NRGBA{B: 0xFF, A: 0xFF}
)

// uniform builds a solid-color source image.
func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRenderExactDimensions(t *testing.T) {
	src := uniform(100, 50, red)

	tests := []struct {
		mode types.ScaleMode
		w, h int
	}{
		{types.ScaleFit, 200, 200},
		{types.ScaleFill, 200, 200},
		{types.ScaleStretch, 200, 200},
		{types.ScaleFit, 33, 77},
		{types.ScaleFill, 33, 77},
		{types.ScaleStretch, 33, 77},
		{types.ScaleFit, 1, 1},
	}

	for _, tt := range tests {
		out := Render(src, tt.w, tt.h, tt.mode, blue)
		if out.Bounds().Dx() != tt.w || out.Bounds().Dy() != tt.h {
			t.Errorf("%s %dx%d: got %dx%d", tt.mode, tt.w, tt.h,
				out.Bounds().Dx(), out.Bounds().Dy())
		}
	}
}

func TestRenderFitLetterboxes(t *testing.T) {
	// 100x50 source into a 200x200 target: scaled to 200x100, centered,
	// with exact-background bands above and below.
	out := Render(uniform(100, 50, red), 200, 200, types.ScaleFit, blue)

	if got := out.NRGBAAt(100, 25); got != blue {
		t.Errorf("top band should be background, got %v", got)
	}
	if got := out.NRGBAAt(100, 49); got != blue {
		t.Errorf("pixel just above content should be background, got %v", got)
	}
	if got := out.NRGBAAt(100, 100); got != red {
		t.Errorf("center should be content, got %v", got)
	}
	if got := out.NRGBAAt(100, 175); got != blue {
		t.Errorf("bottom band should be background, got %v", got)
	}
}

func TestRenderFitPreservesAspect(t *testing.T) {
	// Count content rows/columns; their ratio must match the source
	// aspect ratio within rounding.
	out := Render(uniform(100, 50, red), 300, 300, types.ScaleFit, blue)

	contentRows := 0
	for y := 0; y < 300; y++ {
		if out.NRGBAAt(150, y) == red {
			contentRows++
		}
	}
	contentCols := 0
	for x := 0; x < 300; x++ {
		if out.NRGBAAt(x, 150) == red {
			contentCols++
		}
	}

	if contentCols != 300 {
		t.Errorf("expected content to span full width, got %d", contentCols)
	}
	if contentRows < 149 || contentRows > 151 {
		t.Errorf("expected ~150 content rows for 2:1 source, got %d", contentRows)
	}
}

func TestRenderFillCoversWithoutBorder(t *testing.T) {
	out := Render(uniform(100, 50, red), 200, 200, types.ScaleFill, blue)

	corners := []image.Point{{0, 0}, {199, 0}, {0, 199}, {199, 199}, {100, 100}}
	for _, pt := range corners {
		if got := out.NRGBAAt(pt.X, pt.Y); got != red {
			t.Errorf("fill output should have no background at %v, got %v", pt, got)
		}
	}
}

func TestRenderFillCropIsCentered(t *testing.T) {
	// Source: left half red, right half blue, 100x50. Fill into 50x200:
	// ratio = max(0.5, 4) = 4 -> scaled 400x200, crop left = (400-50)/2 =
	// 175, so the visible strip comes from source columns ~43.75..56.25 -
	// the crop straddles the color boundary at the center.
	src := image.NewNRGBA(image.Rect(0, 0, 100, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			if x < 50 {
				src.SetNRGBA(x, y, red)
			} else {
				src.SetNRGBA(x, y, blue)
			}
		}
	}

	out := Render(src, 50, 200, types.ScaleFill, color.NRGBA{G: 0xFF, A: 0xFF})

	if got := out.NRGBAAt(2, 100); got != red {
		t.Errorf("left edge of centered crop should be red, got %v", got)
	}
	if got := out.NRGBAAt(47, 100); got != blue {
		t.Errorf("right edge of centered crop should be blue, got %v", got)
	}
}

func TestRenderStretchIgnoresAspect(t *testing.T) {
	out := Render(uniform(10, 10, red), 120, 30, types.ScaleStretch, blue)

	for _, pt := range []image.Point{{0, 0}, {119, 29}, {60, 15}} {
		if got := out.NRGBAAt(pt.X, pt.Y); got != red {
			t.Errorf("stretch should cover %v, got %v", pt, got)
		}
	}
}

func TestRenderNilSourceIsBlank(t *testing.T) {
	out := Render(nil, 40, 40, types.ScaleFit, blue)
	for _, pt := range []image.Point{{0, 0}, {39, 39}, {20, 20}} {
		if got := out.NRGBAAt(pt.X, pt.Y); got != blue {
			t.Errorf("expected background at %v, got %v", pt, got)
		}
	}
}

func TestBlank(t *testing.T) {
	out := Blank(17, 23, red)
	if out.Bounds().Dx() != 17 || out.Bounds().Dy() != 23 {
		t.Fatalf("got %v", out.Bounds())
	}
	if got := out.NRGBAAt(16, 22); got != red {
		t.Errorf("expected background fill, got %v", got)
	}
}
