package session

import (
	"math/rand"
	"os"

	"github.com/alswo471/screensaver/pkg/config"
	"github.com/alswo471/screensaver/pkg/render"
	"github.com/alswo471/screensaver/pkg/types"
)

// Slideshow holds the ordered slide list and the current index for one
// session. It is recreated on every activation and mutated only from the
// run loop.
type Slideshow struct {
	slides []types.Slide
	index  int
}

// NewSlideshow creates a slideshow positioned at the first slide.
func NewSlideshow(slides []types.Slide) *Slideshow {
	return &Slideshow{slides: slides}
}

// Shuffle applies a Fisher-Yates shuffle in place.
func (s *Slideshow) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(s.slides), func(i, j int) {
		s.slides[i], s.slides[j] = s.slides[j], s.slides[i]
	})
}

// Len returns the number of slides.
func (s *Slideshow) Len() int {
	return len(s.slides)
}

// Index returns the current slide index.
func (s *Slideshow) Index() int {
	return s.index
}

// Current returns the slide at the current index.
func (s *Slideshow) Current() types.Slide {
	return s.slides[s.index]
}

// Advance moves to the next slide, wrapping at the end, and returns the
// new index.
func (s *Slideshow) Advance() int {
	s.index = (s.index + 1) % len(s.slides)
	return s.index
}

// resolveSlides builds the slide list for a configuration snapshot.
// backgroundOnly is true when the session shows only the background color.
// A ConfigError means activation must abort with no state change.
func resolveSlides(cfg *config.Config) (slides []types.Slide, backgroundOnly bool, err error) {
	switch cfg.Mode {
	case config.ModeFolder:
		files := render.ListImages(cfg.ImagePath)
		if len(files) == 0 {
			return nil, false, &ConfigError{Reason: "no images to show in folder " + cfg.ImagePath}
		}
		slides = make([]types.Slide, 0, len(files))
		for _, f := range files {
			slides = append(slides, types.ImageSlide(f))
		}
		return slides, false, nil

	default: // single
		if cfg.ImagePath != "" && isRegularFile(cfg.ImagePath) {
			return []types.Slide{types.ImageSlide(cfg.ImagePath)}, false, nil
		}
		if cfg.AllowBlankSingle {
			return []types.Slide{types.BackgroundSlide()}, true, nil
		}
		return nil, false, &ConfigError{Reason: "no valid image file selected"}
	}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
