package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Register the stdlib decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	// Register the extended-format decoders matching the supported set.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// supportedExts is the fixed extension set for folder mode, matched
// case-insensitively.
var supportedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
	".tiff": true,
	".webp": true,
}

// DecodeError wraps a failure to read or decode an image file. Callers
// degrade the affected frame to background-only instead of aborting.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// OpenImage decodes the image file at path.
func OpenImage(path string) (image.Image, error) {
	// #nosec G304 - image paths are user-configured
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// ListImages returns the supported image files directly inside dir, in
// directory enumeration order. A missing or unreadable directory yields an
// empty list.
func ListImages(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if supportedExts[ext] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files
}
