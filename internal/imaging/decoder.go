// Package imaging decodes image files for display, downscaling them to fit
// the viewing surface.
package imaging

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DecodeError reports a file that exists but could not be decoded as an
// image. It is distinct from open errors so callers can auto-reject corrupt
// files while surfacing missing ones.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Load opens and decodes the image at path. When maxWidth and maxHeight are
// both positive the image is downscaled to fit within them, preserving
// aspect ratio; images already within bounds are never upscaled.
func Load(path string, maxWidth, maxHeight int) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %q: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	if maxWidth > 0 && maxHeight > 0 {
		img = resize.Thumbnail(uint(maxWidth), uint(maxHeight), img, resize.Lanczos3)
	}
	return img, nil
}
