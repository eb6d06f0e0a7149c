// Package source loads the image being edited and writes committed results.
package source

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	// Registers the webp decoder with image.Decode.
	_ "golang.org/x/image/webp"
)

const jpegQuality = 92

// Load decodes the image at path and applies its EXIF orientation.
// Supported formats are png, jpeg, gif, bmp, tiff and webp.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path, choosing the format from the extension.
// Parent directories are created as needed.
func Save(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// Encode writes img in the format named by ext (".png", ".jpg", ...).
func Encode(w io.Writer, ext string, img image.Image) error {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return fmt.Errorf("output format %q: %w", ext, err)
	}
	return imaging.Encode(w, img, format, imaging.JPEGQuality(jpegQuality))
}
