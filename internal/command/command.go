// Package command holds the image operations produced by editing modes.
package command

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/frudas24/cropslice/internal/geom"
)

// ErrEmptyCrop is returned when a crop rectangle does not overlap the image.
var ErrEmptyCrop = errors.New("crop rectangle is empty")

// Command is an operation applied to the edited image.
type Command interface {
	Name() string
	Execute(src image.Image) (image.Image, error)
}

// Crop cuts the image down to Rect, given in image space.
type Crop struct {
	Rect geom.Rect
}

// Name identifies the command in logs and history.
func (Crop) Name() string { return "crop" }

// Execute returns a copy of the cropped region. The rectangle is rounded to
// whole pixels and intersected with the source bounds.
func (c Crop) Execute(src image.Image) (image.Image, error) {
	if src == nil {
		return nil, errors.New("crop: nil source image")
	}
	bounds := src.Bounds()
	r := c.Rect.Image().Add(bounds.Min).Intersect(bounds)
	if r.Empty() {
		return nil, fmt.Errorf("crop %v of %v: %w", c.Rect, bounds, ErrEmptyCrop)
	}
	return imaging.Crop(src, r), nil
}
