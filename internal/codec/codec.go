// Package codec provides image decoding, colour conversion and encoding for
// the formats siblings are generated in.
package codec

import (
	"errors"
	"image"

	"github.com/svdgoor/Tools/internal/models"
)

// Codec defines the image operations a conversion job needs.
// Implementations must be safe for concurrent use by multiple workers.
type Codec interface {
	// Open decodes the image at path.
	Open(path string) (image.Image, error)

	// Convert returns img in the canonical colour model used for every
	// saved sibling (opaque 8-bit RGB).
	Convert(img image.Image) (image.Image, error)

	// Save encodes img to path using the encoder of format f.
	Save(img image.Image, path string, f models.Format) error
}

var (
	// ErrEmptyImage is returned by Convert for images without pixels.
	ErrEmptyImage = errors.New("image has no pixels")

	// ErrUnsupportedFormat is returned by Save for formats it cannot encode.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Options tunes the lossy encoders.
type Options struct {
	// JPEGQuality is the JPEG quality, 1-100.
	JPEGQuality int

	// WebPQuality is the lossy WebP quality, 1-100.
	WebPQuality int
}

// DefaultOptions returns the encoder settings used when none are configured.
func DefaultOptions() Options {
	return Options{
		JPEGQuality: 95,
		WebPQuality: 90,
	}
}

// New creates the default codec backed by the imaging and go-webp libraries.
func New(opts Options) Codec {
	return NewImaging(opts)
}
