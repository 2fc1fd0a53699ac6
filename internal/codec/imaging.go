package codec

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/svdgoor/Tools/internal/models"

	// Registers the WebP decoder with image.Decode, which imaging.Open uses.
	_ "golang.org/x/image/webp"
)

// Imaging implements Codec with github.com/disintegration/imaging for
// decoding, PNG and JPEG, and github.com/kolesa-team/go-webp for WebP output.
type Imaging struct {
	opts Options
}

// NewImaging creates an imaging-backed codec. Zero option values fall back to
// DefaultOptions.
func NewImaging(opts Options) *Imaging {
	def := DefaultOptions()
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = def.JPEGQuality
	}
	if opts.WebPQuality <= 0 {
		opts.WebPQuality = def.WebPQuality
	}
	return &Imaging{opts: opts}
}

// Open decodes the image at path.
func (c *Imaging) Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Convert flattens img onto a white background, dropping alpha.
func (c *Imaging) Convert(img image.Image) (image.Image, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	src := imaging.Clone(img)
	b := src.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, src, image.Pt(0, 0), 1.0), nil
}

// Save writes img to path. A partially written file is removed on failure.
func (c *Imaging) Save(img image.Image, path string, f models.Format) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := c.encode(file, img, f); err != nil {
		return fmt.Errorf("encode %s as %s: %w", path, f.Encoder(), err)
	}
	return nil
}

func (c *Imaging) encode(w io.Writer, img image.Image, f models.Format) error {
	switch f {
	case models.FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case models.FormatJPG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(c.opts.JPEGQuality))
	case models.FormatWebP:
		options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(c.opts.WebPQuality))
		if err != nil {
			return fmt.Errorf("webp options: %w", err)
		}
		return webp.Encode(w, img, options)
	default:
		return ErrUnsupportedFormat
	}
}
