package output

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

const (
	// CoverFile is the exported cover image name.
	CoverFile = "cover.jpg"

	defaultCoverJPEGQuality = 90
	defaultMaxPixels        = 100 * 1000 * 1000
)

// ErrUnsupportedCover is returned when the cover image cannot be decoded,
// e.g. a WebP or truncated image, or one above the pixel limit.
var ErrUnsupportedCover = errors.New("unsupported cover image")

// CoverOptions controls cover export.
type CoverOptions struct {
	MaxWidth    int // 0 keeps the original width
	JPEGQuality int
}

// EncodeCover decodes an image, shrinks it to MaxWidth keeping the aspect
// ratio, and writes it as JPEG.
func EncodeCover(w io.Writer, data []byte, opts CoverOptions) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedCover, err)
	}
	if pixels := uint64(cfg.Width) * uint64(cfg.Height); pixels > defaultMaxPixels {
		return fmt.Errorf("%w: too large to decode: %dx%d", ErrUnsupportedCover, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedCover, err)
	}
	if opts.MaxWidth > 0 && img.Bounds().Dx() > opts.MaxWidth {
		img = imaging.Resize(img, opts.MaxWidth, 0, imaging.Lanczos)
	}

	quality := opts.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = defaultCoverJPEGQuality
	}
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to encode cover: %w", err)
	}
	return nil
}
