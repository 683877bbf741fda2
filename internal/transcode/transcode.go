// Package transcode converts decodable image buffers into JPEG.
package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// DefaultQuality is the JPEG encode quality used when none is configured.
const DefaultQuality = 90

// ErrUndecodable marks input bytes that no registered decoder accepts.
var ErrUndecodable = errors.New("undecodable image data")

// ToJPEG decodes src and re-encodes it as JPEG at the given quality,
// preserving pixel dimensions. Transparency is flattened onto an opaque
// white background so the result renders the way the source did on the
// host's white-backed detail pages. Quality outside 1..100 falls back to
// DefaultQuality.
func ToJPEG(src []byte, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}

	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	bounds := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
