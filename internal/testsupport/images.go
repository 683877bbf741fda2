package testsupport

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"
)

// WebPBytes returns a buffer carrying the RIFF/WEBP container magic. The
// payload is filler, so it sniffs as WebP but does not decode.
func WebPBytes() []byte {
	return append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), bytes.Repeat([]byte{0x5A}, 48)...)
}

// JPEGBytes returns a small real JPEG encoding.
func JPEGBytes(t testing.TB) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4)), nil); err != nil {
		t.Fatalf("encode jpeg fixture: %v", err)
	}
	return buf.Bytes()
}
