package sniff

import (
	"bytes"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Format identifies the detected encoding of an image buffer.
type Format int

const (
	// FormatUnknown means the buffer could not be identified as any image.
	FormatUnknown Format = iota
	// FormatWebP covers lossy, lossless, and extended WebP containers.
	FormatWebP
	// FormatJPEG is a JFIF/EXIF JPEG stream.
	FormatJPEG
	// FormatOther is a decodable image in some format other than WebP or JPEG.
	FormatOther
)

func (f Format) String() string {
	switch f {
	case FormatWebP:
		return "webp"
	case FormatJPEG:
		return "jpeg"
	case FormatOther:
		return "other"
	default:
		return "unknown"
	}
}

var (
	riffTag = []byte("RIFF")
	webpTag = []byte("WEBP")
	jpegSOI = []byte{0xFF, 0xD8, 0xFF}
)

// Detect classifies data by magic bytes, falling back to a general image
// decode probe for formats without a dedicated check. Buffers shorter than
// the magic sequences are unknown, never an error.
func Detect(data []byte) Format {
	if isWebP(data) {
		return FormatWebP
	}
	if isJPEG(data) {
		return FormatJPEG
	}
	if _, name, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		switch name {
		case "webp":
			return FormatWebP
		case "jpeg":
			return FormatJPEG
		default:
			return FormatOther
		}
	}
	return FormatUnknown
}

// isWebP reports whether data starts with a RIFF container whose form type
// is WEBP. Bytes 4..8 hold the chunk size and vary per file.
func isWebP(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[:4], riffTag) && bytes.Equal(data[8:12], webpTag)
}

func isJPEG(data []byte) bool {
	return len(data) >= 3 && bytes.Equal(data[:3], jpegSOI)
}
