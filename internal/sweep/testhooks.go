package sweep

import "stashsweep/internal/transcode"

var transcodeImage = transcode.ToJPEG

// SetTranscodeForTests overrides the image transcoder during tests.
func SetTranscodeForTests(fn func([]byte, int) ([]byte, error)) func() {
	previous := transcodeImage
	transcodeImage = fn
	return func() {
		transcodeImage = previous
	}
}
