package imagesniff

import "bytes"

// MediaType is a verified image media type derived from file content.
type MediaType string

const (
	JPEG MediaType = "image/jpeg"
	PNG  MediaType = "image/png"
	GIF  MediaType = "image/gif"
	WEBP MediaType = "image/webp"
)

// String returns the media type as used in Content-Type headers
func (m MediaType) String() string { return string(m) }

var (
	sigJPEG  = []byte{0xFF, 0xD8, 0xFF}
	sigPNG   = []byte{0x89, 0x50, 0x4E, 0x47}
	sigGIF87 = []byte("GIF87a")
	sigGIF89 = []byte("GIF89a")
	sigRIFF  = []byte("RIFF")
	sigWEBP  = []byte("WEBP")
)

// Detect inspects the leading bytes of b and reports the image type they
// carry. Client supplied names and content types are never consulted.
// The table is checked in order and the first match wins.
func Detect(b []byte) (MediaType, bool) {
	switch {
	case bytes.HasPrefix(b, sigJPEG):
		return JPEG, true
	case bytes.HasPrefix(b, sigPNG):
		return PNG, true
	case bytes.HasPrefix(b, sigGIF87), bytes.HasPrefix(b, sigGIF89):
		return GIF, true
	case bytes.HasPrefix(b, sigRIFF) && len(b) >= 12 && bytes.Equal(b[8:12], sigWEBP):
		return WEBP, true
	}
	return "", false
}
