package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Decode parses image data and returns the decoded image along with its
// format name ("jpeg", "png", "gif", "webp"). Returns an error for data
// that is not a supported image.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("image data cannot be empty")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	return img, format, nil
}

// ExtensionForFormat maps a decoded format name to a file extension.
func ExtensionForFormat(format string) (string, error) {
	switch format {
	case "jpeg":
		return ".jpg", nil
	case "png":
		return ".png", nil
	case "gif":
		return ".gif", nil
	case "webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("unsupported image format: %s", format)
	}
}
