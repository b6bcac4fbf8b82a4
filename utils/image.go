package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeImageDataURI splits a "data:image/jpeg;base64,..." payload into
// raw bytes and its content type.
func DecodeImageDataURI(dataURI string) ([]byte, string, error) {
	parts := strings.SplitN(dataURI, ",", 2)
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "data:image") {
		return nil, "", fmt.Errorf("invalid image data URI")
	}

	mediaType := strings.SplitN(parts[0], ":", 2)[1]    // "image/jpeg;base64"
	contentType := strings.SplitN(mediaType, ";", 2)[0] // "image/jpeg"

	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, "", fmt.Errorf("decode base64 image: %w", err)
	}
	return raw, contentType, nil
}
