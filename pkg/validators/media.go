package validators

import (
	"errors"
	"path"
	"strings"
)

var ErrMediaTypeNotAllowed = errors.New("file type is not allowed")

var extToMediaType = map[string]string{
	".png":  "image",
	".jpg":  "image",
	".jpeg": "image",
	".gif":  "image",
	".mp4":  "video",
	".mov":  "video",
	".avi":  "video",
	".mp3":  "audio",
	".wav":  "audio",
}

// MediaTypeValidator checks the file extension against the allowed set and
// returns the media type bucket (image, video or audio) it belongs to.
func MediaTypeValidator(filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))

	t, ok := extToMediaType[ext]
	if !ok {
		return "", ErrMediaTypeNotAllowed
	}

	return t, nil
}
