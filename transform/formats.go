package transform

import (
	"errors"
	"strings"
)

type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// AcceptedInputTypes are the upload MIME types the API lets through.
// HEIC and HEIF pass the filter but have no decoder, so transforming them fails.
var AcceptedInputTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/heic",
	"image/heif",
}

func IsAcceptedInput(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	for _, t := range AcceptedInputTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

// ParseFormat accepts jpeg, jpg, png and webp in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func (f Format) ContentType() string {
	return "image/" + string(f)
}

func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}
