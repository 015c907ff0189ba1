package entity

import (
	"image"
	"strings"
)

type Format string

const (
	FormatUnknown Format = ""
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatGIF     Format = "gif"
	FormatWEBP    Format = "webp"
	FormatBMP     Format = "bmp"
	FormatTIFF    Format = "tiff"
)

// ParseFormat maps a decoder name or file extension to a Format.
func ParseFormat(s string) Format {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "jpg", "jpeg":
		return FormatJPEG
	case "png":
		return FormatPNG
	case "gif":
		return FormatGIF
	case "webp":
		return FormatWEBP
	case "bmp":
		return FormatBMP
	case "tif", "tiff":
		return FormatTIFF
	default:
		return FormatUnknown
	}
}

func (f Format) String() string {
	if f == FormatUnknown {
		return "unknown"
	}
	return string(f)
}

// SaveFormats are the formats a caller may request explicitly. Anything else
// falls back to the source format.
var SaveFormats = []string{"jpg", "jpeg", "png"}

func IsSaveFormat(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range SaveFormats {
		if s == f {
			return true
		}
	}
	return false
}

// ImageArtifact is a decoded image living only for one save operation.
type ImageArtifact struct {
	Image  image.Image
	Width  int
	Height int
	Format Format
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
