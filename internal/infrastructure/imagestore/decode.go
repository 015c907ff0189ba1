package imagestore

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"imagescraper/internal/domain/entity"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// readHeader reads dimensions and format from the header only.
func readHeader(data []byte) (image.Config, entity.Format, error) {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, entity.FormatUnknown, err
	}
	return cfg, entity.ParseFormat(name), nil
}

func decode(data []byte) (*entity.ImageArtifact, error) {
	cfg, format, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	if format == entity.FormatUnknown {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return &entity.ImageArtifact{
		Image:  img,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}, nil
}
