package imagestore

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// toRGB drops transparency by compositing onto white so the result encodes in
// any target format. A failed composite falls back to a per-pixel copy.
func toRGB(img image.Image) *image.NRGBA {
	out, err := flatten(img)
	if err == nil {
		return out
	}
	return forceRGB(img)
}

func flatten(img image.Image) (out *image.NRGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("flatten image: %v", r)
		}
	}()

	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0), nil
}

// forceRGB copies the straight (non-premultiplied) colour of every pixel and
// makes it opaque.
func forceRGB(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			px.A = 0xff
			out.SetNRGBA(x-b.Min.X, y-b.Min.Y, px)
		}
	}
	return out
}
