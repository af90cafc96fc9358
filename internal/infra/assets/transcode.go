// Package assets turns uploaded tenant logos into WebP and stores them.
package assets

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const ContentTypeWebP = "image/webp"

var ErrUnsupportedImage = errors.New("unsupported image")

// Transcode decodes PNG, JPEG or WebP, scales the image down so its longer
// side is at most maxSide and encodes it as WebP.
func Transcode(r io.Reader, maxSide int) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		if src, err = webp.Decode(bytes.NewReader(raw)); err != nil {
			return nil, ErrUnsupportedImage
		}
	}

	img := scaleDown(src, maxSide)

	var out bytes.Buffer
	if err := webp.Encode(&out, img, &webp.Options{Quality: 82}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func scaleDown(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return src
	}

	if w >= h {
		h = h * maxSide / w
		w = maxSide
	} else {
		w = w * maxSide / h
		h = maxSide
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
