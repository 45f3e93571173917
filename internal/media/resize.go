package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// TargetSize is the edge length product images are normalized to before
// upload.
const TargetSize = 800

const jpegQuality = 85

// SquareJPEG center-crops the image to a square, scales it to target×target
// and re-encodes as JPEG.
func SquareJPEG(data []byte, target int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	cropped := centerSquare(src)
	dst := image.NewRGBA(image.Rect(0, 0, target, target))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func centerSquare(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return src
	}

	side := w
	if h < side {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2
	rect := image.Rect(x0, y0, x0+side, y0+side)

	if si, ok := src.(subImager); ok {
		return si.SubImage(rect)
	}

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	xdraw.Copy(dst, image.Point{}, src, rect, xdraw.Over, nil)
	return dst
}
