// ABOUTME: Scales a still to the configured frame size and re-encodes it as JPEG
// ABOUTME: Accepts JPEG, PNG and BMP sources

package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Normalizer fixes frame dimensions and JPEG quality
type Normalizer struct {
	Width   int
	Height  int
	Quality int
}

// ErrImageTooSmall is returned when no pixel survives the aspect crop
var ErrImageTooSmall = errors.New("image too small to frame")

// DefaultNormalizer matches a 320x240 webcam still
var DefaultNormalizer = Normalizer{Width: 320, Height: 240, Quality: 92}

// Normalize decodes data, center-crops it to the target aspect ratio,
// scales it to Width x Height and encodes JPEG.
func (n Normalizer) Normalize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	width, height := n.Width, n.Height
	if width <= 0 || height <= 0 {
		width, height = DefaultNormalizer.Width, DefaultNormalizer.Height
	}
	quality := n.Quality
	if quality < 1 || quality > 100 {
		quality = DefaultNormalizer.Quality
	}

	src := cropToAspect(img.Bounds(), width, height)
	if src.Empty() {
		b := img.Bounds()
		return nil, fmt.Errorf("%w: %dx%d cannot be cropped to %d:%d", ErrImageTooSmall, b.Dx(), b.Dy(), width, height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// cropToAspect returns the largest centered rectangle of b with aspect w:h.
// The result is empty when b is too thin to hold one row or column.
func cropToAspect(b image.Rectangle, w, h int) image.Rectangle {
	bw, bh := b.Dx(), b.Dy()
	if bw*h > bh*w {
		cw := bh * w / h
		x0 := b.Min.X + (bw-cw)/2
		return image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	}
	ch := bw * h / w
	y0 := b.Min.Y + (bh-ch)/2
	return image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
}
