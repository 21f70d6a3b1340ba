package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// The ladder runs from least to most aggressive; the first result at or
// under the target wins.
var (
	ladderDimensions = []int{1600, 1280, 1024, 800}
	ladderQualities  = []int{85, 75, 65, 55, 45}
)

// The last-resort pass caps runaway inputs; its result is returned even
// when it still exceeds the target.
const (
	lastResortDimension = 640
	lastResortQuality   = 30
)

// ResizeAndCompress scales img so the longer edge does not exceed
// maxDimension, preserving aspect ratio, and re-encodes as JPEG at the
// given quality (1-100).
func ResizeAndCompress(img image.Image, maxDimension, quality int) ([]byte, error) {
	scaled := scaleDown(img, maxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg at q%d: %w", quality, err)
	}
	return buf.Bytes(), nil
}

// CompressToTarget walks the dimension/quality ladder and returns the first
// encoding at or under targetBytes. When every step misses, it falls back
// to a single last-resort pass and returns that unconditionally, so the
// target is a soft constraint and the function always returns some JPEG.
func CompressToTarget(img image.Image, targetBytes int) []byte {
	var best []byte

	for _, dim := range ladderDimensions {
		for _, quality := range ladderQualities {
			data, err := ResizeAndCompress(img, dim, quality)
			if err != nil {
				continue
			}
			if len(data) <= targetBytes {
				return data
			}
			best = data
		}
	}

	data, err := ResizeAndCompress(img, lastResortDimension, lastResortQuality)
	if err != nil {
		// Encoding at 640px failed but an earlier pass produced bytes;
		// forward progress beats target adherence.
		return best
	}
	return data
}

// scaleDown returns img untouched when it already fits.
func scaleDown(img image.Image, maxDimension int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxDimension {
		return img
	}

	scale := float64(maxDimension) / float64(longest)
	dstW := int(float64(w)*scale + 0.5)
	dstH := int(float64(h)*scale + 0.5)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
