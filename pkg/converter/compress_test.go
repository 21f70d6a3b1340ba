package converter

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
	"testing"
)

// noiseImage defeats JPEG compression well enough that small targets force
// the ladder all the way down.
func noiseImage(w, h int) image.Image {
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestResizeAndCompressShrinksLongerEdge(t *testing.T) {
	data, err := ResizeAndCompress(noiseImage(2000, 1000), 800, 75)
	if err != nil {
		t.Fatalf("ResizeAndCompress: %v", err)
	}

	w, h := decodeDims(t, data)
	if w != 800 {
		t.Errorf("width = %d, want 800", w)
	}
	if h != 400 {
		t.Errorf("height = %d, want 400 (aspect ratio preserved)", h)
	}
}

func TestResizeAndCompressKeepsSmallImages(t *testing.T) {
	data, err := ResizeAndCompress(noiseImage(300, 200), 1600, 85)
	if err != nil {
		t.Fatalf("ResizeAndCompress: %v", err)
	}

	w, h := decodeDims(t, data)
	if w != 300 || h != 200 {
		t.Errorf("dims = %dx%d, want 300x200 unchanged", w, h)
	}
}

func TestCompressToTargetMeetsGenerousTarget(t *testing.T) {
	data := CompressToTarget(noiseImage(2400, 1600), 10*1024*1024)
	if len(data) == 0 {
		t.Fatal("no output")
	}
	if len(data) > 10*1024*1024 {
		t.Errorf("output %d bytes exceeds a 10MB target", len(data))
	}

	w, h := decodeDims(t, data)
	if w > 1600 || h > 1600 {
		t.Errorf("dims %dx%d exceed the largest ladder dimension", w, h)
	}
}

func TestCompressToTargetImpossibleTargetStillReturns(t *testing.T) {
	// A 1-byte target is unreachable; the last-resort pass must win.
	data := CompressToTarget(noiseImage(2000, 2000), 1)
	if len(data) == 0 {
		t.Fatal("expected last-resort output, got none")
	}

	w, h := decodeDims(t, data)
	if w > lastResortDimension || h > lastResortDimension {
		t.Errorf("dims %dx%d exceed the last-resort dimension %d", w, h, lastResortDimension)
	}
}

func TestJpegFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dog.heic", "dog.jpg"},
		{"dog.PNG", "dog.jpg"},
		{"holiday.photo.webp", "holiday.photo.jpg"},
		{"dog", "dog.jpg"},
		{".heic", "photo.jpg"},
		{"uploads/summer/dog.heif", "dog.jpg"},
	}

	for _, test := range tests {
		if got := jpegFilename(test.in); got != test.want {
			t.Errorf("jpegFilename(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestLowerQualityNeverGrowsOutput(t *testing.T) {
	img := noiseImage(1400, 1050)
	const dim = 1024

	prev := -1
	for _, quality := range ladderQualities {
		data, err := ResizeAndCompress(img, dim, quality)
		if err != nil {
			t.Fatalf("ResizeAndCompress(q=%d): %v", quality, err)
		}
		if prev >= 0 && len(data) > prev {
			t.Errorf("quality %d produced %d bytes, more than the %d bytes of the previous rung", quality, len(data), prev)
		}
		prev = len(data)
	}
}
