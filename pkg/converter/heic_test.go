package converter

import "testing"

func TestIsHeicFile(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		want     bool
	}{
		{"photo.heic", "image/heic", true},
		{"photo.heif", "image/heif", true},
		{"PHOTO.HEIC", "", true},
		{"photo.heic", "", true},
		{"photo", "image/heic", true},
		{"photo.jpg", "image/jpeg", false},
		{"photo.png", "", false},
		{"photo", "", false},
		// Extension wins even when the reported MIME disagrees.
		{"photo.heic", "application/octet-stream", true},
		{"photo.heif", "image/jpeg", true},
	}

	for _, test := range tests {
		if got := IsHeicFile(test.name, test.mimeType); got != test.want {
			t.Errorf("IsHeicFile(%q, %q) = %v, want %v", test.name, test.mimeType, got, test.want)
		}
	}
}

func TestIsHeicFileIsPure(t *testing.T) {
	for i := 0; i < 3; i++ {
		if !IsHeicFile("dog.heic", "") {
			t.Fatal("classification changed between identical calls")
		}
	}
}

func TestIsValidImageType(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		want     bool
	}{
		{"a.jpg", "image/jpeg", true},
		{"a.png", "image/png", true},
		{"a.webp", "image/webp", true},
		{"a.heic", "image/heic", true},
		// Mobile Safari sometimes omits the MIME type.
		{"a.jpg", "", true},
		{"a.heic", "", true},
		{"a.pdf", "application/pdf", false},
		{"a.txt", "", false},
		{"a.mp4", "video/mp4", false},
	}

	for _, test := range tests {
		if got := IsValidImageType(test.name, test.mimeType); got != test.want {
			t.Errorf("IsValidImageType(%q, %q) = %v, want %v", test.name, test.mimeType, got, test.want)
		}
	}
}

func TestConvertHeicToJpegRejectsGarbage(t *testing.T) {
	if got := ConvertHeicToJpeg([]byte("definitely not a heic file")); got != nil {
		t.Errorf("expected nil for undecodable input, got %d bytes", len(got))
	}
}
