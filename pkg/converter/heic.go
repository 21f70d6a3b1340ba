package converter

import (
	"bytes"
	"image/jpeg"
	"log/slog"
	"path"
	"strings"

	"github.com/gen2brain/heic"

	"github.com/redpaw/redpaw/pkg/logger"
)

// heicQualityLadder is the descending quality sequence tried when
// re-encoding a decoded HEIC frame.
var heicQualityLadder = []int{92, 85, 70}

var validImageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/heic": true,
	"image/heif": true,
}

var validImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".heic": true,
	".heif": true,
}

// IsHeicFile classifies by extension, MIME type, or the iOS quirk of an
// empty MIME with a matching extension.
func IsHeicFile(name, mimeType string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == ".heic" || ext == ".heif" {
		return true
	}

	switch strings.ToLower(mimeType) {
	case "image/heic", "image/heif":
		return true
	}
	return false
}

// IsValidImageType accepts common raster formats plus HEIC/HEIF. Mobile
// Safari sometimes omits the MIME type entirely, so an empty MIME with a
// known image extension also passes.
func IsValidImageType(name, mimeType string) bool {
	ext := strings.ToLower(path.Ext(name))
	mime := strings.ToLower(strings.TrimSpace(mimeType))

	if mime == "" {
		return validImageExtensions[ext]
	}
	return validImageMIMETypes[mime] || validImageExtensions[ext]
}

// ConvertHeicToJpeg decodes a HEIC frame and re-encodes it as JPEG,
// walking the quality ladder until an attempt produces bytes. Returns nil
// when every attempt fails; the caller decides whether a server-side
// fallback applies.
func ConvertHeicToJpeg(data []byte) []byte {
	img, err := heic.Decode(bytes.NewReader(data))
	if err != nil {
		slog.Debug("HEIC decode failed", logger.Err(err))
		return nil
	}

	for _, quality := range heicQualityLadder {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			slog.Debug("JPEG encode attempt failed", "quality", quality, logger.Err(err))
			continue
		}
		if buf.Len() > 0 {
			return buf.Bytes()
		}
	}

	return nil
}
