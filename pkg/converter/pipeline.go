package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/redpaw/redpaw/pkg/logger"
	"github.com/redpaw/redpaw/pkg/storage"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultTargetBytes is the default upload size budget (2 MB).
const DefaultTargetBytes = 2 * 1024 * 1024

// ErrHeicConversion is the terminal failure when a HEIC file survives
// neither the local nor the server-side conversion path.
var ErrHeicConversion = errors.New("Could not convert HEIC file. Please try a JPG or PNG instead")

// RemoteHeicConverter is the server-side conversion fallback: given a
// temporary storage path holding the original HEIC bytes, it returns a
// public URL of the converted file.
type RemoteHeicConverter interface {
	Convert(ctx context.Context, tempPath, userID string) (string, error)
}

// Result is either local bytes ready to upload (Data + Filename) or a
// ServerURL when the server-side fallback already produced the artifact.
type Result struct {
	Data      []byte
	Filename  string
	ServerURL string
}

// Options tune one ProcessImageForUpload call.
type Options struct {
	// TargetBytes is the soft output size budget; DefaultTargetBytes when
	// zero.
	TargetBytes int

	// UserID namespaces the temporary object used by the server fallback.
	UserID string
}

// Pipeline normalizes arbitrary user photos to JPEG under a byte budget.
// store and remote are optional; without them HEIC files only have the
// local conversion path.
type Pipeline struct {
	store  storage.ObjectStore
	remote RemoteHeicConverter
}

func NewPipeline(store storage.ObjectStore, remote RemoteHeicConverter) *Pipeline {
	return &Pipeline{store: store, remote: remote}
}

// ProcessImageForUpload converts, resizes and compresses one photo. HEIC
// inputs try the local decoder first and the server-side fallback second;
// a server-converted file short-circuits the local compression entirely.
// The output filename always ends in .jpg.
func (p *Pipeline) ProcessImageForUpload(ctx context.Context, filename, mimeType string, data []byte, opts Options) (*Result, error) {
	if !IsValidImageType(filename, mimeType) {
		return nil, fmt.Errorf("unsupported image type %q (%s)", mimeType, filename)
	}
	if opts.TargetBytes <= 0 {
		opts.TargetBytes = DefaultTargetBytes
	}

	if IsHeicFile(filename, mimeType) {
		converted := ConvertHeicToJpeg(data)
		if converted == nil && p.store != nil && p.remote != nil {
			url, err := p.convertServerSide(ctx, data, opts.UserID)
			if err != nil {
				slog.WarnContext(ctx, "Server-side HEIC conversion failed", logger.Err(err))
			} else {
				// The server already produced a suitable artifact.
				return &Result{ServerURL: url}, nil
			}
		}
		if converted == nil {
			return nil, ErrHeicConversion
		}
		data = converted
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	return &Result{
		Data:     CompressToTarget(img, opts.TargetBytes),
		Filename: jpegFilename(filename),
	}, nil
}

// convertServerSide stages the original under a temporary path, invokes the
// remote converter, and cleans the temporary object up on failure.
func (p *Pipeline) convertServerSide(ctx context.Context, data []byte, userID string) (string, error) {
	tempPath := path.Join(storage.BucketHeicTemp, userID, uuid.NewString()+".heic")

	if err := p.store.Upload(ctx, tempPath, data, "image/heic"); err != nil {
		return "", fmt.Errorf("staging temp object: %w", err)
	}

	url, err := p.remote.Convert(ctx, tempPath, userID)
	if err != nil {
		if removeErr := p.store.Remove(ctx, tempPath); removeErr != nil {
			slog.WarnContext(ctx, "Removing temp HEIC object failed", "path", tempPath, logger.Err(removeErr))
		}
		return "", fmt.Errorf("invoking remote converter: %w", err)
	}

	return url, nil
}

func jpegFilename(original string) string {
	base := strings.TrimSuffix(path.Base(original), path.Ext(original))
	if base == "" {
		base = "photo"
	}
	return base + ".jpg"
}
