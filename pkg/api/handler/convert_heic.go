package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/redpaw/redpaw/pkg/api/response"
	"github.com/redpaw/redpaw/pkg/converter"
	"github.com/redpaw/redpaw/pkg/logger"
	"github.com/redpaw/redpaw/pkg/storage"
)

type ObjectStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Download(ctx context.Context, path string) ([]byte, error)
	PublicURL(path string) string
	Remove(ctx context.Context, path string) error
}

type convertHeic struct {
	store  ObjectStore
	writer response.JSONResponseWriter
}

func NewConvertHeic(store ObjectStore) *convertHeic {
	return &convertHeic{store: store}
}

type convertHeicRequest struct {
	TempPath string `json:"tempPath"`
	UserID   string `json:"userId"`
}

// Convert turns a staged HEIC object into a JPEG in the post-photos bucket
// and returns its public URL. The temp object is removed on success.
func (c *convertHeic) Convert(w http.ResponseWriter, r *http.Request) {
	var req convertHeicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writer.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.TempPath == "" || req.UserID == "" {
		c.writer.WriteErrorResponse(w, http.StatusBadRequest, "tempPath and userId are required.")
		return
	}

	data, err := c.store.Download(r.Context(), req.TempPath)
	if err != nil {
		slog.ErrorContext(r.Context(), "Downloading temp HEIC object", "path", req.TempPath, logger.Err(err))
		c.writer.WriteErrorResponse(w, http.StatusNotFound, "Temp file not found.")
		return
	}

	converted := converter.ConvertHeicToJpeg(data)
	if converted == nil {
		c.writer.WriteErrorResponse(w, http.StatusUnprocessableEntity, "Could not convert HEIC file.")
		return
	}

	destPath := path.Join(storage.BucketPostPhotos, req.UserID, uuid.NewString()+".jpg")
	if err := c.store.Upload(r.Context(), destPath, converted, "image/jpeg"); err != nil {
		slog.ErrorContext(r.Context(), "Uploading converted photo", "path", destPath, logger.Err(err))
		c.writer.WriteErrorResponse(w, http.StatusInternalServerError, "Storing converted file failed.")
		return
	}

	if err := c.store.Remove(r.Context(), req.TempPath); err != nil {
		slog.WarnContext(r.Context(), "Removing temp HEIC object", "path", req.TempPath, logger.Err(err))
	}

	c.writer.WriteSuccessResponse(w, map[string]string{"url": c.store.PublicURL(destPath)})
}
