package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/redpaw/redpaw/pkg/api/response"
	"github.com/redpaw/redpaw/pkg/auth"
	"github.com/redpaw/redpaw/pkg/converter"
	"github.com/redpaw/redpaw/pkg/logger"
	"github.com/redpaw/redpaw/pkg/storage"
)

const maxUploadBytes = 32 << 20

// photoBuckets maps the client's "kind" form field to a storage bucket.
var photoBuckets = map[string]string{
	"dog":      storage.BucketDogPhotos,
	"post":     storage.BucketPostPhotos,
	"chat":     storage.BucketChatImages,
	"sitter":   storage.BucketSitterMedia,
	"sighting": storage.BucketSightingMedia,
}

type ImagePipeline interface {
	ProcessImageForUpload(ctx context.Context, filename, mimeType string, data []byte, opts converter.Options) (*converter.Result, error)
}

type DogPhotoUpdater interface {
	UpdatePhotoURL(ctx context.Context, ownerID, dogID, photoURL string) error
}

type photos struct {
	pipeline      ImagePipeline
	store         ObjectStore
	dogs          DogPhotoUpdater
	authenticator Authenticator
	writer        response.JSONResponseWriter
}

func NewPhotos(pipeline ImagePipeline, store ObjectStore, dogs DogPhotoUpdater, authenticator Authenticator) *photos {
	return &photos{
		pipeline:      pipeline,
		store:         store,
		dogs:          dogs,
		authenticator: authenticator,
	}
}

// Upload normalizes one photo and stores it in the bucket selected by the
// "kind" form field. A "dogId" field additionally points the dog's profile
// at the new photo.
func (p *photos) Upload(w http.ResponseWriter, r *http.Request) {
	token := auth.BearerToken(r.Header.Get("Authorization"))
	userID, err := p.authenticator.Authenticate(r.Context(), token)
	if err != nil {
		p.writer.WriteErrorResponse(w, http.StatusUnauthorized, "Sign in to upload photos.")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		p.writer.WriteErrorResponse(w, http.StatusBadRequest, "Invalid multipart body.")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		p.writer.WriteErrorResponse(w, http.StatusBadRequest, "Photo file is missing.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		p.writer.WriteErrorResponse(w, http.StatusBadRequest, "Reading photo failed.")
		return
	}

	result, err := p.pipeline.ProcessImageForUpload(
		r.Context(),
		header.Filename,
		header.Header.Get("Content-Type"),
		data,
		converter.Options{UserID: userID},
	)
	if err != nil {
		if errors.Is(err, converter.ErrHeicConversion) {
			p.writer.WriteErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Processing photo upload", logger.Err(err))
		p.writer.WriteErrorResponse(w, http.StatusBadRequest, "Unsupported or corrupt image.")
		return
	}

	url := result.ServerURL
	if url == "" {
		bucket := lo.ValueOr(photoBuckets, r.FormValue("kind"), storage.BucketPostPhotos)
		objectPath := path.Join(bucket, userID, uuid.NewString()+"-"+result.Filename)

		if err := p.store.Upload(r.Context(), objectPath, result.Data, "image/jpeg"); err != nil {
			slog.ErrorContext(r.Context(), "Storing photo", "path", objectPath, logger.Err(err))
			p.writer.WriteErrorResponse(w, http.StatusInternalServerError, "Storing photo failed.")
			return
		}
		url = p.store.PublicURL(objectPath)
	}

	if dogID := r.FormValue("dogId"); dogID != "" {
		if err := p.dogs.UpdatePhotoURL(r.Context(), userID, dogID, url); err != nil {
			slog.ErrorContext(r.Context(), "Updating dog photo", "dog_id", dogID, logger.Err(err))
			p.writer.WriteErrorResponse(w, http.StatusNotFound, "Dog not found.")
			return
		}
	}

	p.writer.WriteSuccessResponse(w, map[string]string{"url": url})
}
