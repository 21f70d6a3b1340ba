package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/redpaw/redpaw/pkg/converter"
	"github.com/redpaw/redpaw/pkg/domain"
)

type fakeDogUpdater struct {
	lastOwner string
	lastDog   string
	lastURL   string
	err       error
}

func (f *fakeDogUpdater) UpdatePhotoURL(_ context.Context, ownerID, dogID, photoURL string) error {
	f.lastOwner, f.lastDog, f.lastURL = ownerID, dogID, photoURL
	return f.err
}

func pngUpload(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, filename))
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("creating part: %v", err)
	}
	if _, err := part.Write(pngBuf.Bytes()); err != nil {
		t.Fatalf("writing part: %v", err)
	}

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("writing field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}

	return &body, mw.FormDataContentType()
}

func newPhotosHandler(store *fakeStore, dogs *fakeDogUpdater) *photos {
	pipeline := converter.NewPipeline(store, nil)
	return NewPhotos(pipeline, store, dogs, &fakeAuthenticator{userID: "u1"})
}

func TestPhotosRequiresAuth(t *testing.T) {
	h := newPhotosHandler(newFakeStore(), &fakeDogUpdater{})

	body, contentType := pngUpload(t, "dog.png", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/photos", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestPhotosUploadStoresNormalizedJpeg(t *testing.T) {
	store := newFakeStore()
	h := newPhotosHandler(store, &fakeDogUpdater{})

	body, contentType := pngUpload(t, "dog.png", map[string]string{"kind": "dog"})
	req := httptest.NewRequest(http.MethodPost, "/api/photos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer tok")

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !strings.Contains(resp.URL, "dog-photos/u1/") {
		t.Errorf("url %q outside the dog-photos bucket", resp.URL)
	}
	if !strings.HasSuffix(resp.URL, ".jpg") {
		t.Errorf("url %q is not a jpeg", resp.URL)
	}
	if len(store.objects) != 1 {
		t.Errorf("%d objects stored, want 1", len(store.objects))
	}
}

func TestPhotosUploadUpdatesDogProfile(t *testing.T) {
	store := newFakeStore()
	dogs := &fakeDogUpdater{}
	h := newPhotosHandler(store, dogs)

	body, contentType := pngUpload(t, "dog.png", map[string]string{"kind": "dog", "dogId": "d42"})
	req := httptest.NewRequest(http.MethodPost, "/api/photos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer tok")

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if dogs.lastOwner != "u1" || dogs.lastDog != "d42" {
		t.Errorf("dog update scoped to (%s, %s), want (u1, d42)", dogs.lastOwner, dogs.lastDog)
	}
	if dogs.lastURL == "" {
		t.Error("no photo URL recorded on the dog")
	}
}

func TestPhotosUploadUnknownDog(t *testing.T) {
	h := newPhotosHandler(newFakeStore(), &fakeDogUpdater{err: domain.ErrNotFound})

	body, contentType := pngUpload(t, "dog.png", map[string]string{"dogId": "nope"})
	req := httptest.NewRequest(http.MethodPost, "/api/photos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer tok")

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPhotosUploadHeicFailure(t *testing.T) {
	h := newPhotosHandler(newFakeStore(), &fakeDogUpdater{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="photo"; filename="dog.heic"`)
	header.Set("Content-Type", "image/heic")
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("creating part: %v", err)
	}
	if _, err := part.Write([]byte("not heic")); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/photos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer tok")

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if msg := decodeError(t, rec); !strings.Contains(msg, "Could not convert HEIC file") {
		t.Errorf("error %q lacks the HEIC guidance", msg)
	}
}
