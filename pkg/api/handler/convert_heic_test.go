package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeStore struct {
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Upload(_ context.Context, path string, data []byte, _ string) error {
	f.objects[path] = data
	return nil
}

func (f *fakeStore) Download(_ context.Context, path string) ([]byte, error) {
	data, ok := f.objects[path]
	if !ok {
		return nil, fmt.Errorf("no object at %s", path)
	}
	return data, nil
}

func (f *fakeStore) PublicURL(path string) string { return "http://media.local/media/" + path }

func (f *fakeStore) Remove(_ context.Context, path string) error {
	delete(f.objects, path)
	return nil
}

func TestConvertHeicRejectsMissingFields(t *testing.T) {
	h := NewConvertHeic(newFakeStore())

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{"},
		{"no tempPath", `{"userId":"u1"}`},
		{"no userId", `{"tempPath":"heic-temp/u1/x.heic"}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/functions/v1/convert-heic", strings.NewReader(test.body))
			h.Convert(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestConvertHeicMissingTempObject(t *testing.T) {
	h := NewConvertHeic(newFakeStore())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/convert-heic",
		strings.NewReader(`{"tempPath":"heic-temp/u1/gone.heic","userId":"u1"}`))
	h.Convert(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestConvertHeicUndecodableInput(t *testing.T) {
	store := newFakeStore()
	store.objects["heic-temp/u1/bad.heic"] = []byte("not actually heic")
	h := NewConvertHeic(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/convert-heic",
		strings.NewReader(`{"tempPath":"heic-temp/u1/bad.heic","userId":"u1"}`))
	h.Convert(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	// The temp object stays for the client-side retry path.
	if _, ok := store.objects["heic-temp/u1/bad.heic"]; !ok {
		t.Error("temp object removed on failure")
	}
}
