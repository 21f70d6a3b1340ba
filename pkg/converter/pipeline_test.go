package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"testing"
)

type fakeStore struct {
	uploads map[string][]byte
	removed []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: map[string][]byte{}}
}

func (f *fakeStore) Upload(_ context.Context, path string, data []byte, _ string) error {
	f.uploads[path] = data
	return nil
}

func (f *fakeStore) Download(_ context.Context, path string) ([]byte, error) {
	data, ok := f.uploads[path]
	if !ok {
		return nil, fmt.Errorf("no object at %s", path)
	}
	return data, nil
}

func (f *fakeStore) PublicURL(path string) string { return "http://store.local/media/" + path }

func (f *fakeStore) Remove(_ context.Context, path string) error {
	f.removed = append(f.removed, path)
	delete(f.uploads, path)
	return nil
}

type fakeRemote struct {
	url      string
	err      error
	lastPath string
	lastUser string
}

func (f *fakeRemote) Convert(_ context.Context, tempPath, userID string) (string, error) {
	f.lastPath = tempPath
	f.lastUser = userID
	return f.url, f.err
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, noiseImage(64, 48)); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func TestPipelineCompressesRegularImage(t *testing.T) {
	pipeline := NewPipeline(nil, nil)

	res, err := pipeline.ProcessImageForUpload(context.Background(), "dog.png", "image/png", pngBytes(t), Options{})
	if err != nil {
		t.Fatalf("ProcessImageForUpload: %v", err)
	}

	if res.ServerURL != "" {
		t.Errorf("unexpected server URL %q for a local conversion", res.ServerURL)
	}
	if res.Filename != "dog.jpg" {
		t.Errorf("filename = %q, want dog.jpg", res.Filename)
	}
	if len(res.Data) == 0 {
		t.Error("no output bytes")
	}
}

func TestPipelineRejectsUnsupportedType(t *testing.T) {
	pipeline := NewPipeline(nil, nil)

	_, err := pipeline.ProcessImageForUpload(context.Background(), "report.pdf", "application/pdf", []byte("%PDF"), Options{})
	if err == nil {
		t.Fatal("expected an error for a PDF upload")
	}
}

func TestPipelineHeicWithoutFallbackFailsWithGuidance(t *testing.T) {
	pipeline := NewPipeline(nil, nil)

	_, err := pipeline.ProcessImageForUpload(context.Background(), "dog.heic", "image/heic", []byte("not heic"), Options{})
	if !errors.Is(err, ErrHeicConversion) {
		t.Fatalf("err = %v, want ErrHeicConversion", err)
	}
	if !strings.Contains(err.Error(), "try a JPG or PNG") {
		t.Errorf("error %q lacks the user guidance", err)
	}
}

func TestPipelineHeicServerFallbackShortCircuits(t *testing.T) {
	store := newFakeStore()
	remote := &fakeRemote{url: "http://store.local/media/post-photos/u1/converted.jpg"}
	pipeline := NewPipeline(store, remote)

	res, err := pipeline.ProcessImageForUpload(context.Background(), "dog.heic", "image/heic", []byte("not heic"), Options{UserID: "u1"})
	if err != nil {
		t.Fatalf("ProcessImageForUpload: %v", err)
	}

	if res.ServerURL != remote.url {
		t.Errorf("ServerURL = %q, want %q", res.ServerURL, remote.url)
	}
	if len(res.Data) != 0 || res.Filename != "" {
		t.Error("server fallback must not produce local bytes")
	}
	if !strings.HasPrefix(remote.lastPath, "heic-temp/u1/") || !strings.HasSuffix(remote.lastPath, ".heic") {
		t.Errorf("temp path %q not namespaced under heic-temp/u1/", remote.lastPath)
	}
	if remote.lastUser != "u1" {
		t.Errorf("userID = %q, want u1", remote.lastUser)
	}
}

func TestPipelineHeicServerFallbackFailureCleansUp(t *testing.T) {
	store := newFakeStore()
	remote := &fakeRemote{err: errors.New("function unavailable")}
	pipeline := NewPipeline(store, remote)

	_, err := pipeline.ProcessImageForUpload(context.Background(), "dog.heic", "image/heic", []byte("not heic"), Options{UserID: "u1"})
	if !errors.Is(err, ErrHeicConversion) {
		t.Fatalf("err = %v, want ErrHeicConversion", err)
	}

	if len(store.uploads) != 0 {
		t.Errorf("%d temp objects left behind", len(store.uploads))
	}
	if len(store.removed) != 1 {
		t.Errorf("removed %d objects, want 1", len(store.removed))
	}
}
