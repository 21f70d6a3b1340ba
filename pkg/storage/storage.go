// Package storage is the object-storage contract the rest of the code
// depends on: upload, public URL, download, remove. Media lives in
// per-purpose buckets encoded as path prefixes.
package storage

import "context"

const (
	BucketDogPhotos     = "dog-photos"
	BucketPostPhotos    = "post-photos"
	BucketChatImages    = "chat-images"
	BucketSitterMedia   = "sitter-log-media"
	BucketSightingMedia = "sighting-media"
	BucketHeicTemp      = "heic-temp"
)

type ObjectStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Download(ctx context.Context, path string) ([]byte, error)
	PublicURL(path string) string
	Remove(ctx context.Context, path string) error
}
