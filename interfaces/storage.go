package interfaces

import "context"

// StorageService stores binary assets (resumes, videos) in object storage.
// Uploads tolerate payloads of tens of MB; transfers are chunked with a
// multi-minute timeout.
type StorageService interface {
	UploadDocument(ctx context.Context, content []byte, filename string) (string, error)
	UploadVideo(ctx context.Context, content []byte, filename string) (string, error)
	Delete(ctx context.Context, key string) error
}
