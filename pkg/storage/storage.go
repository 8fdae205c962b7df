package storage

import "context"

// ObjectInfo describes one stored object as returned by List.
type ObjectInfo struct {
	Name string `json:"name"`
}

// ObjectStorage is the durable object storage contract the pipelines
// depend on. Artifacts of a document are namespaced under its id.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error
	Download(ctx context.Context, bucket, path string) ([]byte, error)
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}
