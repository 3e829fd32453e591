// Package storage persists translation requests and results to S3 and
// DynamoDB.
package storage

import "context"

// ObjectStore is the object-storage collaborator.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string, metadata map[string]string) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// MetadataStore is the key-value table collaborator.
type MetadataStore interface {
	PutItem(ctx context.Context, table string, item any) error
}
