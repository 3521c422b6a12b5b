// Package source owns the input-side I/O: reading a statement export from a
// local path or a GCS object, and pushing local exports to a bucket. The
// engine itself never touches storage; this is the only blocking boundary.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// Fetcher reads input bytes for a URI. It exists so the pipeline can be
// tested without filesystem or network access.
type Fetcher struct{}

// Fetch implements pipeline.InputFetcher.
func (Fetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	return Fetch(ctx, uri)
}

// Fetch reads the bytes behind uri. A "gs://bucket/object" URI goes through
// the storage client (Application Default Credentials); anything else is
// treated as a local file path.
func Fetch(ctx context.Context, uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "gs://") {
		return fetchFromGCS(ctx, uri)
	}

	data, err := os.ReadFile(uri)
	if err != nil {
		return nil, fmt.Errorf("Fetch: read file %q: %w", uri, err)
	}
	return data, nil
}

func fetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	bucket, object, err := splitGCSURI(gcsURI)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: create storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: open object %s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("Fetch: read object %s/%s: %w", bucket, object, err)
	}
	return data, nil
}

// UploadFile uploads a local file to a GCS bucket under the given object
// name. It assumes Application Default Credentials are configured.
func UploadFile(ctx context.Context, bucketName, objectName, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("UploadFile: open %q: %w", filePath, err)
	}
	defer f.Close()

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("UploadFile: create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("UploadFile: copy to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("UploadFile: finalize upload: %w", err)
	}
	return nil
}

// Filename extracts the base file name from a local path or a GCS URI.
// e.g. "gs://bucket/exports/june.csv" and "/tmp/june.csv" both give "june.csv".
func Filename(uri string) string {
	if strings.HasPrefix(uri, "gs://") {
		if _, object, err := splitGCSURI(uri); err == nil {
			return path.Base(object)
		}
		return strings.TrimPrefix(uri, "gs://")
	}
	return filepath.Base(uri)
}

func splitGCSURI(uri string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	return parts[0], parts[1], nil
}
