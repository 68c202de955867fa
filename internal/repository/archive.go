package repository

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/cbrief/chain-daily/internal/model"
)

// Archive is the artifact archival boundary. Objects are keyed by run
// slug, so re-running a date overwrites its archived artifacts.
type Archive interface {
	StoreArtifact(ctx context.Context, slug string, artifact model.Artifact) error
	ListRuns(ctx context.Context) ([]string, error)
	Close() error
}

type gcsArchive struct {
	client     *storage.Client
	bucketName string
	prefix     string
}

// NewGCSArchive creates a Cloud Storage archive.
func NewGCSArchive(ctx context.Context, bucketName string) (Archive, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return &gcsArchive{
		client:     client,
		bucketName: bucketName,
		prefix:     "runs/",
	}, nil
}

// StoreArtifact uploads the document and, when present, the
// illustration bundle under the run's slug.
func (a *gcsArchive) StoreArtifact(ctx context.Context, slug string, artifact model.Artifact) error {
	if err := a.write(ctx, slug, artifact.Filename, "application/pdf", artifact.Document); err != nil {
		return err
	}
	if artifact.HasBundle() {
		if err := a.write(ctx, slug, artifact.BundleFilename, "application/zip", artifact.Bundle); err != nil {
			return err
		}
	}
	return nil
}

func (a *gcsArchive) write(ctx context.Context, slug, filename, contentType string, data []byte) error {
	objectName := a.prefix + slug + "/" + filename
	writer := a.client.Bucket(a.bucketName).Object(objectName).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("writing object %s: %w", objectName, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing object writer %s: %w", objectName, err)
	}
	return nil
}

// ListRuns returns the slugs that have archived artifacts.
func (a *gcsArchive) ListRuns(ctx context.Context) ([]string, error) {
	it := a.client.Bucket(a.bucketName).Objects(ctx, &storage.Query{
		Prefix:    a.prefix,
		Delimiter: "/",
	})

	var slugs []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		if attrs.Prefix != "" {
			slug := strings.TrimSuffix(strings.TrimPrefix(attrs.Prefix, a.prefix), "/")
			slugs = append(slugs, slug)
		}
	}
	return slugs, nil
}

func (a *gcsArchive) Close() error {
	return a.client.Close()
}
