package mocks

import (
	"context"

	"github.com/cbrief/chain-daily/internal/model"
)

// Mock archive
type MockArchive struct {
	Stored map[string]model.Artifact
	Err    error
}

func (m *MockArchive) StoreArtifact(ctx context.Context, slug string, artifact model.Artifact) error {
	if m.Err != nil {
		return m.Err
	}
	if m.Stored == nil {
		m.Stored = make(map[string]model.Artifact)
	}
	m.Stored[slug] = artifact
	return nil
}

func (m *MockArchive) ListRuns(ctx context.Context) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	slugs := make([]string, 0, len(m.Stored))
	for slug := range m.Stored {
		slugs = append(slugs, slug)
	}
	return slugs, nil
}

func (m *MockArchive) Close() error { return nil }
