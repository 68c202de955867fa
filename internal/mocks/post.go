package mocks

import (
	"context"

	"github.com/cbrief/chain-daily/internal/model"
)

// Mock post store
type MockPostStore struct {
	Upserted map[string]model.Article
	Err      error
}

func (m *MockPostStore) UpsertPost(ctx context.Context, slug string, article model.Article) error {
	if m.Err != nil {
		return m.Err
	}
	if m.Upserted == nil {
		m.Upserted = make(map[string]model.Article)
	}
	m.Upserted[slug] = article
	return nil
}

func (m *MockPostStore) GetPostBySlug(ctx context.Context, slug string) (*model.Article, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	article, ok := m.Upserted[slug]
	if !ok {
		return nil, nil
	}
	return &article, nil
}

func (m *MockPostStore) Close() error { return nil }
