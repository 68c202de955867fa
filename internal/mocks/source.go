package mocks

import (
	"context"
	"time"

	"github.com/cbrief/chain-daily/internal/model"
)

// Mock news source
type MockSource struct {
	SourceName string
	Items      []model.RawItem
	Err        error
	Calls      int
}

func (m *MockSource) Name() string { return m.SourceName }

func (m *MockSource) Priority() int { return 0 }

func (m *MockSource) Fetch(ctx context.Context, window time.Duration) ([]model.RawItem, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Items, nil
}
