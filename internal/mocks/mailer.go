package mocks

import (
	"context"

	"github.com/cbrief/chain-daily/internal/model"
)

// Mock mailer
type MockMailer struct {
	SentArtifacts []model.Artifact
	Err           error
}

func (m *MockMailer) SendReport(ctx context.Context, record *model.RunRecord, artifact model.Artifact) error {
	if m.Err != nil {
		return m.Err
	}
	m.SentArtifacts = append(m.SentArtifacts, artifact)
	return nil
}
