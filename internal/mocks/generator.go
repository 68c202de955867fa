package mocks

import "context"

// Mock text generator
type MockTextGenerator struct {
	Response string
	Err      error
	Calls    int
}

func (m *MockTextGenerator) GenerateText(ctx context.Context, systemPrompt, prompt string, maxTokens int) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// Mock image generator
type MockImageGenerator struct {
	Payload []byte
	Err     error
	Calls   int
}

func (m *MockImageGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Payload, nil
}
