package ai

import (
	"context"
	"fmt"
)

// MockAnswerer is a deterministic stand-in for the real model, enabled
// explicitly via configuration. It is never used as a fallback when the
// real client errors.
type MockAnswerer struct{}

func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

func (m *MockAnswerer) Answer(ctx context.Context, question, contextText string) (string, error) {
	if contextText == "" {
		return "Mock answer: no matching passages were found in the document for this question.", nil
	}
	return fmt.Sprintf("Mock answer for %q based on the retrieved document passages.", question), nil
}
