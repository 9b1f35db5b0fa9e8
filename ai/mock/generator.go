package mock

import (
	"context"
	"strings"
	"sync/atomic"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
// Like the production implementation it is safe for concurrent use.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	// Response is returned by the default Generate behavior.
	Response string

	callCount atomic.Int64
}

// NewMockGenerator creates a mock generator returning a fixed response.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator(response string) *MockGenerator {
	return &MockGenerator{Response: response}
}

// Generate returns the configured response.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount.Add(1)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return m.Response, nil
}

// GenerateStream streams the configured response word by word.
func (m *MockGenerator) GenerateStream(ctx context.Context, prompt string, fn func(chunk []byte) error) error {
	response, err := m.Generate(ctx, prompt)
	if err != nil {
		return err
	}
	for _, word := range strings.SplitAfter(response, " ") {
		if err := fn([]byte(word)); err != nil {
			return err
		}
	}
	return nil
}

// CallCount returns the number of times Generate or GenerateStream was called.
func (m *MockGenerator) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount.Store(0)
	m.GenerateFunc = nil
}
