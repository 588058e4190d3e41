package testutils

import (
	"context"

	"github.com/omniverolabs/omnivero/pkg/vector"
)

// MockVectorDriver is a test vector driver
type MockVectorDriver struct {
	// Documents accumulates everything passed to Add.
	Documents []vector.Document

	// Results is returned by Query, truncated to topK.
	Results []vector.QueryResult
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{
		Documents: make([]vector.Document, 0),
		Results:   make([]vector.QueryResult, 0),
	}
}

func (m *MockVectorDriver) Add(_ context.Context, docs []vector.Document) error {
	m.Documents = append(m.Documents, docs...)
	return nil
}

func (m *MockVectorDriver) Query(_ context.Context, _ []float32, topK int) ([]vector.QueryResult, error) {
	if len(m.Results) < topK {
		return m.Results, nil
	}
	return m.Results[:topK], nil
}

func (m *MockVectorDriver) Get(_ context.Context, _ []string) ([]vector.Document, error) {
	return m.Documents, nil
}

func (m *MockVectorDriver) Delete(_ context.Context, _ []string) error {
	return nil
}

func (m *MockVectorDriver) Close() error {
	return nil
}
