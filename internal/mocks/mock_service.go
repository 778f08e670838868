package mocks

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"propdash/internal/models"
)

//go:embed data/*.json
var embedded embed.FS

// MockService serves sample PropertyData payloads for offline runs
type MockService struct {
	fsys fs.FS
}

// NewMockService creates a mock service backed by the bundled payloads
func NewMockService() *MockService {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(fmt.Sprintf("mocks: bundled data missing: %v", err))
	}
	return &MockService{fsys: sub}
}

// NewMockServiceFS creates a mock service reading <dataset>.json files from fsys
func NewMockServiceFS(fsys fs.FS) *MockService {
	return &MockService{fsys: fsys}
}

// Fetch returns the sample payload for the dataset
func (m *MockService) Fetch(ctx context.Context, dataset models.Dataset) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := fs.ReadFile(m.fsys, path.Clean(dataset.String()+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read mock %s data: %w", dataset, err)
	}
	return content, nil
}
