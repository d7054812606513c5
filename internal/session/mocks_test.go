package session

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/stretchr/testify/mock"

	"qbank/internal/domain"
)

// --- MockExtractor ---
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	args := m.Called(ctx, file)
	return args.String(0), args.Error(1)
}

// --- MockModelClient ---
type MockModelClient struct {
	mock.Mock
}

func (m *MockModelClient) Generate(ctx context.Context, credential string, prompt string) (string, error) {
	args := m.Called(ctx, credential, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockModelClient) RequiresCredential() bool {
	args := m.Called()
	return args.Bool(0)
}

func counterIDs() domain.IDGenerator {
	var n atomic.Int64
	return domain.IDGeneratorFunc(func() string {
		return fmt.Sprintf("q%d", n.Add(1))
	})
}
