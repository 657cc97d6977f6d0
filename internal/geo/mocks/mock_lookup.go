package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/marlosirapuan/doc-sign-web/internal/geo"
)

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) Current(ctx context.Context) *geo.Context {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*geo.Context)
}
