package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/marlosirapuan/doc-sign-web/internal/model"
	"github.com/marlosirapuan/doc-sign-web/internal/service"
	"github.com/marlosirapuan/doc-sign-web/internal/signature"
)

type MockController struct {
	mock.Mock
}

func (m *MockController) Login(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *MockController) Logout() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockController) Submit(ctx context.Context, file service.SourceFile) (*model.DocumentRecord, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRecord), args.Error(1)
}

func (m *MockController) DeleteOne(ctx context.Context, id int64, confirmed bool) error {
	args := m.Called(ctx, id, confirmed)
	return args.Error(0)
}

func (m *MockController) DownloadOne(ctx context.Context, id int64) (string, []byte, error) {
	args := m.Called(ctx, id)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]byte), args.Error(2)
}

func (m *MockController) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockController) Documents() []model.DocumentRecord {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.DocumentRecord)
}

func (m *MockController) InFlight() (int64, bool) {
	args := m.Called()
	return args.Get(0).(int64), args.Bool(1)
}

func (m *MockController) Composer() *signature.Composer {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*signature.Composer)
}
