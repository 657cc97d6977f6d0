package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Success(title, message string) {
	m.Called(title, message)
}

func (m *MockNotifier) Failure(title, message string) {
	m.Called(title, message)
}

func (m *MockNotifier) Warning(title, message string) {
	m.Called(title, message)
}
