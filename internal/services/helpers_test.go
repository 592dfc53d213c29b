package services

import (
	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock for the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BroadcastUpdate(updateType, subtype, action string, data interface{}) {
	m.Called(updateType, subtype, action, data)
}
