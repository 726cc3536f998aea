package serve

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/okra-platform/greeter/internal/greeting"
)

// Mock implementation of greeting.Service for testing the transport
type mockGreeter struct {
	mock.Mock
}

func (m *mockGreeter) Greeting(ctx context.Context) greeting.GreetingMain {
	args := m.Called(ctx)
	return args.Get(0).(greeting.GreetingMain)
}

func (m *mockGreeter) Create(ctx context.Context, user greeting.UserData) (greeting.GreetingUser, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(greeting.GreetingUser), args.Error(1)
}

func (m *mockGreeter) Lookup(ctx context.Context, id uuid.UUID) (greeting.UserData, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(greeting.UserData), args.Error(1)
}
