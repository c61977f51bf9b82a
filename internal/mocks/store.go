// Code generated manually for testing. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/luxfi/assetfactory/pkg/contentstore"
	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of contentstore.Store
type Store struct {
	mock.Mock
}

func (m *Store) Upload(ctx context.Context, data []byte, opts contentstore.Options) (contentstore.Locator, error) {
	args := m.Called(ctx, data, opts)
	return args.Get(0).(contentstore.Locator), args.Error(1)
}
