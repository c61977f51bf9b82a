// Code generated manually for testing. DO NOT EDIT.

package mocks

import (
	"context"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/mock"
)

// Chain is a mock implementation of resolver.Chain
type Chain struct {
	mock.Mock
}

func (m *Chain) ChainID(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *Chain) CodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
