// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package resolver

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/luxfi/assetfactory/internal/mocks"
	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/assetfactory/pkg/registry"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var publishedLibrary = common.HexToAddress("0x00000000000000000000000000000000000000a5")

const registryDoc = `
"22":
  contracts:
    UniversalProfile:
      versions:
        "0.5.0": "0x00000000000000000000000000000000000000a5"
    KeyManager:
      bytecode: "0xbeef"
      versions:
        "0.5.0": ""
`

func newResolver(t *testing.T, chain Chain) *Resolver {
	t.Helper()
	reg, err := registry.Parse([]byte(registryDoc))
	require.NoError(t, err)
	arts, err := contract.NewArtifacts()
	require.NoError(t, err)
	arts = arts.WithBytecode(contract.LSP7Mintable, []byte{0x01}, []byte{0x02})
	return New(chain, 22, reg, arts, nil)
}

func TestResolveStandaloneSkipsNetworkAndRegistry(t *testing.T) {
	require := require.New(t)
	chain := &mocks.Chain{}
	r := newResolver(t, chain)

	d, err := r.Resolve(context.Background(), Request{Kind: contract.LSP7Mintable, DeployProxy: false})
	require.NoError(err)
	require.Equal(Standalone, d.Mode)
	require.Equal([]byte{0x01}, d.Bytecode)
	require.False(d.Deploy())

	d, err = r.Resolve(context.Background(), Request{Kind: contract.UniversalProfile, ByteCode: []byte{0x0f}})
	require.NoError(err)
	require.Equal(Standalone, d.Mode)
	require.Equal([]byte{0x0f}, d.Bytecode)

	_, err = r.Resolve(context.Background(), Request{Kind: contract.LSP8Mintable})
	require.ErrorIs(err, deployment.ErrConfiguration)

	chain.AssertNotCalled(t, "ChainID", mock.Anything)
	chain.AssertNotCalled(t, "CodeAt", mock.Anything, mock.Anything)
}

func TestResolveExplicitLibrary(t *testing.T) {
	require := require.New(t)
	chain := &mocks.Chain{}
	r := newResolver(t, chain)

	lib := common.HexToAddress("0x1234")
	d, err := r.Resolve(context.Background(), Request{
		Kind:        contract.UniversalProfile,
		LibAddress:  &lib,
		DeployProxy: true,
	})
	require.NoError(err)
	require.Equal(ReuseLibrary, d.Mode)
	require.Equal(lib, *d.Address)
	chain.AssertExpectations(t)
}

func TestResolveReusesLivePublishedLibrary(t *testing.T) {
	require := require.New(t)
	chain := &mocks.Chain{}
	chain.On("ChainID", mock.Anything).Return(big.NewInt(22), nil)
	chain.On("CodeAt", mock.Anything, publishedLibrary).Return([]byte{0x60, 0x80}, nil)
	r := newResolver(t, chain)

	req := Request{Kind: contract.UniversalProfile, DeployProxy: true}
	first, err := r.Resolve(context.Background(), req)
	require.NoError(err)
	second, err := r.Resolve(context.Background(), req)
	require.NoError(err)

	require.Equal(first, second)
	require.Equal(ReuseLibrary, first.Mode)
	require.Equal(publishedLibrary, *first.Address)
	require.Equal("0.5.0", first.Version)
	chain.AssertExpectations(t)
}

func TestResolveNetworkMismatch(t *testing.T) {
	tests := []struct {
		name    string
		chainID int64
		code    []byte
	}{
		{name: "wrong chain", chainID: 1, code: []byte{0x60}},
		{name: "no code", chainID: 22, code: []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := &mocks.Chain{}
			chain.On("ChainID", mock.Anything).Return(big.NewInt(tt.chainID), nil)
			chain.On("CodeAt", mock.Anything, publishedLibrary).Return(tt.code, nil).Maybe()
			r := newResolver(t, chain)

			_, err := r.Resolve(context.Background(), Request{Kind: contract.UniversalProfile, DeployProxy: true})
			require.ErrorIs(t, err, deployment.ErrNetworkMismatch)
		})
	}
}

func TestResolveReadFailureIsNetworkMismatch(t *testing.T) {
	unreachable := errors.New("connection refused")

	t.Run("chain id", func(t *testing.T) {
		chain := &mocks.Chain{}
		chain.On("ChainID", mock.Anything).Return(nil, unreachable)
		r := newResolver(t, chain)

		_, err := r.Resolve(context.Background(), Request{Kind: contract.UniversalProfile, DeployProxy: true})
		require.ErrorIs(t, err, deployment.ErrNetworkMismatch)
		require.ErrorIs(t, err, unreachable)
		chain.AssertNotCalled(t, "CodeAt", mock.Anything, mock.Anything)
	})

	t.Run("code", func(t *testing.T) {
		chain := &mocks.Chain{}
		chain.On("ChainID", mock.Anything).Return(big.NewInt(22), nil)
		chain.On("CodeAt", mock.Anything, publishedLibrary).Return(nil, unreachable)
		r := newResolver(t, chain)

		_, err := r.Resolve(context.Background(), Request{Kind: contract.UniversalProfile, DeployProxy: true})
		require.ErrorIs(t, err, deployment.ErrNetworkMismatch)
		require.ErrorIs(t, err, unreachable)
		chain.AssertExpectations(t)
	})
}

func TestCheckWithoutNetwork(t *testing.T) {
	require := require.New(t)
	chain := &mocks.Chain{}
	r := newResolver(t, chain)

	require.NoError(r.Check(Request{Kind: contract.UniversalProfile, DeployProxy: true}))
	require.NoError(r.Check(Request{Kind: contract.KeyManager, DeployProxy: true}))
	require.NoError(r.Check(Request{Kind: contract.LSP7Mintable, DeployProxy: true}))
	require.NoError(r.Check(Request{Kind: contract.LSP7Mintable}))

	lib := common.HexToAddress("0x1234")
	require.NoError(r.Check(Request{Kind: contract.LSP8Mintable, LibAddress: &lib, DeployProxy: true}))
	require.ErrorIs(r.Check(Request{Kind: contract.LSP8Mintable, DeployProxy: true}), deployment.ErrConfiguration)
	require.ErrorIs(r.Check(Request{Kind: contract.LSP8Mintable}), deployment.ErrConfiguration)

	chain.AssertNotCalled(t, "ChainID", mock.Anything)
	chain.AssertNotCalled(t, "CodeAt", mock.Anything, mock.Anything)
}

func TestResolveDeploysLibraryWhenUnpublished(t *testing.T) {
	require := require.New(t)
	chain := &mocks.Chain{}
	r := newResolver(t, chain)

	// registry recommends bytecode but has no address
	d, err := r.Resolve(context.Background(), Request{Kind: contract.KeyManager, DeployProxy: true})
	require.NoError(err)
	require.Equal(DeployLibrary, d.Mode)
	require.True(d.Deploy())
	require.Equal([]byte{0xbe, 0xef}, d.Bytecode)

	// not in the registry, falls back to the artifact library bytecode
	d, err = r.Resolve(context.Background(), Request{Kind: contract.LSP7Mintable, DeployProxy: true})
	require.NoError(err)
	require.Equal(DeployLibrary, d.Mode)
	require.Equal([]byte{0x02}, d.Bytecode)

	_, err = r.Resolve(context.Background(), Request{Kind: contract.LSP8Mintable, DeployProxy: true})
	require.ErrorIs(err, deployment.ErrConfiguration)
	chain.AssertExpectations(t)
}
