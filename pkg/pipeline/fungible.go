// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package pipeline

import (
	"context"

	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/geth/common"
)

// Fungible deploys LSP7 digital assets.
type Fungible struct {
	shared *Shared
}

func NewFungible(shared *Shared) *Fungible {
	return &Fungible{shared: shared}
}

func (f *Fungible) Deploy(ctx context.Context, opts FungibleOptions, copts DeployOptions) (deployment.DeployedContracts, error) {
	s, err := f.DeployStream(ctx, opts, copts)
	if err != nil {
		return nil, err
	}
	return run(ctx, s)
}

func (f *Fungible) DeployStream(ctx context.Context, opts FungibleOptions, copts DeployOptions) (*deployment.Stream, error) {
	g, err := buildAsset(f.shared, assetParams{
		contractName: FungibleContractName,
		kind:         contract.LSP7Mintable,
		name:         opts.Name,
		symbol:       opts.Symbol,
		owner:        opts.OwnerAddress,
		args: func(signer common.Address) []any {
			return []any{opts.Name, opts.Symbol, signer, opts.IsNFT}
		},
		metadata:     opts.Metadata,
		metadataURL:  opts.MetadataURL,
		metadataJSON: opts.MetadataJSON,
	}, copts)
	if err != nil {
		return nil, err
	}
	return deployment.NewStream(ctx, g, f.shared.logger())
}
