// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package pipeline

import (
	"context"

	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/geth/common"
)

// NonFungible deploys LSP8 identifiable digital assets.
type NonFungible struct {
	shared *Shared
}

func NewNonFungible(shared *Shared) *NonFungible {
	return &NonFungible{shared: shared}
}

func (n *NonFungible) Deploy(ctx context.Context, opts NonFungibleOptions, copts DeployOptions) (deployment.DeployedContracts, error) {
	s, err := n.DeployStream(ctx, opts, copts)
	if err != nil {
		return nil, err
	}
	return run(ctx, s)
}

func (n *NonFungible) DeployStream(ctx context.Context, opts NonFungibleOptions, copts DeployOptions) (*deployment.Stream, error) {
	g, err := buildAsset(n.shared, assetParams{
		contractName: NonFungibleContractName,
		kind:         contract.LSP8Mintable,
		name:         opts.Name,
		symbol:       opts.Symbol,
		owner:        opts.OwnerAddress,
		args: func(signer common.Address) []any {
			return []any{opts.Name, opts.Symbol, signer}
		},
		metadata:     opts.Metadata,
		metadataURL:  opts.MetadataURL,
		metadataJSON: opts.MetadataJSON,
	}, copts)
	if err != nil {
		return nil, err
	}
	return deployment.NewStream(ctx, g, n.shared.logger())
}
