// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package pipeline

import (
	"context"

	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/assetfactory/pkg/metadata"
	"github.com/luxfi/geth/common"
)

// assetParams is what differs between the fungible and non-fungible
// pipelines.
type assetParams struct {
	contractName string
	kind         contract.Kind
	name         string
	symbol       string
	owner        common.Address
	args         func(signer common.Address) []any
	metadata     *metadata.DigitalAsset
	metadataURL  string
	metadataJSON []byte
}

func buildAsset(sh *Shared, params assetParams, copts DeployOptions) (*deployment.Graph, error) {
	if err := sh.validate(); err != nil {
		return nil, err
	}
	if params.name == "" || params.symbol == "" {
		return nil, deployment.Configurationf("%s needs a name and a symbol", params.contractName)
	}
	signer := sh.Ledger.Address()

	asset, err := newContractPlan(sh, params.contractName, params.kind, copts.ContractOptions,
		func() []any { return params.args(signer) })
	if err != nil {
		return nil, err
	}

	var upload func(ctx context.Context) (*metadata.Encoded, error)
	if params.metadata != nil {
		if err := params.metadata.Validate(); err != nil {
			return nil, deployment.Configurationf("%w", err)
		}
		uploader, err := sh.uploader(copts.UploadOptions)
		if err != nil {
			return nil, err
		}
		md := *params.metadata
		upload = func(ctx context.Context) (*metadata.Encoded, error) {
			return uploader.UploadDigitalAsset(ctx, &md, nil)
		}
	}
	lsp4, err := newMetadataPlan("LSP4Metadata", constants.LSP4MetadataKey,
		params.metadataURL, params.metadataJSON, params.metadata != nil, upload)
	if err != nil {
		return nil, err
	}

	st := &runState{}
	g := deployment.NewGraph()
	addProbeStage(g, sh, st)
	asset.addStages(g, sh)

	var ownershipDeps []string
	if lsp4 != nil {
		lsp4.addStages(g, sh, st, asset)
		ownershipDeps = append(ownershipDeps, lsp4.setDataStage())
	}
	if params.owner != (common.Address{}) && params.owner != signer {
		owner := params.owner
		addTransferOwnershipStage(g, sh, st, asset, func() common.Address { return owner }, ownershipDeps)
	}
	return g, nil
}
