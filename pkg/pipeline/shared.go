// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pipeline builds the deployment graphs of accounts, fungible and
// non-fungible assets.
package pipeline

import (
	"context"

	"github.com/luxfi/assetfactory/pkg/contentstore"
	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/assetfactory/pkg/ledger"
	"github.com/luxfi/assetfactory/pkg/metadata"
	"github.com/luxfi/assetfactory/pkg/resolver"
	"github.com/luxfi/assetfactory/pkg/registry"
	"go.uber.org/zap"
)

// Shared is the read-only state every pipeline run uses.
type Shared struct {
	Ledger        ledger.Ledger
	Store         contentstore.Store
	Registry      *registry.Registry
	Artifacts     *contract.Artifacts
	ChainID       uint64
	UploadOptions contentstore.Options
	Log           *zap.Logger
}

func (s *Shared) validate() error {
	if s.Ledger == nil {
		return deployment.Configurationf("no ledger configured")
	}
	if s.Artifacts == nil {
		return deployment.Configurationf("no contract artifacts configured")
	}
	return nil
}

func (s *Shared) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Shared) resolver() *resolver.Resolver {
	reg := s.Registry
	if reg == nil {
		reg = registry.Empty()
	}
	return resolver.New(s.Ledger, s.ChainID, reg, s.Artifacts, s.logger())
}

func (s *Shared) uploader(opts *contentstore.Options) (*metadata.Uploader, error) {
	if s.Store == nil {
		return nil, deployment.Configurationf("metadata upload requested but no content store configured")
	}
	uploadOpts := s.UploadOptions
	if opts != nil {
		uploadOpts = *opts
	}
	return metadata.NewUploader(s.Store, uploadOpts, s.logger()), nil
}

// run folds s into the deployed contracts once it completes.
func run(ctx context.Context, s *deployment.Stream) (deployment.DeployedContracts, error) {
	return deployment.Collect(ctx, s)
}
