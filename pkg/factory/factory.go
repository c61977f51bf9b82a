// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package factory wires a ledger, a content store, the library registry and
// the contract artifacts into ready to use asset pipelines.
package factory

import (
	"context"
	"errors"

	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/contentstore"
	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/assetfactory/pkg/ledger"
	"github.com/luxfi/assetfactory/pkg/metadata"
	"github.com/luxfi/assetfactory/pkg/pipeline"
	"github.com/luxfi/assetfactory/pkg/registry"
	"go.uber.org/zap"
)

// SignerOptions groups the values callers usually hold together: the deploy
// key, the chain it signs for and where metadata goes.
type SignerOptions struct {
	DeployKey     string
	ChainID       uint64
	UploadOptions *contentstore.Options
}

type settings struct {
	rpcURL        string
	backend       ledger.Backend
	ledger        ledger.Ledger
	privateKey    string
	signer        ledger.Signer
	chainID       uint64
	uploadOptions *contentstore.Options
	registry      *registry.Registry
	store         contentstore.Store
	artifacts     *contract.Artifacts
	log           *zap.Logger
}

type Option func(*settings)

// WithRPCURL dials url when no backend is given.
func WithRPCURL(url string) Option {
	return func(s *settings) { s.rpcURL = url }
}

func WithBackend(backend ledger.Backend) Option {
	return func(s *settings) { s.backend = backend }
}

// WithLedger bypasses the JSON-RPC client entirely. Backend, URL and signer
// options are ignored.
func WithLedger(l ledger.Ledger) Option {
	return func(s *settings) { s.ledger = l }
}

func WithPrivateKey(hex string) Option {
	return func(s *settings) { s.privateKey = hex }
}

func WithSigner(signer ledger.Signer) Option {
	return func(s *settings) { s.signer = signer }
}

func WithSignerOptions(opts SignerOptions) Option {
	return func(s *settings) {
		if opts.DeployKey != "" {
			s.privateKey = opts.DeployKey
		}
		if opts.ChainID != 0 {
			s.chainID = opts.ChainID
		}
		if opts.UploadOptions != nil {
			s.uploadOptions = opts.UploadOptions
		}
	}
}

func WithChainID(chainID uint64) Option {
	return func(s *settings) { s.chainID = chainID }
}

func WithUploadOptions(opts contentstore.Options) Option {
	return func(s *settings) { s.uploadOptions = &opts }
}

func WithRegistry(reg *registry.Registry) Option {
	return func(s *settings) { s.registry = reg }
}

func WithContentStore(store contentstore.Store) Option {
	return func(s *settings) { s.store = store }
}

func WithArtifacts(artifacts *contract.Artifacts) Option {
	return func(s *settings) { s.artifacts = artifacts }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *settings) { s.log = log }
}

// Factory exposes one pipeline per contract family plus standalone
// metadata uploads. It holds no per-run state and is safe for concurrent
// use.
type Factory struct {
	Account     *pipeline.Account
	Fungible    *pipeline.Fungible
	NonFungible *pipeline.NonFungible
	Metadata    *metadata.Uploader

	ChainID uint64
	Ledger  ledger.Ledger

	log     *zap.Logger
	closers []func() error
}

// New builds a factory. The only network access is dialing the RPC URL;
// nothing is sent until a pipeline runs.
func New(ctx context.Context, opts ...Option) (*Factory, error) {
	s := &settings{chainID: constants.DefaultChainID}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	f := &Factory{ChainID: s.chainID, log: s.log}

	l, err := f.buildLedger(ctx, s)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	f.Ledger = l

	store := s.store
	if store == nil {
		router := contentstore.NewRouter(s.log)
		f.closers = append(f.closers, router.Close)
		store = router
	}
	reg := s.registry
	if reg == nil {
		reg = registry.Default()
	}
	artifacts := s.artifacts
	if artifacts == nil {
		artifacts, err = contract.NewArtifacts()
		if err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	uploadOpts := contentstore.DefaultOptions()
	if s.uploadOptions != nil {
		uploadOpts = *s.uploadOptions
	}

	shared := &pipeline.Shared{
		Ledger:        l,
		Store:         store,
		Registry:      reg,
		Artifacts:     artifacts,
		ChainID:       s.chainID,
		UploadOptions: uploadOpts,
		Log:           s.log,
	}
	f.Account = pipeline.NewAccount(shared)
	f.Fungible = pipeline.NewFungible(shared)
	f.NonFungible = pipeline.NewNonFungible(shared)
	f.Metadata = metadata.NewUploader(store, uploadOpts, s.log)

	s.log.Debug("asset factory ready",
		zap.Uint64("chainID", s.chainID),
		zap.Stringer("signer", l.Address()),
		zap.String("uploadBackend", string(uploadOpts.Backend)),
	)
	return f, nil
}

func (f *Factory) buildLedger(ctx context.Context, s *settings) (ledger.Ledger, error) {
	if s.ledger != nil {
		return s.ledger, nil
	}
	backend := s.backend
	if backend == nil {
		if s.rpcURL == "" {
			return nil, deployment.Configurationf("%w", constants.ErrNoRPCEndpoint)
		}
		client, err := ledger.Dial(ctx, s.rpcURL)
		if err != nil {
			return nil, err
		}
		f.closers = append(f.closers, func() error {
			client.Close()
			return nil
		})
		backend = client
	}
	signer := s.signer
	if signer == nil {
		if s.privateKey == "" {
			return nil, deployment.Configurationf("%w", constants.ErrNoSigner)
		}
		keySigner, err := ledger.NewKeySignerFromHex(backend, s.privateKey, s.chainID, s.log)
		if err != nil {
			return nil, deployment.Configurationf("%w", err)
		}
		signer = keySigner
	}
	return ledger.NewClient(backend, signer, ledger.WithLogger(s.log)), nil
}

// Close releases the RPC connection and content store clients the factory
// created itself.
func (f *Factory) Close() error {
	var errs []error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	f.closers = nil
	return errors.Join(errs...)
}
