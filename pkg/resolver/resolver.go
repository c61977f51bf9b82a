// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package resolver decides how a contract gets its code: behind a proxy to
// an already published library, behind a proxy to a library deployed in the
// same run, or as a standalone deployment.
package resolver

import (
	"context"
	"fmt"
	"math/big"

	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/assetfactory/pkg/registry"
	"github.com/luxfi/geth/common"
	"go.uber.org/zap"
)

type Mode int

const (
	DeployLibrary Mode = iota + 1
	ReuseLibrary
	Standalone
)

func (m Mode) String() string {
	switch m {
	case DeployLibrary:
		return "deploy-library"
	case ReuseLibrary:
		return "reuse-library"
	case Standalone:
		return "standalone"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Request describes one contract of a pipeline run.
type Request struct {
	Kind        contract.Kind
	Version     string
	LibAddress  *common.Address
	ByteCode    []byte
	DeployProxy bool
}

// Decision is the outcome of Resolve.
type Decision struct {
	Mode Mode
	// Address is the library proxies delegate to, set for ReuseLibrary.
	Address *common.Address
	// Bytecode is the library creation code for DeployLibrary and the
	// contract creation code for Standalone.
	Bytecode []byte
	// Version is the registry version the decision was based on, if any.
	Version string
}

// Deploy reports whether a library must be deployed before the proxy.
func (d Decision) Deploy() bool {
	return d.Mode == DeployLibrary
}

// Chain is the read access the liveness probe needs.
type Chain interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address) ([]byte, error)
}

type Resolver struct {
	chain     Chain
	chainID   uint64
	registry  *registry.Registry
	artifacts *contract.Artifacts
	log       *zap.Logger
}

func New(chain Chain, chainID uint64, reg *registry.Registry, artifacts *contract.Artifacts, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		chain:     chain,
		chainID:   chainID,
		registry:  reg,
		artifacts: artifacts,
		log:       log,
	}
}

// Standalone picks the creation code of a contract deployed without proxy.
// It touches neither the registry nor the network.
func (r *Resolver) Standalone(req Request) (Decision, error) {
	if len(req.ByteCode) > 0 {
		return Decision{Mode: Standalone, Bytecode: req.ByteCode}, nil
	}
	art, err := r.artifacts.Get(req.Kind)
	if err != nil {
		return Decision{}, deployment.Configurationf("%w", err)
	}
	if len(art.Bytecode) == 0 {
		return Decision{}, deployment.Configurationf("no bytecode available for standalone %s", req.Kind)
	}
	return Decision{Mode: Standalone, Bytecode: art.Bytecode}, nil
}

// Resolve decides how req is deployed. Identical requests against the same
// network state give identical decisions.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Decision, error) {
	if !req.DeployProxy {
		return r.Standalone(req)
	}
	if req.LibAddress != nil {
		addr := *req.LibAddress
		return Decision{Mode: ReuseLibrary, Address: &addr}, nil
	}
	if len(req.ByteCode) > 0 {
		return Decision{Mode: Standalone, Bytecode: req.ByteCode}, nil
	}

	entry, found := r.registry.Lookup(r.chainID, req.Kind, req.Version)
	if found && entry.Address != nil {
		if err := r.probe(ctx, *entry.Address); err != nil {
			return Decision{}, err
		}
		addr := *entry.Address
		r.log.Debug("reusing published library",
			zap.String("kind", string(req.Kind)),
			zap.String("version", entry.Version),
			zap.Stringer("address", addr),
		)
		return Decision{Mode: ReuseLibrary, Address: &addr, Version: entry.Version}, nil
	}

	code, err := r.libraryCode(req.Kind, entry)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Mode: DeployLibrary, Bytecode: code, Version: entry.Version}, nil
}

// Check reports, without touching the network, a request Resolve can never
// satisfy: a proxy with neither a published library nor library bytecode.
func (r *Resolver) Check(req Request) error {
	if !req.DeployProxy {
		_, err := r.Standalone(req)
		return err
	}
	if req.LibAddress != nil || len(req.ByteCode) > 0 {
		return nil
	}
	entry, found := r.registry.Lookup(r.chainID, req.Kind, req.Version)
	if found && entry.Address != nil {
		return nil
	}
	_, err := r.libraryCode(req.Kind, entry)
	return err
}

// libraryCode is the creation code of a library deployed in the run: the
// registry recommendation, else the artifact library bytecode.
func (r *Resolver) libraryCode(kind contract.Kind, entry registry.Entry) ([]byte, error) {
	if len(entry.Bytecode) > 0 {
		return entry.Bytecode, nil
	}
	art, err := r.artifacts.Get(kind)
	if err != nil {
		return nil, deployment.Configurationf("%w", err)
	}
	if len(art.BaseBytecode) == 0 {
		return nil, deployment.Configurationf(
			"no published %s library on chain %d and no library bytecode to deploy", kind, r.chainID)
	}
	return art.BaseBytecode, nil
}

// probe checks that addr is live on the configured network.
func (r *Resolver) probe(ctx context.Context, addr common.Address) error {
	id, err := r.chain.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("%w: reading chain id: %w", deployment.ErrNetworkMismatch, err)
	}
	if !id.IsUint64() || id.Uint64() != r.chainID {
		return fmt.Errorf("%w: provider is on chain %s, expected %d", deployment.ErrNetworkMismatch, id, r.chainID)
	}
	code, err := r.chain.CodeAt(ctx, addr)
	if err != nil {
		return fmt.Errorf("%w: reading code at %s: %w", deployment.ErrNetworkMismatch, addr, err)
	}
	if len(code) == 0 {
		return fmt.Errorf("%w: no code at published library %s on chain %d", deployment.ErrNetworkMismatch, addr, r.chainID)
	}
	return nil
}
