// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package pipeline

import (
	"context"
	"fmt"
	"math/big"

	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/assetfactory/pkg/ledger"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
)

// OwnershipTarget is the identity owning freshly deployed contracts, as
// seen from the signer.
type OwnershipTarget interface {
	// Owner is the address contracts are initialized with.
	Owner() common.Address
	isOwnershipTarget()
}

// PlainKeyTarget is a signer that is an externally owned key.
type PlainKeyTarget struct {
	Address common.Address
}

func (t PlainKeyTarget) Owner() common.Address { return t.Address }
func (PlainKeyTarget) isOwnershipTarget()       {}

// AccountContractTarget is a signer that is itself an account contract.
// Owner-only calls are routed through its execute function.
type AccountContractTarget struct {
	Account common.Address
}

func (t AccountContractTarget) Owner() common.Address { return t.Account }
func (AccountContractTarget) isOwnershipTarget()       {}

// ProbeOwnershipTarget checks whether the signer address implements the
// account interface.
func ProbeOwnershipTarget(ctx context.Context, l ledger.Ledger) (OwnershipTarget, error) {
	addr := l.Address()
	isAccount, err := l.SupportsInterface(ctx, addr, constants.InterfaceIDERC725Account)
	if err != nil {
		return nil, fmt.Errorf("probing signer %s: %w", addr, err)
	}
	if isAccount {
		return AccountContractTarget{Account: addr}, nil
	}
	return PlainKeyTarget{Address: addr}, nil
}

// ownerCall sends data to contract at to on behalf of target.
func ownerCall(
	ctx context.Context,
	emit deployment.Emitter,
	l ledger.Ledger,
	artifacts *contract.Artifacts,
	target OwnershipTarget,
	contractName string,
	functionName string,
	to common.Address,
	data []byte,
) (*types.Receipt, error) {
	switch t := target.(type) {
	case PlainKeyTarget:
		return deployment.SendTransaction(ctx, emit, l, contractName, functionName, to, data)
	case AccountContractTarget:
		account := artifacts.MustGet(contract.UniversalProfile)
		wrapped, err := account.PackExecute(constants.OperationCall, to, new(big.Int), data)
		if err != nil {
			return nil, err
		}
		return deployment.SendTransaction(ctx, emit, l, contractName, functionName, t.Account, wrapped)
	default:
		return nil, fmt.Errorf("%w: unknown ownership target %T", deployment.ErrConfiguration, target)
	}
}
