// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deployment

import (
	"context"

	"github.com/luxfi/assetfactory/pkg/ledger"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
)

// DeployContract submits code as contractName and reports it as
// PENDING, PROCESSING and COMPLETE contract events.
func DeployContract(
	ctx context.Context,
	emit Emitter,
	l ledger.Ledger,
	contractName string,
	code []byte,
) (*types.Receipt, error) {
	emit(Event{Type: ContractEvent, Status: StatusPending, ContractName: contractName})
	tx, err := l.Deploy(ctx, code)
	if err != nil {
		return nil, err
	}
	emit(Event{
		Type:         ContractEvent,
		Status:       StatusProcessing,
		ContractName: contractName,
		Transaction:  tx.Transaction,
	})
	receipt, err := l.WaitMined(ctx, tx)
	if err != nil {
		return nil, err
	}
	emit(Event{
		Type:         ContractEvent,
		Status:       StatusComplete,
		ContractName: contractName,
		Transaction:  tx.Transaction,
		Receipt:      receipt,
	})
	return receipt, nil
}

// SendTransaction calls functionName on contractName at to and reports it
// as transaction events.
func SendTransaction(
	ctx context.Context,
	emit Emitter,
	l ledger.Ledger,
	contractName string,
	functionName string,
	to common.Address,
	data []byte,
) (*types.Receipt, error) {
	emit(Event{
		Type:         TransactionEvent,
		Status:       StatusPending,
		ContractName: contractName,
		FunctionName: functionName,
	})
	tx, err := l.Transact(ctx, to, data)
	if err != nil {
		return nil, err
	}
	emit(Event{
		Type:         TransactionEvent,
		Status:       StatusProcessing,
		ContractName: contractName,
		FunctionName: functionName,
		Transaction:  tx.Transaction,
	})
	receipt, err := l.WaitMined(ctx, tx)
	if err != nil {
		return nil, err
	}
	emit(Event{
		Type:         TransactionEvent,
		Status:       StatusComplete,
		ContractName: contractName,
		FunctionName: functionName,
		Transaction:  tx.Transaction,
		Receipt:      receipt,
	})
	return receipt, nil
}
