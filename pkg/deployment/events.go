// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deployment

import (
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
)

type EventType string

const (
	ContractEvent    EventType = "CONTRACT"
	TransactionEvent EventType = "TRANSACTION"
)

type Status string

const (
	// StatusPending marks a stage that started.
	StatusPending Status = "PENDING"
	// StatusProcessing marks a submitted transaction.
	StatusProcessing Status = "PROCESSING"
	// StatusComplete carries the mined receipt.
	StatusComplete Status = "COMPLETE"
	StatusError    Status = "ERROR"
)

// Event reports the progress of one deployment stage. Events are values and
// never change after emission.
type Event struct {
	Type         EventType
	Status       Status
	ContractName string
	FunctionName string
	Transaction  *types.Transaction
	Receipt      *types.Receipt
	Error        error
}

func (e Event) String() string {
	name := e.ContractName
	if e.FunctionName != "" {
		name += "." + e.FunctionName
	}
	switch {
	case e.Error != nil:
		return fmt.Sprintf("%s %s %s: %v", e.Type, e.Status, name, e.Error)
	case e.Receipt != nil:
		return fmt.Sprintf("%s %s %s receipt=%s", e.Type, e.Status, name, e.Receipt.TxHash)
	case e.Transaction != nil:
		return fmt.Sprintf("%s %s %s tx=%s", e.Type, e.Status, name, e.Transaction.Hash())
	default:
		return fmt.Sprintf("%s %s %s", e.Type, e.Status, name)
	}
}

// Emitter publishes an event to the stream a stage runs in.
type Emitter func(Event)

// DeployedContract is the batch view of one deployed contract.
type DeployedContract struct {
	Address common.Address
	Receipt *types.Receipt
}

// DeployedContracts maps contract names to their deployment.
type DeployedContracts map[string]DeployedContract
