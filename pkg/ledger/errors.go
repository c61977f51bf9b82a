// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ledger

import (
	"errors"
	"fmt"

	"github.com/luxfi/geth/core/types"
)

var (
	ErrReverted   = errors.New("transaction reverted")
	ErrInvalidKey = errors.New("invalid private key")
)

// TransactionError wraps err with the hash of tx, or a note that the tx was
// never submitted, and a descriptive msg formatted with args.
func TransactionError(tx *types.Transaction, err error, msg string, args ...interface{}) error {
	msgSuffix := ": %w"
	if tx != nil {
		msgSuffix += fmt.Sprintf(" (txHash=%s)", tx.Hash().String())
	} else {
		msgSuffix += " (tx failed to be submitted)"
	}
	args = append(args, err)
	return fmt.Errorf(msg+msgSuffix, args...)
}
