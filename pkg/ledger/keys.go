// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ledger

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
)

// ParsePrivateKey accepts a hex encoded secp256k1 key with or without 0x.
func ParsePrivateKey(privateKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return key, nil
}

// PrivateKeyToAddress returns the public address associated with privateKey.
func PrivateKeyToAddress(privateKey string) (common.Address, error) {
	pk, err := ParsePrivateKey(privateKey)
	if err != nil {
		return common.Address{}, err
	}
	return common.Address(crypto.PubkeyToAddress(pk.PublicKey)), nil
}
