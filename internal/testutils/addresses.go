// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package testutils

import (
	"crypto/ecdsa"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
)

// GenerateEthAddrs returns count addresses backed by fresh keys.
func GenerateEthAddrs(count int) ([]common.Address, error) {
	keys, err := GenerateKeys(count)
	if err != nil {
		return nil, err
	}
	addrs := make([]common.Address, count)
	for i, key := range keys {
		addrs[i] = common.Address(crypto.PubkeyToAddress(key.PublicKey))
	}
	return addrs, nil
}

// GenerateKeys returns count fresh secp256k1 keys.
func GenerateKeys(count int) ([]*ecdsa.PrivateKey, error) {
	keys := make([]*ecdsa.PrivateKey, count)
	for i := 0; i < count; i++ {
		pk, err := crypto.GenerateKey()
		if err != nil {
			return nil, err
		}
		keys[i] = pk
	}
	return keys, nil
}
