// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package metadata

import (
	"fmt"

	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
)

// EncodeJSONURL returns hashFunction(4) ++ keccak256(json) ++ url.
func EncodeJSONURL(hash common.Hash, url string) []byte {
	out := make([]byte, 0, 4+common.HashLength+len(url))
	out = append(out, constants.HashFunctionKeccak256UTF8[:]...)
	out = append(out, hash.Bytes()...)
	return append(out, url...)
}

// DecodeJSONURL splits a JSONURL value into its hash and url.
func DecodeJSONURL(value []byte) (common.Hash, string, error) {
	if len(value) < 4+common.HashLength {
		return common.Hash{}, "", fmt.Errorf("%w: JSONURL value of %d bytes", ErrInvalidMetadata, len(value))
	}
	var fn [4]byte
	copy(fn[:], value[:4])
	if fn != constants.HashFunctionKeccak256UTF8 {
		return common.Hash{}, "", fmt.Errorf("%w: unknown hash function %x", ErrInvalidMetadata, fn)
	}
	return common.BytesToHash(value[4 : 4+common.HashLength]), string(value[4+common.HashLength:]), nil
}

// FromURL describes a document that was already published at url.
func FromURL(json []byte, url string) (*Encoded, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", ErrInvalidMetadata)
	}
	hash := common.Hash(crypto.Keccak256Hash(json))
	return &Encoded{
		JSON:  json,
		Hash:  hash,
		URL:   url,
		Value: EncodeJSONURL(hash, url),
	}, nil
}
