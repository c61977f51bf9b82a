// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"errors"
	"fmt"

	"github.com/luxfi/geth/common"
)

var ErrNoBytecode = errors.New("no bytecode available")

// CreationCode appends the packed constructor arguments to bytecode.
func (a *Artifact) CreationCode(bytecode []byte, args ...any) ([]byte, error) {
	if len(bytecode) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoBytecode, a.Kind)
	}
	packed, err := a.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s constructor: %w", a.Kind, err)
	}
	code := make([]byte, 0, len(bytecode)+len(packed))
	code = append(code, bytecode...)
	return append(code, packed...), nil
}

// Pack encodes a call to method.
func (a *Artifact) Pack(method string, args ...any) ([]byte, error) {
	data, err := a.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s.%s: %w", a.Kind, method, err)
	}
	return data, nil
}

// PackSetData encodes setData(bytes32[],bytes[]).
func (a *Artifact) PackSetData(keys []common.Hash, values [][]byte) ([]byte, error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("setData: %d keys for %d values", len(keys), len(values))
	}
	raw := make([][32]byte, len(keys))
	for i, k := range keys {
		raw[i] = k
	}
	return a.Pack("setData", raw, values)
}

// UnpackGetData decodes the result of getData(bytes32[]).
func (a *Artifact) UnpackGetData(out []byte) ([][]byte, error) {
	res, err := a.ABI.Unpack("getData", out)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s.getData: %w", a.Kind, err)
	}
	return GetSmartContractCallResult[[][]byte]("getData", res)
}

// GetSmartContractCallResult extracts the single typed return value of a call.
func GetSmartContractCallResult[T any](methodName string, out []any) (T, error) {
	var zero T
	if len(out) == 0 {
		return zero, fmt.Errorf("error at %s call: no return value", methodName)
	}
	if len(out) != 1 {
		return zero, fmt.Errorf("error at %s call: expected 1 return value, got %d", methodName, len(out))
	}
	value, ok := out[0].(T)
	if !ok {
		return zero, fmt.Errorf("error at %s call: expected %T return type, got %T", methodName, zero, out[0])
	}
	return value, nil
}
