// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"bytes"

	"github.com/luxfi/geth/common"
)

// EIP-1167 minimal proxy pieces.
var (
	proxyInitPrefix    = common.FromHex("0x3d602d80600a3d3981f3")
	proxyRuntimePrefix = common.FromHex("0x363d3d373d3d3d363d73")
	proxyRuntimeSuffix = common.FromHex("0x5af43d82803e903d91602b57fd5bf3")
)

// MinimalProxyInitCode returns creation code for an EIP-1167 clone that
// delegates every call to implementation.
func MinimalProxyInitCode(implementation common.Address) []byte {
	code := make([]byte, 0, len(proxyInitPrefix)+len(proxyRuntimePrefix)+common.AddressLength+len(proxyRuntimeSuffix))
	code = append(code, proxyInitPrefix...)
	code = append(code, proxyRuntimePrefix...)
	code = append(code, implementation.Bytes()...)
	return append(code, proxyRuntimeSuffix...)
}

// ProxyImplementation reports the implementation a minimal proxy creation
// code (or runtime code) points at.
func ProxyImplementation(code []byte) (common.Address, bool) {
	if bytes.HasPrefix(code, proxyInitPrefix) {
		code = code[len(proxyInitPrefix):]
	}
	if len(code) != len(proxyRuntimePrefix)+common.AddressLength+len(proxyRuntimeSuffix) {
		return common.Address{}, false
	}
	if !bytes.HasPrefix(code, proxyRuntimePrefix) || !bytes.HasSuffix(code, proxyRuntimeSuffix) {
		return common.Address{}, false
	}
	return common.BytesToAddress(code[len(proxyRuntimePrefix) : len(proxyRuntimePrefix)+common.AddressLength]), true
}
