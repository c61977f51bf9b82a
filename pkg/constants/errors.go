// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	ErrNoRPCEndpoint  = errors.New("no RPC endpoint or backend configured")
	ErrNoSigner       = errors.New("no signer, private key or deploy key configured")
	ErrInvalidAddress = errors.New("invalid address")
)
