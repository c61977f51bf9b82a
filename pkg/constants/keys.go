// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"encoding/binary"

	"github.com/luxfi/geth/common"
)

// ERC725Y data keys written by the pipelines.
var (
	LSP3ProfileKey             = common.HexToHash("0x5ef83ad9559033e6e941db7d7c495acdce616347d28e90c7ce47cbfcfcad3bc5")
	LSP4MetadataKey            = common.HexToHash("0x9afb95cacc9f95858ec44aa8c3b685511002e30ae54415823f406128b85b238e")
	AddressPermissionsArrayKey = common.HexToHash("0xdf30dba06db6a30e65354d9a64c609861f089545ca58c6b4dbe31a5f338cb0e3")

	// AddressPermissions:Permissions:<address>
	AddressPermissionsPrefix = common.FromHex("0x4b80742d0000000082ac0000")
)

// Interface ids probed through ERC165.
var (
	InterfaceIDERC725Account = [4]byte{0x63, 0xcb, 0x74, 0x9b}
	InterfaceIDKeyManager    = [4]byte{0x6f, 0x4d, 0xf4, 0x8b}
	InterfaceIDLSP7          = [4]byte{0xe3, 0x3f, 0x65, 0xc3}
	InterfaceIDLSP8          = [4]byte{0x49, 0x39, 0x9d, 0xd1}
)

// JSONURL hash function ids.
var (
	HashFunctionKeccak256UTF8  = [4]byte{0x6f, 0x35, 0x7c, 0x6a}
	HashFunctionKeccak256Bytes = [4]byte{0x8f, 0x9a, 0x2c, 0x4c}
)

const (
	HashFunctionNameUTF8  = "keccak256(utf8)"
	HashFunctionNameBytes = "keccak256(bytes)"
)

// ERC725X operation types.
const (
	OperationCall uint64 = 0
)

// Key manager permission flags.
const (
	PermissionChangeOwner uint64 = 1 << iota
	PermissionChangePermissions
	PermissionAddPermissions
	PermissionSetData
	PermissionCall
	PermissionStaticCall
	PermissionDelegateCall
	PermissionDeploy
	PermissionTransferValue
	PermissionSign
)

// DefaultPermissions is granted to every controller of a freshly deployed
// account. Delegate calls are left out.
const DefaultPermissions = PermissionChangeOwner |
	PermissionChangePermissions |
	PermissionAddPermissions |
	PermissionSetData |
	PermissionCall |
	PermissionStaticCall |
	PermissionDeploy |
	PermissionTransferValue |
	PermissionSign

// PermissionsKey returns AddressPermissions:Permissions:<controller>.
func PermissionsKey(controller common.Address) common.Hash {
	var key common.Hash
	copy(key[:], AddressPermissionsPrefix)
	copy(key[len(AddressPermissionsPrefix):], controller.Bytes())
	return key
}

// AddressPermissionsIndexKey returns the key of element index in the
// AddressPermissions[] array: the first half of the array key followed by
// the index as uint128.
func AddressPermissionsIndexKey(index uint64) common.Hash {
	var key common.Hash
	copy(key[:16], AddressPermissionsArrayKey[:16])
	binary.BigEndian.PutUint64(key[24:], index)
	return key
}

// EncodePermissions encodes a permission bitmask as a 32 byte word.
func EncodePermissions(mask uint64) []byte {
	return EncodeUint256(mask)
}

// EncodeUint256 left pads v to 32 bytes.
func EncodeUint256(v uint64) []byte {
	out := make([]byte, 32)
	binary.BigEndian.PutUint64(out[24:], v)
	return out
}
