// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"math/big"

	"github.com/luxfi/geth/common"
)

// PackOwner encodes owner(); see https://docs.openzeppelin.com/contracts/2.x/api/ownership#Ownable-owner
func (a *Artifact) PackOwner() ([]byte, error) {
	return a.Pack("owner")
}

// UnpackOwner decodes the result of owner().
func (a *Artifact) UnpackOwner(out []byte) (common.Address, error) {
	res, err := a.ABI.Unpack("owner", out)
	if err != nil {
		return common.Address{}, err
	}
	return GetSmartContractCallResult[common.Address]("owner", res)
}

// PackTransferOwnership encodes transferOwnership(address).
func (a *Artifact) PackTransferOwnership(newOwner common.Address) ([]byte, error) {
	return a.Pack("transferOwnership", newOwner)
}

// PackExecute encodes the ERC725X execute(uint256,address,uint256,bytes) of
// an account contract.
func (a *Artifact) PackExecute(operation uint64, to common.Address, value *big.Int, data []byte) ([]byte, error) {
	if value == nil {
		value = new(big.Int)
	}
	return a.Pack("execute", new(big.Int).SetUint64(operation), to, value, data)
}
