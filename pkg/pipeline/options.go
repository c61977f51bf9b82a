// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package pipeline

import (
	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/contentstore"
	"github.com/luxfi/assetfactory/pkg/metadata"
	"github.com/luxfi/geth/common"
)

// Contract names used in events and results.
const (
	AccountContractName     = "ERC725Account"
	KeyManagerContractName  = "KeyManager"
	FungibleContractName    = "LSP7DigitalAsset"
	NonFungibleContractName = "LSP8IdentifiableDigitalAsset"
)

// LibraryName is the name a library deployment of contractName is reported
// under.
func LibraryName(contractName string) string {
	return contractName + constants.BaseContractSuffix
}

// ContractOptions tune how one contract is deployed.
type ContractOptions struct {
	// Version selects a registry version. Empty means the registry default.
	Version string
	// LibAddress is a library to put behind the proxy, skipping resolution.
	LibAddress *common.Address
	// ByteCode is deployed as a standalone contract instead of a proxy.
	ByteCode []byte
	// DeployProxy defaults to true.
	DeployProxy *bool
}

func (o ContractOptions) proxy() bool {
	return o.DeployProxy == nil || *o.DeployProxy
}

// standalone reports whether the contract is deployed without proxy.
func (o ContractOptions) standalone() bool {
	return !o.proxy() || len(o.ByteCode) > 0
}

// DeployOptions apply to one pipeline run.
type DeployOptions struct {
	ContractOptions
	// KeyManager is only read by the account pipeline.
	KeyManager ContractOptions
	// UploadOptions override the factory upload options for this run.
	UploadOptions *contentstore.Options
}

// keyManager returns the key manager options. Without an explicit choice
// the key manager follows the account on DeployProxy.
func (o DeployOptions) keyManager() ContractOptions {
	km := o.KeyManager
	if km.DeployProxy == nil {
		km.DeployProxy = o.DeployProxy
	}
	return km
}

// AccountOptions describe an account and its controllers.
type AccountOptions struct {
	ControllerAddresses []common.Address
	// Profile is uploaded during the run. Alternatively ProfileURL and
	// ProfileJSON describe an already published profile.
	Profile     *metadata.Profile
	ProfileURL  string
	ProfileJSON []byte
}

// FungibleOptions describe an LSP7 digital asset.
type FungibleOptions struct {
	Name   string
	Symbol string
	// OwnerAddress receives ownership at the end of the run. Zero keeps the
	// signer as owner.
	OwnerAddress common.Address
	// IsNFT makes the token non-divisible.
	IsNFT        bool
	Metadata     *metadata.DigitalAsset
	MetadataURL  string
	MetadataJSON []byte
}

// NonFungibleOptions describe an LSP8 identifiable digital asset.
type NonFungibleOptions struct {
	Name         string
	Symbol       string
	OwnerAddress common.Address
	Metadata     *metadata.DigitalAsset
	MetadataURL  string
	MetadataJSON []byte
}

// Bool returns a pointer to b, for DeployProxy.
func Bool(b bool) *bool {
	return &b
}
