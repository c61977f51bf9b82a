// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"time"
)

const (
	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644

	BaseDirName    = ".assetfactory"
	LogDir         = "logs"
	LoggerName     = "assetfactory"
	ConfigFileName = "config"
	ConfigFileType = "yaml"
	EnvPrefix      = "ASSETFACTORY"

	// DefaultChainID is the LUKSO L14 testnet.
	DefaultChainID uint64 = 22

	DefaultIPFSEndpoint = "https://api.ipfs.lukso.network"

	IPFSScheme = "ipfs"
	S3Scheme   = "s3"
	GCSScheme  = "gs"

	ReceiptPollInterval = 2 * time.Second
	APIRequestTimeout   = 30 * time.Second
	UploadTimeout       = 2 * time.Minute

	// GasLimitMultiplierPct pads node gas estimates, in percent.
	GasLimitMultiplierPct = 120

	BaseContractSuffix = "BaseContract"

	MaxLogFileSize   = 4
	MaxNumOfLogFiles = 5
	RetainOldFiles   = 0
)
