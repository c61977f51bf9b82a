// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/contentstore"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	require := require.New(t)
	cfg, err := Load(New("", t.TempDir()))
	require.NoError(err)
	require.Equal(constants.DefaultChainID, cfg.ChainID)
	require.Equal(contentstore.DefaultOptions().Backend, cfg.UploadOptions().Backend)
	require.Equal(constants.DefaultIPFSEndpoint, cfg.Upload.Endpoint)
	require.True(cfg.Upload.Pin)
}

func TestLoadFileAndEnv(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
rpc-url: https://rpc.l14.lukso.network
chain-id: 2828
upload:
  backend: s3
  bucket: assets
  region: eu-west-1
  pin: false
`), 0o600))
	t.Setenv("ASSETFACTORY_PRIVATE_KEY", "0xabc")
	t.Setenv("ASSETFACTORY_UPLOAD_ACCESS_KEY_ID", "AKID")

	cfg, err := Load(New("", dir))
	require.NoError(err)
	require.Equal("https://rpc.l14.lukso.network", cfg.RPCURL)
	require.Equal(uint64(2828), cfg.ChainID)
	require.Equal("0xabc", cfg.PrivateKey)

	opts := cfg.UploadOptions()
	require.Equal(contentstore.BackendS3, opts.Backend)
	require.Equal("assets", opts.Bucket)
	require.Equal("eu-west-1", opts.Region)
	require.False(opts.Pin)
	require.Equal("AKID", opts.Credentials.AccessKeyID)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(New(filepath.Join(t.TempDir(), "missing.yaml"), ""))
	require.Error(t, err)
}
