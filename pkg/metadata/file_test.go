// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadProfileFile(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(dir, "avatar.png"), []byte("png"), 0o600))
	path := filepath.Join(dir, "profile.yaml")
	require.NoError(os.WriteFile(path, []byte(`
name: alice
description: builder
links:
  - title: site
    url: https://example.org
tags: [public]
profileImage:
  - path: avatar.png
backgroundImage:
  - url: ipfs://QmBackground
    width: 640
    height: 480
    hash: "0xabcd"
`), 0o600))

	p, err := LoadProfileFile(path)
	require.NoError(err)
	require.Equal("alice", p.Name)
	require.Equal([]Link{{Title: "site", URL: "https://example.org"}}, p.Links)
	require.Equal([]string{"public"}, p.Tags)
	require.Equal([]byte("png"), p.ProfileImage[0].Data)
	require.Equal(ImageInput{URL: "ipfs://QmBackground", Width: 640, Height: 480, Hash: "0xabcd"}, p.BackgroundImage[0])
}

func TestLoadDigitalAssetFile(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(dir, "paper.pdf"), []byte("%PDF"), 0o600))
	path := filepath.Join(dir, "asset.json")
	require.NoError(os.WriteFile(path, []byte(`{"description": "token", "assets": [{"path": "paper.pdf", "fileType": "pdf"}]}`), 0o600))

	a, err := LoadDigitalAssetFile(path)
	require.NoError(err)
	require.Equal("token", a.Description)
	require.Len(a.Assets, 1)
	require.Equal("pdf", a.Assets[0].FileType)
	require.Equal([]byte("%PDF"), a.Assets[0].Data)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadProfileFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: [unclosed"), 0o600))
	_, err = LoadProfileFile(bad)
	require.ErrorIs(t, err, ErrInvalidMetadata)

	missingImage := filepath.Join(dir, "img.yaml")
	require.NoError(t, os.WriteFile(missingImage, []byte("icon:\n  - path: nope.png\n"), 0o600))
	_, err = LoadDigitalAssetFile(missingImage)
	require.Error(t, err)
}
