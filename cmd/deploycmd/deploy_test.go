// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd

import (
	"testing"

	"github.com/luxfi/assetfactory/pkg/application"
	"github.com/luxfi/assetfactory/pkg/config"
	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/assetfactory/pkg/prompts"
	"github.com/luxfi/geth/common"
	luxlog "github.com/luxfi/log"
	"github.com/stretchr/testify/require"
)

type stubPrompter struct {
	prompts.NonInteractivePrompter
	answers map[string]string
}

func (s *stubPrompter) CaptureString(promptStr string) (string, error) {
	return s.answers[promptStr], nil
}

func (s *stubPrompter) CapturePrivateKey(promptStr string) (string, error) {
	return s.answers[promptStr], nil
}

func setApp(t *testing.T, conf *config.Config, p prompts.Prompter) {
	t.Helper()
	a := application.New()
	a.Setup(t.TempDir(), luxlog.NewNoOpLogger(), conf, p)
	prev := app
	app = a
	t.Cleanup(func() { app = prev })
}

func TestContractFlagsOptions(t *testing.T) {
	require := require.New(t)

	opts, err := (&contractFlags{}).options()
	require.NoError(err)
	require.Nil(opts.LibAddress)
	require.Nil(opts.DeployProxy)

	lib := "0x00000000000000000000000000000000000000AA"
	opts, err = (&contractFlags{version: "0.5.0", libAddress: lib, bytecode: "0x6080", noProxy: true}).options()
	require.NoError(err)
	require.Equal("0.5.0", opts.Version)
	require.Equal(common.HexToAddress(lib), *opts.LibAddress)
	require.Equal([]byte{0x60, 0x80}, opts.ByteCode)
	require.False(*opts.DeployProxy)

	_, err = (&contractFlags{libAddress: "nope"}).options()
	require.ErrorIs(err, deployment.ErrConfiguration)
	require.ErrorIs(err, constants.ErrInvalidAddress)
}

func TestOwnerAddress(t *testing.T) {
	addr, err := ownerAddress("")
	require.NoError(t, err)
	require.Equal(t, common.Address{}, addr)

	_, err = ownerAddress("0x12")
	require.ErrorIs(t, err, deployment.ErrConfiguration)
}

func TestDecodePromptsForMissingValues(t *testing.T) {
	require := require.New(t)
	conf := &config.Config{RPCURL: "http://127.0.0.1:8545"}
	setApp(t, conf, &stubPrompter{answers: map[string]string{
		"Token name":       "Token",
		"Token symbol":     "TKN",
		"Deploy key (hex)": "0x01",
	}})

	f := &assetFlags{}
	_, _, _, err := f.decode()
	require.NoError(err)
	require.Equal("Token", f.name)
	require.Equal("TKN", f.symbol)
	require.Equal("0x01", conf.PrivateKey)
}

func TestDecodeFailsWithoutPrompting(t *testing.T) {
	setApp(t, &config.Config{}, prompts.NewNonInteractivePrompter())

	f := &assetFlags{symbol: "TKN"}
	_, _, _, err := f.decode()
	require.ErrorIs(t, err, prompts.ErrNonInteractive)
}
