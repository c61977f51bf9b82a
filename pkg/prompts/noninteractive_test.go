// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompts

import (
	"errors"
	"testing"

	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/geth/common"
	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/require"
)

func TestNonInteractivePrompter_FailsWithError(t *testing.T) {
	p := NewNonInteractivePrompter()

	_, err := p.CaptureYesNo("Confirm?")
	require.True(t, errors.Is(err, ErrNonInteractive))
	require.Contains(t, err.Error(), "Confirm?")

	_, err = p.CaptureString("Token name")
	require.True(t, errors.Is(err, ErrNonInteractive))
	require.Contains(t, err.Error(), "Token name")

	_, err = p.CaptureAddress("Controller")
	require.True(t, errors.Is(err, ErrNonInteractive))

	_, err = p.CapturePrivateKey("Deploy key")
	require.True(t, errors.Is(err, ErrNonInteractive))

	_, err = p.CaptureURL("RPC")
	require.True(t, errors.Is(err, ErrNonInteractive))
}

func TestNonInteractivePrompter_CustomMessage(t *testing.T) {
	p := NewNonInteractivePrompterWithMessage("use --private-key")

	_, err := p.CapturePrivateKey("Deploy key")
	require.Contains(t, err.Error(), "use --private-key")
}

func TestCaptureAddresses(t *testing.T) {
	answers := []string{
		"0x00000000000000000000000000000000000000a1",
		"0x00000000000000000000000000000000000000a2",
	}
	more := []string{Yes, No}
	origPrompt, origSelect := promptUIRunner, promptUISelectRunner
	t.Cleanup(func() { promptUIRunner, promptUISelectRunner = origPrompt, origSelect })
	promptUIRunner = func(p promptui.Prompt) (string, error) {
		a := answers[0]
		answers = answers[1:]
		return a, p.Validate(a)
	}
	promptUISelectRunner = func(promptui.Select) (int, string, error) {
		m := more[0]
		more = more[1:]
		return 0, m, nil
	}

	addrs, err := CaptureAddresses(NewPrompter(), "Controller address")
	require.NoError(t, err)
	require.Equal(t, []common.Address{
		common.HexToAddress("0x00000000000000000000000000000000000000a1"),
		common.HexToAddress("0x00000000000000000000000000000000000000a2"),
	}, addrs)
}

func TestValidations(t *testing.T) {
	require.NoError(t, ValidateURLFormat("https://rpc.l14.lukso.network"))
	require.Error(t, ValidateURLFormat(""))
	require.Error(t, ValidateURLFormat("rpc.l14.lukso.network"))
	require.ErrorIs(t, validateAddress("0x12"), constants.ErrInvalidAddress)
	require.Error(t, validatePrivateKey("0x12"))
	require.NoError(t, validatePrivateKey("0x8b3a350cf5c34c9194ca85829a2df0ec3153be0318b5e2d3348e872092edffba"))
}
