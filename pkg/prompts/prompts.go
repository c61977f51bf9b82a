// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"errors"

	"github.com/luxfi/geth/common"
	"github.com/manifoldco/promptui"
)

const (
	Yes = "Yes"
	No  = "No"
)

// promptUIRunner is a variable for testing purposes to allow mocking prompt.Run()
var promptUIRunner = func(prompt promptui.Prompt) (string, error) {
	return prompt.Run()
}

// promptUISelectRunner is a variable for testing purposes to allow mocking select.Run()
var promptUISelectRunner = func(sel promptui.Select) (int, string, error) {
	return sel.Run()
}

// Prompter asks the user for values that were not given as flags.
type Prompter interface {
	CaptureString(promptStr string) (string, error)
	CaptureAddress(promptStr string) (common.Address, error)
	CapturePrivateKey(promptStr string) (string, error)
	CaptureURL(promptStr string) (string, error)
	CaptureYesNo(promptStr string) (bool, error)
}

type realPrompter struct{}

func NewPrompter() Prompter {
	return &realPrompter{}
}

func (*realPrompter) CaptureString(promptStr string) (string, error) {
	prompt := promptui.Prompt{
		Label: promptStr,
		Validate: func(input string) error {
			if input == "" {
				return errors.New("string cannot be empty")
			}
			return nil
		},
	}
	return promptUIRunner(prompt)
}

func (*realPrompter) CaptureAddress(promptStr string) (common.Address, error) {
	prompt := promptui.Prompt{
		Label:    promptStr,
		Validate: validateAddress,
	}
	addressStr, err := promptUIRunner(prompt)
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(addressStr), nil
}

func (*realPrompter) CapturePrivateKey(promptStr string) (string, error) {
	prompt := promptui.Prompt{
		Label:    promptStr,
		Mask:     '*',
		Validate: validatePrivateKey,
	}
	return promptUIRunner(prompt)
}

func (*realPrompter) CaptureURL(promptStr string) (string, error) {
	prompt := promptui.Prompt{
		Label:    promptStr,
		Validate: ValidateURLFormat,
	}
	return promptUIRunner(prompt)
}

func (*realPrompter) CaptureYesNo(promptStr string) (bool, error) {
	prompt := promptui.Select{
		Label: promptStr,
		Items: []string{Yes, No},
	}
	_, decision, err := promptUISelectRunner(prompt)
	if err != nil {
		return false, err
	}
	return decision == Yes, nil
}

// CaptureAddresses asks for addresses until the user declines to add more.
func CaptureAddresses(p Prompter, promptStr string) ([]common.Address, error) {
	var addrs []common.Address
	for {
		addr, err := p.CaptureAddress(promptStr)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
		more, err := p.CaptureYesNo("Add another one?")
		if err != nil {
			return nil, err
		}
		if !more {
			return addrs, nil
		}
	}
}
