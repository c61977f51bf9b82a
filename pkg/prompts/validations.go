// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"errors"
	"net/url"

	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/ledger"
	"github.com/luxfi/geth/common"
)

func ValidateURLFormat(input string) error {
	if input == "" {
		return errors.New("URL cannot be empty")
	}
	parsedURL, err := url.Parse(input)
	if err != nil {
		return err
	}
	if parsedURL.Scheme == "" {
		return errors.New("URL must have a scheme (e.g., http:// or https://)")
	}
	return nil
}

func validateAddress(input string) error {
	if !common.IsHexAddress(input) {
		return constants.ErrInvalidAddress
	}
	return nil
}

func validatePrivateKey(input string) error {
	_, err := ledger.ParsePrivateKey(input)
	return err
}
