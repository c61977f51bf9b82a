// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd

import (
	"context"

	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/assetfactory/pkg/metadata"
	"github.com/luxfi/assetfactory/pkg/pipeline"
	"github.com/luxfi/assetfactory/pkg/prompts"
	"github.com/luxfi/geth/common"
	"github.com/spf13/cobra"
)

type accountFlags struct {
	account         contractFlags
	keyManager      contractFlags
	controllers     []string
	profileFile     string
	profileURL      string
	profileJSONFile string
	stream          bool
}

var accountCmdFlags accountFlags

// assetfactory deploy account
func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Deploy an account with its key manager",
		Long: `Deploy an ERC725 account and the key manager that owns it. Every
controller gets the default permissions on the account.`,
		RunE: deployAccount,
		Args: cobra.NoArgs,
	}
	f := &accountCmdFlags
	f.account.addToCmd(cmd.Flags(), "", "account")
	f.keyManager.addToCmd(cmd.Flags(), "km-", "key manager")
	cmd.Flags().Lookup("no-proxy").Usage = "deploy the account and its key manager standalone instead of behind proxies"
	cmd.Flags().StringSliceVar(&f.controllers, "controller", nil, "controller address (repeatable)")
	cmd.Flags().StringVar(&f.profileFile, "profile", "", "LSP3 profile file to upload and attach")
	cmd.Flags().StringVar(&f.profileURL, "profile-url", "", "already published LSP3 profile")
	cmd.Flags().StringVar(&f.profileJSONFile, "profile-json", "", "JSON file of the already published profile")
	cmd.Flags().BoolVar(&f.stream, "stream", false, "print every deployment event as it happens")
	return cmd
}

func deployAccount(cmd *cobra.Command, _ []string) error {
	f := &accountCmdFlags
	opts := pipeline.AccountOptions{ProfileURL: f.profileURL}
	for _, c := range f.controllers {
		addr, err := parseAddress(c)
		if err != nil {
			return err
		}
		opts.ControllerAddresses = append(opts.ControllerAddresses, addr)
	}
	if f.profileFile != "" {
		profile, err := metadata.LoadProfileFile(f.profileFile)
		if err != nil {
			return err
		}
		opts.Profile = profile
	}
	if len(opts.ControllerAddresses) == 0 {
		addrs, err := prompts.CaptureAddresses(app.Prompt, "Controller address")
		if err != nil {
			return err
		}
		opts.ControllerAddresses = addrs
	}
	var err error
	if opts.ProfileJSON, err = readOptionalFile(f.profileJSONFile); err != nil {
		return err
	}

	copts := pipeline.DeployOptions{}
	if copts.ContractOptions, err = f.account.options(); err != nil {
		return err
	}
	if copts.KeyManager, err = f.keyManager.options(); err != nil {
		return err
	}

	if err := ensureSigner(); err != nil {
		return err
	}
	ctx := cmd.Context()
	fac, err := app.NewFactory(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = fac.Close() }()

	return run(ctx, "Deploying account", f.stream, func(ctx context.Context) (*deployment.Stream, error) {
		return fac.Account.DeployStream(ctx, opts, copts)
	})
}

// ownerAddress parses an optional owner flag.
func ownerAddress(s string) (common.Address, error) {
	if s == "" {
		return common.Address{}, nil
	}
	return parseAddress(s)
}
