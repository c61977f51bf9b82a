// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd

import (
	"context"
	"fmt"
	"os"

	"github.com/luxfi/assetfactory/pkg/application"
	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/assetfactory/pkg/pipeline"
	"github.com/luxfi/assetfactory/pkg/ux"
	"github.com/luxfi/geth/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var app *application.AssetFactory

// assetfactory deploy
func NewCmd(injectedApp *application.AssetFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy accounts and digital assets",
		Long: `The deploy command suite deploys an account with its key manager, a
fungible LSP7 asset or a non-fungible LSP8 asset, reusing published library
contracts when the registry knows one for the chain.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	app = injectedApp
	// deploy account
	cmd.AddCommand(newAccountCmd())
	// deploy fungible
	cmd.AddCommand(newFungibleCmd())
	// deploy nonfungible
	cmd.AddCommand(newNonFungibleCmd())
	return cmd
}

// contractFlags are the per-contract deployment knobs.
type contractFlags struct {
	version    string
	libAddress string
	bytecode   string
	noProxy    bool
}

func (f *contractFlags) addToCmd(fs *pflag.FlagSet, prefix, what string) {
	fs.StringVar(&f.version, prefix+"version", "", "registry version of the "+what+" library")
	fs.StringVar(&f.libAddress, prefix+"lib-address", "", "library the "+what+" proxy delegates to, skips resolution")
	fs.StringVar(&f.bytecode, prefix+"bytecode", "", "hex creation code to deploy the "+what+" standalone")
	fs.BoolVar(&f.noProxy, prefix+"no-proxy", false, "deploy the "+what+" standalone instead of behind a proxy")
}

func (f *contractFlags) options() (pipeline.ContractOptions, error) {
	opts := pipeline.ContractOptions{Version: f.version}
	if f.libAddress != "" {
		addr, err := parseAddress(f.libAddress)
		if err != nil {
			return opts, err
		}
		opts.LibAddress = &addr
	}
	if f.bytecode != "" {
		opts.ByteCode = common.FromHex(f.bytecode)
	}
	if f.noProxy {
		opts.DeployProxy = pipeline.Bool(false)
	}
	return opts, nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, deployment.Configurationf("%w %q", constants.ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// run consumes a deployment either live, printing every event, or as one
// result table.
func run(ctx context.Context, title string, stream bool, start func(context.Context) (*deployment.Stream, error)) error {
	s, err := start(ctx)
	if err != nil {
		return err
	}
	if stream {
		ux.Logger.PrintToUser("%s", title)
		for ev := range deployment.Events(s, 16) {
			ux.Logger.PrintEvent(ev)
		}
		if err := s.Err(); err != nil {
			return err
		}
		ux.Logger.GreenCheckmarkToUser("%s finished", title)
		return nil
	}

	tracker := ux.NewStepTracker(ux.Logger)
	tracker.Start(title)
	bar := ux.NewDeploymentBar(os.Stderr, title)
	contracts := make(deployment.DeployedContracts)
	for ev := range deployment.Events(s, 16) {
		contracts.Add(ev)
		bar.Observe(ev)
	}
	bar.Finish()
	if err := s.Err(); err != nil {
		tracker.Failed(err.Error())
		return err
	}
	tracker.Complete(fmt.Sprintf("%d transactions mined", bar.Mined()))
	ux.PrintDeployedContracts(ux.Logger.Writer(), contracts)
	return nil
}

// ensureSigner asks for the deploy key when an endpoint is configured
// without one.
func ensureSigner() error {
	if app.Conf == nil || app.Conf.RPCURL == "" || app.Conf.PrivateKey != "" {
		return nil
	}
	key, err := app.Prompt.CapturePrivateKey("Deploy key (hex)")
	if err != nil {
		return err
	}
	app.Conf.PrivateKey = key
	return nil
}

// captureIfEmpty fills *value from the prompter when the flag was not given.
func captureIfEmpty(value *string, promptStr string) error {
	if *value != "" {
		return nil
	}
	v, err := app.Prompt.CaptureString(promptStr)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

func readOptionalFile(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
