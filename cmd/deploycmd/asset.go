// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd

import (
	"context"

	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/assetfactory/pkg/metadata"
	"github.com/luxfi/assetfactory/pkg/pipeline"
	"github.com/spf13/cobra"
)

type assetFlags struct {
	contract         contractFlags
	name             string
	symbol           string
	owner            string
	isNFT            bool
	metadataFile     string
	metadataURL      string
	metadataJSONFile string
	stream           bool
}

func (f *assetFlags) addToCmd(cmd *cobra.Command, what string) {
	f.contract.addToCmd(cmd.Flags(), "", what)
	cmd.Flags().StringVar(&f.name, "name", "", "token name")
	cmd.Flags().StringVar(&f.symbol, "symbol", "", "token symbol")
	cmd.Flags().StringVar(&f.owner, "owner", "", "address receiving ownership, defaults to the signer")
	cmd.Flags().StringVar(&f.metadataFile, "metadata", "", "LSP4 metadata file to upload and attach")
	cmd.Flags().StringVar(&f.metadataURL, "metadata-url", "", "already published LSP4 metadata")
	cmd.Flags().StringVar(&f.metadataJSONFile, "metadata-json", "", "JSON file of the already published metadata")
	cmd.Flags().BoolVar(&f.stream, "stream", false, "print every deployment event as it happens")
}

// decode reads the flags shared by both asset kinds, prompting for a
// missing name or symbol.
func (f *assetFlags) decode() (*metadata.DigitalAsset, []byte, pipeline.DeployOptions, error) {
	var (
		asset *metadata.DigitalAsset
		err   error
	)
	if err = captureIfEmpty(&f.name, "Token name"); err != nil {
		return nil, nil, pipeline.DeployOptions{}, err
	}
	if err = captureIfEmpty(&f.symbol, "Token symbol"); err != nil {
		return nil, nil, pipeline.DeployOptions{}, err
	}
	if f.metadataFile != "" {
		if asset, err = metadata.LoadDigitalAssetFile(f.metadataFile); err != nil {
			return nil, nil, pipeline.DeployOptions{}, err
		}
	}
	doc, err := readOptionalFile(f.metadataJSONFile)
	if err != nil {
		return nil, nil, pipeline.DeployOptions{}, err
	}
	copts := pipeline.DeployOptions{}
	if copts.ContractOptions, err = f.contract.options(); err != nil {
		return nil, nil, pipeline.DeployOptions{}, err
	}
	if err = ensureSigner(); err != nil {
		return nil, nil, pipeline.DeployOptions{}, err
	}
	return asset, doc, copts, nil
}

var fungibleFlags assetFlags

// assetfactory deploy fungible
func newFungibleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fungible",
		Short: "Deploy an LSP7 digital asset",
		RunE:  deployFungible,
		Args:  cobra.NoArgs,
	}
	fungibleFlags.addToCmd(cmd, "asset")
	cmd.Flags().BoolVar(&fungibleFlags.isNFT, "nft", false, "make the token non-divisible")
	return cmd
}

func deployFungible(cmd *cobra.Command, _ []string) error {
	f := &fungibleFlags
	owner, err := ownerAddress(f.owner)
	if err != nil {
		return err
	}
	asset, doc, copts, err := f.decode()
	if err != nil {
		return err
	}
	opts := pipeline.FungibleOptions{
		Name:         f.name,
		Symbol:       f.symbol,
		OwnerAddress: owner,
		IsNFT:        f.isNFT,
		Metadata:     asset,
		MetadataURL:  f.metadataURL,
		MetadataJSON: doc,
	}

	ctx := cmd.Context()
	fac, err := app.NewFactory(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = fac.Close() }()

	return run(ctx, "Deploying fungible asset "+f.symbol, f.stream, func(ctx context.Context) (*deployment.Stream, error) {
		return fac.Fungible.DeployStream(ctx, opts, copts)
	})
}

var nonFungibleFlags assetFlags

// assetfactory deploy nonfungible
func newNonFungibleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nonfungible",
		Short: "Deploy an LSP8 identifiable digital asset",
		RunE:  deployNonFungible,
		Args:  cobra.NoArgs,
	}
	nonFungibleFlags.addToCmd(cmd, "asset")
	return cmd
}

func deployNonFungible(cmd *cobra.Command, _ []string) error {
	f := &nonFungibleFlags
	owner, err := ownerAddress(f.owner)
	if err != nil {
		return err
	}
	asset, doc, copts, err := f.decode()
	if err != nil {
		return err
	}
	opts := pipeline.NonFungibleOptions{
		Name:         f.name,
		Symbol:       f.symbol,
		OwnerAddress: owner,
		Metadata:     asset,
		MetadataURL:  f.metadataURL,
		MetadataJSON: doc,
	}

	ctx := cmd.Context()
	fac, err := app.NewFactory(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = fac.Close() }()

	return run(ctx, "Deploying non-fungible asset "+f.symbol, f.stream, func(ctx context.Context) (*deployment.Stream, error) {
		return fac.NonFungible.DeployStream(ctx, opts, copts)
	})
}
