// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package metadatacmd

import (
	"os"

	"github.com/luxfi/assetfactory/pkg/application"
	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/contentstore"
	"github.com/luxfi/assetfactory/pkg/metadata"
	"github.com/luxfi/assetfactory/pkg/ux"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	app     *application.AssetFactory
	outFile string
)

// assetfactory metadata
func NewCmd(injectedApp *application.AssetFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Upload profile and asset metadata",
		Long: `The metadata command suite uploads LSP3 profile or LSP4 digital asset
metadata, together with its images and files, and prints the JSONURL value
to store on chain.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	app = injectedApp
	cmd.PersistentFlags().StringVar(&outFile, "out", "", "also write the uploaded JSON document to this file")
	// metadata profile
	cmd.AddCommand(&cobra.Command{
		Use:   "profile [file]",
		Short: "Upload an LSP3 profile",
		Args:  cobra.ExactArgs(1),
		RunE:  uploadProfile,
	})
	// metadata asset
	cmd.AddCommand(&cobra.Command{
		Use:   "asset [file]",
		Short: "Upload LSP4 digital asset metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  uploadAsset,
	})
	return cmd
}

func uploadProfile(cmd *cobra.Command, args []string) error {
	profile, err := metadata.LoadProfileFile(args[0])
	if err != nil {
		return err
	}
	uploader, closeStore := newUploader()
	defer closeStore()
	enc, err := uploader.UploadProfile(cmd.Context(), profile, nil)
	if err != nil {
		return err
	}
	return report(enc)
}

func uploadAsset(cmd *cobra.Command, args []string) error {
	asset, err := metadata.LoadDigitalAssetFile(args[0])
	if err != nil {
		return err
	}
	uploader, closeStore := newUploader()
	defer closeStore()
	enc, err := uploader.UploadDigitalAsset(cmd.Context(), asset, nil)
	if err != nil {
		return err
	}
	return report(enc)
}

// newUploader builds an uploader from the upload config alone, no ledger
// or key is needed.
func newUploader() (*metadata.Uploader, func()) {
	log := app.ZapLogger()
	router := contentstore.NewRouter(log)
	opts := contentstore.DefaultOptions()
	if app.Conf != nil {
		opts = app.Conf.UploadOptions()
	}
	return metadata.NewUploader(router, opts, log), func() {
		if err := router.Close(); err != nil {
			log.Warn("failed closing content store", zap.Error(err))
		}
	}
}

func report(enc *metadata.Encoded) error {
	if outFile != "" {
		if err := os.WriteFile(outFile, enc.JSON, constants.WriteReadReadPerms); err != nil {
			return err
		}
	}
	ux.Logger.GreenCheckmarkToUser("Metadata uploaded")
	ux.PrintKeyValues(ux.Logger.Writer(), [2]string{"Field", "Value"}, [][2]string{
		{"URL", enc.URL},
		{"Hash", enc.Hash.Hex()},
		{"JSONURL", hexutil.Encode(enc.Value)},
	})
	return nil
}
