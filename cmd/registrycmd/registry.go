// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package registrycmd

import (
	"github.com/luxfi/assetfactory/pkg/application"
	"github.com/luxfi/assetfactory/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	app      *application.AssetFactory
	allChain bool
)

// assetfactory registry
func NewCmd(injectedApp *application.AssetFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the published library registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	app = injectedApp
	// registry list
	list := &cobra.Command{
		Use:   "list",
		Short: "List published library versions for the configured chain",
		Args:  cobra.NoArgs,
		RunE:  listRegistry,
	}
	list.Flags().BoolVar(&allChain, "all", false, "list every chain, not only the configured one")
	cmd.AddCommand(list)
	return cmd
}

func listRegistry(_ *cobra.Command, _ []string) error {
	reg, err := app.Registry()
	if err != nil {
		return err
	}
	listings := reg.Entries()
	if !allChain && app.Conf != nil {
		filtered := listings[:0]
		for _, l := range listings {
			if l.ChainID == app.Conf.ChainID {
				filtered = append(filtered, l)
			}
		}
		listings = filtered
	}
	if len(listings) == 0 {
		ux.Logger.PrintToUser("No published libraries known, libraries will be deployed with each run.")
		return nil
	}
	ux.PrintRegistry(ux.Logger.Writer(), listings)
	return nil
}
