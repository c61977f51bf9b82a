// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/luxfi/assetfactory/pkg/config"
	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/assetfactory/pkg/factory"
	"github.com/luxfi/assetfactory/pkg/prompts"
	"github.com/luxfi/assetfactory/pkg/registry"
	"github.com/luxfi/assetfactory/pkg/ux"
	luxlog "github.com/luxfi/log"
	"go.uber.org/zap"
)

// AssetFactory is the state shared by every CLI command: where files live,
// the logger, the loaded configuration and how to ask for missing values.
type AssetFactory struct {
	Log     luxlog.Logger
	baseDir string
	Conf    *config.Config
	Prompt  prompts.Prompter
}

func New() *AssetFactory {
	return &AssetFactory{}
}

func (app *AssetFactory) Setup(baseDir string, log luxlog.Logger, conf *config.Config, prompt prompts.Prompter) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
	app.Prompt = prompt
}

// ZapLogger is the application logger for packages that log through zap.
func (app *AssetFactory) ZapLogger() *zap.Logger {
	return ux.NewZapLogger(app.Log)
}

func (app *AssetFactory) GetBaseDir() string {
	return app.baseDir
}

func (app *AssetFactory) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

// Registry returns the embedded registry with the configured registry file
// layered on top.
func (app *AssetFactory) Registry() (*registry.Registry, error) {
	reg := registry.Default()
	if app.Conf == nil || app.Conf.RegistryFile == "" {
		return reg, nil
	}
	override, err := registry.LoadFile(app.Conf.RegistryFile)
	if err != nil {
		return nil, err
	}
	return reg.Merge(override), nil
}

// Artifacts returns the embedded ABIs, with bytecode from the configured
// artifacts directory when there is one.
func (app *AssetFactory) Artifacts() (*contract.Artifacts, error) {
	if app.Conf == nil || app.Conf.ArtifactsDir == "" {
		return contract.NewArtifacts()
	}
	arts, err := contract.LoadDir(app.Conf.ArtifactsDir)
	if err != nil {
		return nil, fmt.Errorf("loading artifacts from %s: %w", app.Conf.ArtifactsDir, err)
	}
	return arts, nil
}

// NewFactory builds a factory from the configuration. extra options are
// applied last.
func (app *AssetFactory) NewFactory(ctx context.Context, extra ...factory.Option) (*factory.Factory, error) {
	reg, err := app.Registry()
	if err != nil {
		return nil, err
	}
	arts, err := app.Artifacts()
	if err != nil {
		return nil, err
	}
	opts := []factory.Option{
		factory.WithRegistry(reg),
		factory.WithArtifacts(arts),
		factory.WithLogger(app.ZapLogger()),
	}
	if app.Conf != nil {
		opts = append(opts,
			factory.WithRPCURL(app.Conf.RPCURL),
			factory.WithPrivateKey(app.Conf.PrivateKey),
			factory.WithUploadOptions(app.Conf.UploadOptions()),
		)
		if app.Conf.ChainID != 0 {
			opts = append(opts, factory.WithChainID(app.Conf.ChainID))
		}
	}
	return factory.New(ctx, append(opts, extra...)...)
}
