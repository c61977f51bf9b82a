// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/luxfi/assetfactory/cmd/deploycmd"
	"github.com/luxfi/assetfactory/cmd/metadatacmd"
	"github.com/luxfi/assetfactory/cmd/registrycmd"
	"github.com/luxfi/assetfactory/pkg/application"
	"github.com/luxfi/assetfactory/pkg/config"
	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/prompts"
	"github.com/luxfi/assetfactory/pkg/ux"
	luxlog "github.com/luxfi/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	app *application.AssetFactory

	Version        = "0.1.0"
	logLevel       string
	cfgFile        string
	nonInteractive bool

	logFactory luxlog.Factory
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "assetfactory",
		Long: `assetfactory deploys LUKSO style accounts and digital assets.

COMMAND OVERVIEW:

  deploy      Deploy an account, a fungible (LSP7) or non-fungible (LSP8) asset
  metadata    Upload LSP3 profile or LSP4 asset metadata
  registry    List the published library contracts

QUICK START:

  # Deploy an account controlled by one key
  assetfactory deploy account --controller 0x... --rpc-url https://rpc.l14.lukso.network

  # Follow every transaction while it happens
  assetfactory deploy fungible --name Token --symbol TKN --stream`,
		PersistentPreRunE: createApp,
		Version:           Version,
		SilenceUsage:      true,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.assetfactory/config.yaml)")
	pf.StringVar(&logLevel, "log-level", "warn", "log level for the console output")
	pf.Bool("verbose", false, "Show verbose output (info level logs)")
	pf.Bool("debug", false, "Show debug output (debug level logs)")
	pf.Bool("quiet", false, "Show only errors (quiet mode)")
	pf.BoolVar(&nonInteractive, "non-interactive", false, "never prompt, fail when a required value is missing")

	pf.String(config.KeyRPCURL, "", "EVM JSON-RPC endpoint")
	pf.String(config.KeyPrivateKey, "", "hex encoded deploy key")
	pf.Uint64(config.KeyChainID, constants.DefaultChainID, "chain id transactions are signed for")
	pf.String(config.KeyRegistryFile, "", "registry file layered on top of the embedded one")
	pf.String(config.KeyArtifactsDir, "", "directory of hardhat artifacts providing contract bytecode")
	pf.String("upload-backend", "", "metadata storage: ipfs, s3, gcs or local")
	pf.String("upload-endpoint", "", "override the storage API endpoint")
	pf.String("upload-bucket", "", "S3 or GCS bucket")
	pf.String("upload-region", "", "S3 region")

	rootCmd.AddCommand(deploycmd.NewCmd(app))
	rootCmd.AddCommand(metadatacmd.NewCmd(app))
	rootCmd.AddCommand(registrycmd.NewCmd(app))

	return rootCmd
}

// flagKeys maps flags whose name differs from their config key.
var flagKeys = map[string]string{
	"upload-backend":  config.KeyUploadBackend,
	"upload-endpoint": config.KeyUploadEndpoint,
	"upload-bucket":   config.KeyUploadBucket,
	"upload-region":   config.KeyUploadRegion,
}

func createApp(cmd *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	log, err := setupLogging(cmd, baseDir)
	if err != nil {
		return err
	}

	v := config.New(cfgFile, baseDir)
	for _, key := range []string{
		config.KeyRPCURL,
		config.KeyPrivateKey,
		config.KeyChainID,
		config.KeyRegistryFile,
		config.KeyArtifactsDir,
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return err
		}
	}
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	conf, err := config.Load(v)
	if err != nil {
		return err
	}
	if used := v.ConfigFileUsed(); used != "" {
		log.Debug("using config file", "config-file", used)
	}

	app.Setup(baseDir, log, conf, prompts.NewPrompterForMode(nonInteractive))
	return nil
}

func setupEnv() (string, error) {
	usr, err := user.Current()
	if err != nil {
		// no logger here yet
		fmt.Printf("unable to get system user %s\n", err)
		return "", err
	}
	baseDir := filepath.Join(usr.HomeDir, constants.BaseDirName)
	if err := os.MkdirAll(filepath.Join(baseDir, constants.LogDir), constants.DefaultPerms755); err != nil {
		fmt.Printf("failed creating the basedir %s: %s\n", baseDir, err)
		return "", err
	}
	return baseDir, nil
}

// setupLogging builds the application logger. The level from
// --log-level, --verbose, --debug or --quiet applies to both the log file
// and the console.
func setupLogging(cmd *cobra.Command, baseDir string) (luxlog.Logger, error) {
	level, err := displayLevel(cmd.Flags())
	if err != nil {
		return nil, err
	}

	logConfig := luxlog.Config{}
	logConfig.LogLevel = level
	logConfig.DisplayLevel = level
	logConfig.Directory = filepath.Join(baseDir, constants.LogDir)
	logConfig.LogFormat = luxlog.Colors
	logConfig.MaxSize = constants.MaxLogFileSize
	logConfig.MaxFiles = constants.MaxNumOfLogFiles
	logConfig.MaxAge = constants.RetainOldFiles

	// Register ux package as internal so caller tracking shows actual source, not the wrapper
	luxlog.RegisterInternalPackages("github.com/luxfi/assetfactory/pkg/ux")

	factory := luxlog.NewFactoryWithConfig(logConfig)
	log, err := factory.Make(constants.LoggerName)
	if err != nil {
		factory.Close()
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}
	logFactory = factory

	// User output goes to stdout, logs go to stderr
	ux.NewUserLog(log, os.Stdout)
	return log, nil
}

func displayLevel(flags *pflag.FlagSet) (luxlog.Level, error) {
	switch {
	case flags.Changed("debug"):
		return luxlog.DebugLevel, nil
	case flags.Changed("verbose"):
		return luxlog.InfoLevel, nil
	case flags.Changed("quiet"):
		return luxlog.ErrorLevel, nil
	}
	level, err := luxlog.ToLevel(logLevel)
	if err != nil {
		return luxlog.WarnLevel, fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	return level, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if ux.Logger != nil {
			ux.Logger.PrintError("%s", err)
		} else {
			fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err)
		}
	}
	if logFactory != nil {
		logFactory.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
