// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/contentstore"
	"github.com/spf13/viper"
)

// Keys shared by flags, env vars and the config file.
const (
	KeyRPCURL       = "rpc-url"
	KeyPrivateKey   = "private-key"
	KeyChainID      = "chain-id"
	KeyRegistryFile = "registry-file"
	KeyArtifactsDir = "artifacts-dir"

	KeyUploadBackend         = "upload.backend"
	KeyUploadEndpoint        = "upload.endpoint"
	KeyUploadPin             = "upload.pin"
	KeyUploadBucket          = "upload.bucket"
	KeyUploadRegion          = "upload.region"
	KeyUploadBasePath        = "upload.base-path"
	KeyUploadUsername        = "upload.username"
	KeyUploadPassword        = "upload.password"
	KeyUploadAccessKeyID     = "upload.access-key-id"
	KeyUploadSecretAccessKey = "upload.secret-access-key"
	KeyUploadSessionToken    = "upload.session-token"
	KeyUploadProfile         = "upload.profile"
	KeyUploadRoleARN         = "upload.role-arn"
	KeyUploadCredentialsFile = "upload.credentials-file"
)

type Upload struct {
	Backend         string `mapstructure:"backend"`
	Endpoint        string `mapstructure:"endpoint"`
	Pin             bool   `mapstructure:"pin"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	BasePath        string `mapstructure:"base-path"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	AccessKeyID     string `mapstructure:"access-key-id"`
	SecretAccessKey string `mapstructure:"secret-access-key"`
	SessionToken    string `mapstructure:"session-token"`
	Profile         string `mapstructure:"profile"`
	RoleARN         string `mapstructure:"role-arn"`
	CredentialsFile string `mapstructure:"credentials-file"`
}

type Config struct {
	RPCURL       string `mapstructure:"rpc-url"`
	PrivateKey   string `mapstructure:"private-key"`
	ChainID      uint64 `mapstructure:"chain-id"`
	RegistryFile string `mapstructure:"registry-file"`
	ArtifactsDir string `mapstructure:"artifacts-dir"`
	Upload       Upload `mapstructure:"upload"`
}

// New returns a viper instance reading cfgFile, or config.yaml under
// baseDir when cfgFile is empty, with ASSETFACTORY_ env overrides.
// Priority: flags > env vars > config file > defaults
func New(cfgFile, baseDir string) *viper.Viper {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(baseDir)
		v.SetConfigName(constants.ConfigFileName)
		v.SetConfigType(constants.ConfigFileType)
	}
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers every key so env vars resolve during Unmarshal.
func SetDefaults(v *viper.Viper) {
	defaults := contentstore.DefaultOptions()
	v.SetDefault(KeyRPCURL, "")
	v.SetDefault(KeyPrivateKey, "")
	v.SetDefault(KeyChainID, constants.DefaultChainID)
	v.SetDefault(KeyRegistryFile, "")
	v.SetDefault(KeyArtifactsDir, "")
	v.SetDefault(KeyUploadBackend, string(defaults.Backend))
	v.SetDefault(KeyUploadEndpoint, defaults.Endpoint)
	v.SetDefault(KeyUploadPin, defaults.Pin)
	for _, key := range []string{
		KeyUploadBucket,
		KeyUploadRegion,
		KeyUploadBasePath,
		KeyUploadUsername,
		KeyUploadPassword,
		KeyUploadAccessKeyID,
		KeyUploadSecretAccessKey,
		KeyUploadSessionToken,
		KeyUploadProfile,
		KeyUploadRoleARN,
		KeyUploadCredentialsFile,
	} {
		v.SetDefault(key, "")
	}
}

// Load reads the config file if there is one and decodes all sources.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit --config that does not exist is an error, a missing
		// default file is not
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Upload.BasePath != "" {
		cfg.Upload.BasePath = filepath.Clean(cfg.Upload.BasePath)
	}
	return cfg, nil
}

// UploadOptions converts the upload section.
func (c *Config) UploadOptions() contentstore.Options {
	u := c.Upload
	return contentstore.Options{
		Backend:  contentstore.Backend(u.Backend),
		Endpoint: u.Endpoint,
		Pin:      u.Pin,
		Bucket:   u.Bucket,
		Region:   u.Region,
		BasePath: u.BasePath,
		Credentials: contentstore.Credentials{
			Username:        u.Username,
			Password:        u.Password,
			AccessKeyID:     u.AccessKeyID,
			SecretAccessKey: u.SecretAccessKey,
			SessionToken:    u.SessionToken,
			Profile:         u.Profile,
			RoleARN:         u.RoleARN,
			CredentialsFile: u.CredentialsFile,
		},
	}
}
