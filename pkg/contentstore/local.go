// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contentstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/luxfi/assetfactory/pkg/constants"
)

// putLocal writes data below opts.BasePath, named by its content key.
func putLocal(data []byte, opts Options) (Locator, error) {
	if opts.BasePath == "" {
		return Locator{}, fmt.Errorf("local base path is required")
	}
	if err := os.MkdirAll(opts.BasePath, constants.DefaultPerms755); err != nil {
		return Locator{}, fmt.Errorf("failed to create base path: %w", err)
	}
	path, err := filepath.Abs(filepath.Join(opts.BasePath, ContentKey(data)))
	if err != nil {
		return Locator{}, err
	}
	if err := os.WriteFile(path, data, constants.WriteReadReadPerms); err != nil {
		return Locator{}, fmt.Errorf("failed to create file: %w", err)
	}
	return Locator{Scheme: "file", Address: filepath.ToSlash(path)}, nil
}
