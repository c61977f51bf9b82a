// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contentstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/luxfi/assetfactory/pkg/constants"
	"google.golang.org/api/option"
)

// gcsStore uploads to Google Cloud Storage.
type gcsStore struct {
	client *storage.Client
}

func newGCSStore(ctx context.Context, opts Options) (*gcsStore, error) {
	var clientOpts []option.ClientOption

	if opts.Credentials.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.Credentials.CredentialsFile))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &gcsStore{client: client}, nil
}

func (g *gcsStore) put(ctx context.Context, data []byte, opts Options) (Locator, error) {
	if opts.Bucket == "" {
		return Locator{}, ErrMissingBucket
	}
	key := ContentKey(data)
	w := g.client.Bucket(opts.Bucket).Object(key).NewWriter(ctx)
	w.ContentType = opts.ContentType
	if w.ContentType == "" {
		w.ContentType = http.DetectContentType(data)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		w.Close()
		return Locator{}, err
	}
	if err := w.Close(); err != nil {
		return Locator{}, err
	}
	return Locator{Scheme: constants.GCSScheme, Address: opts.Bucket + "/" + key}, nil
}

func (g *gcsStore) close() error {
	return g.client.Close()
}
