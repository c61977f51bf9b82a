// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/contentstore"
	"github.com/luxfi/crypto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const defaultUploadConcurrency = 4

// Uploader publishes metadata documents and their media.
type Uploader struct {
	store       contentstore.Store
	opts        contentstore.Options
	concurrency int64
	log         *zap.Logger
}

func NewUploader(store contentstore.Store, opts contentstore.Options, log *zap.Logger) *Uploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Uploader{
		store:       store,
		opts:        opts,
		concurrency: defaultUploadConcurrency,
		log:         log,
	}
}

func (u *Uploader) options(override *contentstore.Options) contentstore.Options {
	if override != nil {
		return *override
	}
	return u.opts
}

// UploadProfile uploads the profile images, then the LSP3 document.
func (u *Uploader) UploadProfile(ctx context.Context, p *Profile, override *contentstore.Options) (*Encoded, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	opts := u.options(override)

	doc := lsp3Document{LSP3Profile: LSP3Profile{
		Name:            p.Name,
		Description:     p.Description,
		Links:           nonNil(p.Links),
		Tags:            nonNil(p.Tags),
		ProfileImage:    make([]Image, len(p.ProfileImage)),
		BackgroundImage: make([]Image, len(p.BackgroundImage)),
	}}

	eg, egCtx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(u.concurrency)
	u.uploadImages(egCtx, eg, sem, p.ProfileImage, doc.LSP3Profile.ProfileImage, opts)
	u.uploadImages(egCtx, eg, sem, p.BackgroundImage, doc.LSP3Profile.BackgroundImage, opts)
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return u.uploadDocument(ctx, doc, opts)
}

// UploadDigitalAsset uploads icon, images and assets, then the LSP4
// document.
func (u *Uploader) UploadDigitalAsset(ctx context.Context, a *DigitalAsset, override *contentstore.Options) (*Encoded, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	opts := u.options(override)

	doc := lsp4Document{LSP4Metadata: LSP4Metadata{
		Description: a.Description,
		Links:       nonNil(a.Links),
		Icon:        make([]Image, len(a.Icon)),
		Images:      make([][]Image, len(a.Images)),
		Assets:      make([]Asset, len(a.Assets)),
	}}
	for i := range doc.LSP4Metadata.Images {
		doc.LSP4Metadata.Images[i] = make([]Image, 1)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(u.concurrency)
	u.uploadImages(egCtx, eg, sem, a.Icon, doc.LSP4Metadata.Icon, opts)
	for i := range a.Images {
		u.uploadImages(egCtx, eg, sem, a.Images[i:i+1], doc.LSP4Metadata.Images[i], opts)
	}
	for i, in := range a.Assets {
		eg.Go(func() error {
			if err := sem.Acquire(egCtx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			asset, err := u.prepareAsset(egCtx, in, opts)
			if err != nil {
				return fmt.Errorf("asset %d: %w", i, err)
			}
			doc.LSP4Metadata.Assets[i] = asset
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return u.uploadDocument(ctx, doc, opts)
}

// uploadImages fills out[i] with the published form of in[i].
func (u *Uploader) uploadImages(
	ctx context.Context,
	eg *errgroup.Group,
	sem *semaphore.Weighted,
	in []ImageInput,
	out []Image,
	opts contentstore.Options,
) {
	for i, img := range in {
		eg.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			prepared, err := u.prepareImage(ctx, img, opts)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			out[i] = prepared
			return nil
		})
	}
}

func (u *Uploader) prepareImage(ctx context.Context, in ImageInput, opts contentstore.Options) (Image, error) {
	if len(in.Data) == 0 {
		if in.URL == "" {
			return Image{}, fmt.Errorf("%w: image needs data or url", ErrInvalidMetadata)
		}
		return Image{
			Width:        in.Width,
			Height:       in.Height,
			HashFunction: constants.HashFunctionNameBytes,
			Hash:         in.Hash,
			URL:          in.URL,
		}, nil
	}

	width, height := in.Width, in.Height
	if width == 0 || height == 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(in.Data))
		if err != nil {
			return Image{}, fmt.Errorf("%w: reading image dimensions: %w", ErrInvalidMetadata, err)
		}
		width, height = cfg.Width, cfg.Height
	}
	loc, err := u.store.Upload(ctx, in.Data, opts)
	if err != nil {
		return Image{}, err
	}
	return Image{
		Width:        width,
		Height:       height,
		HashFunction: constants.HashFunctionNameBytes,
		Hash:         crypto.Keccak256Hash(in.Data).Hex(),
		URL:          loc.String(),
	}, nil
}

func (u *Uploader) prepareAsset(ctx context.Context, in AssetInput, opts contentstore.Options) (Asset, error) {
	if len(in.Data) == 0 {
		if in.URL == "" {
			return Asset{}, fmt.Errorf("%w: asset needs data or url", ErrInvalidMetadata)
		}
		return Asset{
			HashFunction: constants.HashFunctionNameBytes,
			Hash:         in.Hash,
			URL:          in.URL,
			FileType:     in.FileType,
		}, nil
	}
	loc, err := u.store.Upload(ctx, in.Data, opts)
	if err != nil {
		return Asset{}, err
	}
	return Asset{
		HashFunction: constants.HashFunctionNameBytes,
		Hash:         crypto.Keccak256Hash(in.Data).Hex(),
		URL:          loc.String(),
		FileType:     in.FileType,
	}, nil
}

func (u *Uploader) uploadDocument(ctx context.Context, doc any, opts contentstore.Options) (*Encoded, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	docOpts := opts
	docOpts.ContentType = "application/json"
	loc, err := u.store.Upload(ctx, raw, docOpts)
	if err != nil {
		return nil, err
	}
	u.log.Debug("metadata uploaded", zap.Stringer("locator", loc))
	return FromURL(raw, loc.String())
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
