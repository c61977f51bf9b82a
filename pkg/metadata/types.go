// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metadata builds LSP3 profile and LSP4 digital asset documents,
// uploads them with their media and encodes the JSONURL value stored on
// chain.
package metadata

import (
	"errors"

	"github.com/luxfi/geth/common"
)

var ErrInvalidMetadata = errors.New("invalid metadata")

type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ImageInput is an image to publish. Either Data is set and the image is
// uploaded, or URL points at an already published image described by
// Width, Height and Hash.
type ImageInput struct {
	Data   []byte
	URL    string
	Width  int
	Height int
	Hash   string
}

// AssetInput is a file attached to a digital asset.
type AssetInput struct {
	Data     []byte
	FileType string
	URL      string
	Hash     string
}

// Image is the on-document description of a published image.
type Image struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	HashFunction string `json:"hashFunction"`
	Hash         string `json:"hash"`
	URL          string `json:"url"`
}

type Asset struct {
	HashFunction string `json:"hashFunction"`
	Hash         string `json:"hash"`
	URL          string `json:"url"`
	FileType     string `json:"fileType"`
}

// Profile is LSP3 profile metadata before upload.
type Profile struct {
	Name            string
	Description     string
	Links           []Link
	Tags            []string
	ProfileImage    []ImageInput
	BackgroundImage []ImageInput
}

// DigitalAsset is LSP4 metadata before upload.
type DigitalAsset struct {
	Description string
	Links       []Link
	Icon        []ImageInput
	Images      []ImageInput
	Assets      []AssetInput
}

// LSP3Profile is the published profile document.
type LSP3Profile struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Links           []Link   `json:"links"`
	Tags            []string `json:"tags"`
	ProfileImage    []Image  `json:"profileImage"`
	BackgroundImage []Image  `json:"backgroundImage"`
}

// LSP4Metadata is the published digital asset document. Every entry of
// Images lists the sizes of one image.
type LSP4Metadata struct {
	Description string    `json:"description"`
	Links       []Link    `json:"links"`
	Icon        []Image   `json:"icon"`
	Images      [][]Image `json:"images"`
	Assets      []Asset   `json:"assets"`
}

type lsp3Document struct {
	LSP3Profile LSP3Profile `json:"LSP3Profile"`
}

type lsp4Document struct {
	LSP4Metadata LSP4Metadata `json:"LSP4Metadata"`
}

// Encoded is an uploaded document ready to be stored on chain.
type Encoded struct {
	JSON []byte
	Hash common.Hash
	URL  string
	// Value is the JSONURL encoding of Hash and URL.
	Value []byte
}
