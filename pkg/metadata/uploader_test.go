// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/luxfi/assetfactory/internal/mocks"
	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/contentstore"
	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func isJSON(data []byte) bool {
	return json.Valid(data) && bytes.HasPrefix(data, []byte("{"))
}

func TestEncodeJSONURL(t *testing.T) {
	require := require.New(t)

	doc := []byte(`{"LSP3Profile":{"name":"alice"}}`)
	enc, err := FromURL(doc, "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG")
	require.NoError(err)
	require.Equal(common.Hash(crypto.Keccak256Hash(doc)), enc.Hash)
	require.Equal(constants.HashFunctionKeccak256UTF8[:], enc.Value[:4])
	require.Equal(enc.Hash.Bytes(), enc.Value[4:36])
	require.Equal(enc.URL, string(enc.Value[36:]))

	hash, url, err := DecodeJSONURL(enc.Value)
	require.NoError(err)
	require.Equal(enc.Hash, hash)
	require.Equal(enc.URL, url)

	_, _, err = DecodeJSONURL([]byte{0x01})
	require.ErrorIs(err, ErrInvalidMetadata)
	_, err = FromURL(doc, "")
	require.ErrorIs(err, ErrInvalidMetadata)
}

func TestUploadProfile(t *testing.T) {
	require := require.New(t)

	img := pngBytes(t, 64, 32)
	store := &mocks.Store{}
	opts := contentstore.Options{Backend: contentstore.BackendIPFS, Endpoint: "http://ipfs.local"}
	store.On("Upload", mock.Anything, img, opts).
		Return(contentstore.Locator{Scheme: "ipfs", Address: "image"}, nil).Once()
	store.On("Upload", mock.Anything, mock.MatchedBy(isJSON), mock.Anything).
		Return(contentstore.Locator{Scheme: "ipfs", Address: "profile"}, nil).Once()

	u := NewUploader(store, opts, nil)
	enc, err := u.UploadProfile(context.Background(), &Profile{
		Name:         "alice",
		Description:  "hello",
		Tags:         []string{"public"},
		ProfileImage: []ImageInput{{Data: img}},
		BackgroundImage: []ImageInput{{
			URL:    "ipfs://background",
			Width:  10,
			Height: 20,
			Hash:   "0x01",
		}},
	}, nil)
	require.NoError(err)
	require.Equal("ipfs://profile", enc.URL)
	store.AssertExpectations(t)

	var doc lsp3Document
	require.NoError(json.Unmarshal(enc.JSON, &doc))
	require.Equal("alice", doc.LSP3Profile.Name)
	require.Equal([]Link{}, doc.LSP3Profile.Links)
	require.Equal(Image{
		Width:        64,
		Height:       32,
		HashFunction: constants.HashFunctionNameBytes,
		Hash:         crypto.Keccak256Hash(img).Hex(),
		URL:          "ipfs://image",
	}, doc.LSP3Profile.ProfileImage[0])
	require.Equal("ipfs://background", doc.LSP3Profile.BackgroundImage[0].URL)
	require.Equal(20, doc.LSP3Profile.BackgroundImage[0].Height)
}

func TestUploadProfileRequiresName(t *testing.T) {
	u := NewUploader(&mocks.Store{}, contentstore.DefaultOptions(), nil)
	_, err := u.UploadProfile(context.Background(), &Profile{}, nil)
	require.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestUploadDigitalAsset(t *testing.T) {
	require := require.New(t)

	icon := pngBytes(t, 256, 256)
	first := pngBytes(t, 10, 10)
	second := pngBytes(t, 20, 10)
	file := []byte("%PDF-1.4")

	store := &mocks.Store{}
	override := contentstore.Options{Backend: contentstore.BackendLocal, BasePath: "/tmp/x"}
	for data, addr := range map[string]string{
		string(icon):   "icon",
		string(first):  "first",
		string(second): "second",
		string(file):   "file",
	} {
		store.On("Upload", mock.Anything, []byte(data), override).
			Return(contentstore.Locator{Scheme: "file", Address: "/" + addr}, nil).Once()
	}
	store.On("Upload", mock.Anything, mock.MatchedBy(isJSON), mock.Anything).
		Return(contentstore.Locator{Scheme: "file", Address: "/doc"}, nil).Once()

	u := NewUploader(store, contentstore.DefaultOptions(), nil)
	enc, err := u.UploadDigitalAsset(context.Background(), &DigitalAsset{
		Description: "a token",
		Icon:        []ImageInput{{Data: icon}},
		Images:      []ImageInput{{Data: first}, {Data: second}},
		Assets:      []AssetInput{{Data: file, FileType: "pdf"}},
	}, &override)
	require.NoError(err)
	require.Equal("file:///doc", enc.URL)
	store.AssertExpectations(t)

	var doc lsp4Document
	require.NoError(json.Unmarshal(enc.JSON, &doc))
	md := doc.LSP4Metadata
	require.Equal("file:///icon", md.Icon[0].URL)
	require.Len(md.Images, 2)
	require.Equal("file:///first", md.Images[0][0].URL)
	require.Equal("file:///second", md.Images[1][0].URL)
	require.Equal(20, md.Images[1][0].Width)
	require.Equal("pdf", md.Assets[0].FileType)
	require.Equal(crypto.Keccak256Hash(file).Hex(), md.Assets[0].Hash)
}

func TestUploadDigitalAssetFailure(t *testing.T) {
	require := require.New(t)

	boom := errors.New("gateway down")
	store := &mocks.Store{}
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return(contentstore.Locator{}, boom)

	u := NewUploader(store, contentstore.DefaultOptions(), nil)
	_, err := u.UploadDigitalAsset(context.Background(), &DigitalAsset{
		Icon: []ImageInput{{Data: pngBytes(t, 4, 4)}},
	}, nil)
	require.ErrorIs(err, boom)

	_, err = u.UploadDigitalAsset(context.Background(), &DigitalAsset{
		Images: []ImageInput{{Data: []byte("not an image")}},
	}, nil)
	require.ErrorIs(err, ErrInvalidMetadata)
}
