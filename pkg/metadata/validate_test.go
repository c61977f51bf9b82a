// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     interface{ Validate() error }
		wantErr bool
	}{
		{name: "profile", doc: &Profile{Name: "alice", ProfileImage: []ImageInput{{URL: "ipfs://a"}}}},
		{name: "profile without name", doc: &Profile{}, wantErr: true},
		{name: "nil profile", doc: (*Profile)(nil), wantErr: true},
		{name: "empty background image", doc: &Profile{Name: "alice", BackgroundImage: []ImageInput{{Width: 1}}}, wantErr: true},
		{name: "asset", doc: &DigitalAsset{Icon: []ImageInput{{Data: []byte{1}}}, Assets: []AssetInput{{URL: "ipfs://f"}}}},
		{name: "nil asset", doc: (*DigitalAsset)(nil), wantErr: true},
		{name: "empty icon", doc: &DigitalAsset{Icon: []ImageInput{{}}}, wantErr: true},
		{name: "empty image", doc: &DigitalAsset{Images: []ImageInput{{Hash: "0x01"}}}, wantErr: true},
		{name: "empty file", doc: &DigitalAsset{Assets: []AssetInput{{FileType: "pdf"}}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidMetadata)
				return
			}
			require.NoError(t, err)
		})
	}
}
