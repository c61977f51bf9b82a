// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package metadata

import "fmt"

// Validate reports what would make UploadProfile fail before anything is
// uploaded.
func (p *Profile) Validate() error {
	if p == nil || p.Name == "" {
		return fmt.Errorf("%w: profile name is required", ErrInvalidMetadata)
	}
	if err := validateImages("profile image", p.ProfileImage); err != nil {
		return err
	}
	return validateImages("background image", p.BackgroundImage)
}

// Validate reports what would make UploadDigitalAsset fail before anything
// is uploaded.
func (a *DigitalAsset) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: no digital asset metadata", ErrInvalidMetadata)
	}
	if err := validateImages("icon", a.Icon); err != nil {
		return err
	}
	if err := validateImages("image", a.Images); err != nil {
		return err
	}
	for i, in := range a.Assets {
		if len(in.Data) == 0 && in.URL == "" {
			return fmt.Errorf("%w: asset %d needs data or url", ErrInvalidMetadata, i)
		}
	}
	return nil
}

func validateImages(what string, images []ImageInput) error {
	for i, in := range images {
		if len(in.Data) == 0 && in.URL == "" {
			return fmt.Errorf("%w: %s %d needs data or url", ErrInvalidMetadata, what, i)
		}
	}
	return nil
}
