// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Metadata files describe media either by a path, relative to the file, or
// by an already published url.
type fileImage struct {
	Path   string `yaml:"path"`
	URL    string `yaml:"url"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Hash   string `yaml:"hash"`
}

type fileAsset struct {
	Path     string `yaml:"path"`
	URL      string `yaml:"url"`
	FileType string `yaml:"fileType"`
	Hash     string `yaml:"hash"`
}

type fileLink struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

type profileFile struct {
	Name            string      `yaml:"name"`
	Description     string      `yaml:"description"`
	Links           []fileLink  `yaml:"links"`
	Tags            []string    `yaml:"tags"`
	ProfileImage    []fileImage `yaml:"profileImage"`
	BackgroundImage []fileImage `yaml:"backgroundImage"`
}

type digitalAssetFile struct {
	Description string      `yaml:"description"`
	Links       []fileLink  `yaml:"links"`
	Icon        []fileImage `yaml:"icon"`
	Images      []fileImage `yaml:"images"`
	Assets      []fileAsset `yaml:"assets"`
}

// LoadProfileFile reads a YAML (or JSON) profile description.
func LoadProfileFile(path string) (*Profile, error) {
	var f profileFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	p := &Profile{
		Name:        f.Name,
		Description: f.Description,
		Links:       links(f.Links),
		Tags:        f.Tags,
	}
	var err error
	if p.ProfileImage, err = images(dir, f.ProfileImage); err != nil {
		return nil, err
	}
	if p.BackgroundImage, err = images(dir, f.BackgroundImage); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadDigitalAssetFile reads a YAML (or JSON) digital asset description.
func LoadDigitalAssetFile(path string) (*DigitalAsset, error) {
	var f digitalAssetFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	a := &DigitalAsset{
		Description: f.Description,
		Links:       links(f.Links),
	}
	var err error
	if a.Icon, err = images(dir, f.Icon); err != nil {
		return nil, err
	}
	if a.Images, err = images(dir, f.Images); err != nil {
		return nil, err
	}
	for _, fa := range f.Assets {
		in := AssetInput{URL: fa.URL, FileType: fa.FileType, Hash: fa.Hash}
		if fa.Path != "" {
			if in.Data, err = os.ReadFile(filepath.Join(dir, fa.Path)); err != nil {
				return nil, err
			}
		}
		a.Assets = append(a.Assets, in)
	}
	return a, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidMetadata, path, err)
	}
	return nil
}

func links(in []fileLink) []Link {
	out := make([]Link, 0, len(in))
	for _, l := range in {
		out = append(out, Link{Title: l.Title, URL: l.URL})
	}
	return out
}

func images(dir string, in []fileImage) ([]ImageInput, error) {
	var out []ImageInput
	for _, fi := range in {
		img := ImageInput{URL: fi.URL, Width: fi.Width, Height: fi.Height, Hash: fi.Hash}
		if fi.Path != "" {
			data, err := os.ReadFile(filepath.Join(dir, fi.Path))
			if err != nil {
				return nil, err
			}
			img.Data = data
		}
		out = append(out, img)
	}
	return out, nil
}
