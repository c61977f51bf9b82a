// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry holds the published library contracts per chain, kind
// and version. The embedded table ships with the binary; operators can
// layer their own file on top of it.
package registry

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/geth/common"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

//go:embed versions.json
var embeddedVersions []byte

// Entry is what the registry knows about one library version.
type Entry struct {
	Version  string
	Address  *common.Address
	Bytecode []byte
}

// Listing is one row of Entries.
type Listing struct {
	ChainID     uint64
	Kind        contract.Kind
	Version     string
	Default     bool
	Address     *common.Address
	HasBytecode bool
}

// The file maps chain ids to contracts, each listing a library address per
// version. JSON files parse as well since YAML is a superset.
type fileKind struct {
	Default  string            `yaml:"default"`
	Bytecode string            `yaml:"bytecode"`
	Versions map[string]string `yaml:"versions"`
}

type fileChain struct {
	Contracts map[string]fileKind `yaml:"contracts"`
}

type kindEntries struct {
	defaultVersion string
	bytecode       []byte
	versions       map[string]*common.Address
}

// Registry is immutable after construction.
type Registry struct {
	chains map[uint64]map[contract.Kind]*kindEntries
}

// Default returns the registry embedded in the binary.
func Default() *Registry {
	r, err := Parse(embeddedVersions)
	if err != nil {
		panic(fmt.Sprintf("embedded registry is invalid: %v", err))
	}
	return r
}

// Empty returns a registry without entries.
func Empty() *Registry {
	return &Registry{chains: map[uint64]map[contract.Kind]*kindEntries{}}
}

// Parse reads a registry document.
func Parse(data []byte) (*Registry, error) {
	var doc map[string]fileChain
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding registry: %w", err)
	}
	r := Empty()
	for chainKey, chain := range doc {
		chainID, err := strconv.ParseUint(chainKey, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain id %q: %w", chainKey, err)
		}
		kinds := make(map[contract.Kind]*kindEntries, len(chain.Contracts))
		for kindKey, fk := range chain.Contracts {
			kind := contract.Kind(kindKey)
			if !isKnownKind(kind) {
				return nil, fmt.Errorf("chain %d: %w: %s", chainID, contract.ErrUnknownKind, kindKey)
			}
			entries := &kindEntries{
				defaultVersion: normalize(fk.Default),
				versions:       make(map[string]*common.Address, len(fk.Versions)),
			}
			if fk.Bytecode != "" {
				entries.bytecode = common.FromHex(fk.Bytecode)
			}
			for version, addr := range fk.Versions {
				if !semver.IsValid(canonical(version)) {
					return nil, fmt.Errorf("chain %d %s: invalid version %q", chainID, kind, version)
				}
				var address *common.Address
				if addr != "" {
					if !common.IsHexAddress(addr) {
						return nil, fmt.Errorf("chain %d %s %s: invalid address %q", chainID, kind, version, addr)
					}
					a := common.HexToAddress(addr)
					address = &a
				}
				entries.versions[normalize(version)] = address
			}
			kinds[kind] = entries
		}
		r.chains[chainID] = kinds
	}
	return r, nil
}

// LoadFile reads a registry document from path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry file: %w", err)
	}
	return Parse(data)
}

// Lookup returns the entry for version of kind on chainID. An empty
// version selects the default version.
func (r *Registry) Lookup(chainID uint64, kind contract.Kind, version string) (Entry, bool) {
	entries := r.entries(chainID, kind)
	if entries == nil {
		return Entry{}, false
	}
	if version == "" {
		v, ok := r.DefaultVersion(chainID, kind)
		if !ok {
			if entries.bytecode == nil {
				return Entry{}, false
			}
			return Entry{Bytecode: entries.bytecode}, true
		}
		version = v
	}
	version = normalize(version)
	addr, known := entries.versions[version]
	if !known && entries.bytecode == nil {
		return Entry{}, false
	}
	return Entry{Version: version, Address: addr, Bytecode: entries.bytecode}, true
}

// DefaultVersion is the declared default of kind on chainID, or the highest
// listed version.
func (r *Registry) DefaultVersion(chainID uint64, kind contract.Kind) (string, bool) {
	entries := r.entries(chainID, kind)
	if entries == nil {
		return "", false
	}
	if entries.defaultVersion != "" {
		return entries.defaultVersion, true
	}
	best := ""
	for v := range entries.versions {
		if best == "" || semver.Compare(canonical(v), canonical(best)) > 0 {
			best = v
		}
	}
	return best, best != ""
}

// Merge returns a registry holding r overlaid with other. Entries of other
// win.
func (r *Registry) Merge(other *Registry) *Registry {
	out := Empty()
	for _, src := range []*Registry{r, other} {
		if src == nil {
			continue
		}
		for chainID, kinds := range src.chains {
			dst, ok := out.chains[chainID]
			if !ok {
				dst = make(map[contract.Kind]*kindEntries)
				out.chains[chainID] = dst
			}
			for kind, e := range kinds {
				merged, ok := dst[kind]
				if !ok {
					merged = &kindEntries{versions: make(map[string]*common.Address)}
					dst[kind] = merged
				}
				if e.defaultVersion != "" {
					merged.defaultVersion = e.defaultVersion
				}
				if e.bytecode != nil {
					merged.bytecode = e.bytecode
				}
				for v, addr := range e.versions {
					merged.versions[v] = addr
				}
			}
		}
	}
	return out
}

// Entries lists every known version sorted by chain, kind and version.
func (r *Registry) Entries() []Listing {
	var out []Listing
	for chainID, kinds := range r.chains {
		for kind, e := range kinds {
			def, _ := r.DefaultVersion(chainID, kind)
			for v, addr := range e.versions {
				out = append(out, Listing{
					ChainID:     chainID,
					Kind:        kind,
					Version:     v,
					Default:     v == def,
					Address:     addr,
					HasBytecode: e.bytecode != nil,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ChainID != b.ChainID {
			return a.ChainID < b.ChainID
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return semver.Compare(canonical(a.Version), canonical(b.Version)) < 0
	})
	return out
}

func (r *Registry) entries(chainID uint64, kind contract.Kind) *kindEntries {
	if r == nil {
		return nil
	}
	return r.chains[chainID][kind]
}

func isKnownKind(kind contract.Kind) bool {
	for _, k := range contract.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func normalize(version string) string {
	return strings.TrimPrefix(strings.TrimSpace(version), "v")
}

func canonical(version string) string {
	return "v" + normalize(version)
}
