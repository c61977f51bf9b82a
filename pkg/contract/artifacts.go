// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/common"
)

//go:embed abi/*.json
var abiFS embed.FS

// Kind names a deployable contract family. Registry entries and artifact
// files are keyed by it.
type Kind string

const (
	UniversalProfile Kind = "UniversalProfile"
	KeyManager       Kind = "KeyManager"
	LSP7Mintable     Kind = "LSP7Mintable"
	LSP8Mintable     Kind = "LSP8Mintable"
)

// Kinds lists every contract family the factory can deploy.
var Kinds = []Kind{UniversalProfile, KeyManager, LSP7Mintable, LSP8Mintable}

var ErrUnknownKind = errors.New("unknown contract kind")

var erc165ABI = mustParseEmbedded("ERC165")

// ERC165 returns the ABI holding supportsInterface(bytes4).
func ERC165() abi.ABI {
	return erc165ABI
}

// Artifact is the ABI of a contract family plus whatever creation code is
// known for it.
type Artifact struct {
	Kind Kind
	ABI  abi.ABI
	// Bytecode is the creation code of the standalone contract.
	Bytecode []byte
	// BaseBytecode is the creation code of the library variant proxies
	// delegate to.
	BaseBytecode []byte
}

// Artifacts is an immutable set of artifacts, one per Kind.
type Artifacts struct {
	byKind map[Kind]*Artifact
}

type hardhatArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// NewArtifacts returns the embedded ABIs without any bytecode.
func NewArtifacts() (*Artifacts, error) {
	set := &Artifacts{byKind: make(map[Kind]*Artifact, len(Kinds))}
	for _, kind := range Kinds {
		raw, err := abiFS.ReadFile("abi/" + string(kind) + ".json")
		if err != nil {
			return nil, fmt.Errorf("reading embedded ABI for %s: %w", kind, err)
		}
		parsed, err := abi.JSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parsing embedded ABI for %s: %w", kind, err)
		}
		set.byKind[kind] = &Artifact{Kind: kind, ABI: parsed}
	}
	return set, nil
}

// LoadDir reads hardhat style artifacts from dir. <Kind>.json provides the
// standalone bytecode, <Kind>Init.json the library bytecode. Missing files
// are skipped.
func LoadDir(dir string) (*Artifacts, error) {
	set, err := NewArtifacts()
	if err != nil {
		return nil, err
	}
	for _, kind := range Kinds {
		standalone, err := readHardhat(filepath.Join(dir, string(kind)+".json"))
		if err != nil {
			return nil, err
		}
		base, err := readHardhat(filepath.Join(dir, string(kind)+"Init.json"))
		if err != nil {
			return nil, err
		}
		art := *set.byKind[kind]
		if standalone != nil {
			if len(standalone.ABI) > 0 {
				parsed, err := abi.JSON(bytes.NewReader(standalone.ABI))
				if err != nil {
					return nil, fmt.Errorf("parsing ABI of %s: %w", kind, err)
				}
				art.ABI = parsed
			}
			art.Bytecode = common.FromHex(standalone.Bytecode)
		}
		if base != nil {
			art.BaseBytecode = common.FromHex(base.Bytecode)
		}
		set.byKind[kind] = &art
	}
	return set, nil
}

func readHardhat(path string) (*hardhatArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var art hardhatArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("decoding artifact %s: %w", path, err)
	}
	return &art, nil
}

// Get returns the artifact of kind.
func (a *Artifacts) Get(kind Kind) (*Artifact, error) {
	art, ok := a.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return art, nil
}

// MustGet is Get for kinds known to be present.
func (a *Artifacts) MustGet(kind Kind) *Artifact {
	art, err := a.Get(kind)
	if err != nil {
		panic(err)
	}
	return art
}

// WithBytecode returns a copy of the set where kind carries the given
// creation codes. Nil arguments keep the current value.
func (a *Artifacts) WithBytecode(kind Kind, bytecode, baseBytecode []byte) *Artifacts {
	out := &Artifacts{byKind: make(map[Kind]*Artifact, len(a.byKind))}
	for k, v := range a.byKind {
		out.byKind[k] = v
	}
	if cur, ok := a.byKind[kind]; ok {
		art := *cur
		if bytecode != nil {
			art.Bytecode = bytecode
		}
		if baseBytecode != nil {
			art.BaseBytecode = baseBytecode
		}
		out.byKind[kind] = &art
	}
	return out
}

func mustParseEmbedded(name string) abi.ABI {
	raw, err := abiFS.ReadFile("abi/" + name + ".json")
	if err != nil {
		panic(err)
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
