// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

func TestMinimalProxyRoundTrip(t *testing.T) {
	require := require.New(t)
	impl := common.HexToAddress("0xbebebebebebebebebebebebebebebebebebebebe")

	code := MinimalProxyInitCode(impl)
	require.Len(code, 55)
	got, ok := ProxyImplementation(code)
	require.True(ok)
	require.Equal(impl, got)

	// runtime code alone
	got, ok = ProxyImplementation(code[10:])
	require.True(ok)
	require.Equal(impl, got)

	_, ok = ProxyImplementation(append(code, 0x00))
	require.False(ok)
	_, ok = ProxyImplementation([]byte{0xfe, 0x01})
	require.False(ok)
}

func TestNewArtifactsHasEveryKind(t *testing.T) {
	arts, err := NewArtifacts()
	require.NoError(t, err)
	for _, kind := range Kinds {
		art, err := arts.Get(kind)
		require.NoError(t, err)
		require.Empty(t, art.Bytecode)
		require.Contains(t, art.ABI.Methods, "supportsInterface")
	}
	_, err = arts.Get("Unknown")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestCreationCodeAppendsConstructorArgs(t *testing.T) {
	require := require.New(t)
	arts, err := NewArtifacts()
	require.NoError(err)
	art := arts.MustGet(LSP7Mintable)
	owner := common.HexToAddress("0x0000000000000000000000000000000000000a11")

	_, err = art.CreationCode(nil, "Token", "TKN", owner, false)
	require.ErrorIs(err, ErrNoBytecode)

	code, err := art.CreationCode([]byte{0x60, 0x80}, "Token", "TKN", owner, true)
	require.NoError(err)
	require.Equal([]byte{0x60, 0x80}, code[:2])
	args, err := art.ABI.Constructor.Inputs.Unpack(code[2:])
	require.NoError(err)
	require.Equal([]any{"Token", "TKN", owner, true}, args)
}

func TestPackSetDataRejectsMismatchedLengths(t *testing.T) {
	arts, err := NewArtifacts()
	require.NoError(t, err)
	art := arts.MustGet(UniversalProfile)

	_, err = art.PackSetData([]common.Hash{{1}}, nil)
	require.Error(t, err)

	data, err := art.PackSetData([]common.Hash{{1}}, [][]byte{{2}})
	require.NoError(t, err)
	require.Equal(t, art.ABI.Methods["setData"].ID, data[:4])
}

func TestPackExecuteDefaultsValue(t *testing.T) {
	arts, err := NewArtifacts()
	require.NoError(t, err)
	art := arts.MustGet(UniversalProfile)
	to := common.HexToAddress("0x00000000000000000000000000000000000000b0")

	data, err := art.PackExecute(0, to, nil, []byte{1})
	require.NoError(t, err)
	args, err := art.ABI.Methods["execute"].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Equal(t, to, args[1])
	require.Zero(t, args[2].(*big.Int).Sign())
}

func TestLoadDirReadsHardhatArtifacts(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(dir, "LSP8Mintable.json"),
		[]byte(`{"contractName":"LSP8Mintable","bytecode":"0x6001"}`), 0o600))
	require.NoError(os.WriteFile(filepath.Join(dir, "LSP8MintableInit.json"),
		[]byte(`{"contractName":"LSP8MintableInit","bytecode":"0x6002"}`), 0o600))

	arts, err := LoadDir(dir)
	require.NoError(err)
	art := arts.MustGet(LSP8Mintable)
	require.Equal([]byte{0x60, 0x01}, art.Bytecode)
	require.Equal([]byte{0x60, 0x02}, art.BaseBytecode)
	require.Empty(arts.MustGet(LSP7Mintable).Bytecode)

	require.NoError(os.WriteFile(filepath.Join(dir, "KeyManager.json"), []byte(`{`), 0o600))
	_, err = LoadDir(dir)
	require.Error(err)
}

func TestWithBytecodeKeepsOriginal(t *testing.T) {
	arts, err := NewArtifacts()
	require.NoError(t, err)
	updated := arts.WithBytecode(KeyManager, []byte{1}, nil)

	require.Equal(t, []byte{1}, updated.MustGet(KeyManager).Bytecode)
	require.Empty(t, arts.MustGet(KeyManager).Bytecode)
}

func TestGetSmartContractCallResult(t *testing.T) {
	_, err := GetSmartContractCallResult[bool]("f", nil)
	require.ErrorContains(t, err, "no return value")
	_, err = GetSmartContractCallResult[bool]("f", []any{true, false})
	require.ErrorContains(t, err, "expected 1 return value")
	_, err = GetSmartContractCallResult[bool]("f", []any{"x"})
	require.ErrorContains(t, err, "return type")
	v, err := GetSmartContractCallResult[bool]("f", []any{true})
	require.NoError(t, err)
	require.True(t, v)
}
