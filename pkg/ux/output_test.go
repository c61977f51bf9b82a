// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ux

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/assetfactory/pkg/registry"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	luxlog "github.com/luxfi/log"
	"github.com/stretchr/testify/require"
)

func TestConvertToStringWithThousandSeparator(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{21000, "21_000"},
		{1234567, "1_234_567"},
	}
	for _, tt := range tests {
		if got := ConvertToStringWithThousandSeparator(tt.in); got != tt.want {
			t.Errorf("ConvertToStringWithThousandSeparator(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrintEvent(t *testing.T) {
	var buf bytes.Buffer
	ul := &UserLog{log: luxlog.NewNoOpLogger(), writer: &buf}
	addr := common.HexToAddress("0x00000000000000000000000000000000000000a1")

	ul.PrintEvent(deployment.Event{
		Type:         deployment.ContractEvent,
		Status:       deployment.StatusComplete,
		ContractName: "ERC725Account",
		Receipt:      &types.Receipt{ContractAddress: addr},
	})
	ul.PrintEvent(deployment.Event{
		Type:         deployment.TransactionEvent,
		Status:       deployment.StatusError,
		ContractName: "ERC725Account",
		FunctionName: "setData",
		Error:        errors.New("reverted"),
	})

	out := buf.String()
	require.Contains(t, out, "✓ COMPLETE")
	require.Contains(t, out, addr.Hex())
	require.Contains(t, out, "✗ ERROR")
	require.Contains(t, out, "ERC725Account.setData: reverted")
}

func TestPrintDeployedContracts(t *testing.T) {
	var buf bytes.Buffer
	addr := common.HexToAddress("0x00000000000000000000000000000000000000b2")
	PrintDeployedContracts(&buf, deployment.DeployedContracts{
		"LSP7DigitalAsset": {
			Address: addr,
			Receipt: &types.Receipt{BlockNumber: big.NewInt(12), GasUsed: 123456},
		},
	})
	out := buf.String()
	require.Contains(t, out, "LSP7DigitalAsset")
	require.Contains(t, out, addr.Hex())
	require.Contains(t, out, "123_456")
}

func TestPrintRegistry(t *testing.T) {
	var buf bytes.Buffer
	addr := common.HexToAddress("0x00000000000000000000000000000000000000c3")
	PrintRegistry(&buf, []registry.Listing{
		{ChainID: 22, Kind: contract.KeyManager, Version: "0.5.0", Default: true, Address: &addr},
		{ChainID: 22, Kind: contract.KeyManager, Version: "0.4.0"},
	})
	out := buf.String()
	require.Contains(t, out, "KeyManager")
	require.Contains(t, out, addr.Hex())
	require.Contains(t, out, "0.4.0")
}

func TestDeploymentBarCountsCompletions(t *testing.T) {
	var buf bytes.Buffer
	bar := NewDeploymentBar(&buf, "deploying")
	bar.Observe(deployment.Event{Type: deployment.ContractEvent, Status: deployment.StatusPending, ContractName: "KeyManager"})
	bar.Observe(deployment.Event{Type: deployment.ContractEvent, Status: deployment.StatusComplete, ContractName: "KeyManager"})
	bar.Observe(deployment.Event{Type: deployment.TransactionEvent, Status: deployment.StatusComplete, ContractName: "ERC725Account", FunctionName: "setData"})
	bar.Finish()
	require.Equal(t, 2, bar.Mined())
}

func TestPrintErrorWritesUserAndLog(t *testing.T) {
	var out, logged bytes.Buffer
	ul := &UserLog{log: luxlog.NewWriter(&logged), writer: &out}

	ul.PrintError("deploy failed: %s", "reverted")
	require.Equal(t, "\nERROR: deploy failed: reverted\n\n", out.String())
	require.Contains(t, logged.String(), "deploy failed: reverted")
}
