// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ux

import (
	"bytes"
	"errors"
	"testing"

	luxlog "github.com/luxfi/log"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestZapLoggerWritesThroughLuxLog(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLogger(luxlog.NewWriter(&buf)).Named("ledger").With(zap.String("chain", "l14"))

	log.Info("deployment submitted", zap.String("tx", "0xabc"), zap.Uint64("nonce", 7))
	log.Warn("receipt missing", zap.Error(errors.New("not found")))

	out := buf.String()
	require.Contains(t, out, "deployment submitted")
	require.Contains(t, out, "0xabc")
	require.Contains(t, out, "l14")
	require.Contains(t, out, "ledger")
	require.Contains(t, out, "receipt missing")
	require.Contains(t, out, "not found")
}

func TestZapLoggerFromNoopIsNop(t *testing.T) {
	log := NewZapLogger(luxlog.NewNoOpLogger())
	require.NotNil(t, log)
	log.Info("dropped")
	require.NotNil(t, NewZapLogger(nil))
}

func TestFieldsToInterfaceSortsKeys(t *testing.T) {
	args := fieldsToInterface("", []zap.Field{zap.String("b", "2"), zap.String("a", "1")})
	require.Equal(t, []interface{}{"a", "1", "b", "2"}, args)
}
