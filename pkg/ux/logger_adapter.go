// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ux

import (
	"sort"

	luxlog "github.com/luxfi/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// luxCore forwards zap entries to a luxfi/log logger so library packages
// and the CLI share one log file and console.
type luxCore struct {
	log    luxlog.Logger
	fields []zapcore.Field
}

// NewZapLogger returns a zap logger writing through log.
func NewZapLogger(log luxlog.Logger) *zap.Logger {
	if log == nil || log.IsZero() {
		return zap.NewNop()
	}
	return zap.New(&luxCore{log: log})
}

func (c *luxCore) Enabled(zapcore.Level) bool {
	return true
}

func (c *luxCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &luxCore{log: c.log, fields: merged}
}

func (c *luxCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(ent, c)
}

func (c *luxCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	args := fieldsToInterface(ent.LoggerName, c.fields, fields)
	switch {
	case ent.Level <= zapcore.DebugLevel:
		c.log.Debug(ent.Message, args...)
	case ent.Level == zapcore.InfoLevel:
		c.log.Info(ent.Message, args...)
	case ent.Level == zapcore.WarnLevel:
		c.log.Warn(ent.Message, args...)
	default:
		c.log.Error(ent.Message, args...)
	}
	return nil
}

func (c *luxCore) Sync() error {
	return nil
}

// fieldsToInterface flattens zap fields into the key/value pairs luxfi/log
// expects, sorted by key.
func fieldsToInterface(name string, groups ...[]zapcore.Field) []interface{} {
	enc := zapcore.NewMapObjectEncoder()
	for _, fields := range groups {
		for _, f := range fields {
			f.AddTo(enc)
		}
	}
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]interface{}, 0, 2*len(keys)+2)
	if name != "" {
		result = append(result, "component", name)
	}
	for _, k := range keys {
		result = append(result, k, enc.Fields[k])
	}
	return result
}
