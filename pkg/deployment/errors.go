// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deployment

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration      = errors.New("configuration error")
	ErrNetworkMismatch    = errors.New("network mismatch")
	ErrTransactionFailure = errors.New("transaction failure")
	ErrUploadFailure      = errors.New("upload failure")
)

var kinds = []error{ErrConfiguration, ErrNetworkMismatch, ErrUploadFailure, ErrTransactionFailure}

// StageError is the failure of one graph stage. errors.Is matches both its
// Kind and anything wrapped in Err.
type StageError struct {
	Stage        string
	ContractName string
	FunctionName string
	Kind         error
	Err          error
}

func (e *StageError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func (e *StageError) Is(target error) bool {
	return target == e.Kind
}

// Configurationf returns an ErrConfiguration raised outside any stage.
func Configurationf(format string, args ...any) error {
	return &StageError{Kind: ErrConfiguration, Err: fmt.Errorf(format, args...)}
}

// wrapStageError attaches stage information to err. Errors that already are
// stage errors are returned unchanged; errors wrapping one of the sentinels
// keep that kind, anything else gets fallback.
func wrapStageError(n *Node, err error, fallback error) error {
	var se *StageError
	if errors.As(err, &se) {
		if se.Stage != "" {
			return err
		}
		return &StageError{
			Stage:        n.Name,
			ContractName: n.ContractName,
			FunctionName: n.FunctionName,
			Kind:         se.Kind,
			Err:          se.Err,
		}
	}
	kind := fallback
	for _, k := range kinds {
		if errors.Is(err, k) {
			kind = k
			break
		}
	}
	return &StageError{
		Stage:        n.Name,
		ContractName: n.ContractName,
		FunctionName: n.FunctionName,
		Kind:         kind,
		Err:          err,
	}
}
