// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func withTTY(t *testing.T, tty bool) {
	t.Helper()
	orig := stdinIsTTY
	stdinIsTTY = func() bool { return tty }
	t.Cleanup(func() { stdinIsTTY = orig })
}

func TestIsInteractive_EnvVar(t *testing.T) {
	withTTY(t, true)
	tests := []struct {
		envValue string
		expected bool
	}{
		{"1", false},
		{"true", false},
		{"yes", false},
		{"0", true},
		{"false", true},
		{"no", true},
		{"", true},
	}

	for _, tc := range tests {
		t.Run("ASSETFACTORY_NON_INTERACTIVE="+tc.envValue, func(t *testing.T) {
			t.Setenv(EnvCI, "")
			t.Setenv(EnvNonInteractive, tc.envValue)
			require.Equal(t, tc.expected, IsInteractive())
		})
	}
}

func TestIsInteractive_CI(t *testing.T) {
	withTTY(t, true)
	t.Setenv(EnvNonInteractive, "")
	t.Setenv(EnvCI, "true")
	require.False(t, IsInteractive())
}

func TestIsInteractive_NoTTY(t *testing.T) {
	withTTY(t, false)
	t.Setenv(EnvNonInteractive, "")
	t.Setenv(EnvCI, "")
	require.False(t, IsInteractive())
}

func TestNewPrompterForMode(t *testing.T) {
	withTTY(t, true)
	t.Setenv(EnvNonInteractive, "")
	t.Setenv(EnvCI, "")

	require.IsType(t, &NonInteractivePrompter{}, NewPrompterForMode(true))
	require.IsType(t, &realPrompter{}, NewPrompterForMode(false))
}
