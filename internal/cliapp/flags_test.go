package cliapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractShellFlag_BareFlagIsBooleanTrue(t *testing.T) {
	remaining, shell := extractShellFlag([]string{"--raw", "--shell", "echo", "hi"})
	assert.Equal(t, []string{"--raw", "echo", "hi"}, remaining)
	assert.Equal(t, true, shell)
}

func TestExtractShellFlag_ConsumesKnownShellName(t *testing.T) {
	remaining, shell := extractShellFlag([]string{"--shell", "bash", "echo", "hi"})
	assert.Equal(t, []string{"echo", "hi"}, remaining)
	assert.Equal(t, "bash", shell)
}

func TestExtractShellFlag_UnknownNextTokenIsNotConsumed(t *testing.T) {
	remaining, shell := extractShellFlag([]string{"--shell", "echo", "hi"})
	assert.Equal(t, []string{"echo", "hi"}, remaining)
	assert.Equal(t, true, shell)
}

func TestExtractShellFlag_EqualsFormCarriesValue(t *testing.T) {
	remaining, shell := extractShellFlag([]string{"--shell=pwsh", "echo", "hi"})
	assert.Equal(t, []string{"echo", "hi"}, remaining)
	assert.Equal(t, "pwsh", shell)
}

func TestExtractShellFlag_AbsentFlagLeavesArgsUntouched(t *testing.T) {
	remaining, shell := extractShellFlag([]string{"echo", "hi"})
	assert.Equal(t, []string{"echo", "hi"}, remaining)
	assert.Nil(t, shell)
}
