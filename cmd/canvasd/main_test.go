package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dagcanvas/internal/cli"
)

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, []string{"-h"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_BadFlag(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, []string{"-definitely-not-a-flag"})
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRun_RecoversStartupPanic(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.hcl")
	require.NoError(t, os.WriteFile(bad, []byte("canvas { listen = "), 0o644))

	var out bytes.Buffer
	err := run(&out, []string{"-config", bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application startup panicked")
	assert.Contains(t, err.Error(), "broken.hcl")
}
