package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gingerrexayers/shatool-go/internal/shatool/lib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(lib.EnvReference, "")
	t.Setenv(lib.EnvWorkers, "")

	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(append([]string{"--config-dir", t.TempDir()}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSumCommandLine(t *testing.T) {
	out, err := runCLI(t, "", "sum", "--string", "abc")
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad  \"abc\"\n", out)

	out, err = runCLI(t, "hello", "sum")
	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824  -\n", out)
}

func TestSumThenCheck(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("hello"), 0644))
	manifestPath := filepath.Join(dir, "data"+lib.ManifestExtension)

	_, err := runCLI(t, "", "sum", "-o", manifestPath, filePath)
	require.NoError(t, err)

	out, err := runCLI(t, "", "check", manifestPath)
	require.NoError(t, err)
	assert.Equal(t, filePath+": OK\n", out)

	require.NoError(t, os.WriteFile(filePath, []byte("changed"), 0644))
	_, err = runCLI(t, "", "check", "--quiet", manifestPath)
	assert.Equal(t, 1, lib.ExitCode(err))
}

func TestUsageErrors(t *testing.T) {
	_, err := runCLI(t, "", "check")
	assert.Equal(t, 2, lib.ExitCode(err))

	_, err = runCLI(t, "", "sum", "--no-such-flag")
	assert.Equal(t, 2, lib.ExitCode(err))

	_, err = runCLI(t, "", "verify", "text", "--file", "x")
	assert.Equal(t, 2, lib.ExitCode(err))
}

func TestVerifyUnavailableExitCode(t *testing.T) {
	out, err := runCLI(t, "", "verify", "--reference", "shatool-no-such-reference-hasher", "abc")
	assert.Equal(t, 3, lib.ExitCode(err))
	assert.Contains(t, out, "UNAVAILABLE")
}
