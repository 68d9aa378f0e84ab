// The _test suffix creates an external test package so the public API is
// exercised as a black box.
package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gingerrexayers/shatool-go/internal/shatool/commands"
	"github.com/gingerrexayers/shatool-go/internal/shatool/lib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	emptyHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	abcHash   = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	helloHash = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
)

// setupTestDir creates a directory with two files and a subdirectory.
func setupTestDir(t *testing.T) string {
	t.Helper()
	lib.ResetIgnoreState()

	testDir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.Mkdir(filepath.Join(testDir, "subdir"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(testDir, "abc.txt"), []byte("abc"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(testDir, "subdir", "hello.txt"), []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(testDir, "skip.log"), []byte("log"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(testDir, lib.IgnoreFilename), []byte("*.log\n"), 0644))

	return testDir
}

func TestSumFiles(t *testing.T) {
	testDir := setupTestDir(t)
	abcPath := filepath.Join(testDir, "abc.txt")
	helloPath := filepath.Join(testDir, "subdir", "hello.txt")

	var out bytes.Buffer
	results, err := commands.Sum(context.Background(), &out, []string{helloPath, abcPath}, commands.SumOptions{Workers: 2})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, helloHash, results[0].Digest)
	assert.Equal(t, int64(5), results[0].Size)
	assert.Equal(t, abcHash, results[1].Digest)
	assert.Equal(t, helloHash+"  "+helloPath+"\n"+abcHash+"  "+abcPath+"\n", out.String(), "output keeps argument order")
}

func TestSumRecursive(t *testing.T) {
	testDir := setupTestDir(t)

	var out bytes.Buffer
	results, err := commands.Sum(context.Background(), &out, []string{testDir}, commands.SumOptions{Recursive: true})
	require.NoError(t, err)

	got := map[string]string{}
	for _, r := range results {
		got[r.Path] = r.Digest
	}
	assert.Equal(t, map[string]string{
		filepath.Join(testDir, "abc.txt"):             abcHash,
		filepath.Join(testDir, "subdir", "hello.txt"): helloHash,
	}, got, "ignored files must not be hashed")
}

func TestSumDirectoryRequiresRecursive(t *testing.T) {
	testDir := setupTestDir(t)

	var out bytes.Buffer
	_, err := commands.Sum(context.Background(), &out, []string{testDir}, commands.SumOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, lib.ErrUsage)
	assert.Empty(t, out.String())
}

func TestSumTextAndStdin(t *testing.T) {
	var out bytes.Buffer
	results, err := commands.Sum(context.Background(), &out, nil, commands.SumOptions{
		Texts: []string{"abc", ""},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, abcHash, results[0].Digest)
	assert.Equal(t, emptyHash, results[1].Digest)
	assert.Equal(t, abcHash+"  \"abc\"\n"+emptyHash+"  \"\"\n", out.String())

	out.Reset()
	results, err = commands.Sum(context.Background(), &out, nil, commands.SumOptions{
		Stdin: strings.NewReader("hello"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, helloHash+"  -\n", out.String())
}

func TestSumChunks(t *testing.T) {
	testDir := setupTestDir(t)
	bigPath := filepath.Join(testDir, "big.bin")
	content := bytes.Repeat([]byte("0123456789abcdef"), 4096)
	require.NoError(t, os.WriteFile(bigPath, content, 0644))

	var out bytes.Buffer
	results, err := commands.Sum(context.Background(), &out, []string{bigPath}, commands.SumOptions{Chunks: true})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, lib.GetHash(content), results[0].Digest)
	assert.Equal(t, int64(len(content)), results[0].Size)
	assert.NotEmpty(t, results[0].Chunks)
	assert.Contains(t, out.String(), "    chunk ")
}

func TestSumWritesManifest(t *testing.T) {
	testDir := setupTestDir(t)
	manifestPath := filepath.Join(testDir, "sums"+lib.ManifestExtension)

	var out bytes.Buffer
	_, err := commands.Sum(context.Background(), &out, []string{testDir}, commands.SumOptions{
		Recursive: true,
		Output:    manifestPath,
	})
	require.NoError(t, err)
	assert.Empty(t, out.String(), "manifest goes to the file, not to out")

	entries, err := lib.ReadManifest(manifestPath)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, filepath.Join(testDir, "abc.txt"), entries[0].Path)
	assert.Equal(t, abcHash, entries[0].Digest)
}

func TestSumManifestRejectsTextAndStdin(t *testing.T) {
	testDir := setupTestDir(t)
	manifestPath := filepath.Join(testDir, "sums"+lib.ManifestExtension)

	testCases := []struct {
		name  string
		paths []string
		opts  commands.SumOptions
	}{
		{"literal text", nil, commands.SumOptions{Texts: []string{"abc"}, Output: manifestPath}},
		{"explicit stdin", []string{commands.StdinPath}, commands.SumOptions{Stdin: strings.NewReader("hello"), Output: manifestPath}},
		{"implicit stdin", nil, commands.SumOptions{Stdin: strings.NewReader("hello"), Output: manifestPath}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := commands.Sum(context.Background(), &out, tc.paths, tc.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, lib.ErrUsage)
			assert.NoFileExists(t, manifestPath)
		})
	}
}

func TestSumManifestPassesCheck(t *testing.T) {
	testDir := setupTestDir(t)
	manifestPath := filepath.Join(testDir, "sums"+lib.ManifestExtension)

	var out bytes.Buffer
	_, err := commands.Sum(context.Background(), &out, []string{testDir}, commands.SumOptions{
		Recursive: true,
		Output:    manifestPath,
	})
	require.NoError(t, err)

	results, err := commands.Check(context.Background(), &out, manifestPath, commands.CheckOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestSumRejectsRepeatedStdin(t *testing.T) {
	var out bytes.Buffer
	_, err := commands.Sum(context.Background(), &out, []string{commands.StdinPath, commands.StdinPath}, commands.SumOptions{
		Stdin: strings.NewReader("hello"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, lib.ErrUsage)
	assert.Empty(t, out.String())
}

func TestSumDecompress(t *testing.T) {
	testDir := setupTestDir(t)
	src := filepath.Join(testDir, "abc.txt")

	// A file that is not compressed hashes the same under auto detection.
	var out bytes.Buffer
	results, err := commands.Sum(context.Background(), &out, []string{src}, commands.SumOptions{Decompress: lib.DecompressAuto})
	require.NoError(t, err)
	assert.Equal(t, abcHash, results[0].Digest)

	_, err = commands.Sum(context.Background(), &out, []string{src}, commands.SumOptions{Decompress: lib.DecompressGzip})
	assert.Error(t, err)
}

func TestSumCancelledContext(t *testing.T) {
	testDir := setupTestDir(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := commands.Sum(ctx, &out, []string{filepath.Join(testDir, "abc.txt")}, commands.SumOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
