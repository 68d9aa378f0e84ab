package lib

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gingerrexayers/shatool-go/internal/shatool/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	abcHash   = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	helloHash = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
)

func TestParseManifest(t *testing.T) {
	t.Run("text and binary lines", func(t *testing.T) {
		input := abcHash + "  abc.txt\n\n" + strings.ToUpper(helloHash) + " *dir/hello world.bin\r\n"

		entries, err := ParseManifest(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, []types.ManifestEntry{
			{Digest: abcHash, Path: "abc.txt"},
			{Digest: helloHash, Path: "dir/hello world.bin"},
		}, entries)
	})

	testCases := []struct {
		name  string
		input string
	}{
		{"short digest", "abc  file\n"},
		{"single separator", abcHash + " file\n"},
		{"missing path", abcHash + "  \n"},
		{"non-hex digest", strings.Repeat("g", 64) + "  file\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseManifest(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestWriteManifestRoundTrip(t *testing.T) {
	entries := []types.ManifestEntry{
		{Digest: helloHash, Path: "z/last.txt"},
		{Digest: abcHash, Path: "a/first.txt"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, entries))
	assert.Equal(t, abcHash+"  a/first.txt\n"+helloHash+"  z/last.txt\n", buf.String())

	manifestPath := filepath.Join(t.TempDir(), "sums"+ManifestExtension)
	require.NoError(t, os.WriteFile(manifestPath, buf.Bytes(), 0644))

	parsed, err := ReadManifest(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, []types.ManifestEntry{entries[1], entries[0]}, parsed)
}

func TestReadManifestMissingFile(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "missing.sha256"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestManifestEscapesSpecialNames(t *testing.T) {
	entries := []types.ManifestEntry{
		{Digest: abcHash, Path: "line\nbreak.txt"},
		{Digest: helloHash, Path: `back\slash.txt`},
		{Digest: abcHash, Path: "plain.txt"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, entries))
	assert.Equal(t,
		`\`+helloHash+`  back\\slash.txt`+"\n"+
			`\`+abcHash+`  line\nbreak.txt`+"\n"+
			abcHash+"  plain.txt\n",
		buf.String())

	parsed, err := ParseManifest(&buf)
	require.NoError(t, err)
	assert.Equal(t, []types.ManifestEntry{entries[1], entries[0], entries[2]}, parsed)
}

func TestParseManifestRejectsBadEscapes(t *testing.T) {
	for _, input := range []string{
		`\` + abcHash + `  name\q` + "\n",
		`\` + abcHash + `  name\` + "\n",
	} {
		_, err := ParseManifest(strings.NewReader(input))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 1")
	}
}
