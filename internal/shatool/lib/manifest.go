package lib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gingerrexayers/shatool-go/internal/shatool/sha256"
	"github.com/gingerrexayers/shatool-go/internal/shatool/types"
)

var pathEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)

// escapePath applies the coreutils escaping for names containing a
// backslash or a line break. The returned flag says whether the line needs
// the leading backslash marker.
func escapePath(path string) (string, bool) {
	if !strings.ContainsAny(path, "\\\n\r") {
		return path, false
	}
	return pathEscaper.Replace(path), true
}

func unescapePath(path string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(path); i++ {
		if path[i] != '\\' {
			b.WriteByte(path[i])
			continue
		}
		i++
		if i == len(path) {
			return "", errors.New("trailing backslash in file name")
		}
		switch path[i] {
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			return "", fmt.Errorf("invalid escape \\%c in file name", path[i])
		}
	}
	return b.String(), nil
}

// ParseManifest reads checksum lines in the coreutils format
// "<digest>  <path>" (text mode) or "<digest> *<path>" (binary mode).
// A line starting with a backslash carries an escaped file name.
// Blank lines are skipped; any other malformed line is an error.
func ParseManifest(r io.Reader) ([]types.ManifestEntry, error) {
	var entries []types.ManifestEntry

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		escaped := strings.HasPrefix(line, `\`)
		if escaped {
			line = line[1:]
		}

		hexLen := 2 * sha256.Size
		if len(line) < hexLen+2 || line[hexLen] != ' ' || (line[hexLen+1] != ' ' && line[hexLen+1] != '*') {
			return nil, fmt.Errorf("line %d: malformed checksum line %q", lineNo, line)
		}

		digest, err := sha256.ParseDigest(line[:hexLen])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		path := line[hexLen+2:]
		if path == "" {
			return nil, fmt.Errorf("line %d: missing file name", lineNo)
		}
		if escaped {
			if path, err = unescapePath(path); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}

		entries = append(entries, types.ManifestEntry{Digest: digest.Hex(), Path: path})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ReadManifest parses the manifest file at manifestPath.
func ReadManifest(manifestPath string) ([]types.ManifestEntry, error) {
	file, err := os.Open(manifestPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	entries, err := ParseManifest(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifestPath, err)
	}
	return entries, nil
}

// WriteManifest writes entries in text mode, sorted by path so that the
// output is deterministic. Names with a backslash or line break are escaped
// the way sha256sum does it.
func WriteManifest(w io.Writer, entries []types.ManifestEntry) error {
	sorted := make([]types.ManifestEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	bw := bufio.NewWriter(w)
	for _, e := range sorted {
		path, escaped := escapePath(e.Path)
		marker := ""
		if escaped {
			marker = `\`
		}
		if _, err := fmt.Fprintf(bw, "%s%s  %s\n", marker, e.Digest, path); err != nil {
			return err
		}
	}
	return bw.Flush()
}
