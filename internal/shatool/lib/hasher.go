// Package lib contains the core, reusable services for the shatool application.
package lib

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/gingerrexayers/shatool-go/internal/shatool/sha256"
)

// GetHash calculates the SHA-256 hash of an in-memory byte slice and returns
// it as a lowercase hex-encoded string.
func GetHash(content []byte) string {
	return sha256.Sum256(content).Hex()
}

// GetReaderHash streams r through the engine until EOF.
// It returns the hex digest and the number of bytes consumed.
func GetReaderHash(r io.Reader) (string, int64, error) {
	hasher := sha256.NewHash()

	n, err := io.Copy(hasher, r)
	if err != nil {
		return "", n, err
	}

	return hex.EncodeToString(hasher.Sum(nil)), n, nil
}

// GetFileHash calculates the SHA-256 hash of a file's contents by streaming
// it from disk, so the file is never held in memory as a whole.
// It returns the lowercase hex-encoded hash string and the file size.
func GetFileHash(filePath string) (string, int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", 0, err
	}

	defer file.Close()

	return GetReaderHash(file)
}
