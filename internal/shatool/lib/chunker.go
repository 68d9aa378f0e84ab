package lib

import (
	"bytes"
	"io"
	"os"

	"github.com/aclements/go-rabin/rabin"
	"github.com/gingerrexayers/shatool-go/internal/shatool/sha256"
	"github.com/gingerrexayers/shatool-go/internal/shatool/types"
)

// Constants for the Rabin chunker configuration.
const (
	minChunkSize = 4 * 1024  // 4KB
	avgChunkSize = 8 * 1024  // 8KB
	maxChunkSize = 16 * 1024 // 16KB

	// A 64-bit irreducible polynomial over GF(2).
	defaultPoly = rabin.Poly64
	// The size of the rolling hash window.
	defaultWindowSize = 64
)

// rabinTable is a pre-computed table for the Rabin chunker.
// Initializing this is computationally expensive, so we do it once and reuse it.
var rabinTable = rabin.NewTable(defaultPoly, defaultWindowSize)

// ChunkFile splits a file into content-defined chunks and digests each one.
// See ChunkReader.
func ChunkFile(filePath string) ([]types.ChunkDigest, string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	return ChunkReader(file)
}

// ChunkReader reads r to EOF, splits it into variable-sized chunks using
// Rabin fingerprinting, and returns a digest for every chunk together with
// the digest of the whole stream. The whole-stream digest is built by
// feeding the chunks, in order, into a single running context.
func ChunkReader(r io.Reader) ([]types.ChunkDigest, string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}

	whole := sha256.New()
	chunks := []types.ChunkDigest{}

	if len(content) == 0 {
		return chunks, whole.Finalize().Hex(), nil
	}

	chunker := rabin.NewChunker(rabinTable, bytes.NewReader(content), minChunkSize, avgChunkSize, maxChunkSize)

	var offset int64
	for {
		length, err := chunker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", err
		}

		// Slice the original buffer rather than copying each chunk.
		chunkData := content[offset : offset+int64(length)]
		whole.Update(chunkData)

		chunks = append(chunks, types.ChunkDigest{
			Offset: offset,
			Size:   int64(length),
			Digest: GetHash(chunkData),
		})
		offset += int64(length)
	}

	// The chunker may produce nothing for input below the minimum chunk size.
	if len(chunks) == 0 {
		whole.Update(content)
		chunks = append(chunks, types.ChunkDigest{
			Offset: 0,
			Size:   int64(len(content)),
			Digest: GetHash(content),
		})
	}

	return chunks, whole.Finalize().Hex(), nil
}
