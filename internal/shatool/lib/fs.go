package lib

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// DecompressMode selects how input bytes are decoded before hashing.
type DecompressMode string

const (
	DecompressNone DecompressMode = "none"
	// DecompressAuto sniffs the stream's magic bytes and falls back to
	// hashing the raw bytes when no known format is found.
	DecompressAuto DecompressMode = "auto"
	DecompressGzip DecompressMode = "gzip"
	DecompressZstd DecompressMode = "zstd"
	DecompressLZ4  DecompressMode = "lz4"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// ParseDecompressMode validates a mode name; the empty string means none.
func ParseDecompressMode(name string) (DecompressMode, error) {
	switch DecompressMode(name) {
	case "", DecompressNone:
		return DecompressNone, nil
	case DecompressAuto, DecompressGzip, DecompressZstd, DecompressLZ4:
		return DecompressMode(name), nil
	default:
		return "", fmt.Errorf("unknown decompress mode %q (want none, auto, gzip, zstd or lz4)", name)
	}
}

// OpenInput opens filePath for hashing, decoding it according to mode.
func OpenInput(filePath string, mode DecompressMode) (io.ReadCloser, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}

	rc, err := NewDecodingReader(file, mode)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return &stackedCloser{ReadCloser: rc, under: file}, nil
}

// NewDecodingReader wraps r so that reads return decoded content. Closing the
// result releases decoder resources but does not close r.
func NewDecodingReader(r io.Reader, mode DecompressMode) (io.ReadCloser, error) {
	if mode == DecompressAuto {
		br := bufio.NewReader(r)
		header, _ := br.Peek(len(zstdMagic))
		switch {
		case bytes.HasPrefix(header, gzipMagic):
			mode = DecompressGzip
		case bytes.HasPrefix(header, zstdMagic):
			mode = DecompressZstd
		case bytes.HasPrefix(header, lz4Magic):
			mode = DecompressLZ4
		default:
			mode = DecompressNone
		}
		r = br
	}

	switch mode {
	case "", DecompressNone:
		return io.NopCloser(r), nil
	case DecompressGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case DecompressZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return dec.IOReadCloser(), nil
	case DecompressLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported decompress mode %q", mode)
	}
}

// stackedCloser closes the decoder first and then the file beneath it.
type stackedCloser struct {
	io.ReadCloser
	under io.Closer
}

func (s *stackedCloser) Close() error {
	err := s.ReadCloser.Close()
	if uerr := s.under.Close(); err == nil {
		err = uerr
	}
	return err
}
