// Package commands contains the command implementations for the shatool application.
package commands

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/gingerrexayers/shatool-go/internal/shatool/lib"
	"github.com/gingerrexayers/shatool-go/internal/shatool/types"
	"golang.org/x/sync/errgroup"
)

// StdinPath is the path argument that selects standard input.
const StdinPath = "-"

// SumOptions holds the configuration for the sum command.
type SumOptions struct {
	// Texts are literal strings hashed in addition to any paths.
	Texts      []string
	Recursive  bool
	Chunks     bool
	Workers    int
	Decompress lib.DecompressMode
	// Output, when set, receives the manifest instead of out.
	Output string
	Stdin  io.Reader
	Logger *slog.Logger
}

func (o *SumOptions) workers() int {
	if o.Workers < 1 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// findAllFiles walks the directory tree and returns every regular file that
// is not excluded by the ignore rules of rootDir.
func findAllFiles(rootDir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path == rootDir {
			return nil
		}

		if lib.IsPathIgnored(rootDir, path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return files, nil
}

// expandPaths resolves directories into the files below them.
func expandPaths(paths []string, recursive bool) ([]string, error) {
	var files []string
	sawStdin := false
	for _, p := range paths {
		if p == StdinPath {
			if sawStdin {
				return nil, fmt.Errorf("standard input can only be read once: %w", lib.ErrUsage)
			}
			sawStdin = true
			files = append(files, p)
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		if !recursive {
			return nil, fmt.Errorf("%s is a directory (use --recursive): %w", p, lib.ErrUsage)
		}

		found, err := findAllFiles(p)
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", p, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

// hashInput digests one decoded input stream, optionally chunk by chunk.
func hashInput(r io.Reader, path string, chunks bool) (types.FileDigest, error) {
	if chunks {
		chunkDigests, digest, err := lib.ChunkReader(r)
		if err != nil {
			return types.FileDigest{}, err
		}
		var size int64
		for _, c := range chunkDigests {
			size += c.Size
		}
		return types.FileDigest{Path: path, Digest: digest, Size: size, Chunks: chunkDigests}, nil
	}

	digest, size, err := lib.GetReaderHash(r)
	if err != nil {
		return types.FileDigest{}, err
	}
	return types.FileDigest{Path: path, Digest: digest, Size: size}, nil
}

func hashFile(filePath string, opts SumOptions) (types.FileDigest, error) {
	rc, err := lib.OpenInput(filePath, opts.Decompress)
	if err != nil {
		return types.FileDigest{}, err
	}
	defer rc.Close()

	return hashInput(rc, filePath, opts.Chunks)
}

func hashStdin(opts SumOptions) (types.FileDigest, error) {
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	rc, err := lib.NewDecodingReader(stdin, opts.Decompress)
	if err != nil {
		return types.FileDigest{}, fmt.Errorf("stdin: %w", err)
	}
	defer rc.Close()

	return hashInput(rc, StdinPath, opts.Chunks)
}

// processFilesConcurrently hashes files on a bounded pool of goroutines, one
// engine context per file. Results keep the order of files.
func processFilesConcurrently(ctx context.Context, files []string, opts SumOptions) ([]types.FileDigest, error) {
	results := make([]types.FileDigest, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	for i, filePath := range files {
		if filePath == StdinPath {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := hashFile(filePath, opts)
			if err != nil {
				return fmt.Errorf("failed to hash %s: %w", filePath, err)
			}
			opts.Logger.Debug("hashed file", "path", filePath, "bytes", res.Size)
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Standard input can only be consumed once, so it is read on this goroutine.
	for i, filePath := range files {
		if filePath != StdinPath {
			continue
		}
		res, err := hashStdin(opts)
		if err != nil {
			return nil, err
		}
		results[i] = res
	}

	return results, nil
}

func printChunks(out io.Writer, res types.FileDigest) {
	for _, c := range res.Chunks {
		fmt.Fprintf(out, "    chunk %10d %8d %s\n", c.Offset, c.Size, c.Digest)
	}
}

// Sum is the main function for the 'sum' command. It hashes the given texts
// and paths and prints one "<digest>  <name>" line per input.
func Sum(ctx context.Context, out io.Writer, paths []string, opts SumOptions) ([]types.FileDigest, error) {
	if opts.Logger == nil {
		opts.Logger = lib.DiscardLogger()
	}
	if len(paths) == 0 && len(opts.Texts) == 0 {
		paths = []string{StdinPath}
	}
	if opts.Output != "" && (len(opts.Texts) > 0 || slices.Contains(paths, StdinPath)) {
		return nil, fmt.Errorf("a manifest can only list files, not literal text or stdin: %w", lib.ErrUsage)
	}

	var results []types.FileDigest
	for _, text := range opts.Texts {
		res, err := hashInput(strings.NewReader(text), strconv.Quote(text), opts.Chunks)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	files, err := expandPaths(paths, opts.Recursive)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("inputs resolved", "files", len(files), "workers", opts.workers())

	fileResults, err := processFilesConcurrently(ctx, files, opts)
	if err != nil {
		return nil, err
	}
	results = append(results, fileResults...)

	if opts.Output != "" {
		if err := writeManifestFile(opts.Output, results); err != nil {
			return nil, err
		}
		opts.Logger.Info("manifest written", "path", opts.Output, "entries", len(results))
		if opts.Chunks {
			for _, res := range results {
				fmt.Fprintf(out, "%s\n", res.Path)
				printChunks(out, res)
			}
		}
		return results, nil
	}

	for _, res := range results {
		fmt.Fprintf(out, "%s  %s\n", res.Digest, res.Path)
		printChunks(out, res)
	}
	return results, nil
}

func writeManifestFile(manifestPath string, results []types.FileDigest) error {
	entries := make([]types.ManifestEntry, 0, len(results))
	for _, res := range results {
		entries = append(entries, types.ManifestEntry{Digest: res.Digest, Path: res.Path})
	}

	file, err := os.Create(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	if err := lib.WriteManifest(file, entries); err != nil {
		file.Close()
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return file.Close()
}
