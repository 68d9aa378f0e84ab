package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/gingerrexayers/shatool-go/internal/shatool/lib"
	"github.com/gingerrexayers/shatool-go/internal/shatool/types"
	"golang.org/x/sync/errgroup"
)

// CheckOptions holds the configuration for the check command.
type CheckOptions struct {
	// BaseDir resolves relative manifest paths. Empty means the working directory.
	BaseDir    string
	Quiet      bool
	Workers    int
	Decompress lib.DecompressMode
	Logger     *slog.Logger
}

// checkEntry re-hashes one manifest entry and classifies the outcome.
func checkEntry(entry types.ManifestEntry, opts CheckOptions) types.CheckResult {
	target := entry.Path
	if opts.BaseDir != "" && !filepath.IsAbs(target) {
		target = filepath.Join(opts.BaseDir, target)
	}

	rc, err := lib.OpenInput(target, opts.Decompress)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.CheckResult{Path: entry.Path, Status: types.CheckMissing}
		}
		opts.Logger.Warn("could not open file", "path", target, "error", err)
		return types.CheckResult{Path: entry.Path, Status: types.CheckFailed}
	}
	defer rc.Close()

	actual, _, err := lib.GetReaderHash(rc)
	if err != nil {
		opts.Logger.Warn("could not read file", "path", target, "error", err)
		return types.CheckResult{Path: entry.Path, Status: types.CheckFailed}
	}

	status := types.CheckOK
	if actual != entry.Digest {
		status = types.CheckFailed
	}
	return types.CheckResult{Path: entry.Path, Status: status, Actual: actual}
}

// Check is the main function for the 'check' command. It re-hashes every
// file listed in the manifest and reports which ones no longer match.
func Check(ctx context.Context, out io.Writer, manifestPath string, opts CheckOptions) ([]types.CheckResult, error) {
	if opts.Logger == nil {
		opts.Logger = lib.DiscardLogger()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	entries, err := lib.ReadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: no checksum lines found: %w", manifestPath, lib.ErrUsage)
	}

	// Set up the worker pool.
	results := make([]types.CheckResult, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, entry := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checkEntry(entry, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, res := range results {
		if res.Status != types.CheckOK {
			failed++
		} else if opts.Quiet {
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", res.Path, res.Status)
	}

	if failed > 0 {
		fmt.Fprintf(out, "WARNING: %d of %d listed files did NOT match\n", failed, len(results))
		return results, fmt.Errorf("%d of %d files failed verification: %w", failed, len(results), lib.ErrMismatch)
	}
	return results, nil
}
