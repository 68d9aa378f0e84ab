package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/gingerrexayers/shatool-go/internal/shatool/lib"
	"github.com/gingerrexayers/shatool-go/internal/shatool/types"
)

// VerifyOptions holds the configuration for the verify command.
type VerifyOptions struct {
	// File, when set, is verified instead of the text argument.
	File      string
	Reference []string
	Logger    *slog.Logger
}

// Verify is the main function for the 'verify' command. It hashes the input
// with the built-in engine and with the external reference hasher and
// reports whether the two agree. A disagreement returns lib.ErrMismatch; a
// reference that cannot run returns lib.ErrVerificationUnavailable.
func Verify(ctx context.Context, out io.Writer, text string, opts VerifyOptions) (types.Verification, error) {
	verifier := lib.NewVerifier(opts.Reference, opts.Logger)

	var (
		res types.Verification
		err error
	)
	if opts.File != "" {
		res, err = verifier.VerifyFile(ctx, opts.File)
		if err != nil && res.Outcome == "" {
			return res, fmt.Errorf("failed to hash %s: %w", opts.File, err)
		}
	} else {
		res, err = verifier.Verify(ctx, []byte(text))
	}

	fmt.Fprintf(out, "engine:    %s\n", res.Engine)
	switch res.Outcome {
	case types.OutcomeUnavailable:
		fmt.Fprintf(out, "reference: unavailable (%s)\n", verifier.Command[0])
		fmt.Fprintln(out, "result:    UNAVAILABLE")
		return res, err
	case types.OutcomeMismatch:
		fmt.Fprintf(out, "reference: %s\n", res.Reference)
		fmt.Fprintln(out, "result:    MISMATCH")
		return res, fmt.Errorf("engine and %s disagree: %w", verifier.Command[0], lib.ErrMismatch)
	default:
		fmt.Fprintf(out, "reference: %s\n", res.Reference)
		fmt.Fprintln(out, "result:    MATCH")
		return res, nil
	}
}
