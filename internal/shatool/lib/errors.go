package lib

import "errors"

var (
	// ErrUsage indicates a command usage failure.
	ErrUsage = errors.New("usage error")
	// ErrMismatch reports that at least one digest did not match its expected value.
	ErrMismatch = errors.New("digest mismatch")
	// ErrVerificationUnavailable reports that the reference hasher could not
	// produce a digest. It never means the digests differed.
	ErrVerificationUnavailable = errors.New("verification unavailable")
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	case errors.Is(err, ErrVerificationUnavailable):
		return 3
	default:
		return 1
	}
}
