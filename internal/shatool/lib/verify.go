package lib

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/gingerrexayers/shatool-go/internal/shatool/types"
)

// digestPattern finds a bare 64-character hex token in reference output, e.g.
// "SHA2-256(stdin)= <hex>" from openssl or "<hex>  -" from sha256sum.
var digestPattern = regexp.MustCompile(`(?:^|[^0-9A-Fa-f])([0-9A-Fa-f]{64})(?:$|[^0-9A-Fa-f])`)

// Verifier cross-checks the engine against an external reference hasher run
// as a separate process. Input always travels over the child's stdin and is
// never placed on a command line.
type Verifier struct {
	Command []string
	Logger  *slog.Logger
}

// NewVerifier returns a Verifier for command, or DefaultReference when
// command is empty.
func NewVerifier(command []string, logger *slog.Logger) *Verifier {
	if len(command) == 0 {
		command = DefaultReference
	}
	if logger == nil {
		logger = DiscardLogger()
	}
	return &Verifier{Command: command, Logger: logger}
}

// ReferenceDigest runs the reference hasher over input and returns its
// lowercase hex digest. Every failure wraps ErrVerificationUnavailable.
func (v *Verifier) ReferenceDigest(ctx context.Context, input io.Reader) (string, error) {
	if len(v.Command) == 0 || v.Command[0] == "" {
		return "", fmt.Errorf("no reference command configured: %w", ErrVerificationUnavailable)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, v.Command[0], v.Command[1:]...)
	cmd.Stdin = input
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	v.Logger.Debug("running reference hasher", "command", strings.Join(v.Command, " "))
	if err := cmd.Run(); err != nil {
		v.Logger.Debug("reference hasher failed", "error", err, "stderr", strings.TrimSpace(stderr.String()))
		return "", fmt.Errorf("run %s: %v: %w", v.Command[0], err, ErrVerificationUnavailable)
	}

	m := digestPattern.FindStringSubmatch(stdout.String())
	if m == nil {
		return "", fmt.Errorf("%s printed no digest: %w", v.Command[0], ErrVerificationUnavailable)
	}
	return strings.ToLower(m[1]), nil
}

// Verify hashes data with the engine and with the reference hasher.
// A non-nil error is returned only when the reference is unavailable; a
// mismatch is reported through the Outcome field.
func (v *Verifier) Verify(ctx context.Context, data []byte) (types.Verification, error) {
	result := types.Verification{Engine: GetHash(data)}
	return v.compare(ctx, result, bytes.NewReader(data))
}

// VerifyFile is Verify for the contents of filePath, streamed from disk.
func (v *Verifier) VerifyFile(ctx context.Context, filePath string) (types.Verification, error) {
	engine, _, err := GetFileHash(filePath)
	if err != nil {
		return types.Verification{}, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return types.Verification{}, err
	}
	defer file.Close()

	return v.compare(ctx, types.Verification{Engine: engine}, file)
}

func (v *Verifier) compare(ctx context.Context, result types.Verification, input io.Reader) (types.Verification, error) {
	reference, err := v.ReferenceDigest(ctx, input)
	if err != nil {
		result.Outcome = types.OutcomeUnavailable
		return result, err
	}

	result.Reference = reference
	if reference == result.Engine {
		result.Outcome = types.OutcomeMatch
	} else {
		result.Outcome = types.OutcomeMismatch
	}
	v.Logger.Debug("verification finished", "outcome", result.Outcome)
	return result, nil
}
