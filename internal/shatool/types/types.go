package types

// `yaml:"..."` tags are used by the config loader; the rest are plain records.

// FileDigest is the result of hashing one input.
type FileDigest struct {
	Path   string
	Digest string
	Size   int64
	Chunks []ChunkDigest
}

// ChunkDigest describes one content-defined chunk of a file.
type ChunkDigest struct {
	Offset int64
	Size   int64
	Digest string
}

// ManifestEntry is one "<digest>  <path>" line of a checksum manifest.
type ManifestEntry struct {
	Digest string
	Path   string
}

// CheckStatus is the verdict printed for one manifest entry by check.
type CheckStatus string

const (
	CheckOK      CheckStatus = "OK"
	CheckFailed  CheckStatus = "FAILED"
	CheckMissing CheckStatus = "MISSING"
)

// CheckResult is the outcome of re-hashing one manifest entry.
type CheckResult struct {
	Path   string
	Status CheckStatus
	Actual string
}

// Outcome is the result of comparing the engine against the reference hasher.
// Unavailable means the reference could not produce a digest at all.
type Outcome string

const (
	OutcomeMatch       Outcome = "match"
	OutcomeMismatch    Outcome = "mismatch"
	OutcomeUnavailable Outcome = "unavailable"
)

// Verification compares the engine's digest with the reference hasher's.
// Reference is empty when Outcome is OutcomeUnavailable.
type Verification struct {
	Engine    string
	Reference string
	Outcome   Outcome
}

// Config is the on-disk .shatool.yaml configuration.
type Config struct {
	Reference  []string `yaml:"reference"`
	Workers    int      `yaml:"workers"`
	Decompress string   `yaml:"decompress"`
}
