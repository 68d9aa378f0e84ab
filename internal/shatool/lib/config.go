package lib

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/denormal/go-gitignore"
	"github.com/gingerrexayers/shatool-go/internal/shatool/types"
	"gopkg.in/yaml.v3"
)

// --- Constants ---

// ConfigFilename is the optional per-directory configuration file.
const ConfigFilename = ".shatool.yaml"

// IgnoreFilename is the name of the file containing user-defined ignore patterns.
const IgnoreFilename = ".shatoolignore"

// ManifestExtension is the conventional suffix of checksum manifests.
const ManifestExtension = ".sha256"

// Environment variables that override values from ConfigFilename.
const (
	EnvReference = "SHATOOL_REFERENCE"
	EnvWorkers   = "SHATOOL_WORKERS"
)

// DefaultReference is the external hasher used when nothing else is configured.
var DefaultReference = []string{"openssl", "dgst", "-sha256"}

// --- Package-level Variables ---

// defaultIgnorePatterns contains the entries that are never hashed during a
// recursive walk.
var defaultIgnorePatterns = []string{
	".git/**",
	IgnoreFilename,
	ConfigFilename,
	"*" + ManifestExtension,
}

var (
	// ignoreCache stores compiled matchers keyed by the canonical absolute
	// path of a directory, so the ignore file is parsed once per walk root.
	ignoreCache = make(map[string]gitignore.GitIgnore)
	cacheMutex  = &sync.Mutex{}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() types.Config {
	return types.Config{
		Reference:  append([]string(nil), DefaultReference...),
		Workers:    runtime.NumCPU(),
		Decompress: string(DecompressNone),
	}
}

// LoadConfig reads ConfigFilename from dir, fills unset fields with defaults
// and applies environment overrides. A missing file is not an error.
func LoadConfig(dir string) (types.Config, error) {
	cfg := DefaultConfig()

	configPath := filepath.Join(dir, ConfigFilename)
	content, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", configPath, err)
	default:
		var fileCfg types.Config
		if err := yaml.Unmarshal(content, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", configPath, err)
		}
		if len(fileCfg.Reference) > 0 {
			cfg.Reference = fileCfg.Reference
		}
		if fileCfg.Workers > 0 {
			cfg.Workers = fileCfg.Workers
		}
		if fileCfg.Decompress != "" {
			cfg.Decompress = fileCfg.Decompress
		}
	}

	if ref := strings.TrimSpace(os.Getenv(EnvReference)); ref != "" {
		cfg.Reference = strings.Fields(ref)
	}
	if workers := strings.TrimSpace(os.Getenv(EnvWorkers)); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("%s must be a positive integer, got %q", EnvWorkers, workers)
		}
		cfg.Workers = n
	}

	if _, err := ParseDecompressMode(cfg.Decompress); err != nil {
		return cfg, fmt.Errorf("config %s: %w", configPath, err)
	}

	return cfg, nil
}

// IsPathIgnored checks if a given path below baseDir should be skipped.
// It uses a cache to avoid recompiling ignore rules for the same directory.
func IsPathIgnored(baseDir, path string) bool {
	// The gitignore library is not safe for concurrent use, so every lookup
	// is serialized.
	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	// Both arguments to filepath.Rel must use the same canonical form.
	canonicalBaseDir, err := filepath.EvalSymlinks(baseDir)
	if err != nil {
		canonicalBaseDir = baseDir
	}

	matcher, found := ignoreCache[canonicalBaseDir]
	if !found {
		matcher = loadIgnoreMatcher(canonicalBaseDir)
		ignoreCache[canonicalBaseDir] = matcher
	}

	canonicalPathToCheck, err := filepath.EvalSymlinks(path)
	if err != nil {
		canonicalPathToCheck = path
	}

	relativePath, err := filepath.Rel(canonicalBaseDir, canonicalPathToCheck)
	if err != nil {
		return false
	}
	// The gitignore library expects forward-slash separators, even on Windows.
	slashedPath := filepath.ToSlash(relativePath)

	match := matcher.Match(slashedPath)
	if match == nil {
		match = matcher.Match(canonicalPathToCheck)
	}
	if match == nil {
		return false
	}
	return match.Ignore()
}

// loadIgnoreMatcher loads ignore patterns and compiles them into a gitignore.GitIgnore object.
func loadIgnoreMatcher(baseDir string) gitignore.GitIgnore {
	rawPatterns := make([]string, len(defaultIgnorePatterns))
	copy(rawPatterns, defaultIgnorePatterns)

	ignoreFilePath := filepath.Join(baseDir, IgnoreFilename)
	if content, err := os.ReadFile(ignoreFilePath); err == nil {
		rawPatterns = append(rawPatterns, strings.Split(string(content), "\n")...)
	}

	var finalPatterns []string
	for _, p := range rawPatterns {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		trimmed = strings.ReplaceAll(trimmed, "\\", "/")

		// Directory patterns match their contents as well.
		if strings.HasSuffix(trimmed, "/") && !strings.HasSuffix(trimmed, "**/") {
			trimmed = trimmed + "**"
		}
		finalPatterns = append(finalPatterns, trimmed)
	}

	matcher := gitignore.New(
		strings.NewReader(strings.Join(finalPatterns, "\n")),
		baseDir,
		func(err gitignore.Error) bool { return false },
	)
	if matcher == nil {
		return gitignore.New(strings.NewReader(""), "", nil)
	}

	return matcher
}

// ResetIgnoreState clears the ignore cache. This is used for testing.
func ResetIgnoreState() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	ignoreCache = make(map[string]gitignore.GitIgnore)
}
