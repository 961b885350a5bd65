// Package sid provides content fingerprints used by the query engine to
// decide whether a cached result's read-set is still valid.
package sid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Fingerprint is a short, stable digest of a dependency read. Two reads
// that observed the same (path, span, kind, child path) against the same
// file contents produce the same Fingerprint.
type Fingerprint string

// New computes a dependency fingerprint.
// Formula: hash(canonical_path | start_offset | end_offset | node_kind | child_path)
// — originally a syntax-node stable ID, repurposed here as the key a memo
// entry's read-set stores so revalidation can compare old vs new
// fingerprints without re-running the query.
func New(path string, start, end int, kind string, childPath []int) Fingerprint {
	canonPath := canonicalizePath(path)

	parts := make([]string, 0, 4+len(childPath))
	parts = append(parts, canonPath, fmt.Sprintf("%d", start), fmt.Sprintf("%d", end), kind)
	for _, idx := range childPath {
		parts = append(parts, fmt.Sprintf("%d", idx))
	}

	input := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(input))
	return Fingerprint(hex.EncodeToString(hash[:])[:16])
}

// canonicalizePath normalizes a file path for stable fingerprinting.
func canonicalizePath(path string) string {
	path = filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	if isCaseInsensitive() {
		path = strings.ToLower(path)
	}
	return filepath.ToSlash(path)
}

// isCaseInsensitive reports whether the host filesystem is case-insensitive.
func isCaseInsensitive() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}
