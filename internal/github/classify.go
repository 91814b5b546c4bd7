package github

import (
	"path"
	"strings"
)

// DefaultTestPatterns matches test files across the ecosystems we commonly
// review. Callers can override via configuration.
var DefaultTestPatterns = []string{
	"test_*.py",
	"*_test.py",
	"*_test.go",
	"*.test.js",
	"*.spec.js",
	"*.test.ts",
	"*.spec.ts",
	"__tests__/*",
	"spec/*",
}

var testDirNames = map[string]bool{
	"test":      true,
	"tests":     true,
	"spec":      true,
	"specs":     true,
	"__tests__": true,
}

// IsTestFile reports whether a changed file path looks like a test file,
// by filename pattern or by living under a conventional test directory.
// Matching is case-insensitive on the path side.
func IsTestFile(filePath string, patterns []string) bool {
	if len(patterns) == 0 {
		patterns = DefaultTestPatterns
	}

	lower := strings.ToLower(filePath)
	name := path.Base(lower)
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
		if ok, _ := path.Match(pattern, lower); ok {
			return true
		}
	}

	for _, part := range strings.Split(lower, "/") {
		if testDirNames[part] {
			return true
		}
	}
	return false
}
