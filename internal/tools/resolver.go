package tools

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrNotFound is returned when a tool cannot be located.
var ErrNotFound = errors.New("tool not found")

// Resolver finds a tool binary. Override, when set, wins outright; then each
// of SearchDirs is tried in order; then PATH.
type Resolver struct {
	Override   string
	SearchDirs []string
}

// Resolve returns the absolute path of the named tool.
func (r Resolver) Resolve(name string) (string, error) {
	if r.Override != "" {
		if !isExecutableFile(r.Override) {
			return "", fmt.Errorf("%w: %s (configured path %s is not an executable file)", ErrNotFound, name, r.Override)
		}
		return filepath.Abs(r.Override)
	}

	for _, dir := range r.SearchDirs {
		candidate := filepath.Join(dir, name)
		if isExecutableFile(candidate) {
			return filepath.Abs(candidate)
		}
	}

	p, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotFound, name, err)
	}
	return filepath.Abs(p)
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Mode().Perm()&0111 != 0
}
