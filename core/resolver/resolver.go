// Package resolver locates include targets on disk.
//
// Resolution is a pure function of the target name, the configured search
// directories and the directory of the file currently being expanded, so the
// same bare name may resolve differently as expansion descends.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
)

// NotFoundError reports an include target that exists in no search
// directory.
type NotFoundError struct {
	Name     string
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s is not found", e.Name)
}

// Resolver searches the configured include directories in order, then the
// current directory.
type Resolver struct {
	dirs []string
}

func New(dirs []string) *Resolver {
	cleaned := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		cleaned = append(cleaned, dir)
	}
	return &Resolver{dirs: cleaned}
}

// Dirs returns a copy of the configured search directories.
func (r *Resolver) Dirs() []string {
	dirs := make([]string, len(r.dirs))
	copy(dirs, r.dirs)
	return dirs
}

// Candidates lists the bases tried for a lookup from currentDir, in order.
func (r *Resolver) Candidates(currentDir string) []string {
	return append(r.Dirs(), currentDir)
}

// Resolve returns the canonical absolute path of the first existing
// base/name.
func (r *Resolver) Resolve(name, currentDir string) (string, error) {
	bases := r.Candidates(currentDir)

	if filepath.IsAbs(name) {
		if fileExists(name) {
			return canonical(name)
		}
		return "", &NotFoundError{Name: name, Searched: bases}
	}

	for _, base := range bases {
		cand := filepath.Join(base, name)
		if fileExists(cand) {
			return canonical(cand)
		}
	}
	return "", &NotFoundError{Name: name, Searched: bases}
}

// Canonical makes path absolute and resolves symlinks so one physical file
// always maps to one key.
func Canonical(path string) (string, error) {
	return canonical(path)
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to make %s absolute: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlinks for %s: %w", abs, err)
	}
	return resolved, nil
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
