// Package module implements the `resolve_load(file, module_path) -> FileId?`
// host collaborator: turning a load() statement's module path into a file
// on disk, the way a real LSP workspace or build tool would.
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Resolver turns a load() module path into an absolute file path,
// searching relative-to-current-file, the project root, STARSEM_PATH
// entries, and the STARSEM_STDLIB directory in that order. Adapted from
// the teacher's `Resolver` (internal/module/resolver.go), retargeted from
// AILANG's `std/`-prefixed dotted imports to Starlark's `//pkg:file.bzl`
// and relative `:file.bzl` / `file.star` load paths.
type Resolver struct {
	projectRoot   string
	stdlibPath    string
	searchPaths   []string
	caseSensitive bool
}

// NewResolver builds a Resolver rooted at the current working directory,
// reading STARSEM_STDLIB and STARSEM_PATH from the environment.
func NewResolver() *Resolver {
	return &Resolver{
		projectRoot:   findProjectRoot(),
		stdlibPath:    findStdlibPath(),
		searchPaths:   getSearchPaths(),
		caseSensitive: isFileSystemCaseSensitive(),
	}
}

// NormalizePath cleans, absolutizes, and symlink-resolves path, matching
// case on case-insensitive filesystems so two spellings of the same file
// intern to the same FileId.
func (r *Resolver) NormalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	path = filepath.Clean(path)
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to make path absolute: %w", err)
		}
		path = abs
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			return path, nil
		}
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	if !r.caseSensitive {
		resolved = strings.ToLower(resolved)
	}
	return resolved, nil
}

// ResolveLoad resolves a load() module path relative to the file that
// contains the load statement. It supports:
//   - relative paths (":sibling.bzl", "sibling.star")
//   - workspace-rooted paths ("//pkg/sub:file.bzl")
//   - bare names, searched across STARSEM_PATH and STARSEM_STDLIB
func (r *Resolver) ResolveLoad(modulePath, currentFile string) (string, error) {
	switch {
	case strings.HasPrefix(modulePath, "//"):
		return r.resolveWorkspacePath(modulePath)
	case strings.HasPrefix(modulePath, ":") || strings.HasPrefix(modulePath, "./") || strings.HasPrefix(modulePath, "../"):
		return r.resolveRelative(modulePath, currentFile)
	default:
		return r.resolveSearchPath(modulePath, currentFile)
	}
}

func (r *Resolver) resolveWorkspacePath(modulePath string) (string, error) {
	trimmed := strings.TrimPrefix(modulePath, "//")
	pkg, file := splitLabel(trimmed)
	path := filepath.Join(r.projectRoot, filepath.FromSlash(pkg), file)
	normalized, err := r.NormalizePath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(normalized); err != nil {
		return "", fmt.Errorf("module not found: %s", modulePath)
	}
	return normalized, nil
}

func (r *Resolver) resolveRelative(modulePath, currentFile string) (string, error) {
	if currentFile == "" {
		return "", fmt.Errorf("relative load %q requires a current file context", modulePath)
	}
	name := strings.TrimPrefix(modulePath, ":")
	dir := filepath.Dir(currentFile)
	path := filepath.Join(dir, name)
	normalized, err := r.NormalizePath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(normalized); err != nil {
		return "", fmt.Errorf("module not found: %s", modulePath)
	}
	return normalized, nil
}

func (r *Resolver) resolveSearchPath(modulePath, currentFile string) (string, error) {
	candidates := []string{}
	if currentFile != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(currentFile), modulePath))
	}
	candidates = append(candidates, filepath.Join(r.projectRoot, modulePath))
	for _, sp := range r.searchPaths {
		candidates = append(candidates, filepath.Join(sp, modulePath))
	}
	candidates = append(candidates, filepath.Join(r.stdlibPath, modulePath))

	for _, c := range candidates {
		normalized, err := r.NormalizePath(c)
		if err != nil {
			continue
		}
		if _, err := os.Stat(normalized); err == nil {
			return normalized, nil
		}
	}
	return "", fmt.Errorf("module not found: %s", modulePath)
}

// splitLabel splits "pkg/sub:file.bzl" into ("pkg/sub", "file.bzl"). A
// label with no ':' is kept whole as the package and its last path
// segment is used as the file basename (BUILD-file shorthand).
func splitLabel(label string) (pkg, file string) {
	if idx := strings.LastIndex(label, ":"); idx >= 0 {
		return label[:idx], label[idx+1:]
	}
	return label, filepath.Base(label)
}

func findProjectRoot() string {
	markers := []string{"go.mod", ".git", "WORKSPACE", "MODULE.bazel"}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	pwd, _ := os.Getwd()
	return pwd
}

func findStdlibPath() string {
	if stdlib := os.Getenv("STARSEM_STDLIB"); stdlib != "" {
		return stdlib
	}
	if exe, err := os.Executable(); err == nil {
		for _, candidate := range []string{
			filepath.Join(filepath.Dir(exe), "..", "stdlib"),
			filepath.Join(filepath.Dir(exe), "stdlib"),
		} {
			if info, err := os.Stat(candidate); err == nil && info.IsDir() {
				return candidate
			}
		}
	}
	projectRoot := findProjectRoot()
	stdlib := filepath.Join(projectRoot, "stdlib")
	if info, err := os.Stat(stdlib); err == nil && info.IsDir() {
		return stdlib
	}
	return filepath.Join(".", "stdlib")
}

func getSearchPaths() []string {
	var paths []string
	if starsemPath := os.Getenv("STARSEM_PATH"); starsemPath != "" {
		for _, p := range strings.Split(starsemPath, string(os.PathListSeparator)) {
			if p != "" {
				paths = append(paths, p)
			}
		}
	}
	paths = append(paths, findProjectRoot())
	return paths
}

func isFileSystemCaseSensitive() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return false
	default:
		return true
	}
}
