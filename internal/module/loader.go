package module

import (
	"os"
	"sync"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/store"
)

// LoadResolver is the host collaborator spec.md calls
// `resolve_load(file, module_path) -> FileId?`: given the file containing a
// load() statement and the literal module path it names, produce the
// FileId of the loaded file, or a diagnostic if it can't be found.
type LoadResolver interface {
	ResolveLoad(from store.FileId, modulePath string) (store.FileId, *errors.Report)
}

// Loader is the default LoadResolver, backed by a Resolver for path
// search and a Store for interning resolved paths to FileIds. It caches
// a (from, modulePath) -> FileId map the way the teacher's
// `internal/module/loader.go` cached modules by identity behind a
// sync.RWMutex, adapted here from a full module-loader (exports,
// dependency graph) down to the narrower resolve_load boundary this
// core actually needs — the query engine, not this package, owns
// dependency-cycle memoization.
type Loader struct {
	resolver *Resolver
	store    *store.Store

	mu    sync.RWMutex
	cache map[loadKey]store.FileId
}

type loadKey struct {
	from       store.FileId
	modulePath string
}

// NewLoader builds a Loader over st, using a fresh path Resolver.
func NewLoader(st *store.Store) *Loader {
	return &Loader{
		resolver: NewResolver(),
		store:    st,
		cache:    make(map[loadKey]store.FileId),
	}
}

// ResolveLoad implements LoadResolver.
func (l *Loader) ResolveLoad(from store.FileId, modulePath string) (store.FileId, *errors.Report) {
	key := loadKey{from, modulePath}

	l.mu.RLock()
	if id, ok := l.cache[key]; ok {
		l.mu.RUnlock()
		return id, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if id, ok := l.cache[key]; ok {
		return id, nil
	}

	currentFile := l.store.File(from).Path
	resolvedPath, err := l.resolver.ResolveLoad(modulePath, currentFile)
	if err != nil {
		return 0, &errors.Report{
			Code:    errors.RES001,
			Phase:   "module",
			Message: err.Error(),
		}
	}

	dialect := inferDialect(resolvedPath)
	id := l.store.Intern(resolvedPath, dialect)
	if l.store.File(id).Contents == "" {
		if contents, readErr := os.ReadFile(resolvedPath); readErr == nil {
			l.store.ApplyChange(id, contents)
		}
	}

	l.cache[key] = id
	return id, nil
}

// inferDialect mirrors the CLI's dialect-from-basename rule (spec.md §6):
// BUILD and WORKSPACE files (and their .bazel variants) are Bazel dialect;
// everything else is Standard.
func inferDialect(path string) ast.Dialect {
	base := baseName(path)
	switch base {
	case "BUILD", "BUILD.bazel", "WORKSPACE", "WORKSPACE.bazel":
		return ast.Bazel
	default:
		return ast.Standard
	}
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
