// Package store holds the source-of-truth file table the query engine
// reads from: interned FileIds, their dialect and contents, and the
// revision counter that changes bump.
package store

import (
	"sync"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/lexer"
)

// FileId is a small dense identifier for an interned file path. It is
// stable for the lifetime of a Store and is the key every downstream
// query (parse, lower, resolve, infer) is keyed on.
type FileId uint32

// File is the store's record for one FileId: its canonical path, dialect,
// and current contents.
type File struct {
	Id        FileId
	Path      string
	Dialect   ast.Dialect
	Contents  string
	ChangedAt uint64 // store revision at which Contents was last set
}

// Store interns file paths to FileIds and tracks the current contents of
// each file plus a global revision counter. It follows the teacher's
// cache-guarded-by-RWMutex idiom (internal/module/loader.go's
// `cache map[string]*Module` protected by sync.RWMutex) generalized to a
// path<->id intern table.
type Store struct {
	mu       sync.RWMutex
	byPath   map[string]FileId
	files    []File
	revision uint64
}

// New creates an empty Store.
func New() *Store {
	return &Store{byPath: make(map[string]FileId)}
}

// Revision returns the current global revision. Every ApplyChange call
// bumps it. The query layer does not read it; memo entries record each
// file's own revision instead.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Intern returns the FileId for path, creating one with empty contents if
// this is the first time path has been seen.
func (s *Store) Intern(path string, dialect ast.Dialect) FileId {
	s.mu.RLock()
	if id, ok := s.byPath[path]; ok {
		s.mu.RUnlock()
		return id
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byPath[path]; ok {
		return id
	}
	id := FileId(len(s.files))
	s.files = append(s.files, File{Id: id, Path: path, Dialect: dialect})
	s.byPath[path] = id
	return id
}

// Lookup returns the FileId already interned for path, if any.
func (s *Store) Lookup(path string) (FileId, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPath[path]
	return id, ok
}

// File returns the current record for id.
func (s *Store) File(id FileId) File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files[id]
}

// ApplyChange sets new contents for a file (normalizing BOM/NFC the way
// the lexer expects at its input boundary) and bumps the store's
// revision, invalidating every query that read this file at an earlier
// revision.
func (s *Store) ApplyChange(id FileId, contents []byte) {
	normalized := string(lexer.Normalize(contents))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revision++
	s.files[id].Contents = normalized
	s.files[id].ChangedAt = s.revision
}

// ChangedAt returns the store revision at which id's contents were last
// set. A query's cached read-set records this value for every file it
// reads; revalidation compares it against the file's current ChangedAt.
func (s *Store) ChangedAt(id FileId) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files[id].ChangedAt
}

// Paths returns every path currently interned, in FileId order.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.files))
	for i, f := range s.files {
		out[i] = f.Path
	}
	return out
}
