package engine

import (
	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/store"
)

// Change batches a set of input edits the way the original analyzer's
// `Change` input batches `create_file`/`set_file_contents` calls before a
// single `apply_change`. Unlike the original, whose `create_file` takes an
// already-interned FileId from a separate PathInterner, this port's Store
// unifies path-interning and contents-tracking, so a create operation here
// carries a bare path and interns it as part of being applied.
type Change struct {
	creates []createOp
	edits   []editOp
}

type createOp struct {
	path     string
	dialect  ast.Dialect
	contents []byte
}

type editOp struct {
	file     store.FileId
	contents []byte
}

// NewChange returns an empty Change.
func NewChange() *Change {
	return &Change{}
}

// CreateFile queues a new (or reopened) file at path with the given
// dialect and initial contents. Calling it more than once for the same
// path is legal; each call interns/overwrites independently, the last one
// applied wins.
func (c *Change) CreateFile(path string, dialect ast.Dialect, contents []byte) *Change {
	c.creates = append(c.creates, createOp{path: path, dialect: dialect, contents: contents})
	return c
}

// SetFileContents queues new contents for an already-interned file, the
// edit path for a file a host already holds a FileId for (an LSP
// didChange notification, for instance).
func (c *Change) SetFileContents(file store.FileId, contents []byte) *Change {
	c.edits = append(c.edits, editOp{file: file, contents: contents})
	return c
}
