package query

import "github.com/starlark-lsp/semcore/internal/store"

// FileDep is a Dep over one file's contents in a store.Store. Every
// query that reads a file's text (parsing, most directly) should record
// a FileDep so an ApplyChange to that file invalidates it.
type FileDep struct {
	Store *store.Store
	Id    store.FileId
}

// Revision implements Dep.
func (d FileDep) Revision() Revision { return d.Store.ChangedAt(d.Id) }
