package builtins

import (
	_ "embed"
	"fmt"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/types"
)

//go:embed data/standard.yaml
var standardDescriptor []byte

//go:embed data/bazel.yaml
var bazelDescriptor []byte

// ForDialect loads and freezes the catalog bundled for dialect, using in
// as the shared Ty interner. The embedded descriptors stand in for the
// "externally-provided" descriptor spec.md §4.5 describes: Load itself
// is agnostic to where the bytes came from, so an engine embedding this
// module for a different host (a non-Bazel build system with its own
// custom globals) can call Load directly with its own YAML instead.
func ForDialect(in *types.Interner, dialect ast.Dialect) (*Catalog, error) {
	switch dialect {
	case ast.Standard:
		return Load(in, dialect, standardDescriptor)
	case ast.Bazel:
		return Load(in, dialect, bazelDescriptor)
	default:
		return nil, fmt.Errorf("builtins: unknown dialect %v", dialect)
	}
}
