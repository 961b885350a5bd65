package types

import "fmt"

// FnId identifies a user-defined callable for the Function(FnId) kind:
// either a `def` (by its hir.StmtId) or a `lambda` (by its hir.ExprId).
// It is a plain string, the same representation BuiltinFunction/
// CustomFunction/CustomType ids already use, so Function needs no
// separate interning machinery.
//
// internal/facade recovers the StmtId/ExprId a FnId names via
// ParseFnID, rather than internal/types importing hir itself (which
// would gain it nothing: a Ty never needs to walk the HIR it names).
func DefFnID(stmtID uint32) string    { return fmt.Sprintf("def:%d", stmtID) }
func LambdaFnID(exprID uint32) string { return fmt.Sprintf("lambda:%d", exprID) }

// ParseFnID decodes a FnId built by DefFnID/LambdaFnID. kind is "def" or
// "lambda"; id is the StmtId/ExprId encoded within, respectively.
func ParseFnID(fnID string) (kind string, id uint32, ok bool) {
	var n uint32
	if k, err := fmt.Sscanf(fnID, "def:%d", &n); err == nil && k == 1 {
		return "def", n, true
	}
	if k, err := fmt.Sscanf(fnID, "lambda:%d", &n); err == nil && k == 1 {
		return "lambda", n, true
	}
	return "", 0, false
}
