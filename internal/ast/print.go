package ast

import (
	"fmt"
	"strings"
)

// Print renders a File as a deterministic, indentation-based text form
// suitable for golden-file tests. It is not a source-code pretty-printer;
// it exists so tests can assert on tree shape without depending on byte
// offsets.
func Print(f *File) string {
	var b strings.Builder
	for _, stmt := range f.TopLevel {
		printStmt(&b, stmt, 0)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func printStmt(b *strings.Builder, s Stmt, depth int) {
	indent(b, depth)
	switch st := s.(type) {
	case *AssignStmt:
		fmt.Fprintf(b, "Assign(%s = %s)\n", printExpr(st.Lhs), printExpr(st.Rhs))
	case *DefStmt:
		fmt.Fprintf(b, "Def(%s, params=%s)\n", st.Name, printParams(st.Params))
		for _, body := range st.Body {
			printStmt(b, body, depth+1)
		}
	case *IfStmt:
		fmt.Fprintf(b, "If(%s)\n", printExpr(st.Test))
		for _, body := range st.Body {
			printStmt(b, body, depth+1)
		}
		if st.ElifStmt != nil {
			indent(b, depth)
			b.WriteString("Elif\n")
			printStmt(b, st.ElifStmt, depth+1)
		} else if st.ElseStmts != nil {
			indent(b, depth)
			b.WriteString("Else\n")
			for _, body := range st.ElseStmts {
				printStmt(b, body, depth+1)
			}
		}
	case *ForStmt:
		fmt.Fprintf(b, "For(%s in %s)\n", printExprList(st.Targets), printExpr(st.Iterable))
		for _, body := range st.Body {
			printStmt(b, body, depth+1)
		}
	case *ReturnStmt:
		if st.X == nil {
			b.WriteString("Return()\n")
		} else {
			fmt.Fprintf(b, "Return(%s)\n", printExpr(st.X))
		}
	case *ExprStmt:
		fmt.Fprintf(b, "ExprStmt(%s)\n", printExpr(st.X))
	case *LoadStmt:
		fmt.Fprintf(b, "Load(%q, %s)\n", st.ModulePath, printLoadItems(st.Items))
	case *BreakStmt:
		b.WriteString("Break\n")
	case *ContinueStmt:
		b.WriteString("Continue\n")
	case *PassStmt:
		b.WriteString("Pass\n")
	default:
		fmt.Fprintf(b, "<unknown stmt %T>\n", s)
	}
}

func printParams(params []*Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		switch p.PKind {
		case ParamArgsList:
			parts[i] = "*" + p.Name
		case ParamKwargsList:
			parts[i] = "**" + p.Name
		default:
			if p.Default != nil {
				parts[i] = p.Name + "=" + printExpr(p.Default)
			} else {
				parts[i] = p.Name
			}
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func printLoadItems(items []*LoadItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		if it.LocalName == it.SourceName {
			parts[i] = fmt.Sprintf("%q", it.SourceName)
		} else {
			parts[i] = fmt.Sprintf("%s=%q", it.LocalName, it.SourceName)
		}
	}
	return strings.Join(parts, ", ")
}

func printExprList(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = printExpr(e)
	}
	return strings.Join(parts, ", ")
}

func printExpr(e Expr) string {
	switch x := e.(type) {
	case nil:
		return "<nil>"
	case *BadExpr:
		return "<bad>"
	case *Name:
		return x.Ident
	case *Literal:
		switch x.LitKind {
		case StringLit:
			return fmt.Sprintf("%q", x.Value)
		case NoneLit:
			return "None"
		default:
			return fmt.Sprintf("%v", x.Value)
		}
	case *List:
		return "[" + printExprList(x.Elems) + "]"
	case *Tuple:
		return "(" + printExprList(x.Elems) + ")"
	case *Dict:
		parts := make([]string, len(x.Entries))
		for i, entry := range x.Entries {
			parts[i] = printExpr(entry.Key) + ": " + printExpr(entry.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ListComp:
		return "[" + printExpr(x.Body) + printCompClauses(x.Clauses) + "]"
	case *DictComp:
		return "{" + printExpr(x.Key) + ": " + printExpr(x.Value) + printCompClauses(x.Clauses) + "}"
	case *Unary:
		return unaryOpStr(x.Op) + printExpr(x.X)
	case *Binary:
		return printExpr(x.X) + " " + binaryOpStr(x.Op) + " " + printExpr(x.Y)
	case *Dot:
		if !x.HasName {
			return printExpr(x.Receiver) + ".<missing>"
		}
		return printExpr(x.Receiver) + "." + x.Name
	case *Index:
		return printExpr(x.Receiver) + "[" + printExpr(x.Index) + "]"
	case *Call:
		parts := make([]string, len(x.Args))
		for i, arg := range x.Args {
			switch arg.ArgKind {
			case ArgKeyword:
				parts[i] = arg.Name + "=" + printExpr(arg.X)
			case ArgUnpackedList:
				parts[i] = "*" + printExpr(arg.X)
			case ArgUnpackedDict:
				parts[i] = "**" + printExpr(arg.X)
			default:
				parts[i] = printExpr(arg.X)
			}
		}
		return printExpr(x.Callee) + "(" + strings.Join(parts, ", ") + ")"
	case *Paren:
		return "(" + printExpr(x.X) + ")"
	case *Lambda:
		return "lambda " + printParams(x.Params) + ": " + printExpr(x.Body)
	case *IfExpr:
		return printExpr(x.Then) + " if " + printExpr(x.Test) + " else " + printExpr(x.Else)
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func printCompClauses(clauses []CompClause) string {
	var b strings.Builder
	for _, c := range clauses {
		switch c.ClauseKind {
		case CompFor:
			fmt.Fprintf(&b, " for %s in %s", printExprList(c.Targets), printExpr(c.Iterable))
		case CompIf:
			fmt.Fprintf(&b, " if %s", printExpr(c.Test))
		}
	}
	return b.String()
}

func unaryOpStr(op UnaryOp) string {
	switch op {
	case OpNeg:
		return "-"
	case OpPos:
		return "+"
	case OpInvert:
		return "~"
	case OpNot:
		return "not "
	default:
		return "<?>"
	}
}

func binaryOpStr(op BinaryOp) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpFloorDiv:
		return "//"
	case OpMod:
		return "%"
	case OpBitAnd:
		return "&"
	case OpBitOr:
		return "|"
	case OpBitXor:
		return "^"
	case OpShiftLeft:
		return "<<"
	case OpShiftRight:
		return ">>"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpIn:
		return "in"
	case OpNotIn:
		return "not in"
	default:
		return "<?>"
	}
}
