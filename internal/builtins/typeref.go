package builtins

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/starlark-lsp/semcore/internal/types"
)

// parseTypeRef parses the catalog descriptor's small type-reference
// language into an interned Ty: predefined scalar names, list[T],
// dict[K,V], tuple[T1,T2,...] (Fixed) or tuple[T,...] (Variable), and
// $N for BoundVar(N). Any other bare name is looked up in custom, the
// set of custom type names this descriptor declares, resolved in a
// second loading pass so forward references between custom types work.
func parseTypeRef(in *types.Interner, custom map[string]types.Ty, s string) (types.Ty, error) {
	p := &typeRefParser{in: in, custom: custom, s: s}
	ty, err := p.parse()
	if err != nil {
		return types.Ty{}, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return types.Ty{}, fmt.Errorf("unexpected trailing input in type ref %q at %d", s, p.pos)
	}
	return ty, nil
}

type typeRefParser struct {
	in     *types.Interner
	custom map[string]types.Ty
	s      string
	pos    int
}

func (p *typeRefParser) skipSpace() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeRefParser) parse() (types.Ty, error) {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return types.Ty{}, fmt.Errorf("empty type ref")
	}
	if p.s[p.pos] == '$' {
		p.pos++
		start := p.pos
		for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
			p.pos++
		}
		if start == p.pos {
			return types.Ty{}, fmt.Errorf("expected digits after '$' in %q", p.s)
		}
		n, _ := strconv.Atoi(p.s[start:p.pos])
		return p.in.BoundVar(n), nil
	}

	start := p.pos
	for p.pos < len(p.s) && isIdentByte(p.s[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return types.Ty{}, fmt.Errorf("expected a type name in %q at %d", p.s, p.pos)
	}
	name := p.s[start:p.pos]

	switch name {
	case "list":
		elems, err := p.parseArgs(1)
		if err != nil {
			return types.Ty{}, err
		}
		return p.in.List(elems[0]), nil
	case "dict":
		elems, err := p.parseArgs(2)
		if err != nil {
			return types.Ty{}, err
		}
		return p.in.Dict(elems[0], elems[1]), nil
	case "tuple":
		return p.parseTuple()
	}

	if p.pos < len(p.s) && p.s[p.pos] == '[' {
		return types.Ty{}, fmt.Errorf("type %q does not take parameters", name)
	}
	if ty, ok := resolvePredefined(p.in, name); ok {
		return ty, nil
	}
	if ty, ok := p.custom[name]; ok {
		return ty, nil
	}
	return types.Ty{}, fmt.Errorf("unknown type name %q in type ref %q", name, p.s)
}

func (p *typeRefParser) parseArgs(n int) ([]types.Ty, error) {
	if p.pos >= len(p.s) || p.s[p.pos] != '[' {
		return nil, fmt.Errorf("expected '[' in %q at %d", p.s, p.pos)
	}
	p.pos++
	out := make([]types.Ty, 0, n)
	for i := 0; i < n; i++ {
		ty, err := p.parse()
		if err != nil {
			return nil, err
		}
		out = append(out, ty)
		p.skipSpace()
		if i < n-1 {
			if p.pos >= len(p.s) || p.s[p.pos] != ',' {
				return nil, fmt.Errorf("expected ',' in %q at %d", p.s, p.pos)
			}
			p.pos++
		}
	}
	p.skipSpace()
	if p.pos >= len(p.s) || p.s[p.pos] != ']' {
		return nil, fmt.Errorf("expected ']' in %q at %d", p.s, p.pos)
	}
	p.pos++
	return out, nil
}

func (p *typeRefParser) parseTuple() (types.Ty, error) {
	if p.pos >= len(p.s) || p.s[p.pos] != '[' {
		return types.Ty{}, fmt.Errorf("expected '[' in %q at %d", p.s, p.pos)
	}
	p.pos++
	var elems []types.Ty
	for {
		p.skipSpace()
		if strings.HasPrefix(p.s[p.pos:], "...") {
			p.pos += 3
			if len(elems) != 1 {
				return types.Ty{}, fmt.Errorf("variable tuple takes exactly one element type in %q", p.s)
			}
			p.skipSpace()
			if p.pos >= len(p.s) || p.s[p.pos] != ']' {
				return types.Ty{}, fmt.Errorf("expected ']' after '...' in %q", p.s)
			}
			p.pos++
			return p.in.TupleVariable(elems[0]), nil
		}
		ty, err := p.parse()
		if err != nil {
			return types.Ty{}, err
		}
		elems = append(elems, ty)
		p.skipSpace()
		if p.pos < len(p.s) && p.s[p.pos] == ',' {
			p.pos++
			continue
		}
		break
	}
	p.skipSpace()
	if p.pos >= len(p.s) || p.s[p.pos] != ']' {
		return types.Ty{}, fmt.Errorf("expected ']' in %q at %d", p.s, p.pos)
	}
	p.pos++
	return p.in.TupleFixed(elems), nil
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// resolvePredefined recognizes the argument-free predefined names
// spec.md §4.6's resolve_type_ref rule names: None/NoneType, bool, int,
// float, string, bytes, range, plus bare (element-less) list/dict
// resolving to List(Unknown)/Dict(Unknown, Unknown), and the two escape
// hatches any/unknown used by descriptor authors who want to opt a slot
// out of checking entirely.
func resolvePredefined(in *types.Interner, name string) (types.Ty, bool) {
	switch name {
	case "None", "NoneType":
		return in.None(), true
	case "bool":
		return in.Bool(), true
	case "int":
		return in.Int(), true
	case "float":
		return in.Float(), true
	case "string":
		return in.String(), true
	case "bytes":
		return in.Bytes(), true
	case "range":
		return in.Range(), true
	case "any":
		return in.Any(), true
	case "unknown":
		return in.Unknown(), true
	case "list":
		return in.List(in.Unknown()), true
	case "dict":
		return in.Dict(in.Unknown(), in.Unknown()), true
	}
	return types.Ty{}, false
}
