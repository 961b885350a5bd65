package lexer

import "testing"

func TestNextTokenSimple(t *testing.T) {
	input := `x = 5 + 10
def add(a, b=1, *args, **kwargs):
    return a + b

if x > 10 and not y:
    pass
elif x == 0:
    continue
else:
    break

[1, 2, 3]
{"a": 1, "b": 2}
load("//foo:bar.bzl", "baz", qux="quux")
# a comment
x // y % 2
`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{IDENT, "x"}, {ASSIGN, "="}, {INT, "5"}, {PLUS, "+"}, {INT, "10"}, {NEWLINE, "\n"},

		{DEF, "def"}, {IDENT, "add"}, {LPAREN, "("},
		{IDENT, "a"}, {COMMA, ","},
		{IDENT, "b"}, {ASSIGN, "="}, {INT, "1"}, {COMMA, ","},
		{STAR, "*"}, {IDENT, "args"}, {COMMA, ","},
		{STAR, "*"}, {STAR, "*"}, {IDENT, "kwargs"},
		{RPAREN, ")"}, {COLON, ":"}, {NEWLINE, "\n"},
		{INDENT, ""},
		{RETURN, "return"}, {IDENT, "a"}, {PLUS, "+"}, {IDENT, "b"}, {NEWLINE, "\n"},
		{DEDENT, ""},

		{IF, "if"}, {IDENT, "x"}, {GT, ">"}, {INT, "10"}, {AND, "and"}, {NOT, "not"}, {IDENT, "y"}, {COLON, ":"}, {NEWLINE, "\n"},
		{INDENT, ""},
		{PASS, "pass"}, {NEWLINE, "\n"},
		{DEDENT, ""},
		{ELIF, "elif"}, {IDENT, "x"}, {EQ, "=="}, {INT, "0"}, {COLON, ":"}, {NEWLINE, "\n"},
		{INDENT, ""},
		{CONTINUE, "continue"}, {NEWLINE, "\n"},
		{DEDENT, ""},
		{ELSE, "else"}, {COLON, ":"}, {NEWLINE, "\n"},
		{INDENT, ""},
		{BREAK, "break"}, {NEWLINE, "\n"},
		{DEDENT, ""},

		{LBRACK, "["}, {INT, "1"}, {COMMA, ","}, {INT, "2"}, {COMMA, ","}, {INT, "3"}, {RBRACK, "]"}, {NEWLINE, "\n"},
		{LBRACE, "{"}, {STRING, "a"}, {COLON, ":"}, {INT, "1"}, {COMMA, ","}, {STRING, "b"}, {COLON, ":"}, {INT, "2"}, {RBRACE, "}"}, {NEWLINE, "\n"},
		{LOAD, "load"}, {LPAREN, "("}, {STRING, "//foo:bar.bzl"}, {COMMA, ","}, {STRING, "baz"}, {COMMA, ","}, {IDENT, "qux"}, {ASSIGN, "="}, {STRING, "quux"}, {RPAREN, ")"}, {NEWLINE, "\n"},
		{IDENT, "x"}, {DSLASH, "//"}, {IDENT, "y"}, {PERCENT, "%"}, {INT, "2"}, {NEWLINE, "\n"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("test[%d] - tokentype wrong. expected=%s, got=%s (literal %q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("test[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestIndentationDedentAtEOF(t *testing.T) {
	input := "def f():\n    return 1\n"
	l := New(input)
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	want := []TokenType{DEF, IDENT, LPAREN, RPAREN, COLON, NEWLINE, INDENT, RETURN, INT, NEWLINE, DEDENT, EOF}
	if len(types) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(types), types, len(want), want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token[%d] = %s, want %s", i, types[i], want[i])
		}
	}
}

func TestBlankAndCommentLinesDoNotAffectIndent(t *testing.T) {
	input := "def f():\n\n    # comment\n    return 1\n"
	l := New(input)
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	indents := 0
	for _, typ := range types {
		if typ == INDENT {
			indents++
		}
	}
	if indents != 1 {
		t.Fatalf("expected exactly 1 INDENT, got %d in %v", indents, types)
	}
}

func TestBracketsSuppressNewline(t *testing.T) {
	input := "x = [\n1,\n2,\n]\n"
	l := New(input)
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	want := []TokenType{IDENT, ASSIGN, LBRACK, INT, COMMA, INT, COMMA, RBRACK, NEWLINE, EOF}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token[%d] = %s, want %s", i, types[i], want[i])
		}
	}
}
