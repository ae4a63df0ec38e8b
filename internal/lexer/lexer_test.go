package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestTokenize_Keywords(t *testing.T) {
	l := New("module data where import if then else do True False as extern hiding case of class instance protocol actor _", "t.src")
	toks, errs, err := l.Tokenize()
	require.NoError(t, err)
	require.Empty(t, errs)
	want := []TokenType{MODULE, DATA, WHERE, IMPORT, IF, THEN, ELSE, DO, TRUE, FALSE, AS, EXTERN, HIDING, CASE, OF, CLASS, INSTANCE, PROTOCOL, ACTOR, WILDCARD, EOF}
	assert.Equal(t, want, tokenTypes(toks))
}

func TestTokenize_Identifiers(t *testing.T) {
	l := New("foo Bar _baz qux2", "t.src")
	toks, _, err := l.Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{IDENT, TYPEIDENT, IDENT, IDENT, EOF}, tokenTypes(toks))
}

func TestTokenize_Operators_LongestMatch(t *testing.T) {
	l := New("|> && || == != <= >= <- -> :: .. =>", "t.src")
	toks, errs, err := l.Tokenize()
	require.NoError(t, err)
	require.Empty(t, errs)
	want := []TokenType{PIPEFWD, AMPAMP, PIPEPIPE, EQEQ, NEQ, LTE, GTE, BIND, ARROW, DCOLON, DDOT, FATARROW, EOF}
	assert.Equal(t, want, tokenTypes(toks))
}

func TestTokenize_UnknownOperatorCombination(t *testing.T) {
	// '&' alone is not a valid operator (only '&&' is recognized)
	l := New("&", "t.src")
	_, errs, err := l.Tokenize()
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "UnknownOperator", errs[0].Kind)
}

func TestTokenize_StringLiteral(t *testing.T) {
	l := New(`"hello\nworld"`, "t.src")
	toks, errs, err := l.Tokenize()
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Len(t, toks, 2)
	assert.Equal(t, STRING, toks[0].Type)
	assert.Equal(t, "hello\nworld", toks[0].Literal)
}

func TestTokenize_UnterminatedString(t *testing.T) {
	l := New(`"hello`, "t.src")
	_, errs, err := l.Tokenize()
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "UnterminatedStringLiteral", errs[0].Kind)
}

func TestTokenize_InvalidEscape(t *testing.T) {
	l := New(`"bad\qescape"`, "t.src")
	_, errs, err := l.Tokenize()
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "InvalidEscape", errs[0].Kind)
}

func TestTokenize_LineComments(t *testing.T) {
	for _, src := range []string{"x -- comment\ny", "x // comment\ny"} {
		l := New(src, "t.src")
		toks, _, err := l.Tokenize()
		require.NoError(t, err)
		assert.Equal(t, []TokenType{IDENT, IDENT, EOF}, tokenTypes(toks))
	}
}

func TestTokenize_NestedBlockComments(t *testing.T) {
	for _, src := range []string{"x /* a /* b */ c */ y", "x {- a {- b -} c -} y"} {
		l := New(src, "t.src")
		toks, _, err := l.Tokenize()
		require.NoError(t, err)
		assert.Equal(t, []TokenType{IDENT, IDENT, EOF}, tokenTypes(toks))
	}
}

func TestTokenize_UnterminatedBlockComment(t *testing.T) {
	l := New("x /* never closed", "t.src")
	_, _, err := l.Tokenize()
	require.Error(t, err)
	lerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, "UnterminatedBlockComment", lerr.Kind)
}

func TestTokenize_UnsupportedCharacter(t *testing.T) {
	l := New("x ^ y", "t.src")
	toks, errs, err := l.Tokenize()
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "UnsupportedCharacter", errs[0].Kind)
	assert.Equal(t, []TokenType{IDENT, IDENT, EOF}, tokenTypes(toks))
}

func TestLayout_SimpleModule(t *testing.T) {
	src := "module Main where\n  f = 1\n  g = 2\n"
	l := New(src, "t.src")
	raw, _, err := l.Tokenize()
	require.NoError(t, err)
	out, err := ApplyLayout(raw)
	require.NoError(t, err)

	var types []TokenType
	for _, tok := range out {
		types = append(types, tok.Type)
	}
	want := []TokenType{
		MODULE, TYPEIDENT, WHERE,
		IDENT, ASSIGN, INT, ENDOFITEM,
		IDENT, ASSIGN, INT, ENDOFITEM,
		ENDOFBLOCK, ENDOFMODULE, EOF,
	}
	assert.Equal(t, want, types)
}

func TestMergeFloats(t *testing.T) {
	l := New("3.14", "t.src")
	toks, errs, err := l.Tokenize()
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Equal(t, []TokenType{INT, DOT, INT, EOF}, tokenTypes(toks))

	out := mergeFloats(toks)
	require.Len(t, out, 2) // FLOAT, EOF
	assert.Equal(t, FLOAT, out[0].Type)
	assert.Equal(t, "3.14", out[0].Literal)
}

func TestMergeFloats_NotAdjacent(t *testing.T) {
	// "3 . 14" with whitespace is NOT a float: the dot's column isn't
	// adjacent to either integer.
	l := New("3 . 14", "t.src")
	toks, _, err := l.Tokenize()
	require.NoError(t, err)
	out := mergeFloats(toks)
	assert.Equal(t, []TokenType{INT, DOT, INT, EOF}, tokenTypes(out))
}
