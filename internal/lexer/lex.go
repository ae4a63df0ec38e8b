package lexer

import "github.com/sunholo/complang/internal/location"

// TokenInfo pairs a token with the LocationID it was registered under in
// the shared location table (spec §4.1 lexer output).
type TokenInfo struct {
	Token Token
	Loc   location.ID
}

// Lex runs the full lexer pipeline over src: BOM/NFC normalization, raw
// tokenization, layout inference, and float synthesis, registering every
// token's position in locs. It returns the layout-annotated TokenInfo
// stream plus a batch of non-fatal lexer errors (UnsupportedCharacter,
// InvalidEscape, UnterminatedStringLiteral, ...). A fatal error (an
// unterminated block comment, or a layout failure) is returned as the error
// result, alongside the non-fatal errors found before it, with no tokens.
func Lex(locs *location.Table, filename string, src []byte) ([]TokenInfo, []Error, error) {
	normalized := Normalize(src)
	l := New(string(normalized), filename)
	raw, errs, fatal := l.Tokenize()
	if fatal != nil {
		return nil, errs, fatal
	}
	laidOut, err := ApplyLayout(raw)
	if err != nil {
		return nil, errs, err
	}
	infos := make([]TokenInfo, 0, len(laidOut))
	for _, tok := range laidOut {
		id := locs.Add(location.Info{
			File: tok.File,
			Line: tok.Line,
			Span: location.Span{Start: tok.Column, End: tok.Column + len(tok.Literal)},
		})
		infos = append(infos, TokenInfo{Token: tok, Loc: id})
	}
	return infos, errs, nil
}
