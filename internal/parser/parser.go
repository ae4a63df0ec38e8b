// Package parser implements a total recursive-descent parser over the
// lexer's layout-annotated token stream (component C). It is total with
// respect to correct programs and aborts on the first unexpected token,
// matching the "no error recovery" policy: a single Diagnostic is
// produced and parsing stops.
package parser

import (
	"fmt"

	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/lexer"
	"github.com/sunholo/complang/internal/location"
)

// Parser walks a fixed slice of TokenInfo, building items directly into a
// shared ast.Store. Most decisions look only at the current and next
// token (cur/peek); constraint contexts and do-statement binds are parsed
// speculatively and rewind p.pos when the attempt fails.
type Parser struct {
	toks  []lexer.TokenInfo
	pos   int
	store *ast.Store
	locs  *location.Table
	file  string

	// pendingSigs holds `name :: Type` declarations not yet matched to
	// their `name args = body` equation, scoped to the current module.
	pendingSigs map[string]*ast.Signature
}

// New creates a Parser over a layout-annotated token stream (see
// lexer.Lex) writing into store.
func New(store *ast.Store, locs *location.Table, toks []lexer.TokenInfo, file string) *Parser {
	return &Parser{toks: toks, store: store, locs: locs, file: file}
}

func (p *Parser) cur() lexer.TokenInfo {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) curTok() lexer.Token { return p.cur().Token }

func (p *Parser) peek() lexer.TokenInfo {
	if p.pos+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+1]
}

func (p *Parser) advance() lexer.TokenInfo {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.curTok().Type == tt }

// expect consumes the current token if it matches tt, else returns a
// ParUnexpectedToken diagnostic (component C's only error path).
func (p *Parser) expect(tt lexer.TokenType) (lexer.TokenInfo, error) {
	if !p.at(tt) {
		return lexer.TokenInfo{}, p.unexpected(tt)
	}
	return p.advance(), nil
}

func (p *Parser) unexpected(want lexer.TokenType) error {
	got := p.curTok()
	msg := fmt.Sprintf("expected %s, found %s %q", want, got.Type, got.Literal)
	return &errcode.Diagnostic{
		Code:     errcode.ParUnexpectedToken,
		Message:  msg,
		Location: p.cur().Loc,
	}
}

func (p *Parser) customError(format string, args ...any) error {
	return &errcode.Diagnostic{
		Code:     errcode.ParCustom,
		Message:  fmt.Sprintf(format, args...),
		Location: p.cur().Loc,
	}
}

// ParseModule parses exactly one `module Name [(exports)] where ...`
// block terminated by EndOfModule, which this parser also consumes.
func (p *Parser) ParseModule() (ast.ModuleID, error) {
	if _, err := p.expect(lexer.MODULE); err != nil {
		return 0, err
	}
	nameTok, err := p.expect(lexer.TYPEIDENT)
	if err != nil {
		return 0, err
	}
	m := &ast.Module{Name: nameTok.Token.Literal, Loc: nameTok.Loc}
	p.pendingSigs = map[string]*ast.Signature{}

	if p.at(lexer.LPAREN) {
		exports, err := p.parseExportList()
		if err != nil {
			return 0, err
		}
		m.Exports = exports
	}

	if _, err := p.expect(lexer.WHERE); err != nil {
		return 0, err
	}

	for !p.at(lexer.ENDOFBLOCK) && !p.at(lexer.ENDOFMODULE) && !p.at(lexer.EOF) {
		if err := p.parseTopLevelItem(m); err != nil {
			return 0, err
		}
	}
	if p.at(lexer.ENDOFBLOCK) {
		p.advance()
	}
	if p.at(lexer.ENDOFMODULE) {
		p.advance()
	}

	return p.store.AddModule(m), nil
}

// ParseModules parses every module in the stream until EOF.
func (p *Parser) ParseModules() ([]ast.ModuleID, error) {
	var ids []ast.ModuleID
	for !p.at(lexer.EOF) {
		id, err := p.ParseModule()
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (p *Parser) parseExportList() ([]ast.ExportItem, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var items []ast.ExportItem
	for !p.at(lexer.RPAREN) {
		item, err := p.parseExportItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *Parser) parseExportItem() (ast.ExportItem, error) {
	tok := p.cur()
	if tok.Token.Type != lexer.IDENT && tok.Token.Type != lexer.TYPEIDENT {
		return ast.ExportItem{}, p.unexpected(lexer.IDENT)
	}
	p.advance()
	item := ast.ExportItem{Name: tok.Token.Literal, Loc: tok.Loc}
	if p.at(lexer.LPAREN) {
		sub, err := p.parseMemberSublist()
		if err != nil {
			return ast.ExportItem{}, err
		}
		item.Members = sub
	}
	return item, nil
}

func (p *Parser) parseMemberSublist() (*ast.MemberSublist, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	if p.at(lexer.DDOT) {
		p.advance()
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return &ast.MemberSublist{All: true}, nil
	}
	var names []string
	for !p.at(lexer.RPAREN) {
		tok, err := p.identLike()
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Token.Literal)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &ast.MemberSublist{Names: names}, nil
}

// identLike accepts either an IDENT or a TYPEIDENT — member lists mix
// lowercase field/method names with uppercase constructor names.
func (p *Parser) identLike() (lexer.TokenInfo, error) {
	if p.at(lexer.IDENT) || p.at(lexer.TYPEIDENT) {
		return p.advance(), nil
	}
	return lexer.TokenInfo{}, p.unexpected(lexer.IDENT)
}

func (p *Parser) parseTopLevelItem(m *ast.Module) error {
	switch p.curTok().Type {
	case lexer.IMPORT:
		return p.parseImport(m)
	case lexer.DATA:
		return p.parseData(m)
	case lexer.CLASS:
		return p.parseClass(m)
	case lexer.INSTANCE:
		return p.parseInstance(m)
	case lexer.EXTERN, lexer.IDENT:
		return p.parseFunctionItem(m)
	default:
		return p.unexpected(lexer.IDENT)
	}
}

// endItem consumes a trailing EndOfItem if present; top-level items at
// module scope don't always get one (module-scope block uses isModule
// semantics in the layout pass, which suppresses EndOfItem/EndOfBlock).
func (p *Parser) endItem() {
	if p.at(lexer.ENDOFITEM) {
		p.advance()
	}
}
