package parser

import (
	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/lexer"
)

// parseTypeSig parses a full type signature, including the top-level
// arrow chain (right-associative: `A -> B -> C` is `A -> (B -> C)`).
func (p *Parser) parseTypeSig() (ast.TypeSigID, error) {
	from, err := p.parseTypeApp()
	if err != nil {
		return 0, err
	}
	if p.at(lexer.ARROW) {
		tok := p.advance()
		to, err := p.parseTypeSig()
		if err != nil {
			return 0, err
		}
		return p.store.AddTypeSig(tok.Loc, ast.FunctionSig{From: from, To: to}), nil
	}
	return from, nil
}

// parseTypeApp parses a named type applied to zero or more atomic
// arguments: `Map k v`, `List a`, or a bare atom.
func (p *Parser) parseTypeApp() (ast.TypeSigID, error) {
	if p.at(lexer.TYPEIDENT) {
		tok := p.advance()
		var args []ast.TypeSigID
		for p.isTypeAtomStart() {
			a, err := p.parseTypeAtom()
			if err != nil {
				return 0, err
			}
			args = append(args, a)
		}
		return p.store.AddTypeSig(tok.Loc, ast.NamedSig{Name: tok.Token.Literal, Args: args}), nil
	}
	return p.parseTypeAtom()
}

func (p *Parser) isTypeAtomStart() bool {
	switch p.curTok().Type {
	case lexer.TYPEIDENT, lexer.IDENT, lexer.LPAREN, lexer.WILDCARD:
		return true
	}
	return false
}

func (p *Parser) parseTypeAtom() (ast.TypeSigID, error) {
	tok := p.cur()
	switch tok.Token.Type {
	case lexer.IDENT:
		p.advance()
		return p.store.AddTypeSig(tok.Loc, ast.TypeArgSig{Name: tok.Token.Literal}), nil
	case lexer.WILDCARD:
		p.advance()
		return p.store.AddTypeSig(tok.Loc, ast.WildcardSig{}), nil
	case lexer.TYPEIDENT:
		p.advance()
		return p.store.AddTypeSig(tok.Loc, ast.NamedSig{Name: tok.Token.Literal}), nil
	case lexer.LPAREN:
		p.advance()
		if p.at(lexer.RPAREN) {
			p.advance()
			return p.store.AddTypeSig(tok.Loc, ast.TupleSig{}), nil
		}
		first, err := p.parseTypeSig()
		if err != nil {
			return 0, err
		}
		if p.at(lexer.COMMA) {
			elems := []ast.TypeSigID{first}
			for p.at(lexer.COMMA) {
				p.advance()
				e, err := p.parseTypeSig()
				if err != nil {
					return 0, err
				}
				elems = append(elems, e)
			}
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return 0, err
			}
			return p.store.AddTypeSig(tok.Loc, ast.TupleSig{Elems: elems}), nil
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return 0, err
		}
		return first, nil
	default:
		return 0, p.unexpected(lexer.TYPEIDENT)
	}
}
