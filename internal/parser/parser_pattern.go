package parser

import (
	"strconv"

	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/lexer"
)

// parseCasePattern parses a full case-alternative pattern, including
// or-patterns (`p1 | p2 | ...`) (component D). It is also used for a
// parenthesized pattern and for each field pattern of a record pattern.
func (p *Parser) parseCasePattern() (ast.PatternID, error) {
	first, err := p.parseTypedPattern()
	if err != nil {
		return 0, err
	}
	if !p.at(lexer.PIPE) {
		return first, nil
	}
	alts := []ast.PatternID{first}
	loc := p.store.PatternLoc(first)
	for p.at(lexer.PIPE) {
		p.advance()
		alt, err := p.parseTypedPattern()
		if err != nil {
			return 0, err
		}
		alts = append(alts, alt)
	}
	return p.store.AddPattern(loc, ast.OrPattern{Alts: alts}), nil
}

// parseIrrefutablePattern parses a pattern in a position requiring
// irrefutability (function args, `<-` binds). It does not consume a
// top-level `|`; an or-pattern inside parentheses or inside a record field
// pattern is still parsed, through parseCasePattern.
func (p *Parser) parseIrrefutablePattern() (ast.PatternID, error) {
	return p.parseTypedPattern()
}

func (p *Parser) parseTypedPattern() (ast.PatternID, error) {
	pat, err := p.parseGuardedPattern()
	if err != nil {
		return 0, err
	}
	if p.at(lexer.DCOLON) {
		tok := p.advance()
		sig, err := p.parseTypeSig()
		if err != nil {
			return 0, err
		}
		return p.store.AddPattern(tok.Loc, ast.TypedPattern{Pat: pat, Sig: sig}), nil
	}
	return pat, nil
}

func (p *Parser) parseGuardedPattern() (ast.PatternID, error) {
	pat, err := p.parsePatternAtom()
	if err != nil {
		return 0, err
	}
	if p.at(lexer.IF) {
		tok := p.advance()
		guard, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		return p.store.AddPattern(tok.Loc, ast.GuardedPattern{Pat: pat, Guard: guard}), nil
	}
	return pat, nil
}

func (p *Parser) parsePatternAtom() (ast.PatternID, error) {
	tok := p.cur()
	switch tok.Token.Type {
	case lexer.WILDCARD:
		p.advance()
		return p.store.AddPattern(tok.Loc, ast.WildcardPattern{}), nil
	case lexer.IDENT:
		p.advance()
		return p.store.AddPattern(tok.Loc, ast.BindingPattern{Name: tok.Token.Literal}), nil
	case lexer.INT:
		p.advance()
		v, _ := strconv.ParseInt(tok.Token.Literal, 10, 64)
		return p.store.AddPattern(tok.Loc, ast.LiteralPattern{Kind: ast.IntLiteral, Value: v}), nil
	case lexer.FLOAT:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Token.Literal, 64)
		return p.store.AddPattern(tok.Loc, ast.LiteralPattern{Kind: ast.FloatLiteral, Value: v}), nil
	case lexer.STRING:
		p.advance()
		return p.store.AddPattern(tok.Loc, ast.LiteralPattern{Kind: ast.StringLiteral, Value: tok.Token.Literal}), nil
	case lexer.TRUE:
		p.advance()
		return p.store.AddPattern(tok.Loc, ast.LiteralPattern{Kind: ast.BoolLiteral, Value: true}), nil
	case lexer.FALSE:
		p.advance()
		return p.store.AddPattern(tok.Loc, ast.LiteralPattern{Kind: ast.BoolLiteral, Value: false}), nil
	case lexer.TYPEIDENT:
		p.advance()
		if p.at(lexer.LCURLY) {
			return p.parseRecordPattern(tok)
		}
		var args []ast.PatternID
		for p.isPatternAtomStart() {
			a, err := p.parsePatternAtom()
			if err != nil {
				return 0, err
			}
			args = append(args, a)
		}
		return p.store.AddPattern(tok.Loc, ast.ConstructorPattern{Name: tok.Token.Literal, Args: args}), nil
	case lexer.LPAREN:
		p.advance()
		if p.at(lexer.RPAREN) {
			p.advance()
			return p.store.AddPattern(tok.Loc, ast.TuplePattern{}), nil
		}
		first, err := p.parseCasePattern()
		if err != nil {
			return 0, err
		}
		if p.at(lexer.COMMA) {
			elems := []ast.PatternID{first}
			for p.at(lexer.COMMA) {
				p.advance()
				e, err := p.parseCasePattern()
				if err != nil {
					return 0, err
				}
				elems = append(elems, e)
			}
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return 0, err
			}
			return p.store.AddPattern(tok.Loc, ast.TuplePattern{Elems: elems}), nil
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return 0, err
		}
		return first, nil
	default:
		return 0, p.unexpected(lexer.IDENT)
	}
}

func (p *Parser) isPatternAtomStart() bool {
	switch p.curTok().Type {
	case lexer.WILDCARD, lexer.IDENT, lexer.INT, lexer.FLOAT, lexer.STRING,
		lexer.TRUE, lexer.FALSE, lexer.TYPEIDENT, lexer.LPAREN:
		return true
	}
	return false
}

func (p *Parser) parseRecordPattern(name lexer.TokenInfo) (ast.PatternID, error) {
	p.advance() // LCURLY
	var fields []ast.FieldPattern
	for !p.at(lexer.RCURLY) {
		fname, err := p.expect(lexer.IDENT)
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(lexer.ASSIGN); err != nil {
			return 0, err
		}
		fpat, err := p.parseCasePattern()
		if err != nil {
			return 0, err
		}
		fields = append(fields, ast.FieldPattern{Name: fname.Token.Literal, Pat: fpat})
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RCURLY); err != nil {
		return 0, err
	}
	return p.store.AddPattern(name.Loc, ast.RecordPattern{Name: name.Token.Literal, Fields: fields}), nil
}
