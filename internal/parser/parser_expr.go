package parser

import (
	"strconv"

	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/lexer"
)

// parseExpr is the entry point for a full expression, starting from the
// lowest precedence level (spec §4.2's 9-level table).
func (p *Parser) parseExpr() (ast.ExprID, error) {
	return p.parseLogical()
}

// binaryOpLevel builds a standard left-associative binary-operator level
// parsing `next` on either side of any operator in ops, desugaring to
// BuiltinOp (the resolver keeps these as ir.BuiltinOp).
func (p *Parser) binaryOpLevel(next func() (ast.ExprID, error), ops map[lexer.TokenType]string) (ast.ExprID, error) {
	lhs, err := next()
	if err != nil {
		return 0, err
	}
	for {
		name, ok := ops[p.curTok().Type]
		if !ok {
			return lhs, nil
		}
		tok := p.advance()
		rhs, err := next()
		if err != nil {
			return 0, err
		}
		lhs = p.store.AddExpr(tok.Loc, ast.BuiltinOp{Op: name, Args: []ast.ExprID{lhs, rhs}})
	}
}

var logicalOps = map[lexer.TokenType]string{lexer.PIPEPIPE: "||", lexer.AMPAMP: "&&"}
var equalityOps = map[lexer.TokenType]string{lexer.EQEQ: "==", lexer.NEQ: "!="}
var relationalOps = map[lexer.TokenType]string{lexer.LT: "<", lexer.LTE: "<=", lexer.GT: ">", lexer.GTE: ">="}
var additiveOps = map[lexer.TokenType]string{lexer.PLUS: "+", lexer.MINUS: "-"}
var multiplicativeOps = map[lexer.TokenType]string{lexer.STAR: "*", lexer.SLASH: "/"}

func (p *Parser) parseLogical() (ast.ExprID, error) {
	return p.binaryOpLevel(p.parseEquality, logicalOps)
}

func (p *Parser) parseEquality() (ast.ExprID, error) {
	return p.binaryOpLevel(p.parseRelational, equalityOps)
}

func (p *Parser) parseRelational() (ast.ExprID, error) {
	return p.binaryOpLevel(p.parseAdditive, relationalOps)
}

func (p *Parser) parseAdditive() (ast.ExprID, error) {
	return p.binaryOpLevel(p.parseMultiplicative, additiveOps)
}

func (p *Parser) parseMultiplicative() (ast.ExprID, error) {
	return p.binaryOpLevel(p.parsePipe, multiplicativeOps)
}

// parsePipe implements `x |> f` ≡ `f x` (spec §4.2, level 6).
func (p *Parser) parsePipe() (ast.ExprID, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for p.at(lexer.PIPEFWD) {
		tok := p.advance()
		rhs, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		lhs = p.store.AddExpr(tok.Loc, ast.FunctionCall{Fn: rhs, Args: []ast.ExprID{lhs}})
	}
	return lhs, nil
}

// parseUnary handles prefix `!` and unary `-` (spec level 8).
func (p *Parser) parseUnary() (ast.ExprID, error) {
	switch p.curTok().Type {
	case lexer.BANG:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return p.store.AddExpr(tok.Loc, ast.BuiltinOp{Op: "!", Args: []ast.ExprID{operand}}), nil
	case lexer.MINUS:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if lit, ok := p.store.Expr(operand).(ast.IntLit); ok {
			return p.store.AddExpr(tok.Loc, ast.IntLit{Value: -lit.Value}), nil
		}
		if lit, ok := p.store.Expr(operand).(ast.FloatLit); ok {
			return p.store.AddExpr(tok.Loc, ast.FloatLit{Value: -lit.Value}), nil
		}
		return p.store.AddExpr(tok.Loc, ast.BuiltinOp{Op: "neg", Args: []ast.ExprID{operand}}), nil
	default:
		return p.parseApplication()
	}
}

// parseApplication parses a juxtaposition-based call chain (`f x y`) and
// then any trailing `.field` / `.0` postfix accesses (spec level 7 and
// level 9).
func (p *Parser) parseApplication() (ast.ExprID, error) {
	fn, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	var args []ast.ExprID
	for p.isPrimaryStart() {
		arg, err := p.parsePrimary()
		if err != nil {
			return 0, err
		}
		args = append(args, arg)
	}
	result := fn
	if len(args) > 0 {
		result = p.store.AddExpr(p.store.ExprLoc(fn), ast.FunctionCall{Fn: fn, Args: args})
	}
	return p.parsePostfix(result)
}

func (p *Parser) parsePostfix(e ast.ExprID) (ast.ExprID, error) {
	for p.at(lexer.DOT) {
		tok := p.advance()
		if p.at(lexer.INT) {
			idxTok := p.advance()
			idx, _ := strconv.Atoi(idxTok.Token.Literal)
			e = p.store.AddExpr(tok.Loc, ast.TupleFieldAccess{Receiver: e, Index: idx})
			continue
		}
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return 0, err
		}
		e = p.store.AddExpr(tok.Loc, ast.FieldAccess{Receiver: e, Field: name.Token.Literal})
	}
	return e, nil
}

func (p *Parser) isPrimaryStart() bool {
	switch p.curTok().Type {
	case lexer.IDENT, lexer.TYPEIDENT, lexer.INT, lexer.FLOAT, lexer.STRING,
		lexer.TRUE, lexer.FALSE, lexer.LPAREN, lexer.LBRACKET, lexer.BSLASH,
		lexer.IF, lexer.DO, lexer.CASE, lexer.WILDCARD, lexer.FORMATTER:
		return true
	}
	return false
}

func (p *Parser) parsePrimary() (ast.ExprID, error) {
	tok := p.cur()
	switch tok.Token.Type {
	case lexer.INT:
		p.advance()
		v, _ := strconv.ParseInt(tok.Token.Literal, 10, 64)
		return p.store.AddExpr(tok.Loc, ast.IntLit{Value: v}), nil
	case lexer.FLOAT:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Token.Literal, 64)
		return p.store.AddExpr(tok.Loc, ast.FloatLit{Value: v}), nil
	case lexer.STRING:
		p.advance()
		return p.store.AddExpr(tok.Loc, ast.StringLit{Value: tok.Token.Literal}), nil
	case lexer.TRUE:
		p.advance()
		return p.store.AddExpr(tok.Loc, ast.BoolLit{Value: true}), nil
	case lexer.FALSE:
		p.advance()
		return p.store.AddExpr(tok.Loc, ast.BoolLit{Value: false}), nil
	case lexer.IDENT:
		p.advance()
		return p.store.AddExpr(tok.Loc, ast.PathExpr{Segments: []string{tok.Token.Literal}}), nil
	case lexer.WILDCARD:
		p.advance()
		return p.store.AddExpr(tok.Loc, ast.PathExpr{Segments: []string{"_"}}), nil
	case lexer.TYPEIDENT:
		return p.parseTypeIdentExpr()
	case lexer.LPAREN:
		return p.parseParenExpr()
	case lexer.LBRACKET:
		return p.parseListExpr()
	case lexer.BSLASH:
		return p.parseLambda()
	case lexer.IF:
		return p.parseIf()
	case lexer.DO:
		return p.parseDo()
	case lexer.CASE:
		return p.parseCaseOf()
	case lexer.FORMATTER:
		return p.parseFormatter()
	default:
		return 0, p.unexpected(lexer.IDENT)
	}
}

// parseTypeIdentExpr parses a (possibly qualified) TYPEIDENT path and,
// if immediately followed by `{`, a record init.
func (p *Parser) parseTypeIdentExpr() (ast.ExprID, error) {
	tok := p.advance()
	segs := []string{tok.Token.Literal}
	for p.at(lexer.DOT) && p.peek().Token.Type == lexer.TYPEIDENT {
		p.advance()
		seg := p.advance()
		segs = append(segs, seg.Token.Literal)
	}
	if p.at(lexer.LCURLY) {
		return p.parseRecordInit(tok, segs[len(segs)-1])
	}
	return p.store.AddExpr(tok.Loc, ast.PathExpr{Segments: segs}), nil
}

func (p *Parser) parseRecordInit(tok lexer.TokenInfo, typeName string) (ast.ExprID, error) {
	p.advance() // LCURLY
	fields, err := p.parseFieldInits()
	if err != nil {
		return 0, err
	}
	return p.store.AddExpr(tok.Loc, ast.RecordInitExpr{TypeName: typeName, Fields: fields}), nil
}

func (p *Parser) parseFieldInits() ([]ast.FieldInit, error) {
	var fields []ast.FieldInit
	for !p.at(lexer.RCURLY) {
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.ASSIGN); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.FieldInit{Name: name.Token.Literal, Value: val})
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RCURLY); err != nil {
		return nil, err
	}
	return fields, nil
}

func (p *Parser) parseParenExpr() (ast.ExprID, error) {
	tok := p.advance()
	if p.at(lexer.RPAREN) {
		p.advance()
		return p.store.AddExpr(tok.Loc, ast.TupleExpr{}), nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.at(lexer.COMMA) {
		elems := []ast.ExprID{first}
		for p.at(lexer.COMMA) {
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			elems = append(elems, e)
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return 0, err
		}
		return p.store.AddExpr(tok.Loc, ast.TupleExpr{Elems: elems}), nil
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return 0, err
	}
	// A parenthesized identifier immediately followed by `{` is a record
	// update of that (possibly local) value.
	if path, ok := p.store.Expr(first).(ast.PathExpr); ok && p.at(lexer.LCURLY) {
		p.advance()
		fields, err := p.parseFieldInits()
		if err != nil {
			return 0, err
		}
		_ = path
		return p.store.AddExpr(tok.Loc, ast.RecordUpdateExpr{Target: first, Fields: fields}), nil
	}
	return first, nil
}

func (p *Parser) parseListExpr() (ast.ExprID, error) {
	tok := p.advance()
	var elems []ast.ExprID
	for !p.at(lexer.RBRACKET) {
		e, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		elems = append(elems, e)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return 0, err
	}
	return p.store.AddExpr(tok.Loc, ast.ListExpr{Elems: elems}), nil
}

// parseLambda parses `\x y -> body`.
func (p *Parser) parseLambda() (ast.ExprID, error) {
	tok := p.advance()
	var params []ast.Arg
	for p.at(lexer.IDENT) || p.at(lexer.WILDCARD) {
		a := p.advance()
		params = append(params, ast.Arg{Name: a.Token.Literal, Loc: a.Loc})
	}
	if _, err := p.expect(lexer.ARROW); err != nil {
		return 0, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	return p.store.AddExpr(tok.Loc, ast.Lambda{Params: params, Body: body}), nil
}

func (p *Parser) parseIf() (ast.ExprID, error) {
	tok := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(lexer.THEN); err != nil {
		return 0, err
	}
	thenE, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(lexer.ELSE); err != nil {
		return 0, err
	}
	elseE, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	return p.store.AddExpr(tok.Loc, ast.If{Cond: cond, Then: thenE, Else: elseE}), nil
}

// parseDo parses `do <layout block>`, where each statement is either
// `pat <- rhs` (BindExpr, requiring an irrefutable pattern) or a plain
// expression.
func (p *Parser) parseDo() (ast.ExprID, error) {
	tok := p.advance()
	if _, err := p.expect(lexer.ENDOFBLOCK); err == nil {
		return p.store.AddExpr(tok.Loc, ast.DoExpr{}), nil
	}
	var stmts []ast.ExprID
	for !p.at(lexer.ENDOFBLOCK) {
		stmt, err := p.parseDoStatement()
		if err != nil {
			return 0, err
		}
		stmts = append(stmts, stmt)
		p.endItem()
	}
	p.advance() // ENDOFBLOCK
	return p.store.AddExpr(tok.Loc, ast.DoExpr{Stmts: stmts}), nil
}

func (p *Parser) parseDoStatement() (ast.ExprID, error) {
	if p.isBindStart() {
		save := p.pos
		pat, err := p.parseIrrefutablePattern()
		if err == nil && p.at(lexer.BIND) {
			tok := p.advance()
			rhs, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			return p.store.AddExpr(tok.Loc, ast.BindExpr{Pattern: pat, Rhs: rhs}), nil
		}
		p.pos = save
	}
	return p.parseExpr()
}

// isBindStart is a cheap lookahead guard: only try the pattern/BIND path
// when the statement could plausibly start a pattern.
func (p *Parser) isBindStart() bool {
	switch p.curTok().Type {
	case lexer.IDENT, lexer.WILDCARD, lexer.TYPEIDENT, lexer.LPAREN:
		return true
	}
	return false
}

// parseCaseOf parses `case e of alt_1 ... alt_n`.
func (p *Parser) parseCaseOf() (ast.ExprID, error) {
	tok := p.advance()
	scrutinee, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(lexer.OF); err != nil {
		return 0, err
	}
	var cases []ast.CaseAlt
	for !p.at(lexer.ENDOFBLOCK) {
		pat, err := p.parseCasePattern()
		if err != nil {
			return 0, err
		}
		guard := ast.NoExpr
		if p.at(lexer.IF) {
			p.advance()
			g, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			guard = g
		}
		if _, err := p.expect(lexer.ARROW); err != nil {
			return 0, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		cases = append(cases, ast.CaseAlt{Pattern: pat, Guard: guard, Body: body})
		p.endItem()
	}
	p.advance() // ENDOFBLOCK
	return p.store.AddExpr(tok.Loc, ast.CaseOfExpr{Scrutinee: scrutinee, Cases: cases}), nil
}

// parseFormatter parses `%"template" arg1 arg2`.
func (p *Parser) parseFormatter() (ast.ExprID, error) {
	tok := p.advance()
	fmtTok, err := p.expect(lexer.STRING)
	if err != nil {
		return 0, err
	}
	var args []ast.ExprID
	for p.isPrimaryStart() {
		a, err := p.parsePrimary()
		if err != nil {
			return 0, err
		}
		args = append(args, a)
	}
	return p.store.AddExpr(tok.Loc, ast.FormatterExpr{Format: fmtTok.Token.Literal, Args: args}), nil
}
