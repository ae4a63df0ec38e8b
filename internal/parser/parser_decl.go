package parser

import (
	"strings"

	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/lexer"
)

func (p *Parser) parseModulePath() (string, error) {
	first, err := p.expect(lexer.TYPEIDENT)
	if err != nil {
		return "", err
	}
	segs := []string{first.Token.Literal}
	for p.at(lexer.DOT) {
		p.advance()
		seg, err := p.expect(lexer.TYPEIDENT)
		if err != nil {
			return "", err
		}
		segs = append(segs, seg.Token.Literal)
	}
	return strings.Join(segs, "."), nil
}

func (p *Parser) parseImport(m *ast.Module) error {
	tok, err := p.expect(lexer.IMPORT)
	if err != nil {
		return err
	}
	path, err := p.parseModulePath()
	if err != nil {
		return err
	}
	imp := &ast.Import{Loc: tok.Loc, Module: path}

	if p.at(lexer.HIDING) {
		p.advance()
		imp.IsHiding = true
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return err
		}
		for !p.at(lexer.RPAREN) {
			n, err := p.identLike()
			if err != nil {
				return err
			}
			imp.Hiding = append(imp.Hiding, n.Token.Literal)
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return err
		}
	} else if p.at(lexer.LPAREN) {
		p.advance()
		for !p.at(lexer.RPAREN) {
			item, err := p.parseImportItem()
			if err != nil {
				return err
			}
			imp.Items = append(imp.Items, item)
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return err
		}
	}

	if p.at(lexer.AS) {
		p.advance()
		alias, err := p.expect(lexer.TYPEIDENT)
		if err != nil {
			return err
		}
		imp.As = alias.Token.Literal
	}

	m.Imports = append(m.Imports, imp)
	p.endItem()
	return nil
}

func (p *Parser) parseImportItem() (ast.ImportItem, error) {
	tok, err := p.identLike()
	if err != nil {
		return ast.ImportItem{}, err
	}
	item := ast.ImportItem{Name: tok.Token.Literal, Loc: tok.Loc}
	if p.at(lexer.LPAREN) {
		sub, err := p.parseMemberSublist()
		if err != nil {
			return ast.ImportItem{}, err
		}
		item.Members = sub
	}
	if p.at(lexer.AS) {
		p.advance()
		alias, err := p.identLike()
		if err != nil {
			return ast.ImportItem{}, err
		}
		item.As = alias.Token.Literal
	}
	return item, nil
}

// parseData parses either an ADT (`data Name a b = Variant1 T1 T2 | ...`)
// or a record (`data Name a b = { field :: T, ... }`), optionally
// `extern`-marked to indicate the record is foreign-defined.
func (p *Parser) parseData(m *ast.Module) error {
	tok, err := p.expect(lexer.DATA)
	if err != nil {
		return err
	}
	external := false
	if p.at(lexer.EXTERN) {
		p.advance()
		external = true
	}
	name, err := p.expect(lexer.TYPEIDENT)
	if err != nil {
		return err
	}
	var typeArgs []string
	for p.at(lexer.IDENT) {
		typeArgs = append(typeArgs, p.advance().Token.Literal)
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return err
	}

	if p.at(lexer.LCURLY) {
		rec := &ast.Record{Name: name.Token.Literal, Loc: tok.Loc, TypeArgs: typeArgs, External: external}
		p.advance()
		for !p.at(lexer.RCURLY) {
			fname, err := p.expect(lexer.IDENT)
			if err != nil {
				return err
			}
			if _, err := p.expect(lexer.DCOLON); err != nil {
				return err
			}
			sigID, err := p.parseTypeSig()
			if err != nil {
				return err
			}
			rec.Fields = append(rec.Fields, ast.Field{Name: fname.Token.Literal, Loc: fname.Loc, Sig: sigID})
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RCURLY); err != nil {
			return err
		}
		id := p.store.AddRecord(rec)
		m.Records = append(m.Records, id)
		p.endItem()
		return nil
	}

	adt := &ast.ADT{Name: name.Token.Literal, Loc: tok.Loc, TypeArgs: typeArgs}
	resultSig, err := p.buildDataResultSig(name.Token.Literal, typeArgs, tok)
	if err != nil {
		return err
	}
	for {
		vname, err := p.expect(lexer.TYPEIDENT)
		if err != nil {
			return err
		}
		var fieldSigs []ast.TypeSigID
		for p.isTypeAtomStart() {
			sig, err := p.parseTypeAtom()
			if err != nil {
				return err
			}
			fieldSigs = append(fieldSigs, sig)
		}
		sig := resultSig
		for i := len(fieldSigs) - 1; i >= 0; i-- {
			sig = p.store.AddTypeSig(vname.Loc, ast.FunctionSig{From: fieldSigs[i], To: sig})
		}
		adt.Variants = append(adt.Variants, ast.Variant{Name: vname.Token.Literal, Loc: vname.Loc, Sig: sig})
		if p.at(lexer.PIPE) {
			p.advance()
			continue
		}
		break
	}
	id := p.store.AddADT(adt)
	m.ADTs = append(m.ADTs, id)
	p.endItem()
	return nil
}

func (p *Parser) buildDataResultSig(name string, typeArgs []string, tok lexer.TokenInfo) (ast.TypeSigID, error) {
	var args []ast.TypeSigID
	for _, ta := range typeArgs {
		args = append(args, p.store.AddTypeSig(tok.Loc, ast.TypeArgSig{Name: ta}))
	}
	return p.store.AddTypeSig(tok.Loc, ast.VariantSig{Name: name, Args: args}), nil
}

// parseClass parses `class [(Super a, ...) => ] Name a where member :: T ...`.
func (p *Parser) parseClass(m *ast.Module) error {
	tok, err := p.expect(lexer.CLASS)
	if err != nil {
		return err
	}
	supers, err := p.tryParseConstraintContext()
	if err != nil {
		return err
	}
	name, err := p.expect(lexer.TYPEIDENT)
	if err != nil {
		return err
	}
	typeArg, err := p.expect(lexer.IDENT)
	if err != nil {
		return err
	}
	cls := &ast.Class{Name: name.Token.Literal, Loc: tok.Loc, TypeArg: typeArg.Token.Literal, SuperClasses: supers}

	if _, err := p.expect(lexer.WHERE); err != nil {
		return err
	}
	for !p.at(lexer.ENDOFBLOCK) {
		mname, err := p.expect(lexer.IDENT)
		if err != nil {
			return err
		}
		if _, err := p.expect(lexer.DCOLON); err != nil {
			return err
		}
		sig, err := p.parseTypeSig()
		if err != nil {
			return err
		}
		fn := &ast.Function{Name: mname.Token.Literal, Loc: mname.Loc, Body: ast.NoExpr, Signature: &ast.Signature{Sig: sig}}
		fid := p.store.AddFunction(fn)
		cls.Members = append(cls.Members, fid)
		cls.MemberTypes = append(cls.MemberTypes, sig)
		p.endItem()
	}
	p.advance() // ENDOFBLOCK
	id := p.store.AddClass(cls)
	m.Classes = append(m.Classes, id)
	p.endItem()
	return nil
}

// parseInstance parses `instance [(Super a,...) => ] ClassName T where
// member args = body ...`.
func (p *Parser) parseInstance(m *ast.Module) error {
	tok, err := p.expect(lexer.INSTANCE)
	if err != nil {
		return err
	}
	supers, err := p.tryParseConstraintContext()
	if err != nil {
		return err
	}
	className, err := p.expect(lexer.TYPEIDENT)
	if err != nil {
		return err
	}
	sig, err := p.parseTypeAtom()
	if err != nil {
		return err
	}
	inst := &ast.Instance{Loc: tok.Loc, ClassName: className.Token.Literal, TypeSig: sig, SuperConstraints: supers}

	if _, err := p.expect(lexer.WHERE); err != nil {
		return err
	}
	for !p.at(lexer.ENDOFBLOCK) {
		fn, err := p.parseFunctionEquation()
		if err != nil {
			return err
		}
		fid := p.store.AddFunction(fn)
		inst.Members = append(inst.Members, fid)
		p.endItem()
	}
	p.advance() // ENDOFBLOCK
	id := p.store.AddInstance(inst)
	m.Instances = append(m.Instances, id)
	p.endItem()
	return nil
}

// tryParseConstraintContext parses an optional `(C1 a, C2 b) =>` prefix,
// or a single `C a =>` with no parens.
func (p *Parser) tryParseConstraintContext() ([]ast.Constraint, error) {
	save := p.pos
	var cs []ast.Constraint
	if p.at(lexer.LPAREN) {
		p.advance()
		for !p.at(lexer.RPAREN) {
			c, err := p.parseConstraint()
			if err != nil {
				p.pos = save
				return nil, nil
			}
			cs = append(cs, c)
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if !p.at(lexer.RPAREN) {
			p.pos = save
			return nil, nil
		}
		p.advance()
	} else if p.at(lexer.TYPEIDENT) {
		c, err := p.parseConstraint()
		if err != nil {
			p.pos = save
			return nil, nil
		}
		cs = append(cs, c)
	} else {
		return nil, nil
	}
	if !p.at(lexer.FATARROW) {
		p.pos = save
		return nil, nil
	}
	p.advance()
	return cs, nil
}

func (p *Parser) parseConstraint() (ast.Constraint, error) {
	name, err := p.expect(lexer.TYPEIDENT)
	if err != nil {
		return ast.Constraint{}, err
	}
	sig, err := p.parseTypeAtom()
	if err != nil {
		return ast.Constraint{}, err
	}
	return ast.Constraint{ClassName: name.Token.Literal, TypeSig: sig, Loc: name.Loc}, nil
}

// parseFunctionItem parses either a declared signature (`name :: T`,
// stashed in pendingSigs and merged with its equation), an extern
// declaration (`extern name :: T`), or an equation (`name args = body`).
func (p *Parser) parseFunctionItem(m *ast.Module) error {
	if p.at(lexer.EXTERN) {
		p.advance()
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return err
		}
		if _, err := p.expect(lexer.DCOLON); err != nil {
			return err
		}
		sig, err := p.parseTypeSig()
		if err != nil {
			return err
		}
		fn := &ast.Function{Name: name.Token.Literal, Loc: name.Loc, Body: ast.NoExpr, Extern: true, Signature: &ast.Signature{Sig: sig}}
		fid := p.store.AddFunction(fn)
		m.Functions = append(m.Functions, fid)
		p.endItem()
		return nil
	}

	// Disambiguate `name :: T` (signature) from `name args... = body`
	// (equation) by looking for DCOLON before the item's ASSIGN.
	if p.peek().Token.Type == lexer.DCOLON {
		name, _ := p.expect(lexer.IDENT)
		p.advance() // DCOLON
		typeArgs, constraints, sig, err := p.parseFullSignature()
		if err != nil {
			return err
		}
		if p.pendingSigs == nil {
			p.pendingSigs = map[string]*ast.Signature{}
		}
		p.pendingSigs[name.Token.Literal] = &ast.Signature{TypeArgs: typeArgs, Constraints: constraints, Sig: sig}
		p.endItem()
		return nil
	}

	fn, err := p.parseFunctionEquation()
	if err != nil {
		return err
	}
	fid := p.store.AddFunction(fn)
	m.Functions = append(m.Functions, fid)
	p.endItem()
	return nil
}

// parseFullSignature parses the constraint-context/type pair of a
// top-level `name :: (C a) => T` declaration. Bound type-arg names are
// inferred from every TypeArgSig reachable within the parsed type.
func (p *Parser) parseFullSignature() ([]string, []ast.Constraint, ast.TypeSigID, error) {
	constraints, err := p.tryParseConstraintContext()
	if err != nil {
		return nil, nil, 0, err
	}
	sig, err := p.parseTypeSig()
	if err != nil {
		return nil, nil, 0, err
	}
	return p.collectTypeArgNames(sig), constraints, sig, nil
}

func (p *Parser) collectTypeArgNames(id ast.TypeSigID) []string {
	seen := map[string]bool{}
	var order []string
	var walk func(ast.TypeSigID)
	walk = func(id ast.TypeSigID) {
		switch t := p.store.TypeSig(id).(type) {
		case ast.TypeArgSig:
			if !seen[t.Name] {
				seen[t.Name] = true
				order = append(order, t.Name)
			}
		case ast.NamedSig:
			for _, a := range t.Args {
				walk(a)
			}
		case ast.VariantSig:
			for _, a := range t.Args {
				walk(a)
			}
		case ast.TupleSig:
			for _, a := range t.Elems {
				walk(a)
			}
		case ast.FunctionSig:
			walk(t.From)
			walk(t.To)
		}
	}
	walk(id)
	return order
}

// parseFunctionEquation parses `name arg1 arg2 ... = body`, attaching a
// pending signature collected from an earlier `name :: T` line in the
// same block, if any.
func (p *Parser) parseFunctionEquation() (*ast.Function, error) {
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	var args []ast.Arg
	for p.at(lexer.IDENT) || p.at(lexer.WILDCARD) {
		a := p.advance()
		args = append(args, ast.Arg{Name: a.Token.Literal, Loc: a.Loc})
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	fn := &ast.Function{Name: name.Token.Literal, Loc: name.Loc, Args: args}
	if p.at(lexer.EXTERN) {
		p.advance()
		fn.Extern = true
		fn.Body = ast.NoExpr
	} else {
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fn.Body = body
	}
	if sig, ok := p.pendingSigs[name.Token.Literal]; ok {
		fn.Signature = sig
		delete(p.pendingSigs, name.Token.Literal)
	}
	return fn, nil
}
