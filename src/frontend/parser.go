// parser.go implements a hand-written recursive-descent parser over the
// token slice produced by lex. The teacher's frontend drives a goyacc
// grammar (parser.y, compiled to parser.yy.go by `go generate`); this core
// has no generated parser to adapt, so the grammar of spec §6 is
// implemented directly as one parse function per precedence level, the
// classic recursive-descent shape every level of the expression grammar
// naturally falls out of.
package frontend

import (
	"fmt"
	"strconv"

	"sysyc/src/ast"
)

// parseIntLiteral parses a decimal integer literal, truncating to 32-bit
// two's complement on overflow rather than rejecting it.
func parseIntLiteral(s string) (int32, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer literal %q: %w", s, err)
	}
	return int32(v), nil
}

// ParseError is returned for any lexical or grammatical failure. It is
// distinguished from the translator's SemanticError by the error taxonomy
// of spec §7: a parse error aborts compilation before lowering ever begins.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

// parser walks a fixed token slice with one token of lookahead.
type parser struct {
	toks []token
	pos  int
}

// Parse lexes and parses src, returning the root of the AST that package
// irgen consumes.
func Parse(src string) (*ast.CompUnit, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, &ParseError{Msg: err.Error()}
	}
	p := &parser{toks: toks}
	cu, err := p.parseCompUnit()
	if err != nil {
		return nil, err
	}
	return cu, nil
}

// ----------------------------------
// ----- Token stream primitives -----
// ----------------------------------

func (p *parser) cur() token {
	return p.toks[p.pos]
}

func (p *parser) at(typ tokenType) bool {
	return p.cur().typ == typ
}

// peekAt reports whether the token one past the current one has type typ.
// Safe at end of stream: the trailing EOF token never moves, so indexing
// one past the last real token never runs off the slice.
func (p *parser) peekAt(typ tokenType) bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	return p.toks[p.pos+1].typ == typ
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(typ tokenType) (token, error) {
	if !p.at(typ) {
		return token{}, p.errorf("expected %s, found %s", typ, describeFound(p.cur()))
	}
	return p.advance(), nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Msg: fmt.Sprintf("line %d:%d: %s", p.cur().line, p.cur().pos, fmt.Sprintf(format, args...))}
}

func describeFound(t token) string {
	if t.typ == tokIdent || t.typ == tokInt {
		return fmt.Sprintf("%s %q", t.typ, t.val)
	}
	return t.typ.String()
}

// -----------------------------
// ----- Grammar productions ----
// -----------------------------

// parseCompUnit := (Decl | FuncDef)* EOF
func (p *parser) parseCompUnit() (*ast.CompUnit, error) {
	cu := &ast.CompUnit{}
	for !p.at(tokEOF) {
		if p.at(tokKwConst) {
			decl, err := p.parseConstDecl()
			if err != nil {
				return nil, err
			}
			cu.GlobalDecls = append(cu.GlobalDecls, decl)
			continue
		}

		bType, err := p.parseBType()
		if err != nil {
			return nil, err
		}
		ident, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		if p.at(tokLParen) {
			fd, err := p.parseFuncDefTail(bType, ident.val)
			if err != nil {
				return nil, err
			}
			cu.FuncDefs = append(cu.FuncDefs, fd)
			continue
		}
		decl, err := p.parseVarDeclTail(bType, ident.val)
		if err != nil {
			return nil, err
		}
		cu.GlobalDecls = append(cu.GlobalDecls, decl)
	}
	return cu, nil
}

func (p *parser) parseBType() (ast.BType, error) {
	switch {
	case p.at(tokKwInt):
		p.advance()
		return ast.Int, nil
	case p.at(tokKwVoid):
		p.advance()
		return ast.Void, nil
	default:
		return 0, p.errorf("expected a type, found %s", describeFound(p.cur()))
	}
}

// parseFuncDefTail parses "'(' ')' Block" after the type and identifier of a
// FuncDef have already been consumed. This core's functions take no
// parameters and never call one another (Non-goal: multi-function linkage).
func (p *parser) parseFuncDefTail(bType ast.BType, ident string) (*ast.FuncDef, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{FuncType: bType, Ident: ident, Block: block}, nil
}

// parseConstDecl := 'const' BType ConstDef (',' ConstDef)* ';'
func (p *parser) parseConstDecl() (*ast.ConstDecl, error) {
	p.advance() // 'const'
	bType, err := p.parseBType()
	if err != nil {
		return nil, err
	}
	decl := &ast.ConstDecl{BType: bType}
	for {
		ident, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokAssign); err != nil {
			return nil, err
		}
		init, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		decl.ConstDefs = append(decl.ConstDefs, &ast.ConstDef{Ident: ident.val, ConstInitVal: init})
		if p.at(tokComma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseVarDeclTail parses "VarDef (',' VarDef)* ';'" after the type and the
// first identifier have already been consumed.
func (p *parser) parseVarDeclTail(bType ast.BType, firstIdent string) (*ast.VarDecl, error) {
	decl := &ast.VarDecl{BType: bType}
	ident := firstIdent
	for {
		var init ast.Exp
		if p.at(tokAssign) {
			p.advance()
			v, err := p.parseExp()
			if err != nil {
				return nil, err
			}
			init = v
		}
		decl.VarDefs = append(decl.VarDefs, &ast.VarDef{Ident: ident, InitVal: init})
		if !p.at(tokComma) {
			break
		}
		p.advance()
		tok, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		ident = tok.val
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseBlock := '{' BlockItem* '}'
func (p *parser) parseBlock() (*ast.Block, error) {
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	block := &ast.Block{}
	for !p.at(tokRBrace) {
		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		block.Items = append(block.Items, item)
	}
	p.advance() // '}'
	return block, nil
}

func (p *parser) parseBlockItem() (ast.BlockItem, error) {
	if p.at(tokKwConst) {
		d, err := p.parseConstDecl()
		return ast.BlockItem{Decl: d}, err
	}
	if p.at(tokKwInt) || p.at(tokKwVoid) {
		bType, err := p.parseBType()
		if err != nil {
			return ast.BlockItem{}, err
		}
		ident, err := p.expect(tokIdent)
		if err != nil {
			return ast.BlockItem{}, err
		}
		d, err := p.parseVarDeclTail(bType, ident.val)
		return ast.BlockItem{Decl: d}, err
	}
	s, err := p.parseStmt()
	return ast.BlockItem{Stmt: s}, err
}

// parseStmt covers every statement form of spec §6: assignment, bare
// expression, nested block, and return.
func (p *parser) parseStmt() (ast.Stmt, error) {
	switch {
	case p.at(tokLBrace):
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Block: block}, nil

	case p.at(tokKwReturn):
		p.advance()
		if p.at(tokSemi) {
			p.advance()
			return &ast.ReturnStmt{}, nil
		}
		exp, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemi); err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Exp: exp}, nil

	case p.at(tokSemi):
		p.advance()
		return &ast.ExprStmt{}, nil

	case p.at(tokIdent) && p.peekAt(tokAssign):
		ident := p.advance().val
		p.advance() // '='
		exp, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemi); err != nil {
			return nil, err
		}
		return &ast.AssignStmt{LVal: ast.LVal{Ident: ident}, Exp: exp}, nil

	default:
		exp, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemi); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Exp: exp}, nil
	}
}

// -------------------------------------------------
// ----- Expression grammar, tightest node wins -----
// -------------------------------------------------
//
// Each level below parses its operand level first, then only wraps the
// result in its own binary node if an operator at that precedence actually
// follows. A bare identifier parsed at PrimaryExp therefore bubbles all the
// way up as an *ast.LValExp with no intervening wrapper nodes, and
// package irgen's type switches dispatch on whatever concrete node survives.

func (p *parser) parseExp() (ast.Exp, error) {
	return p.parseLOrExp()
}

func (p *parser) parseLOrExp() (ast.Exp, error) {
	left, err := p.parseLAndExp()
	if err != nil {
		return nil, err
	}
	for p.at(tokOrOr) {
		p.advance()
		right, err := p.parseLAndExp()
		if err != nil {
			return nil, err
		}
		left = &ast.LOrExp{Left: left, Op: ast.LOrOr, Right: right}
	}
	return left, nil
}

func (p *parser) parseLAndExp() (ast.Exp, error) {
	left, err := p.parseEqExp()
	if err != nil {
		return nil, err
	}
	for p.at(tokAndAnd) {
		p.advance()
		right, err := p.parseEqExp()
		if err != nil {
			return nil, err
		}
		left = &ast.LAndExp{Left: left, Op: ast.LAndAnd, Right: right}
	}
	return left, nil
}

func (p *parser) parseEqExp() (ast.Exp, error) {
	left, err := p.parseRelExp()
	if err != nil {
		return nil, err
	}
	for p.at(tokEq) || p.at(tokNe) {
		op := ast.EqEq
		if p.at(tokNe) {
			op = ast.EqNe
		}
		p.advance()
		right, err := p.parseRelExp()
		if err != nil {
			return nil, err
		}
		left = &ast.EqExp{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseRelExp() (ast.Exp, error) {
	left, err := p.parseAddExp()
	if err != nil {
		return nil, err
	}
	for p.at(tokLt) || p.at(tokGt) || p.at(tokLe) || p.at(tokGe) {
		var op ast.RelOp
		switch p.cur().typ {
		case tokLt:
			op = ast.RelLt
		case tokGt:
			op = ast.RelGt
		case tokLe:
			op = ast.RelLe
		default:
			op = ast.RelGe
		}
		p.advance()
		right, err := p.parseAddExp()
		if err != nil {
			return nil, err
		}
		left = &ast.RelExp{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseAddExp() (ast.Exp, error) {
	left, err := p.parseMulExp()
	if err != nil {
		return nil, err
	}
	for p.at(tokPlus) || p.at(tokMinus) {
		op := ast.AddAdd
		if p.at(tokMinus) {
			op = ast.AddSub
		}
		p.advance()
		right, err := p.parseMulExp()
		if err != nil {
			return nil, err
		}
		left = &ast.AddExp{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseMulExp() (ast.Exp, error) {
	left, err := p.parseUnaryExp()
	if err != nil {
		return nil, err
	}
	for p.at(tokStar) || p.at(tokSlash) || p.at(tokPercent) {
		var op ast.MulOp
		switch p.cur().typ {
		case tokStar:
			op = ast.MulMul
		case tokSlash:
			op = ast.MulDiv
		default:
			op = ast.MulMod
		}
		p.advance()
		right, err := p.parseUnaryExp()
		if err != nil {
			return nil, err
		}
		left = &ast.MulExp{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnaryExp() (ast.Exp, error) {
	var op ast.UnaryOp
	switch {
	case p.at(tokPlus):
		op = ast.UnaryPlus
	case p.at(tokMinus):
		op = ast.UnaryMinus
	case p.at(tokNot):
		op = ast.UnaryNot
	default:
		return p.parsePrimaryExp()
	}
	p.advance()
	operand, err := p.parseUnaryExp()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExp{Op: op, Operand: operand}, nil
}

func (p *parser) parsePrimaryExp() (ast.Exp, error) {
	switch {
	case p.at(tokLParen):
		p.advance()
		exp, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return &ast.ParenExp{Exp: exp}, nil

	case p.at(tokInt):
		tok := p.advance()
		v, err := parseIntLiteral(tok.val)
		if err != nil {
			return nil, p.errorf("%s", err)
		}
		return &ast.NumberExp{Value: v}, nil

	case p.at(tokIdent):
		tok := p.advance()
		return &ast.LValExp{LVal: ast.LVal{Ident: tok.val}}, nil

	default:
		return nil, p.errorf("expected an expression, found %s", describeFound(p.cur()))
	}
}
