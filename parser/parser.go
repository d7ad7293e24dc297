// Package parser implements a recursive descent parser over the
// Diamant token stream, producing the typed ast.Node tree described in
// ast.go. The parser pulls tokens from the lexer one at a time
// (spec.md §4.2's "single-token lookahead via the lexer pull") and
// relies on the lexer having already materialized the off-side rule as
// ordinary (if synthetic) `;`, `end`, and `in` tokens — the parser
// itself has no indentation awareness.
package parser

import (
	"github.com/aledsdavies/diamant/ast"
	"github.com/aledsdavies/diamant/diag"
	"github.com/aledsdavies/diamant/lexer"
	"github.com/aledsdavies/diamant/token"
)

// Parser holds the lexer and the single current token of lookahead.
type Parser struct {
	source string
	lex    *lexer.Lexer
	prev   token.Token
	cur    token.Token
}

// Parse tokenizes and parses source into the top-level do-expression
// entry point spec.md §4.2 describes, running the dual expr/pattern
// validation pass before returning.
func Parse(source string) (*ast.Do, error) {
	p := &Parser{source: source, lex: lexer.New(source)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	entries, err := p.parseEntriesUntil(token.EOF)
	if err != nil {
		return nil, err
	}
	top := ast.NewDo(1, 1, ast.DoBlock)
	if err := partition(top, entries); err != nil {
		return nil, p.attach(err)
	}

	if err := validateDo(top); err != nil {
		return nil, p.attach(err)
	}
	return top, nil
}

// attach decorates a diag.Error with the full source text for snippet
// rendering; errors from other packages are returned unchanged.
func (p *Parser) attach(err error) error {
	if de, ok := err.(*diag.Error); ok {
		return de.WithSource(p.source)
	}
	return err
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next(p.cur)
	if err != nil {
		if de, ok := err.(*diag.Error); ok {
			return de.WithSource(p.source)
		}
		return err
	}
	p.prev = p.cur
	p.cur = tok
	return nil
}

func (p *Parser) at(t token.Type) bool { return p.cur.Type == t }

func (p *Parser) errf(format string, args ...any) error {
	return diag.New(diag.Parse, p.cur.Line, p.cur.Column, format, args...).WithSource(p.source)
}

func (p *Parser) expect(t token.Type, context string) (token.Token, error) {
	if !p.at(t) {
		return token.Token{}, p.errf("Unexpected %s. Expecting %s.", p.cur.Type, t)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token.Token{}, err
	}
	_ = context
	return tok, nil
}

// --- blocks: do / let / case-of ---

// parseEntriesUntil parses a `;`-separated sequence of full
// expressions (spec.md §4.2's unified grammar — every entry may itself
// be an `=` node) up to, but not consuming, terminator.
func (p *Parser) parseEntriesUntil(terminator token.Type) ([]ast.Node, error) {
	var entries []ast.Node
	for !p.at(terminator) {
		if p.at(token.EOF) {
			return nil, p.errf("Unexpected eof. Expecting %s.", terminator)
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
		if p.at(token.SEMI) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if !p.at(terminator) {
		return nil, p.errf("Unexpected %s. Expecting %s.", p.cur.Type, terminator)
	}
	return entries, nil
}

func (p *Parser) parseDo() (ast.Node, error) {
	tok := p.cur
	if err := p.advance(); err != nil { // consume 'do'
		return nil, err
	}
	entries, err := p.parseEntriesUntil(token.END)
	if err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil { // consume 'end'
		return nil, err
	}
	d := ast.NewDo(tok.Line, tok.Column, ast.DoBlock)
	if err := partition(d, entries); err != nil {
		return nil, p.attach(err)
	}
	return d, nil
}

// parseLet implements the `let ... in ...` form per SPEC_FULL.md's
// resolution of the spec's Open Question: a do-like block whose
// bindings are closed by `in` instead of `end`, followed by a single
// trailing body expression appended as the block's final seq entry.
func (p *Parser) parseLet() (ast.Node, error) {
	tok := p.cur
	if err := p.advance(); err != nil { // consume 'let'
		return nil, err
	}
	entries, err := p.parseEntriesUntil(token.IN)
	if err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil { // consume 'in'
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	entries = append(entries, body)

	d := ast.NewDo(tok.Line, tok.Column, ast.LetBlock)
	if err := partition(d, entries); err != nil {
		return nil, p.attach(err)
	}
	return d, nil
}

func (p *Parser) parseCase() (ast.Node, error) {
	tok := p.cur
	if err := p.advance(); err != nil { // consume 'case'
		return nil, err
	}
	subj, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OF, "case subject"); err != nil {
		return nil, err
	}

	var clauses []*ast.Clause
	for {
		pat, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		cl := pat.Pos()
		if _, err := p.expect(token.ARROW, "case clause"); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, ast.NewClause(cl.Line, cl.Column, []ast.Node{pat}, body))

		if p.at(token.SEMI) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.END, "case expression"); err != nil {
		return nil, err
	}
	return ast.NewCase(tok.Line, tok.Column, subj, clauses), nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	tok := p.cur
	if err := p.advance(); err != nil { // consume 'if'
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.THEN, "if condition"); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ELSE, "if-then branch"); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewIf(tok.Line, tok.Column, cond, then, els), nil
}

// --- expression grammar (spec.md §4.2 precedence table) ---

func (p *Parser) parseExpr() (ast.Node, error) {
	return p.parseAssign()
}

// parseAssign implements precedence level 1: `=`, right-associative,
// one level (it does not itself recurse back into parseAssign on the
// right, so `a = b = c` is not accepted as a single node).
func (p *Parser) parseAssign() (ast.Node, error) {
	left, err := p.parseLogic()
	if err != nil {
		return nil, err
	}
	if p.at(token.ASSIGN) {
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseLogic()
		if err != nil {
			return nil, err
		}
		return ast.NewAssign(tok.Line, tok.Column, left, right), nil
	}
	return left, nil
}

func (p *Parser) parseLogic() (ast.Node, error) {
	left, err := p.parseRel()
	if err != nil {
		return nil, err
	}
	for p.at(token.AND) || p.at(token.OR) {
		op := binOpFor(p.cur.Type)
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRel()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(tok.Line, tok.Column, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseRel() (ast.Node, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for p.at(token.LT) || p.at(token.GT) || p.at(token.LE) || p.at(token.GE) || p.at(token.EQ) || p.at(token.NE) {
		op := binOpFor(p.cur.Type)
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(tok.Line, tok.Column, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseAdd() (ast.Node, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.at(token.PLUS) || p.at(token.MINUS) || p.at(token.TILDE) || p.at(token.AT) {
		op := binOpFor(p.cur.Type)
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(tok.Line, tok.Column, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseMul() (ast.Node, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.DIV) || p.at(token.MOD) {
		op := binOpFor(p.cur.Type)
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(tok.Line, tok.Column, op, left, right)
	}
	return left, nil
}

func (p *Parser) parsePostfix() (ast.Node, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(token.LPAREN):
			tok := p.cur
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			e = ast.NewApply(tok.Line, tok.Column, e, args)
		case p.at(token.LBRACE):
			tok := p.cur
			entries, err := p.parseDictEntries()
			if err != nil {
				return nil, err
			}
			e = ast.NewDictUp(tok.Line, tok.Column, e, entries)
		default:
			return e, nil
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Node, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	var args []ast.Node
	for !p.at(token.RPAREN) {
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.at(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN, "function call arguments"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseDictEntries() ([]*ast.Entry, error) {
	if err := p.advance(); err != nil { // consume '{'
		return nil, err
	}
	var entries []*ast.Entry
	for !p.at(token.RBRACE) {
		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON, "dict entry"); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		kp := key.Pos()
		entries = append(entries, ast.NewEntry(kp.Line, kp.Column, key, val))
		if p.at(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE, "dict literal"); err != nil {
		return nil, err
	}
	return entries, nil
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.cur
	switch tok.Type {
	case token.MINUS:
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(tok.Line, tok.Column, ast.OpNeg, right), nil
	case token.NOT:
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(tok.Line, tok.Column, ast.OpNot, right), nil
	case token.CASE:
		return p.parseCase()
	case token.DO:
		return p.parseDo()
	case token.LET:
		return p.parseLet()
	case token.IF:
		return p.parseIf()
	case token.LBRACK:
		return p.parseArray()
	case token.LBRACE:
		entries, err := p.parseDictEntries()
		if err != nil {
			return nil, err
		}
		return ast.NewDict(tok.Line, tok.Column, entries), nil
	case token.IDENT:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewVar(tok.Line, tok.Column, tok.Ident), nil
	case token.LIT:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewLit(tok.Line, tok.Column, tok.Lit), nil
	case token.REGEX:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewRegex(tok.Line, tok.Column, tok.Regex), nil
	case token.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "parenthesized expression"); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, p.errf("Unexpected %s in expression context.", tok.Type)
	}
}

func (p *Parser) parseArray() (ast.Node, error) {
	tok := p.cur
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	var elems []ast.Node
	for !p.at(token.RBRACK) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.at(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACK, "array literal"); err != nil {
		return nil, err
	}
	return ast.NewArray(tok.Line, tok.Column, elems), nil
}

func binOpFor(t token.Type) ast.BinOp {
	switch t {
	case token.AND:
		return ast.OpAnd
	case token.OR:
		return ast.OpOr
	case token.LT:
		return ast.OpLt
	case token.GT:
		return ast.OpGt
	case token.LE:
		return ast.OpLe
	case token.GE:
		return ast.OpGe
	case token.EQ:
		return ast.OpEq
	case token.NE:
		return ast.OpNe
	case token.PLUS:
		return ast.OpAdd
	case token.MINUS:
		return ast.OpSub
	case token.TILDE:
		return ast.OpConcat
	case token.AT:
		return ast.OpAt
	case token.STAR:
		return ast.OpMul
	case token.SLASH:
		return ast.OpDiv
	case token.DIV:
		return ast.OpIDiv
	case token.MOD:
		return ast.OpMod
	default:
		panic("parser: binOpFor called with non-operator token")
	}
}
