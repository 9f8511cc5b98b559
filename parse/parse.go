// Package parse implements the recursive-descent parser for the
// equation grammar. Its control-flow shape (a token slice,
// a current index, match/check/advance/consume helpers) follows
// sentra-language-sentra's own parser pattern
// (internal/parser/parser.go, itself precedence-climbing over a flat
// operator table). Unlike that parser, this one builds no AST: each
// grammar production calls straight into the evaluator's stack-machine
// entry points (package eval), the way jhobby's path builder
// accumulates a result through a fluent sequence of calls instead of
// an intermediate tree.
package parse

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/schuko/tracing"

	"github.com/lineqpp-go/lineqpp/eval"
	"github.com/lineqpp-go/lineqpp/lex"
)

func tracer() tracing.Trace {
	return tracing.Select("parse")
}

// Parser drives an eval.Stack across one equation-mode token chunk.
type Parser struct {
	tokens  []lex.Token
	current int
	stack   *eval.Stack
}

// New creates a parser over tokens (already terminated by a TokEOF),
// driving stack as it recognizes the grammar.
func New(tokens []lex.Token, stack *eval.Stack) *Parser {
	return &Parser{tokens: tokens, stack: stack}
}

// Parse recognizes the `start` production in full, driving the
// stack machine as it goes. On error, the current statement is
// abandoned and the expression stack is cleared before the error is
// returned.
func (p *Parser) Parse() error {
	if err := p.start(); err != nil {
		p.stack.MkCmd()
		return err
	}
	return nil
}

func (p *Parser) start() error {
	if p.isAtEnd() {
		return nil
	}
	if err := p.cmds(); err != nil {
		return err
	}
	if p.check(lex.TokSemi) {
		p.advance()
	}
	if !p.isAtEnd() {
		return p.errorf("unexpected trailing input")
	}
	return nil
}

func (p *Parser) cmds() error {
	if err := p.eqns(); err != nil {
		return err
	}
	for p.check(lex.TokSemi) && startsExp(p.peekAt(1).Type) {
		p.advance()
		if err := p.eqns(); err != nil {
			return err
		}
	}
	return nil
}

// eqns recognizes `exp ('=' exp)+`, left-associatively chaining MkEq
// calls so "a = b = c" solves a=b then b=c against the updated
// environment.
func (p *Parser) eqns() error {
	if err := p.exp(); err != nil {
		return err
	}
	if !p.check(lex.TokEqual) {
		return p.errorf("expected '=' in equation")
	}
	for p.check(lex.TokEqual) {
		p.advance()
		if err := p.exp(); err != nil {
			return err
		}
		if err := p.stack.MkEq(); err != nil {
			return err
		}
	}
	p.stack.MkCmd()
	return nil
}

// exp recognizes addition/subtraction over progressively tighter
// layers, per precedence (lowest to highest): `+ -`, `* /`, unary `-`,
// `^` (right-assoc).
func (p *Parser) exp() error {
	return p.addSub()
}

func (p *Parser) addSub() error {
	if err := p.mulDiv(); err != nil {
		return err
	}
	for p.check(lex.TokPlus) || p.check(lex.TokMinus) {
		op := p.advance()
		if err := p.mulDiv(); err != nil {
			return err
		}
		if op.Type == lex.TokPlus {
			if err := p.stack.MkAdd(); err != nil {
				return err
			}
		} else if err := p.stack.MkSub(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) mulDiv() error {
	if err := p.unary(); err != nil {
		return err
	}
	for p.check(lex.TokStar) || p.check(lex.TokSlash) {
		op := p.advance()
		if err := p.unary(); err != nil {
			return err
		}
		if op.Type == lex.TokStar {
			if err := p.stack.MkMul(); err != nil {
				return err
			}
		} else if err := p.stack.MkDiv(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) unary() error {
	if p.check(lex.TokMinus) {
		p.advance()
		if err := p.unary(); err != nil {
			return err
		}
		return p.stack.MkNeg()
	}
	return p.pow()
}

// pow is right-associative: the right operand recurses back through
// unary so chains like "2^-2" and "2^2^2" parse as expected.
func (p *Parser) pow() error {
	if err := p.appOrPrim(); err != nil {
		return err
	}
	if p.check(lex.TokCaret) {
		p.advance()
		if err := p.unary(); err != nil {
			return err
		}
		return p.stack.MkPow()
	}
	return nil
}

// appOrPrim recognizes the grammar's "ID prim" function-application
// alternative: an identifier immediately followed by a token that can
// start a prim is an application, not a bare variable reference.
func (p *Parser) appOrPrim() error {
	if p.check(lex.TokIdent) && startsPrim(p.peekAt(1).Type) {
		name := p.advance().Lexeme
		p.stack.MkVar(name)
		if err := p.prim(); err != nil {
			return err
		}
		return p.stack.MkApp()
	}
	return p.prim()
}

// prim recognizes NUM | ID | '(' exp ')' | '?', then loops over any
// number of mediation postfixes `[exp, exp]`.
func (p *Parser) prim() error {
	if p.isAtEnd() {
		return p.errorf("unexpected end of input")
	}
	tok := p.advance()
	switch tok.Type {
	case lex.TokNumber:
		x, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return &SyntaxError{Msg: "malformed number literal", Token: tok}
		}
		p.stack.MkNum(x)
	case lex.TokIdent:
		p.stack.MkVar(tok.Lexeme)
	case lex.TokQuestion:
		p.stack.MkAnon()
	case lex.TokLParen:
		if err := p.exp(); err != nil {
			return err
		}
		if err := p.consume(lex.TokRParen, "expected ')'"); err != nil {
			return err
		}
	default:
		tracer().Errorf("unexpected token %s at line %d", tok, tok.Line)
		return &SyntaxError{Msg: "expected a number, identifier, '(' or '?'", Token: tok}
	}
	for p.check(lex.TokLBracket) {
		p.advance()
		if err := p.exp(); err != nil {
			return err
		}
		if err := p.consume(lex.TokComma, "expected ',' in mediation"); err != nil {
			return err
		}
		if err := p.exp(); err != nil {
			return err
		}
		if err := p.consume(lex.TokRBracket, "expected ']' in mediation"); err != nil {
			return err
		}
		if err := p.stack.MkMed(); err != nil {
			return err
		}
	}
	return nil
}

func startsExp(t lex.TokenType) bool {
	switch t {
	case lex.TokNumber, lex.TokIdent, lex.TokLParen, lex.TokMinus, lex.TokQuestion:
		return true
	default:
		return false
	}
}

func startsPrim(t lex.TokenType) bool {
	switch t {
	case lex.TokNumber, lex.TokIdent, lex.TokLParen, lex.TokQuestion:
		return true
	default:
		return false
	}
}

func (p *Parser) check(t lex.TokenType) bool {
	return !p.isAtEnd() && p.peek().Type == t
}

func (p *Parser) advance() lex.Token {
	t := p.tokens[p.current]
	if !p.isAtEnd() {
		p.current++
	}
	return t
}

func (p *Parser) consume(t lex.TokenType, msg string) error {
	if p.check(t) {
		p.advance()
		return nil
	}
	return &SyntaxError{Msg: msg, Token: p.peek()}
}

func (p *Parser) peek() lex.Token {
	return p.tokens[p.current]
}

func (p *Parser) peekAt(n int) lex.Token {
	i := p.current + n
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[i]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lex.TokEOF
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Token: p.peek()}
}

// Position reports the line and lexeme of the token parsing last
// stopped at. Solver and arithmetic errors bubbled up from MkEq carry
// no token of their own; this gives a caller one to report them at.
func (p *Parser) Position() (line int, lexeme string) {
	t := p.peek()
	return t.Line, t.Lexeme
}
