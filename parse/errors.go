package parse

import (
	"errors"
	"fmt"

	"github.com/lineqpp-go/lineqpp/lex"
)

// ErrParse is the sentinel every parse failure wraps, so callers can
// test for "this was a syntax problem" with errors.Is without caring
// about the exact message.
var ErrParse = errors.New("parse error")

// SyntaxError carries the token a parse failure was detected at, so the
// driver can format a "{file}:{lineno}: {message} at token {lexeme}"
// report without the parser needing to know about file names.
type SyntaxError struct {
	Msg   string
	Token lex.Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at token %q", e.Msg, e.Token.Lexeme)
}

func (e *SyntaxError) Unwrap() error { return ErrParse }

// Line reports the source line the offending token started on.
func (e *SyntaxError) Line() int { return e.Token.Line }

// Lexeme reports the offending token's text.
func (e *SyntaxError) Lexeme() string { return e.Token.Lexeme }
