// Package lineqpp is the preprocessor driver: it owns one solver
// state for a run, alternates the input between text mode and
// equation mode, and performs the
// free-text substitution pass. Its Run entry point takes
// an io.Reader/io.Writer pair and an options value, used by
// cmd/lineqpp and directly by tests alike, rather than a long-lived
// object with separate Open/Close steps, since a run here really is
// one shot, start to finish.
package lineqpp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/lineqpp-go/lineqpp/eval"
	"github.com/lineqpp-go/lineqpp/lex"
	"github.com/lineqpp-go/lineqpp/parse"
	"github.com/lineqpp-go/lineqpp/polyn"
	"github.com/lineqpp-go/lineqpp/solve"
)

func tracer() tracing.Trace {
	return tracing.Select("lineqpp")
}

const modeSwitchPrefix = "#lineqpp"

// Options configures a single preprocessor run.
type Options struct {
	// Filename labels error messages ("{file}:{lineno}: ..."); defaults
	// to "<stdin>" if empty.
	Filename string
	// Debug, if non-nil, receives the exact-format debug trace
	// for the -d flag.
	Debug io.Writer
	// ContinueOnRedundant lets a RedundantEquation be logged and
	// skipped instead of aborting the run, documented
	// here rather than exposed as a CLI flag.
	ContinueOnRedundant bool
}

func (o *Options) filename() string {
	if o == nil || o.Filename == "" {
		return "<stdin>"
	}
	return o.Filename
}

// RunError reports a fatal preprocessing failure with its exact
// source location.
type RunError struct {
	File   string
	Line   int
	Lexeme string
	Err    error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s:%d: %s at token %q", e.File, e.Line, e.Err.Error(), e.Lexeme)
}

func (e *RunError) Unwrap() error { return e.Err }

// Run reads r as a mixed text/equation stream and writes the
// substituted text to w. It returns a non-nil *RunError
// on the first fatal error, including the first
// RedundantEquation/InconsistentEquation.
func Run(r io.Reader, w io.Writer, opts *Options) error {
	state := solve.NewState()
	if opts != nil && opts.Debug != nil {
		state.Trace = &debugTracer{w: opts.Debug}
	}
	stack := eval.NewStack(state)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	file := opts.filename()
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if rest, ok := stripModeSwitch(line); ok {
			src, consumed := collectEquationSource(sc, rest)
			for i := 0; i < consumed; i++ {
				fmt.Fprintln(w)
			}
			toks, err := lex.Scan(src, lineNo)
			if err == nil {
				p := parse.New(toks, stack)
				err = p.Parse()
				if err != nil {
					if redundant := errors.Is(err, solve.ErrRedundantEquation); redundant && opts != nil && opts.ContinueOnRedundant {
						tracer().Infof("%s:%d: skipping redundant equation", file, lineNo)
						err = nil
					}
				}
			}
			if err != nil {
				eline, lexeme := errorLocation(err, lineNo)
				return &RunError{File: file, Line: eline, Lexeme: lexeme, Err: unwrapToCause(err)}
			}
			lineNo += consumed - 1
			continue
		}
		if err := substituteLine(w, state, line); err != nil {
			return &RunError{File: file, Line: lineNo, Lexeme: "", Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return &RunError{File: file, Line: lineNo, Lexeme: "", Err: err}
	}
	return nil
}

// stripModeSwitch reports whether line begins with the #lineqpp
// prefix (no leading whitespace permitted) and, if so,
// the remainder of the line that follows it.
func stripModeSwitch(line string) (rest string, ok bool) {
	if !strings.HasPrefix(line, modeSwitchPrefix) {
		return "", false
	}
	return line[len(modeSwitchPrefix):], true
}

// collectEquationSource reads as many physical lines as the
// trailing-backslash continuation rule demands, returning
// the joined equation source (with real newlines, so package lex's own
// continuation handling applies unchanged) and the number of physical
// lines consumed, including first.
func collectEquationSource(sc *bufio.Scanner, first string) (src string, consumed int) {
	var b strings.Builder
	cur := first
	consumed = 1
	for {
		b.WriteString(cur)
		b.WriteByte('\n')
		if !strings.HasSuffix(cur, "\\") || !sc.Scan() {
			break
		}
		cur = sc.Text()
		consumed++
	}
	return b.String(), consumed
}

// substituteLine rewrites line's reference tokens against state's
// translation table and writes the result; a miss leaves the token
// untouched.
func substituteLine(w io.Writer, state *solve.State, line string) error {
	for _, piece := range lex.SplitTextLine(line) {
		if piece.Literal {
			if _, err := io.WriteString(w, piece.Text); err != nil {
				return err
			}
			continue
		}
		token := piece.Name + "#" + piece.Part
		if val, ok := state.Translate(token); ok {
			if _, err := io.WriteString(w, val); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s#%c", piece.Name, piece.Suffix); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// errorLocation extracts a report location from err: a *parse.SyntaxError
// carries its own precise token, everything else falls back to the
// equation chunk's starting line with no specific lexeme.
func errorLocation(err error, startLine int) (line int, lexeme string) {
	var se *parse.SyntaxError
	if errors.As(err, &se) {
		return se.Line(), se.Lexeme()
	}
	return startLine, ""
}

// unwrapToCause replaces a *parse.SyntaxError (if any) with a plain
// error carrying only its message, since RunError already carries the
// location that SyntaxError would otherwise duplicate. The replacement
// does not wrap parse.ErrParse; any other error is returned unchanged.
func unwrapToCause(err error) error {
	var se *parse.SyntaxError
	if errors.As(err, &se) {
		return errors.New(se.Msg)
	}
	return err
}

// debugTracer implements solve.Tracer, writing the exact byte format
// required for the -d flag.
type debugTracer struct {
	w io.Writer
}

func (d *debugTracer) Equation(left, right polyn.Polynomial) {
	fmt.Fprintf(d.w, "%s = %s\n", left.TraceString(), right.TraceString())
}

func (d *debugTracer) Dependency(name string, p polyn.Polynomial) {
	fmt.Fprintf(d.w, "%s is %s\n", name, p.TraceString())
}
