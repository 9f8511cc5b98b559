package lineqpp

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"

	"github.com/lineqpp-go/lineqpp/solve"
)

func TestRunS1ChainedEquationAndSubstitution(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	input := "#lineqpp z1 = -z2 = .2 ;\n" +
		"point is at (z1#r, z1#i) and (z2#r, z2#i)\n"
	var out strings.Builder
	err := Run(strings.NewReader(input), &out, nil)
	assert.NoError(t, err)
	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "", lines[0])
	assert.Equal(t, "point is at (0.2000, 0.0000) and (-0.2000, 0.0000)", lines[1])
}

func TestRunS2MultiStatement(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	input := "#lineqpp x = 1 ; y = 2 ; s = x + y ;\n" +
		"sum is s#r\n"
	var out strings.Builder
	assert.NoError(t, Run(strings.NewReader(input), &out, nil))
	assert.Contains(t, out.String(), "sum is 3.0000")
}

func TestRunS3FunctionOfConstant(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	input := "#lineqpp a = i ; b = a * a ;\nb is b#r\n"
	var out strings.Builder
	assert.NoError(t, Run(strings.NewReader(input), &out, nil))
	assert.Contains(t, out.String(), "b is -1.0000")
}

func TestRunS4MediatedPair(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	input := "#lineqpp z3 = .3 + y3 * i ; z6 = -.3 + y6 * i ; " +
		"z3 + y3 * i = z6 + y6 * i ; y3 + .3 = 1.1 ;\n" +
		"y3#r y6#r\n"
	var out strings.Builder
	assert.NoError(t, Run(strings.NewReader(input), &out, nil))
	assert.Contains(t, out.String(), "0.8000 1.4000")
}

func TestRunS5RedundantAborts(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	input := "#lineqpp x = 1 ; x = 1 ;\n"
	var out strings.Builder
	err := Run(strings.NewReader(input), &out, nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, solve.ErrRedundantEquation)
	var re *RunError
	assert.ErrorAs(t, err, &re)
	assert.Equal(t, 1, re.Line)
}

func TestRunS6InconsistentAborts(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	input := "#lineqpp x = 1 ; x = 2 ;\n"
	var out strings.Builder
	err := Run(strings.NewReader(input), &out, nil)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, solve.ErrInconsistentEquation))
}

func TestRunContinueOnRedundantOption(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	input := "#lineqpp x = 1 ; x = 1 ; y = 2 ;\ny is y#r\n"
	var out strings.Builder
	err := Run(strings.NewReader(input), &out, &Options{ContinueOnRedundant: true})
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "y is 2.0000")
}

func TestRunPassesThroughUnmatchedTokens(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	input := "no equations here, just unk#r text\n"
	var out strings.Builder
	assert.NoError(t, Run(strings.NewReader(input), &out, nil))
	assert.Equal(t, "no equations here, just unk#r text\n", out.String())
}

func TestRunPassesThroughUnmatchedTokenPreservesXYSpelling(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	input := "width is foo#x\n"
	var out strings.Builder
	assert.NoError(t, Run(strings.NewReader(input), &out, nil))
	assert.Equal(t, "width is foo#x\n", out.String())
}

func TestRunBackslashContinuationPreservesLineNumbers(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	input := "#lineqpp x = \\\n1 ;\n" +
		"line three: x#r\n"
	var out strings.Builder
	assert.NoError(t, Run(strings.NewReader(input), &out, nil))
	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "line three: 1.0000", lines[2])
}

func TestRunDebugTraceFormat(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	input := "#lineqpp x = 1 ;\n"
	var out, dbg strings.Builder
	assert.NoError(t, Run(strings.NewReader(input), &out, &Options{Debug: &dbg}))
	assert.Contains(t, dbg.String(), "= ")
	assert.Contains(t, dbg.String(), "x is ")
}
