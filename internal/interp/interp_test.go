package interp

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danhper/eclair/internal/builtins"
	"github.com/danhper/eclair/internal/logging"
	"github.com/danhper/eclair/internal/session"
	"github.com/danhper/eclair/internal/values"
)

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	log := logging.New()
	sess := session.New(log)
	reg := builtins.NewRegistry()
	return New(reg, sess, log, io.Discard, io.Discard, nil, nil)
}

func eval(t *testing.T, src string) values.Value {
	t.Helper()
	ev := newTestEvaluator(t)
	v, err := ev.EvalSource(context.Background(), src)
	require.NoError(t, err)
	return v
}

func TestArithmeticWidensToLargerOperand(t *testing.T) {
	v := eval(t, "uint8(1) + uint256(2)")
	i, ok := v.(*values.Integer)
	require.True(t, ok)
	assert.Equal(t, 256, i.Bits)
	assert.Equal(t, "3", i.String())
}

func TestLastResultUpdatesAfterExpressionStatement(t *testing.T) {
	ev := newTestEvaluator(t)
	ctx := context.Background()
	_, err := ev.EvalSource(ctx, "1 + 1")
	require.NoError(t, err)
	v, err := ev.EvalSource(ctx, "_")
	require.NoError(t, err)
	assert.Equal(t, "2", v.String())
}

func TestDeclarationPersistsAcrossEvalCalls(t *testing.T) {
	ev := newTestEvaluator(t)
	ctx := context.Background()
	_, err := ev.EvalSource(ctx, "uint256 x = 10;")
	require.NoError(t, err)
	v, err := ev.EvalSource(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "10", v.String())
}

func TestOnlyFunctionBodiesIntroduceScope(t *testing.T) {
	ev := newTestEvaluator(t)
	ctx := context.Background()
	_, err := ev.EvalSource(ctx, `
		uint256 x = 1;
		if (true) {
			x = 2;
		}
	`)
	require.NoError(t, err)
	v, err := ev.EvalSource(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "2", v.String())
}

func TestClosureCapturesDefiningEnvironment(t *testing.T) {
	ev := newTestEvaluator(t)
	ctx := context.Background()
	_, err := ev.EvalSource(ctx, `
		function add(uint256 a, uint256 b) {
			return a + b;
		}
	`)
	require.NoError(t, err)
	v, err := ev.EvalSource(ctx, "add(3, 4)")
	require.NoError(t, err)
	assert.Equal(t, "7", v.String())
}

func TestLambdaMapOverArray(t *testing.T) {
	v := eval(t, "[1, 2, 3].map(x => x * 2)")
	arr, ok := v.(*values.Array)
	require.True(t, ok)
	require.Len(t, arr.Elements, 3)
	assert.Equal(t, "6", arr.Elements[2].String())
}

func TestArrayFilterAndReduce(t *testing.T) {
	v := eval(t, "[1, 2, 3, 4].filter(x => x > 2).reduce((a, b) => a + b)")
	assert.Equal(t, "7", v.String())
}

func TestNegativeArrayIndex(t *testing.T) {
	v := eval(t, "[10, 20, 30][-1]")
	assert.Equal(t, "30", v.String())
}

func TestArrayLengthIsProperty(t *testing.T) {
	v := eval(t, "[1, 2, 3].length")
	i, ok := v.(*values.Integer)
	require.True(t, ok)
	assert.Equal(t, "3", i.String())
}

func TestTupleElementAccessByIndex(t *testing.T) {
	v := eval(t, "(1, true)[1]")
	assert.Equal(t, values.Bool(true), v)
}

func TestStringConcatenation(t *testing.T) {
	v := eval(t, `"foo" + "bar"`)
	assert.Equal(t, "foobar", v.String())
}

func TestShortCircuitAndDoesNotEvaluateRHSTypeError(t *testing.T) {
	v := eval(t, "false && (1 / 0 > 0)")
	assert.Equal(t, values.Bool(false), v)
}

func TestForLoopAccumulates(t *testing.T) {
	ev := newTestEvaluator(t)
	ctx := context.Background()
	_, err := ev.EvalSource(ctx, `
		uint256 total = 0;
		for (uint256 i = 0; i < 5; i = i + 1) {
			total = total + i;
		}
	`)
	require.NoError(t, err)
	v, err := ev.EvalSource(ctx, "total")
	require.NoError(t, err)
	assert.Equal(t, "10", v.String())
}

func TestDivisionByZeroIsTypeError(t *testing.T) {
	ev := newTestEvaluator(t)
	_, err := ev.EvalSource(context.Background(), "1 / 0")
	require.Error(t, err)
	everr, ok := err.(*values.Error)
	require.True(t, ok)
	assert.Equal(t, values.ErrType, everr.Kind)
}

func TestUndefinedNameIsNameError(t *testing.T) {
	ev := newTestEvaluator(t)
	_, err := ev.EvalSource(context.Background(), "doesNotExist")
	require.Error(t, err)
	everr, ok := err.(*values.Error)
	require.True(t, ok)
	assert.Equal(t, values.ErrName, everr.Kind)
}
