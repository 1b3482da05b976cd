package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeclAndExprStmt(t *testing.T) {
	stmts, err := Parse(`uint256 x = 1 + 2 * 3;`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	decl, ok := stmts[0].(*DeclStmt)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
	assert.Equal(t, "uint256", decl.Type.Name)
	bin, ok := decl.Value.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
	rhs, ok := bin.Right.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op)
}

func TestParsePlainExpressionStatementNotMisreadAsDecl(t *testing.T) {
	stmts, err := Parse(`foo(1, 2);`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	exprStmt, ok := stmts[0].(*ExprStmt)
	require.True(t, ok)
	call, ok := exprStmt.Expr.(*CallExpr)
	require.True(t, ok)
	assert.Len(t, call.Args, 2)
}

func TestParseAssignment(t *testing.T) {
	stmts, err := Parse(`x = 5;`)
	require.NoError(t, err)
	assign, ok := stmts[0].(*AssignStmt)
	require.True(t, ok)
	require.Len(t, assign.Targets, 1)
	ident, ok := assign.Targets[0].(*Ident)
	require.True(t, ok)
	assert.Equal(t, "x", ident.Name)
}

func TestParseMultiAssignment(t *testing.T) {
	stmts, err := Parse(`(a, b) = f();`)
	require.NoError(t, err)
	assign, ok := stmts[0].(*AssignStmt)
	require.True(t, ok)
	require.Len(t, assign.Targets, 2)
}

func TestParseCallWithOptions(t *testing.T) {
	stmts, err := Parse(`token.transfer(to, amount){value: 1000000000000000000, gasLimit: 21000};`)
	require.NoError(t, err)
	exprStmt := stmts[0].(*ExprStmt)
	call, ok := exprStmt.Expr.(*CallExpr)
	require.True(t, ok)
	require.Len(t, call.Options, 2)
	assert.Equal(t, "value", call.Options[0].Key)
	assert.Equal(t, "gasLimit", call.Options[1].Key)
	member, ok := call.Callee.(*MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "transfer", member.Name)
}

func TestParseIndexAndSlice(t *testing.T) {
	stmts, err := Parse(`x = arr[0];`)
	require.NoError(t, err)
	assign := stmts[0].(*AssignStmt)
	_, ok := assign.Value.(*IndexExpr)
	assert.True(t, ok)

	stmts, err = Parse(`x = data[1:4];`)
	require.NoError(t, err)
	assign = stmts[0].(*AssignStmt)
	slice, ok := assign.Value.(*SliceExpr)
	require.True(t, ok)
	assert.NotNil(t, slice.Low)
	assert.NotNil(t, slice.High)
}

func TestParseNegativeIndexAsUnaryMinus(t *testing.T) {
	stmts, err := Parse(`x = arr[-1];`)
	require.NoError(t, err)
	assign := stmts[0].(*AssignStmt)
	idx, ok := assign.Value.(*IndexExpr)
	require.True(t, ok)
	unary, ok := idx.Index.(*UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, "-", unary.Op)
}

func TestParseIfElseAndWhile(t *testing.T) {
	src := `
		if (x > 0) {
			y = 1;
		} else {
			y = 2;
		}
		while (x < 10) {
			x = x + 1;
		}
	`
	stmts, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	ifStmt, ok := stmts[0].(*IfStmt)
	require.True(t, ok)
	assert.NotNil(t, ifStmt.Else)
	_, ok = stmts[1].(*WhileStmt)
	assert.True(t, ok)
}

func TestParseForLoopScopingIsFlatInAST(t *testing.T) {
	stmts, err := Parse(`
		uint256 x = 1;
		for (uint256 i = 0; i < 3; i = i + 1) {
			x = x + i;
		}
	`)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	forStmt, ok := stmts[1].(*ForStmt)
	require.True(t, ok)
	assert.NotNil(t, forStmt.Init)
	assert.NotNil(t, forStmt.Cond)
	assert.NotNil(t, forStmt.Post)
}

func TestParseFunctionDecl(t *testing.T) {
	stmts, err := Parse(`
		function add(uint256 a, uint256 b) returns (uint256) {
			return a + b;
		}
	`)
	require.NoError(t, err)
	fn, ok := stmts[0].(*FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	require.Len(t, fn.Body.Stmts, 1)
	_, ok = fn.Body.Stmts[0].(*ReturnStmt)
	assert.True(t, ok)
}

func TestParseCompoundAssignDesugarsToBinaryExpr(t *testing.T) {
	stmts, err := Parse(`x += 1;`)
	require.NoError(t, err)
	assign, ok := stmts[0].(*AssignStmt)
	require.True(t, ok)
	bin, ok := assign.Value.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParseArrayAndTupleLiterals(t *testing.T) {
	stmts, err := Parse(`x = [1, 2, 3];`)
	require.NoError(t, err)
	assign := stmts[0].(*AssignStmt)
	arr, ok := assign.Value.(*ArrayLiteral)
	require.True(t, ok)
	assert.Len(t, arr.Elements, 3)

	stmts, err = Parse(`x = (1, "a", true);`)
	require.NoError(t, err)
	assign = stmts[0].(*AssignStmt)
	tuple, ok := assign.Value.(*TupleLiteral)
	require.True(t, ok)
	assert.Len(t, tuple.Elements, 3)
}

func TestParseArrayTypeDecl(t *testing.T) {
	stmts, err := Parse(`uint256[] xs = [1, 2];`)
	require.NoError(t, err)
	decl, ok := stmts[0].(*DeclStmt)
	require.True(t, ok)
	assert.True(t, decl.Type.IsArray)
	assert.Equal(t, "uint256", decl.Type.Elems[0].Name)
}

func TestParseMemberChainAndHexLiteral(t *testing.T) {
	stmts, err := Parse(`x = token.balanceOf(0xAbCdEf1234567890AbCdEf1234567890AbCdEf12);`)
	require.NoError(t, err)
	assign := stmts[0].(*AssignStmt)
	call, ok := assign.Value.(*CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
	hex, ok := call.Args[0].(*HexLiteral)
	require.True(t, ok)
	assert.Equal(t, "AbCdEf1234567890AbCdEf1234567890AbCdEf12", hex.Text)
}

func TestParseScientificIntLiteral(t *testing.T) {
	stmts, err := Parse(`x = 2e18;`)
	require.NoError(t, err)
	assign := stmts[0].(*AssignStmt)
	lit, ok := assign.Value.(*IntLiteral)
	require.True(t, ok)
	assert.True(t, lit.IsSci)
	assert.Equal(t, "2", lit.Text)
	assert.Equal(t, 18, lit.Exponent)
}

func TestParseUnaryAndLogicalPrecedence(t *testing.T) {
	stmts, err := Parse(`x = !a && b || c;`)
	require.NoError(t, err)
	assign := stmts[0].(*AssignStmt)
	or, ok := assign.Value.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "||", or.Op)
	and, ok := or.Left.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "&&", and.Op)
	not, ok := and.Left.(*UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, "!", not.Op)
}
