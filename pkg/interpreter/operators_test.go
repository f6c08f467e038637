package interpreter

import (
	"testing"

	"let/interpreter-go/pkg/ast"
	"let/interpreter-go/pkg/runtime"
)

func TestArithmeticOperators(t *testing.T) {
	cases := []struct {
		op       ast.Operator
		a, b     int64
		expected int64
	}{
		{ast.OpAdd, 2, 3, 5},
		{ast.OpDiff, 2, 3, -1},
		{ast.OpMult, 4, 3, 12},
		{ast.OpDiv, 9, 2, 4},
	}
	interp := New()
	for _, tc := range cases {
		expr := ast.NewBinaryOp(tc.op, ast.Num(tc.a), ast.Num(tc.b))
		val, err := interp.Evaluate(expr, nil)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.op, err)
		}
		num, ok := val.(runtime.NumberValue)
		if !ok || num.Val != tc.expected {
			t.Fatalf("%d %s %d = %#v, want %d", tc.a, tc.op, tc.b, val, tc.expected)
		}
	}
}

func TestComparisonOperators(t *testing.T) {
	cases := []struct {
		op       ast.Operator
		a, b     int64
		expected bool
	}{
		{ast.OpEqualTo, 2, 2, true},
		{ast.OpEqualTo, 2, 3, false},
		{ast.OpGreaterThan, 3, 2, true},
		{ast.OpGreaterThan, 2, 3, false},
		{ast.OpLessThan, 2, 3, true},
		{ast.OpLessThan, 3, 2, false},
	}
	interp := New()
	for _, tc := range cases {
		expr := ast.NewBinaryOp(tc.op, ast.Num(tc.a), ast.Num(tc.b))
		val, err := interp.Evaluate(expr, nil)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.op, err)
		}
		b, ok := val.(runtime.BoolValue)
		if !ok || b.Val != tc.expected {
			t.Fatalf("%d %s %d = %#v, want %v", tc.a, tc.op, tc.b, val, tc.expected)
		}
	}
}

func TestOperatorsEvaluateUnderOneEnvironment(t *testing.T) {
	expr := ast.LetIn(
		[]*ast.LetBinding{ast.Bind("x", ast.Num(6))},
		ast.Mult(ast.Id("x"), ast.Id("x")),
	)
	val, err := New().Evaluate(expr, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	num, ok := val.(runtime.NumberValue)
	if !ok || num.Val != 36 {
		t.Fatalf("expected 36, got %#v", val)
	}
}

func TestOperatorRejectsNonNumericOperand(t *testing.T) {
	exprs := []ast.Expression{
		ast.Add(ast.NewZero(ast.Num(0)), ast.Num(1)),
		ast.LessThan(ast.Num(1), ast.ListOf()),
	}
	for _, expr := range exprs {
		_, err := New().Evaluate(expr, nil)
		if !runtime.IsKind(err, runtime.TypeMismatch) {
			t.Fatalf("expected TypeMismatch, got %v", err)
		}
	}
}

func TestDivisionByZeroFails(t *testing.T) {
	_, err := New().Evaluate(ast.Div(ast.Num(1), ast.Num(0)), nil)
	if !runtime.IsKind(err, runtime.TypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestOperandErrorPropagates(t *testing.T) {
	_, err := New().Evaluate(ast.Add(ast.Id("ghost"), ast.Num(1)), nil)
	if !runtime.IsKind(err, runtime.UnboundVariable) {
		t.Fatalf("expected UnboundVariable, got %v", err)
	}
}
