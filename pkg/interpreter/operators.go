package interpreter

import (
	"let/interpreter-go/pkg/ast"
	"let/interpreter-go/pkg/runtime"
)

// All binary operator variants share one evaluation rule: evaluate both
// sides under the same environment, unwrap the numeric payloads, apply the
// primitive from the table, wrap with the table's result constructor.

type operatorRule struct {
	arith   func(a, b int64) int64
	compare func(a, b int64) bool
}

var operatorRules = map[ast.Operator]operatorRule{
	ast.OpAdd:         {arith: func(a, b int64) int64 { return a + b }},
	ast.OpDiff:        {arith: func(a, b int64) int64 { return a - b }},
	ast.OpMult:        {arith: func(a, b int64) int64 { return a * b }},
	ast.OpDiv:         {arith: func(a, b int64) int64 { return a / b }},
	ast.OpEqualTo:     {compare: func(a, b int64) bool { return a == b }},
	ast.OpGreaterThan: {compare: func(a, b int64) bool { return a > b }},
	ast.OpLessThan:    {compare: func(a, b int64) bool { return a < b }},
}

func (i *Interpreter) evaluateBinaryOp(expr *ast.BinaryOp, env *runtime.Environment) (runtime.Value, error) {
	rule, ok := operatorRules[expr.Op]
	if !ok {
		return nil, runtime.NewTypeMismatch("unknown operator %q", expr.Op)
	}
	firstVal, err := i.evaluateExpression(expr.First, env)
	if err != nil {
		return nil, err
	}
	secondVal, err := i.evaluateExpression(expr.Second, env)
	if err != nil {
		return nil, err
	}
	first, err := numberPayload(firstVal, "left operand of "+string(expr.Op))
	if err != nil {
		return nil, err
	}
	second, err := numberPayload(secondVal, "right operand of "+string(expr.Op))
	if err != nil {
		return nil, err
	}
	if rule.compare != nil {
		return runtime.BoolValue{Val: rule.compare(first, second)}, nil
	}
	if expr.Op == ast.OpDiv && second == 0 {
		return nil, runtime.NewTypeMismatch("division by zero")
	}
	return runtime.NumberValue{Val: rule.arith(first, second)}, nil
}
