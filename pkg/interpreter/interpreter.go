package interpreter

import (
	"fmt"

	"let/interpreter-go/pkg/ast"
	"let/interpreter-go/pkg/runtime"
)

// Interpreter drives evaluation of LET expression trees.
type Interpreter struct {
	global *runtime.Environment
}

// New returns an interpreter with an empty global environment.
func New() *Interpreter {
	return &Interpreter{global: runtime.NewEnvironment(nil)}
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Evaluate evaluates an expression under the given environment. A nil
// environment means the interpreter's global environment.
func (i *Interpreter) Evaluate(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	if env == nil {
		env = i.global
	}
	return i.evaluateExpression(expr, env)
}

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Const:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.Var:
		return env.Get(n.Name)
	case *ast.Minus:
		// Re-wraps the numeric payload without negating; callers that want
		// negation compose it with Diff(Const(0), e).
		val, err := i.evaluateExpression(n.Operand, env)
		if err != nil {
			return nil, err
		}
		num, err := numberPayload(val, "minus operand")
		if err != nil {
			return nil, err
		}
		return runtime.NumberValue{Val: num}, nil
	case *ast.Zero:
		val, err := i.evaluateExpression(n.Operand, env)
		if err != nil {
			return nil, err
		}
		num, err := numberPayload(val, "zero? operand")
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: num == 0}, nil
	case *ast.If:
		return i.evaluateIf(n, env)
	case *ast.LetBinding:
		return i.evaluateLetBinding(n, env)
	case *ast.Let:
		return i.evaluateLet(n, env)
	case *ast.Procedure:
		return &runtime.ClosureValue{Param: n.Param.Name, Body: n.Body, Env: env}, nil
	case *ast.ProcedureCall:
		return i.evaluateProcedureCall(n, env)
	case *ast.Conds:
		return i.evaluateConds(n, env)
	case *ast.List:
		values := make([]runtime.Value, 0, len(n.Elements))
		for _, el := range n.Elements {
			val, err := i.evaluateExpression(el, env)
			if err != nil {
				return nil, err
			}
			values = append(values, val)
		}
		return &runtime.ListValue{Elements: values}, nil
	case *ast.Unpack:
		return i.evaluateUnpack(n, env)
	case *ast.Car:
		elements, err := i.evaluateListOperand(n.Operand, env, "car")
		if err != nil {
			return nil, err
		}
		if len(elements) == 0 {
			return nil, runtime.NewEmptyListAccess("car")
		}
		return elements[0], nil
	case *ast.Cdr:
		elements, err := i.evaluateListOperand(n.Operand, env, "cdr")
		if err != nil {
			return nil, err
		}
		if len(elements) == 0 {
			return nil, runtime.NewEmptyListAccess("cdr")
		}
		return &runtime.ListValue{Elements: elements[1:]}, nil
	case *ast.Null:
		elements, err := i.evaluateListOperand(n.Operand, env, "null?")
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: len(elements) == 0}, nil
	case *ast.BinaryOp:
		return i.evaluateBinaryOp(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", n.NodeType())
	}
}

// evaluateIf evaluates exactly one branch.
func (i *Interpreter) evaluateIf(expr *ast.If, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.evaluateExpression(expr.Test, env)
	if err != nil {
		return nil, err
	}
	test, err := boolPayload(cond, "if test")
	if err != nil {
		return nil, err
	}
	if test {
		return i.evaluateExpression(expr.Then, env)
	}
	return i.evaluateExpression(expr.Else, env)
}

// evaluateLetBinding binds into the ambient environment and returns the
// bound value.
func (i *Interpreter) evaluateLetBinding(binding *ast.LetBinding, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(binding.Value, env)
	if err != nil {
		return nil, err
	}
	env.Define(binding.Name.Name, val)
	return val, nil
}

// evaluateLet gives all bindings one shared frame, evaluated in order, so
// later bindings may reference earlier ones but no binding sees itself.
func (i *Interpreter) evaluateLet(expr *ast.Let, env *runtime.Environment) (runtime.Value, error) {
	scope := env.Extend()
	for _, binding := range expr.Bindings {
		if _, err := i.evaluateLetBinding(binding, scope); err != nil {
			return nil, err
		}
	}
	return i.evaluateExpression(expr.Body, scope)
}

// evaluateProcedureCall implements lexical-scoping call semantics: the body
// sees the closure's captured environment plus the parameter binding, never
// the caller's environment.
func (i *Interpreter) evaluateProcedureCall(expr *ast.ProcedureCall, env *runtime.Environment) (runtime.Value, error) {
	procVal, err := i.evaluateExpression(expr.Proc, env)
	if err != nil {
		return nil, err
	}
	closure, ok := procVal.(*runtime.ClosureValue)
	if !ok {
		return nil, runtime.NewTypeMismatch("cannot call %s value", procVal.Kind())
	}
	arg, err := i.evaluateExpression(expr.Arg, env)
	if err != nil {
		return nil, err
	}
	scope := closure.Env.Extend()
	scope.Define(closure.Param, arg)
	return i.evaluateExpression(closure.Body, scope)
}

// evaluateConds returns the value of the first clause whose test is true,
// short-circuiting the remaining clauses.
func (i *Interpreter) evaluateConds(expr *ast.Conds, env *runtime.Environment) (runtime.Value, error) {
	for _, clause := range expr.Clauses {
		cond, err := i.evaluateExpression(clause.Test, env)
		if err != nil {
			return nil, err
		}
		test, err := boolPayload(cond, "cond test")
		if err != nil {
			return nil, err
		}
		if test {
			return i.evaluateExpression(clause.Value, env)
		}
	}
	return nil, runtime.NewNoMatchingClause()
}

func (i *Interpreter) evaluateUnpack(expr *ast.Unpack, env *runtime.Environment) (runtime.Value, error) {
	elements, err := i.evaluateListOperand(expr.Packed, env, "unpack")
	if err != nil {
		return nil, err
	}
	if len(expr.Names) != len(elements) {
		return nil, runtime.NewArityMismatch(len(expr.Names), len(elements))
	}
	scope := env.Extend()
	for idx, name := range expr.Names {
		scope.Define(name.Name, elements[idx])
	}
	return i.evaluateExpression(expr.Body, scope)
}

func (i *Interpreter) evaluateListOperand(expr ast.Expression, env *runtime.Environment, op string) ([]runtime.Value, error) {
	val, err := i.evaluateExpression(expr, env)
	if err != nil {
		return nil, err
	}
	list, ok := val.(*runtime.ListValue)
	if !ok {
		return nil, runtime.NewTypeMismatch("%s expects a list, got %s", op, val.Kind())
	}
	return list.Elements, nil
}

func numberPayload(val runtime.Value, ctx string) (int64, error) {
	num, ok := val.(runtime.NumberValue)
	if !ok {
		return 0, runtime.NewTypeMismatch("%s must be a number, got %s", ctx, val.Kind())
	}
	return num.Val, nil
}

func boolPayload(val runtime.Value, ctx string) (bool, error) {
	b, ok := val.(runtime.BoolValue)
	if !ok {
		return false, runtime.NewTypeMismatch("%s must be a bool, got %s", ctx, val.Kind())
	}
	return b.Val, nil
}
