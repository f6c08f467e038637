package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"let/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindList
	KindClosure
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindClosure:
		return "closure"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
	String() string
}

type NumberValue struct {
	Val int64
}

func (v NumberValue) Kind() Kind     { return KindNumber }
func (v NumberValue) String() string { return strconv.FormatInt(v.Val, 10) }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind     { return KindBool }
func (v BoolValue) String() string { return strconv.FormatBool(v.Val) }

type ListValue struct {
	Elements []Value
}

func (v *ListValue) Kind() Kind { return KindList }

func (v *ListValue) String() string {
	parts := make([]string, 0, len(v.Elements))
	for _, el := range v.Elements {
		parts = append(parts, el.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ClosureValue pairs a procedure body with the environment captured at its
// definition site. Evaluating the same Procedure node twice produces two
// distinct closures; the node itself is never mutated.
type ClosureValue struct {
	Param string
	Body  ast.Expression
	Env   *Environment
}

func (v *ClosureValue) Kind() Kind     { return KindClosure }
func (v *ClosureValue) String() string { return fmt.Sprintf("#<procedure (%s)>", v.Param) }

// ValuesEqual reports deep equality between two values. Closures compare by
// identity.
func ValuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av.Val == bv.Val
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case *ListValue:
		bv, ok := b.(*ListValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for idx, el := range av.Elements {
			if !ValuesEqual(el, bv.Elements[idx]) {
				return false
			}
		}
		return true
	case *ClosureValue:
		return a == b
	default:
		return false
	}
}
