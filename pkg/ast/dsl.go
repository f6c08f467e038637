package ast

// Shorthand constructors used by tests and tools.

func Num(value int64) *Const {
	return NewConst(value)
}

func Id(name string) *Var {
	return NewVar(name)
}

func Bind(name string, value Expression) *LetBinding {
	return NewLetBinding(Id(name), value)
}

func LetIn(bindings []*LetBinding, body Expression) *Let {
	return NewLet(bindings, body)
}

func Proc(param string, body Expression) *Procedure {
	return NewProcedure(Id(param), body)
}

func Call(proc, arg Expression) *ProcedureCall {
	return NewProcedureCall(proc, arg)
}

func Clause(test, value Expression) *CondClause {
	return NewCondClause(test, value)
}

func Cond(clauses ...*CondClause) *Conds {
	return NewConds(clauses)
}

func ListOf(elements ...Expression) *List {
	return NewList(elements)
}

func UnpackIn(names []string, packed, body Expression) *Unpack {
	vars := make([]*Var, 0, len(names))
	for _, name := range names {
		vars = append(vars, Id(name))
	}
	return NewUnpack(vars, packed, body)
}

// Binary operator variants.

func Add(first, second Expression) *BinaryOp {
	return NewBinaryOp(OpAdd, first, second)
}

func Diff(first, second Expression) *BinaryOp {
	return NewBinaryOp(OpDiff, first, second)
}

func Mult(first, second Expression) *BinaryOp {
	return NewBinaryOp(OpMult, first, second)
}

func Div(first, second Expression) *BinaryOp {
	return NewBinaryOp(OpDiv, first, second)
}

func EqualTo(first, second Expression) *BinaryOp {
	return NewBinaryOp(OpEqualTo, first, second)
}

func GreaterThan(first, second Expression) *BinaryOp {
	return NewBinaryOp(OpGreaterThan, first, second)
}

func LessThan(first, second Expression) *BinaryOp {
	return NewBinaryOp(OpLessThan, first, second)
}
