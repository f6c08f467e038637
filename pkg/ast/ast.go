package ast

type NodeType string

const (
	NodeConst         NodeType = "Const"
	NodeVar           NodeType = "Var"
	NodeMinus         NodeType = "Minus"
	NodeZero          NodeType = "Zero"
	NodeIf            NodeType = "If"
	NodeLetBinding    NodeType = "LetBinding"
	NodeLet           NodeType = "Let"
	NodeProcedure     NodeType = "Procedure"
	NodeProcedureCall NodeType = "ProcedureCall"
	NodeCondClause    NodeType = "CondClause"
	NodeConds         NodeType = "Conds"
	NodeCons          NodeType = "Cons"
	NodeList          NodeType = "List"
	NodeUnpack        NodeType = "Unpack"
	NodeCar           NodeType = "Car"
	NodeCdr           NodeType = "Cdr"
	NodeNull          NodeType = "Null"
	NodeBinaryOp      NodeType = "BinaryOp"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Expression marks the evaluable subset of nodes. CondClause and Cons are
// nodes but not expressions; they only ever appear as structural children.
type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

// Const

type Const struct {
	nodeImpl
	expressionMarker

	Value int64 `json:"value"`
}

func NewConst(value int64) *Const {
	return &Const{nodeImpl: newNodeImpl(NodeConst), Value: value}
}

// Var

type Var struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewVar(name string) *Var {
	return &Var{nodeImpl: newNodeImpl(NodeVar), Name: name}
}

// Minus wraps a numeric operand. Evaluation re-wraps the payload without
// negating it; the operator's historical surface syntax is "minus(e)".
type Minus struct {
	nodeImpl
	expressionMarker

	Operand Expression `json:"operand"`
}

func NewMinus(operand Expression) *Minus {
	return &Minus{nodeImpl: newNodeImpl(NodeMinus), Operand: operand}
}

// Zero tests a numeric operand against zero.
type Zero struct {
	nodeImpl
	expressionMarker

	Operand Expression `json:"operand"`
}

func NewZero(operand Expression) *Zero {
	return &Zero{nodeImpl: newNodeImpl(NodeZero), Operand: operand}
}

// If

type If struct {
	nodeImpl
	expressionMarker

	Test Expression `json:"test"`
	Then Expression `json:"then"`
	Else Expression `json:"else"`
}

func NewIf(test, then, els Expression) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf), Test: test, Then: then, Else: els}
}

// LetBinding binds one name to the value of an expression. Inside a Let the
// bindings share the let's frame; a bare LetBinding binds into whatever
// environment it is evaluated against.
type LetBinding struct {
	nodeImpl
	expressionMarker

	Name  *Var       `json:"name"`
	Value Expression `json:"value"`
}

func NewLetBinding(name *Var, value Expression) *LetBinding {
	return &LetBinding{nodeImpl: newNodeImpl(NodeLetBinding), Name: name, Value: value}
}

// Let introduces one new scope shared by all of its bindings, evaluated in
// order, then evaluates Body in that scope.
type Let struct {
	nodeImpl
	expressionMarker

	Bindings []*LetBinding `json:"bindings"`
	Body     Expression    `json:"body"`
}

func NewLet(bindings []*LetBinding, body Expression) *Let {
	return &Let{nodeImpl: newNodeImpl(NodeLet), Bindings: bindings, Body: body}
}

// Procedure is a single-parameter abstraction. The node carries syntax only;
// the captured environment lives on the runtime closure value produced when
// the node is evaluated.
type Procedure struct {
	nodeImpl
	expressionMarker

	Param *Var       `json:"param"`
	Body  Expression `json:"body"`
}

func NewProcedure(param *Var, body Expression) *Procedure {
	return &Procedure{nodeImpl: newNodeImpl(NodeProcedure), Param: param, Body: body}
}

// ProcedureCall

type ProcedureCall struct {
	nodeImpl
	expressionMarker

	Proc Expression `json:"proc"`
	Arg  Expression `json:"arg"`
}

func NewProcedureCall(proc, arg Expression) *ProcedureCall {
	return &ProcedureCall{nodeImpl: newNodeImpl(NodeProcedureCall), Proc: proc, Arg: arg}
}

// CondClause pairs a test with the value produced when the test is truthy.
type CondClause struct {
	nodeImpl

	Test  Expression `json:"test"`
	Value Expression `json:"value"`
}

func NewCondClause(test, value Expression) *CondClause {
	return &CondClause{nodeImpl: newNodeImpl(NodeCondClause), Test: test, Value: value}
}

// Conds evaluates clause tests in order and produces the value of the first
// truthy clause.
type Conds struct {
	nodeImpl
	expressionMarker

	Clauses []*CondClause `json:"clauses"`
}

func NewConds(clauses []*CondClause) *Conds {
	return &Conds{nodeImpl: newNodeImpl(NodeConds), Clauses: clauses}
}

// Cons is a construction helper for building flat expression sequences out
// of nested pairs. It is not evaluable; List is the evaluable form.
type Cons struct {
	nodeImpl

	Head Expression `json:"head"`
	Tail *Cons      `json:"tail,omitempty"`
}

func NewCons(head Expression, tail *Cons) *Cons {
	return &Cons{nodeImpl: newNodeImpl(NodeCons), Head: head, Tail: tail}
}

// Flatten concatenates the head with the flattened tail, preserving order.
func (c *Cons) Flatten() []Expression {
	if c == nil {
		return nil
	}
	var out []Expression
	if c.Head != nil {
		out = append(out, c.Head)
	}
	return append(out, c.Tail.Flatten()...)
}

// List

type List struct {
	nodeImpl
	expressionMarker

	Elements []Expression `json:"elements"`
}

func NewList(elements []Expression) *List {
	return &List{nodeImpl: newNodeImpl(NodeList), Elements: elements}
}

// Unpack destructures the list value of Packed into positional bindings and
// evaluates Body under them.
type Unpack struct {
	nodeImpl
	expressionMarker

	Names  []*Var     `json:"names"`
	Packed Expression `json:"packed"`
	Body   Expression `json:"body"`
}

func NewUnpack(names []*Var, packed, body Expression) *Unpack {
	return &Unpack{nodeImpl: newNodeImpl(NodeUnpack), Names: names, Packed: packed, Body: body}
}

// Car

type Car struct {
	nodeImpl
	expressionMarker

	Operand Expression `json:"operand"`
}

func NewCar(operand Expression) *Car {
	return &Car{nodeImpl: newNodeImpl(NodeCar), Operand: operand}
}

// Cdr

type Cdr struct {
	nodeImpl
	expressionMarker

	Operand Expression `json:"operand"`
}

func NewCdr(operand Expression) *Cdr {
	return &Cdr{nodeImpl: newNodeImpl(NodeCdr), Operand: operand}
}

// Null

type Null struct {
	nodeImpl
	expressionMarker

	Operand Expression `json:"operand"`
}

func NewNull(operand Expression) *Null {
	return &Null{nodeImpl: newNodeImpl(NodeNull), Operand: operand}
}

// Operator tags the binary operator variants. All seven share the BinaryOp
// node shape; the interpreter pairs each tag with a primitive and a result
// constructor.
type Operator string

const (
	OpAdd         Operator = "+"
	OpDiff        Operator = "-"
	OpMult        Operator = "*"
	OpDiv         Operator = "/"
	OpEqualTo     Operator = "=="
	OpGreaterThan Operator = ">"
	OpLessThan    Operator = "<"
)

type BinaryOp struct {
	nodeImpl
	expressionMarker

	Op     Operator   `json:"op"`
	First  Expression `json:"first"`
	Second Expression `json:"second"`
}

func NewBinaryOp(op Operator, first, second Expression) *BinaryOp {
	return &BinaryOp{nodeImpl: newNodeImpl(NodeBinaryOp), Op: op, First: first, Second: second}
}
