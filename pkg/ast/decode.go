package ast

import (
	"encoding/json"
	"fmt"
)

// DecodeNode rebuilds a node from its JSON object form, the same shape the
// package's json tags produce. Program files and conformance fixtures store
// expression trees this way.
func DecodeNode(node map[string]any) (Node, error) {
	typ, _ := node["type"].(string)
	switch NodeType(typ) {
	case NodeConst:
		val, err := decodeInt(node["value"])
		if err != nil {
			return nil, fmt.Errorf("const value: %w", err)
		}
		return NewConst(val), nil
	case NodeVar:
		name, ok := node["name"].(string)
		if !ok {
			return nil, fmt.Errorf("var missing name")
		}
		return NewVar(name), nil
	case NodeMinus:
		operand, err := decodeChild(node, "operand")
		if err != nil {
			return nil, err
		}
		return NewMinus(operand), nil
	case NodeZero:
		operand, err := decodeChild(node, "operand")
		if err != nil {
			return nil, err
		}
		return NewZero(operand), nil
	case NodeIf:
		test, err := decodeChild(node, "test")
		if err != nil {
			return nil, err
		}
		then, err := decodeChild(node, "then")
		if err != nil {
			return nil, err
		}
		els, err := decodeChild(node, "else")
		if err != nil {
			return nil, err
		}
		return NewIf(test, then, els), nil
	case NodeLetBinding:
		return decodeLetBinding(node)
	case NodeLet:
		rawBindings, _ := node["bindings"].([]any)
		var bindings []*LetBinding
		for _, raw := range rawBindings {
			child, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("invalid let binding entry %T", raw)
			}
			binding, err := decodeLetBinding(child)
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, binding)
		}
		body, err := decodeChild(node, "body")
		if err != nil {
			return nil, err
		}
		return NewLet(bindings, body), nil
	case NodeProcedure:
		param, err := decodeVar(node, "param")
		if err != nil {
			return nil, err
		}
		body, err := decodeChild(node, "body")
		if err != nil {
			return nil, err
		}
		return NewProcedure(param, body), nil
	case NodeProcedureCall:
		proc, err := decodeChild(node, "proc")
		if err != nil {
			return nil, err
		}
		arg, err := decodeChild(node, "arg")
		if err != nil {
			return nil, err
		}
		return NewProcedureCall(proc, arg), nil
	case NodeCondClause:
		return decodeCondClause(node)
	case NodeConds:
		rawClauses, _ := node["clauses"].([]any)
		var clauses []*CondClause
		for _, raw := range rawClauses {
			child, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("invalid cond clause entry %T", raw)
			}
			clause, err := decodeCondClause(child)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, clause)
		}
		return NewConds(clauses), nil
	case NodeCons:
		return decodeCons(node)
	case NodeList:
		rawElements, _ := node["elements"].([]any)
		var elements []Expression
		for _, raw := range rawElements {
			child, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("invalid list element %T", raw)
			}
			expr, err := DecodeExpression(child)
			if err != nil {
				return nil, err
			}
			elements = append(elements, expr)
		}
		return NewList(elements), nil
	case NodeUnpack:
		rawNames, _ := node["names"].([]any)
		var names []*Var
		for _, raw := range rawNames {
			child, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("invalid unpack name entry %T", raw)
			}
			decoded, err := DecodeNode(child)
			if err != nil {
				return nil, err
			}
			name, ok := decoded.(*Var)
			if !ok {
				return nil, fmt.Errorf("unpack name is not a var: %T", decoded)
			}
			names = append(names, name)
		}
		packed, err := decodeChild(node, "packed")
		if err != nil {
			return nil, err
		}
		body, err := decodeChild(node, "body")
		if err != nil {
			return nil, err
		}
		return NewUnpack(names, packed, body), nil
	case NodeCar:
		operand, err := decodeChild(node, "operand")
		if err != nil {
			return nil, err
		}
		return NewCar(operand), nil
	case NodeCdr:
		operand, err := decodeChild(node, "operand")
		if err != nil {
			return nil, err
		}
		return NewCdr(operand), nil
	case NodeNull:
		operand, err := decodeChild(node, "operand")
		if err != nil {
			return nil, err
		}
		return NewNull(operand), nil
	case NodeBinaryOp:
		op, ok := node["op"].(string)
		if !ok {
			return nil, fmt.Errorf("binary op missing operator tag")
		}
		first, err := decodeChild(node, "first")
		if err != nil {
			return nil, err
		}
		second, err := decodeChild(node, "second")
		if err != nil {
			return nil, err
		}
		return NewBinaryOp(Operator(op), first, second), nil
	default:
		return nil, fmt.Errorf("unknown node type %q", typ)
	}
}

// DecodeExpression decodes a node and requires it to be evaluable.
func DecodeExpression(node map[string]any) (Expression, error) {
	decoded, err := DecodeNode(node)
	if err != nil {
		return nil, err
	}
	expr, ok := decoded.(Expression)
	if !ok {
		return nil, fmt.Errorf("node %s is not an expression", decoded.NodeType())
	}
	return expr, nil
}

func decodeChild(node map[string]any, key string) (Expression, error) {
	raw, ok := node[key].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s node missing %q", node["type"], key)
	}
	return DecodeExpression(raw)
}

func decodeVar(node map[string]any, key string) (*Var, error) {
	raw, ok := node[key].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s node missing %q", node["type"], key)
	}
	decoded, err := DecodeNode(raw)
	if err != nil {
		return nil, err
	}
	name, ok := decoded.(*Var)
	if !ok {
		return nil, fmt.Errorf("%s %q is not a var: %T", node["type"], key, decoded)
	}
	return name, nil
}

func decodeLetBinding(node map[string]any) (*LetBinding, error) {
	name, err := decodeVar(node, "name")
	if err != nil {
		return nil, err
	}
	value, err := decodeChild(node, "value")
	if err != nil {
		return nil, err
	}
	return NewLetBinding(name, value), nil
}

func decodeCondClause(node map[string]any) (*CondClause, error) {
	test, err := decodeChild(node, "test")
	if err != nil {
		return nil, err
	}
	value, err := decodeChild(node, "value")
	if err != nil {
		return nil, err
	}
	return NewCondClause(test, value), nil
}

func decodeCons(node map[string]any) (*Cons, error) {
	head, err := decodeChild(node, "head")
	if err != nil {
		return nil, err
	}
	var tail *Cons
	if raw, ok := node["tail"].(map[string]any); ok {
		tail, err = decodeCons(raw)
		if err != nil {
			return nil, err
		}
	}
	return NewCons(head, tail), nil
}

func decodeInt(raw any) (int64, error) {
	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	default:
		return 0, fmt.Errorf("expected integer, got %T", raw)
	}
}
