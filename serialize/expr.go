// Copyright 2024 The pipeql Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serialize

import (
	"strconv"

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/internal/errkind"
)

// MarshalExpr converts a scalar expression tree to its wire shape.
// Bare conversion: expressions carry no catalog references, so no
// DatabaseContext is needed.
func MarshalExpr(e expr.ScalarExpression) (ExprNode, error) {
	switch v := e.(type) {
	case *expr.Literal:
		name, err := typeName(v.Type)
		if err != nil {
			return ExprNode{}, err
		}
		raw, err := encodeValue(v.Type, v.Value)
		if err != nil {
			return ExprNode{}, err
		}
		return ExprNode{Kind: "literal", Fields: map[string]string{
			"type": name,
			"value": raw,
			"null": strconv.FormatBool(v.Value == nil),
		}}, nil

	case *expr.Column:
		return ExprNode{Kind: "column", Fields: map[string]string{
			"table": strconv.FormatUint(uint64(v.Table), 10),
			"index": strconv.Itoa(v.Index),
			"name": v.Name,
		}}, nil

	case *expr.Comparison:
		left, err := MarshalExpr(v.Left)
		if err != nil {
			return ExprNode{}, err
		}
		right, err := MarshalExpr(v.Right)
		if err != nil {
			return ExprNode{}, err
		}
		return ExprNode{
			Kind: "comparison",
			Fields: map[string]string{"op": strconv.Itoa(int(v.Op))},
			Children: []ExprNode{left, right},
		}, nil

	case *expr.Arith:
		left, err := MarshalExpr(v.Left)
		if err != nil {
			return ExprNode{}, err
		}
		right, err := MarshalExpr(v.Right)
		if err != nil {
			return ExprNode{}, err
		}
		retName, err := typeName(v.ReturnType)
		if err != nil {
			return ExprNode{}, err
		}
		return ExprNode{
			Kind: "arith",
			Fields: map[string]string{"op": strconv.Itoa(int(v.Op)), "return_type": retName},
			Children: []ExprNode{left, right},
		}, nil

	case *expr.Conjunction:
		children := make([]ExprNode, len(v.Operands))
		for i, op := range v.Operands {
			c, err := MarshalExpr(op)
			if err != nil {
				return ExprNode{}, err
			}
			children[i] = c
		}
		return ExprNode{
			Kind: "conjunction",
			Fields: map[string]string{"kind": strconv.Itoa(int(v.Kind))},
			Children: children,
		}, nil

	default:
		return ExprNode{}, errkind.NotImplemented.New("serialization of expression " + e.String())
	}
}

// UnmarshalExpr is MarshalExpr's inverse.
func UnmarshalExpr(n ExprNode) (expr.ScalarExpression, error) {
	switch n.Kind {
	case "literal":
		t, err := typeByName(n.Fields["type"])
		if err != nil {
			return nil, err
		}
		isNull, _ := strconv.ParseBool(n.Fields["null"])
		v, err := decodeValue(t, n.Fields["value"], isNull)
		if err != nil {
			return nil, err
		}
		return &expr.Literal{Type: t, Value: v}, nil

	case "column":
		table, err := strconv.ParseUint(n.Fields["table"], 10, 32)
		if err != nil {
			return nil, err
		}
		index, err := strconv.Atoi(n.Fields["index"])
		if err != nil {
			return nil, err
		}
		return &expr.Column{Table: expr.TableRef(table), Index: index, Name: n.Fields["name"]}, nil

	case "comparison":
		if len(n.Children) != 2 {
			return nil, errkind.MissingField.New("comparison operands")
		}
		left, err := UnmarshalExpr(n.Children[0])
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalExpr(n.Children[1])
		if err != nil {
			return nil, err
		}
		op, err := strconv.Atoi(n.Fields["op"])
		if err != nil {
			return nil, err
		}
		return &expr.Comparison{Op: expr.ComparisonOperator(op), Left: left, Right: right}, nil

	case "arith":
		if len(n.Children) != 2 {
			return nil, errkind.MissingField.New("arith operands")
		}
		left, err := UnmarshalExpr(n.Children[0])
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalExpr(n.Children[1])
		if err != nil {
			return nil, err
		}
		op, err := strconv.Atoi(n.Fields["op"])
		if err != nil {
			return nil, err
		}
		retType, err := typeByName(n.Fields["return_type"])
		if err != nil {
			return nil, err
		}
		return &expr.Arith{Op: expr.ArithOp(op), Left: left, Right: right, ReturnType: retType}, nil

	case "conjunction":
		operands := make([]expr.ScalarExpression, len(n.Children))
		for i, c := range n.Children {
			op, err := UnmarshalExpr(c)
			if err != nil {
				return nil, err
			}
			operands[i] = op
		}
		kind, err := strconv.Atoi(n.Fields["kind"])
		if err != nil {
			return nil, err
		}
		return &expr.Conjunction{Kind: expr.ConjunctionKind(kind), Operands: operands}, nil

	default:
		return nil, errkind.NotImplemented.New("deserialization of expression kind " + n.Kind)
	}
}
