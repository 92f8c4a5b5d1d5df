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

package expr

// ComparisonOperator is the closed set of comparison operators:
// Eq, NotEq, Lt, LtEq, Gt, GtEq. Comparison joins depend on Flip's
// operand-swapped identity.
type ComparisonOperator uint8

const (
	Eq ComparisonOperator = iota
	NotEq
	Lt
	LtEq
	Gt
	GtEq
)

// Flip returns the operator that produces an equivalent result with
// its operands swapped: Lt.Flip() == Gt, LtEq.Flip() == GtEq,
// Eq.Flip() == Eq.
func (op ComparisonOperator) Flip() ComparisonOperator {
	switch op {
	case Eq:
		return Eq
	case NotEq:
		return NotEq
	case Lt:
		return Gt
	case LtEq:
		return GtEq
	case Gt:
		return Lt
	case GtEq:
		return LtEq
	default:
		return op
	}
}

func (op ComparisonOperator) String() string {
	switch op {
	case Eq:
		return "="
	case NotEq:
		return "<>"
	case Lt:
		return "<"
	case LtEq:
		return "<="
	case Gt:
		return ">"
	case GtEq:
		return ">="
	default:
		return "?"
	}
}
