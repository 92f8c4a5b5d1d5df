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

package plan

import "github.com/pipeql/pipeql/expr"

// SetVar assigns a session variable, validated against its declared
// type at set time ("SetVar", §6 "Configuration").
type SetVar struct {
	Base

	Name string
	Value expr.ScalarExpression
}

// NewSetVar builds a leaf SetVar node.
func NewSetVar(name string, value expr.ScalarExpression) *SetVar {
	return &SetVar{Base: Base{Loc: ClientLocal}, Name: name, Value: value}
}

func (s *SetVar) GetOutputTableRefs() []expr.TableRef { return nil }
func (s *SetVar) ExplainEntry(ExplainConfig) ExplainEntry {
	return ExplainEntry{Name: "SetVar", Pairs: [][2]string{{"name", s.Name}, {"value", s.Value.String()}}}
}

// VariableScope distinguishes resetting a single named variable from
// resetting every session variable to its default.
type VariableScope uint8

const (
	VariableScopeSingle VariableScope = iota
	VariableScopeAll
)

// ResetVar restores a session variable (or every variable, when Scope
// is VariableScopeAll) to its default ("ResetVar").
type ResetVar struct {
	Base

	Name string
	Scope VariableScope
}

// NewResetVar builds a leaf ResetVar node.
func NewResetVar(name string, scope VariableScope) *ResetVar {
	return &ResetVar{Base: Base{Loc: ClientLocal}, Name: name, Scope: scope}
}

func (r *ResetVar) GetOutputTableRefs() []expr.TableRef { return nil }
func (r *ResetVar) ExplainEntry(ExplainConfig) ExplainEntry {
	if r.Scope == VariableScopeAll {
		return ExplainEntry{Name: "ResetVar", Pairs: [][2]string{{"scope", "All"}}}
	}
	return ExplainEntry{Name: "ResetVar", Pairs: [][2]string{{"name", r.Name}}}
}

// ShowVar reads a session variable's current value.
type ShowVar struct {
	Base

	Name string
}

// NewShowVar builds a leaf ShowVar node.
func NewShowVar(name string) *ShowVar {
	return &ShowVar{Base: Base{Loc: ClientLocal}, Name: name}
}

func (s *ShowVar) GetOutputTableRefs() []expr.TableRef { return nil }
func (s *ShowVar) ExplainEntry(ExplainConfig) ExplainEntry {
	return ExplainEntry{Name: "ShowVar", Pairs: [][2]string{{"name", s.Name}}}
}
