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

// Package expr is the L2 layer: the scalar expression tree, the
// bind-context table-reference arena, and the scalar-function registry
// and planner (§4.2, §4.3).
package expr

import (
	"strconv"

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

// TableRef is an opaque index assigned during binding, stable for the
// lifetime of a planning session ("Table reference").
type TableRef uint32

// TableDescriptor is what a BindContext knows about one table
// reference: its optional alias and the ordered column types/names
// the binder resolved for it.
type TableDescriptor struct {
	Alias string
	ColumnTypes []types.LogicalType
	ColumnNames []string
}

// BindContext is a write-once arena of table descriptors indexed by
// TableRef (§4.3). TableRefs are never reused.
type BindContext struct {
	tables []TableDescriptor
}

// NewBindContext returns an empty bind context.
func NewBindContext() *BindContext {
	return &BindContext{}
}

// PushTable appends a new table descriptor and returns its ref.
func (b *BindContext) PushTable(alias string, columnTypes []types.LogicalType, columnNames []string) TableRef {
	ref := TableRef(len(b.tables))
	b.tables = append(b.tables, TableDescriptor{
		Alias: alias,
		ColumnTypes: columnTypes,
		ColumnNames: columnNames,
	})
	return ref
}

// GetTable returns the descriptor for ref, failing if ref is unknown.
func (b *BindContext) GetTable(ref TableRef) (*TableDescriptor, error) {
	if int(ref) >= len(b.tables) {
		return nil, errkind.NotFound.New("table ref " + refString(ref))
	}
	return &b.tables[ref], nil
}

// GetColumnType is a convenience accessor that fails if idx is out of
// range for ref's column list.
func (b *BindContext) GetColumnType(ref TableRef, idx int) (types.LogicalType, error) {
	desc, err := b.GetTable(ref)
	if err != nil {
		return types.LogicalType{}, err
	}
	if idx < 0 || idx >= len(desc.ColumnTypes) {
		return types.LogicalType{}, errkind.ColumnIndexOutOfRange.New(idx, ref, len(desc.ColumnTypes))
	}
	return desc.ColumnTypes[idx], nil
}

// GetColumnName is the name-side counterpart of GetColumnType.
func (b *BindContext) GetColumnName(ref TableRef, idx int) (string, error) {
	desc, err := b.GetTable(ref)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(desc.ColumnNames) {
		return "", errkind.ColumnIndexOutOfRange.New(idx, ref, len(desc.ColumnNames))
	}
	return desc.ColumnNames[idx], nil
}

// NumTables returns how many table refs have been pushed, used by
// output-ref propagation checks against a bind context.
func (b *BindContext) NumTables() int { return len(b.tables) }

func refString(ref TableRef) string {
	return "#" + strconv.Itoa(int(ref))
}
