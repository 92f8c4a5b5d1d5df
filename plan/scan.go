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

import (
	"fmt"

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/types"
)

// ScanSourceKind discriminates Scan's source variants.
type ScanSourceKind uint8

const (
	ScanSourceTable ScanSourceKind = iota
	ScanSourceView
	ScanSourceExpressionList
	ScanSourceTableFunction
	ScanSourceMaterialization
)

// TableSource names a catalog entry to scan.
type TableSource struct {
	Catalog string
	Schema string
	Entry string
}

// TableFunctionSource names an erased table function call.
type TableFunctionSource struct {
	Name string
	Args []expr.ScalarExpression
}

// ScanSource is the sum over {Table, View, ExpressionList, TableFunction,
// MaterializationRef} names for Scan.
type ScanSource struct {
	Kind ScanSourceKind

	Table *TableSource
	ViewName string
	ExpressionListRows [][]expr.ScalarExpression
	TableFunction *TableFunctionSource
	Materialization MaterializationRef
}

// Scan reads rows from one of the ScanSource variants, projecting a
// subset of columns ("Scan").
type Scan struct {
	Base

	TableRef expr.TableRef
	ColumnTypes []types.LogicalType
	ColumnNames []string
	Projection []int
	Source ScanSource
}

// NewScan builds a leaf Scan node.
func NewScan(ref expr.TableRef, colTypes []types.LogicalType, colNames []string, projection []int, source ScanSource) *Scan {
	return &Scan{
		Base: Base{Loc: Any},
		TableRef: ref,
		ColumnTypes: colTypes,
		ColumnNames: colNames,
		Projection: projection,
		Source: source,
	}
}

// GetOutputTableRefs returns Scan's own declared ref.
func (s *Scan) GetOutputTableRefs() []expr.TableRef { return []expr.TableRef{s.TableRef} }

// ExplainEntry renders Scan's self-description.
func (s *Scan) ExplainEntry(conf ExplainConfig) ExplainEntry {
	pairs := [][2]string{{"projection", fmt.Sprint(s.Projection)}}
	if conf.Verbose {
		pairs = append(pairs, [2]string{"table_ref", fmt.Sprint(s.TableRef)})
	}
	switch s.Source.Kind {
	case ScanSourceTable:
		pairs = append(pairs, [2]string{"source", fmt.Sprintf("Table(%s.%s.%s)", s.Source.Table.Catalog, s.Source.Table.Schema, s.Source.Table.Entry)})
	case ScanSourceView:
		pairs = append(pairs, [2]string{"source", "View(" + s.Source.ViewName + ")"})
	case ScanSourceExpressionList:
		pairs = append(pairs, [2]string{"source", fmt.Sprintf("ExpressionList(%d rows)", len(s.Source.ExpressionListRows))})
	case ScanSourceTableFunction:
		pairs = append(pairs, [2]string{"source", "TableFunction(" + s.Source.TableFunction.Name + ")"})
	case ScanSourceMaterialization:
		pairs = append(pairs, [2]string{"source", fmt.Sprintf("Materialization(%s)", s.Source.Materialization)})
	}
	return ExplainEntry{Name: "Scan", Pairs: pairs}
}
