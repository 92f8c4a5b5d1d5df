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

package memcatalog

import (
	"context"
	"strconv"
	"sync"

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/physical"
	"github.com/pipeql/pipeql/types"
)

// Table is an in-memory row store with a fixed column schema.
// Unlike a partitioned table backed by multiple row groups, rows here
// are held as a single Go slice and realized into one Arrow batch per
// Scan: this is a reference provider for tests, not a storage engine.
type Table struct {
	name string
	colNames []string
	colTypes []types.LogicalType

	mu sync.RWMutex
	rows [][]interface{}
}

// NewTable returns an empty Table named name with the given schema.
func NewTable(name string, colNames []string, colTypes []types.LogicalType) *Table {
	return &Table{name: name, colNames: colNames, colTypes: colTypes}
}

// Name returns the table's name.
func (t *Table) Name() string { return t.name }

// Schema returns the table's column names and logical types.
func (t *Table) Schema() ([]string, []types.LogicalType) { return t.colNames, t.colTypes }

// Insert appends a row. row must have one value per column; a nil
// entry stores a null.
func (t *Table) Insert(row []interface{}) error {
	if len(row) != len(t.colTypes) {
		return errkind.InvalidArgument.New("row has " + strconv.Itoa(len(row)) + " values, table has " + strconv.Itoa(len(t.colTypes)) + " columns")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, row)
	return nil
}

// Scan implements physical.TableProvider: it realizes the table's
// current rows into a single projected Arrow batch. pushdown is
// accepted for interface conformance but not evaluated here — nothing
// in the physical planner currently populates plan.Scan's predicate
// pushdown, so there is no caller to exercise it yet (see DESIGN.md).
func (t *Table) Scan(_ context.Context, projection []int, _ expr.ScalarExpression) (physical.Source, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if projection == nil {
		projection = make([]int, len(t.colTypes))
		for i := range projection {
			projection[i] = i
		}
	}

	builders := make([]types.ArrayBuilder, len(projection))
	for i, c := range projection {
		if c < 0 || c >= len(t.colTypes) {
			return nil, errkind.Internal.New("scan projection index out of range")
		}
		builders[i] = types.NewArrayBuilder(t.colTypes[c], nil)
	}
	for _, row := range t.rows {
		for i, c := range projection {
			if row[c] == nil {
				builders[i].AppendNull()
				continue
			}
			if err := appendCell(builders[i], t.colTypes[c], row[c]); err != nil {
				return nil, err
			}
		}
	}
	cols := make([]types.Array, len(builders))
	for i, b := range builders {
		cols[i] = b.NewArray()
	}
	batch, err := types.NewBatch(len(t.rows), cols...)
	if err != nil {
		return nil, err
	}
	return &tableSource{batch: batch}, nil
}

func appendCell(b types.ArrayBuilder, lt types.LogicalType, v interface{}) error {
	switch lt.Physical() {
	case types.PhysicalI8:
		types.PutI8(b, v.(int8))
	case types.PhysicalI16:
		types.PutI16(b, v.(int16))
	case types.PhysicalI32:
		types.PutI32(b, v.(int32))
	case types.PhysicalI64:
		types.PutI64(b, v.(int64))
	case types.PhysicalU8:
		types.PutU8(b, v.(uint8))
	case types.PhysicalU16:
		types.PutU16(b, v.(uint16))
	case types.PhysicalU32:
		types.PutU32(b, v.(uint32))
	case types.PhysicalU64:
		types.PutU64(b, v.(uint64))
	case types.PhysicalF32:
		types.PutF32(b, v.(float32))
	case types.PhysicalF64:
		types.PutF64(b, v.(float64))
	case types.PhysicalBool:
		types.PutBool(b, v.(bool))
	case types.PhysicalUtf8:
		types.PutUtf8(b, v.(string))
	default:
		return errkind.NotImplemented.New("table cell of physical type " + lt.Physical().String())
	}
	return nil
}

// tableSource is the physical.Source Scan hands back: one batch, then
// exhausted, following the engine's two-call convention (the call
// that returns data signals Ready; Exhausted is reserved for the
// following, empty call).
type tableSource struct {
	batch types.Batch
	done bool
}

func (s *tableSource) Next(context.Context) (types.Batch, physical.Signal, error) {
	if s.done {
		return types.Batch{}, physical.Exhausted, nil
	}
	s.done = true
	return s.batch, physical.Ready, nil
}

