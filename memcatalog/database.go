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
	"sync"

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

// Database is a named collection of Tables, the same shape an
// in-memory Database reference driver takes: NewDatabase(name),
// db.Tables(), db.CreateTable(...).
type Database struct {
	name string

	mu sync.RWMutex
	tables map[string]*Table
}

// NewDatabase returns an empty Database named name.
func NewDatabase(name string) *Database {
	return &Database{name: name, tables: make(map[string]*Table)}
}

// Name returns the database's name.
func (d *Database) Name() string { return d.name }

// CreateTable registers a new, empty Table with the given column
// schema. Creating a table under an already-used name fails with
// AlreadyExists (mirrors memory.Database.CreateTable's duplicate-name
// error in database_test.go).
func (d *Database) CreateTable(name string, colNames []string, colTypes []types.LogicalType) (*Table, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.tables[name]; ok {
		return nil, errkind.AlreadyExists.New(name)
	}
	t := NewTable(name, colNames, colTypes)
	d.tables[name] = t
	return t, nil
}

// Table returns the table registered under name.
func (d *Database) Table(name string) (*Table, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.tables[name]
	if !ok {
		return nil, errkind.NotFound.New(name)
	}
	return t, nil
}

// Tables returns every table registered in this database, keyed by
// name.
func (d *Database) Tables() map[string]*Table {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]*Table, len(d.tables))
	for name, t := range d.tables {
		out[name] = t
	}
	return out
}
