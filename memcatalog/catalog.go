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
)

// Catalog holds a set of named Databases (schemas, in SQL terms). A
// Catalog is what gets attached into a Registry under a name like
// "system" or "temp".
type Catalog struct {
	mu sync.RWMutex
	databases map[string]*Database
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{databases: make(map[string]*Database)}
}

// CreateDatabase registers a new, empty Database under name.
func (c *Catalog) CreateDatabase(name string) (*Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.databases[name]; ok {
		return nil, errkind.AlreadyExists.New(name)
	}
	db := NewDatabase(name)
	c.databases[name] = db
	return db, nil
}

// Database returns the database registered under name.
func (c *Catalog) Database(name string) (*Database, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	db, ok := c.databases[name]
	if !ok {
		return nil, errkind.NotFound.New(name)
	}
	return db, nil
}

// Databases lists the names of every registered database.
func (c *Catalog) Databases() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.databases))
	for name := range c.databases {
		names = append(names, name)
	}
	return names
}
