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

// Package memcatalog is the reference in-memory implementation of
// 's Catalog/DataSource interfaces: enough of a catalog to
// drive physical.ScanSource end-to-end in tests, not a general storage
// engine.
package memcatalog

import (
	"sync"

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/physical"
	"github.com/pipeql/pipeql/plan"
)

// Registry is the process-wide mapping name -> Catalog: "the core
// treats catalogs as a mapping name -> Catalog, with two well-known
// names: system (read-only, process-wide) and temp (session-scoped in
// memory)". Registry doesn't special-case either name; callers attach
// whatever catalogs they need under whatever names their session
// convention requires.
type Registry struct {
	mu sync.RWMutex
	catalogs map[string]*Catalog
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{catalogs: make(map[string]*Catalog)}
}

// Attach registers cat under name. Attaching a duplicate name fails
// with AlreadyExists.
func (r *Registry) Attach(name string, cat *Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.catalogs[name]; ok {
		return errkind.AlreadyExists.New(name)
	}
	r.catalogs[name] = cat
	return nil
}

// Detach removes the catalog registered under name.
func (r *Registry) Detach(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.catalogs[name]; !ok {
		return errkind.NotFound.New(name)
	}
	delete(r.catalogs, name)
	return nil
}

// Catalog returns the catalog registered under name.
func (r *Registry) Catalog(name string) (*Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cat, ok := r.catalogs[name]
	if !ok {
		return nil, errkind.NotFound.New(name)
	}
	return cat, nil
}

// Lookup resolves a plan.TableSource (catalog, schema, entry) to the
// physical.TableProvider the physical planner's CatalogLookup hook
// needs.
func (r *Registry) Lookup(ts plan.TableSource) (physical.TableProvider, error) {
	cat, err := r.Catalog(ts.Catalog)
	if err != nil {
		return nil, err
	}
	db, err := cat.Database(ts.Schema)
	if err != nil {
		return nil, err
	}
	return db.Table(ts.Entry)
}
