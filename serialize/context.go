// Copyright 2024 The pipeql Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serialize

import (
	"github.com/pipeql/pipeql/memcatalog"
	"github.com/pipeql/pipeql/plan"
)

// DatabaseContext resolves names against a live catalog during
// context-aware conversion: Scan(ScanSourceTable)'s TableSource is
// validated against Registry rather than accepted as an unverified
// string triple. Bare conversion (nil *DatabaseContext) skips this and
// is only appropriate for context-free structures, since it cannot
// catch a TableSource naming a catalog/schema/table that doesn't
// exist.
type DatabaseContext struct {
	Registry *memcatalog.Registry
}

// NewDatabaseContext wraps a catalog lookup for context-aware
// marshal/unmarshal.
func NewDatabaseContext(registry *memcatalog.Registry) *DatabaseContext {
	return &DatabaseContext{Registry: registry}
}

// resolveTable checks ts names a live catalog entry, when ctx carries
// a registry. A nil Registry field makes resolution a no-op, so a
// DatabaseContext{} zero value behaves like bare conversion for this
// check specifically.
func (ctx *DatabaseContext) resolveTable(ts plan.TableSource) error {
	if ctx == nil || ctx.Registry == nil {
		return nil
	}
	_, err := ctx.Registry.Lookup(ts)
	return err
}
