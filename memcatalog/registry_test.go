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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/plan"
)

// TestAttachDuplicateCatalog drives : attach "x"
// twice fails with AlreadyExists; detach("x") then attach("x")
// succeeds.
func TestAttachDuplicateCatalog(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Attach("x", NewCatalog()))

	err := r.Attach("x", NewCatalog())
	require.Error(t, err)
	require.True(t, errors.Is(err, errkind.AlreadyExists))

	require.NoError(t, r.Detach("x"))
	require.NoError(t, r.Attach("x", NewCatalog()))
}

func TestDetachUnknownCatalog(t *testing.T) {
	r := NewRegistry()
	err := r.Detach("missing")
	require.True(t, errors.Is(err, errkind.NotFound))
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	cat := NewCatalog()
	require.NoError(t, r.Attach("system", cat))
	db, err := cat.CreateDatabase("public")
	require.NoError(t, err)
	_, err = db.CreateTable("t", nil, nil)
	require.NoError(t, err)

	_, err = r.Lookup(plan.TableSource{Catalog: "system", Schema: "public", Entry: "t"})
	require.NoError(t, err)

	_, err = r.Lookup(plan.TableSource{Catalog: "system", Schema: "public", Entry: "missing"})
	require.True(t, errors.Is(err, errkind.NotFound))

	_, err = r.Lookup(plan.TableSource{Catalog: "nosuch", Schema: "public", Entry: "t"})
	require.True(t, errors.Is(err, errkind.NotFound))
}
