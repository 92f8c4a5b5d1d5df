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

package memcatalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

func TestDatabaseName(t *testing.T) {
	db := NewDatabase("test")
	require.Equal(t, "test", db.Name())
}

func TestDatabaseCreateTable(t *testing.T) {
	db := NewDatabase("test")
	require.Len(t, db.Tables(), 0)

	_, err := db.CreateTable("t", []string{"a"}, []types.LogicalType{types.Int64})
	require.NoError(t, err)
	require.Len(t, db.Tables(), 1)

	_, err = db.CreateTable("t", []string{"a"}, []types.LogicalType{types.Int64})
	require.True(t, errors.Is(err, errkind.AlreadyExists))
}

func TestDatabaseTableNotFound(t *testing.T) {
	db := NewDatabase("test")
	_, err := db.Table("missing")
	require.True(t, errors.Is(err, errkind.NotFound))
}
