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

package variables

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

func TestSetGetCaseInsensitive(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Declare(Definition{Name: "max_connections", Type: types.Int64, Default: int64(100)}))

	require.NoError(t, s.Set("MAX_CONNECTIONS", int64(500)))
	v, err := s.Get("Max_Connections")
	require.NoError(t, err)
	require.Equal(t, int64(500), v)
}

func TestSetRejectsWrongType(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Declare(Definition{Name: "autocommit", Type: types.Boolean, Default: true}))

	err := s.Set("autocommit", "yes")
	require.True(t, errors.Is(err, errkind.InvalidArgument))
}

func TestSetUnknownVariable(t *testing.T) {
	s := NewStore()
	err := s.Set("nosuchvar", int64(1))
	require.True(t, errors.Is(err, errkind.NotFound))
}

func TestResetRestoresDefault(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Declare(Definition{Name: "sort_buffer_size", Type: types.Int64, Default: int64(262144)}))
	require.NoError(t, s.Set("sort_buffer_size", int64(1)))
	require.NoError(t, s.Reset("sort_buffer_size"))

	v, err := s.Get("sort_buffer_size")
	require.NoError(t, err)
	require.Equal(t, int64(262144), v)
}

func TestResetAllRestoresEveryDefault(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Declare(Definition{Name: "a", Type: types.Int64, Default: int64(1)}))
	require.NoError(t, s.Declare(Definition{Name: "b", Type: types.Utf8, Default: "default"}))
	require.NoError(t, s.Set("a", int64(9)))
	require.NoError(t, s.Set("b", "changed"))

	s.ResetAll()

	va, _ := s.Get("a")
	vb, _ := s.Get("b")
	require.Equal(t, int64(1), va)
	require.Equal(t, "default", vb)
}

func TestDeclareDuplicate(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Declare(Definition{Name: "x", Type: types.Int64, Default: int64(0)}))
	err := s.Declare(Definition{Name: "X", Type: types.Int64, Default: int64(0)})
	require.True(t, errors.Is(err, errkind.AlreadyExists))
}
