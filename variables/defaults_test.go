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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDefaults = `
[[variable]]
name = "max_connections"
type = "int64"
default = 1000

[[variable]]
name = "autocommit"
type = "bool"
default = true

[[variable]]
name = "character_set"
type = "string"
default = "utf8mb4"
`

func TestLoadDefaults(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.LoadDefaults(strings.NewReader(sampleDefaults)))

	v, err := s.Get("max_connections")
	require.NoError(t, err)
	require.Equal(t, int64(1000), v)

	v, err = s.Get("autocommit")
	require.NoError(t, err)
	require.Equal(t, true, v)

	v, err = s.Get("character_set")
	require.NoError(t, err)
	require.Equal(t, "utf8mb4", v)
}

func TestLoadDefaultsUnknownType(t *testing.T) {
	s := NewStore()
	err := s.LoadDefaults(strings.NewReader(`
[[variable]]
name = "x"
type = "nope"
default = 1
`))
	require.Error(t, err)
}
