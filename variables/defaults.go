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
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

// defaultsFile is the on-disk shape of a session-variable defaults
// file: one [[variable]] table per declared variable. Values are read
// as TOML's native scalar types (int64, float64, bool, string) and
// matched against Type by name.
type defaultsFile struct {
	Variable []defaultsEntry `toml:"variable"`
}

type defaultsEntry struct {
	Name    string      `toml:"name"`
	Type    string      `toml:"type"`
	Default interface{} `toml:"default"`
}

var namedTypes = map[string]types.LogicalType{
	"int8":    types.Int8,
	"int16":   types.Int16,
	"int32":   types.Int32,
	"int64":   types.Int64,
	"uint8":   types.UInt8,
	"uint16":  types.UInt16,
	"uint32":  types.UInt32,
	"uint64":  types.UInt64,
	"float32": types.Float32,
	"float64": types.Float64,
	"bool":    types.Boolean,
	"string":  types.Utf8,
}

// LoadDefaults decodes a TOML defaults document from r and declares
// every entry into s, grounded on the
// Pieczasz-smf/internal/parser/toml decode-then-convert shape
// (toml.NewDecoder(r).Decode(&struct) followed by a validating
// conversion pass).
func (s *Store) LoadDefaults(r io.Reader) error {
	var doc defaultsFile
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return errkind.Parse.New(fmt.Sprintf("variables defaults: %s", err))
	}
	for _, e := range doc.Variable {
		lt, ok := namedTypes[e.Type]
		if !ok {
			return errkind.Parse.New(fmt.Sprintf("variables defaults: unknown type %q for variable %q", e.Type, e.Name))
		}
		def, err := coerceDefault(lt, e.Default)
		if err != nil {
			return err
		}
		if err := s.Declare(Definition{Name: e.Name, Type: lt, Default: def}); err != nil {
			return err
		}
	}
	return nil
}

// coerceDefault narrows a toml-decoded value (int64/float64/bool/
// string) to the Go type validate() expects for lt's physical
// storage.
func coerceDefault(lt types.LogicalType, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch lt.Physical() {
	case types.PhysicalI8:
		n, ok := v.(int64)
		if !ok {
			break
		}
		return int8(n), nil
	case types.PhysicalI16:
		n, ok := v.(int64)
		if !ok {
			break
		}
		return int16(n), nil
	case types.PhysicalI32:
		n, ok := v.(int64)
		if !ok {
			break
		}
		return int32(n), nil
	case types.PhysicalI64:
		if n, ok := v.(int64); ok {
			return n, nil
		}
	case types.PhysicalU8:
		n, ok := v.(int64)
		if !ok {
			break
		}
		return uint8(n), nil
	case types.PhysicalU16:
		n, ok := v.(int64)
		if !ok {
			break
		}
		return uint16(n), nil
	case types.PhysicalU32:
		n, ok := v.(int64)
		if !ok {
			break
		}
		return uint32(n), nil
	case types.PhysicalU64:
		n, ok := v.(int64)
		if !ok {
			break
		}
		return uint64(n), nil
	case types.PhysicalF32:
		f, ok := v.(float64)
		if !ok {
			break
		}
		return float32(f), nil
	case types.PhysicalF64:
		if f, ok := v.(float64); ok {
			return f, nil
		}
	case types.PhysicalBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case types.PhysicalUtf8:
		if str, ok := v.(string); ok {
			return str, nil
		}
	}
	return nil, errkind.InvalidArgument.New(fmt.Sprintf("default value %v does not match declared type", v))
}
