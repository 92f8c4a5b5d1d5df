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

package serialize

import (
	"strconv"

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

// namedScalarTypes covers the non-parameterized logical types a
// Literal can carry across the wire. Decimal/Timestamp/List/Struct
// need their extra parameters (precision, scale, unit, child, fields)
// serialized too; no scenario constructs a literal of
// one of those types, so they're left unsupported here (see
// DESIGN.md).
var namedScalarTypes = map[string]types.LogicalType{
	"int8": types.Int8, "int16": types.Int16, "int32": types.Int32, "int64": types.Int64,
	"uint8": types.UInt8, "uint16": types.UInt16, "uint32": types.UInt32, "uint64": types.UInt64,
	"float32": types.Float32, "float64": types.Float64,
	"bool": types.Boolean, "utf8": types.Utf8,
}

func typeName(t types.LogicalType) (string, error) {
	for name, candidate := range namedScalarTypes {
		if candidate.ID == t.ID {
			return name, nil
		}
	}
	return "", errkind.NotImplemented.New("serialization of logical type " + t.String())
}

func typeByName(name string) (types.LogicalType, error) {
	t, ok := namedScalarTypes[name]
	if !ok {
		return types.LogicalType{}, errkind.MissingField.New("type")
	}
	return t, nil
}

// encodeValue renders v (of logical type t) as a wire string.
func encodeValue(t types.LogicalType, v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	switch t.Physical() {
	case types.PhysicalI8:
		return strconv.FormatInt(int64(v.(int8)), 10), nil
	case types.PhysicalI16:
		return strconv.FormatInt(int64(v.(int16)), 10), nil
	case types.PhysicalI32:
		return strconv.FormatInt(int64(v.(int32)), 10), nil
	case types.PhysicalI64:
		return strconv.FormatInt(v.(int64), 10), nil
	case types.PhysicalU8:
		return strconv.FormatUint(uint64(v.(uint8)), 10), nil
	case types.PhysicalU16:
		return strconv.FormatUint(uint64(v.(uint16)), 10), nil
	case types.PhysicalU32:
		return strconv.FormatUint(uint64(v.(uint32)), 10), nil
	case types.PhysicalU64:
		return strconv.FormatUint(v.(uint64), 10), nil
	case types.PhysicalF32:
		return strconv.FormatFloat(float64(v.(float32)), 'g', -1, 32), nil
	case types.PhysicalF64:
		return strconv.FormatFloat(v.(float64), 'g', -1, 64), nil
	case types.PhysicalBool:
		return strconv.FormatBool(v.(bool)), nil
	case types.PhysicalUtf8:
		return v.(string), nil
	default:
		return "", errkind.NotImplemented.New("serialization of a value of physical type " + t.Physical().String())
	}
}

// decodeValue is encodeValue's inverse. isNull, not raw, decides
// whether the value is null: encodeValue renders nil as "", which is
// also the encoding of an empty utf8 string.
func decodeValue(t types.LogicalType, raw string, isNull bool) (interface{}, error) {
	if isNull {
		return nil, nil
	}
	switch t.Physical() {
	case types.PhysicalI8:
		n, err := strconv.ParseInt(raw, 10, 8)
		return int8(n), err
	case types.PhysicalI16:
		n, err := strconv.ParseInt(raw, 10, 16)
		return int16(n), err
	case types.PhysicalI32:
		n, err := strconv.ParseInt(raw, 10, 32)
		return int32(n), err
	case types.PhysicalI64:
		return strconv.ParseInt(raw, 10, 64)
	case types.PhysicalU8:
		n, err := strconv.ParseUint(raw, 10, 8)
		return uint8(n), err
	case types.PhysicalU16:
		n, err := strconv.ParseUint(raw, 10, 16)
		return uint16(n), err
	case types.PhysicalU32:
		n, err := strconv.ParseUint(raw, 10, 32)
		return uint32(n), err
	case types.PhysicalU64:
		return strconv.ParseUint(raw, 10, 64)
	case types.PhysicalF32:
		f, err := strconv.ParseFloat(raw, 32)
		return float32(f), err
	case types.PhysicalF64:
		return strconv.ParseFloat(raw, 64)
	case types.PhysicalBool:
		return strconv.ParseBool(raw)
	case types.PhysicalUtf8:
		return raw, nil
	default:
		return nil, errkind.NotImplemented.New("deserialization of a value of physical type " + t.Physical().String())
	}
}
