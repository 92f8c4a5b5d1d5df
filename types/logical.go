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

// Package types is the L1 layer: the closed logical-type taxonomy, the
// physical storage tags that parameterize kernels, and the columnar
// Array/Batch containers built on top of Apache Arrow.
package types

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// PhysicalStorage is the columnar encoding tag selecting which kernel
// implementation and Arrow builder a logical type maps to.
type PhysicalStorage uint8

const (
	PhysicalInvalid PhysicalStorage = iota
	PhysicalBool
	PhysicalI8
	PhysicalI16
	PhysicalI32
	PhysicalI64
	PhysicalI128
	PhysicalU8
	PhysicalU16
	PhysicalU32
	PhysicalU64
	PhysicalU128
	PhysicalF16
	PhysicalF32
	PhysicalF64
	PhysicalUtf8
	PhysicalBinary
	PhysicalDate32
	PhysicalDate64
	PhysicalTimestamp
	PhysicalInterval
	PhysicalDecimal64
	PhysicalDecimal128
	PhysicalList
	PhysicalStruct
	PhysicalNull
)

func (p PhysicalStorage) String() string {
	switch p {
	case PhysicalBool:
		return "Bool"
	case PhysicalI8:
		return "I8"
	case PhysicalI16:
		return "I16"
	case PhysicalI32:
		return "I32"
	case PhysicalI64:
		return "I64"
	case PhysicalI128:
		return "I128"
	case PhysicalU8:
		return "U8"
	case PhysicalU16:
		return "U16"
	case PhysicalU32:
		return "U32"
	case PhysicalU64:
		return "U64"
	case PhysicalU128:
		return "U128"
	case PhysicalF16:
		return "F16"
	case PhysicalF32:
		return "F32"
	case PhysicalF64:
		return "F64"
	case PhysicalUtf8:
		return "Utf8"
	case PhysicalBinary:
		return "Binary"
	case PhysicalDate32:
		return "Date32"
	case PhysicalDate64:
		return "Date64"
	case PhysicalTimestamp:
		return "Timestamp"
	case PhysicalInterval:
		return "Interval"
	case PhysicalDecimal64:
		return "Decimal64"
	case PhysicalDecimal128:
		return "Decimal128"
	case PhysicalList:
		return "List"
	case PhysicalStruct:
		return "Struct"
	case PhysicalNull:
		return "Null"
	default:
		return "Invalid"
	}
}

// TimeUnit mirrors arrow.TimeUnit for Timestamp logical types.
type TimeUnit = arrow.TimeUnit

// LogicalTypeID is the closed enumeration of SQL types: Float16/32/64,
// Int8..Int128, UInt8..UInt128, Utf8, Binary, Boolean, Date32/64,
// Timestamp, Interval, Decimal64/128, List, Struct, Null.
type LogicalTypeID uint8

const (
	IDInvalid LogicalTypeID = iota
	IDFloat16
	IDFloat32
	IDFloat64
	IDInt8
	IDInt16
	IDInt32
	IDInt64
	IDInt128
	IDUInt8
	IDUInt16
	IDUInt32
	IDUInt64
	IDUInt128
	IDUtf8
	IDBinary
	IDBoolean
	IDDate32
	IDDate64
	IDTimestamp
	IDInterval
	IDDecimal64
	IDDecimal128
	IDList
	IDStruct
	IDNull
)

// LogicalType is a fully-specified SQL type: the identity above plus
// the parameters (precision/scale, child type, field list, time unit)
// some of the variants require.
type LogicalType struct {
	ID LogicalTypeID

	// Decimal64 / Decimal128
	Precision uint8
	Scale int8

	// Timestamp
	Unit TimeUnit

	// List
	Child *LogicalType

	// Struct
	Fields []StructField
}

// StructField names one member of a Struct logical type.
type StructField struct {
	Name string
	Type LogicalType
}

// Simple type constructors for the non-parameterized variants.
var (
	Float16 = LogicalType{ID: IDFloat16}
	Float32 = LogicalType{ID: IDFloat32}
	Float64 = LogicalType{ID: IDFloat64}
	Int8 = LogicalType{ID: IDInt8}
	Int16 = LogicalType{ID: IDInt16}
	Int32 = LogicalType{ID: IDInt32}
	Int64 = LogicalType{ID: IDInt64}
	Int128 = LogicalType{ID: IDInt128}
	UInt8 = LogicalType{ID: IDUInt8}
	UInt16 = LogicalType{ID: IDUInt16}
	UInt32 = LogicalType{ID: IDUInt32}
	UInt64 = LogicalType{ID: IDUInt64}
	UInt128 = LogicalType{ID: IDUInt128}
	Utf8 = LogicalType{ID: IDUtf8}
	Binary = LogicalType{ID: IDBinary}
	Boolean = LogicalType{ID: IDBoolean}
	Date32 = LogicalType{ID: IDDate32}
	Date64 = LogicalType{ID: IDDate64}
	Interval = LogicalType{ID: IDInterval}
	Null = LogicalType{ID: IDNull}
)

// Timestamp builds a parameterized Timestamp logical type.
func Timestamp(unit TimeUnit) LogicalType {
	return LogicalType{ID: IDTimestamp, Unit: unit}
}

// NewDecimal64 builds a parameterized Decimal64 logical type.
func NewDecimal64(precision uint8, scale int8) LogicalType {
	return LogicalType{ID: IDDecimal64, Precision: precision, Scale: scale}
}

// NewDecimal128 builds a parameterized Decimal128 logical type.
func NewDecimal128(precision uint8, scale int8) LogicalType {
	return LogicalType{ID: IDDecimal128, Precision: precision, Scale: scale}
}

// List builds a parameterized List logical type.
func List(child LogicalType) LogicalType {
	return LogicalType{ID: IDList, Child: &child}
}

// Struct builds a parameterized Struct logical type.
func Struct(fields...StructField) LogicalType {
	return LogicalType{ID: IDStruct, Fields: fields}
}

// Physical returns the canonical physical storage tag for this logical
// type, selecting the columnar encoding.
func (t LogicalType) Physical() PhysicalStorage {
	switch t.ID {
	case IDFloat16:
		return PhysicalF16
	case IDFloat32:
		return PhysicalF32
	case IDFloat64:
		return PhysicalF64
	case IDInt8:
		return PhysicalI8
	case IDInt16:
		return PhysicalI16
	case IDInt32:
		return PhysicalI32
	case IDInt64:
		return PhysicalI64
	case IDInt128:
		return PhysicalI128
	case IDUInt8:
		return PhysicalU8
	case IDUInt16:
		return PhysicalU16
	case IDUInt32:
		return PhysicalU32
	case IDUInt64:
		return PhysicalU64
	case IDUInt128:
		return PhysicalU128
	case IDUtf8:
		return PhysicalUtf8
	case IDBinary:
		return PhysicalBinary
	case IDBoolean:
		return PhysicalBool
	case IDDate32:
		return PhysicalDate32
	case IDDate64:
		return PhysicalDate64
	case IDTimestamp:
		return PhysicalTimestamp
	case IDInterval:
		return PhysicalInterval
	case IDDecimal64:
		return PhysicalDecimal64
	case IDDecimal128:
		return PhysicalDecimal128
	case IDList:
		return PhysicalList
	case IDStruct:
		return PhysicalStruct
	case IDNull:
		return PhysicalNull
	default:
		return PhysicalInvalid
	}
}

// IsNumeric reports whether t is one of the 13 numeric physical types
// the arithmetic family is registered over.
func (t LogicalType) IsNumeric() bool {
	switch t.Physical() {
	case PhysicalI8, PhysicalI16, PhysicalI32, PhysicalI64, PhysicalI128,
		PhysicalU8, PhysicalU16, PhysicalU32, PhysicalU64, PhysicalU128,
		PhysicalF32, PhysicalF64, PhysicalF16:
		return true
	default:
		return false
	}
}

func (t LogicalType) String() string {
	switch t.ID {
	case IDTimestamp:
		return fmt.Sprintf("Timestamp(%s)", t.Unit)
	case IDDecimal64:
		return fmt.Sprintf("Decimal64(%d,%d)", t.Precision, t.Scale)
	case IDDecimal128:
		return fmt.Sprintf("Decimal128(%d,%d)", t.Precision, t.Scale)
	case IDList:
		return fmt.Sprintf("List<%s>", t.Child)
	case IDStruct:
		return fmt.Sprintf("Struct%v", t.Fields)
	default:
		return t.Physical().String()
	}
}

// Equal compares two logical types structurally, including parameters.
func (t LogicalType) Equal(o LogicalType) bool {
	if t.ID != o.ID {
		return false
	}
	switch t.ID {
	case IDTimestamp:
		return t.Unit == o.Unit
	case IDDecimal64, IDDecimal128:
		return t.Precision == o.Precision && t.Scale == o.Scale
	case IDList:
		return t.Child != nil && o.Child != nil && t.Child.Equal(*o.Child)
	case IDStruct:
		if len(t.Fields) != len(o.Fields) {
			return false
		}
		for i, f := range t.Fields {
			if f.Name != o.Fields[i].Name || !f.Type.Equal(o.Fields[i].Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// ArrowDataType maps a LogicalType to its Arrow equivalent, the
// physical encoding backing this type's Array.
func (t LogicalType) ArrowDataType() arrow.DataType {
	switch t.ID {
	case IDFloat16:
		return arrow.FixedWidthTypes.Float16
	case IDFloat32:
		return arrow.PrimitiveTypes.Float32
	case IDFloat64:
		return arrow.PrimitiveTypes.Float64
	case IDInt8:
		return arrow.PrimitiveTypes.Int8
	case IDInt16:
		return arrow.PrimitiveTypes.Int16
	case IDInt32:
		return arrow.PrimitiveTypes.Int32
	case IDInt64:
		return arrow.PrimitiveTypes.Int64
	case IDInt128:
		return &arrow.Decimal128Type{Precision: 38, Scale: 0}
	case IDUInt8:
		return arrow.PrimitiveTypes.Uint8
	case IDUInt16:
		return arrow.PrimitiveTypes.Uint16
	case IDUInt32:
		return arrow.PrimitiveTypes.Uint32
	case IDUInt64:
		return arrow.PrimitiveTypes.Uint64
	case IDUInt128:
		return &arrow.Decimal128Type{Precision: 38, Scale: 0}
	case IDUtf8:
		return arrow.BinaryTypes.String
	case IDBinary:
		return arrow.BinaryTypes.Binary
	case IDBoolean:
		return arrow.FixedWidthTypes.Boolean
	case IDDate32:
		return arrow.FixedWidthTypes.Date32
	case IDDate64:
		return arrow.FixedWidthTypes.Date64
	case IDTimestamp:
		return &arrow.TimestampType{Unit: t.Unit}
	case IDInterval:
		return arrow.FixedWidthTypes.MonthDayNanoInterval
	case IDDecimal64:
		return &arrow.Decimal64Type{Precision: int32(t.Precision), Scale: int32(t.Scale)}
	case IDDecimal128:
		return &arrow.Decimal128Type{Precision: int32(t.Precision), Scale: int32(t.Scale)}
	case IDList:
		return arrow.ListOf(t.Child.ArrowDataType())
	case IDStruct:
		fields := make([]arrow.Field, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = arrow.Field{Name: f.Name, Type: f.Type.ArrowDataType(), Nullable: true}
		}
		return arrow.StructOf(fields...)
	case IDNull:
		return arrow.Null
	default:
		return arrow.Null
	}
}
