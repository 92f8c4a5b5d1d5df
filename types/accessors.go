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

package types

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/shopspring/decimal"
)

// The Get*/Put* functions below are the concrete per-physical-type
// Getter/Appender pairs that instantiate the generic executors in
// executor.go. One pair per physical storage tag in the numeric
// matrix plus Utf8/Bool, mirroring the monomorphization 
// describes ("implementations are parameterized by physical storage
// tags so the inner loop compiles to a tight primitive operation").

func GetI8(a Array, i int) (int8, bool) {
	v := a.Arrow().(*array.Int8)
	if v.IsNull(i) {
		return 0, false
	}
	return v.Value(i), true
}

func GetI16(a Array, i int) (int16, bool) {
	v := a.Arrow().(*array.Int16)
	if v.IsNull(i) {
		return 0, false
	}
	return v.Value(i), true
}

func GetI32(a Array, i int) (int32, bool) {
	v := a.Arrow().(*array.Int32)
	if v.IsNull(i) {
		return 0, false
	}
	return v.Value(i), true
}

func GetI64(a Array, i int) (int64, bool) {
	v := a.Arrow().(*array.Int64)
	if v.IsNull(i) {
		return 0, false
	}
	return v.Value(i), true
}

func GetU8(a Array, i int) (uint8, bool) {
	v := a.Arrow().(*array.Uint8)
	if v.IsNull(i) {
		return 0, false
	}
	return v.Value(i), true
}

func GetU16(a Array, i int) (uint16, bool) {
	v := a.Arrow().(*array.Uint16)
	if v.IsNull(i) {
		return 0, false
	}
	return v.Value(i), true
}

func GetU32(a Array, i int) (uint32, bool) {
	v := a.Arrow().(*array.Uint32)
	if v.IsNull(i) {
		return 0, false
	}
	return v.Value(i), true
}

func GetU64(a Array, i int) (uint64, bool) {
	v := a.Arrow().(*array.Uint64)
	if v.IsNull(i) {
		return 0, false
	}
	return v.Value(i), true
}

func GetF32(a Array, i int) (float32, bool) {
	v := a.Arrow().(*array.Float32)
	if v.IsNull(i) {
		return 0, false
	}
	return v.Value(i), true
}

func GetF64(a Array, i int) (float64, bool) {
	v := a.Arrow().(*array.Float64)
	if v.IsNull(i) {
		return 0, false
	}
	return v.Value(i), true
}

func GetBool(a Array, i int) (bool, bool) {
	v := a.Arrow().(*array.Boolean)
	if v.IsNull(i) {
		return false, false
	}
	return v.Value(i), true
}

func GetUtf8(a Array, i int) (string, bool) {
	v := a.Arrow().(*array.String)
	if v.IsNull(i) {
		return "", false
	}
	return v.Value(i), true
}

func GetDecimal64(a Array, i int) (decimal.Decimal, bool) {
	v := a.Arrow().(*array.Decimal64)
	if v.IsNull(i) {
		return decimal.Decimal{}, false
	}
	dt := v.DataType().(*arrow.Decimal64Type)
	return decimal.New(v.Value(i), -dt.Scale), true
}

func GetDecimal128(a Array, i int) (decimal.Decimal, bool) {
	v := a.Arrow().(*array.Decimal128)
	if v.IsNull(i) {
		return decimal.Decimal{}, false
	}
	dt := v.DataType().(*arrow.Decimal128Type)
	val := v.Value(i)
	return decimal.NewFromBigInt(val.BigInt(), -dt.Scale), true
}

func PutI8(b ArrayBuilder, v int8) { b.Inner().(*array.Int8Builder).Append(v) }
func PutI16(b ArrayBuilder, v int16) { b.Inner().(*array.Int16Builder).Append(v) }
func PutI32(b ArrayBuilder, v int32) { b.Inner().(*array.Int32Builder).Append(v) }
func PutI64(b ArrayBuilder, v int64) { b.Inner().(*array.Int64Builder).Append(v) }

func PutU8(b ArrayBuilder, v uint8) { b.Inner().(*array.Uint8Builder).Append(v) }
func PutU16(b ArrayBuilder, v uint16) { b.Inner().(*array.Uint16Builder).Append(v) }
func PutU32(b ArrayBuilder, v uint32) { b.Inner().(*array.Uint32Builder).Append(v) }
func PutU64(b ArrayBuilder, v uint64) { b.Inner().(*array.Uint64Builder).Append(v) }

func PutF32(b ArrayBuilder, v float32) { b.Inner().(*array.Float32Builder).Append(v) }
func PutF64(b ArrayBuilder, v float64) { b.Inner().(*array.Float64Builder).Append(v) }

func PutBool(b ArrayBuilder, v bool) { b.Inner().(*array.BooleanBuilder).Append(v) }
func PutUtf8(b ArrayBuilder, v string) { b.Inner().(*array.StringBuilder).Append(v) }
func PutBinary(b ArrayBuilder, v []byte) { b.Inner().(*array.BinaryBuilder).Append(v) }

// PutDecimal64 appends a decimal.Decimal to a Decimal64 builder,
// rescaling to the builder's declared scale.
func PutDecimal64(b ArrayBuilder, v decimal.Decimal) {
	bd := b.Inner().(*array.Decimal64Builder)
	dt := bd.Type().(*arrow.Decimal64Type)
	scaled := v.Shift(int32(dt.Scale)).Round(0)
	bd.Append(scaled.BigInt().Int64())
}

// PutDecimal128 appends a decimal.Decimal to a Decimal128 builder,
// rescaling to the builder's declared scale.
func PutDecimal128(b ArrayBuilder, v decimal.Decimal) {
	bd := b.Inner().(*array.Decimal128Builder)
	dt := bd.Type().(*arrow.Decimal128Type)
	scaled := v.Shift(int32(dt.Scale)).Round(0)
	bd.Append(decimal128.FromBigInt(scaled.BigInt()))
}
