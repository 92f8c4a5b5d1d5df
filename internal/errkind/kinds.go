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

// Package errkind declares the error taxonomy shared by every layer of
// the engine. Each kind is a gopkg.in/src-d/go-errors.v1
// Kind; callers construct concrete errors with Kind.New(args...) and
// compare with errors.Is against the Kind itself.
package errkind

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// Parse is surfaced from the binder; the core only propagates it.
	Parse = errors.NewKind("parse error: %s")

	// Bind covers unknown column/table, ambiguous reference, and type
	// mismatch discovered during binding.
	Bind = errors.NewKind("bind error: %s")

	// Plan covers invalid input types for a scalar function, arity
	// mismatch, and unsupported features.
	Plan = errors.NewKind("plan error: %s")
	InvalidInputTypes = errors.NewKind("function %q: no signature matches argument types %v")
	NotImplemented = errors.NewKind("not implemented: %s")
	ArityMismatch = errors.NewKind("function %q: expected %d arguments, got %d")

	// Execution covers divide-by-zero, overflow in strict mode, cast
	// failure, and I/O failure from a source/sink.
	Execution = errors.NewKind("execution error: %s")
	DivideByZero = errors.NewKind("division by zero")
	CastFailed = errors.NewKind("cannot cast %s to %s")
	InvalidArgument = errors.NewKind("invalid argument: %s")
	LengthMismatch = errors.NewKind("length mismatch: %d vs %d")
	PhysicalMismatch = errors.NewKind("physical storage mismatch: expected %s, found %s")

	// Resource covers out-of-memory during hash-table build and spill
	// failure.
	Resource = errors.NewKind("resource error: %s")
	OutOfMemory = errors.NewKind("out of memory: %s")

	// Internal indicates an invariant violation: a bug, not user error.
	Internal = errors.NewKind("internal error: %s")

	// Cancelled marks cooperative cancellation; propagation of this
	// kind is silent.
	Cancelled = errors.NewKind("cancelled")

	// AlreadyExists is raised when attaching a catalog whose name is
	// already registered.
	AlreadyExists = errors.NewKind("already exists: %s")

	// NotFound covers unknown table refs, unknown catalog entries, and
	// unknown session variables.
	NotFound = errors.NewKind("not found: %s")

	// MissingField is raised by serialization when a required field is
	// absent from the wire representation.
	MissingField = errors.NewKind("missing field: %s")

	// ColumnIndexOutOfRange is raised by BindContext.GetColumnType.
	ColumnIndexOutOfRange = errors.NewKind("column index %d out of range for table %v (has %d columns)")
)
