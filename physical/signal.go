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

// Package physical is the L4 layer: push-based Source/Operator/Sink
// stages, OperatorChains, and the Pipeline that schedules them to
// completion (§5).
package physical

// Signal is what a Source, Operator, or Sink hands back to the driver
// about its readiness.
type Signal uint8

const (
	// Ready means a batch (or nothing further to do this call) was
	// produced without blocking.
	Ready Signal = iota
	// Pending means a source is waiting on I/O. OperatorChain.Run does
	// not park the chain: it handles the batch returned with Pending as
	// it does a Ready one and calls Next again.
	Pending
	// Full means a sink is applying backpressure. OperatorChain.Run
	// does not pause on it: the chain aborts with a Resource error.
	Full
	// NeedMoreInput means an operator consumed a batch but has nothing
	// to emit yet (e.g. a buffering operator still accumulating).
	NeedMoreInput
	// Exhausted means a source has no further batches.
	Exhausted
	// Finalized means a sink (typically hash-table build) has frozen
	// its state and is now safely readable by probe workers.
	Finalized
)

func (s Signal) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Full:
		return "Full"
	case NeedMoreInput:
		return "NeedMoreInput"
	case Exhausted:
		return "Exhausted"
	case Finalized:
		return "Finalized"
	default:
		return "Ready"
	}
}
