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

package physical

import (
	"context"

	"github.com/pipeql/pipeql/types"
)

// Sink consumes batches; it may buffer them for a hash-table build or
// forward them as a final result.
type Sink interface {
	Push(ctx context.Context, batch types.Batch) (Signal, error)
	Finish(ctx context.Context) error
	Abort(ctx context.Context, cause error) error
}

// CollectSink buffers every pushed batch, the terminal sink a caller
// not providing their own uses to gather the pipeline's final result
// (e.g. in tests and the cmd/pipeql demo).
type CollectSink struct {
	Batches []types.Batch
	Err error
}

// NewCollectSink returns an empty CollectSink.
func NewCollectSink() *CollectSink { return &CollectSink{} }

// Push implements Sink.
func (c *CollectSink) Push(_ context.Context, batch types.Batch) (Signal, error) {
	c.Batches = append(c.Batches, batch)
	return Ready, nil
}

// Finish implements Sink.
func (c *CollectSink) Finish(context.Context) error { return nil }

// Abort implements Sink: records the cause so callers can inspect it
// after the pipeline returns.
func (c *CollectSink) Abort(_ context.Context, cause error) error {
	c.Err = cause
	return nil
}
