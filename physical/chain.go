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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/types"
)

// OperatorChain is a linear {Source, Operators, Sink} sequence executed
// by one worker at a time; a chain never interleaves batches from two
// sources, since operators within a single chain execute sequentially
// on one worker at a time.
type OperatorChain struct {
	ID uuid.UUID
	Source Source
	Operators []Operator
	Sink Sink
}

// NewOperatorChain builds a chain with a fresh id.
func NewOperatorChain(source Source, operators []Operator, sink Sink) *OperatorChain {
	return &OperatorChain{ID: uuid.New(), Source: source, Operators: operators, Sink: sink}
}

// Run drives this chain to completion: pull a batch from Source,
// thread it through Operators, push the result into Sink, repeat until
// Source signals Exhausted, then Finalize every operator. It is a
// driver that repeatedly pulls one batch from its source, threads it
// through its operators, and pushes the result to its sink.
func (c *OperatorChain) Run(ctx context.Context) error {
	log := logrus.WithField("chain", c.ID.String())
	log.Debug("chain starting")

	for {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("chain cancelled")
			return c.abort(ctx, errkind.Cancelled.New())
		}

		batch, sig, err := c.Source.Next(ctx)
		if err != nil {
			log.WithError(err).Warn("chain source failed")
			return c.abort(ctx, err)
		}
		if sig == Exhausted {
			break
		}

		if err := c.pushThroughOperators(ctx, batch, 0); err != nil {
			return c.abort(ctx, err)
		}
	}

	for i, op := range c.Operators {
		flushed, err := op.Finalize(ctx)
		if err != nil {
			log.WithError(err).Warn("chain operator finalize failed")
			return c.abort(ctx, err)
		}
		for _, fb := range flushed {
			if err := c.pushThroughOperators(ctx, fb, i+1); err != nil {
				return c.abort(ctx, err)
			}
		}
	}

	if err := c.Sink.Finish(ctx); err != nil {
		log.WithError(err).Warn("chain sink finish failed")
		return err
	}
	log.Debug("chain finished")
	return nil
}

func (c *OperatorChain) pushThroughOperators(ctx context.Context, batch types.Batch, from int) error {
	cur := []types.Batch{batch}
	for _, op := range c.Operators[from:] {
		var next []types.Batch
		for _, b := range cur {
			out, sig, err := op.Push(ctx, b)
			if err != nil {
				return err
			}
			if sig == NeedMoreInput {
				continue
			}
			next = append(next, out...)
		}
		cur = next
	}
	for _, b := range cur {
		if err := c.pushToSink(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (c *OperatorChain) pushToSink(ctx context.Context, batch types.Batch) error {
	sig, err := c.Sink.Push(ctx, batch)
	if err != nil {
		return err
	}
	if sig == Full {
		return errkind.Resource.New("sink applied backpressure with no pending-retry driver configured")
	}
	return nil
}

func (c *OperatorChain) abort(ctx context.Context, cause error) error {
	if abortErr := c.Sink.Abort(ctx, cause); abortErr != nil {
		return abortErr
	}
	return cause
}
