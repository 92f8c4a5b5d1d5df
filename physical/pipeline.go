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

	"github.com/sirupsen/logrus"
)

// Pipeline is a DAG of OperatorChains, the unit Pipeline.Execute drives
// to completion or first error. Chains are listed in dependency order:
// a build-side chain for a join or aggregate precedes the chain(s)
// that read its finalized sink, so sequential execution alone
// satisfies the rule that build-side completion happens-before any
// probe-side operator observes a hash table entry. True concurrency
// across independent chains is a scheduling optimization this
// reference driver does not need to take to honor that ordering
// contract.
type Pipeline struct {
	Chains []*OperatorChain
}

// NewPipeline wraps chains in execution order.
func NewPipeline(chains...*OperatorChain) *Pipeline {
	return &Pipeline{Chains: chains}
}

// Execute runs every chain in order, using ctx as the cooperative
// cancellation token every source checks before producing a batch and
// every operator checks between batches ("Cancellation").
// The first chain to fail aborts the whole pipeline; later chains are
// not started.
func (p *Pipeline) Execute(ctx context.Context) error {
	log := logrus.WithField("chains", len(p.Chains))
	log.Debug("pipeline starting")
	for i, chain := range p.Chains {
		if err := chain.Run(ctx); err != nil {
			log.WithError(err).WithField("failed_chain_index", i).Warn("pipeline aborted")
			return err
		}
	}
	log.Debug("pipeline finished")
	return nil
}
