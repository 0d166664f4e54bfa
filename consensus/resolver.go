// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"github.com/pkg/errors"

	"github.com/poetchain/poet/cache"
)

const resolverCacheSize = 512

// Resolver reconstructs the consensus state for any committed block,
// rebuilding it from the consensus state history when it was not stored.
//
// Every returned state is an independent copy: validation tasks for
// competing forks may resolve states concurrently and mutate the results
// without affecting each other or the resolver's cache.
type Resolver struct {
	chain    BlockReader
	registry Registry
	store    *StateStore
	cache    *cache.LRU[string, *ConsensusState]
}

// NewResolver creates a resolver over the given chain, registry and store.
func NewResolver(chain BlockReader, registry Registry, store *StateStore) (*Resolver, error) {
	c, err := cache.NewLRU[string, *ConsensusState](resolverCacheSize)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		chain:    chain,
		registry: registry,
		store:    store,
		cache:    c,
	}, nil
}

// StateForBlock returns the consensus state as of the commit of the given
// block. Ancestors are walked back until stored state is found, then the
// claim of each intervening PoET block is replayed forward and the rebuilt
// states are stored, so later lookups do not walk as far.
func (r *Resolver) StateForBlock(blockID string) (*ConsensusState, error) {
	var (
		state   *ConsensusState
		pending []*Block // PoET blocks needing state, newest first
	)

	cur := blockID
	for cur != NullBlockID {
		if cached, ok := r.cache.Get(cur); ok {
			state = cached.Clone()
			break
		}

		loaded, err := r.store.Load(cur)
		if err == nil {
			state = loaded
			r.cache.Add(cur, state.Clone())
			break
		}
		if !r.store.IsNotFound(err) {
			return nil, err
		}

		b, err := r.chain.Block(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "get block %s", abbrev(cur))
		}

		if b.Cert != nil {
			pending = append(pending, b)
		}
		cur = b.PreviousID
	}

	// Walked past genesis: start from the pre-genesis state if the store has
	// one (e.g. sealed signup data saved before any block existed), else
	// from scratch.
	if state == nil {
		loaded, err := r.store.Load(NullBlockID)
		switch {
		case err == nil:
			state = loaded
		case r.store.IsNotFound(err):
			state = NewConsensusState()
		default:
			return nil, err
		}
	}

	for i := len(pending) - 1; i >= 0; i-- {
		b := pending[i]

		info, err := r.registry.ValidatorInfo(b.SignerID)
		if err != nil {
			return nil, errors.Wrapf(err, "get validator info for block %s signer", abbrev(b.ID))
		}

		state.RecordBlockClaim(info, *b.Cert)

		if err := r.store.Save(b.ID, state); err != nil {
			return nil, errors.Wrapf(err, "store consensus state for block %s", abbrev(b.ID))
		}
		r.cache.Add(b.ID, state.Clone())

		logger.Debug("rebuilt consensus state",
			"block", abbrev(b.ID),
			"state", state)
	}

	return state, nil
}
