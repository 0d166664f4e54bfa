// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("not found")

type memChain map[string]*Block

func (c memChain) Block(id string) (*Block, error) {
	b, ok := c[id]
	if !ok {
		return nil, errNotFound
	}
	return b, nil
}

func (c memChain) IsNotFound(err error) bool { return err == errNotFound }

type memRegistry map[string]ValidatorInfo

func (r memRegistry) ValidatorInfo(validatorID string) (ValidatorInfo, error) {
	info, ok := r[validatorID]
	if !ok {
		return ValidatorInfo{}, errors.Errorf("no registry entry for %s", validatorID)
	}
	return info, nil
}

// a 4-block chain; block-3 is a non-PoET block
func newTestChain() (memChain, memRegistry) {
	chain := memChain{
		"block-1": {ID: "block-1", PreviousID: NullBlockID, SignerID: "validator-1", Cert: &WaitCertificate{LocalMean: 5.5}},
		"block-2": {ID: "block-2", PreviousID: "block-1", SignerID: "validator-2", Cert: &WaitCertificate{LocalMean: 1.25}},
		"block-3": {ID: "block-3", PreviousID: "block-2", SignerID: "validator-1"},
		"block-4": {ID: "block-4", PreviousID: "block-3", SignerID: "validator-1", Cert: &WaitCertificate{LocalMean: 3}},
	}
	registry := memRegistry{
		"validator-1": newValidatorInfo("validator-1", "ppk-A"),
		"validator-2": newValidatorInfo("validator-2", "ppk-B"),
	}
	return chain, registry
}

func newTestResolver(t *testing.T) (*Resolver, *StateStore) {
	t.Helper()
	chain, registry := newTestChain()
	store := newTestStore(t)
	r, err := NewResolver(chain, registry, store)
	require.Nil(t, err)
	return r, store
}

func TestStateForBlockRebuilds(t *testing.T) {
	r, store := newTestResolver(t)

	state, err := r.StateForBlock("block-4")
	require.Nil(t, err)

	// must equal the state recorded incrementally at commit time
	want := NewConsensusState()
	want.RecordBlockClaim(newValidatorInfo("validator-1", "ppk-A"), WaitCertificate{LocalMean: 5.5})
	want.RecordBlockClaim(newValidatorInfo("validator-2", "ppk-B"), WaitCertificate{LocalMean: 1.25})
	want.RecordBlockClaim(newValidatorInfo("validator-1", "ppk-A"), WaitCertificate{LocalMean: 3})

	assert.Equal(t, want.AggregateLocalMean(), state.AggregateLocalMean())
	assert.Equal(t, want.TotalBlockClaimCount(), state.TotalBlockClaimCount())
	assert.Equal(t, want.validators, state.validators)

	// rebuilt states are persisted per PoET block so later lookups are short
	for _, id := range []string{"block-1", "block-2", "block-4"} {
		has, err := store.Has(id)
		assert.Nil(t, err)
		assert.True(t, has, id)
	}
	has, err := store.Has("block-3")
	assert.Nil(t, err)
	assert.False(t, has)
}

func TestStateForBlockNonPoetBlock(t *testing.T) {
	r, _ := newTestResolver(t)

	// a non-PoET block carries its nearest PoET ancestor's state
	state, err := r.StateForBlock("block-3")
	require.Nil(t, err)
	assert.Equal(t, uint64(2), state.TotalBlockClaimCount())
	assert.Equal(t, 6.75, state.AggregateLocalMean())
}

func TestStateForBlockBuildsOnStored(t *testing.T) {
	chain, registry := newTestChain()
	store := newTestStore(t)

	// state for block-2 is already stored; walking back must stop there
	stored := NewConsensusState()
	stored.RecordBlockClaim(newValidatorInfo("validator-1", "ppk-A"), WaitCertificate{LocalMean: 5.5})
	stored.RecordBlockClaim(newValidatorInfo("validator-2", "ppk-B"), WaitCertificate{LocalMean: 1.25})
	require.Nil(t, store.Save("block-2", stored))
	delete(chain, "block-1")

	r, err := NewResolver(chain, registry, store)
	require.Nil(t, err)

	state, err := r.StateForBlock("block-4")
	require.Nil(t, err)
	assert.Equal(t, uint64(3), state.TotalBlockClaimCount())
	assert.Equal(t, 9.75, state.AggregateLocalMean())
}

func TestStateForBlockNullBlockID(t *testing.T) {
	r, _ := newTestResolver(t)

	state, err := r.StateForBlock(NullBlockID)
	require.Nil(t, err)
	assert.Equal(t, uint64(0), state.TotalBlockClaimCount())
	assert.Equal(t, 0, state.ValidatorCount())
}

func TestStateForBlockPreGenesisState(t *testing.T) {
	chain, registry := newTestChain()
	store := newTestStore(t)

	// sealed signup data may store state before any block exists
	preGenesis := NewConsensusState()
	preGenesis.RecordBlockClaim(newValidatorInfo("validator-0", "ppk-0"), WaitCertificate{LocalMean: 2})
	require.Nil(t, store.Save(NullBlockID, preGenesis))

	r, err := NewResolver(chain, registry, store)
	require.Nil(t, err)

	state, err := r.StateForBlock("block-1")
	require.Nil(t, err)
	assert.Equal(t, uint64(2), state.TotalBlockClaimCount())
	assert.Equal(t, 7.5, state.AggregateLocalMean())
}

func TestStateForBlockMissingBlock(t *testing.T) {
	chain, registry := newTestChain()
	delete(chain, "block-2")
	r, err := NewResolver(chain, registry, newTestStore(t))
	require.Nil(t, err)

	_, err = r.StateForBlock("block-4")
	assert.Error(t, err)
}

func TestStateForBlockUnknownSigner(t *testing.T) {
	chain, registry := newTestChain()
	delete(registry, "validator-2")
	r, err := NewResolver(chain, registry, newTestStore(t))
	require.Nil(t, err)

	_, err = r.StateForBlock("block-4")
	assert.Error(t, err)
}

func TestStateForBlockCopyOnRead(t *testing.T) {
	r, _ := newTestResolver(t)

	first, err := r.StateForBlock("block-4")
	require.Nil(t, err)

	// mutating a resolved state must not leak into later resolutions
	first.RecordBlockClaim(newValidatorInfo("validator-9", "ppk-Z"), WaitCertificate{LocalMean: 100})

	second, err := r.StateForBlock("block-4")
	require.Nil(t, err)
	assert.Equal(t, uint64(3), second.TotalBlockClaimCount())
	assert.NotContains(t, second.validators, "validator-9")
}
