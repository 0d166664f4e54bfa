// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"github.com/pkg/errors"

	"github.com/poetchain/poet/kv"
)

const stateBucket = kv.Bucket("consensus-state")

// StateStore persists serialized consensus state keyed by the ID of the
// block it describes. State for the NullBlockID key, if any, is the
// pre-genesis state.
type StateStore struct {
	store kv.GetPutter
}

// NewStateStore creates a state store on top of the given kv store.
func NewStateStore(store kv.GetPutter) *StateStore {
	return &StateStore{store: stateBucket.NewGetPutter(store)}
}

// Save serializes the state and stores it under the block ID.
func (ss *StateStore) Save(blockID string, state *ConsensusState) error {
	data, err := state.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "serialize consensus state")
	}
	return ss.store.Put([]byte(blockID), data)
}

// Load returns the consensus state stored for the block ID. Absence can be
// checked via IsNotFound; stored bytes failing validation surface as a
// ValidationError.
func (ss *StateStore) Load(blockID string) (*ConsensusState, error) {
	data, err := ss.store.Get([]byte(blockID))
	if err != nil {
		return nil, err
	}
	state := NewConsensusState()
	if err := state.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return state, nil
}

// Has returns whether state is stored for the block ID.
func (ss *StateStore) Has(blockID string) (bool, error) {
	return ss.store.Has([]byte(blockID))
}

// Delete removes the state stored for the block ID, if any.
func (ss *StateStore) Delete(blockID string) error {
	return ss.store.Delete([]byte(blockID))
}

// IsNotFound to check if the error returned by Load indicates absence.
func (ss *StateStore) IsNotFound(err error) bool {
	return ss.store.IsNotFound(err)
}
