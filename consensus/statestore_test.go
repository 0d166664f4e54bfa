// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poetchain/poet/lvldb"
)

func newTestStore(t *testing.T) *StateStore {
	t.Helper()
	db, err := lvldb.NewMem()
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStateStore(db)
}

func TestStateStore(t *testing.T) {
	ss := newTestStore(t)

	state := NewConsensusState()
	state.RecordBlockClaim(newValidatorInfo("validator-1", "ppk-A"), WaitCertificate{LocalMean: 5.5})

	require.Nil(t, ss.Save("block-1", state))

	has, err := ss.Has("block-1")
	assert.Nil(t, err)
	assert.True(t, has)

	loaded, err := ss.Load("block-1")
	require.Nil(t, err)
	assert.Equal(t, state.AggregateLocalMean(), loaded.AggregateLocalMean())
	assert.Equal(t, state.TotalBlockClaimCount(), loaded.TotalBlockClaimCount())
	assert.Equal(t, state.validators, loaded.validators)

	_, err = ss.Load("block-2")
	assert.True(t, ss.IsNotFound(err))

	require.Nil(t, ss.Delete("block-1"))
	_, err = ss.Load("block-1")
	assert.True(t, ss.IsNotFound(err))
}

func TestStateStoreRejectsCorruptBytes(t *testing.T) {
	db, err := lvldb.NewMem()
	require.Nil(t, err)
	defer db.Close()
	ss := NewStateStore(db)

	// stored by some other, buggy process
	require.Nil(t, db.Put([]byte(string(stateBucket)+"block-1"), []byte{0xff, 0x00}))

	_, err = ss.Load("block-1")
	assert.True(t, IsValidationError(err))
	assert.False(t, ss.IsNotFound(err))
}

func TestStateStoreNullBlockID(t *testing.T) {
	ss := newTestStore(t)

	state := NewConsensusState()
	state.RecordBlockClaim(newValidatorInfo("validator-1", "ppk-A"), WaitCertificate{LocalMean: 1})
	require.Nil(t, ss.Save(NullBlockID, state))

	loaded, err := ss.Load(NullBlockID)
	require.Nil(t, err)
	assert.Equal(t, uint64(1), loaded.TotalBlockClaimCount())
}
