// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		invalidKey = []byte("abc")
	)

	db, err := NewMem()
	assert.Nil(t, err)
	defer db.Close()

	err = db.Put(key, value)
	assert.Nil(t, err)

	got, err := db.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, value, got)

	has, err := db.Has(key)
	assert.Nil(t, err)
	assert.True(t, has)

	has, err = db.Has(invalidKey)
	assert.Nil(t, err)
	assert.False(t, has)

	_, err = db.Get(invalidKey)
	assert.True(t, db.IsNotFound(err))

	err = db.Delete(key)
	assert.Nil(t, err)

	has, err = db.Has(key)
	assert.Nil(t, err)
	assert.False(t, has)
}
