// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket provides a logical bucket for a kv store, by prefixing all keys.
type Bucket string

type bucketGetPutter struct {
	b   Bucket
	src GetPutter
}

func (g *bucketGetPutter) key(key []byte) []byte {
	return append(append(make([]byte, 0, len(g.b)+len(key)), g.b...), key...)
}

func (g *bucketGetPutter) Get(key []byte) ([]byte, error) {
	return g.src.Get(g.key(key))
}

func (g *bucketGetPutter) Has(key []byte) (bool, error) {
	return g.src.Has(g.key(key))
}

func (g *bucketGetPutter) IsNotFound(err error) bool {
	return g.src.IsNotFound(err)
}

func (g *bucketGetPutter) Put(key, value []byte) error {
	return g.src.Put(g.key(key), value)
}

func (g *bucketGetPutter) Delete(key []byte) error {
	return g.src.Delete(g.key(key))
}

// NewGetPutter creates a bucket getter/putter from the source getter/putter.
func (b Bucket) NewGetPutter(src GetPutter) GetPutter {
	return &bucketGetPutter{b, src}
}
