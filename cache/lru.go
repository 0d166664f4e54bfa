// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import lru "github.com/hashicorp/golang-lru/v2"

// LRU a typed LRU cache extends golang-lru.
type LRU[K comparable, V any] struct {
	*lru.Cache[K, V]
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU[K comparable, V any](maxSize int) (*LRU[K, V], error) {
	cache, err := lru.New[K, V](maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{cache}, nil
}

// Loader defines loader to load value for key.
type Loader[K comparable, V any] func(key K) (V, error)

// GetOrLoad first try to get from cache, do load if missed.
func (l *LRU[K, V]) GetOrLoad(key K, loader Loader[K, V]) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := loader(key)
	if err != nil {
		var zero V
		return zero, err
	}

	l.Add(key, v)
	return v, nil
}
