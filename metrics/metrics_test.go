// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	// the default noop service accepts everything and serves nothing
	assert.Nil(t, HTTPHandler())

	Counter("noop_count").Add(1)
	CounterVec("noop_count_vec", []string{"kind"}).AddWithLabel(1, map[string]string{"kind": "a"})
	Gauge("noop_gauge").Set(42)
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	load := LazyLoad(func() int {
		calls++
		return 7
	})

	assert.Equal(t, 0, calls)
	assert.Equal(t, 7, load())
	assert.Equal(t, 7, load())
	assert.Equal(t, 1, calls)
}

func TestPrometheusMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	assert.NotNil(t, HTTPHandler())

	c := Counter("test_count")
	assert.NotNil(t, c)
	c.Add(3)
	// same name returns the same meter
	assert.Equal(t, c, Counter("test_count"))

	g := Gauge("test_gauge")
	g.Set(10)
	g.Add(-2)

	cv := CounterVec("test_count_vec", []string{"kind"})
	cv.AddWithLabel(1, map[string]string{"kind": "a"})
}
