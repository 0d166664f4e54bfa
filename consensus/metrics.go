// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"github.com/poetchain/poet/metrics"
)

var (
	metricBlockClaims        = metrics.LazyLoadCounter("consensus_block_claims_count")
	metricStateDecodeFailure = metrics.LazyLoadCounter("consensus_state_decode_failure_count")
	metricTotalBlockClaims   = metrics.LazyLoadGauge("consensus_total_block_claim_gauge")
)
