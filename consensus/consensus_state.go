// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package consensus maintains per-validator and aggregate block claim
// statistics for PoET consensus, along with the canonical byte encoding used
// to persist them per block.
package consensus

import (
	"fmt"
	"maps"
	"math"
	"sort"
	"strings"

	"github.com/poetchain/poet/log"
)

var logger = log.WithContext("pkg", "consensus")

// ValidatorState is the claim statistics snapshot of a single validator at a
// point in time. It is a value type: updates replace the whole record, prior
// holders keep their historical snapshot.
type ValidatorState struct {
	// KeyBlockClaimCount is the number of blocks the validator has claimed
	// using its current PoET public key.
	KeyBlockClaimCount uint64
	// PoetPublicKey is the PoET public key currently associated with the
	// validator.
	PoetPublicKey string
	// TotalBlockClaimCount is the number of blocks the validator has claimed
	// under any key, ever. Never less than KeyBlockClaimCount.
	TotalBlockClaimCount uint64
}

// NewValidatorState creates a validator state snapshot, enforcing the record
// invariants. A ConstructionError is returned on violation.
func NewValidatorState(keyBlockClaimCount uint64, poetPublicKey string, totalBlockClaimCount uint64) (ValidatorState, error) {
	vs := ValidatorState{
		KeyBlockClaimCount:   keyBlockClaimCount,
		PoetPublicKey:        poetPublicKey,
		TotalBlockClaimCount: totalBlockClaimCount,
	}
	if err := vs.validate(); err != nil {
		return ValidatorState{}, err
	}
	return vs, nil
}

func (vs *ValidatorState) validate() error {
	if len(vs.PoetPublicKey) < 1 {
		return newConstructionError("poet_public_key (%v) is invalid", vs.PoetPublicKey)
	}
	if vs.KeyBlockClaimCount > vs.TotalBlockClaimCount {
		return newConstructionError(
			"total_block_claim_count (%d) is less than key_block_claim_count (%d)",
			vs.TotalBlockClaimCount,
			vs.KeyBlockClaimCount)
	}
	return nil
}

// ConsensusState holds the consensus statistics at a particular chain
// position, i.e. as of the commit of the block it is stored with.
//
// A ConsensusState is owned by a single block-validation task. It is not safe
// for concurrent mutation; concurrent fork evaluation must work on separate
// instances obtained via Clone or by decoding the stored bytes independently.
type ConsensusState struct {
	aggregateLocalMean   float64
	totalBlockClaimCount uint64
	validators           map[string]ValidatorState
}

// NewConsensusState creates an empty consensus state, the state of a chain
// position with no PoET history.
func NewConsensusState() *ConsensusState {
	return &ConsensusState{
		validators: make(map[string]ValidatorState),
	}
}

// AggregateLocalMean returns the sum of the local means of the PoET blocks
// committed since the last non-PoET block.
func (s *ConsensusState) AggregateLocalMean() float64 {
	return s.aggregateLocalMean
}

// TotalBlockClaimCount returns the number of blocks claimed by all
// validators combined at this chain position.
func (s *ConsensusState) TotalBlockClaimCount() uint64 {
	return s.totalBlockClaimCount
}

// ValidatorCount returns the number of validators with recorded state.
func (s *ConsensusState) ValidatorCount() int {
	return len(s.validators)
}

// GetValidatorState returns the stored state for the validator, or creates,
// stores and returns the default initial state if there is none yet. The
// lazy insert means a first read mutates the receiver.
func (s *ConsensusState) GetValidatorState(info ValidatorInfo) ValidatorState {
	vs, ok := s.validators[info.ID]
	if !ok {
		vs = ValidatorState{
			KeyBlockClaimCount:   0,
			PoetPublicKey:        info.SignupInfo.PoetPublicKey,
			TotalBlockClaimCount: 0,
		}
		s.validators[info.ID] = vs
	}
	return vs
}

// SetValidatorState replaces the stored state of the validator wholesale.
// The record invariants are enforced; a ConstructionError is returned on
// violation and the stored state is left untouched.
func (s *ConsensusState) SetValidatorState(validatorID string, vs ValidatorState) error {
	if err := vs.validate(); err != nil {
		return err
	}
	s.validators[validatorID] = vs
	return nil
}

// RecordBlockClaim updates the consensus statistics for a block claimed by
// the given validator. The wait certificate is the one associated with the
// claimed block; its local mean is assumed validated by the caller.
//
// The aggregate counters are updated before the per-validator record. If the
// validator claims under the same key as its last claim, its per-key count
// increments; a rotated key resets the per-key count to 1, starting a fresh
// observation window for claim-rate checks.
func (s *ConsensusState) RecordBlockClaim(info ValidatorInfo, cert WaitCertificate) {
	// The aggregate must stay finite and non-negative no matter what this
	// addition produces.
	if sum := s.aggregateLocalMean + cert.LocalMean; math.IsInf(sum, 0) || math.IsNaN(sum) || sum < 0 {
		logger.Warn("local mean dropped from aggregate",
			"validator", abbrev(info.ID),
			"localMean", cert.LocalMean)
	} else {
		s.aggregateLocalMean = sum
	}
	s.totalBlockClaimCount++

	vs := s.GetValidatorState(info)

	totalBlockClaimCount := vs.TotalBlockClaimCount + 1

	// Matching PoET public keys mean a simple statistics update. Otherwise
	// the validator rotated its key since its last claim and the per-key
	// count starts over.
	var keyBlockClaimCount uint64
	if info.SignupInfo.PoetPublicKey == vs.PoetPublicKey {
		keyBlockClaimCount = vs.KeyBlockClaimCount + 1
	} else {
		keyBlockClaimCount = 1
	}

	logger.Debug("update validator state",
		"name", info.Name,
		"id", abbrev(info.ID),
		"ppk", abbrev(info.SignupInfo.PoetPublicKey),
		"kbcc", keyBlockClaimCount,
		"tbcc", totalBlockClaimCount)

	s.validators[info.ID] = ValidatorState{
		KeyBlockClaimCount:   keyBlockClaimCount,
		PoetPublicKey:        info.SignupInfo.PoetPublicKey,
		TotalBlockClaimCount: totalBlockClaimCount,
	}

	metricBlockClaims().Add(1)
	metricTotalBlockClaims().Set(int64(s.totalBlockClaimCount))
}

// ValidatorHasClaimedBlockLimit reports whether the validator has reached
// the per-key block claim limit under its currently registered key. A
// validator with no recorded state, or whose record is under a stale key,
// has not reached the limit.
func (s *ConsensusState) ValidatorHasClaimedBlockLimit(info ValidatorInfo, settings *Settings) bool {
	vs, ok := s.validators[info.ID]
	if !ok {
		return false
	}
	if vs.PoetPublicKey != info.SignupInfo.PoetPublicKey {
		return false
	}
	return vs.KeyBlockClaimCount >= settings.KeyBlockClaimLimit()
}

// Clone returns a deep copy, for handing to another validation task.
func (s *ConsensusState) Clone() *ConsensusState {
	cpy := &ConsensusState{
		aggregateLocalMean:   s.aggregateLocalMean,
		totalBlockClaimCount: s.totalBlockClaimCount,
		validators:           make(map[string]ValidatorState, len(s.validators)),
	}
	maps.Copy(cpy.validators, s.validators)
	return cpy
}

// String renders a compact summary for log lines. It is not a serialization
// format.
func (s *ConsensusState) String() string {
	ids := make([]string, 0, len(s.validators))
	for id := range s.validators {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	fmt.Fprintf(&b, "ALM=%.4f, TBCC=%d, V=[", s.aggregateLocalMean, s.totalBlockClaimCount)
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		vs := s.validators[id]
		fmt.Fprintf(&b, "%s: {KBCC=%d, PPK=%s, TBCC=%d}",
			prefix(id, 8),
			vs.KeyBlockClaimCount,
			prefix(vs.PoetPublicKey, 8),
			vs.TotalBlockClaimCount)
	}
	b.WriteString("]")
	return b.String()
}

// prefix returns at most the first n bytes of s.
func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// abbrev returns an abbreviated presentation of a long identifier.
func abbrev(s string) string {
	if len(s) <= 16 {
		return s
	}
	return s[:8] + "…" + s[len(s)-8:]
}
