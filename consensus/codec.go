// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
)

// The wire format is a CBOR map with three entries:
//
//	"aggregate_local_mean"    float
//	"total_block_claim_count" integer
//	"_validators"             map of validator ID to a 3-element array
//
// Validator records are encoded structurally, not nominally: position 0 is
// key_block_claim_count, position 1 is poet_public_key, position 2 is
// total_block_claim_count. Changing the order breaks compatibility with
// previously persisted state.
//
// Counts must be CBOR integers; float-encoded counts are rejected even when
// lossless. The aggregate accepts an integer encoding. No correct encoder
// emits either variant, this only matters for forged buffers.
type stateEnvelope struct {
	AggregateLocalMean   *float64                           `cbor:"aggregate_local_mean"`
	TotalBlockClaimCount *int64                             `cbor:"total_block_claim_count"`
	Validators           *map[interface{}]validatorEnvelope `cbor:"_validators"`
}

type validatorEnvelope struct {
	_ struct{} `cbor:",toarray"`

	KeyBlockClaimCount   int64
	PoetPublicKey        string
	TotalBlockClaimCount int64
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	opts := cbor.CanonicalEncOptions()
	// keep floats at full width, older decoders reading the chain may not
	// handle half-precision
	opts.ShortestFloat = cbor.ShortestFloatNone

	var err error
	if encMode, err = opts.EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = (cbor.DecOptions{}).DecMode(); err != nil {
		panic(err)
	}
}

// MarshalBinary encodes the state into its canonical byte form. Encoding a
// valid in-memory state does not fail; the error return satisfies
// encoding.BinaryMarshaler.
func (s *ConsensusState) MarshalBinary() ([]byte, error) {
	validators := make(map[interface{}]validatorEnvelope, len(s.validators))
	for id, vs := range s.validators {
		validators[id] = validatorEnvelope{
			KeyBlockClaimCount:   int64(vs.KeyBlockClaimCount),
			PoetPublicKey:        vs.PoetPublicKey,
			TotalBlockClaimCount: int64(vs.TotalBlockClaimCount),
		}
	}

	alm := s.aggregateLocalMean
	tbcc := int64(s.totalBlockClaimCount)
	return encMode.Marshal(&stateEnvelope{
		AggregateLocalMean:   &alm,
		TotalBlockClaimCount: &tbcc,
		Validators:           &validators,
	})
}

// UnmarshalBinary decodes and validates serialized consensus state, replacing
// the receiver's contents wholesale. The bytes may come from a different,
// possibly buggy or malicious, process: every field is re-validated against
// the same invariants enforced on construction, and the first violation
// fails the whole call with a ValidationError. On failure the receiver is
// left untouched.
func (s *ConsensusState) UnmarshalBinary(data []byte) error {
	state, err := decodeState(data)
	if err != nil {
		metricStateDecodeFailure().Add(1)
		return err
	}
	*s = *state
	return nil
}

func decodeState(data []byte) (*ConsensusState, error) {
	var env stateEnvelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return nil, newValidationError(err, "buffer is not a valid consensus state serialization")
	}

	if env.AggregateLocalMean == nil {
		return nil, newValidationError(nil, "aggregate_local_mean is missing")
	}
	aggregateLocalMean := *env.AggregateLocalMean
	if math.IsInf(aggregateLocalMean, 0) || math.IsNaN(aggregateLocalMean) || aggregateLocalMean < 0 {
		return nil, newValidationError(nil, "aggregate_local_mean (%v) is invalid", aggregateLocalMean)
	}

	if env.TotalBlockClaimCount == nil {
		return nil, newValidationError(nil, "total_block_claim_count is missing")
	}
	if *env.TotalBlockClaimCount < 0 {
		return nil, newValidationError(nil, "total_block_claim_count (%d) is invalid", *env.TotalBlockClaimCount)
	}

	if env.Validators == nil {
		return nil, newValidationError(nil, "_validators is missing")
	}

	validators := make(map[string]ValidatorState, len(*env.Validators))
	for key, ve := range *env.Validators {
		vs, err := ve.toValidatorState()
		if err != nil {
			return nil, err
		}
		validators[keyString(key)] = vs
	}

	return &ConsensusState{
		aggregateLocalMean:   aggregateLocalMean,
		totalBlockClaimCount: uint64(*env.TotalBlockClaimCount),
		validators:           validators,
	}, nil
}

func (ve *validatorEnvelope) toValidatorState() (ValidatorState, error) {
	if ve.KeyBlockClaimCount < 0 {
		return ValidatorState{}, newValidationError(nil, "key_block_claim_count (%d) is invalid", ve.KeyBlockClaimCount)
	}
	if ve.TotalBlockClaimCount < 0 {
		return ValidatorState{}, newValidationError(nil, "total_block_claim_count (%d) is invalid", ve.TotalBlockClaimCount)
	}
	vs, err := NewValidatorState(
		uint64(ve.KeyBlockClaimCount),
		ve.PoetPublicKey,
		uint64(ve.TotalBlockClaimCount),
	)
	if err != nil {
		return ValidatorState{}, newValidationError(err, "validator state is invalid")
	}
	return vs, nil
}

// keyString coerces a decoded map key to its string form.
func keyString(key interface{}) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprint(key)
}
