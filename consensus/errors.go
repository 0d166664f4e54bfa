// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConstructionError indicates an attempt to build consensus state that
// violates one of its invariants. It is never partially applied.
type ConstructionError struct {
	msg string
}

func newConstructionError(format string, args ...interface{}) *ConstructionError {
	return &ConstructionError{msg: fmt.Sprintf(format, args...)}
}

func (e *ConstructionError) Error() string {
	return e.msg
}

// IsConstructionError checks if the error indicates an invariant violation
// at construction time.
func IsConstructionError(err error) bool {
	var target *ConstructionError
	return errors.As(err, &target)
}

// ValidationError indicates malformed or semantically invalid serialized
// consensus state. It always reports the originating cause.
type ValidationError struct {
	msg   string
	cause error
}

func newValidationError(cause error, format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...), cause: cause}
}

func (e *ValidationError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

// IsValidationError checks if the error indicates rejected serialized state.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
