// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package stepper

import (
	"errors"

	"github.com/Fantom-foundation/Loom/go/loom"
)

const (
	errInvalidCode           = loom.ConstError("invalid code")
	errDesignatedInvalid     = loom.ConstError("designated invalid instruction")
	errInvalidJump           = loom.ConstError("invalid jump destination")
	errOverflow              = loom.ConstError("offset or size overflow")
	errMemoryLimit           = loom.ConstError("memory limit exceeded")
	errReturnDataOutOfBounds = loom.ConstError("return data out of bounds")
	errStackOverflow         = loom.ConstError("stack overflow")
	errStackUnderflow        = loom.ConstError("stack underflow")
	errWriteProtection       = loom.ConstError("write protection")

	// ErrNotAwaiting is returned when a nested result is delivered to a
	// runtime that is not waiting for one of the given kind.
	ErrNotAwaiting = loom.ConstError("runtime is not awaiting a nested result")
	// ErrUnsupportedState is returned when decoding a runtime that carries
	// inconsistent data.
	ErrUnsupportedState = loom.ConstError("unsupported runtime state")
)

var exitCodes = map[error]loom.ExitCode{
	errInvalidCode:           loom.InvalidCode,
	errDesignatedInvalid:     loom.DesignatedInvalid,
	errInvalidJump:           loom.InvalidJump,
	errOverflow:              loom.InvalidRange,
	errMemoryLimit:           loom.InvalidRange,
	errReturnDataOutOfBounds: loom.OutOfOffset,
	errStackOverflow:         loom.StackOverflow,
	errStackUnderflow:        loom.StackUnderflow,
	errWriteProtection:       loom.WriteProtection,
}

// exitReasonOf maps an instruction failure to the reason the frame exits
// with. Failures not originating from the instruction set are fatal.
func exitReasonOf(err error) loom.ExitReason {
	var constErr loom.ConstError
	if errors.As(err, &constErr) {
		if code, found := exitCodes[constErr]; found {
			return loom.ExitError(code)
		}
	}
	return loom.ExitFatal(loom.Other)
}
