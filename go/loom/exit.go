// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package loom

import "fmt"

// ExitClass groups exit reasons by the way the state changes of the
// exiting frame are to be treated.
type ExitClass byte

const (
	// ClassSucceed commits the state changes of the frame.
	ClassSucceed ExitClass = iota
	// ClassRevert drops the state changes but keeps the return data.
	ClassRevert
	// ClassError drops the state changes and the return data.
	ClassError
	// ClassFatal aborts the entire execution.
	ClassFatal
)

func (c ExitClass) String() string {
	switch c {
	case ClassSucceed:
		return "succeed"
	case ClassRevert:
		return "revert"
	case ClassError:
		return "error"
	case ClassFatal:
		return "fatal"
	}
	return fmt.Sprintf("ExitClass(%d)", c)
}

// ExitCode refines an exit class.
type ExitCode byte

const (
	Stopped ExitCode = iota
	Returned
	Suicided
	Reverted
	StackUnderflow
	StackOverflow
	InvalidJump
	InvalidRange
	DesignatedInvalid
	InvalidCode
	OutOfOffset
	OutOfFund
	CallTooDeep
	CreateCollision
	CreateContractLimit
	WriteProtection
	NotSupported
	UnhandledInterrupt
	Other
)

var exitCodeNames = map[ExitCode]string{
	Stopped:             "stopped",
	Returned:            "returned",
	Suicided:            "suicided",
	Reverted:            "reverted",
	StackUnderflow:      "stack_underflow",
	StackOverflow:       "stack_overflow",
	InvalidJump:         "invalid_jump",
	InvalidRange:        "invalid_range",
	DesignatedInvalid:   "designated_invalid",
	InvalidCode:         "invalid_code",
	OutOfOffset:         "out_of_offset",
	OutOfFund:           "out_of_fund",
	CallTooDeep:         "call_too_deep",
	CreateCollision:     "create_collision",
	CreateContractLimit: "create_contract_limit",
	WriteProtection:     "write_protection",
	NotSupported:        "not_supported",
	UnhandledInterrupt:  "unhandled_interrupt",
	Other:               "other",
}

func (c ExitCode) String() string {
	if name, found := exitCodeNames[c]; found {
		return name
	}
	return fmt.Sprintf("ExitCode(%d)", c)
}

// ExitReason describes why a frame or an entire execution terminated.
type ExitReason struct {
	Class ExitClass
	Code  ExitCode
}

func ExitSucceed(code ExitCode) ExitReason {
	return ExitReason{Class: ClassSucceed, Code: code}
}

func ExitRevert() ExitReason {
	return ExitReason{Class: ClassRevert, Code: Reverted}
}

func ExitError(code ExitCode) ExitReason {
	return ExitReason{Class: ClassError, Code: code}
}

func ExitFatal(code ExitCode) ExitReason {
	return ExitReason{Class: ClassFatal, Code: code}
}

func (r ExitReason) IsSucceed() bool {
	return r.Class == ClassSucceed
}

func (r ExitReason) IsRevert() bool {
	return r.Class == ClassRevert
}

func (r ExitReason) IsError() bool {
	return r.Class == ClassError
}

func (r ExitReason) IsFatal() bool {
	return r.Class == ClassFatal
}

func (r ExitReason) String() string {
	return fmt.Sprintf("%v(%v)", r.Class, r.Code)
}
