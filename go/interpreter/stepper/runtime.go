// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package stepper implements an EVM interpreter executing one instruction
// at a time. Nested calls and creates are not executed recursively but
// surface as interrupts to the caller, which is expected to run the nested
// frame and deliver its result back. The complete state of a runtime can
// be encoded and restored between any two steps.
package stepper

import (
	"github.com/Fantom-foundation/Loom/go/loom"
)

// ControlKind enumerates the outcomes of a single step.
type ControlKind byte

const (
	// ControlContinue indicates that the runtime can be stepped further.
	ControlContinue ControlKind = iota
	// ControlExit indicates that the runtime finished.
	ControlExit
	// ControlCall requests the execution of a nested call frame.
	ControlCall
	// ControlCreate requests the execution of a nested create frame.
	ControlCreate
)

// Control is the result of a single step.
type Control struct {
	Kind   ControlKind
	Reason loom.ExitReason       // < set for ControlExit
	Call   *loom.CallInterrupt   // < set for ControlCall
	Create *loom.CreateInterrupt // < set for ControlCreate
}

var continueControl = Control{Kind: ControlContinue}

type status byte

const (
	statusRunning status = iota
	statusExited
)

type trapKind byte

const (
	trapCall trapKind = iota + 1
	trapCreate
)

// pendingTrap records the nested frame a runtime is waiting for.
type pendingTrap struct {
	Kind      trapKind
	OutOffset uint64 // < memory range receiving the output of a call
	OutSize   uint64
}

// Runtime is the execution state of a single frame.
type Runtime struct {
	// Inputs
	code        loom.Code
	input       loom.Data
	context     loom.Context
	static      bool
	memoryLimit uint64

	// Execution state
	pc         uint64
	stack      *stack
	memory     *Memory
	returnData loom.Data // < the result of the last nested call
	output     loom.Data // < the data passed to RETURN or REVERT
	status     status
	reason     loom.ExitReason
	pending    *pendingTrap

	// Derived from code, not encoded
	jumps jumpTable
}

// New creates a runtime executing the given code.
func New(code loom.Code, input loom.Data, context loom.Context, static bool, config loom.Config) *Runtime {
	return &Runtime{
		code:        code,
		input:       input,
		context:     context,
		static:      static,
		memoryLimit: config.MemoryLimit,
		stack:       newStack(),
		memory:      NewMemory(config.MemoryLimit),
	}
}

func (r *Runtime) Context() loom.Context {
	return r.context
}

func (r *Runtime) Code() loom.Code {
	return r.code
}

func (r *Runtime) Static() bool {
	return r.static
}

// PC returns the position of the next instruction to be executed.
func (r *Runtime) PC() uint64 {
	return r.pc
}

// Output returns the data the frame returned or reverted with.
func (r *Runtime) Output() loom.Data {
	return r.output
}

// Exited returns the exit reason if the runtime finished.
func (r *Runtime) Exited() (loom.ExitReason, bool) {
	return r.reason, r.status == statusExited
}

// Awaiting reports whether the runtime waits for a nested result.
func (r *Runtime) Awaiting() bool {
	return r.pending != nil
}

// Release hands pooled resources back. The runtime must not be stepped
// afterwards, while its output remains accessible.
func (r *Runtime) Release() {
	if r.stack != nil {
		returnStack(r.stack)
		r.stack = nil
	}
	r.memory = nil
}

// Step executes the instruction at the current program counter.
func (r *Runtime) Step(h loom.Handler) Control {
	if r.status == statusExited {
		return Control{Kind: ControlExit, Reason: r.reason}
	}
	if r.pending != nil {
		return r.exit(loom.ExitFatal(loom.UnhandledInterrupt))
	}
	if r.pc >= uint64(len(r.code)) {
		return r.exit(loom.ExitSucceed(loom.Stopped))
	}

	op := OpCode(r.code[r.pc])
	if !op.IsDefined() {
		return r.exit(exitReasonOf(errInvalidCode))
	}
	if err := checkStackLimits(r.stack.len(), op); err != nil {
		return r.exit(exitReasonOf(err))
	}
	control, err := r.execute(op, h)
	if err != nil {
		return r.exit(exitReasonOf(err))
	}
	return control
}

func (r *Runtime) exit(reason loom.ExitReason) Control {
	r.status = statusExited
	r.reason = reason
	return Control{Kind: ControlExit, Reason: reason}
}

// SaveReturnValue delivers the result of a nested call requested by the
// last step. The output is copied into the memory range named by the call
// instruction for succeeded and reverted calls.
func (r *Runtime) SaveReturnValue(reason loom.ExitReason, data loom.Data) (Control, error) {
	if r.status == statusExited || r.pending == nil || r.pending.Kind != trapCall {
		return Control{}, ErrNotAwaiting
	}
	trap := r.pending
	r.pending = nil
	r.returnData = data

	result := r.stack.pushUndefined()
	result.Clear()
	switch reason.Class {
	case loom.ClassSucceed, loom.ClassRevert:
		if size := min(trap.OutSize, uint64(len(data))); size > 0 {
			if err := r.memory.set(trap.OutOffset, data[:size]); err != nil {
				return r.exit(exitReasonOf(err)), nil
			}
		}
		if reason.IsSucceed() {
			result.SetOne()
		}
	case loom.ClassFatal:
		return r.exit(reason), nil
	}
	return continueControl, nil
}

// SaveCreatedAddress delivers the result of a nested create requested by
// the last step.
func (r *Runtime) SaveCreatedAddress(reason loom.ExitReason, address *loom.Address, data loom.Data) (Control, error) {
	if r.status == statusExited || r.pending == nil || r.pending.Kind != trapCreate {
		return Control{}, ErrNotAwaiting
	}
	r.pending = nil

	result := r.stack.pushUndefined()
	result.Clear()
	r.returnData = nil
	switch reason.Class {
	case loom.ClassSucceed:
		if address != nil {
			result.SetBytes20(address[:])
		}
	case loom.ClassRevert:
		r.returnData = data
	case loom.ClassFatal:
		return r.exit(reason), nil
	}
	return continueControl, nil
}
