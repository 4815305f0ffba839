// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package machine runs an execution as a stack of interpreter frames, one
// per active call or create, on top of a nested substate. Nested calls
// never recurse on the Go stack: each frame traps out of the interpreter
// and the machine pushes the nested frame. This keeps the entire execution
// in plain data, so it can be persisted after any step and resumed later.
package machine

import (
	"fmt"
	"math"

	"github.com/Fantom-foundation/Loom/go/common/logging"
	"github.com/Fantom-foundation/Loom/go/interpreter/stepper"
	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/Fantom-foundation/Loom/go/state"
	"github.com/rs/zerolog"
)

const (
	// ErrMachineActive is returned when starting an execution on a
	// machine that is still running one.
	ErrMachineActive = loom.ConstError("machine is active")
	// ErrMachineEmpty is returned when persisting a machine without frames.
	ErrMachineEmpty = loom.ConstError("machine has no active frames")
	// ErrCreateFailed is returned when a top-level create is rejected
	// before running the init code.
	ErrCreateFailed = loom.ConstError("create failed")
)

type frameKind byte

const (
	frameCall frameKind = iota
	frameCreate
)

func (k frameKind) String() string {
	if k == frameCreate {
		return "create"
	}
	return "call"
}

// frame is one runtime plus the reason it was started for. Create frames
// remember the address receiving the deployed code.
type frame struct {
	kind    frameKind
	target  loom.Address
	runtime *stepper.Runtime
}

// Machine drives the frames of one execution.
type Machine struct {
	executor *executor
	frames   []*frame
	logger   zerolog.Logger
	steps    uint64

	// result of the last finished execution
	finished    bool
	reason      loom.ExitReason
	returnValue loom.Data
}

// New creates an empty machine executing against the given backend.
func New(backend loom.Backend, config loom.Config, logger zerolog.Logger) *Machine {
	st := state.NewExecutorState(backend, state.NewSubstate(math.MaxUint64, false))
	return &Machine{
		executor: newExecutor(st, config, logger),
		logger:   logger,
	}
}

// Active reports whether the machine has frames to step.
func (m *Machine) Active() bool {
	return len(m.frames) > 0
}

// Finished returns the exit reason of the last completed execution.
func (m *Machine) Finished() (loom.ExitReason, bool) {
	return m.reason, m.finished
}

func (m *Machine) state() *state.ExecutorState {
	return m.executor.state
}

func (m *Machine) config() loom.Config {
	return m.executor.config
}

func (m *Machine) top() *frame {
	return m.frames[len(m.frames)-1]
}

func (m *Machine) push(f *frame) {
	m.frames = append(m.frames, f)
	m.logger.Trace().
		Stringer(logging.FieldFrameKind, f.kind).
		Stringer(logging.FieldAddress, f.runtime.Context().Address).
		Int(logging.FieldDepth, len(m.frames)-1).
		Msg("Frame entered")
}

func (m *Machine) pop() *frame {
	f := m.top()
	m.frames[len(m.frames)-1] = nil
	m.frames = m.frames[:len(m.frames)-1]
	f.runtime.Release()
	return f
}

func (m *Machine) start() error {
	if m.Active() {
		return ErrMachineActive
	}
	m.finished = false
	m.reason = loom.ExitReason{}
	m.returnValue = nil
	return nil
}

// CallBegin starts a call of the code at target.
func (m *Machine) CallBegin(caller, target loom.Address, input loom.Data, gasLimit uint64) error {
	if err := m.start(); err != nil {
		return err
	}
	st := m.state()
	st.IncNonce(caller)
	st.Enter(gasLimit, false)
	st.Touch(target)

	context := loom.Context{Address: target, Caller: caller}
	runtime := stepper.New(st.Code(target), input, context, false, m.config())
	m.push(&frame{kind: frameCall, runtime: runtime})
	return nil
}

// CreateBegin starts the deployment of a contract created by caller using
// its nonce. If the create is rejected, the nonce increment of the caller
// is kept, no frame is started and the returned error wraps
// ErrCreateFailed. The rejection is reported by Finished.
func (m *Machine) CreateBegin(caller loom.Address, code loom.Code, gasLimit uint64) error {
	if err := m.start(); err != nil {
		return err
	}
	st := m.state()
	st.Enter(math.MaxUint64, false)

	scheme := loom.CreateScheme{Kind: loom.CreateLegacy, Caller: caller}
	feedback := m.executor.Create(caller, scheme, loom.Value{}, code, &gasLimit)
	if feedback.Trap == nil {
		if err := st.ExitCommit(); err != nil {
			return err
		}
		m.logger.Debug().Stringer(logging.FieldReason, feedback.Reason).Msg("Create rejected")
		m.finish(feedback.Reason, frameCreate, nil)
		return fmt.Errorf("%w: %v", ErrCreateFailed, feedback.Reason)
	}

	trap := feedback.Trap
	m.prepareCreateTarget(trap.Address)
	runtime := stepper.New(trap.InitCode, nil, trap.Context, false, m.config())
	m.push(&frame{kind: frameCreate, target: trap.Address, runtime: runtime})
	return nil
}

func (m *Machine) prepareCreateTarget(address loom.Address) {
	st := m.state()
	st.Touch(address)
	st.ResetStorage(address)
	if m.config().CreateIncreaseNonce {
		st.IncNonce(address)
	}
}

// Step executes a single instruction of the top frame, including the
// handling of nested frames it starts or finishes. The result is true if
// the execution terminated with the returned reason.
func (m *Machine) Step() (loom.ExitReason, bool) {
	if !m.Active() {
		if m.finished {
			return m.reason, true
		}
		return loom.ExitFatal(loom.NotSupported), true
	}

	m.steps++
	control := m.top().runtime.Step(m.executor)
	for {
		switch control.Kind {
		case stepper.ControlContinue:
			return loom.ExitReason{}, false
		case stepper.ControlCall:
			control = m.enterCall(control.Call)
		case stepper.ControlCreate:
			control = m.enterCreate(control.Create)
		case stepper.ControlExit:
			var done bool
			control, done = m.exitFrame(control.Reason)
			if done {
				return m.reason, true
			}
		default:
			m.abort(loom.ExitFatal(loom.NotSupported))
			return m.reason, true
		}
	}
}

func (m *Machine) enterCall(call *loom.CallInterrupt) stepper.Control {
	st := m.state()
	st.Enter(gasHint(call.TargetGas), call.IsStatic)
	st.Touch(call.Context.Address)

	if call.Transfer != nil {
		if err := st.Transfer(*call.Transfer); err != nil {
			return m.rejectNested(frameCall, loom.ExitError(loom.OutOfFund))
		}
	}

	runtime := stepper.New(st.Code(call.CodeAddress), call.Input, call.Context, st.IsStatic(), m.config())
	m.push(&frame{kind: frameCall, runtime: runtime})
	return stepper.Control{Kind: stepper.ControlContinue}
}

func (m *Machine) enterCreate(create *loom.CreateInterrupt) stepper.Control {
	st := m.state()
	st.Enter(math.MaxUint64, false)
	m.prepareCreateTarget(create.Address)

	if value := create.Context.ApparentValue; !value.IsZero() {
		transfer := loom.Transfer{Source: create.Context.Caller, Target: create.Address, Value: value}
		if err := st.Transfer(transfer); err != nil {
			return m.rejectNested(frameCreate, loom.ExitError(loom.OutOfFund))
		}
	}

	runtime := stepper.New(create.InitCode, nil, create.Context, false, m.config())
	m.push(&frame{kind: frameCreate, target: create.Address, runtime: runtime})
	return stepper.Control{Kind: stepper.ControlContinue}
}

// rejectNested drops the level entered for a nested frame that could not
// be started and reports the failure to the current frame.
func (m *Machine) rejectNested(kind frameKind, reason loom.ExitReason) stepper.Control {
	if err := m.state().ExitRevert(); err != nil {
		m.logger.Error().Err(err).Msg("Failed to revert rejected frame")
		m.abort(loom.ExitFatal(loom.Other))
		return stepper.Control{Kind: stepper.ControlExit, Reason: m.reason}
	}
	return m.deliver(kind, reason, nil, nil)
}

// exitFrame finishes the top frame and hands its result to the frame
// below. It returns true if the execution terminated.
func (m *Machine) exitFrame(reason loom.ExitReason) (stepper.Control, bool) {
	if !m.Active() {
		// the frame aborted while handling a delivery
		return stepper.Control{}, true
	}
	st := m.state()
	current := m.top()
	output := current.runtime.Output()

	var created *loom.Address
	var err error
	switch reason.Class {
	case loom.ClassSucceed:
		if current.kind == frameCreate {
			if limit := m.config().CreateContractLimit; limit > 0 && len(output) > limit {
				reason = loom.ExitError(loom.CreateContractLimit)
				err = st.ExitDiscard()
				break
			}
			if err = st.ExitCommit(); err == nil {
				st.SetCode(current.target, loom.Code(output))
				target := current.target
				created = &target
			}
		} else {
			err = st.ExitCommit()
		}
	case loom.ClassRevert:
		err = st.ExitRevert()
	default:
		err = st.ExitDiscard()
	}
	m.pop()
	m.logger.Trace().
		Stringer(logging.FieldFrameKind, current.kind).
		Stringer(logging.FieldReason, reason).
		Int(logging.FieldDepth, len(m.frames)).
		Msg("Frame exited")

	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to exit substate")
		m.abort(loom.ExitFatal(loom.Other))
		return stepper.Control{}, true
	}

	if !m.Active() {
		m.finish(reason, current.kind, output)
		return stepper.Control{}, true
	}
	return m.deliver(current.kind, reason, created, output), false
}

// deliver passes the result of a nested frame to the top frame.
func (m *Machine) deliver(kind frameKind, reason loom.ExitReason, created *loom.Address, output loom.Data) stepper.Control {
	parent := m.top().runtime
	var control stepper.Control
	var err error
	if kind == frameCreate {
		control, err = parent.SaveCreatedAddress(reason, created, output)
	} else {
		control, err = parent.SaveReturnValue(reason, output)
	}
	if err != nil {
		m.logger.Error().Err(err).Msg("Result was not accepted")
		m.abort(loom.ExitFatal(loom.NotSupported))
		return stepper.Control{Kind: stepper.ControlExit, Reason: m.reason}
	}
	return control
}

// abort drops all frames and their levels.
func (m *Machine) abort(reason loom.ExitReason) {
	m.logger.Debug().Stringer(logging.FieldReason, reason).Msg("Execution aborted")
	for m.Active() {
		m.pop()
		if err := m.state().ExitDiscard(); err != nil {
			m.logger.Error().Err(err).Msg("Failed to discard substate")
		}
	}
	m.finish(reason, frameCall, nil)
}

func (m *Machine) finish(reason loom.ExitReason, kind frameKind, output loom.Data) {
	m.finished = true
	m.reason = reason
	m.returnValue = nil
	if kind == frameCall {
		m.returnValue = output
	}
	m.logger.Debug().Stringer(logging.FieldReason, reason).Msg("Execution finished")
}

// Execute steps the machine until the execution terminates.
func (m *Machine) Execute() loom.ExitReason {
	for {
		if reason, done := m.Step(); done {
			return reason
		}
	}
}

// ExecuteN performs at most n steps. The result is true if the execution
// terminated within them.
func (m *Machine) ExecuteN(n uint64) (loom.ExitReason, bool) {
	for i := uint64(0); i < n; i++ {
		if reason, done := m.Step(); done {
			return reason, true
		}
	}
	return loom.ExitReason{}, false
}

// Steps is the number of steps performed since the machine was created or
// restored.
func (m *Machine) Steps() uint64 {
	return m.steps
}

// ReturnValue is the output of the top frame, or of the terminated
// execution. Creates have no return value.
func (m *Machine) ReturnValue() loom.Data {
	if !m.Active() {
		return m.returnValue
	}
	if f := m.top(); f.kind == frameCall {
		return f.runtime.Output()
	}
	return nil
}

// Deconstruct returns the state changes and logs of a terminated
// execution.
func (m *Machine) Deconstruct() ([]loom.Apply, []loom.Log, error) {
	if m.Active() {
		return nil, nil, ErrMachineActive
	}
	return m.state().Deconstruct()
}

func gasHint(gas *uint64) uint64 {
	if gas == nil {
		return math.MaxUint64
	}
	return *gas
}
