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
	"fmt"
	"io"

	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// runtimeState is the serializable form of a Runtime.
type runtimeState struct {
	Code        []byte
	Input       []byte
	Context     loom.Context
	Static      bool
	MemoryLimit uint64
	PC          uint64
	Stack       [][32]byte
	Memory      []byte
	ReturnData  []byte
	Output      []byte
	Exited      bool
	Reason      loom.ExitReason
	Pending     *pendingTrap `rlp:"nil"`
}

// EncodeRLP implements rlp.Encoder.
func (r *Runtime) EncodeRLP(w io.Writer) error {
	if r.stack == nil {
		return fmt.Errorf("cannot encode released runtime: %w", ErrUnsupportedState)
	}
	state := runtimeState{
		Code:        r.code,
		Input:       r.input,
		Context:     r.context,
		Static:      r.static,
		MemoryLimit: r.memoryLimit,
		PC:          r.pc,
		Stack:       make([][32]byte, r.stack.len()),
		Memory:      r.memory.store,
		ReturnData:  r.returnData,
		Output:      r.output,
		Exited:      r.status == statusExited,
		Reason:      r.reason,
		Pending:     r.pending,
	}
	for i := range state.Stack {
		state.Stack[i] = r.stack.get(i).Bytes32()
	}
	return rlp.Encode(w, &state)
}

// DecodeRLP implements rlp.Decoder.
func (r *Runtime) DecodeRLP(s *rlp.Stream) error {
	var state runtimeState
	if err := s.Decode(&state); err != nil {
		return err
	}
	if len(state.Stack) > maxStackSize {
		return fmt.Errorf("stack of %d elements: %w", len(state.Stack), ErrUnsupportedState)
	}
	if uint64(len(state.Memory)) > state.MemoryLimit || len(state.Memory)%32 != 0 {
		return fmt.Errorf("memory of %d bytes: %w", len(state.Memory), ErrUnsupportedState)
	}
	if p := state.Pending; p != nil {
		if p.Kind != trapCall && p.Kind != trapCreate {
			return fmt.Errorf("pending interrupt of kind %d: %w", p.Kind, ErrUnsupportedState)
		}
		if p.OutSize > 0 && (p.OutOffset+p.OutSize < p.OutOffset || p.OutOffset+p.OutSize > uint64(len(state.Memory))) {
			return fmt.Errorf("pending output range outside memory: %w", ErrUnsupportedState)
		}
		if len(state.Stack) == maxStackSize {
			return fmt.Errorf("no room for pending result: %w", ErrUnsupportedState)
		}
	}

	*r = Runtime{
		code:        state.Code,
		input:       state.Input,
		context:     state.Context,
		static:      state.Static,
		memoryLimit: state.MemoryLimit,
		pc:          state.PC,
		stack:       newStack(),
		memory:      &Memory{store: state.Memory, limit: state.MemoryLimit},
		returnData:  state.ReturnData,
		output:      state.Output,
		reason:      state.Reason,
		pending:     state.Pending,
	}
	if state.Exited {
		r.status = statusExited
	}
	for i := range state.Stack {
		r.stack.push(new(uint256.Int).SetBytes32(state.Stack[i][:]))
	}
	return nil
}
