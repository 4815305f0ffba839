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
	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/holiman/uint256"
)

// Memory is the byte-addressed scratch memory of a runtime. It grows in
// multiples of 32 bytes and is bounded by a fixed limit since no gas is
// charged for its expansion.
type Memory struct {
	store []byte
	limit uint64
}

func NewMemory(limit uint64) *Memory {
	return &Memory{limit: limit}
}

func (m *Memory) length() uint64 {
	return uint64(len(m.store))
}

// expandMemory grows the memory to cover the given range. Nothing happens
// for empty ranges, independently of the offset.
func (m *Memory) expandMemory(offset, size uint64) error {
	if size == 0 {
		return nil
	}
	needed := offset + size
	if needed < offset {
		return errOverflow
	}
	// The limit applies to the word-aligned size.
	words := loom.SizeInWords(needed)
	if words > m.limit/32 {
		return errMemoryLimit
	}
	if m.length() < needed {
		m.store = append(m.store, make([]byte, words*32-m.length())...)
	}
	return nil
}

// getSlice obtains a slice of size bytes from the memory at the given offset.
// The returned slice is backed by the memory's internal data and is only
// valid until the next operation that may resize the memory.
func (m *Memory) getSlice(offset, size uint64) ([]byte, error) {
	if err := m.expandMemory(offset, size); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}
	return m.store[offset : offset+size], nil
}

// set writes the given data at the given offset, expanding as needed.
func (m *Memory) set(offset uint64, data []byte) error {
	target, err := m.getSlice(offset, uint64(len(data)))
	if err != nil {
		return err
	}
	copy(target, data)
	return nil
}

func (m *Memory) setByte(offset uint64, value byte) error {
	target, err := m.getSlice(offset, 1)
	if err != nil {
		return err
	}
	target[0] = value
	return nil
}

func (m *Memory) setWord(offset uint64, value *uint256.Int) error {
	target, err := m.getSlice(offset, 32)
	if err != nil {
		return err
	}
	value.WriteToSlice(target)
	return nil
}

// readWord reads a 32 byte word from the memory at the given offset into
// the provided target, expanding the memory as needed.
func (m *Memory) readWord(offset uint64, target *uint256.Int) error {
	data, err := m.getSlice(offset, 32)
	if err != nil {
		return err
	}
	target.SetBytes32(data)
	return nil
}
