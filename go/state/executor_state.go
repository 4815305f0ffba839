// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

import (
	"bytes"
	"slices"

	"github.com/Fantom-foundation/Loom/go/loom"
	"golang.org/x/exp/maps"
)

// ExecutorState is a substate layered over a backend. Reads consult the
// pending changes first and fall back to the backend.
type ExecutorState struct {
	backend  loom.Backend
	substate *Substate
}

func NewExecutorState(backend loom.Backend, substate *Substate) *ExecutorState {
	return &ExecutorState{backend: backend, substate: substate}
}

func (s *ExecutorState) Backend() loom.Backend {
	return s.backend
}

func (s *ExecutorState) Substate() *Substate {
	return s.substate
}

func (s *ExecutorState) Depth() (int, bool) {
	return s.substate.Depth()
}

func (s *ExecutorState) IsStatic() bool {
	return s.substate.IsStatic()
}

func (s *ExecutorState) Enter(gasLimit uint64, isStatic bool) {
	s.substate.Enter(gasLimit, isStatic)
}

func (s *ExecutorState) ExitCommit() error {
	return s.substate.ExitCommit()
}

func (s *ExecutorState) ExitRevert() error {
	return s.substate.ExitRevert()
}

func (s *ExecutorState) ExitDiscard() error {
	return s.substate.ExitDiscard()
}

func (s *ExecutorState) Basic(address loom.Address) loom.Basic {
	if basic, found := s.substate.knownBasic(address); found {
		return basic
	}
	return s.backend.Basic(address)
}

func (s *ExecutorState) Code(address loom.Address) loom.Code {
	if code, found := s.substate.knownCode(address); found {
		return code
	}
	return s.backend.Code(address)
}

func (s *ExecutorState) Storage(address loom.Address, key loom.Key) loom.Word {
	if value, found := s.substate.knownStorage(address, key); found {
		return value
	}
	return s.backend.Storage(address, key)
}

// OriginalStorage returns the value of the slot before the execution.
func (s *ExecutorState) OriginalStorage(address loom.Address, key loom.Key) loom.Word {
	if s.substate.knownReset(address) {
		return loom.Word{}
	}
	return s.backend.Storage(address, key)
}

// Exists reports whether the account has any recorded state.
func (s *ExecutorState) Exists(address loom.Address) bool {
	if s.substate.knownAccount(address) != nil {
		return true
	}
	return s.backend.Exists(address)
}

// IsEmpty reports whether the account has no balance, nonce, or code.
func (s *ExecutorState) IsEmpty(address loom.Address) bool {
	basic := s.Basic(address)
	return basic.Balance.IsZero() && basic.Nonce == 0 && len(s.Code(address)) == 0
}

func (s *ExecutorState) Deleted(address loom.Address) bool {
	return s.substate.deleted(address)
}

func (s *ExecutorState) IncNonce(address loom.Address) {
	s.substate.accountMut(address, s.backend).basic.Nonce++
}

func (s *ExecutorState) SetStorage(address loom.Address, key loom.Key, value loom.Word) {
	s.substate.setStorage(address, key, value)
}

// ResetStorage clears the persisted storage of the account.
func (s *ExecutorState) ResetStorage(address loom.Address) {
	s.substate.resetStorage(address, s.backend)
}

func (s *ExecutorState) Log(address loom.Address, topics []loom.Hash, data loom.Data) {
	s.substate.log(address, topics, data)
}

func (s *ExecutorState) SetDeleted(address loom.Address) {
	s.substate.setDeleted(address)
}

func (s *ExecutorState) SetCode(address loom.Address, code loom.Code) {
	acc := s.substate.accountMut(address, s.backend)
	acc.code = code
	acc.hasCode = true
}

func (s *ExecutorState) Transfer(transfer loom.Transfer) error {
	return s.substate.transfer(transfer, s.backend)
}

func (s *ExecutorState) ResetBalance(address loom.Address) {
	s.substate.accountMut(address, s.backend).basic.Balance = loom.Value{}
}

// Touch records the account in the current level, so that it is part of
// the effects even if it is not modified otherwise.
func (s *ExecutorState) Touch(address loom.Address) {
	s.substate.accountMut(address, s.backend)
}

// Deconstruct converts the root level into the effects of the execution,
// ordered by address. Deleted accounts produce a deletion only.
func (s *ExecutorState) Deconstruct() ([]loom.Apply, []loom.Log, error) {
	if s.substate.Entered() != 0 {
		return nil, nil, ErrActiveSubstate
	}
	root := s.substate.top()

	storages := map[loom.Address][]loom.StorageEntry{}
	for key, value := range root.storages {
		storages[key.address] = append(storages[key.address], loom.StorageEntry{Key: key.key, Value: value})
	}

	addresses := maps.Keys(root.accounts)
	for address := range storages {
		if _, found := root.accounts[address]; !found {
			addresses = append(addresses, address)
		}
	}
	for address := range root.deletes {
		if _, found := root.accounts[address]; !found {
			if _, found := storages[address]; !found {
				addresses = append(addresses, address)
			}
		}
	}
	slices.SortFunc(addresses, loom.Address.Compare)

	applies := make([]loom.Apply, 0, len(addresses))
	for _, address := range addresses {
		if _, found := root.deletes[address]; found {
			applies = append(applies, loom.Apply{Kind: loom.ApplyDelete, Address: address})
			continue
		}
		apply := loom.Apply{Kind: loom.ApplyModify, Address: address}
		if acc, found := root.accounts[address]; found {
			apply.Basic = acc.basic
			apply.ResetStorage = acc.reset
			if acc.hasCode {
				code := acc.code
				apply.Code = &code
			}
		} else {
			apply.Basic = s.backend.Basic(address)
		}
		entries := storages[address]
		slices.SortFunc(entries, func(a, b loom.StorageEntry) int {
			return bytes.Compare(a.Key[:], b.Key[:])
		})
		apply.Storage = entries
		applies = append(applies, apply)
	}

	logs := slices.Clone(root.logs)
	return applies, logs, nil
}
