// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package state provides the nested transactional state an execution
// operates on. Each call or create frame opens a level of pending changes
// on top of the persisted state; a level is folded into its parent when
// the frame succeeds and dropped otherwise.
package state

import (
	"bytes"

	"github.com/Fantom-foundation/Loom/go/loom"
)

const (
	// ErrNoSubstate is returned when exiting a level that was never entered.
	ErrNoSubstate = loom.ConstError("no substate to exit")
	// ErrActiveSubstate is returned when deconstructing while levels are
	// still entered.
	ErrActiveSubstate = loom.ConstError("substate still has entered levels")
	// ErrOutOfFund is returned when a transfer exceeds the source balance.
	ErrOutOfFund = loom.ConstError("insufficient balance for transfer")
)

// account is the pending state of a single account within a level.
type account struct {
	basic loom.Basic
	code  loom.Code // valid if hasCode is set
	// hasCode distinguishes code set to empty from unchanged code.
	hasCode bool
	// reset marks the persisted storage of the account as cleared.
	reset bool
}

type storageKey struct {
	address loom.Address
	key     loom.Key
}

type level struct {
	gasLimit uint64
	isStatic bool
	logs     []loom.Log
	accounts map[loom.Address]*account
	storages map[storageKey]loom.Word
	deletes  map[loom.Address]struct{}
}

func newLevel(gasLimit uint64, isStatic bool) *level {
	return &level{
		gasLimit: gasLimit,
		isStatic: isStatic,
		accounts: map[loom.Address]*account{},
		storages: map[storageKey]loom.Word{},
		deletes:  map[loom.Address]struct{}{},
	}
}

// Substate is a stack of levels of pending state changes. The bottom
// level collects the changes of the entire execution; every further level
// belongs to one active frame.
type Substate struct {
	levels []*level
}

// NewSubstate creates a substate consisting of the root level only.
func NewSubstate(gasLimit uint64, isStatic bool) *Substate {
	return &Substate{levels: []*level{newLevel(gasLimit, isStatic)}}
}

func (s *Substate) top() *level {
	return s.levels[len(s.levels)-1]
}

// Depth returns the call depth of the current level. The root level has
// no depth, the first entered level has depth 0.
func (s *Substate) Depth() (int, bool) {
	if len(s.levels) < 2 {
		return 0, false
	}
	return len(s.levels) - 2, true
}

// Entered returns the number of levels above the root.
func (s *Substate) Entered() int {
	return len(s.levels) - 1
}

func (s *Substate) IsStatic() bool {
	return s.top().isStatic
}

func (s *Substate) GasLimit() uint64 {
	return s.top().gasLimit
}

// Enter opens a new level. A level entered from a static level is static.
func (s *Substate) Enter(gasLimit uint64, isStatic bool) {
	s.levels = append(s.levels, newLevel(gasLimit, isStatic || s.IsStatic()))
}

// ExitCommit folds the top level into its parent.
func (s *Substate) ExitCommit() error {
	if len(s.levels) < 2 {
		return ErrNoSubstate
	}
	exited := s.top()
	s.levels = s.levels[:len(s.levels)-1]
	parent := s.top()

	parent.logs = append(parent.logs, exited.logs...)
	for key := range parent.storages {
		if acc, found := exited.accounts[key.address]; found && acc.reset {
			delete(parent.storages, key)
		}
	}
	for address, acc := range exited.accounts {
		if prev, found := parent.accounts[address]; found && prev.reset {
			acc.reset = true
		}
		parent.accounts[address] = acc
	}
	for key, value := range exited.storages {
		parent.storages[key] = value
	}
	for address := range exited.deletes {
		parent.deletes[address] = struct{}{}
	}
	return nil
}

// ExitRevert drops the top level. Return data is not part of the state,
// so reverting and discarding affect the state identically.
func (s *Substate) ExitRevert() error {
	return s.drop()
}

// ExitDiscard drops the top level.
func (s *Substate) ExitDiscard() error {
	return s.drop()
}

func (s *Substate) drop() error {
	if len(s.levels) < 2 {
		return ErrNoSubstate
	}
	s.levels[len(s.levels)-1] = nil
	s.levels = s.levels[:len(s.levels)-1]
	return nil
}

// knownAccount returns the most recent pending state of the account.
func (s *Substate) knownAccount(address loom.Address) *account {
	for i := len(s.levels) - 1; i >= 0; i-- {
		if acc, found := s.levels[i].accounts[address]; found {
			return acc
		}
	}
	return nil
}

func (s *Substate) knownBasic(address loom.Address) (loom.Basic, bool) {
	if acc := s.knownAccount(address); acc != nil {
		return acc.basic, true
	}
	return loom.Basic{}, false
}

func (s *Substate) knownCode(address loom.Address) (loom.Code, bool) {
	if acc := s.knownAccount(address); acc != nil && acc.hasCode {
		return acc.code, true
	}
	return nil, false
}

func (s *Substate) knownStorage(address loom.Address, key loom.Key) (loom.Word, bool) {
	for i := len(s.levels) - 1; i >= 0; i-- {
		lvl := s.levels[i]
		if value, found := lvl.storages[storageKey{address, key}]; found {
			return value, true
		}
		if acc, found := lvl.accounts[address]; found && acc.reset {
			return loom.Word{}, true
		}
	}
	return loom.Word{}, false
}

// knownReset reports whether the persisted storage of the account was
// cleared on any level.
func (s *Substate) knownReset(address loom.Address) bool {
	for _, lvl := range s.levels {
		if acc, found := lvl.accounts[address]; found && acc.reset {
			return true
		}
	}
	return false
}

func (s *Substate) deleted(address loom.Address) bool {
	for _, lvl := range s.levels {
		if _, found := lvl.deletes[address]; found {
			return true
		}
	}
	return false
}

// accountMut returns the account in the top level, copying it from lower
// levels or the backend on first access.
func (s *Substate) accountMut(address loom.Address, backend loom.Backend) *account {
	top := s.top()
	if acc, found := top.accounts[address]; found {
		return acc
	}
	acc := &account{}
	if known := s.knownAccount(address); known != nil {
		*acc = *known
		acc.code = bytes.Clone(known.code)
		acc.reset = false
	} else {
		acc.basic = backend.Basic(address)
	}
	top.accounts[address] = acc
	return acc
}

func (s *Substate) log(address loom.Address, topics []loom.Hash, data loom.Data) {
	top := s.top()
	top.logs = append(top.logs, loom.Log{Address: address, Topics: topics, Data: data})
}

func (s *Substate) setStorage(address loom.Address, key loom.Key, value loom.Word) {
	s.top().storages[storageKey{address, key}] = value
}

func (s *Substate) resetStorage(address loom.Address, backend loom.Backend) {
	top := s.top()
	for key := range top.storages {
		if key.address == address {
			delete(top.storages, key)
		}
	}
	s.accountMut(address, backend).reset = true
}

func (s *Substate) setDeleted(address loom.Address) {
	s.top().deletes[address] = struct{}{}
}

func (s *Substate) transfer(transfer loom.Transfer, backend loom.Backend) error {
	source := s.accountMut(transfer.Source, backend)
	if source.basic.Balance.Cmp(transfer.Value) < 0 {
		return ErrOutOfFund
	}
	source.basic.Balance = loom.Sub(source.basic.Balance, transfer.Value)
	target := s.accountMut(transfer.Target, backend)
	target.basic.Balance = loom.Add(target.basic.Balance, transfer.Value)
	return nil
}
