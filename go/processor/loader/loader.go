// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package loader runs executions across invocations. Each invocation
// resolves the accounts it was handed, runs a bounded number of steps and
// either persists the unfinished execution into a store or applies the
// effects of the finished one to the accounts.
package loader

import (
	"errors"
	"fmt"
	"math"

	"github.com/Fantom-foundation/Loom/go/accounts"
	"github.com/Fantom-foundation/Loom/go/backend"
	"github.com/Fantom-foundation/Loom/go/common/logging"
	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/Fantom-foundation/Loom/go/persist"
	"github.com/Fantom-foundation/Loom/go/processor/machine"
	"github.com/rs/zerolog"
)

// ErrExecutionPending is returned when starting an execution while the
// store still holds a suspended one.
const ErrExecutionPending = loom.ConstError("store holds a suspended execution")

type Status byte

const (
	Suspended Status = iota
	Finished
)

func (s Status) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("Status(%d)", s)
}

// Outcome summarizes one invocation. Reason, ReturnValue and Logs are only
// set once the execution finished. Logs are reported for successful
// executions only.
type Outcome struct {
	Status      Status
	Reason      loom.ExitReason
	ReturnValue loom.Data
	Logs        []loom.Log
	Steps       uint64
}

type Loader struct {
	Config  loom.Config
	Backend backend.Config
	Layout  accounts.Layout
	Codec   persist.Codec
	// StepsPerInvocation bounds the steps of a single invocation. Zero
	// runs executions to their end.
	StepsPerInvocation uint64
	Logger             zerolog.Logger
}

// New creates a loader with the default chain rules and an RLP account
// layout.
func New() *Loader {
	return &Loader{
		Config:  loom.DefaultConfig(),
		Backend: backend.DefaultConfig(),
		Layout:  accounts.RLPLayout{},
		Codec:   persist.Codec{Compression: true},
		Logger:  logging.NewLogger("loader"),
	}
}

// Deploy starts the deployment of code by the sender of the invocation.
// The created account has to be part of the accounts for its code to be
// stored.
func (l *Loader) Deploy(programID accounts.Pubkey, infos []*accounts.AccountInfo, code loom.Code, store persist.Store) (Outcome, error) {
	storage, m, err := l.begin(programID, infos, store)
	if err != nil {
		return Outcome{}, err
	}
	if err := m.CreateBegin(storage.Origin(), code, math.MaxUint64); err != nil {
		if !errors.Is(err, machine.ErrCreateFailed) {
			return Outcome{}, err
		}
		reason, _ := m.Finished()
		return Outcome{Status: Finished, Reason: reason}, nil
	}
	return l.proceed(storage, m, store)
}

// Call starts a call of the contract at the first position of the accounts.
func (l *Loader) Call(programID accounts.Pubkey, infos []*accounts.AccountInfo, input loom.Data, store persist.Store) (Outcome, error) {
	storage, m, err := l.begin(programID, infos, store)
	if err != nil {
		return Outcome{}, err
	}
	if err := m.CallBegin(storage.Origin(), storage.ContractAddress(), input, math.MaxUint64); err != nil {
		return Outcome{}, err
	}
	return l.proceed(storage, m, store)
}

// Resume continues the execution suspended in the store. The accounts
// must describe the same state as the ones of the suspending invocation.
func (l *Loader) Resume(programID accounts.Pubkey, infos []*accounts.AccountInfo, store persist.Store) (Outcome, error) {
	storage, err := accounts.New(programID, infos, l.Layout, l.Logger)
	if err != nil {
		return Outcome{}, err
	}
	m, err := machine.Restore(store, backend.New(storage, l.Backend), l.Config, l.Logger)
	if err != nil {
		return Outcome{}, err
	}
	return l.proceed(storage, m, store)
}

func (l *Loader) begin(programID accounts.Pubkey, infos []*accounts.AccountInfo, store persist.Store) (*accounts.Storage, *machine.Machine, error) {
	if _, err := store.Read(); !errors.Is(err, persist.ErrEmptyStore) {
		if err == nil {
			err = ErrExecutionPending
		}
		return nil, nil, err
	}
	storage, err := accounts.New(programID, infos, l.Layout, l.Logger)
	if err != nil {
		return nil, nil, err
	}
	return storage, machine.New(backend.New(storage, l.Backend), l.Config, l.Logger), nil
}

func (l *Loader) steps() uint64 {
	if l.StepsPerInvocation == 0 {
		return math.MaxUint64
	}
	return l.StepsPerInvocation
}

// proceed runs the machine for one invocation and settles its result.
func (l *Loader) proceed(storage *accounts.Storage, m *machine.Machine, store persist.Store) (Outcome, error) {
	reason, done := m.ExecuteN(l.steps())
	outcome := Outcome{Steps: m.Steps()}
	if !done {
		if err := m.Persist(store, l.Codec); err != nil {
			return Outcome{}, err
		}
		l.Logger.Debug().Uint64(logging.FieldSteps, outcome.Steps).Msg("Execution suspended")
		return outcome, nil
	}

	outcome.Status = Finished
	outcome.Reason = reason
	switch reason.Class {
	case loom.ClassSucceed:
		applies, logs, err := m.Deconstruct()
		if err != nil {
			return Outcome{}, err
		}
		if err := storage.Apply(applies); err != nil {
			return Outcome{}, fmt.Errorf("failed to apply effects: %w", err)
		}
		outcome.ReturnValue = m.ReturnValue()
		outcome.Logs = logs
	case loom.ClassRevert:
		outcome.ReturnValue = m.ReturnValue()
	}
	// The execution stays stored until its effects are applied.
	if err := store.Write(nil); err != nil {
		return Outcome{}, fmt.Errorf("failed to clear store: %w", err)
	}
	l.Logger.Debug().
		Stringer(logging.FieldReason, reason).
		Uint64(logging.FieldSteps, outcome.Steps).
		Msg("Execution finished")
	return outcome, nil
}
