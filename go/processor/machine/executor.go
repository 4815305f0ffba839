// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package machine

import (
	"github.com/Fantom-foundation/Loom/go/common/logging"
	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/Fantom-foundation/Loom/go/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
)

// gasLeft is reported to contracts in place of metered gas.
const gasLeft = 1

// executor is the host of all interpreter frames of a machine. It serves
// reads from the substate stack and turns nested calls and creates into
// interrupts handled by the machine.
type executor struct {
	state  *state.ExecutorState
	config loom.Config
	logger zerolog.Logger
}

func newExecutor(state *state.ExecutorState, config loom.Config, logger zerolog.Logger) *executor {
	return &executor{state: state, config: config, logger: logger}
}

func (e *executor) Balance(address loom.Address) loom.Value {
	return e.state.Basic(address).Balance
}

func (e *executor) CodeSize(address loom.Address) uint64 {
	return uint64(len(e.state.Code(address)))
}

// CodeHash is zero for accounts that do not exist.
func (e *executor) CodeHash(address loom.Address) loom.Hash {
	if !e.Exists(address) {
		return loom.Hash{}
	}
	return loom.Keccak256(e.state.Code(address))
}

func (e *executor) Code(address loom.Address) loom.Code {
	return e.state.Code(address)
}

func (e *executor) Storage(address loom.Address, key loom.Key) loom.Word {
	return e.state.Storage(address, key)
}

func (e *executor) OriginalStorage(address loom.Address, key loom.Key) loom.Word {
	return e.state.OriginalStorage(address, key)
}

func (e *executor) GasLeft() uint64 {
	return gasLeft
}

func (e *executor) GasPrice() loom.Value {
	return e.state.Backend().GasPrice()
}

func (e *executor) Origin() loom.Address {
	return e.state.Backend().Origin()
}

func (e *executor) BlockHash(number uint64) loom.Hash {
	return e.state.Backend().BlockHash(number)
}

func (e *executor) BlockNumber() uint64 {
	return e.state.Backend().BlockNumber()
}

func (e *executor) BlockCoinbase() loom.Address {
	return e.state.Backend().BlockCoinbase()
}

func (e *executor) BlockTimestamp() uint64 {
	return e.state.Backend().BlockTimestamp()
}

func (e *executor) BlockDifficulty() loom.Value {
	return e.state.Backend().BlockDifficulty()
}

func (e *executor) BlockGasLimit() uint64 {
	return e.state.Backend().BlockGasLimit()
}

func (e *executor) ChainID() loom.Value {
	return e.state.Backend().ChainID()
}

// Exists reports whether the account has any recorded state. Unless empty
// accounts are considered existing, the account must also be non-empty.
func (e *executor) Exists(address loom.Address) bool {
	if !e.state.Exists(address) {
		return false
	}
	return e.config.EmptyConsideredExists || !e.state.IsEmpty(address)
}

func (e *executor) Deleted(address loom.Address) bool {
	return e.state.Deleted(address)
}

func (e *executor) SetStorage(address loom.Address, key loom.Key, value loom.Word) {
	e.state.SetStorage(address, key, value)
}

func (e *executor) Log(address loom.Address, topics []loom.Hash, data loom.Data) {
	e.state.Log(address, topics, data)
}

// MarkDelete moves the full balance to the beneficiary and schedules the
// account for deletion.
func (e *executor) MarkDelete(address, beneficiary loom.Address) error {
	balance := e.Balance(address)
	if err := e.state.Transfer(loom.Transfer{Source: address, Target: beneficiary, Value: balance}); err != nil {
		return err
	}
	e.state.ResetBalance(address)
	e.state.SetDeleted(address)
	return nil
}

func (e *executor) tooDeep() bool {
	depth, found := e.state.Depth()
	return found && depth+1 > e.config.CallStackLimit
}

// createAddress derives the address of a new contract. The legacy scheme
// uses the current nonce of the caller.
func (e *executor) createAddress(scheme loom.CreateScheme) loom.Address {
	switch scheme.Kind {
	case loom.Create2:
		return loom.Address(crypto.CreateAddress2(common.Address(scheme.Caller), scheme.Salt, scheme.CodeHash[:]))
	case loom.CreateFixed:
		return scheme.Address
	default:
		nonce := e.state.Basic(scheme.Caller).Nonce
		return loom.Address(crypto.CreateAddress(common.Address(scheme.Caller), nonce))
	}
}

func (e *executor) Create(caller loom.Address, scheme loom.CreateScheme, value loom.Value, initCode loom.Code, _ *uint64) loom.CreateFeedback {
	if e.tooDeep() {
		return loom.CreateFeedback{Reason: loom.ExitError(loom.CallTooDeep)}
	}

	address := e.createAddress(scheme)
	e.state.Touch(address)
	e.state.IncNonce(caller)

	if len(e.state.Code(address)) != 0 || e.state.Basic(address).Nonce > 0 {
		e.logger.Debug().Stringer(logging.FieldAddress, address).Msg("Create collision")
		return loom.CreateFeedback{Reason: loom.ExitError(loom.CreateCollision)}
	}

	return loom.CreateFeedback{Trap: &loom.CreateInterrupt{
		Address:  address,
		InitCode: initCode,
		Context: loom.Context{
			Address:       address,
			Caller:        caller,
			ApparentValue: value,
		},
	}}
}

func (e *executor) Call(codeAddress loom.Address, transfer *loom.Transfer, input loom.Data, targetGas *uint64, isStatic bool, context loom.Context) loom.CallFeedback {
	if e.tooDeep() {
		return loom.CallFeedback{Reason: loom.ExitError(loom.CallTooDeep)}
	}
	if feedback, handled := e.state.Backend().CallInner(codeAddress, transfer, input, isStatic, context); handled {
		return feedback
	}
	return loom.CallFeedback{Trap: &loom.CallInterrupt{
		CodeAddress: codeAddress,
		Transfer:    transfer,
		Input:       input,
		TargetGas:   targetGas,
		IsStatic:    isStatic,
		Context:     context,
	}}
}
