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

//go:generate mockgen -source host.go -destination host_mock.go -package loom

// SystemAccount is a sink address intercepted by the backend. Calls to it
// always succeed and it never holds persisted state.
var SystemAccount = Address{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// SystemAccountEcrecover is the sink address recovering signers.
var SystemAccountEcrecover = Address{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01,
}

// IsSystemAccount reports whether the address is one of the sinks.
func IsSystemAccount(address Address) bool {
	return address == SystemAccount || address == SystemAccountEcrecover
}

// Basic is the balance and nonce of an account.
type Basic struct {
	Balance Value
	Nonce   uint64
}

// Context is the execution context of a frame.
type Context struct {
	Address       Address // the account whose storage is used
	Caller        Address
	ApparentValue Value
}

// Transfer describes a value transfer between two accounts.
type Transfer struct {
	Source Address
	Target Address
	Value  Value
}

// CreateKind selects the way the address of a new contract is derived.
type CreateKind byte

const (
	// CreateLegacy derives the address from the caller and its nonce.
	CreateLegacy CreateKind = iota
	// Create2 derives the address from the caller, a salt and the code hash.
	Create2
	// CreateFixed uses an address given by the caller.
	CreateFixed
)

// CreateScheme carries the inputs of the address derivation.
type CreateScheme struct {
	Kind     CreateKind
	Caller   Address
	CodeHash Hash    // Create2 only
	Salt     Hash    // Create2 only
	Address  Address // CreateFixed only
}

// CallInterrupt is a request to run a nested call frame.
type CallInterrupt struct {
	CodeAddress Address
	Transfer    *Transfer
	Input       Data
	TargetGas   *uint64
	IsStatic    bool
	Context     Context
}

// CreateInterrupt is a request to run a nested create frame.
type CreateInterrupt struct {
	Address  Address
	InitCode Code
	Context  Context
}

// CallFeedback is the result of Handler.Call. Either Trap is set, or the
// call was completed synchronously with the given reason and output.
type CallFeedback struct {
	Trap   *CallInterrupt
	Reason ExitReason
	Output Data
}

// CreateFeedback is the result of Handler.Create. Either Trap is set, or
// the create finished immediately; Address is nil if no account was created.
type CreateFeedback struct {
	Trap    *CreateInterrupt
	Reason  ExitReason
	Address *Address
	Output  Data
}

// Backend provides read access to the persisted state and the block
// environment an execution runs in.
type Backend interface {
	GasPrice() Value
	Origin() Address
	BlockHash(number uint64) Hash
	BlockNumber() uint64
	BlockCoinbase() Address
	BlockTimestamp() uint64
	BlockDifficulty() Value
	BlockGasLimit() uint64
	ChainID() Value

	Exists(Address) bool
	Basic(Address) Basic
	Code(Address) Code
	Storage(Address, Key) Word

	// CallInner offers the backend to complete a call synchronously, e.g.
	// for precompiled contracts. The boolean result is false if the
	// backend declines.
	CallInner(codeAddress Address, transfer *Transfer, input Data, isStatic bool, context Context) (CallFeedback, bool)
}

// Handler is the host interface of an interpreter frame.
type Handler interface {
	Balance(Address) Value
	CodeSize(Address) uint64
	CodeHash(Address) Hash
	Code(Address) Code
	Storage(Address, Key) Word
	OriginalStorage(Address, Key) Word

	GasLeft() uint64
	GasPrice() Value
	Origin() Address
	BlockHash(number uint64) Hash
	BlockNumber() uint64
	BlockCoinbase() Address
	BlockTimestamp() uint64
	BlockDifficulty() Value
	BlockGasLimit() uint64
	ChainID() Value

	Exists(Address) bool
	Deleted(Address) bool

	SetStorage(Address, Key, Word)
	Log(address Address, topics []Hash, data Data)
	MarkDelete(address, beneficiary Address) error

	Create(caller Address, scheme CreateScheme, value Value, initCode Code, targetGas *uint64) CreateFeedback
	Call(codeAddress Address, transfer *Transfer, input Data, targetGas *uint64, isStatic bool, context Context) CallFeedback
}

// ApplyKind distinguishes modifications from deletions.
type ApplyKind byte

const (
	ApplyModify ApplyKind = iota
	ApplyDelete
)

// StorageEntry is a single storage slot update.
type StorageEntry struct {
	Key   Key
	Value Word
}

// Apply is the state diff for one account produced by a successful
// execution.
type Apply struct {
	Kind         ApplyKind
	Address      Address
	Basic        Basic
	Code         *Code // nil if the code is unchanged
	Storage      []StorageEntry
	ResetStorage bool
}
