// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package backend exposes the accounts of an invocation as the persisted
// state of an execution and intercepts calls to built-in contracts.
package backend

import (
	"math"

	"github.com/Fantom-foundation/Loom/go/accounts"
	"github.com/Fantom-foundation/Loom/go/loom"
)

//go:generate mockgen -source backend.go -destination backend_mock.go -package backend

// AccountStorage is the part of the address resolver the backend reads.
type AccountStorage interface {
	Resolve(loom.Address) (*accounts.Account, bool)
	Origin() loom.Address
	BlockNumber() uint64
	BlockTimestamp() uint64
}

type Config struct {
	ChainID uint64
}

func DefaultConfig() Config {
	return Config{ChainID: 111}
}

// Backend implements loom.Backend on top of an AccountStorage.
type Backend struct {
	storage AccountStorage
	config  Config
}

func New(storage AccountStorage, config Config) *Backend {
	return &Backend{storage: storage, config: config}
}

func (b *Backend) GasPrice() loom.Value {
	return loom.Value{}
}

func (b *Backend) Origin() loom.Address {
	return b.storage.Origin()
}

// BlockHash is not available to contracts.
func (b *Backend) BlockHash(uint64) loom.Hash {
	return loom.Hash{}
}

func (b *Backend) BlockNumber() uint64 {
	return b.storage.BlockNumber()
}

func (b *Backend) BlockCoinbase() loom.Address {
	return loom.Address{}
}

func (b *Backend) BlockTimestamp() uint64 {
	return b.storage.BlockTimestamp()
}

func (b *Backend) BlockDifficulty() loom.Value {
	return loom.Value{}
}

func (b *Backend) BlockGasLimit() uint64 {
	return math.MaxUint64
}

func (b *Backend) ChainID() loom.Value {
	return loom.NewValue(b.config.ChainID)
}

func (b *Backend) Exists(address loom.Address) bool {
	_, found := b.storage.Resolve(address)
	return found
}

func (b *Backend) Basic(address loom.Address) loom.Basic {
	if acc, found := b.storage.Resolve(address); found {
		return acc.Basic()
	}
	return loom.Basic{}
}

func (b *Backend) Code(address loom.Address) loom.Code {
	if acc, found := b.storage.Resolve(address); found {
		return acc.Code()
	}
	return nil
}

func (b *Backend) Storage(address loom.Address, key loom.Key) loom.Word {
	if acc, found := b.storage.Resolve(address); found {
		return acc.Storage(key)
	}
	return loom.Word{}
}

// CallInner completes calls to the sinks and the precompiled contracts
// synchronously. Value transfers attached to such calls are not applied.
func (b *Backend) CallInner(codeAddress loom.Address, _ *loom.Transfer, input loom.Data, _ bool, _ loom.Context) (loom.CallFeedback, bool) {
	switch codeAddress {
	case loom.SystemAccount:
		return loom.CallFeedback{Reason: loom.ExitSucceed(loom.Returned)}, true
	case loom.SystemAccountEcrecover:
		return loom.CallFeedback{Reason: loom.ExitSucceed(loom.Returned), Output: ecrecover(input)}, true
	}
	return runPrecompiled(codeAddress, input)
}
