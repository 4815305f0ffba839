// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package accounts

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/Fantom-foundation/Loom/go/loom"
	"golang.org/x/exp/maps"
)

// Account is a host account viewed as an Ethereum account. Contract
// accounts carry a second host account holding code and storage.
type Account struct {
	info   *AccountInfo
	record AccountRecord
	code   *codeAccount
}

type codeAccount struct {
	info    *AccountInfo
	code    []byte
	storage map[loom.Key]loom.Word
}

func newAccount(info *AccountInfo, record AccountRecord) *Account {
	return &Account{info: info, record: record}
}

func newCodeAccount(info *AccountInfo, contract ContractRecord) *codeAccount {
	storage := make(map[loom.Key]loom.Word, len(contract.Storage))
	for _, entry := range contract.Storage {
		if entry.Value != (loom.Word{}) {
			storage[entry.Key] = entry.Value
		}
	}
	return &codeAccount{info: info, code: contract.Code, storage: storage}
}

func (a *Account) Key() Pubkey {
	return a.info.Key
}

func (a *Account) Address() loom.Address {
	return a.record.Ether
}

func (a *Account) Nonce() uint64 {
	return a.record.Nonce
}

// Balance is the lamport balance of the host account.
func (a *Account) Balance() loom.Value {
	return loom.NewValue(a.info.Lamports)
}

func (a *Account) Basic() loom.Basic {
	return loom.Basic{Balance: a.Balance(), Nonce: a.Nonce()}
}

// HasCodeAccount reports whether the account is backed by a code account.
func (a *Account) HasCodeAccount() bool {
	return a.code != nil
}

func (a *Account) Code() loom.Code {
	if a.code == nil {
		return nil
	}
	return a.code.code
}

func (a *Account) Storage(key loom.Key) loom.Word {
	if a.code == nil {
		return loom.Word{}
	}
	return a.code.storage[key]
}

// IsEmpty reports whether the account has no nonce, balance or code.
func (a *Account) IsEmpty() bool {
	return a.record.Nonce == 0 && a.info.Lamports == 0 && len(a.Code()) == 0
}

// update applies a modification and re-packs the host account data. The
// account is left unchanged if the modification cannot be represented.
func (a *Account) update(layout Layout, apply loom.Apply) error {
	lamports, ok := apply.Basic.Balance.Uint64()
	if !ok {
		return fmt.Errorf("balance %v of %v exceeds lamport range: %w", apply.Basic.Balance, apply.Address, loom.ErrInvalidArgument)
	}
	touchesCode := apply.Code != nil || len(apply.Storage) > 0 || apply.ResetStorage
	if touchesCode && a.code == nil {
		return fmt.Errorf("account %v has no code account: %w", apply.Address, loom.ErrInvalidAccountData)
	}

	record := a.record
	record.Nonce = apply.Basic.Nonce
	if err := layout.Pack(AccountData{Kind: DataAccount, Account: record}, a.info.Data); err != nil {
		return err
	}

	if touchesCode {
		code := a.code.code
		if apply.Code != nil {
			code = bytes.Clone(*apply.Code)
		}
		storage := maps.Clone(a.code.storage)
		if apply.ResetStorage {
			clear(storage)
		}
		for _, entry := range apply.Storage {
			if entry.Value == (loom.Word{}) {
				delete(storage, entry.Key)
			} else {
				storage[entry.Key] = entry.Value
			}
		}
		contract := ContractRecord{Owner: a.info.Key, Code: code, Storage: sortedStorage(storage)}
		if err := layout.Pack(AccountData{Kind: DataContract, Contract: contract}, a.code.info.Data); err != nil {
			// restore the account record written above
			_ = layout.Pack(AccountData{Kind: DataAccount, Account: a.record}, a.info.Data)
			return err
		}
		a.code.code = code
		a.code.storage = storage
	}

	a.record = record
	a.info.Lamports = lamports
	return nil
}

func sortedStorage(storage map[loom.Key]loom.Word) []loom.StorageEntry {
	keys := maps.Keys(storage)
	slices.SortFunc(keys, func(a, b loom.Key) int {
		return bytes.Compare(a[:], b[:])
	})
	res := make([]loom.StorageEntry, 0, len(keys))
	for _, key := range keys {
		res = append(res, loom.StorageEntry{Key: key, Value: storage[key]})
	}
	return res
}
