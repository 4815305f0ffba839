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
	"github.com/Fantom-foundation/Loom/go/loom"
)

// DefaultSpace is the minimum data size of accounts created by a Builder.
const DefaultSpace = 1024

// Builder assembles a positional account list with RLP laid out data.
// Keys are derived from the program and the address, so lists built for
// the same accounts are identical.
type Builder struct {
	programID Pubkey
	layout    RLPLayout
	infos     []*AccountInfo
	err       error
	// Space is the minimum data size of each created account.
	Space int
}

func NewBuilder(programID Pubkey) *Builder {
	return &Builder{programID: programID, Space: DefaultSpace}
}

// Contract appends a contract account followed by its code account.
func (b *Builder) Contract(address loom.Address, nonce, lamports uint64, code []byte, storage map[loom.Key]loom.Word) *Builder {
	key := b.KeyOf(address)
	codeKey := b.CodeKeyOf(address)
	b.add(key, lamports, AccountData{Kind: DataAccount, Account: AccountRecord{
		Ether:       address,
		Nonce:       nonce,
		CodeAccount: codeKey,
	}})
	b.add(codeKey, 0, AccountData{Kind: DataContract, Contract: ContractRecord{
		Owner:   key,
		Code:    code,
		Storage: sortedStorage(storage),
	}})
	return b
}

// User appends an account without code.
func (b *Builder) User(address loom.Address, nonce, lamports uint64) *Builder {
	b.add(b.KeyOf(address), lamports, AccountData{Kind: DataAccount, Account: AccountRecord{
		Ether: address,
		Nonce: nonce,
	}})
	return b
}

// Signer appends a host signer that is not owned by the program.
func (b *Builder) Signer(key Pubkey) *Builder {
	b.infos = append(b.infos, &AccountInfo{Key: key, IsSigner: true})
	return b
}

func (b *Builder) Clock(clock Clock) *Builder {
	b.infos = append(b.infos, &AccountInfo{Key: ClockSysvar, Data: clock.Bytes()})
	return b
}

// Raw appends the given account as is.
func (b *Builder) Raw(info *AccountInfo) *Builder {
	b.infos = append(b.infos, info)
	return b
}

// Build returns the accounts added so far.
func (b *Builder) Build() ([]*AccountInfo, error) {
	return b.infos, b.err
}

// KeyOf is the key of the account holding the given address.
func (b *Builder) KeyOf(address loom.Address) Pubkey {
	return Pubkey(loom.Keccak256(b.programID[:], address[:], []byte("account")))
}

// CodeKeyOf is the key of the code account of the given address.
func (b *Builder) CodeKeyOf(address loom.Address) Pubkey {
	return Pubkey(loom.Keccak256(b.programID[:], address[:], []byte("code")))
}

func (b *Builder) add(key Pubkey, lamports uint64, record AccountData) {
	if b.err != nil {
		return
	}
	size, err := b.layout.Size(record)
	if err != nil {
		b.err = err
		return
	}
	data := make([]byte, max(size, b.Space))
	if err := b.layout.Pack(record, data); err != nil {
		b.err = err
		return
	}
	b.infos = append(b.infos, &AccountInfo{
		Key:      key,
		Owner:    b.programID,
		Lamports: lamports,
		Data:     data,
	})
}
