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
	"fmt"

	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/mr-tron/base58"
)

// Pubkey is the key of a host account.
type Pubkey [32]byte

// ClockSysvar is the key of the host account holding the clock.
var ClockSysvar = MustParsePubkey("SysvarC1ock11111111111111111111111111111111")

func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pubkey) UnmarshalText(data []byte) error {
	key, err := ParsePubkey(string(data))
	if err != nil {
		return err
	}
	*p = key
	return nil
}

// ParsePubkey decodes a base58 encoded key.
func ParsePubkey(s string) (Pubkey, error) {
	data, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("invalid pubkey %q: %w", s, err)
	}
	if len(data) != len(Pubkey{}) {
		return Pubkey{}, fmt.Errorf("invalid pubkey %q: decoded to %d bytes", s, len(data))
	}
	return Pubkey(data), nil
}

func MustParsePubkey(s string) Pubkey {
	key, err := ParsePubkey(s)
	if err != nil {
		panic(err)
	}
	return key
}

// EtherAddress derives the address of a host signer that has no account
// of its own.
func EtherAddress(key Pubkey) loom.Address {
	hash := loom.Keccak256(key[:])
	return loom.Address(hash[12:])
}

// AccountInfo is one entry of the account list handed to an invocation.
// Lamports and Data are updated in place when effects are applied.
type AccountInfo struct {
	Key      Pubkey
	Owner    Pubkey
	Lamports uint64
	IsSigner bool
	Data     []byte
}
