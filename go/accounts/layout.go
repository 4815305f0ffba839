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

	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/ethereum/go-ethereum/rlp"
)

// DataKind is the kind of record stored in a program-owned account.
type DataKind byte

const (
	DataEmpty DataKind = iota
	DataAccount
	DataContract
)

func (k DataKind) String() string {
	switch k {
	case DataEmpty:
		return "empty"
	case DataAccount:
		return "account"
	case DataContract:
		return "contract"
	}
	return fmt.Sprintf("DataKind(%d)", k)
}

// AccountRecord is the data of an account holding an Ethereum identity.
// A zero CodeAccount marks a user account without code.
type AccountRecord struct {
	Ether       loom.Address
	Nonce       uint64
	CodeAccount Pubkey
}

// ContractRecord is the data of a code account: the code and the storage
// of the contract it belongs to.
type ContractRecord struct {
	Owner   Pubkey
	Code    []byte
	Storage []loom.StorageEntry
}

// AccountData is the decoded content of a program-owned account.
type AccountData struct {
	Kind     DataKind
	Account  AccountRecord  // valid if Kind is DataAccount
	Contract ContractRecord // valid if Kind is DataContract
}

// Layout translates between raw account bytes and their records.
type Layout interface {
	Unpack(data []byte) (AccountData, error)
	// Pack writes the record into data, which must be large enough.
	Pack(record AccountData, data []byte) error
}

// RLPLayout stores records as a tag byte followed by an RLP encoded
// record. Bytes after the record are ignored.
type RLPLayout struct{}

func (RLPLayout) Unpack(data []byte) (AccountData, error) {
	if len(data) == 0 {
		return AccountData{Kind: DataEmpty}, nil
	}
	res := AccountData{Kind: DataKind(data[0])}
	stream := rlp.NewStream(bytes.NewReader(data[1:]), uint64(len(data)-1))
	var err error
	switch res.Kind {
	case DataEmpty:
		return res, nil
	case DataAccount:
		err = stream.Decode(&res.Account)
	case DataContract:
		err = stream.Decode(&res.Contract)
	default:
		return AccountData{}, fmt.Errorf("unknown data kind %d: %w", data[0], loom.ErrInvalidAccountData)
	}
	if err != nil {
		return AccountData{}, fmt.Errorf("failed to decode %v record: %v: %w", res.Kind, err, loom.ErrInvalidAccountData)
	}
	return res, nil
}

func (l RLPLayout) Pack(record AccountData, data []byte) error {
	encoded, err := l.encode(record)
	if err != nil {
		return err
	}
	if len(encoded) > len(data) {
		return fmt.Errorf("%v record needs %d bytes, account holds %d: %w", record.Kind, len(encoded), len(data), loom.ErrInvalidAccountData)
	}
	n := copy(data, encoded)
	clear(data[n:])
	return nil
}

// Size returns the number of bytes needed to pack the record.
func (l RLPLayout) Size(record AccountData) (int, error) {
	encoded, err := l.encode(record)
	return len(encoded), err
}

func (RLPLayout) encode(record AccountData) ([]byte, error) {
	var payload any
	switch record.Kind {
	case DataEmpty:
		return []byte{byte(DataEmpty)}, nil
	case DataAccount:
		payload = &record.Account
	case DataContract:
		payload = &record.Contract
	default:
		return nil, fmt.Errorf("unknown data kind %d: %w", record.Kind, loom.ErrInvalidAccountData)
	}
	encoded, err := rlp.EncodeToBytes(payload)
	if err != nil {
		return nil, err
	}
	return append([]byte{byte(record.Kind)}, encoded...), nil
}
