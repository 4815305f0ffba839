// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package persist

import (
	"encoding/binary"
	"fmt"

	"github.com/Fantom-foundation/Loom/go/accounts"
	"github.com/Fantom-foundation/Loom/go/loom"
)

const (
	ErrEmptyStore   = loom.ConstError("store holds no data")
	ErrDataTooLarge = loom.ConstError("data exceeds store capacity")
)

// Store keeps a single blob. Writing an empty blob clears the store.
type Store interface {
	Write(blob []byte) error
	// Read fails with ErrEmptyStore if nothing was written.
	Read() ([]byte, error)
}

type MemoryStore struct {
	blob []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Write(blob []byte) error {
	s.blob = append(s.blob[:0], blob...)
	return nil
}

func (s *MemoryStore) Read() ([]byte, error) {
	if len(s.blob) == 0 {
		return nil, ErrEmptyStore
	}
	return append([]byte(nil), s.blob...), nil
}

const lengthPrefixSize = 8

// AccountStore keeps the blob in the data of a host account, prefixed by
// its little-endian length.
type AccountStore struct {
	info *accounts.AccountInfo
}

func NewAccountStore(info *accounts.AccountInfo) *AccountStore {
	return &AccountStore{info: info}
}

// Capacity is the largest blob the account can hold.
func (s *AccountStore) Capacity() int {
	return max(len(s.info.Data)-lengthPrefixSize, 0)
}

func (s *AccountStore) Write(blob []byte) error {
	if len(s.info.Data) < lengthPrefixSize || len(blob) > s.Capacity() {
		return fmt.Errorf("blob of %d bytes, account %v holds %d: %w", len(blob), s.info.Key, s.Capacity(), ErrDataTooLarge)
	}
	binary.LittleEndian.PutUint64(s.info.Data, uint64(len(blob)))
	copy(s.info.Data[lengthPrefixSize:], blob)
	return nil
}

func (s *AccountStore) Read() ([]byte, error) {
	if len(s.info.Data) < lengthPrefixSize {
		return nil, ErrEmptyStore
	}
	size := binary.LittleEndian.Uint64(s.info.Data)
	if size == 0 {
		return nil, ErrEmptyStore
	}
	if size > uint64(s.Capacity()) {
		return nil, fmt.Errorf("stored length %d exceeds account size: %w", size, ErrDataTooLarge)
	}
	return append([]byte(nil), s.info.Data[lengthPrefixSize:lengthPrefixSize+size]...), nil
}
