// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/exp/maps"
)

// ErrInvalidEncoding is returned when decoding a malformed substate.
const ErrInvalidEncoding = loom.ConstError("invalid substate encoding")

type accountState struct {
	Address loom.Address
	Basic   loom.Basic
	HasCode bool
	Code    []byte
	Reset   bool
}

type storageState struct {
	Address loom.Address
	Key     loom.Key
	Value   loom.Word
}

type levelState struct {
	GasLimit uint64
	IsStatic bool
	Logs     []loom.Log
	Accounts []accountState
	Storages []storageState
	Deletes  []loom.Address
}

// EncodeRLP implements rlp.Encoder. Map contents are written in sorted
// order, making the encoding deterministic.
func (s *Substate) EncodeRLP(w io.Writer) error {
	levels := make([]levelState, 0, len(s.levels))
	for _, lvl := range s.levels {
		levels = append(levels, encodeLevel(lvl))
	}
	return rlp.Encode(w, levels)
}

func encodeLevel(lvl *level) levelState {
	res := levelState{
		GasLimit: lvl.gasLimit,
		IsStatic: lvl.isStatic,
		Logs:     lvl.logs,
	}

	addresses := maps.Keys(lvl.accounts)
	slices.SortFunc(addresses, loom.Address.Compare)
	for _, address := range addresses {
		acc := lvl.accounts[address]
		res.Accounts = append(res.Accounts, accountState{
			Address: address,
			Basic:   acc.basic,
			HasCode: acc.hasCode,
			Code:    acc.code,
			Reset:   acc.reset,
		})
	}

	keys := maps.Keys(lvl.storages)
	slices.SortFunc(keys, func(a, b storageKey) int {
		if res := a.address.Compare(b.address); res != 0 {
			return res
		}
		return bytes.Compare(a.key[:], b.key[:])
	})
	for _, key := range keys {
		res.Storages = append(res.Storages, storageState{
			Address: key.address,
			Key:     key.key,
			Value:   lvl.storages[key],
		})
	}

	res.Deletes = maps.Keys(lvl.deletes)
	slices.SortFunc(res.Deletes, loom.Address.Compare)
	return res
}

// DecodeRLP implements rlp.Decoder.
func (s *Substate) DecodeRLP(stream *rlp.Stream) error {
	var levels []levelState
	if err := stream.Decode(&levels); err != nil {
		return err
	}
	if len(levels) == 0 {
		return fmt.Errorf("missing root level: %w", ErrInvalidEncoding)
	}
	s.levels = make([]*level, 0, len(levels))
	for _, encoded := range levels {
		lvl := newLevel(encoded.GasLimit, encoded.IsStatic)
		lvl.logs = encoded.Logs
		for _, acc := range encoded.Accounts {
			if _, found := lvl.accounts[acc.Address]; found {
				return fmt.Errorf("duplicate account %v: %w", acc.Address, ErrInvalidEncoding)
			}
			lvl.accounts[acc.Address] = &account{
				basic:   acc.Basic,
				code:    acc.Code,
				hasCode: acc.HasCode,
				reset:   acc.Reset,
			}
		}
		for _, entry := range encoded.Storages {
			lvl.storages[storageKey{entry.Address, entry.Key}] = entry.Value
		}
		for _, address := range encoded.Deletes {
			lvl.deletes[address] = struct{}{}
		}
		s.levels = append(s.levels, lvl)
	}
	return nil
}
