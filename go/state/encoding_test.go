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
	"errors"
	"testing"

	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/ethereum/go-ethereum/rlp"
)

func TestEncoding_RestoredSubstateIsEquivalent(t *testing.T) {
	s := newTestState(t)
	s.Enter(7, false)
	s.SetStorage(bob, loom.Key{31: 1}, loom.Word{31: 8})
	s.SetCode(carol, loom.Code{})
	s.Log(bob, []loom.Hash{{2}}, loom.Data{3})
	s.Enter(9, true)
	s.ResetStorage(alice)
	s.IncNonce(alice)
	s.SetDeleted(bob)

	blob, err := rlp.EncodeToBytes(s.Substate())
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	restored := new(Substate)
	if err := rlp.DecodeBytes(blob, restored); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	again, err := rlp.EncodeToBytes(restored)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	if !bytes.Equal(blob, again) {
		t.Errorf("re-encoded substate differs")
	}

	r := NewExecutorState(s.Backend(), restored)
	if depth, _ := r.Depth(); depth != 1 || !r.IsStatic() || restored.GasLimit() != 9 {
		t.Errorf("unexpected level metadata")
	}
	if want, got := s.Basic(alice), r.Basic(alice); want != got {
		t.Errorf("unexpected basic, wanted %v, got %v", want, got)
	}
	if want, got := s.Storage(bob, loom.Key{31: 1}), r.Storage(bob, loom.Key{31: 1}); want != got {
		t.Errorf("unexpected storage, wanted %v, got %v", want, got)
	}
	if !r.Deleted(bob) || r.OriginalStorage(alice, loom.Key{}) != (loom.Word{}) {
		t.Errorf("unexpected restored flags")
	}
	if err := r.ExitDiscard(); err != nil {
		t.Fatalf("failed to discard: %v", err)
	}
	if r.Deleted(bob) || r.Basic(alice).Nonce != 1 {
		t.Errorf("discarding restored level did not restore view")
	}
}

func TestEncoding_EncodingIsDeterministic(t *testing.T) {
	build := func(order []loom.Address) []byte {
		s := newTestState(t)
		for i, address := range order {
			s.SetStorage(address, loom.Key{byte(i)}, loom.Word{1})
			s.Touch(address)
			s.SetDeleted(address)
		}
		blob, err := rlp.EncodeToBytes(s.Substate())
		if err != nil {
			t.Fatalf("failed to encode: %v", err)
		}
		return blob
	}
	a := build([]loom.Address{alice, bob, carol})
	b := build([]loom.Address{alice, bob, carol})
	if !bytes.Equal(a, b) {
		t.Errorf("encoding is not deterministic")
	}
}

func TestEncoding_MissingRootIsRejected(t *testing.T) {
	blob, err := rlp.EncodeToBytes([]levelState{})
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	if err := rlp.DecodeBytes(blob, new(Substate)); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("expected ErrInvalidEncoding, got %v", err)
	}
}
