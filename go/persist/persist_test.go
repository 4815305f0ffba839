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
	"bytes"
	"errors"
	"testing"

	"github.com/Fantom-foundation/Loom/go/accounts"
	"pgregory.net/rand"
)

type record struct {
	Name   string
	Values []uint64
	Blob   []byte
}

func TestCodec_RoundTrip(t *testing.T) {
	rnd := rand.New(0)
	in := record{Name: "frame", Values: []uint64{1, 2, 3}, Blob: make([]byte, 4096)}
	for i := range in.Blob {
		// compressible content
		in.Blob[i] = byte(rnd.Intn(4))
	}

	for _, compression := range []bool{false, true} {
		codec := Codec{Compression: compression}
		blob, err := codec.Serialize(&in)
		if err != nil {
			t.Fatalf("failed to serialize: %v", err)
		}
		var out record
		// blobs are self describing, any codec can read them
		if err := (Codec{}).Deserialize(blob, &out); err != nil {
			t.Fatalf("failed to deserialize: %v", err)
		}
		if in.Name != out.Name || len(in.Values) != len(out.Values) || !bytes.Equal(in.Blob, out.Blob) {
			t.Errorf("compression %t: unexpected result %+v", compression, out)
		}
		if compression && len(blob) >= len(in.Blob) {
			t.Errorf("compressed blob has %d bytes", len(blob))
		}
	}
}

func TestCodec_RejectsInvalidBlobs(t *testing.T) {
	valid, err := Codec{}.Serialize(&record{Name: "x"})
	if err != nil {
		t.Fatalf("failed to serialize: %v", err)
	}
	modified := func(pos int, value byte) []byte {
		res := bytes.Clone(valid)
		res[pos] = value
		return res
	}

	tests := map[string]struct {
		blob []byte
		want error
	}{
		"empty":         {nil, ErrInvalidHeader},
		"short":         {valid[:3], ErrInvalidHeader},
		"wrong magic":   {modified(0, 'X'), ErrInvalidHeader},
		"wrong version": {modified(4, 2), ErrUnsupportedVersion},
		"unknown flags": {modified(5, 0x80), ErrInvalidHeader},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var out record
			if err := (Codec{}).Deserialize(test.blob, &out); !errors.Is(err, test.want) {
				t.Errorf("unexpected error, wanted %v, got %v", test.want, err)
			}
		})
	}

	var out record
	if err := (Codec{}).Deserialize(modified(5, flagCompressed), &out); err == nil {
		t.Errorf("uncompressed payload flagged as compressed should fail")
	}
}

func TestStores_KeepLastWrittenBlob(t *testing.T) {
	stores := map[string]Store{
		"memory":  NewMemoryStore(),
		"account": NewAccountStore(&accounts.AccountInfo{Data: make([]byte, 64)}),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Read(); !errors.Is(err, ErrEmptyStore) {
				t.Errorf("expected ErrEmptyStore, got %v", err)
			}
			for _, blob := range [][]byte{{1, 2, 3}, {4}} {
				if err := store.Write(blob); err != nil {
					t.Fatalf("failed to write: %v", err)
				}
				got, err := store.Read()
				if err != nil || !bytes.Equal(got, blob) {
					t.Errorf("unexpected content %x, %v", got, err)
				}
			}
			if err := store.Write(nil); err != nil {
				t.Fatalf("failed to clear: %v", err)
			}
			if _, err := store.Read(); !errors.Is(err, ErrEmptyStore) {
				t.Errorf("expected ErrEmptyStore after clearing, got %v", err)
			}
		})
	}
}

func TestAccountStore_RejectsOversizedBlobs(t *testing.T) {
	info := &accounts.AccountInfo{Data: make([]byte, 16)}
	store := NewAccountStore(info)
	if want, got := 8, store.Capacity(); want != got {
		t.Errorf("unexpected capacity, wanted %d, got %d", want, got)
	}
	if err := store.Write(make([]byte, 9)); !errors.Is(err, ErrDataTooLarge) {
		t.Errorf("expected ErrDataTooLarge, got %v", err)
	}
	info.Data[0] = 200
	if _, err := store.Read(); !errors.Is(err, ErrDataTooLarge) {
		t.Errorf("expected ErrDataTooLarge for corrupted length, got %v", err)
	}
	if err := NewAccountStore(&accounts.AccountInfo{}).Write(nil); !errors.Is(err, ErrDataTooLarge) {
		t.Errorf("expected ErrDataTooLarge for account without data, got %v", err)
	}
}
