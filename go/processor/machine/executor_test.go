// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package machine

import (
	"bytes"
	"testing"

	"github.com/Fantom-foundation/Loom/go/interpreter/stepper"
	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/Fantom-foundation/Loom/go/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

type testAccount struct {
	nonce   uint64
	balance uint64
	code    loom.Code
	storage map[loom.Key]loom.Word
}

// newTestBackend creates a backend serving the given accounts.
func newTestBackend(t *testing.T, world map[loom.Address]testAccount) *loom.MockBackend {
	ctrl := gomock.NewController(t)
	backend := loom.NewMockBackend(ctrl)
	backend.EXPECT().Basic(gomock.Any()).DoAndReturn(func(address loom.Address) loom.Basic {
		acc := world[address]
		return loom.Basic{Balance: loom.NewValue(acc.balance), Nonce: acc.nonce}
	}).AnyTimes()
	backend.EXPECT().Code(gomock.Any()).DoAndReturn(func(address loom.Address) loom.Code {
		return world[address].code
	}).AnyTimes()
	backend.EXPECT().Storage(gomock.Any(), gomock.Any()).DoAndReturn(func(address loom.Address, key loom.Key) loom.Word {
		return world[address].storage[key]
	}).AnyTimes()
	backend.EXPECT().Exists(gomock.Any()).DoAndReturn(func(address loom.Address) bool {
		_, found := world[address]
		return found
	}).AnyTimes()
	backend.EXPECT().CallInner(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(loom.CallFeedback{}, false).AnyTimes()
	return backend
}

func newTestExecutor(t *testing.T, world map[loom.Address]testAccount, config loom.Config) *executor {
	st := state.NewExecutorState(newTestBackend(t, world), state.NewSubstate(0, false))
	return newExecutor(st, config, zerolog.Nop())
}

func TestExecutor_Create2AddressMatchesReferenceVectors(t *testing.T) {
	tests := []struct {
		caller   string
		salt     string
		initCode []byte
		want     string
	}{
		{"0x0000000000000000000000000000000000000000", "0x00", []byte{0x00}, "0x4D1A2e2bB4F88F0250f26Ffff098B0b30B26BF38"},
		{"0xdeadbeef00000000000000000000000000000000", "0x00", []byte{0x00}, "0xB928f69Bb1D91Cd65274e3c79d8986362984fDA3"},
		{"0xdeadbeef00000000000000000000000000000000", "0x000000000000000000000000feed000000000000000000000000000000000000", []byte{0x00}, "0xD04116cDd17beBE565EB2422F2497E06cC1C9833"},
		{"0x0000000000000000000000000000000000000000", "0x00", []byte{0xde, 0xad, 0xbe, 0xef}, "0x70f2b2914A2a4b783FaEFb75f459A580616Fcb5e"},
	}
	e := newTestExecutor(t, nil, loom.DefaultConfig())
	for _, test := range tests {
		caller := loom.Address(common.HexToAddress(test.caller))
		salt := loom.Hash(common.HexToHash(test.salt))
		scheme := loom.CreateScheme{Kind: loom.Create2, Caller: caller, Salt: salt, CodeHash: loom.Keccak256(test.initCode)}

		got := e.createAddress(scheme)
		if want := loom.Address(common.HexToAddress(test.want)); want != got {
			t.Errorf("unexpected address, wanted %v, got %v", want, got)
		}
		hash := loom.Keccak256([]byte{0xff}, caller[:], salt[:], scheme.CodeHash[:])
		if loom.Address(hash[12:]) != got {
			t.Errorf("address is not derived from the hash suffix")
		}
	}
}

func TestExecutor_LegacyCreateAddressMatchesReferenceVectors(t *testing.T) {
	caller := loom.Address(common.HexToAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0"))
	want := []string{
		"0xcd234a471b72ba2f1ccf0a70fcaba648a5eecd8d",
		"0x343c43a37d37dff08ae8c4a11544c718abb4fcf8",
		"0xf778b86fa74e846c4f0a1fbd1335fe81c00a0c91",
	}
	for nonce, address := range want {
		world := map[loom.Address]testAccount{caller: {nonce: uint64(nonce)}}
		e := newTestExecutor(t, world, loom.DefaultConfig())
		got := e.createAddress(loom.CreateScheme{Kind: loom.CreateLegacy, Caller: caller})
		if want := loom.Address(common.HexToAddress(address)); want != got {
			t.Errorf("nonce %d: unexpected address, wanted %v, got %v", nonce, want, got)
		}
	}
}

func TestExecutor_FixedCreateAddressIsUsedAsIs(t *testing.T) {
	e := newTestExecutor(t, nil, loom.DefaultConfig())
	want := loom.Address{1, 2, 3}
	if got := e.createAddress(loom.CreateScheme{Kind: loom.CreateFixed, Address: want}); want != got {
		t.Errorf("unexpected address, wanted %v, got %v", want, got)
	}
}

func TestExecutor_CreateCollisionKeepsNonceIncrement(t *testing.T) {
	caller := loom.Address{1}
	target := loom.Address(crypto.CreateAddress(common.Address(caller), 0))
	tests := map[string]testAccount{
		"code":  {code: loom.Code{0x00}},
		"nonce": {nonce: 1},
	}
	for name, existing := range tests {
		t.Run(name, func(t *testing.T) {
			e := newTestExecutor(t, map[loom.Address]testAccount{caller: {}, target: existing}, loom.DefaultConfig())
			e.state.Enter(0, false)
			feedback := e.Create(caller, loom.CreateScheme{Kind: loom.CreateLegacy, Caller: caller}, loom.Value{}, nil, nil)
			if feedback.Trap != nil || feedback.Reason != loom.ExitError(loom.CreateCollision) || feedback.Address != nil {
				t.Errorf("unexpected feedback %+v", feedback)
			}
			if want, got := uint64(1), e.state.Basic(caller).Nonce; want != got {
				t.Errorf("unexpected caller nonce, wanted %d, got %d", want, got)
			}
		})
	}
}

func TestExecutor_DepthLimitIsEnforced(t *testing.T) {
	config := loom.DefaultConfig()
	config.CallStackLimit = 2
	e := newTestExecutor(t, nil, config)
	call := func() loom.CallFeedback {
		return e.Call(loom.Address{1}, nil, nil, nil, false, loom.Context{})
	}
	create := func() loom.CreateFeedback {
		return e.Create(loom.Address{1}, loom.CreateScheme{Kind: loom.CreateFixed, Address: loom.Address{2}}, loom.Value{}, nil, nil)
	}

	for depth := 0; depth < 3; depth++ {
		e.state.Enter(0, false)
		tooDeep := depth+1 > config.CallStackLimit
		if got := call(); (got.Trap == nil) != tooDeep {
			t.Errorf("depth %d: unexpected call feedback %+v", depth, got)
		}
		if got := create(); (got.Trap == nil) != tooDeep {
			t.Errorf("depth %d: unexpected create feedback %+v", depth, got)
		}
		if tooDeep {
			if want, got := loom.ExitError(loom.CallTooDeep), call().Reason; want != got {
				t.Errorf("unexpected reason, wanted %v, got %v", want, got)
			}
		}
	}
}

func TestExecutor_ExistenceRule(t *testing.T) {
	empty := loom.Address{1}
	used := loom.Address{2}
	world := map[loom.Address]testAccount{empty: {}, used: {balance: 1}}

	tests := map[string]struct {
		emptyExists bool
		address     loom.Address
		want        bool
	}{
		"missing":                {false, loom.Address{3}, false},
		"empty":                  {false, empty, false},
		"empty considered exist": {true, empty, true},
		"used":                   {false, used, true},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			config := loom.DefaultConfig()
			config.EmptyConsideredExists = test.emptyExists
			e := newTestExecutor(t, world, config)
			if got := e.Exists(test.address); got != test.want {
				t.Errorf("unexpected existence, wanted %t, got %t", test.want, got)
			}
			wantHash := loom.Hash{}
			if test.want {
				wantHash = loom.EmptyCodeHash
			}
			if got := e.CodeHash(test.address); got != wantHash {
				t.Errorf("unexpected code hash, wanted %v, got %v", wantHash, got)
			}
		})
	}
}

func TestExecutor_MarkDeleteMovesBalance(t *testing.T) {
	victim := loom.Address{1}
	beneficiary := loom.Address{2}
	e := newTestExecutor(t, map[loom.Address]testAccount{victim: {balance: 10}}, loom.DefaultConfig())
	e.state.Enter(0, false)
	if err := e.MarkDelete(victim, beneficiary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Balance(victim).IsZero() || e.Balance(beneficiary) != loom.NewValue(10) || !e.Deleted(victim) {
		t.Errorf("unexpected state after self destruct")
	}
}

func TestExecutor_CallsMayBeCompletedByBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := loom.NewMockBackend(ctrl)
	backend.EXPECT().CallInner(loom.Address{1}, nil, loom.Data{2}, true, loom.Context{}).
		Return(loom.CallFeedback{Reason: loom.ExitSucceed(loom.Returned), Output: loom.Data{3}}, true)

	e := newExecutor(state.NewExecutorState(backend, state.NewSubstate(0, false)), loom.DefaultConfig(), zerolog.Nop())
	got := e.Call(loom.Address{1}, nil, loom.Data{2}, nil, true, loom.Context{})
	if got.Trap != nil || !got.Reason.IsSucceed() || !bytes.Equal(got.Output, []byte{3}) {
		t.Errorf("unexpected feedback %+v", got)
	}
}

// asm assembles op codes, raw bytes and byte sized integers.
func asm(items ...any) []byte {
	var res []byte
	for _, item := range items {
		switch v := item.(type) {
		case stepper.OpCode:
			res = append(res, byte(v))
		case int:
			res = append(res, byte(v))
		case []byte:
			res = append(res, v...)
		}
	}
	return res
}

func push(value int) []byte {
	return []byte{byte(stepper.PUSH1), byte(value)}
}
