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
	"errors"
	"math"
	"testing"

	"github.com/Fantom-foundation/Loom/go/interpreter/stepper"
	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
)

var (
	sender    = loom.Address{0x5e}
	contractA = loom.Address{19: 0xa}
	contractB = loom.Address{19: 0xb}
)

func newTestMachine(t *testing.T, world map[loom.Address]testAccount, config loom.Config) *Machine {
	return New(newTestBackend(t, world), config, zerolog.Nop())
}

// runMachine executes the machine to its end and returns the reason and
// the largest number of frames observed.
func runMachine(t *testing.T, m *Machine) (loom.ExitReason, int) {
	t.Helper()
	maxFrames := len(m.frames)
	for i := 0; i < 10_000_000; i++ {
		reason, done := m.Step()
		maxFrames = max(maxFrames, len(m.frames))
		if done {
			return reason, maxFrames
		}
	}
	t.Fatalf("machine did not terminate")
	return loom.ExitReason{}, 0
}

func findApply(t *testing.T, applies []loom.Apply, address loom.Address) loom.Apply {
	t.Helper()
	for _, apply := range applies {
		if apply.Address == address {
			return apply
		}
	}
	t.Fatalf("no effect for %v", address)
	return loom.Apply{}
}

func storageOf(apply loom.Apply) map[loom.Key]loom.Word {
	res := map[loom.Key]loom.Word{}
	for _, entry := range apply.Storage {
		res[entry.Key] = entry.Value
	}
	return res
}

func deconstruct(t *testing.T, m *Machine) ([]loom.Apply, []loom.Log) {
	t.Helper()
	applies, logs, err := m.Deconstruct()
	if err != nil {
		t.Fatalf("failed to deconstruct: %v", err)
	}
	return applies, logs
}

func TestMachine_BeginRequiresEmptyMachine(t *testing.T) {
	world := map[loom.Address]testAccount{contractA: {code: asm(stepper.STOP)}}
	m := newTestMachine(t, world, loom.DefaultConfig())
	if err := m.CallBegin(sender, contractA, nil, 0); err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	if err := m.CallBegin(sender, contractA, nil, 0); !errors.Is(err, ErrMachineActive) {
		t.Errorf("expected ErrMachineActive, got %v", err)
	}
	if err := m.CreateBegin(sender, nil, 0); !errors.Is(err, ErrMachineActive) {
		t.Errorf("expected ErrMachineActive, got %v", err)
	}
	if _, _, err := m.Deconstruct(); !errors.Is(err, ErrMachineActive) {
		t.Errorf("expected ErrMachineActive, got %v", err)
	}
	if want, got := loom.ExitSucceed(loom.Stopped), m.Execute(); want != got {
		t.Errorf("unexpected reason, wanted %v, got %v", want, got)
	}
	if reason, done := m.Step(); !done || reason != loom.ExitSucceed(loom.Stopped) {
		t.Errorf("finished machine should report its result, got %v", reason)
	}
}

func TestMachine_StepOnUnusedMachineIsFatal(t *testing.T) {
	m := newTestMachine(t, nil, loom.DefaultConfig())
	if reason, done := m.Step(); !done || !reason.IsFatal() {
		t.Errorf("unexpected result %v, %t", reason, done)
	}
}

func TestMachine_CallBeginIncrementsCallerNonce(t *testing.T) {
	code := asm(push(42), push(0), stepper.MSTORE, push(32), push(0), stepper.RETURN)
	world := map[loom.Address]testAccount{sender: {nonce: 3}, contractA: {code: code}}
	m := newTestMachine(t, world, loom.DefaultConfig())
	if err := m.CallBegin(sender, contractA, nil, 100); err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	if want, got := loom.ExitSucceed(loom.Returned), m.Execute(); want != got {
		t.Errorf("unexpected reason, wanted %v, got %v", want, got)
	}
	if want, got := (loom.Word{31: 42}), loom.Word(m.ReturnValue()); want != got {
		t.Errorf("unexpected return value, wanted %v, got %v", want, got)
	}
	applies, _ := deconstruct(t, m)
	if want, got := uint64(4), findApply(t, applies, sender).Basic.Nonce; want != got {
		t.Errorf("unexpected nonce, wanted %d, got %d", want, got)
	}
}

// Deploying empty code succeeds and leaves empty code behind.
func TestMachine_DeployEmptyCode(t *testing.T) {
	for _, increaseNonce := range []bool{true, false} {
		config := loom.DefaultConfig()
		config.CreateIncreaseNonce = increaseNonce
		m := newTestMachine(t, map[loom.Address]testAccount{sender: {nonce: 7}}, config)
		if err := m.CreateBegin(sender, nil, 0); err != nil {
			t.Fatalf("failed to begin: %v", err)
		}
		if want, got := loom.ExitSucceed(loom.Stopped), m.Execute(); want != got {
			t.Errorf("unexpected reason, wanted %v, got %v", want, got)
		}
		if got := m.ReturnValue(); len(got) != 0 {
			t.Errorf("create must not have a return value, got %x", got)
		}

		target := loom.Address(crypto.CreateAddress(common.Address(sender), 7))
		applies, _ := deconstruct(t, m)
		created := findApply(t, applies, target)
		if created.Code == nil || len(*created.Code) != 0 {
			t.Errorf("code of created account must be set to empty")
		}
		wantNonce := uint64(0)
		if increaseNonce {
			wantNonce = 1
		}
		if got := created.Basic.Nonce; got != wantNonce {
			t.Errorf("unexpected nonce of created account, wanted %d, got %d", wantNonce, got)
		}
		if !created.ResetStorage {
			t.Errorf("storage of created account must be reset")
		}
		if want, got := uint64(8), findApply(t, applies, sender).Basic.Nonce; want != got {
			t.Errorf("unexpected sender nonce, wanted %d, got %d", want, got)
		}
	}
}

// A create colliding with an existing account fails without starting a
// frame but keeps the nonce increment of the caller.
func TestMachine_CreateCollision(t *testing.T) {
	target := loom.Address(crypto.CreateAddress(common.Address(sender), 2))
	tests := map[string]testAccount{
		"code":  {code: asm(stepper.STOP)},
		"nonce": {nonce: 1},
	}
	for name, existing := range tests {
		t.Run(name, func(t *testing.T) {
			world := map[loom.Address]testAccount{sender: {nonce: 2}, target: existing}
			m := newTestMachine(t, world, loom.DefaultConfig())
			err := m.CreateBegin(sender, asm(stepper.STOP), 0)
			if !errors.Is(err, ErrCreateFailed) {
				t.Fatalf("expected ErrCreateFailed, got %v", err)
			}
			if m.Active() {
				t.Fatalf("no frame must be started")
			}
			applies, _ := deconstruct(t, m)
			if want, got := uint64(3), findApply(t, applies, sender).Basic.Nonce; want != got {
				t.Errorf("unexpected sender nonce, wanted %d, got %d", want, got)
			}
			if err := m.CallBegin(sender, target, nil, 0); err != nil {
				t.Errorf("machine should accept a new execution: %v", err)
			}
		})
	}
}

// recursive calls itself with its depth, given as input, incremented and
// stores the result of the call under its depth.
var recursive = asm(
	push(0), stepper.CALLDATALOAD,
	push(1), stepper.ADD,
	push(0), stepper.MSTORE,
	push(0), push(0), push(32), push(0), push(0), stepper.ADDRESS, stepper.GAS, stepper.CALL,
	push(0), stepper.CALLDATALOAD,
	stepper.SSTORE,
	stepper.STOP,
)

// The call exceeding the depth limit fails within its caller.
func TestMachine_CallDepthLimit(t *testing.T) {
	config := loom.DefaultConfig()
	world := map[loom.Address]testAccount{contractA: {code: recursive}}
	m := newTestMachine(t, world, config)
	if err := m.CallBegin(sender, contractA, make([]byte, 32), 0); err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	reason, maxFrames := runMachine(t, m)
	if want := loom.ExitSucceed(loom.Stopped); want != reason {
		t.Errorf("unexpected reason, wanted %v, got %v", want, reason)
	}
	if want := config.CallStackLimit + 1; want != maxFrames {
		t.Errorf("unexpected maximum number of frames, wanted %d, got %d", want, maxFrames)
	}

	applies, _ := deconstruct(t, m)
	storage := storageOf(findApply(t, applies, contractA))
	if want, got := config.CallStackLimit+1, len(storage); want != got {
		t.Errorf("unexpected number of results, wanted %d, got %d", want, got)
	}
	key := func(depth int) loom.Key {
		return loom.Key{30: byte(depth >> 8), 31: byte(depth)}
	}
	if got := storage[key(config.CallStackLimit)]; got != (loom.Word{}) {
		t.Errorf("call beyond the limit should have failed")
	}
	for depth := 0; depth < config.CallStackLimit; depth++ {
		if got := storage[key(depth)]; got != (loom.Word{31: 1}) {
			t.Fatalf("call at depth %d should have succeeded", depth)
		}
	}
}

func TestMachine_RevertedFrameIsIsolated(t *testing.T) {
	reverting := asm(
		push(1), push(0), stepper.SSTORE,
		push(0x2a), push(0), stepper.MSTORE,
		push(32), push(0), stepper.REVERT,
	)
	calling := asm(
		push(32), push(0), push(0), push(0), push(0), push(0xb), stepper.GAS, stepper.CALL,
		push(2), stepper.SSTORE,
		push(0), stepper.MLOAD, push(1), stepper.SSTORE,
		stepper.STOP,
	)
	world := map[loom.Address]testAccount{contractA: {code: calling}, contractB: {code: reverting}}
	m := newTestMachine(t, world, loom.DefaultConfig())
	if err := m.CallBegin(sender, contractA, nil, 0); err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	if reason, _ := runMachine(t, m); !reason.IsSucceed() {
		t.Fatalf("unexpected reason %v", reason)
	}

	applies, _ := deconstruct(t, m)
	for _, apply := range applies {
		if apply.Address == contractB {
			t.Errorf("reverted frame left effects: %+v", apply)
		}
	}
	storage := storageOf(findApply(t, applies, contractA))
	if want, got := (loom.Word{31: 0x2a}), storage[loom.Key{31: 1}]; want != got {
		t.Errorf("revert data not delivered, wanted %v, got %v", want, got)
	}
	if got := storage[loom.Key{31: 2}]; got != (loom.Word{}) {
		t.Errorf("reverted call should report failure, got %v", got)
	}
}

func TestMachine_RevertAtTopLevelKeepsReturnValue(t *testing.T) {
	code := asm(push(0x2a), push(0), stepper.MSTORE, push(32), push(0), stepper.REVERT)
	m := newTestMachine(t, map[loom.Address]testAccount{contractA: {code: code}}, loom.DefaultConfig())
	if err := m.CallBegin(sender, contractA, nil, 0); err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	if want, got := loom.ExitRevert(), m.Execute(); want != got {
		t.Errorf("unexpected reason, wanted %v, got %v", want, got)
	}
	if want, got := (loom.Word{31: 0x2a}), loom.Word(m.ReturnValue()); want != got {
		t.Errorf("unexpected return value, wanted %v, got %v", want, got)
	}
}

// creating deploys a contract with two zero bytes of code and stores the
// address of the new contract.
var creating = asm(
	stepper.PUSH1+4, []byte{byte(stepper.PUSH1), 2, byte(stepper.PUSH1), 0, byte(stepper.RETURN)},
	push(0), stepper.MSTORE,
	push(5), push(27), push(0), stepper.CREATE,
	push(0), stepper.SSTORE,
	stepper.STOP,
)

func TestMachine_NestedCreateDeploysCode(t *testing.T) {
	world := map[loom.Address]testAccount{contractA: {nonce: 1, code: creating}}
	m := newTestMachine(t, world, loom.DefaultConfig())
	if err := m.CallBegin(sender, contractA, nil, 0); err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	reason, maxFrames := runMachine(t, m)
	if !reason.IsSucceed() || maxFrames != 2 {
		t.Fatalf("unexpected result %v with %d frames", reason, maxFrames)
	}

	target := loom.Address(crypto.CreateAddress(common.Address(contractA), 1))
	applies, _ := deconstruct(t, m)
	created := findApply(t, applies, target)
	if created.Code == nil || !bytes.Equal(*created.Code, []byte{0, 0}) {
		t.Errorf("unexpected deployed code %v", created.Code)
	}
	var want loom.Word
	copy(want[12:], target[:])
	if got := storageOf(findApply(t, applies, contractA))[loom.Key{}]; want != got {
		t.Errorf("unexpected stored address, wanted %v, got %v", want, got)
	}
	if want, got := uint64(2), findApply(t, applies, contractA).Basic.Nonce; want != got {
		t.Errorf("unexpected creator nonce, wanted %d, got %d", want, got)
	}
}

func TestMachine_OversizedCodeFailsCreate(t *testing.T) {
	config := loom.DefaultConfig()
	config.CreateContractLimit = 1
	world := map[loom.Address]testAccount{contractA: {code: creating}}
	m := newTestMachine(t, world, config)
	if err := m.CallBegin(sender, contractA, nil, 0); err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	if reason, _ := runMachine(t, m); !reason.IsSucceed() {
		t.Fatalf("unexpected reason %v", reason)
	}

	target := loom.Address(crypto.CreateAddress(common.Address(contractA), 0))
	applies, _ := deconstruct(t, m)
	if code := findApply(t, applies, target).Code; code != nil {
		t.Errorf("failed create must not deploy code, got %x", *code)
	}
	if got := storageOf(findApply(t, applies, contractA))[loom.Key{}]; got != (loom.Word{}) {
		t.Errorf("failed create should push zero, got %v", got)
	}
}

func TestMachine_TopLevelCreateWithOversizedCodeFails(t *testing.T) {
	config := loom.DefaultConfig()
	config.CreateContractLimit = 1
	m := newTestMachine(t, map[loom.Address]testAccount{}, config)
	if err := m.CreateBegin(sender, asm(push(2), push(0), stepper.RETURN), 0); err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	if want, got := loom.ExitError(loom.CreateContractLimit), m.Execute(); want != got {
		t.Errorf("unexpected reason, wanted %v, got %v", want, got)
	}
}

func TestMachine_CallWithoutFundsFailsInCaller(t *testing.T) {
	code := asm(
		push(0), push(0), push(0), push(0), push(100), push(0xb), stepper.GAS, stepper.CALL,
		push(0), stepper.SSTORE,
		push(1), push(1), stepper.SSTORE,
		stepper.STOP,
	)
	world := map[loom.Address]testAccount{contractA: {balance: 99, code: code}, contractB: {code: asm(stepper.STOP)}}
	m := newTestMachine(t, world, loom.DefaultConfig())
	if err := m.CallBegin(sender, contractA, nil, 0); err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	reason, maxFrames := runMachine(t, m)
	if !reason.IsSucceed() || maxFrames != 1 {
		t.Fatalf("unexpected result %v with %d frames", reason, maxFrames)
	}
	applies, _ := deconstruct(t, m)
	a := findApply(t, applies, contractA)
	if want, got := loom.NewValue(99), a.Basic.Balance; want != got {
		t.Errorf("unexpected balance, wanted %v, got %v", want, got)
	}
	storage := storageOf(a)
	if storage[loom.Key{}] != (loom.Word{}) || storage[loom.Key{31: 1}] != (loom.Word{31: 1}) {
		t.Errorf("unexpected storage %v", storage)
	}
}

func TestMachine_ValueIsTransferredWithCall(t *testing.T) {
	code := asm(
		push(0), push(0), push(0), push(0), push(60), push(0xb), stepper.GAS, stepper.CALL,
		stepper.STOP,
	)
	world := map[loom.Address]testAccount{contractA: {balance: 100, code: code}, contractB: {code: asm(stepper.STOP)}}
	m := newTestMachine(t, world, loom.DefaultConfig())
	if err := m.CallBegin(sender, contractA, nil, 0); err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	if reason := m.Execute(); !reason.IsSucceed() {
		t.Fatalf("unexpected reason %v", reason)
	}
	applies, _ := deconstruct(t, m)
	if want, got := loom.NewValue(40), findApply(t, applies, contractA).Basic.Balance; want != got {
		t.Errorf("unexpected balance, wanted %v, got %v", want, got)
	}
	if want, got := loom.NewValue(60), findApply(t, applies, contractB).Basic.Balance; want != got {
		t.Errorf("unexpected balance, wanted %v, got %v", want, got)
	}
}

func TestMachine_ErrorDiscardsFrameChanges(t *testing.T) {
	code := asm(push(1), push(0), stepper.SSTORE, stepper.INVALID)
	m := newTestMachine(t, map[loom.Address]testAccount{contractA: {code: code}}, loom.DefaultConfig())
	if err := m.CallBegin(sender, contractA, nil, 0); err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	if want, got := loom.ExitError(loom.DesignatedInvalid), m.Execute(); want != got {
		t.Errorf("unexpected reason, wanted %v, got %v", want, got)
	}
	applies, _ := deconstruct(t, m)
	for _, apply := range applies {
		if apply.Address == contractA {
			t.Errorf("failed frame left effects: %+v", apply)
		}
	}
}

func TestMachine_ExecuteNStopsAfterGivenSteps(t *testing.T) {
	world := map[loom.Address]testAccount{contractA: {code: recursive}}
	m := newTestMachine(t, world, loom.DefaultConfig())
	if err := m.CallBegin(sender, contractA, make([]byte, 32), math.MaxUint64); err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	if _, done := m.ExecuteN(20); done {
		t.Fatalf("execution should not be finished")
	}
	if !m.Active() {
		t.Errorf("machine should still be active")
	}
	if _, done := m.ExecuteN(0); done {
		t.Errorf("zero steps must not finish the execution")
	}
	if _, done := m.ExecuteN(math.MaxUint64); !done {
		t.Errorf("execution should be finished")
	}
}

func TestMachine_RejectedDeliveryAbortsExecution(t *testing.T) {
	config := loom.DefaultConfig()
	world := map[loom.Address]testAccount{contractA: {code: asm(stepper.STOP)}}
	m := newTestMachine(t, world, config)
	if err := m.CallBegin(sender, contractA, nil, 0); err != nil {
		t.Fatalf("failed to begin: %v", err)
	}

	// The bottom frame never issued a call, so it does not accept a result.
	m.state().Enter(math.MaxUint64, false)
	context := loom.Context{Address: contractB, Caller: contractA}
	m.push(&frame{kind: frameCall, runtime: stepper.New(asm(stepper.STOP), nil, context, false, config)})

	reason, done := m.Step()
	if !done {
		t.Fatalf("execution should have terminated")
	}
	if want := loom.ExitFatal(loom.NotSupported); want != reason {
		t.Errorf("unexpected reason, wanted %v, got %v", want, reason)
	}
	if m.Active() {
		t.Errorf("no frame must remain")
	}
	if want, got := 0, m.state().Substate().Entered(); want != got {
		t.Errorf("unexpected number of entered levels, wanted %d, got %d", want, got)
	}
}
