// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/Fantom-foundation/Loom/go/accounts"
	"github.com/Fantom-foundation/Loom/go/common/logging"
	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/Fantom-foundation/Loom/go/persist"
	"github.com/Fantom-foundation/Loom/go/processor/loader"
	"github.com/dsnet/golib/unitconv"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

var (
	codeFlag     = newHexFlag("code", "byte code of the contract, or the init code if deploying")
	inputFlag    = newHexFlag("input", "call data passed to the contract")
	callerFlag   = newAddressFlag("caller", "address of the sender", "0x00000000000000000000000000000000000000c0")
	contractFlag = newAddressFlag("contract", "address of the called contract", "0x00000000000000000000000000000000000000a0")
)

var EmulateCmd = cli.Command{
	Action: doEmulate,
	Name:   "emulate",
	Usage:  "Run a call or deployment through suspending invocations on emulated accounts",
	Flags: []cli.Flag{
		&codeFlag.flag,
		&inputFlag.flag,
		&callerFlag.flag,
		&contractFlag.flag,
		&cli.BoolFlag{
			Name:  "deploy",
			Usage: "deploy the code instead of calling it",
		},
		&cli.Uint64Flag{
			Name:  "steps",
			Usage: "steps per invocation, 0 runs the execution in a single invocation",
			Value: 10_000,
		},
		&cli.Uint64Flag{
			Name:  "nonce",
			Usage: "nonce of the sender",
		},
		&cli.BoolFlag{
			Name:  "compress",
			Usage: "compress the persisted executions",
			Value: true,
		},
		&CpuProfileFlag.flag,
	},
}

var emulatedProgram = accounts.Pubkey(crypto.Keccak256Hash([]byte("loom")))

// emulation describes a single execution on a fresh set of accounts.
type emulation struct {
	code     []byte
	input    []byte
	deploy   bool
	caller   loom.Address
	contract loom.Address
	nonce    uint64
	steps    uint64
	compress bool
	logger   zerolog.Logger
}

type emulationResult struct {
	outcome     loader.Outcome
	invocations int
	steps       uint64
	target      loom.Address
	code        loom.Code
}

func doEmulate(context *cli.Context) error {
	if filename := CpuProfileFlag.Fetch(context); filename != "" {
		f, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	code, err := codeFlag.Fetch(context)
	if err != nil {
		return err
	}
	input, err := inputFlag.Fetch(context)
	if err != nil {
		return err
	}
	caller, err := callerFlag.Fetch(context)
	if err != nil {
		return err
	}
	contract, err := contractFlag.Fetch(context)
	if err != nil {
		return err
	}

	e := emulation{
		code:     code,
		input:    input,
		deploy:   context.Bool("deploy"),
		caller:   caller,
		contract: contract,
		nonce:    context.Uint64("nonce"),
		steps:    context.Uint64("steps"),
		compress: context.Bool("compress"),
		logger:   logging.NewLogger("emulator"),
	}

	start := time.Now()
	res, err := e.run()
	if err != nil {
		return err
	}
	printResult(context.App.Writer, res, time.Since(start))
	return nil
}

func (e emulation) run() (emulationResult, error) {
	target := e.contract
	if e.deploy {
		target = createAddress(e.caller, e.nonce)
	}
	contractCode := e.code
	if e.deploy {
		contractCode = nil
	}
	infos, err := accounts.NewBuilder(emulatedProgram).
		Contract(target, 0, 0, contractCode, nil).
		User(e.caller, e.nonce, 1_000_000_000).
		Clock(accounts.Clock{Slot: 1, UnixTimestamp: time.Now().Unix()}).
		Build()
	if err != nil {
		return emulationResult{}, err
	}

	l := loader.New()
	l.Logger = e.logger
	l.StepsPerInvocation = e.steps
	l.Codec = persist.Codec{Compression: e.compress}
	store := persist.NewMemoryStore()

	var outcome loader.Outcome
	if e.deploy {
		outcome, err = l.Deploy(emulatedProgram, infos, e.code, store)
	} else {
		outcome, err = l.Call(emulatedProgram, infos, e.input, store)
	}
	res := emulationResult{target: target, invocations: 1}
	res.steps += outcome.Steps
	for err == nil && outcome.Status == loader.Suspended {
		outcome, err = l.Resume(emulatedProgram, infos, store)
		res.invocations++
		res.steps += outcome.Steps
	}
	if err != nil {
		return emulationResult{}, err
	}
	res.outcome = outcome

	if e.deploy && outcome.Reason.IsSucceed() {
		storage, err := accounts.New(emulatedProgram, infos, l.Layout, l.Logger)
		if err != nil {
			return emulationResult{}, err
		}
		if acc, found := storage.Resolve(target); found {
			res.code = acc.Code()
		}
	}
	return res, nil
}

func printResult(out io.Writer, res emulationResult, duration time.Duration) {
	rate := float64(res.steps) / duration.Seconds()
	fmt.Fprintf(out, "Result:      %v\n", res.outcome.Reason)
	fmt.Fprintf(out, "Return:      0x%x\n", []byte(res.outcome.ReturnValue))
	if res.code != nil {
		fmt.Fprintf(out, "Deployed:    %v, 0x%x\n", res.target, []byte(res.code))
	}
	for _, log := range res.outcome.Logs {
		fmt.Fprintf(out, "Log:         %v %v 0x%x\n", log.Address, log.Topics, []byte(log.Data))
	}
	fmt.Fprintf(out, "Invocations: %d\n", res.invocations)
	fmt.Fprintf(out, "Steps:       %d (~%s steps per second)\n", res.steps, unitconv.FormatPrefix(rate, unitconv.SI, 0))
}
