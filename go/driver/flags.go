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
	"strings"

	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
)

type logLevelFlagType struct {
	flag cli.StringFlag
}

var LogLevelFlag = logLevelFlagType{
	cli.StringFlag{
		Name:  "log-level",
		Usage: "log level of the console output (trace, debug, info, warn, error)",
	},
}

func (f *logLevelFlagType) Fetch(context *cli.Context) string {
	return context.String(f.flag.Name)
}

type hexFlagType struct {
	flag cli.StringFlag
}

func newHexFlag(name, usage string) hexFlagType {
	return hexFlagType{cli.StringFlag{Name: name, Usage: usage}}
}

// Fetch decodes the flag value. The 0x prefix is optional.
func (f *hexFlagType) Fetch(context *cli.Context) ([]byte, error) {
	value := context.String(f.flag.Name)
	if value == "" {
		return nil, nil
	}
	if !strings.HasPrefix(value, "0x") && !strings.HasPrefix(value, "0X") {
		value = "0x" + value
	}
	res, err := hexutil.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("invalid value of --%s: %w", f.flag.Name, err)
	}
	return res, nil
}

type addressFlagType struct {
	flag cli.StringFlag
}

func newAddressFlag(name, usage, value string) addressFlagType {
	return addressFlagType{cli.StringFlag{Name: name, Usage: usage, Value: value}}
}

func (f *addressFlagType) Fetch(context *cli.Context) (loom.Address, error) {
	value := context.String(f.flag.Name)
	if !common.IsHexAddress(value) {
		return loom.Address{}, fmt.Errorf("invalid address in --%s: %q", f.flag.Name, value)
	}
	return loom.Address(common.HexToAddress(value)), nil
}

type cpuProfileType struct {
	flag cli.StringFlag
}

var CpuProfileFlag = cpuProfileType{
	cli.StringFlag{
		Name:      "cpuprofile",
		Usage:     "store CPU profile in the provided filename",
		TakesFile: true,
	},
}

func (f *cpuProfileType) Fetch(context *cli.Context) string {
	return context.String(f.flag.Name)
}
