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

	"github.com/Fantom-foundation/Loom/go/accounts"
	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"
)

var (
	saltFlag     = newHexFlag("salt", "salt of a CREATE2 deployment")
	initCodeFlag = newHexFlag("init-code", "init code of a CREATE2 deployment")
)

var AddressCmd = cli.Command{
	Action: doAddress,
	Name:   "address",
	Usage:  "Derive the address of a created contract or of a host key",
	Flags: []cli.Flag{
		&callerFlag.flag,
		&cli.Uint64Flag{
			Name:  "nonce",
			Usage: "nonce of the creator",
		},
		&saltFlag.flag,
		&initCodeFlag.flag,
		&cli.StringFlag{
			Name:  "pubkey",
			Usage: "base58 encoded host key to derive the address of",
		},
	},
}

func doAddress(context *cli.Context) error {
	if key := context.String("pubkey"); key != "" {
		pubkey, err := accounts.ParsePubkey(key)
		if err != nil {
			return err
		}
		fmt.Fprintln(context.App.Writer, accounts.EtherAddress(pubkey))
		return nil
	}

	caller, err := callerFlag.Fetch(context)
	if err != nil {
		return err
	}
	salt, err := saltFlag.Fetch(context)
	if err != nil {
		return err
	}
	if salt == nil {
		fmt.Fprintln(context.App.Writer, createAddress(caller, context.Uint64("nonce")))
		return nil
	}
	if len(salt) > 32 {
		return fmt.Errorf("salt of %d bytes exceeds 32 bytes", len(salt))
	}
	initCode, err := initCodeFlag.Fetch(context)
	if err != nil {
		return err
	}
	fmt.Fprintln(context.App.Writer, create2Address(caller, loom.Hash(common.LeftPadBytes(salt, 32)), initCode))
	return nil
}

func createAddress(caller loom.Address, nonce uint64) loom.Address {
	return loom.Address(crypto.CreateAddress(common.Address(caller), nonce))
}

func create2Address(caller loom.Address, salt loom.Hash, initCode []byte) loom.Address {
	return loom.Address(crypto.CreateAddress2(common.Address(caller), salt, crypto.Keccak256(initCode)))
}
