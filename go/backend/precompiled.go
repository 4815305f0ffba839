// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package backend

import (
	"math/big"

	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/ethereum/go-ethereum/common"
	geth "github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
)

// runPrecompiled executes the Istanbul precompiled contract at the given
// address, if there is one. Gas is not charged.
func runPrecompiled(address loom.Address, input loom.Data) (loom.CallFeedback, bool) {
	contract, found := geth.PrecompiledContractsIstanbul[common.Address(address)]
	if !found {
		return loom.CallFeedback{}, false
	}
	output, err := contract.Run(input)
	if err != nil {
		// precompiled contracts only fail on invalid input
		return loom.CallFeedback{Reason: loom.ExitError(loom.Other)}, true
	}
	return loom.CallFeedback{Reason: loom.ExitSucceed(loom.Returned), Output: output}, true
}

// ecrecover recovers the signer of a hash. The input is laid out as for
// the precompiled contract: hash, v, r and s as 32 byte words. The result
// is the left padded address, or empty if the signature is invalid.
func ecrecover(input loom.Data) loom.Data {
	const inputLength = 128
	in := common.RightPadBytes(input, inputLength)

	v := new(big.Int).SetBytes(in[32:64])
	r := new(big.Int).SetBytes(in[64:96])
	s := new(big.Int).SetBytes(in[96:128])
	if !v.IsUint64() || (v.Uint64() != 27 && v.Uint64() != 28) {
		return nil
	}
	recovery := byte(v.Uint64() - 27)
	if !crypto.ValidateSignatureValues(recovery, r, s, false) {
		return nil
	}

	sig := make([]byte, crypto.SignatureLength)
	copy(sig[0:32], in[64:96])
	copy(sig[32:64], in[96:128])
	sig[64] = recovery
	pub, err := crypto.SigToPub(in[:32], sig)
	if err != nil {
		return nil
	}
	return common.LeftPadBytes(crypto.PubkeyToAddress(*pub).Bytes(), 32)
}
