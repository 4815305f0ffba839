// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package loom

// Config holds the chain rules applied during execution.
type Config struct {
	// CallStackLimit is the maximum nesting depth of calls and creates.
	CallStackLimit int
	// CreateContractLimit bounds the size of deployed code. Zero disables
	// the check.
	CreateContractLimit int
	// CreateIncreaseNonce makes freshly created accounts start at nonce 1.
	CreateIncreaseNonce bool
	// EmptyConsideredExists treats empty accounts as existing.
	EmptyConsideredExists bool
	// MemoryLimit bounds the memory of a single frame in bytes.
	MemoryLimit uint64
}

// DefaultConfig returns the Istanbul-like rules used on chain.
func DefaultConfig() Config {
	return Config{
		CallStackLimit:        1024,
		CreateContractLimit:   0x6000,
		CreateIncreaseNonce:   true,
		EmptyConsideredExists: false,
		MemoryLimit:           32 * 1024 * 1024,
	}
}
