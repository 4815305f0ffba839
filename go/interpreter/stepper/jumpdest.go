// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package stepper

import (
	"github.com/Fantom-foundation/Loom/go/loom"
	lru "github.com/hashicorp/golang-lru/v2"
)

// jumpTable is a bit-set marking the positions of JUMPDEST instructions
// that are not part of PUSH data.
type jumpTable []byte

func (t jumpTable) isJumpDest(pos uint64) bool {
	if pos/8 >= uint64(len(t)) {
		return false
	}
	return t[pos/8]&(1<<(pos%8)) != 0
}

func analyzeJumpDests(code loom.Code) jumpTable {
	res := make(jumpTable, (len(code)+7)/8)
	for i := 0; i < len(code); i++ {
		op := OpCode(code[i])
		if op == JUMPDEST {
			res[i/8] |= 1 << (i % 8)
		}
		i += op.Width() - 1
	}
	return res
}

const jumpTableCacheSize = 1 << 12

// jumpTableCache retains analysis results across runtimes executing the
// same code, including runtimes restored from persisted state.
var jumpTableCache = func() *lru.Cache[loom.Hash, jumpTable] {
	cache, err := lru.New[loom.Hash, jumpTable](jumpTableCacheSize)
	if err != nil {
		panic(err)
	}
	return cache
}()

func getJumpTable(code loom.Code) jumpTable {
	if len(code) == 0 {
		return nil
	}
	hash := loom.Keccak256(code)
	if res, found := jumpTableCache.Get(hash); found {
		return res
	}
	res := analyzeJumpDests(code)
	jumpTableCache.Add(hash, res)
	return res
}
