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
	"testing"

	"github.com/Fantom-foundation/Loom/go/loom"
)

func TestJumpTable_IgnoresPushData(t *testing.T) {
	code := loom.Code{
		byte(JUMPDEST),
		byte(PUSH1), byte(JUMPDEST),
		byte(PUSH32), 31: byte(JUMPDEST), 35: byte(JUMPDEST),
		36: byte(JUMPDEST),
	}
	table := analyzeJumpDests(code)
	want := map[uint64]bool{0: true, 2: false, 31: false, 36: true, 1000: false}
	for pos, isDest := range want {
		if got := table.isJumpDest(pos); got != isDest {
			t.Errorf("unexpected classification of position %d, wanted %t, got %t", pos, isDest, got)
		}
	}
}

func TestJumpTable_IsCachedByCodeHash(t *testing.T) {
	code := loom.Code{byte(PUSH1), 0, byte(JUMPDEST), 0x42}
	first := getJumpTable(code)
	if _, found := jumpTableCache.Get(loom.Keccak256(code)); !found {
		t.Fatalf("analysis result should be cached")
	}
	second := getJumpTable(code)
	if &first[0] != &second[0] {
		t.Errorf("cached analysis should be reused")
	}
	if getJumpTable(nil) != nil {
		t.Errorf("empty code should have no jump table")
	}
}
