// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package accounts

import (
	"encoding/binary"
	"fmt"

	"github.com/Fantom-foundation/Loom/go/loom"
)

// ClockSize is the size of the clock account data.
const ClockSize = 40

// Clock is the content of the clock account.
type Clock struct {
	Slot                uint64
	EpochStartTimestamp int64
	Epoch               uint64
	LeaderScheduleEpoch uint64
	UnixTimestamp       int64
}

// ParseClock decodes the little-endian clock layout.
func ParseClock(data []byte) (Clock, error) {
	if len(data) < ClockSize {
		return Clock{}, fmt.Errorf("clock data has %d bytes, need %d: %w", len(data), ClockSize, loom.ErrInvalidAccountData)
	}
	return Clock{
		Slot:                binary.LittleEndian.Uint64(data[0:]),
		EpochStartTimestamp: int64(binary.LittleEndian.Uint64(data[8:])),
		Epoch:               binary.LittleEndian.Uint64(data[16:]),
		LeaderScheduleEpoch: binary.LittleEndian.Uint64(data[24:]),
		UnixTimestamp:       int64(binary.LittleEndian.Uint64(data[32:])),
	}, nil
}

func (c Clock) Bytes() []byte {
	data := make([]byte, ClockSize)
	binary.LittleEndian.PutUint64(data[0:], c.Slot)
	binary.LittleEndian.PutUint64(data[8:], uint64(c.EpochStartTimestamp))
	binary.LittleEndian.PutUint64(data[16:], c.Epoch)
	binary.LittleEndian.PutUint64(data[24:], c.LeaderScheduleEpoch)
	binary.LittleEndian.PutUint64(data[32:], uint64(c.UnixTimestamp))
	return data
}
