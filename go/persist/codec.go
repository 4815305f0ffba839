// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package persist encodes suspended executions into blobs and keeps them
// in durable stores between invocations.
package persist

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/klauspost/compress/zstd"
)

const (
	ErrInvalidHeader      = loom.ConstError("invalid blob header")
	ErrUnsupportedVersion = loom.ConstError("unsupported blob version")
)

const (
	magic   = "LOOM"
	version = 1

	headerSize = len(magic) + 2

	flagCompressed = 1
)

// Codec turns values into self-describing blobs: a magic, the format
// version, a flags byte and the RLP encoded payload, zstd compressed if
// Compression is set.
type Codec struct {
	Compression bool
}

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdErr     error
)

func zstdCoders() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil)
		if zstdErr != nil {
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil)
	})
	return zstdEncoder, zstdDecoder, zstdErr
}

// Serialize encodes the value, which must be RLP encodable.
func (c Codec) Serialize(value any) ([]byte, error) {
	payload, err := rlp.EncodeToBytes(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode: %w", err)
	}
	var flags byte
	if c.Compression {
		encoder, _, err := zstdCoders()
		if err != nil {
			return nil, err
		}
		payload = encoder.EncodeAll(payload, nil)
		flags |= flagCompressed
	}
	blob := make([]byte, 0, headerSize+len(payload))
	blob = append(blob, magic...)
	blob = append(blob, version, flags)
	return append(blob, payload...), nil
}

// Deserialize decodes a blob produced by Serialize into value. Blobs are
// decoded according to their own flags, independent of the codec setup.
func (c Codec) Deserialize(blob []byte, value any) error {
	if len(blob) < headerSize || !bytes.Equal(blob[:len(magic)], []byte(magic)) {
		return ErrInvalidHeader
	}
	if v := blob[len(magic)]; v != version {
		return fmt.Errorf("got version %d, supported is %d: %w", v, version, ErrUnsupportedVersion)
	}
	flags := blob[len(magic)+1]
	if flags&^flagCompressed != 0 {
		return fmt.Errorf("unknown flags 0x%x: %w", flags, ErrInvalidHeader)
	}
	payload := blob[headerSize:]
	if flags&flagCompressed != 0 {
		_, decoder, err := zstdCoders()
		if err != nil {
			return err
		}
		payload, err = decoder.DecodeAll(payload, nil)
		if err != nil {
			return fmt.Errorf("failed to decompress: %w", err)
		}
	}
	if err := rlp.DecodeBytes(payload, value); err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}
	return nil
}
