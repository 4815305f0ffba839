// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package loom contains the types and interfaces shared by the resumable
// EVM execution engine: account and storage value types, exit reasons,
// the host interfaces an interpreter talks to, and the effect records
// produced once an execution finishes.
package loom

// ConstError is an error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

const (
	// ErrInvalidArgument is reported when the supplied accounts do not
	// follow the expected layout or ownership rules.
	ErrInvalidArgument = ConstError("invalid argument")
	// ErrInvalidAccountData is reported when account data is malformed or
	// references an account other than the one supplied.
	ErrInvalidAccountData = ConstError("invalid account data")
	// ErrNotEnoughAccountKeys is reported when an account needed by the
	// execution was not supplied.
	ErrNotEnoughAccountKeys = ConstError("not enough account keys")
)
