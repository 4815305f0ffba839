// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package accounts resolves Ethereum addresses to the host accounts handed
// to an invocation. The account list is positional: the contract account,
// its code account and the caller come first, followed by further accounts
// and the clock in any order. The resolver owns the projections for the
// duration of one invocation and writes effects back into the host
// account data.
package accounts

import (
	"fmt"
	"slices"

	"github.com/Fantom-foundation/Loom/go/common/logging"
	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/rs/zerolog"
)

// SenderKind tells whether the transaction sender owns an account.
type SenderKind byte

const (
	// SenderEthereum is a sender backed by a program-owned account.
	SenderEthereum SenderKind = iota
	// SenderSolana is a host signer without an account; its address is
	// derived from its key.
	SenderSolana
)

type Sender struct {
	Kind    SenderKind
	Address loom.Address
}

func (s Sender) String() string {
	if s.Kind == SenderSolana {
		return fmt.Sprintf("solana(%v)", s.Address)
	}
	return fmt.Sprintf("ethereum(%v)", s.Address)
}

type alias struct {
	address  loom.Address
	position int
}

// Storage is the address resolver of one invocation.
type Storage struct {
	accounts []*Account
	aliases  []alias // sorted by address
	clock    *AccountInfo
	contract loom.Address
	sender   Sender
	layout   Layout
	logger   zerolog.Logger
}

// New builds the resolver from the positional account list.
func New(programID Pubkey, infos []*AccountInfo, layout Layout, logger zerolog.Logger) (*Storage, error) {
	logger.Debug().Int("accounts", len(infos)).Msg("Reading accounts")
	if len(infos) < 3 {
		return nil, fmt.Errorf("got %d accounts, need at least 3: %w", len(infos), loom.ErrNotEnoughAccountKeys)
	}
	s := &Storage{
		accounts: make([]*Account, 0, len(infos)),
		layout:   layout,
		logger:   logger,
	}

	contract, err := s.contractAccount(programID, infos[0], infos[1])
	if err != nil {
		return nil, err
	}
	s.push(contract)
	s.contract = contract.Address()

	caller := infos[2]
	if caller.Owner == programID {
		record, err := s.unpackAccount(caller)
		if err != nil {
			return nil, err
		}
		acc := newAccount(caller, record)
		s.push(acc)
		s.sender = Sender{Kind: SenderEthereum, Address: acc.Address()}
	} else {
		if !caller.IsSigner {
			logger.Debug().Stringer(logging.FieldPubkey, caller.Key).Msg("Caller must be signer")
			return nil, fmt.Errorf("caller %v is not a signer: %w", caller.Key, loom.ErrInvalidArgument)
		}
		s.sender = Sender{Kind: SenderSolana, Address: EtherAddress(caller.Key)}
	}

	for i := 3; i < len(infos); i++ {
		info := infos[i]
		if info.Owner != programID {
			if info.Key == ClockSysvar {
				s.clock = info
			}
			continue
		}
		data, err := layout.Unpack(info.Data)
		if err != nil {
			return nil, err
		}
		if data.Kind != DataAccount {
			continue
		}
		if data.Account.CodeAccount.IsZero() {
			s.push(newAccount(info, data.Account))
			continue
		}
		if i+1 >= len(infos) {
			return nil, fmt.Errorf("contract account %v is not followed by its code account: %w", info.Key, loom.ErrNotEnoughAccountKeys)
		}
		i++
		acc, err := s.contractAccount(programID, info, infos[i])
		if err != nil {
			return nil, err
		}
		s.push(acc)
	}

	if s.clock == nil {
		return nil, fmt.Errorf("missing clock account: %w", loom.ErrNotEnoughAccountKeys)
	}

	slices.SortStableFunc(s.aliases, func(a, b alias) int {
		return a.address.Compare(b.address)
	})
	logger.Debug().Int("resolved", len(s.accounts)).Stringer("sender", s.sender).Msg("Accounts were read")
	return s, nil
}

func (s *Storage) push(acc *Account) {
	s.aliases = append(s.aliases, alias{address: acc.Address(), position: len(s.accounts)})
	s.accounts = append(s.accounts, acc)
}

func (s *Storage) unpackAccount(info *AccountInfo) (AccountRecord, error) {
	data, err := s.layout.Unpack(info.Data)
	if err != nil {
		return AccountRecord{}, err
	}
	if data.Kind != DataAccount {
		return AccountRecord{}, fmt.Errorf("account %v holds %v data: %w", info.Key, data.Kind, loom.ErrInvalidAccountData)
	}
	return data.Account, nil
}

func (s *Storage) contractAccount(programID Pubkey, info, codeInfo *AccountInfo) (*Account, error) {
	if info.Owner != programID || codeInfo.Owner != programID {
		s.logger.Debug().Stringer(logging.FieldPubkey, info.Key).Msg("Invalid owner for contract account")
		return nil, fmt.Errorf("contract account %v is not owned by the program: %w", info.Key, loom.ErrInvalidArgument)
	}
	record, err := s.unpackAccount(info)
	if err != nil {
		return nil, err
	}
	if codeInfo.Key != record.CodeAccount {
		return nil, fmt.Errorf("code account %v does not match %v referenced by %v: %w",
			codeInfo.Key, record.CodeAccount, info.Key, loom.ErrInvalidAccountData)
	}
	data, err := s.layout.Unpack(codeInfo.Data)
	if err != nil {
		return nil, err
	}
	if data.Kind != DataContract {
		return nil, fmt.Errorf("code account %v holds %v data: %w", codeInfo.Key, data.Kind, loom.ErrInvalidAccountData)
	}
	acc := newAccount(info, record)
	acc.code = newCodeAccount(codeInfo, data.Contract)
	return acc, nil
}

// Resolve looks up the account with the given address.
func (s *Storage) Resolve(address loom.Address) (*Account, bool) {
	pos, found := slices.BinarySearchFunc(s.aliases, address, func(a alias, target loom.Address) int {
		return a.address.Compare(target)
	})
	if !found {
		s.logger.Trace().Stringer(logging.FieldAddress, address).Msg("Account not found")
		return nil, false
	}
	return s.accounts[s.aliases[pos].position], true
}

// ContractAddress is the address of the contract at position 0.
func (s *Storage) ContractAddress() loom.Address {
	return s.contract
}

// CallerAddress returns the caller's address if it owns an account.
func (s *Storage) CallerAddress() (loom.Address, bool) {
	if s.sender.Kind != SenderEthereum {
		return loom.Address{}, false
	}
	return s.sender.Address, true
}

func (s *Storage) Sender() Sender {
	return s.sender
}

// Origin is the address of the sender, derived or not.
func (s *Storage) Origin() loom.Address {
	return s.sender.Address
}

// Clock decodes the current content of the clock account.
func (s *Storage) Clock() (Clock, error) {
	return ParseClock(s.clock.Data)
}

// BlockNumber is the current slot.
func (s *Storage) BlockNumber() uint64 {
	clock, err := s.Clock()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read clock")
		return 0
	}
	return clock.Slot
}

// BlockTimestamp is the current unix time in seconds.
func (s *Storage) BlockTimestamp() uint64 {
	clock, err := s.Clock()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read clock")
		return 0
	}
	if clock.UnixTimestamp < 0 {
		return 0
	}
	return uint64(clock.UnixTimestamp)
}

// Apply writes the effects of a successful execution into the accounts.
// Sinks and a sender without an account are skipped; any other unknown
// address fails with ErrNotEnoughAccountKeys. Deletions are accepted
// without changing any account.
func (s *Storage) Apply(effects []loom.Apply) error {
	for _, effect := range effects {
		if effect.Kind == loom.ApplyDelete {
			continue
		}
		if loom.IsSystemAccount(effect.Address) {
			continue
		}
		acc, found := s.Resolve(effect.Address)
		if !found {
			if s.sender.Kind == SenderSolana && s.sender.Address == effect.Address {
				s.logger.Debug().Stringer(logging.FieldAddress, effect.Address).Msg("Skipping effect on sender without account")
				continue
			}
			s.logger.Debug().Stringer(logging.FieldAddress, effect.Address).Msg("Apply can't be done, account not found")
			return fmt.Errorf("no account for %v: %w", effect.Address, loom.ErrNotEnoughAccountKeys)
		}
		if err := acc.update(s.layout, effect); err != nil {
			return err
		}
	}
	return nil
}
