// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package backend is a generated GoMock package.
package backend

import (
	reflect "reflect"

	accounts "github.com/Fantom-foundation/Loom/go/accounts"
	loom "github.com/Fantom-foundation/Loom/go/loom"
	gomock "go.uber.org/mock/gomock"
)

// MockAccountStorage is a mock of AccountStorage interface.
type MockAccountStorage struct {
	ctrl     *gomock.Controller
	recorder *MockAccountStorageMockRecorder
}

// MockAccountStorageMockRecorder is the mock recorder for MockAccountStorage.
type MockAccountStorageMockRecorder struct {
	mock *MockAccountStorage
}

// NewMockAccountStorage creates a new mock instance.
func NewMockAccountStorage(ctrl *gomock.Controller) *MockAccountStorage {
	mock := &MockAccountStorage{ctrl: ctrl}
	mock.recorder = &MockAccountStorageMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAccountStorage) EXPECT() *MockAccountStorageMockRecorder {
	return m.recorder
}

// BlockNumber mocks base method.
func (m *MockAccountStorage) BlockNumber() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockNumber")
	ret0, _ := ret[0].(uint64)
	return ret0
}

// BlockNumber indicates an expected call of BlockNumber.
func (mr *MockAccountStorageMockRecorder) BlockNumber() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockNumber", reflect.TypeOf((*MockAccountStorage)(nil).BlockNumber))
}

// BlockTimestamp mocks base method.
func (m *MockAccountStorage) BlockTimestamp() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockTimestamp")
	ret0, _ := ret[0].(uint64)
	return ret0
}

// BlockTimestamp indicates an expected call of BlockTimestamp.
func (mr *MockAccountStorageMockRecorder) BlockTimestamp() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockTimestamp", reflect.TypeOf((*MockAccountStorage)(nil).BlockTimestamp))
}

// Origin mocks base method.
func (m *MockAccountStorage) Origin() loom.Address {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Origin")
	ret0, _ := ret[0].(loom.Address)
	return ret0
}

// Origin indicates an expected call of Origin.
func (mr *MockAccountStorageMockRecorder) Origin() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Origin", reflect.TypeOf((*MockAccountStorage)(nil).Origin))
}

// Resolve mocks base method.
func (m *MockAccountStorage) Resolve(arg0 loom.Address) (*accounts.Account, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Resolve", arg0)
	ret0, _ := ret[0].(*accounts.Account)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// Resolve indicates an expected call of Resolve.
func (mr *MockAccountStorageMockRecorder) Resolve(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Resolve", reflect.TypeOf((*MockAccountStorage)(nil).Resolve), arg0)
}
