// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package loom is a generated GoMock package.
package loom

import (
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockBackend is a mock of Backend interface.
type MockBackend struct {
	ctrl     *gomock.Controller
	recorder *MockBackendMockRecorder
}

// MockBackendMockRecorder is the mock recorder for MockBackend.
type MockBackendMockRecorder struct {
	mock *MockBackend
}

// NewMockBackend creates a new mock instance.
func NewMockBackend(ctrl *gomock.Controller) *MockBackend {
	mock := &MockBackend{ctrl: ctrl}
	mock.recorder = &MockBackendMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockBackend) EXPECT() *MockBackendMockRecorder {
	return m.recorder
}

// Basic mocks base method.
func (m *MockBackend) Basic(arg0 Address) Basic {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Basic", arg0)
	ret0, _ := ret[0].(Basic)
	return ret0
}

// Basic indicates an expected call of Basic.
func (mr *MockBackendMockRecorder) Basic(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Basic", reflect.TypeOf((*MockBackend)(nil).Basic), arg0)
}

// BlockCoinbase mocks base method.
func (m *MockBackend) BlockCoinbase() Address {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockCoinbase")
	ret0, _ := ret[0].(Address)
	return ret0
}

// BlockCoinbase indicates an expected call of BlockCoinbase.
func (mr *MockBackendMockRecorder) BlockCoinbase() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockCoinbase", reflect.TypeOf((*MockBackend)(nil).BlockCoinbase))
}

// BlockDifficulty mocks base method.
func (m *MockBackend) BlockDifficulty() Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockDifficulty")
	ret0, _ := ret[0].(Value)
	return ret0
}

// BlockDifficulty indicates an expected call of BlockDifficulty.
func (mr *MockBackendMockRecorder) BlockDifficulty() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockDifficulty", reflect.TypeOf((*MockBackend)(nil).BlockDifficulty))
}

// BlockGasLimit mocks base method.
func (m *MockBackend) BlockGasLimit() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockGasLimit")
	ret0, _ := ret[0].(uint64)
	return ret0
}

// BlockGasLimit indicates an expected call of BlockGasLimit.
func (mr *MockBackendMockRecorder) BlockGasLimit() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockGasLimit", reflect.TypeOf((*MockBackend)(nil).BlockGasLimit))
}

// BlockHash mocks base method.
func (m *MockBackend) BlockHash(arg0 uint64) Hash {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockHash", arg0)
	ret0, _ := ret[0].(Hash)
	return ret0
}

// BlockHash indicates an expected call of BlockHash.
func (mr *MockBackendMockRecorder) BlockHash(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockHash", reflect.TypeOf((*MockBackend)(nil).BlockHash), arg0)
}

// BlockNumber mocks base method.
func (m *MockBackend) BlockNumber() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockNumber")
	ret0, _ := ret[0].(uint64)
	return ret0
}

// BlockNumber indicates an expected call of BlockNumber.
func (mr *MockBackendMockRecorder) BlockNumber() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockNumber", reflect.TypeOf((*MockBackend)(nil).BlockNumber))
}

// BlockTimestamp mocks base method.
func (m *MockBackend) BlockTimestamp() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockTimestamp")
	ret0, _ := ret[0].(uint64)
	return ret0
}

// BlockTimestamp indicates an expected call of BlockTimestamp.
func (mr *MockBackendMockRecorder) BlockTimestamp() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockTimestamp", reflect.TypeOf((*MockBackend)(nil).BlockTimestamp))
}

// CallInner mocks base method.
func (m *MockBackend) CallInner(arg0 Address, arg1 *Transfer, arg2 Data, arg3 bool, arg4 Context) (CallFeedback, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CallInner", arg0, arg1, arg2, arg3, arg4)
	ret0, _ := ret[0].(CallFeedback)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// CallInner indicates an expected call of CallInner.
func (mr *MockBackendMockRecorder) CallInner(arg0, arg1, arg2, arg3, arg4 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CallInner", reflect.TypeOf((*MockBackend)(nil).CallInner), arg0, arg1, arg2, arg3, arg4)
}

// ChainID mocks base method.
func (m *MockBackend) ChainID() Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ChainID")
	ret0, _ := ret[0].(Value)
	return ret0
}

// ChainID indicates an expected call of ChainID.
func (mr *MockBackendMockRecorder) ChainID() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ChainID", reflect.TypeOf((*MockBackend)(nil).ChainID))
}

// Code mocks base method.
func (m *MockBackend) Code(arg0 Address) Code {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Code", arg0)
	ret0, _ := ret[0].(Code)
	return ret0
}

// Code indicates an expected call of Code.
func (mr *MockBackendMockRecorder) Code(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Code", reflect.TypeOf((*MockBackend)(nil).Code), arg0)
}

// Exists mocks base method.
func (m *MockBackend) Exists(arg0 Address) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Exists", arg0)
	ret0, _ := ret[0].(bool)
	return ret0
}

// Exists indicates an expected call of Exists.
func (mr *MockBackendMockRecorder) Exists(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Exists", reflect.TypeOf((*MockBackend)(nil).Exists), arg0)
}

// GasPrice mocks base method.
func (m *MockBackend) GasPrice() Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GasPrice")
	ret0, _ := ret[0].(Value)
	return ret0
}

// GasPrice indicates an expected call of GasPrice.
func (mr *MockBackendMockRecorder) GasPrice() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GasPrice", reflect.TypeOf((*MockBackend)(nil).GasPrice))
}

// Origin mocks base method.
func (m *MockBackend) Origin() Address {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Origin")
	ret0, _ := ret[0].(Address)
	return ret0
}

// Origin indicates an expected call of Origin.
func (mr *MockBackendMockRecorder) Origin() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Origin", reflect.TypeOf((*MockBackend)(nil).Origin))
}

// Storage mocks base method.
func (m *MockBackend) Storage(arg0 Address, arg1 Key) Word {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Storage", arg0, arg1)
	ret0, _ := ret[0].(Word)
	return ret0
}

// Storage indicates an expected call of Storage.
func (mr *MockBackendMockRecorder) Storage(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Storage", reflect.TypeOf((*MockBackend)(nil).Storage), arg0, arg1)
}

// MockHandler is a mock of Handler interface.
type MockHandler struct {
	ctrl     *gomock.Controller
	recorder *MockHandlerMockRecorder
}

// MockHandlerMockRecorder is the mock recorder for MockHandler.
type MockHandlerMockRecorder struct {
	mock *MockHandler
}

// NewMockHandler creates a new mock instance.
func NewMockHandler(ctrl *gomock.Controller) *MockHandler {
	mock := &MockHandler{ctrl: ctrl}
	mock.recorder = &MockHandlerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockHandler) EXPECT() *MockHandlerMockRecorder {
	return m.recorder
}

// Balance mocks base method.
func (m *MockHandler) Balance(arg0 Address) Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Balance", arg0)
	ret0, _ := ret[0].(Value)
	return ret0
}

// Balance indicates an expected call of Balance.
func (mr *MockHandlerMockRecorder) Balance(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Balance", reflect.TypeOf((*MockHandler)(nil).Balance), arg0)
}

// BlockCoinbase mocks base method.
func (m *MockHandler) BlockCoinbase() Address {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockCoinbase")
	ret0, _ := ret[0].(Address)
	return ret0
}

// BlockCoinbase indicates an expected call of BlockCoinbase.
func (mr *MockHandlerMockRecorder) BlockCoinbase() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockCoinbase", reflect.TypeOf((*MockHandler)(nil).BlockCoinbase))
}

// BlockDifficulty mocks base method.
func (m *MockHandler) BlockDifficulty() Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockDifficulty")
	ret0, _ := ret[0].(Value)
	return ret0
}

// BlockDifficulty indicates an expected call of BlockDifficulty.
func (mr *MockHandlerMockRecorder) BlockDifficulty() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockDifficulty", reflect.TypeOf((*MockHandler)(nil).BlockDifficulty))
}

// BlockGasLimit mocks base method.
func (m *MockHandler) BlockGasLimit() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockGasLimit")
	ret0, _ := ret[0].(uint64)
	return ret0
}

// BlockGasLimit indicates an expected call of BlockGasLimit.
func (mr *MockHandlerMockRecorder) BlockGasLimit() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockGasLimit", reflect.TypeOf((*MockHandler)(nil).BlockGasLimit))
}

// BlockHash mocks base method.
func (m *MockHandler) BlockHash(arg0 uint64) Hash {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockHash", arg0)
	ret0, _ := ret[0].(Hash)
	return ret0
}

// BlockHash indicates an expected call of BlockHash.
func (mr *MockHandlerMockRecorder) BlockHash(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockHash", reflect.TypeOf((*MockHandler)(nil).BlockHash), arg0)
}

// BlockNumber mocks base method.
func (m *MockHandler) BlockNumber() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockNumber")
	ret0, _ := ret[0].(uint64)
	return ret0
}

// BlockNumber indicates an expected call of BlockNumber.
func (mr *MockHandlerMockRecorder) BlockNumber() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockNumber", reflect.TypeOf((*MockHandler)(nil).BlockNumber))
}

// BlockTimestamp mocks base method.
func (m *MockHandler) BlockTimestamp() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockTimestamp")
	ret0, _ := ret[0].(uint64)
	return ret0
}

// BlockTimestamp indicates an expected call of BlockTimestamp.
func (mr *MockHandlerMockRecorder) BlockTimestamp() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockTimestamp", reflect.TypeOf((*MockHandler)(nil).BlockTimestamp))
}

// Call mocks base method.
func (m *MockHandler) Call(arg0 Address, arg1 *Transfer, arg2 Data, arg3 *uint64, arg4 bool, arg5 Context) CallFeedback {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Call", arg0, arg1, arg2, arg3, arg4, arg5)
	ret0, _ := ret[0].(CallFeedback)
	return ret0
}

// Call indicates an expected call of Call.
func (mr *MockHandlerMockRecorder) Call(arg0, arg1, arg2, arg3, arg4, arg5 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Call", reflect.TypeOf((*MockHandler)(nil).Call), arg0, arg1, arg2, arg3, arg4, arg5)
}

// ChainID mocks base method.
func (m *MockHandler) ChainID() Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ChainID")
	ret0, _ := ret[0].(Value)
	return ret0
}

// ChainID indicates an expected call of ChainID.
func (mr *MockHandlerMockRecorder) ChainID() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ChainID", reflect.TypeOf((*MockHandler)(nil).ChainID))
}

// Code mocks base method.
func (m *MockHandler) Code(arg0 Address) Code {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Code", arg0)
	ret0, _ := ret[0].(Code)
	return ret0
}

// Code indicates an expected call of Code.
func (mr *MockHandlerMockRecorder) Code(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Code", reflect.TypeOf((*MockHandler)(nil).Code), arg0)
}

// CodeHash mocks base method.
func (m *MockHandler) CodeHash(arg0 Address) Hash {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CodeHash", arg0)
	ret0, _ := ret[0].(Hash)
	return ret0
}

// CodeHash indicates an expected call of CodeHash.
func (mr *MockHandlerMockRecorder) CodeHash(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CodeHash", reflect.TypeOf((*MockHandler)(nil).CodeHash), arg0)
}

// CodeSize mocks base method.
func (m *MockHandler) CodeSize(arg0 Address) uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CodeSize", arg0)
	ret0, _ := ret[0].(uint64)
	return ret0
}

// CodeSize indicates an expected call of CodeSize.
func (mr *MockHandlerMockRecorder) CodeSize(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CodeSize", reflect.TypeOf((*MockHandler)(nil).CodeSize), arg0)
}

// Create mocks base method.
func (m *MockHandler) Create(arg0 Address, arg1 CreateScheme, arg2 Value, arg3 Code, arg4 *uint64) CreateFeedback {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", arg0, arg1, arg2, arg3, arg4)
	ret0, _ := ret[0].(CreateFeedback)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockHandlerMockRecorder) Create(arg0, arg1, arg2, arg3, arg4 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockHandler)(nil).Create), arg0, arg1, arg2, arg3, arg4)
}

// Deleted mocks base method.
func (m *MockHandler) Deleted(arg0 Address) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Deleted", arg0)
	ret0, _ := ret[0].(bool)
	return ret0
}

// Deleted indicates an expected call of Deleted.
func (mr *MockHandlerMockRecorder) Deleted(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Deleted", reflect.TypeOf((*MockHandler)(nil).Deleted), arg0)
}

// Exists mocks base method.
func (m *MockHandler) Exists(arg0 Address) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Exists", arg0)
	ret0, _ := ret[0].(bool)
	return ret0
}

// Exists indicates an expected call of Exists.
func (mr *MockHandlerMockRecorder) Exists(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Exists", reflect.TypeOf((*MockHandler)(nil).Exists), arg0)
}

// GasLeft mocks base method.
func (m *MockHandler) GasLeft() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GasLeft")
	ret0, _ := ret[0].(uint64)
	return ret0
}

// GasLeft indicates an expected call of GasLeft.
func (mr *MockHandlerMockRecorder) GasLeft() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GasLeft", reflect.TypeOf((*MockHandler)(nil).GasLeft))
}

// GasPrice mocks base method.
func (m *MockHandler) GasPrice() Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GasPrice")
	ret0, _ := ret[0].(Value)
	return ret0
}

// GasPrice indicates an expected call of GasPrice.
func (mr *MockHandlerMockRecorder) GasPrice() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GasPrice", reflect.TypeOf((*MockHandler)(nil).GasPrice))
}

// Log mocks base method.
func (m *MockHandler) Log(arg0 Address, arg1 []Hash, arg2 Data) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Log", arg0, arg1, arg2)
}

// Log indicates an expected call of Log.
func (mr *MockHandlerMockRecorder) Log(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Log", reflect.TypeOf((*MockHandler)(nil).Log), arg0, arg1, arg2)
}

// MarkDelete mocks base method.
func (m *MockHandler) MarkDelete(arg0 Address, arg1 Address) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkDelete", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkDelete indicates an expected call of MarkDelete.
func (mr *MockHandlerMockRecorder) MarkDelete(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkDelete", reflect.TypeOf((*MockHandler)(nil).MarkDelete), arg0, arg1)
}

// Origin mocks base method.
func (m *MockHandler) Origin() Address {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Origin")
	ret0, _ := ret[0].(Address)
	return ret0
}

// Origin indicates an expected call of Origin.
func (mr *MockHandlerMockRecorder) Origin() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Origin", reflect.TypeOf((*MockHandler)(nil).Origin))
}

// OriginalStorage mocks base method.
func (m *MockHandler) OriginalStorage(arg0 Address, arg1 Key) Word {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OriginalStorage", arg0, arg1)
	ret0, _ := ret[0].(Word)
	return ret0
}

// OriginalStorage indicates an expected call of OriginalStorage.
func (mr *MockHandlerMockRecorder) OriginalStorage(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OriginalStorage", reflect.TypeOf((*MockHandler)(nil).OriginalStorage), arg0, arg1)
}

// SetStorage mocks base method.
func (m *MockHandler) SetStorage(arg0 Address, arg1 Key, arg2 Word) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SetStorage", arg0, arg1, arg2)
}

// SetStorage indicates an expected call of SetStorage.
func (mr *MockHandlerMockRecorder) SetStorage(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetStorage", reflect.TypeOf((*MockHandler)(nil).SetStorage), arg0, arg1, arg2)
}

// Storage mocks base method.
func (m *MockHandler) Storage(arg0 Address, arg1 Key) Word {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Storage", arg0, arg1)
	ret0, _ := ret[0].(Word)
	return ret0
}

// Storage indicates an expected call of Storage.
func (mr *MockHandlerMockRecorder) Storage(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Storage", reflect.TypeOf((*MockHandler)(nil).Storage), arg0, arg1)
}
