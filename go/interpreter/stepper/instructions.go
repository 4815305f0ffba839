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
	"bytes"
	"math"

	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/holiman/uint256"
)

// execute runs a single instruction whose stack requirements have been
// verified. The program counter is advanced unless the instruction ends
// the frame or transfers control itself.
func (r *Runtime) execute(op OpCode, h loom.Handler) (Control, error) {
	var err error
	switch {
	case PUSH1 <= op && op <= PUSH32:
		opPush(r, int(op-PUSH1)+1)
		return continueControl, nil
	case DUP1 <= op && op <= DUP16:
		r.stack.dup(int(op - DUP1))
	case SWAP1 <= op && op <= SWAP16:
		r.stack.swap(int(op-SWAP1) + 1)
	case LOG0 <= op && op <= LOG4:
		err = opLog(r, h, int(op-LOG0))
	default:
		switch op {
		case STOP:
			return r.exit(loom.ExitSucceed(loom.Stopped)), nil
		case ADD:
			opAdd(r)
		case MUL:
			opMul(r)
		case SUB:
			opSub(r)
		case DIV:
			opDiv(r)
		case SDIV:
			opSDiv(r)
		case MOD:
			opMod(r)
		case SMOD:
			opSMod(r)
		case ADDMOD:
			opAddMod(r)
		case MULMOD:
			opMulMod(r)
		case EXP:
			opExp(r)
		case SIGNEXTEND:
			opSignExtend(r)
		case LT:
			opLt(r)
		case GT:
			opGt(r)
		case SLT:
			opSlt(r)
		case SGT:
			opSgt(r)
		case EQ:
			opEq(r)
		case ISZERO:
			opIszero(r)
		case AND:
			opAnd(r)
		case OR:
			opOr(r)
		case XOR:
			opXor(r)
		case NOT:
			opNot(r)
		case BYTE:
			opByte(r)
		case SHL:
			opShl(r)
		case SHR:
			opShr(r)
		case SAR:
			opSar(r)
		case SHA3:
			err = opSha3(r)
		case ADDRESS:
			r.stack.pushUndefined().SetBytes20(r.context.Address[:])
		case BALANCE:
			opBalance(r, h)
		case ORIGIN:
			origin := h.Origin()
			r.stack.pushUndefined().SetBytes20(origin[:])
		case CALLER:
			r.stack.pushUndefined().SetBytes20(r.context.Caller[:])
		case CALLVALUE:
			r.stack.push(r.context.ApparentValue.ToUint256())
		case CALLDATALOAD:
			opCallDataload(r)
		case CALLDATASIZE:
			r.stack.pushUndefined().SetUint64(uint64(len(r.input)))
		case CALLDATACOPY:
			err = opDataCopy(r, r.input)
		case CODESIZE:
			r.stack.pushUndefined().SetUint64(uint64(len(r.code)))
		case CODECOPY:
			err = opDataCopy(r, r.code)
		case GASPRICE:
			price := h.GasPrice()
			r.stack.pushUndefined().SetBytes32(price[:])
		case EXTCODESIZE:
			top := r.stack.peek()
			top.SetUint64(h.CodeSize(loom.Address(top.Bytes20())))
		case EXTCODECOPY:
			address := loom.Address(r.stack.pop().Bytes20())
			err = opDataCopy(r, h.Code(address))
		case RETURNDATASIZE:
			r.stack.pushUndefined().SetUint64(uint64(len(r.returnData)))
		case RETURNDATACOPY:
			err = opReturnDataCopy(r)
		case EXTCODEHASH:
			top := r.stack.peek()
			hash := h.CodeHash(loom.Address(top.Bytes20()))
			top.SetBytes32(hash[:])
		case BLOCKHASH:
			opBlockhash(r, h)
		case COINBASE:
			coinbase := h.BlockCoinbase()
			r.stack.pushUndefined().SetBytes20(coinbase[:])
		case TIMESTAMP:
			r.stack.pushUndefined().SetUint64(h.BlockTimestamp())
		case NUMBER:
			r.stack.pushUndefined().SetUint64(h.BlockNumber())
		case DIFFICULTY:
			difficulty := h.BlockDifficulty()
			r.stack.pushUndefined().SetBytes32(difficulty[:])
		case GASLIMIT:
			r.stack.pushUndefined().SetUint64(h.BlockGasLimit())
		case CHAINID:
			id := h.ChainID()
			r.stack.pushUndefined().SetBytes32(id[:])
		case SELFBALANCE:
			r.stack.push(h.Balance(r.context.Address).ToUint256())
		case POP:
			r.stack.pop()
		case MLOAD:
			err = opMload(r)
		case MSTORE:
			err = opMstore(r)
		case MSTORE8:
			err = opMstore8(r)
		case SLOAD:
			top := r.stack.peek()
			value := h.Storage(r.context.Address, top.Bytes32())
			top.SetBytes32(value[:])
		case SSTORE:
			err = opSstore(r, h)
		case JUMP:
			return continueControl, r.jumpTo(r.stack.pop())
		case JUMPI:
			destination, condition := r.stack.pop(), r.stack.pop()
			if !condition.IsZero() {
				return continueControl, r.jumpTo(destination)
			}
		case PC:
			r.stack.pushUndefined().SetUint64(r.pc)
		case MSIZE:
			r.stack.pushUndefined().SetUint64(r.memory.length())
		case GAS:
			r.stack.pushUndefined().SetUint64(h.GasLeft())
		case JUMPDEST:
			// nothing to do
		case PUSH0:
			r.stack.pushUndefined().Clear()
		case RETURN:
			return opEndWithResult(r, loom.ExitSucceed(loom.Returned))
		case REVERT:
			return opEndWithResult(r, loom.ExitRevert())
		case INVALID:
			return Control{}, errDesignatedInvalid
		case SELFDESTRUCT:
			return opSelfdestruct(r, h)
		case CALL, CALLCODE, DELEGATECALL, STATICCALL:
			control, err := genericCall(r, h, op)
			if err != nil {
				return Control{}, err
			}
			r.pc++
			return control, nil
		case CREATE, CREATE2:
			control, err := genericCreate(r, h, op)
			if err != nil {
				return Control{}, err
			}
			r.pc++
			return control, nil
		default:
			return Control{}, errInvalidCode
		}
	}
	if err != nil {
		return Control{}, err
	}
	r.pc++
	return continueControl, nil
}

func (r *Runtime) jumpTo(destination *uint256.Int) error {
	if !destination.IsUint64() {
		return errInvalidJump
	}
	if r.jumps == nil {
		r.jumps = getJumpTable(r.code)
	}
	pos := destination.Uint64()
	if !r.jumps.isJumpDest(pos) {
		return errInvalidJump
	}
	r.pc = pos
	return nil
}

func opPush(r *Runtime, n int) {
	r.stack.pushUndefined().SetBytes(getData(r.code, r.pc+1, uint64(n)))
	r.pc += uint64(n) + 1
}

func opEndWithResult(r *Runtime, reason loom.ExitReason) (Control, error) {
	offset, size := r.stack.pop(), r.stack.pop()
	if err := checkSizeOffsetUint64Overflow(offset, size); err != nil {
		return Control{}, err
	}
	data, err := r.memory.getSlice(offset.Uint64(), size.Uint64())
	if err != nil {
		return Control{}, err
	}
	r.output = bytes.Clone(data)
	return r.exit(reason), nil
}

func opAdd(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	b.Add(a, b)
}

func opSub(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	b.Sub(a, b)
}

func opMul(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	b.Mul(a, b)
}

func opDiv(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	b.Div(a, b)
}

func opSDiv(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	b.SDiv(a, b)
}

func opMod(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	b.Mod(a, b)
}

func opSMod(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	b.SMod(a, b)
}

func opAddMod(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.pop()
	n := r.stack.peek()
	n.AddMod(a, b, n)
}

func opMulMod(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.pop()
	n := r.stack.peek()
	n.MulMod(a, b, n)
}

func opExp(r *Runtime) {
	base, exponent := r.stack.pop(), r.stack.peek()
	exponent.Exp(base, exponent)
}

func opSignExtend(r *Runtime) {
	back, num := r.stack.pop(), r.stack.peek()
	num.ExtendSign(num, back)
}

func opLt(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	setBool(b, a.Lt(b))
}

func opGt(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	setBool(b, a.Gt(b))
}

func opSlt(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	setBool(b, a.Slt(b))
}

func opSgt(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	setBool(b, a.Sgt(b))
}

func opEq(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	setBool(b, a.Eq(b))
}

func opIszero(r *Runtime) {
	top := r.stack.peek()
	setBool(top, top.IsZero())
}

func setBool(z *uint256.Int, value bool) {
	if value {
		z.SetOne()
	} else {
		z.Clear()
	}
}

func opAnd(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	b.And(a, b)
}

func opOr(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	b.Or(a, b)
}

func opXor(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	b.Xor(a, b)
}

func opNot(r *Runtime) {
	a := r.stack.peek()
	a.Not(a)
}

func opByte(r *Runtime) {
	th, val := r.stack.pop(), r.stack.peek()
	val.Byte(th)
}

func opShl(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	if a.LtUint64(256) {
		b.Lsh(b, uint(a.Uint64()))
	} else {
		b.Clear()
	}
}

func opShr(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	if a.LtUint64(256) {
		b.Rsh(b, uint(a.Uint64()))
	} else {
		b.Clear()
	}
}

func opSar(r *Runtime) {
	a := r.stack.pop()
	b := r.stack.peek()
	if a.GtUint64(256) {
		if b.Sign() >= 0 {
			b.Clear()
		} else {
			b.SetAllOne()
		}
		return
	}
	b.SRsh(b, uint(a.Uint64()))
}

func opSha3(r *Runtime) error {
	offset, size := r.stack.pop(), r.stack.peek()
	if err := checkSizeOffsetUint64Overflow(offset, size); err != nil {
		return err
	}
	data, err := r.memory.getSlice(offset.Uint64(), size.Uint64())
	if err != nil {
		return err
	}
	hash := loom.Keccak256(data)
	size.SetBytes32(hash[:])
	return nil
}

func opBalance(r *Runtime, h loom.Handler) {
	top := r.stack.peek()
	top.Set(h.Balance(loom.Address(top.Bytes20())).ToUint256())
}

func opBlockhash(r *Runtime, h loom.Handler) {
	top := r.stack.peek()
	if !top.IsUint64() {
		top.Clear()
		return
	}
	hash := h.BlockHash(top.Uint64())
	top.SetBytes32(hash[:])
}

func opCallDataload(r *Runtime) {
	top := r.stack.peek()
	offset, overflow := top.Uint64WithOverflow()
	if overflow {
		offset = math.MaxUint64
	}
	top.SetBytes32(getData(r.input, offset, 32))
}

// opDataCopy implements the copy instructions reading from a byte source
// with implicit zero padding.
func opDataCopy(r *Runtime, source []byte) error {
	var (
		memOffset  = r.stack.pop()
		dataOffset = r.stack.pop()
		length     = r.stack.pop()
	)
	if err := checkSizeOffsetUint64Overflow(memOffset, length); err != nil {
		return err
	}
	offset, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		offset = math.MaxUint64
	}
	data, err := r.memory.getSlice(memOffset.Uint64(), length.Uint64())
	if err != nil {
		return err
	}
	copy(data, getData(source, offset, length.Uint64()))
	return nil
}

func opReturnDataCopy(r *Runtime) error {
	var (
		memOffset  = r.stack.pop()
		dataOffset = r.stack.pop()
		length     = r.stack.pop()
	)
	offset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		return errReturnDataOutOfBounds
	}
	end := new(uint256.Int).Add(dataOffset, length)
	end64, overflow := end.Uint64WithOverflow()
	if overflow || uint64(len(r.returnData)) < end64 {
		return errReturnDataOutOfBounds
	}
	if err := checkSizeOffsetUint64Overflow(memOffset, length); err != nil {
		return err
	}
	data, err := r.memory.getSlice(memOffset.Uint64(), length.Uint64())
	if err != nil {
		return err
	}
	copy(data, r.returnData[offset64:end64])
	return nil
}

func opMload(r *Runtime) error {
	top := r.stack.peek()
	if !top.IsUint64() {
		return errOverflow
	}
	return r.memory.readWord(top.Uint64(), top)
}

func opMstore(r *Runtime) error {
	offset, value := r.stack.pop(), r.stack.pop()
	if !offset.IsUint64() {
		return errOverflow
	}
	return r.memory.setWord(offset.Uint64(), value)
}

func opMstore8(r *Runtime) error {
	offset, value := r.stack.pop(), r.stack.pop()
	if !offset.IsUint64() {
		return errOverflow
	}
	return r.memory.setByte(offset.Uint64(), byte(value.Uint64()))
}

func opSstore(r *Runtime, h loom.Handler) error {
	if r.static {
		return errWriteProtection
	}
	key, value := r.stack.pop(), r.stack.pop()
	h.SetStorage(r.context.Address, key.Bytes32(), value.Bytes32())
	return nil
}

func opLog(r *Runtime, h loom.Handler, size int) error {
	if r.static {
		return errWriteProtection
	}
	offset, length := r.stack.pop(), r.stack.pop()
	if err := checkSizeOffsetUint64Overflow(offset, length); err != nil {
		return err
	}
	topics := make([]loom.Hash, size)
	for i := range topics {
		topics[i] = r.stack.pop().Bytes32()
	}
	data, err := r.memory.getSlice(offset.Uint64(), length.Uint64())
	if err != nil {
		return err
	}
	h.Log(r.context.Address, topics, bytes.Clone(data))
	return nil
}

func opSelfdestruct(r *Runtime, h loom.Handler) (Control, error) {
	if r.static {
		return Control{}, errWriteProtection
	}
	beneficiary := loom.Address(r.stack.pop().Bytes20())
	if err := h.MarkDelete(r.context.Address, beneficiary); err != nil {
		return Control{}, err
	}
	return r.exit(loom.ExitSucceed(loom.Suicided)), nil
}

func genericCreate(r *Runtime, h loom.Handler, op OpCode) (Control, error) {
	if r.static {
		return Control{}, errWriteProtection
	}
	var (
		value  = r.stack.pop()
		offset = r.stack.pop()
		size   = r.stack.pop()
		salt   = loom.Hash{}
	)
	if op == CREATE2 {
		salt = r.stack.pop().Bytes32()
	}
	if err := checkSizeOffsetUint64Overflow(offset, size); err != nil {
		return Control{}, err
	}
	data, err := r.memory.getSlice(offset.Uint64(), size.Uint64())
	if err != nil {
		return Control{}, err
	}
	initCode := loom.Code(bytes.Clone(data))

	scheme := loom.CreateScheme{Kind: loom.CreateLegacy, Caller: r.context.Address}
	if op == CREATE2 {
		scheme = loom.CreateScheme{
			Kind:     loom.Create2,
			Caller:   r.context.Address,
			CodeHash: loom.Keccak256(initCode),
			Salt:     salt,
		}
	}

	feedback := h.Create(r.context.Address, scheme, loom.ValueFromUint256(value), initCode, nil)
	r.pending = &pendingTrap{Kind: trapCreate}
	if feedback.Trap != nil {
		return Control{Kind: ControlCreate, Create: feedback.Trap}, nil
	}
	return r.SaveCreatedAddress(feedback.Reason, feedback.Address, feedback.Output)
}

func genericCall(r *Runtime, h loom.Handler, op OpCode) (Control, error) {
	stack := r.stack
	value := new(uint256.Int)

	gas, addr := stack.pop(), stack.pop()
	if op == CALL || op == CALLCODE {
		value = stack.pop()
	}
	inOffset, inSize, retOffset, retSize := stack.pop(), stack.pop(), stack.pop(), stack.pop()

	// In a static context, no value must be transferred.
	if op == CALL && r.static && !value.IsZero() {
		return Control{}, errWriteProtection
	}
	if err := checkSizeOffsetUint64Overflow(inOffset, inSize); err != nil {
		return Control{}, err
	}
	if err := checkSizeOffsetUint64Overflow(retOffset, retSize); err != nil {
		return Control{}, err
	}
	args, err := r.memory.getSlice(inOffset.Uint64(), inSize.Uint64())
	if err != nil {
		return Control{}, err
	}
	input := loom.Data(bytes.Clone(args))
	// The output range is reserved now so that delivering the result
	// never needs to grow the memory.
	if err := r.memory.expandMemory(retOffset.Uint64(), retSize.Uint64()); err != nil {
		return Control{}, err
	}

	var targetGas *uint64
	if gas.IsUint64() {
		limit := gas.Uint64()
		targetGas = &limit
	}

	var (
		target   = loom.Address(addr.Bytes20())
		amount   = loom.ValueFromUint256(value)
		self     = r.context.Address
		isStatic = r.static
		context  loom.Context
		transfer *loom.Transfer
	)
	switch op {
	case CALL:
		context = loom.Context{Address: target, Caller: self, ApparentValue: amount}
		transfer = &loom.Transfer{Source: self, Target: target, Value: amount}
	case CALLCODE:
		context = loom.Context{Address: self, Caller: self, ApparentValue: amount}
		transfer = &loom.Transfer{Source: self, Target: self, Value: amount}
	case DELEGATECALL:
		context = loom.Context{Address: self, Caller: r.context.Caller, ApparentValue: r.context.ApparentValue}
	case STATICCALL:
		context = loom.Context{Address: target, Caller: self}
		isStatic = true
	}

	feedback := h.Call(target, transfer, input, targetGas, isStatic, context)
	r.pending = &pendingTrap{Kind: trapCall, OutOffset: retOffset.Uint64(), OutSize: retSize.Uint64()}
	if feedback.Trap != nil {
		return Control{Kind: ControlCall, Call: feedback.Trap}, nil
	}
	return r.SaveReturnValue(feedback.Reason, feedback.Output)
}

// getData returns size bytes of data starting at start, padded with zeros
// where data ends early.
func getData(data []byte, start uint64, size uint64) []byte {
	length := uint64(len(data))
	if start > length {
		start = length
	}
	end := start + size
	if end > length || end < start {
		end = length
	}
	res := make([]byte, int(size))
	copy(res, data[start:end])
	return res
}

func checkSizeOffsetUint64Overflow(offset, size *uint256.Int) error {
	if size.IsZero() {
		return nil
	}
	if !offset.IsUint64() || !size.IsUint64() || offset.Uint64()+size.Uint64() < offset.Uint64() {
		return errOverflow
	}
	return nil
}
