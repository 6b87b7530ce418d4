package vm

// This file is the builder surface (spec.md section 2/4.3): one method per
// opcode, each constructing a well-formed Instruction and appending it to
// the VM's program. Identical calls always produce identical instructions
// -- there is no hidden state here beyond the program vector itself.
//
// Every builder returns the index of the instruction it just appended,
// which doubles as that instruction's address for JUMP/JCOND targets.

func (vm *VM) emit(instr Instruction) int {
	return vm.program.Push(instr)
}

// SetByte emits SET_BYTE addr, imm.
func (vm *VM) SetByte(addr uint64, imm byte) int {
	return vm.emit(Instruction{Code: OpSetByte, Addr: addr, argBits: uint64(imm)})
}

// SetInt emits SET_INT addr, imm.
func (vm *VM) SetInt(addr uint64, imm int64) int {
	return vm.emit(Instruction{Code: OpSetInt, Addr: addr, argBits: uint64(imm)})
}

// SetUint emits SET_UINT addr, imm.
func (vm *VM) SetUint(addr uint64, imm uint64) int {
	return vm.emit(Instruction{Code: OpSetUint, Addr: addr, argBits: imm})
}

// SetFloat emits SET_FLOAT addr, imm.
func (vm *VM) SetFloat(addr uint64, imm float64) int {
	return vm.emit(Instruction{Code: OpSetFloat, Addr: addr, argBits: NewFloatRegister(imm).bits})
}

// Malloc emits the reserved MALLOC opcode (no-op at runtime).
func (vm *VM) Malloc() int { return vm.emit(Instruction{Code: OpMalloc}) }

// Free emits the reserved FREE opcode (no-op at runtime).
func (vm *VM) Free() int { return vm.emit(Instruction{Code: OpFree}) }

// Add emits ADD addr, addrArg -> raddr.
func (vm *VM) Add(addr, addrArg, raddr uint64) int {
	return vm.emit(Instruction{Code: OpAdd, Addr: addr, argBits: addrArg, RAddr: raddr})
}

// Sub emits SUB addr, addrArg -> raddr.
func (vm *VM) Sub(addr, addrArg, raddr uint64) int {
	return vm.emit(Instruction{Code: OpSub, Addr: addr, argBits: addrArg, RAddr: raddr})
}

// Mult emits MULT addr, addrArg -> raddr.
func (vm *VM) Mult(addr, addrArg, raddr uint64) int {
	return vm.emit(Instruction{Code: OpMult, Addr: addr, argBits: addrArg, RAddr: raddr})
}

// Div emits DIV addr, addrArg -> raddr.
func (vm *VM) Div(addr, addrArg, raddr uint64) int {
	return vm.emit(Instruction{Code: OpDiv, Addr: addr, argBits: addrArg, RAddr: raddr})
}

// Jump emits JUMP addr.
func (vm *VM) Jump(addr uint64) int {
	return vm.emit(Instruction{Code: OpJump, Addr: addr})
}

// JCond emits JCOND target, cond.
func (vm *VM) JCond(target, cond uint64) int {
	return vm.emit(Instruction{Code: OpJCond, Addr: target, argBits: cond})
}

// And emits AND addr, addrArg -> raddr.
func (vm *VM) And(addr, addrArg, raddr uint64) int {
	return vm.emit(Instruction{Code: OpAnd, Addr: addr, argBits: addrArg, RAddr: raddr})
}

// Or emits OR addr, addrArg -> raddr.
func (vm *VM) Or(addr, addrArg, raddr uint64) int {
	return vm.emit(Instruction{Code: OpOr, Addr: addr, argBits: addrArg, RAddr: raddr})
}

// Xor emits XOR addr, addrArg -> raddr.
func (vm *VM) Xor(addr, addrArg, raddr uint64) int {
	return vm.emit(Instruction{Code: OpXor, Addr: addr, argBits: addrArg, RAddr: raddr})
}

// Not emits NOT addr -> raddr.
func (vm *VM) Not(addr, raddr uint64) int {
	return vm.emit(Instruction{Code: OpNot, Addr: addr, RAddr: raddr})
}

// Push emits PUSH (append a default-tagged cell to the stack at runtime).
func (vm *VM) Push() int { return vm.emit(Instruction{Code: OpPush}) }

// Pop emits POP (drop the stack's tail cell at runtime).
func (vm *VM) Pop() int { return vm.emit(Instruction{Code: OpPop}) }

// Stack emits STACK (dump the stack to stdout at runtime).
func (vm *VM) Stack() int { return vm.emit(Instruction{Code: OpStack}) }

// Commands emits COMMANDS (dump the program to stdout at runtime).
func (vm *VM) Commands() int { return vm.emit(Instruction{Code: OpCommands}) }

// Print emits PRINT addr.
func (vm *VM) Print(addr uint64) int {
	return vm.emit(Instruction{Code: OpPrint, Addr: addr})
}

// Copy emits COPY dst, src (whole-register copy).
func (vm *VM) Copy(dst, src uint64) int {
	return vm.emit(Instruction{Code: OpCopy, Addr: dst, argBits: src})
}

// Assign emits ASSIGN dst, src (tag-preserving assign).
func (vm *VM) Assign(dst, src uint64) int {
	return vm.emit(Instruction{Code: OpAssign, Addr: dst, argBits: src})
}

// Rshift emits RSHIFT addr, addrArg -> raddr.
func (vm *VM) Rshift(addr, addrArg, raddr uint64) int {
	return vm.emit(Instruction{Code: OpRshift, Addr: addr, argBits: addrArg, RAddr: raddr})
}

// Lshift emits LSHIFT addr, addrArg -> raddr.
func (vm *VM) Lshift(addr, addrArg, raddr uint64) int {
	return vm.emit(Instruction{Code: OpLshift, Addr: addr, argBits: addrArg, RAddr: raddr})
}

// Greater emits GREATER addr, addrArg -> raddr.
func (vm *VM) Greater(addr, addrArg, raddr uint64) int {
	return vm.emit(Instruction{Code: OpGreater, Addr: addr, argBits: addrArg, RAddr: raddr})
}

// Less emits LESS addr, addrArg -> raddr.
func (vm *VM) Less(addr, addrArg, raddr uint64) int {
	return vm.emit(Instruction{Code: OpLess, Addr: addr, argBits: addrArg, RAddr: raddr})
}

// Equal emits EQUAL addr, addrArg -> raddr.
func (vm *VM) Equal(addr, addrArg, raddr uint64) int {
	return vm.emit(Instruction{Code: OpEqual, Addr: addr, argBits: addrArg, RAddr: raddr})
}

// Geq emits GEQ addr, addrArg -> raddr.
func (vm *VM) Geq(addr, addrArg, raddr uint64) int {
	return vm.emit(Instruction{Code: OpGeq, Addr: addr, argBits: addrArg, RAddr: raddr})
}

// Leq emits LEQ addr, addrArg -> raddr.
func (vm *VM) Leq(addr, addrArg, raddr uint64) int {
	return vm.emit(Instruction{Code: OpLeq, Addr: addr, argBits: addrArg, RAddr: raddr})
}

// PushCmd appends a raw, caller-constructed instruction directly, bypassing
// the typed builder methods. Well-formedness is then the caller's
// responsibility (spec.md section 4.3).
func (vm *VM) PushCmd(instr Instruction) int {
	return vm.emit(instr)
}
