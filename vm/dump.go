package vm

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// This file is the introspection surface (spec.md section 4.4.5): stable,
// human-readable dumps of the stack, the program, and a single register.
// None of these mutate VM state (spec.md section 8's dump-idempotence
// property). The shape -- build the text, then have the STACK/COMMANDS/
// PRINT opcodes in exec.go write it to vm.stdout -- mirrors the teacher's
// printCurrentState/printProgram/formatInstructionStr split between
// "compute the string" and "emit the string".

func formatRegister(r Register) string {
	switch r.Tag {
	case Byte:
		return fmt.Sprintf("{Byte %d}", r.AsByte())
	case UInt:
		return fmt.Sprintf("{UInt %d}", r.AsUInt())
	case Int:
		return fmt.Sprintf("{Int %d}", r.AsInt())
	case Float:
		return fmt.Sprintf("{Float %g}", r.AsFloat())
	case Ptr:
		return fmt.Sprintf("{Ptr 0x%x}", r.AsUInt())
	case Addr:
		return fmt.Sprintf("{Addr %d}", r.AsUInt())
	default:
		return "{?unknown-tag?}"
	}
}

// DumpStack renders every live stack cell, tail first, one per line.
func (vm *VM) DumpStack() string {
	var b strings.Builder
	fmt.Fprintf(&b, "stack (%d cells):\n", vm.stack.Len())
	for i := vm.stack.Len() - 1; i >= 0; i-- {
		r, _ := vm.stack.Get(i)
		fmt.Fprintf(&b, "  [%d] %s\n", i, formatRegister(r))
	}
	return b.String()
}

// DumpProgram renders every instruction in program order. The line whose
// index equals the current cmd_ptr is marked with a leading ">", per
// spec.md section 4.4.5's required marker.
func (vm *VM) DumpProgram() string {
	var b strings.Builder
	fmt.Fprintf(&b, "program (%d instructions):\n", vm.program.Len())
	for i := 0; i < vm.program.Len(); i++ {
		instr, _ := vm.program.Get(i)
		marker := " "
		if uint64(i) == vm.cmdPtr {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %4d: %s\n", marker, i, instr)
	}
	return b.String()
}

// DumpRegister renders a single stack cell.
func (vm *VM) DumpRegister(addr int) string {
	r, err := vm.stack.Get(addr)
	if err != nil {
		return fmt.Sprintf("[%d] <%s>\n", addr, err)
	}
	return fmt.Sprintf("[%d] %s\n", addr, formatRegister(r))
}

// Sdump is a verbose diagnostic dump of the whole VM (program, stack,
// cmd_ptr, last advisory fault), used by the CLI's --verbose dump path. It
// intentionally goes through spew rather than the stable DumpStack/
// DumpProgram formatting, since it is meant for ad hoc debugging, not for
// output a test or script depends on staying byte-for-byte stable.
func (vm *VM) Sdump() string {
	return spew.Sdump(struct {
		CmdPtr    uint64
		Program   []Instruction
		Stack     []Register
		LastFault error
	}{
		CmdPtr:    vm.cmdPtr,
		Program:   vm.programSlice(),
		Stack:     vm.stackSlice(),
		LastFault: vm.errcode,
	})
}

func (vm *VM) programSlice() []Instruction {
	out := make([]Instruction, vm.program.Len())
	for i := range out {
		out[i], _ = vm.program.Get(i)
	}
	return out
}

func (vm *VM) stackSlice() []Register {
	out := make([]Register, vm.stack.Len())
	for i := range out {
		out[i], _ = vm.stack.Get(i)
	}
	return out
}
