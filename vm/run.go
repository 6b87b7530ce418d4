package vm

import (
	"runtime/debug"
)

// Run executes the program to completion, respecting in-flight jumps
// (spec.md section 4.5). Faults are advisory by default: the loop records
// the latest one on the VM and keeps going, unless strict mode is set, in
// which case UnknownOpcode/DivisionByZero halt immediately -- mirroring the
// teacher's RunProgram/errcode split, generalized per spec.md section 7's
// allowance for a strict mode.
//
// Like the teacher, the garbage collector is disabled for the duration of
// the run: instruction dispatch is a tight loop with no large allocations
// of its own, and a GC pause mid-program would otherwise show up as
// unpredictable latency between instructions.
func (vm *VM) Run() error {
	gcPercent := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(gcPercent)

	for vm.cmdPtr < uint64(vm.program.Len()) {
		if err := vm.step(); err != nil {
			vm.errcode = err
			if vm.strict && isStrictFault(err) {
				return err
			}
		}
	}
	return nil
}

// Step executes exactly one instruction and advances cmd_ptr, for use by a
// debug/single-step front end. It reports errProgramFinished once cmd_ptr
// has run off the end of the program.
func (vm *VM) Step() error {
	if vm.cmdPtr >= uint64(vm.program.Len()) {
		return errProgramFinished
	}
	err := vm.step()
	if err != nil {
		vm.errcode = err
	}
	return err
}

// step dispatches the instruction at cmd_ptr and advances the program
// counter by one, per the run loop invariant of spec.md section 4.5: on
// entry, cmd_ptr identifies the instruction about to execute; JUMP/JCOND
// compensate internally for this post-increment by setting cmd_ptr to
// addr-1.
func (vm *VM) step() error {
	instr, err := vm.program.Get(int(vm.cmdPtr))
	if err != nil {
		return err
	}
	execErr := vm.execute(instr)
	vm.cmdPtr++
	return execErr
}

// isStrictFault reports whether err is one of the fault classes strict mode
// is allowed to halt on (spec.md section 7): UnknownOpcode and
// DivisionByZero. Underflow/OutOfBounds are caller bugs; Run records them
// in LastError like any other fault but never halts on them, in strict mode
// or not, since spec.md doesn't name them as strict-mode candidates.
func isStrictFault(err error) bool {
	return err == errUnknownOpcode || err == errDivisionByZero
}
