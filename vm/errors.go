package vm

import "errors"

// Sentinel errors implementing the fault taxonomy of spec.md section 7.
// These are advisory by default: the run loop records the latest one on
// the VM and keeps going, exactly like the teacher's errcode field, unless
// strict mode is enabled (see VM.SetStrict).
var (
	errAllocationFailed   = errors.New("tagvm: allocation failed")
	errUnderflow          = errors.New("tagvm: stack underflow")
	errUnknownOpcode      = errors.New("tagvm: unknown opcode")
	errOutOfBounds        = errors.New("tagvm: out of bounds access")
	errDivisionByZero     = errors.New("tagvm: division by zero")
	errProgramFinished    = errors.New("tagvm: program finished")
	errIllegalRegisterUse = errors.New("tagvm: illegal register use")
)
