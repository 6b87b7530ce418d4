package vm

import (
	"bufio"
	"io"
	"os"
)

// VM owns exactly one program and one stack (spec.md section 3). It is not
// safe to share across goroutines without external synchronization.
type VM struct {
	program *Vector[Instruction]
	stack   *Vector[Register]
	cmdPtr  uint64

	stdout *bufio.Writer

	strict  bool
	errcode error
}

// New creates a VM with an empty program and stack, program counter at 0,
// writing introspection output to os.Stdout.
func New() *VM {
	return &VM{
		program: NewVector[Instruction](0),
		stack:   NewVector[Register](0),
		stdout:  bufio.NewWriter(os.Stdout),
	}
}

// NewWithOutput is New, but introspection output goes to w instead of
// os.Stdout. Useful for tests that want to capture STACK/COMMANDS/PRINT
// output.
func NewWithOutput(w io.Writer) *VM {
	vm := New()
	vm.stdout = bufio.NewWriter(w)
	return vm
}

// Delete releases the VM's program and stack. After Delete, the VM must not
// be used again.
func (vm *VM) Delete() {
	vm.program = nil
	vm.stack = nil
}

// SetStrict toggles strict-mode fault handling: when true, UnknownOpcode and
// DivisionByZero halt Run immediately instead of being recorded advisory and
// continuing (spec.md section 7).
func (vm *VM) SetStrict(strict bool) { vm.strict = strict }

// LastError returns the most recently recorded advisory fault, or nil.
func (vm *VM) LastError() error { return vm.errcode }

// ProgramCounter returns the current cmd_ptr.
func (vm *VM) ProgramCounter() uint64 { return vm.cmdPtr }

// ProgramLen returns the number of instructions in the program.
func (vm *VM) ProgramLen() int { return vm.program.Len() }

// StackLen returns the number of live stack cells.
func (vm *VM) StackLen() int { return vm.stack.Len() }

// GetRegister reads the stack cell at addr (negative indices count from the
// tail, per the Vector collaborator).
func (vm *VM) GetRegister(addr int) (Register, error) {
	return vm.stack.Get(addr)
}

// SetRegister writes the stack cell at addr.
func (vm *VM) SetRegister(addr int, r Register) error {
	return vm.stack.Set(addr, r)
}

// PushRegister appends r to the stack and returns its new index. This is a
// direct API for callers assembling a starting stack state (e.g. tests);
// the PUSH opcode is the runtime equivalent a program can execute itself.
func (vm *VM) PushRegister(r Register) int {
	return vm.stack.Push(r)
}

func (vm *VM) flush() {
	_ = vm.stdout.Flush()
}
