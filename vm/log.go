package vm

import "github.com/sirupsen/logrus"

// log is the package-level diagnostics logger. It is deliberately separate
// from the VM's stdout writer (vm.stdout): STACK/COMMANDS/PRINT opcodes
// produce program output, while log carries kernel diagnostics (unknown
// opcodes, faults, reserved-opcode hits) the way the pack's wider
// CPU/VM-simulator cohort does instead of mixing both into bare fmt calls.
var log = logrus.New()

func init() {
	log.SetLevel(logrus.WarnLevel)
}

// SetLogLevel adjusts the package diagnostics logger's verbosity. Exposed
// so the CLI can turn on debug-level logging (e.g. to observe MALLOC/FREE
// no-ops) without reaching into package internals.
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}
