package vm

import (
	"bytes"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/require"
)

// TestSumScenario is spec.md section 8 scenario 1: push three cells,
// SET_INT 0 42, SET_INT 1 58, ADD 0 1 2. Expect stack[2] == {Int, 100}.
func TestSumScenario(t *testing.T) {
	m := New()
	m.Push()
	m.Push()
	m.Push()
	m.SetInt(0, 42)
	m.SetInt(1, 58)
	m.Add(0, 1, 2)

	require.NoError(t, m.Run())

	got, err := m.GetRegister(2)
	require.NoError(t, err)
	require.Equal(t, Int, got.Tag)
	require.Equal(t, int64(100), got.AsInt())
}

// TestPromotionScenario is spec.md section 8 scenario 2.
func TestPromotionScenario(t *testing.T) {
	m := New()
	m.Push()
	m.Push()
	m.SetInt(0, 3)
	m.SetFloat(1, 0.5)
	m.Add(0, 1, 1)

	require.NoError(t, m.Run())

	got, err := m.GetRegister(1)
	require.NoError(t, err)
	require.Equal(t, Float, got.Tag)
	require.InDelta(t, 3.5, got.AsFloat(), 1e-9)
}

// TestLoopScenario is spec.md section 8 scenario 3: a JCOND-driven
// countdown must terminate with the counter at zero.
func TestLoopScenario(t *testing.T) {
	m := New()
	m.Push() // 0: counter
	m.Push() // 1: decrement amount
	m.Push() // 2: loop condition flag
	m.Push() // 3: zero constant

	m.SetInt(0, 5)
	m.SetInt(1, 1)
	m.SetInt(3, 0)

	loopStart := m.ProgramLen()
	m.Sub(0, 1, 0)
	m.Greater(0, 3, 2)
	m.JCond(uint64(loopStart), 2)

	require.NoError(t, m.Run())

	counter, err := m.GetRegister(0)
	require.NoError(t, err)
	require.Equal(t, int64(0), counter.AsInt())
}

// TestJumpCorrectness checks spec.md section 4.5's JUMP contract directly:
// JUMP k makes the next executed instruction the one at index k, skipping
// whatever sits between the jump and its target.
func TestJumpCorrectness(t *testing.T) {
	m := New()
	m.PushRegister(zeroRegister())
	m.SetInt(0, 1)
	m.Jump(3)
	m.SetInt(0, 99) // index 2, must be skipped
	m.SetInt(0, 7)  // index 3, jump target

	require.NoError(t, m.Run())

	got, err := m.GetRegister(0)
	require.NoError(t, err)
	require.Equal(t, int64(7), got.AsInt())
}

func TestJumpToZeroWrapsCorrectly(t *testing.T) {
	// JUMP 0 sets cmd_ptr to addr-1, which wraps to MaxUint64; the run
	// loop's subsequent increment wraps it back to 0. Guard against a
	// regression that special-cases addr==0.
	m := New()
	m.PushRegister(zeroRegister())
	m.SetInt(0, 1) // index 0
	m.Jump(0)      // index 1: infinite self-loop onto index 0

	for i := 0; i < 4; i++ {
		require.NoError(t, m.Step())
	}
	require.Equal(t, uint64(0), m.ProgramCounter())
}

// TestStackGrowthPreservesIndices is spec.md section 8 scenario 4: push
// 1000 cells and confirm every earlier index still holds its own value.
func TestStackGrowthPreservesIndices(t *testing.T) {
	m := New()
	for i := 0; i < 1000; i++ {
		m.PushRegister(zeroRegister())
		require.NoError(t, m.SetRegister(i, NewIntRegister(int64(i))))
	}
	require.Equal(t, 1000, m.StackLen())

	for i := 0; i < 1000; i++ {
		got, err := m.GetRegister(i)
		require.NoError(t, err)
		require.Equal(t, int64(i), got.AsInt())
	}
}

// TestVectorNegativeIndexingOnStack is spec.md section 8 scenario 5, run
// through the VM's own register accessors rather than a bare Vector.
func TestVectorNegativeIndexingOnStack(t *testing.T) {
	m := New()
	for i := 0; i < 5; i++ {
		m.PushRegister(zeroRegister())
		require.NoError(t, m.SetRegister(i, NewIntRegister(int64(i))))
	}

	last, err := m.GetRegister(-1)
	require.NoError(t, err)
	require.Equal(t, int64(4), last.AsInt())

	first, err := m.GetRegister(-5)
	require.NoError(t, err)
	require.Equal(t, int64(0), first.AsInt())
}

// TestCopyVsAssign is spec.md section 8 scenario 6: COPY overwrites the
// destination's tag wholesale; ASSIGN preserves the destination's original
// tag and casts the source value into it.
func TestCopyVsAssign(t *testing.T) {
	copyVM := New()
	copyVM.Push()
	copyVM.Push()
	copyVM.SetFloat(0, 2.5)
	copyVM.SetInt(1, 7)
	copyVM.Copy(0, 1)
	require.NoError(t, copyVM.Run())

	copied, err := copyVM.GetRegister(0)
	require.NoError(t, err)
	require.Equal(t, Int, copied.Tag, "COPY must overwrite the destination tag")
	require.Equal(t, int64(7), copied.AsInt())

	assignVM := New()
	assignVM.Push()
	assignVM.Push()
	assignVM.SetFloat(0, 2.5)
	assignVM.SetInt(1, 7)
	assignVM.Assign(0, 1)
	require.NoError(t, assignVM.Run())

	assigned, err := assignVM.GetRegister(0)
	require.NoError(t, err)
	require.Equal(t, Float, assigned.Tag, "ASSIGN must preserve the destination tag")
	require.Equal(t, float64(7), assigned.AsFloat())
}

func TestUnknownOpcodeFault(t *testing.T) {
	m := New()
	m.PushCmd(Instruction{Code: Opcode(200)})

	require.NoError(t, m.Run(), "advisory mode must not halt Run")
	require.ErrorIs(t, m.LastError(), errUnknownOpcode)
}

func TestStrictModeHaltsOnUnknownOpcode(t *testing.T) {
	m := New()
	m.SetStrict(true)
	m.PushCmd(Instruction{Code: Opcode(200)})
	m.Push()
	m.SetInt(0, 1) // must not execute: strict mode halts on the prior instruction

	err := m.Run()
	require.ErrorIs(t, err, errUnknownOpcode)
	require.Equal(t, 0, m.StackLen())
}

func TestDivisionByZeroAdvisoryThenStrict(t *testing.T) {
	m := New()
	m.Push()
	m.Push()
	m.Push()
	m.SetInt(0, 1)
	m.SetInt(1, 0)
	m.Div(0, 1, 2)
	m.SetInt(2, 42)

	require.NoError(t, m.Run())
	got, _ := m.GetRegister(2)
	require.Equal(t, int64(42), got.AsInt(), "advisory mode keeps running after the fault")

	strictVM := New()
	strictVM.SetStrict(true)
	strictVM.Push()
	strictVM.Push()
	strictVM.Push()
	strictVM.SetInt(0, 1)
	strictVM.SetInt(1, 0)
	strictVM.Div(0, 1, 2)
	strictVM.SetInt(2, 42)

	err := strictVM.Run()
	require.ErrorIs(t, err, errDivisionByZero)
	untouched, _ := strictVM.GetRegister(2)
	require.True(t, untouched.IsZero(), "strict mode halts before the SET_INT after the fault")
}

func TestStackUnderflowOnPop(t *testing.T) {
	m := New()
	m.Pop()

	require.NoError(t, m.Run())
	require.ErrorIs(t, m.LastError(), errUnderflow)
}

// TestDumpsDoNotMutateState is spec.md section 8's dump-idempotence
// property: calling DumpStack/DumpProgram/DumpRegister any number of times
// must not change what Run/Step subsequently observe.
func TestDumpsDoNotMutateState(t *testing.T) {
	m := New()
	m.Push()
	m.Push()
	m.SetInt(0, 1)
	m.SetInt(1, 2)
	m.Add(0, 1, 0)

	before := m.DumpProgram()
	_ = m.DumpStack()
	_ = m.DumpRegister(0)
	after := m.DumpProgram()
	require.Equal(t, before, after)

	require.NoError(t, m.Run())

	stackBefore := m.DumpStack()
	_ = m.DumpStack()
	_ = m.DumpProgram()
	stackAfter := m.DumpStack()
	require.Equal(t, stackBefore, stackAfter)

	got, err := m.GetRegister(0)
	require.NoError(t, err)
	require.Equal(t, int64(3), got.AsInt())
}

func TestDumpProgramMarksCurrentInstruction(t *testing.T) {
	m := New()
	m.PushRegister(zeroRegister())
	m.SetInt(0, 1)
	m.SetInt(0, 2)

	require.NoError(t, m.Step())
	dump := m.DumpProgram()
	require.Contains(t, dump, ">    1: SET_INT 0, 2")
}

func TestStepReportsProgramFinished(t *testing.T) {
	m := New()
	m.PushRegister(zeroRegister())
	m.SetInt(0, 1)

	require.NoError(t, m.Step())
	err := m.Step()
	require.ErrorIs(t, err, errProgramFinished)
}

func TestStackOpcodeWritesOutput(t *testing.T) {
	var buf bytes.Buffer
	m := NewWithOutput(&buf)
	m.Push()
	m.SetInt(0, 9)
	m.Stack()

	require.NoError(t, m.Run())
	require.Contains(t, buf.String(), "{Int 9}")
}

// TestDeepEqualOnDumpedRegisters cross-checks GetRegister against a plain
// struct snapshot using go-test/deep, guarding against an accidental
// unexported-field drift between Register and what a caller expects back.
func TestDeepEqualOnDumpedRegisters(t *testing.T) {
	m := New()
	m.Push()
	m.SetFloat(0, 1.25)
	require.NoError(t, m.Run())

	got, err := m.GetRegister(0)
	require.NoError(t, err)

	want := NewFloatRegister(1.25)
	deep.CompareUnexportedFields = true
	defer func() { deep.CompareUnexportedFields = false }()
	if diff := deep.Equal(got, want); diff != nil {
		t.Fatalf("register mismatch: %v", diff)
	}
}
