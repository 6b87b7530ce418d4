package main

import "tagvm/vm"

// Demo programs built directly against the builder surface. There is no
// text assembly front end here (spec.md marks that out of scope), so the
// CLI's only source of programs is Go code constructing Instructions via
// the typed builder methods -- exactly the scenarios spec.md section 8
// describes.

// buildSumDemo implements spec.md section 8 scenario 1: push three cells,
// SET_INT 0 42, SET_INT 1 58, ADD 0 1 2. Expect stack[2] == {Int, 100}.
func buildSumDemo() *vm.VM {
	m := vm.New()
	m.Push()
	m.Push()
	m.Push()
	m.SetInt(0, 42)
	m.SetInt(1, 58)
	m.Add(0, 1, 2)
	return m
}

// buildPromoteDemo implements spec.md section 8 scenario 2: Int+Float
// promotion. Expect stack[1] == {Float, 3.5}.
func buildPromoteDemo() *vm.VM {
	m := vm.New()
	m.Push()
	m.Push()
	m.SetInt(0, 3)
	m.SetFloat(1, 0.5)
	m.Add(0, 1, 1)
	return m
}

// buildLoopDemo builds a JCOND-driven countdown: cell0 starts at 5 and is
// decremented by cell1 (1) until cell2 (the comparison flag) goes to 0, at
// which point the loop falls through with cell0 == 0.
func buildLoopDemo() *vm.VM {
	m := vm.New()
	m.Push() // cell 0: counter
	m.Push() // cell 1: decrement amount
	m.Push() // cell 2: loop condition flag
	m.Push() // cell 3: zero constant

	m.SetInt(0, 5)
	m.SetInt(1, 1)
	m.SetInt(3, 0)

	loopStart := m.ProgramLen()
	m.Sub(0, 1, 0)
	m.Greater(0, 3, 2)
	m.JCond(uint64(loopStart), 2)

	return m
}

// buildCopyAssignDemo implements spec.md section 8 scenario 6: COPY
// overwrites the destination's tag; ASSIGN preserves it.
func buildCopyAssignDemo(useAssign bool) *vm.VM {
	m := vm.New()
	m.Push()
	m.Push()
	m.SetFloat(0, 2.5)
	m.SetInt(1, 7)
	if useAssign {
		m.Assign(0, 1)
	} else {
		m.Copy(0, 1)
	}
	return m
}

var demoBuilders = map[string]func() *vm.VM{
	"sum":     buildSumDemo,
	"promote": buildPromoteDemo,
	"loop":    buildLoopDemo,
	"copy":    func() *vm.VM { return buildCopyAssignDemo(false) },
	"assign":  func() *vm.VM { return buildCopyAssignDemo(true) },
}
