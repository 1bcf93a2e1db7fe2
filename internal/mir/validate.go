package mir

import (
	"errors"
	"fmt"
)

// Validate checks structural invariants over a whole module and returns
// every violation joined into one error.
func Validate(m *Module) error {
	var errs []error
	for _, fn := range m.Funcs {
		if err := m.validateFunc(fn); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Module) validateFunc(fn *Func) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("fn %s: "+format, append([]any{fn.Name}, args...)...))
	}

	if len(fn.Blocks) == 0 {
		fail("no basic blocks")
		return errors.Join(errs...)
	}

	defined := make(map[ValueID]bool, fn.NumValues())
	for _, blk := range fn.Blocks {
		for _, in := range blk.Instrs {
			if in.ID == NoValueID {
				fail("bb%d: instruction without an SSA id", blk.ID)
				continue
			}
			if int(in.ID) > fn.NumValues() {
				fail("bb%d: %%%d exceeds the function's value counter", blk.ID, in.ID)
			}
			if defined[in.ID] {
				fail("bb%d: %%%d defined twice", blk.ID, in.ID)
			}
			defined[in.ID] = true
			if _, ok := m.Types.Lookup(in.Type); !ok {
				fail("bb%d: %%%d carries dangling type#%d", blk.ID, in.ID, in.Type)
			}
			if in.Kind == InstrCall {
				for _, eff := range in.Call.Effects {
					if int(eff) > m.Effects.Len() {
						fail("bb%d: %%%d carries dangling effect#%d", blk.ID, in.ID, eff)
					}
				}
			}
		}
	}

	checkOperand := func(blk *Block, id ValueID, what string) {
		if id == NoValueID || !defined[id] {
			fail("bb%d: %s reads undefined %%%d", blk.ID, what, id)
		}
	}

	for _, blk := range fn.Blocks {
		for _, in := range blk.Instrs {
			for _, use := range in.Uses() {
				checkOperand(blk, use, fmt.Sprintf("%%%d", in.ID))
			}
		}
		switch blk.Term.Kind {
		case TermNone:
			fail("bb%d: missing terminator", blk.ID)
		case TermReturn:
			if blk.Term.Return.HasValue {
				checkOperand(blk, blk.Term.Return.Value, "return")
			}
		case TermBranch:
			checkOperand(blk, blk.Term.Branch.Cond, "branch condition")
			for _, target := range blk.Term.Successors() {
				if int(target) >= len(fn.Blocks) {
					fail("bb%d: branch to missing bb%d", blk.ID, target)
				}
			}
		case TermJump:
			if int(blk.Term.Jump.Target) >= len(fn.Blocks) {
				fail("bb%d: jump to missing bb%d", blk.ID, blk.Term.Jump.Target)
			}
		default:
			fail("bb%d: invalid terminator kind %d", blk.ID, blk.Term.Kind)
		}
	}
	return errors.Join(errs...)
}
