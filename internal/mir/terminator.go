package mir

// TermKind discriminates block terminators.
type TermKind uint8

const (
	TermNone TermKind = iota
	TermReturn
	TermBranch
	TermJump
)

// Terminator ends a basic block. Kind selects the payload.
type Terminator struct {
	Kind TermKind

	Return ReturnTerm
	Branch BranchTerm
	Jump   JumpTerm
}

// ReturnTerm leaves the function, optionally carrying a value.
type ReturnTerm struct {
	HasValue bool
	Value    ValueID
}

// BranchTerm transfers to Then or Else depending on Cond.
type BranchTerm struct {
	Cond ValueID
	Then BlockID
	Else BlockID
}

// JumpTerm transfers unconditionally.
type JumpTerm struct {
	Target BlockID
}

// Successors lists the blocks this terminator can reach.
func (t *Terminator) Successors() []BlockID {
	switch t.Kind {
	case TermBranch:
		return []BlockID{t.Branch.Then, t.Branch.Else}
	case TermJump:
		return []BlockID{t.Jump.Target}
	}
	return nil
}
