// Package purity tags basic blocks and functions as pure or effectful by
// scanning SSA call instructions. The analysis is a cheap syntactic
// over-approximation: a call whose effect requirements cannot be resolved
// counts as effectful, and only blocks reachable from the entry influence
// the function verdict.
package purity

import (
	"mica/internal/mir"
)

// Verdict is the tri-state purity tag.
type Verdict uint8

const (
	// Pure: no instruction in the block performs effects.
	Pure Verdict = iota

	// Effectful: some call requires a non-empty effect row.
	Effectful

	// Opaque: some call's requirements could not be resolved; rolled up
	// as effectful.
	Opaque
)

func (v Verdict) String() string {
	switch v {
	case Pure:
		return "pure"
	case Effectful:
		return "effectful"
	case Opaque:
		return "opaque"
	}
	return "invalid"
}

// Effectful reports whether the verdict must be treated as effectful.
func (v Verdict) IsEffectful() bool {
	return v != Pure
}

// Site points at one effectful instruction.
type Site struct {
	Block  mir.BlockID
	Value  mir.ValueID
	Callee string
}

// BlockReport is the verdict for one block.
type BlockReport struct {
	Block     mir.BlockID
	Verdict   Verdict
	Reachable bool
	Sites     []Site
}

// FuncReport is the rolled-up verdict for one function.
type FuncReport struct {
	Name   string
	Pure   bool
	Blocks []BlockReport

	// Sites lists effectful instructions in reachable blocks.
	Sites []Site

	// Regions are maximal runs of consecutive pure blocks in layout
	// order. Schedulers can reorder or parallelize within a region.
	Regions [][]mir.BlockID
}

// Report covers one module.
type Report struct {
	Path  string
	Funcs []FuncReport
}

// Analyze computes the purity report as a post-pass over a completed
// module. The module is not mutated.
func Analyze(m *mir.Module) *Report {
	rep := &Report{Path: m.Path}
	for _, fn := range m.Funcs {
		rep.Funcs = append(rep.Funcs, analyzeFunc(fn))
	}
	return rep
}

func analyzeFunc(fn *mir.Func) FuncReport {
	out := FuncReport{Name: fn.Name, Pure: true}
	reachable := reach(fn)

	for _, blk := range fn.Blocks {
		br := BlockReport{Block: blk.ID, Reachable: reachable[blk.ID]}
		for _, in := range blk.Instrs {
			if in.Kind != mir.InstrCall {
				continue
			}
			verdict := classify(&in)
			if verdict == Pure {
				continue
			}
			if verdict > br.Verdict {
				br.Verdict = verdict
			}
			br.Sites = append(br.Sites, Site{Block: blk.ID, Value: in.ID, Callee: in.Call.Callee})
		}
		if br.Reachable && br.Verdict.IsEffectful() {
			out.Pure = false
			out.Sites = append(out.Sites, br.Sites...)
		}
		out.Blocks = append(out.Blocks, br)
	}

	var run []mir.BlockID
	for _, br := range out.Blocks {
		if !br.Verdict.IsEffectful() {
			run = append(run, br.Block)
			continue
		}
		if len(run) > 0 {
			out.Regions = append(out.Regions, run)
			run = nil
		}
	}
	if len(run) > 0 {
		out.Regions = append(out.Regions, run)
	}
	return out
}

func classify(in *mir.Instr) Verdict {
	if !in.Call.EffectsKnown {
		return Opaque
	}
	if !in.Call.Effects.Empty() {
		return Effectful
	}
	return Pure
}

// reach walks terminator successors from the entry block.
func reach(fn *mir.Func) map[mir.BlockID]bool {
	seen := make(map[mir.BlockID]bool, len(fn.Blocks))
	if len(fn.Blocks) == 0 {
		return seen
	}
	work := []mir.BlockID{fn.Blocks[0].ID}
	seen[fn.Blocks[0].ID] = true
	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]
		if int(id) >= len(fn.Blocks) {
			continue
		}
		for _, next := range fn.Blocks[id].Term.Successors() {
			if !seen[next] {
				seen[next] = true
				work = append(work, next)
			}
		}
	}
	return seen
}
