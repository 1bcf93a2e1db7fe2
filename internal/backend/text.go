package backend

import (
	"strings"

	"mica/internal/mir"
)

// Text renders the deterministic module dump, annotated with the purity
// verdicts. It accepts any validated module, unknown types included.
type Text struct{}

func (Text) Name() string { return "text" }

func (Text) Emit(in Input) ([]byte, error) {
	var b strings.Builder
	b.WriteString(mir.DumpModule(in.Module))
	if in.Purity != nil {
		b.WriteString("\npurity:\n")
		for _, fn := range in.Purity.Funcs {
			verdict := "pure"
			if !fn.Pure {
				verdict = "effectful"
			}
			b.WriteString("  " + fn.Name + ": " + verdict + "\n")
		}
	}
	return []byte(b.String()), nil
}
