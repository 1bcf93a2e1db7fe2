// Package backend defines the consumer-side contract of the IR: a backend
// receives a validated Module plus its purity report and produces an
// artifact. The module's type and effect tables are shared-read; backends
// must not mutate them.
package backend

import (
	"mica/internal/mir"
	"mica/internal/purity"
)

// Input bundles what every backend consumes.
type Input struct {
	Module *mir.Module
	Purity *purity.Report
}

// Backend turns one IR module into an artifact.
type Backend interface {
	Name() string
	Emit(in Input) ([]byte, error)
}
