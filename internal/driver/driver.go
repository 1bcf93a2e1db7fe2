// Package driver runs the compilation pipeline over a workspace: parallel
// parsing, then resolution, checking, lowering and SSA construction in
// deterministic module order.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/hir"
	"mica/internal/mir"
	"mica/internal/observ"
	"mica/internal/parser"
	"mica/internal/purity"
	"mica/internal/sema"
	"mica/internal/source"
	"mica/internal/symbols"
)

// Options tunes one pipeline run.
type Options struct {
	MaxDiagnostics int
	Jobs           int // parallel parse workers, 0 for GOMAXPROCS
	Cache          *DiskCache

	// Timer, when set, records per-stage durations.
	Timer *observ.Timer

	// Progress, when set, receives events as files and stages advance.
	// Called from parse workers; the callback must be goroutine-safe.
	Progress func(Event)
}

func (o *Options) fill() {
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = 100
	}
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
}

// Build holds whatever the pipeline produced before it stopped. Later
// stages are nil when an earlier stage reported errors.
type Build struct {
	FileSet *source.FileSet
	Bag     *diag.Bag
	Modules []*ast.Module
	Sema    *sema.Result
	HIR     []*hir.Module
	MIR     []*mir.Module
	Purity  []*purity.Report
}

// Failed reports whether any stage emitted an error diagnostic.
func (b *Build) Failed() bool {
	return b.Bag.HasErrors()
}

// ListSourceFiles returns the sorted list of *.mica files under dir.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".mica") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// BuildWorkspace loads every *.mica file under dir and runs the pipeline.
func BuildWorkspace(ctx context.Context, dir string, opts Options) (*Build, error) {
	opts.fill()

	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	bag := diag.NewBag(opts.MaxDiagnostics)

	ids := make([]source.FileID, 0, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			bag.Add(diag.NewError(diag.UnknownCode, source.Span{},
				"failed to load "+path+": "+err.Error()))
			continue
		}
		ids = append(ids, id)
	}

	return BuildFiles(ctx, fileSet, bag, ids, opts)
}

// BuildFiles runs the pipeline over already-loaded files. Parsing is
// parallel with one bag per file; the merged bag keeps file order.
func BuildFiles(ctx context.Context, fileSet *source.FileSet, bag *diag.Bag, ids []source.FileID, opts Options) (*Build, error) {
	opts.fill()
	out := &Build{FileSet: fileSet, Bag: bag}

	modules := make([]*ast.Module, len(ids))
	bags := make([]*diag.Bag, len(ids))

	parsePhase := -1
	if opts.Timer != nil {
		parsePhase = opts.Timer.Begin("parse")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, max(len(ids), 1)))
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			path := fileSet.Get(id).Path
			opts.emit(Event{File: path, Stage: StageParse, Status: StatusWorking})
			// Index i is unique per goroutine, no mutex needed.
			bags[i] = diag.NewBag(opts.MaxDiagnostics)
			modules[i] = parser.ParseFile(fileSet.Get(id), diag.BagReporter{Bag: bags[i]})
			status := StatusDone
			if bags[i].HasErrors() {
				status = StatusError
			}
			opts.emit(Event{File: path, Stage: StageParse, Status: status})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	if opts.Timer != nil {
		opts.Timer.End(parsePhase, fmt.Sprintf("%d files", len(ids)))
	}

	for i, b := range bags {
		if b == nil {
			continue
		}
		bag.Merge(b)
		out.Modules = append(out.Modules, modules[i])
	}
	bag.Sort()
	if bag.HasErrors() {
		return out, nil
	}

	reporter := diag.BagReporter{Bag: bag}
	opts.emit(Event{Stage: StageResolve, Status: StatusWorking})
	checkPhase := -1
	if opts.Timer != nil {
		checkPhase = opts.Timer.Begin("resolve+check")
	}
	table := symbols.Resolve(out.Modules, reporter)
	opts.emit(Event{Stage: StageCheck, Status: StatusWorking})
	out.Sema = sema.Check(table, reporter)
	if opts.Timer != nil {
		opts.Timer.End(checkPhase, "")
	}
	bag.Sort()
	if bag.HasErrors() {
		opts.emit(Event{Stage: StageCheck, Status: StatusError})
		return out, nil
	}

	opts.emit(Event{Stage: StageLower, Status: StatusWorking})
	lowerPhase := -1
	if opts.Timer != nil {
		lowerPhase = opts.Timer.Begin("lower+build")
	}
	out.HIR = hir.Lower(out.Sema)
	opts.emit(Event{Stage: StageBuild, Status: StatusWorking})
	out.MIR = mir.Build(out.Sema, out.HIR)
	for _, m := range out.MIR {
		out.Purity = append(out.Purity, purity.Analyze(m))
	}
	if opts.Timer != nil {
		opts.Timer.End(lowerPhase, fmt.Sprintf("%d modules", len(out.MIR)))
	}
	opts.emit(Event{Stage: StageBuild, Status: StatusDone})

	if opts.Cache != nil {
		if err := storeArtifacts(opts.Cache, out); err != nil {
			return out, err
		}
	}
	return out, nil
}
