package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mica/internal/astprint"
	"mica/internal/diag"
	"mica/internal/diagfmt"
	"mica/internal/parser"
	"mica/internal/source"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file.mica>",
	Short: "Reprint a source file in canonical form",
	Long:  `Fmt parses a single file and prints it back from the syntax tree; parse errors abort the rewrite`,
	Args:  cobra.ExactArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("write", false, "rewrite the file in place instead of printing")
}

func runFmt(cmd *cobra.Command, args []string) error {
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	fileSet := source.NewFileSet()
	id, err := fileSet.Load(args[0])
	if err != nil {
		return err
	}

	bag := diag.NewBag(maxDiagnostics)
	module := parser.ParseFile(fileSet.Get(id), diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		bag.Sort()
		diagfmt.Pretty(os.Stderr, bag, fileSet, diagfmt.PrettyOpts{Color: useColor()})
		return errDiagnostics
	}

	out := astprint.Module(module)
	if write {
		return os.WriteFile(args[0], []byte(out), 0o644)
	}
	fmt.Print(out)
	return nil
}
