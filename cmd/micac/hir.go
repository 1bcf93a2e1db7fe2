package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mica/internal/hir"
)

var hirCmd = &cobra.Command{
	Use:   "hir [directory]",
	Short: "Dump the desugared high-level IR",
	Long:  `Hir checks the workspace and prints the canonical call-form IR of every module`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHIR,
}

func runHIR(cmd *cobra.Command, args []string) error {
	b, err := buildWorkspace(cmd, args, false)
	if err != nil {
		return err
	}

	failed, err := printDiagnostics(cmd, b, "pretty", true)
	if err != nil {
		return err
	}
	if failed {
		return errDiagnostics
	}

	for i, m := range b.HIR {
		if i > 0 {
			fmt.Println()
		}
		fmt.Print(hir.DumpModule(m))
	}
	return nil
}
