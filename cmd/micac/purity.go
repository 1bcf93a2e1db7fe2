package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var purityCmd = &cobra.Command{
	Use:   "purity [directory]",
	Short: "Report which functions perform effects",
	Long:  `Purity builds the workspace and prints the per-function effect verdicts with their call sites`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPurity,
}

func runPurity(cmd *cobra.Command, args []string) error {
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

	for i, rep := range b.Purity {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("module %s\n", rep.Path)
		for _, fn := range rep.Funcs {
			verdict := "pure"
			if !fn.Pure {
				verdict = "effectful"
			}
			fmt.Printf("  %s: %s\n", fn.Name, verdict)
			for _, site := range fn.Sites {
				fmt.Printf("    bb%d %%%d call %s\n", site.Block, site.Value, site.Callee)
			}
			if fn.Pure {
				continue
			}
			for _, region := range fn.Regions {
				fmt.Printf("    pure region bb%d..bb%d\n", region[0], region[len(region)-1])
			}
		}
	}
	return nil
}
