package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mica/internal/backend"
	"mica/internal/backend/llvm"
	"mica/internal/backend/native"
)

var irCmd = &cobra.Command{
	Use:   "ir [directory]",
	Short: "Build the workspace and emit backend output",
	Long:  `Ir runs the full pipeline and feeds each module to the selected backend`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIR,
}

func init() {
	irCmd.Flags().String("backend", "text", "backend to emit with (text|llvm|native)")
	irCmd.Flags().Bool("disk-cache", false, "enable the persistent artifact cache")
}

func selectBackend(name string) (backend.Backend, error) {
	switch name {
	case "text":
		return backend.Text{}, nil
	case "llvm":
		return llvm.Backend{}, nil
	case "native":
		return native.Backend{}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

func runIR(cmd *cobra.Command, args []string) error {
	backendName, err := cmd.Flags().GetString("backend")
	if err != nil {
		return fmt.Errorf("failed to get backend flag: %w", err)
	}
	diskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}

	be, err := selectBackend(backendName)
	if err != nil {
		return err
	}

	b, err := buildWorkspace(cmd, args, diskCache)
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

	for i, m := range b.MIR {
		out, err := be.Emit(backend.Input{Module: m, Purity: b.Purity[i]})
		if err != nil {
			return fmt.Errorf("%s backend: %w", be.Name(), err)
		}
		if i > 0 {
			fmt.Println()
		}
		if _, err := os.Stdout.Write(out); err != nil {
			return err
		}
	}
	return nil
}
