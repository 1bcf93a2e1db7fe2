package main

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mica/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "micac",
	Short:         "Mica language compiler and toolchain",
	Long:          `Mica is a small capability-based language; micac checks, lowers and emits IR for it`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(hirCmd)
	rootCmd.AddCommand(irCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(purityCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel workers (0=auto)")

	cobra.OnInitialize(configureColor)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			rootCmd.PrintErrln("error:", err)
		}
		os.Exit(1)
	}
}

func configureColor() {
	mode, err := rootCmd.PersistentFlags().GetString("color")
	if err != nil {
		return
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor reports whether diagnostics should be colorized right now.
func useColor() bool {
	return !color.NoColor
}
