package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mica/internal/diagfmt"
	"mica/internal/driver"
	"mica/internal/observ"
	"mica/internal/project"
)

// errDiagnostics signals a non-zero exit without an extra error line;
// the diagnostics themselves are the message.
var errDiagnostics = errors.New("diagnostics reported")

var checkCmd = &cobra.Command{
	Use:   "check [directory]",
	Short: "Type- and effect-check a workspace",
	Long:  `Check parses every *.mica file under the directory (default: the project root) and reports diagnostics`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("disk-cache", false, "enable the persistent artifact cache")
	checkCmd.Flags().Bool("progress", false, "show a live progress display (tty only)")
}

// workspaceDir resolves the directory to build: an explicit argument wins,
// then the mica.toml source root, then the current directory.
func workspaceDir(args []string) (string, *project.Manifest, error) {
	if len(args) > 0 {
		return args[0], nil, nil
	}
	manifestPath, ok, err := project.FindManifest(".")
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return ".", nil, nil
	}
	manifest, err := project.Load(manifestPath)
	if err != nil {
		return "", nil, err
	}
	return manifest.SourceDir(), manifest, nil
}

func buildOptions(cmd *cobra.Command, manifest *project.Manifest, diskCache bool) (driver.Options, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	opts := driver.Options{MaxDiagnostics: maxDiagnostics, Jobs: jobs}
	if manifest != nil {
		if opts.Jobs == 0 {
			opts.Jobs = manifest.Build.Jobs
		}
		if opts.MaxDiagnostics == 100 && manifest.Build.MaxDiagnostics != 100 {
			opts.MaxDiagnostics = manifest.Build.MaxDiagnostics
		}
	}
	if diskCache {
		cache, err := driver.OpenDiskCache("mica")
		if err != nil {
			return driver.Options{}, fmt.Errorf("failed to open disk cache: %w", err)
		}
		opts.Cache = cache
	}
	return opts, nil
}

func buildWorkspace(cmd *cobra.Command, args []string, diskCache bool) (*driver.Build, error) {
	dir, manifest, err := workspaceDir(args)
	if err != nil {
		return nil, err
	}
	opts, err := buildOptions(cmd, manifest, diskCache)
	if err != nil {
		return nil, err
	}

	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if showTimings {
		opts.Timer = observ.NewTimer()
	}

	b, err := driver.BuildWorkspace(context.Background(), dir, opts)
	if opts.Timer != nil && b != nil {
		fmt.Fprint(os.Stderr, opts.Timer.Summary())
	}
	return b, err
}

// printDiagnostics renders the bag and reports whether errors were present.
func printDiagnostics(cmd *cobra.Command, b *driver.Build, format string, withNotes bool) (bool, error) {
	if b.Bag.Len() == 0 {
		return false, nil
	}
	switch format {
	case "json":
		err := diagfmt.JSON(os.Stdout, b.Bag, b.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     withNotes,
		})
		if err != nil {
			return b.Failed(), err
		}
	case "pretty":
		diagfmt.Pretty(os.Stderr, b.Bag, b.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(),
			ShowNotes: withNotes,
		})
	default:
		return b.Failed(), fmt.Errorf("unknown format %q", format)
	}
	return b.Failed(), nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	diskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}

	var b *driver.Build
	if progressRequested(cmd) && format == "pretty" {
		b, err = buildWithProgress(cmd, args, diskCache)
	} else {
		b, err = buildWorkspace(cmd, args, diskCache)
	}
	if err != nil {
		return err
	}

	failed, err := printDiagnostics(cmd, b, format, withNotes)
	if err != nil {
		return err
	}
	if failed {
		return errDiagnostics
	}
	if format == "pretty" {
		fmt.Printf("checked %d module(s), no errors\n", len(b.Modules))
	}
	return nil
}
