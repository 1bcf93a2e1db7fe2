package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"mica/internal/driver"
	"mica/internal/ui"
)

// buildWithProgress runs the pipeline behind a live progress display.
// The driver pushes events from its workers; the display owns the tty.
func buildWithProgress(cmd *cobra.Command, args []string, diskCache bool) (*driver.Build, error) {
	dir, manifest, err := workspaceDir(args)
	if err != nil {
		return nil, err
	}
	opts, err := buildOptions(cmd, manifest, diskCache)
	if err != nil {
		return nil, err
	}

	files, err := driver.ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}

	events := make(chan driver.Event, 64)
	opts.Progress = func(ev driver.Event) { events <- ev }

	var b *driver.Build
	var buildErr error
	go func() {
		defer close(events)
		b, buildErr = driver.BuildWorkspace(context.Background(), dir, opts)
	}()

	program := tea.NewProgram(ui.NewProgressModel("building "+dir, files, events))
	if _, err := program.Run(); err != nil {
		// Drain so the build goroutine cannot block on a dead display.
		for range events {
		}
		if buildErr != nil {
			return b, buildErr
		}
		return b, fmt.Errorf("progress display failed: %w", err)
	}
	return b, buildErr
}

// progressRequested reports whether a live display is wanted and possible.
func progressRequested(cmd *cobra.Command) bool {
	on, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return false
	}
	return on && isTerminal(os.Stdout)
}
