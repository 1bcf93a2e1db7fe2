package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mica/internal/layout"
	"mica/internal/types"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [directory]",
	Short: "Print sizes and offsets of declared types",
	Long:  `Layout builds the workspace and prints size, alignment and field offsets for every record and enum`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLayout,
}

func runLayout(cmd *cobra.Command, args []string) error {
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

	for _, m := range b.MIR {
		for id := types.TypeID(1); int(id) < m.Types.Len(); id++ {
			t, ok := m.Types.Lookup(id)
			if !ok || (t.Kind != types.KindRecord && t.Kind != types.KindEnum) {
				continue
			}
			lay, err := m.Layouts.Of(id)
			if err != nil {
				var lerr *layout.Error
				if errors.As(err, &lerr) {
					fmt.Printf("%s: %v\n", m.Types.Format(id), err)
					continue
				}
				return err
			}
			fmt.Printf("%s: size=%d align=%d", m.Types.Format(id), lay.Size, lay.Align)
			if len(lay.FieldOffsets) > 0 {
				fmt.Printf(" offsets=%v", lay.FieldOffsets)
			}
			fmt.Println()
		}
	}
	return nil
}
