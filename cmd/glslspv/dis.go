package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/glslspv/spirv"
)

var disCmd = &cobra.Command{
	Use:   "dis <module.spv>",
	Short: "Disassemble a SPIR-V module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		text, err := spirv.Disassemble(data)
		if err != nil {
			return fmt.Errorf("disassembling %s: %w", args[0], err)
		}
		fmt.Print(text)
		return nil
	},
}
