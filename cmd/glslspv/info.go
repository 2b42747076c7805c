package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gogpu/glslspv/reflection"
)

var infoCmd = &cobra.Command{
	Use:   "info <module.refl>",
	Short: "Print a reflection sidecar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := reflection.Decode(f)
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		bold := color.New(color.Bold)
		bold.Printf("%s %s\n", info.Stage, info.EntryPoint)
		if info.Workgroup != [3]uint32{} {
			fmt.Printf("  workgroup %dx%dx%d\n", info.Workgroup[0], info.Workgroup[1], info.Workgroup[2])
		}
		for _, r := range info.Resources {
			fmt.Printf("  %-16s %-14s set=%d binding=%d", r.Name, r.Kind, r.Set, r.Binding)
			if r.Size > 0 {
				fmt.Printf(" size=%d", r.Size)
			}
			fmt.Println()
		}
		for _, v := range info.Varyings {
			dir := "out"
			if v.Input {
				dir = "in"
			}
			fmt.Printf("  %-16s %-3s location=%d\n", v.Name, dir, v.Location)
		}
		return nil
	},
}
