// Command glslspv is the SPIR-V module toolbox of the glslspv
// compiler.
//
// Usage:
//
//	glslspv dis shader.spv               # Disassemble a module
//	glslspv check *.spv                  # Validate modules
//	glslspv check -manifest pipeline.toml # Validate against a manifest
//	glslspv info shader.refl             # Print a reflection sidecar
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "glslspv",
	Short:         "Inspect and validate SPIR-V modules",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(disCmd, checkCmd, infoCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
