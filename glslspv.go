// Package glslspv provides a Pure Go GLSL-to-SPIR-V compiler back-end.
//
// glslspv lowers a typed, constant-folded GLSL AST to SPIR-V binary in a
// single tree walk. The AST contract matches what a checking front-end
// produces: every expression carries its resolved type, constants are
// folded, and implicit conversions have been made explicit.
//
// The package provides a simple, high-level API as well as lower-level
// access to the individual pieces:
//   - ast — the input tree
//   - gen — the code generator
//   - spirv — module builder, disassembler and validator
//   - reflection — binding interface of the compiled module
//
// Example usage:
//
//	words, info, err := glslspv.Compile(root, glslspv.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = info.Resources
package glslspv

import (
	"fmt"

	"github.com/gogpu/glslspv/ast"
	"github.com/gogpu/glslspv/gen"
	"github.com/gogpu/glslspv/reflection"
	"github.com/gogpu/glslspv/spirv"
)

// Stage re-exports the shader stage for callers that only import the
// root package.
type Stage = gen.Stage

const (
	StageVertex   = gen.StageVertex
	StageFragment = gen.StageFragment
	StageCompute  = gen.StageCompute
)

// Options configures compilation.
type Options struct {
	// Stage selects the shader stage (default: vertex).
	Stage Stage

	// SPIRVVersion is the target SPIR-V version (default: 1.3).
	SPIRVVersion spirv.Version

	// Debug enables debug info in output (OpName, OpMemberName).
	Debug bool

	// Validate runs the structural validator on the generated binary.
	Validate bool

	// Workgroup is the compute local size; zero components default
	// to 1.
	Workgroup [3]uint32
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Stage:        StageVertex,
		SPIRVVersion: spirv.Version1_3,
		Debug:        false,
		Validate:     true,
	}
}

// Compile lowers a translation unit to SPIR-V binary and returns the
// binary along with the module's reflection record.
//
// Unsupported constructs (loops, switches, ternaries, increment and
// decrement, discard) report an error wrapping gen.ErrUnsupported.
func Compile(root *ast.Root, opts Options) ([]byte, *reflection.Info, error) {
	g := gen.New(gen.Config{
		Stage:     opts.Stage,
		Version:   opts.SPIRVVersion,
		Debug:     opts.Debug,
		Workgroup: opts.Workgroup,
	})
	words, info, err := g.Generate(root)
	if err != nil {
		return nil, nil, fmt.Errorf("code generation error: %w", err)
	}

	if opts.Validate {
		if err := spirv.Validate(words); err != nil {
			return nil, nil, fmt.Errorf("generated module is invalid: %w", err)
		}
	}
	return words, info, nil
}
