// Package spirv provides a low-level SPIR-V binary module builder,
// parser, disassembler and structural validator.
//
// SPIR-V is the standard intermediate language for GPU shaders,
// used by Vulkan, OpenCL, and other APIs.
//
// # Module Builder
//
// ModuleBuilder assembles a SPIR-V module section by section and
// serializes it with Build:
//
//	builder := spirv.NewModuleBuilder(spirv.Version1_3)
//	builder.AddCapability(spirv.CapabilityShader)
//	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
//
//	floatType := builder.TypeFloat(32)
//	vec4Type := builder.TypeVector(floatType, 4)
//
//	binary := builder.Build()
//
// Types and constants are deduplicated: requesting the same type or
// constant twice returns the ID of the one already declared. Function
// bodies are built block by block; the builder tracks the current
// basic block, whether it has been terminated, and a stack of open
// conditionals for structured control flow.
//
// # Module Structure
//
// A SPIR-V module consists of:
//   - Header (magic, version, generator, bound, schema)
//   - Capabilities (required features)
//   - Extensions (optional extensions)
//   - Extended instruction imports (GLSL.std.450, etc.)
//   - Memory model (addressing and memory model)
//   - Entry points (shader entry functions)
//   - Execution modes (shader configuration)
//   - Debug information (names, source info)
//   - Annotations (decorations)
//   - Types and constants
//   - Global variables
//   - Functions (code)
//
// Build emits the sections in exactly this order.
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
