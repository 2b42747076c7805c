package spirv

import (
	"strings"
	"testing"
)

// buildFragmentModule builds a small fragment shader module for the
// disassembler and validator tests: one input, one output, a load and
// a store.
func buildFragmentModule() []byte {
	builder := NewModuleBuilder(Version1_3)
	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	float := builder.TypeFloat(32)
	vec4 := builder.TypeVector(float, 4)
	inPtr := builder.TypePointer(StorageClassInput, vec4)
	outPtr := builder.TypePointer(StorageClassOutput, vec4)

	inVar := builder.GlobalVariable(inPtr, StorageClassInput, 0)
	outVar := builder.GlobalVariable(outPtr, StorageClassOutput, 0)
	builder.AddName(inVar, "fragColor")
	builder.AddDecorate(inVar, DecorationLocation, 0)
	builder.AddDecorate(outVar, DecorationLocation, 0)

	voidType := builder.TypeVoid()
	funcType := builder.TypeFunction(voidType)
	funcID := builder.AllocID()
	builder.StartFunction(funcID, voidType, funcType, FunctionControlNone)
	value := builder.WriteLoad(vec4, inVar)
	builder.WriteStore(outVar, value)
	builder.WriteReturn()
	builder.EndFunction()

	builder.AddEntryPoint(ExecutionModelFragment, funcID, "main", []uint32{inVar, outVar})
	builder.AddExecutionMode(funcID, ExecutionModeOriginUpperLeft)
	return builder.Build()
}

func TestDisassemble(t *testing.T) {
	text, err := Disassemble(buildFragmentModule())
	if err != nil {
		t.Fatalf("Disassemble failed: %v", err)
	}

	for _, want := range []string{
		"OpCapability Shader",
		"OpMemoryModel Logical GLSL450",
		"OpEntryPoint Fragment",
		"\"main\"",
		"OpExecutionMode",
		"OriginUpperLeft",
		"OpName",
		"\"fragColor\"",
		"OpDecorate",
		"Location 0",
		"OpTypeFloat 32",
		"OpTypeVector",
		"OpVariable",
		"Input",
		"Output",
		"OpLoad",
		"OpStore",
		"OpReturn",
		"OpFunctionEnd",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Disassembly missing %q\n%s", want, text)
		}
	}
}

func TestDisassemble_HeaderComment(t *testing.T) {
	text, err := Disassemble(buildFragmentModule())
	if err != nil {
		t.Fatalf("Disassemble failed: %v", err)
	}
	if !strings.Contains(text, "Version: 1.3") {
		t.Errorf("Disassembly missing version comment\n%s", text)
	}
	if !strings.Contains(text, "Bound:") {
		t.Errorf("Disassembly missing bound comment\n%s", text)
	}
}

func TestDisassemble_RejectsGarbage(t *testing.T) {
	if _, err := Disassemble([]byte("not spirv at all")); err == nil {
		t.Error("Disassemble should reject non-SPIR-V input")
	}
}
