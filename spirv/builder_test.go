package spirv

import (
	"encoding/binary"
	"testing"
)

func TestModuleBuilder_MinimalModule(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)
	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	data := builder.Build()

	if len(data) < 20 {
		t.Fatalf("Module too small: got %d bytes, want at least 20", len(data))
	}

	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != MagicNumber {
		t.Errorf("Invalid magic number: got 0x%08X, want 0x%08X", magic, MagicNumber)
	}

	version := binary.LittleEndian.Uint32(data[4:8])
	expectedVersion := uint32(1<<16 | 3<<8)
	if version != expectedVersion {
		t.Errorf("Invalid version: got 0x%08X, want 0x%08X", version, expectedVersion)
	}

	generator := binary.LittleEndian.Uint32(data[8:12])
	if generator != GeneratorID {
		t.Errorf("Invalid generator: got 0x%08X, want 0x%08X", generator, GeneratorID)
	}

	bound := binary.LittleEndian.Uint32(data[12:16])
	if bound == 0 {
		t.Error("Bound should be > 0")
	}

	schema := binary.LittleEndian.Uint32(data[16:20])
	if schema != 0 {
		t.Errorf("Schema should be 0, got %d", schema)
	}
}

func TestModuleBuilder_TypeInterning(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)

	float1 := builder.TypeFloat(32)
	float2 := builder.TypeFloat(32)
	if float1 != float2 {
		t.Errorf("TypeFloat interning: got %d and %d, want equal ids", float1, float2)
	}

	vec3 := builder.TypeVector(float1, 3)
	vec3Again := builder.TypeVector(float1, 3)
	if vec3 != vec3Again {
		t.Errorf("TypeVector interning: got %d and %d, want equal ids", vec3, vec3Again)
	}

	vec4 := builder.TypeVector(float1, 4)
	if vec4 == vec3 {
		t.Error("Distinct vector sizes should get distinct ids")
	}

	mat3 := builder.TypeMatrix(vec3, 3)
	if mat3 == vec3 {
		t.Error("Matrix and column types should get distinct ids")
	}
}

func TestModuleBuilder_ArrayStrideDistinctTypes(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)

	float := builder.TypeFloat(32)
	length := builder.ConstantUint(4)

	plain := builder.TypeArray(float, length, 0)
	std140 := builder.TypeArray(float, length, 16)
	std430 := builder.TypeArray(float, length, 4)

	if plain == std140 || plain == std430 || std140 == std430 {
		t.Errorf("Arrays with different strides should be distinct types: %d, %d, %d",
			plain, std140, std430)
	}

	if again := builder.TypeArray(float, length, 16); again != std140 {
		t.Errorf("Same stride should intern: got %d, want %d", again, std140)
	}
}

func TestModuleBuilder_ConstantInterning(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)

	a := builder.ConstantFloat(1.5)
	b := builder.ConstantFloat(1.5)
	if a != b {
		t.Errorf("ConstantFloat interning: got %d and %d, want equal ids", a, b)
	}
	if c := builder.ConstantFloat(2.5); c == a {
		t.Error("Distinct constants should get distinct ids")
	}

	u1 := builder.ConstantUint(7)
	u2 := builder.ConstantUint(7)
	if u1 != u2 {
		t.Errorf("ConstantUint interning: got %d and %d, want equal ids", u1, u2)
	}
}

// buildVoidFunction starts a void function with an entry block and
// returns its ids.
func buildVoidFunction(builder *ModuleBuilder) (funcID uint32) {
	voidType := builder.TypeVoid()
	funcType := builder.TypeFunction(voidType)
	funcID = builder.AllocID()
	builder.StartFunction(funcID, voidType, funcType, FunctionControlNone)
	return funcID
}

func TestModuleBuilder_Function(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)
	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	funcID := buildVoidFunction(builder)
	builder.WriteReturn()
	builder.EndFunction()
	builder.AddEntryPoint(ExecutionModelFragment, funcID, "main", nil)
	builder.AddExecutionMode(funcID, ExecutionModeOriginUpperLeft)

	data := builder.Build()
	module, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var sawFunction, sawLabel, sawReturn, sawEnd bool
	for _, inst := range module.Instructions {
		switch inst.Opcode {
		case OpFunction:
			sawFunction = true
		case OpLabel:
			sawLabel = true
		case OpReturn:
			sawReturn = true
		case OpFunctionEnd:
			sawEnd = true
		}
	}
	for name, saw := range map[string]bool{
		"OpFunction":    sawFunction,
		"OpLabel":       sawLabel,
		"OpReturn":      sawReturn,
		"OpFunctionEnd": sawEnd,
	} {
		if !saw {
			t.Errorf("Missing %s in function body", name)
		}
	}
}

func TestModuleBuilder_ConditionalBlocks(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)
	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	funcID := buildVoidFunction(builder)
	cond := builder.ConstantBool(true)

	labels := builder.StartConditional(2) // then + merge
	merge := labels[1]
	builder.WriteSelectionMerge(merge, SelectionControlNone)
	builder.WriteBranchConditional(cond, labels[0], merge)

	builder.NextConditionalBlock()
	builder.WriteBranch(merge)

	builder.NextConditionalBlock()
	builder.EndConditional()
	builder.WriteReturn()
	builder.EndFunction()
	builder.AddEntryPoint(ExecutionModelGLCompute, funcID, "main", nil)
	builder.AddExecutionMode(funcID, ExecutionModeLocalSize, 1, 1, 1)

	module, err := Parse(builder.Build())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// The merge operand of OpSelectionMerge must match the false
	// target of the conditional branch and the label of the final
	// block.
	var mergeOperand, falseTarget, lastLabel uint32
	for _, inst := range module.Instructions {
		switch inst.Opcode {
		case OpSelectionMerge:
			mergeOperand = inst.Words[0]
		case OpBranchConditional:
			falseTarget = inst.Words[2]
		case OpLabel:
			lastLabel = inst.Words[0]
		}
	}
	if mergeOperand == 0 {
		t.Fatal("No OpSelectionMerge emitted")
	}
	if falseTarget != mergeOperand {
		t.Errorf("False branch target %d, want merge block %d", falseTarget, mergeOperand)
	}
	if lastLabel != mergeOperand {
		t.Errorf("Final block label %d, want merge block %d", lastLabel, mergeOperand)
	}
}

func TestModuleBuilder_LocalsPrecedeBody(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)
	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	funcID := buildVoidFunction(builder)
	float := builder.TypeFloat(32)
	ptrType := builder.TypePointer(StorageClassFunction, float)

	one := builder.ConstantFloat(1)
	varID := builder.DeclareVariable(ptrType, 0)
	builder.WriteStore(varID, one)

	// Declared after a body instruction, must still surface in the
	// entry block's variable prologue.
	builder.DeclareVariable(ptrType, 0)

	builder.WriteReturn()
	builder.EndFunction()
	builder.AddEntryPoint(ExecutionModelGLCompute, funcID, "main", nil)
	builder.AddExecutionMode(funcID, ExecutionModeLocalSize, 1, 1, 1)

	module, err := Parse(builder.Build())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var sawBodyInst bool
	for _, inst := range module.Instructions {
		switch inst.Opcode {
		case OpStore:
			sawBodyInst = true
		case OpVariable:
			if inst.Words[2] == uint32(StorageClassFunction) && sawBodyInst {
				t.Error("Function-scope OpVariable emitted after body instructions")
			}
		}
	}
}

func TestModuleBuilder_SectionOrder(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)
	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	float := builder.TypeFloat(32)
	ptrType := builder.TypePointer(StorageClassPrivate, float)
	globalVar := builder.GlobalVariable(ptrType, StorageClassPrivate, 0)
	builder.AddName(globalVar, "g")
	builder.AddDecorate(globalVar, DecorationLocation, 0)

	funcID := buildVoidFunction(builder)
	builder.WriteReturn()
	builder.EndFunction()
	builder.AddEntryPoint(ExecutionModelVertex, funcID, "main", nil)

	if err := Validate(builder.Build()); err != nil {
		t.Fatalf("Built module failed validation: %v", err)
	}
}

func TestModuleBuilder_ExtInstAndSelect(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)
	builder.AddCapability(CapabilityShader)
	builder.AddExtension("SPV_KHR_storage_buffer_storage_class")
	glsl := builder.AddExtInstImport("GLSL.std.450")
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	float := builder.TypeFloat(32)
	four := builder.ConstantFloat(4)
	null := builder.ConstantNull(float)
	if again := builder.ConstantNull(float); again != null {
		t.Errorf("ConstantNull interning: got %d and %d, want equal ids", again, null)
	}
	cond := builder.ConstantBool(true)

	funcID := buildVoidFunction(builder)
	sqrt := builder.WriteExtInst(float, glsl, 31, four) // GLSL.std.450 Sqrt
	sel := builder.WriteSelect(float, cond, sqrt, null)
	builder.WriteReturn()
	builder.EndFunction()
	builder.AddEntryPoint(ExecutionModelFragment, funcID, "main", nil)
	builder.AddExecutionMode(funcID, ExecutionModeOriginUpperLeft)

	data := builder.Build()
	if err := Validate(data); err != nil {
		t.Fatalf("Built module failed validation: %v", err)
	}
	module, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var sawExtension, sawNull bool
	for _, inst := range module.Instructions {
		switch inst.Opcode {
		case OpExtension:
			name, _ := DecodeString(inst.Words)
			if name != "SPV_KHR_storage_buffer_storage_class" {
				t.Errorf("Extension name %q", name)
			}
			sawExtension = true
		case OpConstantNull:
			if inst.Words[1] != null {
				t.Errorf("OpConstantNull result %d, want %d", inst.Words[1], null)
			}
			sawNull = true
		case OpExtInst:
			want := []uint32{float, sqrt, glsl, 31, four}
			for i, w := range want {
				if inst.Words[i] != w {
					t.Errorf("OpExtInst word %d is %d, want %d", i, inst.Words[i], w)
				}
			}
		case OpSelect:
			want := []uint32{float, sel, cond, sqrt, null}
			for i, w := range want {
				if inst.Words[i] != w {
					t.Errorf("OpSelect word %d is %d, want %d", i, inst.Words[i], w)
				}
			}
		}
	}
	if !sawExtension {
		t.Error("Missing OpExtension")
	}
	if !sawNull {
		t.Error("Missing OpConstantNull")
	}
}

func TestModuleBuilder_KillTerminatesBlock(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)
	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	funcID := buildVoidFunction(builder)
	builder.WriteKill()
	if !builder.IsCurrentBlockTerminated() {
		t.Error("OpKill should terminate the current block")
	}
	builder.EndFunction()
	builder.AddEntryPoint(ExecutionModelFragment, funcID, "main", nil)
	builder.AddExecutionMode(funcID, ExecutionModeOriginUpperLeft)

	data := builder.Build()
	if err := Validate(data); err != nil {
		t.Fatalf("Built module failed validation: %v", err)
	}
	module, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var sawKill bool
	for _, inst := range module.Instructions {
		if inst.Opcode == OpKill {
			sawKill = true
		}
	}
	if !sawKill {
		t.Error("Missing OpKill terminator")
	}
}

func TestParse_Roundtrip(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)
	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)
	funcID := buildVoidFunction(builder)
	builder.WriteReturn()
	builder.EndFunction()
	builder.AddEntryPoint(ExecutionModelVertex, funcID, "main", nil)

	data := builder.Build()
	module, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if module.Header.VersionMajor() != 1 || module.Header.VersionMinor() != 3 {
		t.Errorf("Version %d.%d, want 1.3", module.Header.VersionMajor(), module.Header.VersionMinor())
	}

	total := 5
	for _, inst := range module.Instructions {
		total += len(inst.Encode())
	}
	if total*4 != len(data) {
		t.Errorf("Instructions re-encode to %d bytes, module is %d", total*4, len(data))
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse([]byte{1, 2, 3}); err == nil {
		t.Error("Parse should reject truncated input")
	}

	bad := make([]byte, 20)
	binary.LittleEndian.PutUint32(bad[0:4], 0xDEADBEEF)
	if _, err := Parse(bad); err == nil {
		t.Error("Parse should reject a bad magic number")
	}
}
