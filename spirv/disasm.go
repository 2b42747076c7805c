package spirv

import (
	"fmt"
	"strings"
)

var opcodeNames = map[OpCode]string{
	0: "OpNop", 1: "OpUndef", 3: "OpSource", 4: "OpSourceExtension",
	5: "OpName", 6: "OpMemberName", 7: "OpString",
	10: "OpExtension", 11: "OpExtInstImport", 12: "OpExtInst",
	14: "OpMemoryModel", 15: "OpEntryPoint", 16: "OpExecutionMode",
	17: "OpCapability", 19: "OpTypeVoid", 20: "OpTypeBool",
	21: "OpTypeInt", 22: "OpTypeFloat", 23: "OpTypeVector",
	24: "OpTypeMatrix", 25: "OpTypeImage", 26: "OpTypeSampler",
	27: "OpTypeSampledImage", 28: "OpTypeArray", 29: "OpTypeRuntimeArray",
	30: "OpTypeStruct", 32: "OpTypePointer", 33: "OpTypeFunction",
	41: "OpConstantTrue", 42: "OpConstantFalse", 43: "OpConstant",
	44: "OpConstantComposite", 46: "OpConstantNull",
	54: "OpFunction", 55: "OpFunctionParameter", 56: "OpFunctionEnd",
	57: "OpFunctionCall", 59: "OpVariable",
	61: "OpLoad", 62: "OpStore", 65: "OpAccessChain",
	71: "OpDecorate", 72: "OpMemberDecorate",
	77: "OpVectorExtractDynamic", 78: "OpVectorInsertDynamic",
	79: "OpVectorShuffle", 80: "OpCompositeConstruct", 81: "OpCompositeExtract",
	82: "OpCompositeInsert", 83: "OpCopyObject", 84: "OpTranspose",
	109: "OpConvertFToU", 110: "OpConvertFToS", 111: "OpConvertSToF",
	112: "OpConvertUToF", 113: "OpUConvert", 114: "OpSConvert",
	115: "OpFConvert", 124: "OpBitcast",
	126: "OpSNegate", 127: "OpFNegate", 128: "OpIAdd", 129: "OpFAdd",
	130: "OpISub", 131: "OpFSub", 132: "OpIMul", 133: "OpFMul",
	134: "OpUDiv", 135: "OpSDiv", 136: "OpFDiv", 137: "OpUMod",
	138: "OpSRem", 139: "OpSMod", 140: "OpFRem", 141: "OpFMod",
	142: "OpVectorTimesScalar", 143: "OpMatrixTimesScalar",
	144: "OpVectorTimesMatrix", 145: "OpMatrixTimesVector",
	146: "OpMatrixTimesMatrix", 147: "OpOuterProduct", 148: "OpDot",
	154: "OpAny", 155: "OpAll", 156: "OpIsNan", 157: "OpIsInf",
	164: "OpLogicalEqual", 165: "OpLogicalNotEqual",
	166: "OpLogicalOr", 167: "OpLogicalAnd", 168: "OpLogicalNot",
	169: "OpSelect", 170: "OpIEqual", 171: "OpINotEqual",
	172: "OpUGreaterThan", 173: "OpSGreaterThan", 174: "OpUGreaterThanEqual",
	175: "OpSGreaterThanEqual", 176: "OpULessThan", 177: "OpSLessThan",
	178: "OpULessThanEqual", 179: "OpSLessThanEqual",
	180: "OpFOrdEqual", 181: "OpFUnordEqual", 182: "OpFOrdNotEqual",
	183: "OpFUnordNotEqual", 184: "OpFOrdLessThan", 186: "OpFOrdGreaterThan",
	188: "OpFOrdLessThanEqual", 190: "OpFOrdGreaterThanEqual",
	194: "OpShiftRightLogical", 195: "OpShiftRightArithmetic",
	196: "OpShiftLeftLogical", 197: "OpBitwiseOr", 198: "OpBitwiseXor",
	199: "OpBitwiseAnd", 200: "OpNot",
	227: "OpAtomicLoad", 228: "OpAtomicStore", 229: "OpAtomicExchange",
	230: "OpAtomicCompareExchange", 232: "OpAtomicIIncrement",
	233: "OpAtomicIDecrement", 234: "OpAtomicIAdd", 235: "OpAtomicISub",
	236: "OpAtomicSMin", 237: "OpAtomicUMin", 238: "OpAtomicSMax",
	239: "OpAtomicUMax", 240: "OpAtomicAnd", 241: "OpAtomicOr",
	242: "OpAtomicXor",
	245: "OpPhi", 246: "OpLoopMerge", 247: "OpSelectionMerge",
	248: "OpLabel", 249: "OpBranch", 250: "OpBranchConditional",
	251: "OpSwitch", 252: "OpKill", 253: "OpReturn", 254: "OpReturnValue",
	255: "OpUnreachable",
}

var capabilityNames = map[uint32]string{
	0: "Matrix", 1: "Shader", 2: "Geometry", 3: "Tessellation",
	4: "Addresses", 5: "Linkage", 6: "Kernel",
	9: "Float16", 10: "Float64", 11: "Int64", 12: "Int64Atomics",
	22: "Int16", 31: "ClipDistance", 32: "CullDistance",
	38: "Int8", 49: "ImageQuery", 4427: "DrawParameters",
}

var storageClassNames = map[uint32]string{
	0: "UniformConstant", 1: "Input", 2: "Uniform", 3: "Output",
	4: "Workgroup", 5: "CrossWorkgroup", 6: "Private", 7: "Function",
	8: "Generic", 9: "PushConstant", 10: "AtomicCounter", 11: "Image",
	12: "StorageBuffer",
}

var decorationNames = map[uint32]string{
	0: "RelaxedPrecision", 1: "SpecId", 2: "Block", 3: "BufferBlock",
	4: "RowMajor", 5: "ColMajor", 6: "ArrayStride", 7: "MatrixStride",
	11: "BuiltIn", 13: "NoPerspective", 14: "Flat", 15: "Patch",
	16: "Centroid", 17: "Sample", 18: "Invariant", 19: "Restrict",
	20: "Aliased", 21: "Volatile", 23: "Coherent", 24: "NonWritable",
	25: "NonReadable", 26: "Uniform", 30: "Location", 31: "Component",
	32: "Index", 33: "Binding", 34: "DescriptorSet", 35: "Offset",
	42: "NoContraction",
}

var builtInNames = map[uint32]string{
	0: "Position", 1: "PointSize", 2: "ClipDistance", 3: "CullDistance",
	14: "FragCoord", 15: "PointCoord", 16: "FrontFacing",
	22: "FragDepth", 23: "HelperInvocation", 24: "NumWorkgroups",
	25: "WorkgroupSize", 26: "WorkgroupId", 27: "LocalInvocationId",
	28: "GlobalInvocationId", 29: "LocalInvocationIndex",
	42: "VertexIndex", 43: "InstanceIndex",
}

var executionModeNames = map[uint32]string{
	7: "OriginUpperLeft", 8: "OriginLowerLeft", 9: "EarlyFragmentTests",
	12: "DepthReplacing", 17: "LocalSize", 26: "OutputVertices",
}

var executionModelNames = map[uint32]string{
	0: "Vertex", 1: "TessellationControl", 2: "TessellationEvaluation",
	3: "Geometry", 4: "Fragment", 5: "GLCompute", 6: "Kernel",
}

var addressingModelNames = map[uint32]string{
	0: "Logical", 1: "Physical32", 2: "Physical64",
	5348: "PhysicalStorageBuffer64",
}

var memoryModelNames = map[uint32]string{
	0: "Simple", 1: "GLSL450", 2: "OpenCL", 3: "Vulkan",
}

func idRef(n uint32) string {
	return fmt.Sprintf("%%_%d", n)
}

func lookup(m map[uint32]string, v uint32) string {
	if s, ok := m[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", v)
}

// Disassemble renders a SPIR-V binary in .spvasm-like text form.
func Disassemble(data []byte) (string, error) {
	module, err := Parse(data)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	h := module.Header
	fmt.Fprintf(&sb, "; SPIR-V\n")
	fmt.Fprintf(&sb, "; Version: %d.%d\n", h.VersionMajor(), h.VersionMinor())
	fmt.Fprintf(&sb, "; Generator: 0x%08X\n", h.Generator)
	fmt.Fprintf(&sb, "; Bound: %d\n", h.Bound)
	fmt.Fprintf(&sb, "; Schema: %d\n", h.Schema)
	sb.WriteString("\n")

	for _, inst := range module.Instructions {
		sb.WriteString(formatInstruction(inst))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// resultAt tells formatInstruction where the result ID of an opcode
// sits in its operand words: 0 for none, 1-based otherwise.
func resultAt(op OpCode) int {
	switch op {
	case OpString, OpExtInstImport, OpTypeVoid, OpTypeBool, OpTypeInt,
		OpTypeFloat, OpTypeVector, OpTypeMatrix, OpTypeImage,
		OpTypeSampler, OpTypeSampledImage, OpTypeArray,
		OpTypeRuntimeArray, OpTypeStruct, OpTypePointer, OpTypeFunction,
		OpLabel:
		return 1
	case OpNop, OpSource, OpSourceExtension, OpName, OpMemberName,
		OpExtension, OpMemoryModel, OpEntryPoint, OpExecutionMode,
		OpCapability, OpFunctionEnd, OpStore, OpDecorate,
		OpMemberDecorate, OpAtomicStore, OpLoopMerge, OpSelectionMerge,
		OpBranch, OpBranchConditional, OpSwitch, OpKill, OpReturn,
		OpReturnValue, OpUnreachable:
		return 0
	default:
		// Everything else has the type/result prefix.
		return 2
	}
}

//nolint:gocognit,gocyclo,cyclop,funlen // switch cases for SPIR-V opcodes
func formatInstruction(inst Instruction) string {
	name, ok := opcodeNames[inst.Opcode]
	if !ok {
		name = fmt.Sprintf("Op%d", inst.Opcode)
	}
	ops := inst.Words

	var sb strings.Builder
	switch inst.Opcode {
	case OpCapability:
		fmt.Fprintf(&sb, "               %s %s", name, lookup(capabilityNames, ops[0]))

	case OpExtension:
		str, _ := DecodeString(ops)
		fmt.Fprintf(&sb, "               %s \"%s\"", name, str)

	case OpExtInstImport:
		str, _ := DecodeString(ops[1:])
		fmt.Fprintf(&sb, "         %s = %s \"%s\"", idRef(ops[0]), name, str)

	case OpMemoryModel:
		fmt.Fprintf(&sb, "               %s %s %s", name,
			lookup(addressingModelNames, ops[0]), lookup(memoryModelNames, ops[1]))

	case OpEntryPoint:
		str, strWords := DecodeString(ops[2:])
		fmt.Fprintf(&sb, "               %s %s %s \"%s\"", name,
			lookup(executionModelNames, ops[0]), idRef(ops[1]), str)
		for _, iface := range ops[2+strWords:] {
			fmt.Fprintf(&sb, " %s", idRef(iface))
		}

	case OpExecutionMode:
		fmt.Fprintf(&sb, "               %s %s %s", name, idRef(ops[0]),
			lookup(executionModeNames, ops[1]))
		for _, param := range ops[2:] {
			fmt.Fprintf(&sb, " %d", param)
		}

	case OpName:
		str, _ := DecodeString(ops[1:])
		fmt.Fprintf(&sb, "               %s %s \"%s\"", name, idRef(ops[0]), str)

	case OpMemberName:
		str, _ := DecodeString(ops[2:])
		fmt.Fprintf(&sb, "               %s %s %d \"%s\"", name, idRef(ops[0]), ops[1], str)

	case OpDecorate:
		fmt.Fprintf(&sb, "               %s %s %s", name, idRef(ops[0]),
			lookup(decorationNames, ops[1]))
		if Decoration(ops[1]) == DecorationBuiltIn && len(ops) > 2 {
			fmt.Fprintf(&sb, " %s", lookup(builtInNames, ops[2]))
		} else {
			for _, param := range ops[2:] {
				fmt.Fprintf(&sb, " %d", param)
			}
		}

	case OpMemberDecorate:
		fmt.Fprintf(&sb, "               %s %s %d %s", name, idRef(ops[0]), ops[1],
			lookup(decorationNames, ops[2]))
		for _, param := range ops[3:] {
			fmt.Fprintf(&sb, " %d", param)
		}

	case OpTypeInt:
		fmt.Fprintf(&sb, "         %s = %s %d %d", idRef(ops[0]), name, ops[1], ops[2])

	case OpTypeFloat:
		fmt.Fprintf(&sb, "         %s = %s %d", idRef(ops[0]), name, ops[1])

	case OpTypeVector, OpTypeMatrix:
		fmt.Fprintf(&sb, "         %s = %s %s %d", idRef(ops[0]), name, idRef(ops[1]), ops[2])

	case OpTypePointer:
		fmt.Fprintf(&sb, "         %s = %s %s %s", idRef(ops[0]), name,
			lookup(storageClassNames, ops[1]), idRef(ops[2]))

	case OpConstant:
		fmt.Fprintf(&sb, "         %s = %s %s %d", idRef(ops[1]), name, idRef(ops[0]), ops[2])

	case OpFunction:
		fmt.Fprintf(&sb, "         %s = %s %s %d %s", idRef(ops[1]), name,
			idRef(ops[0]), ops[2], idRef(ops[3]))

	case OpVariable:
		fmt.Fprintf(&sb, "         %s = %s %s %s", idRef(ops[1]), name,
			idRef(ops[0]), lookup(storageClassNames, ops[2]))
		for _, init := range ops[3:] {
			fmt.Fprintf(&sb, " %s", idRef(init))
		}

	case OpCompositeExtract:
		fmt.Fprintf(&sb, "         %s = %s %s %s", idRef(ops[1]), name,
			idRef(ops[0]), idRef(ops[2]))
		for _, index := range ops[3:] {
			fmt.Fprintf(&sb, " %d", index)
		}

	case OpVectorShuffle:
		fmt.Fprintf(&sb, "         %s = %s %s %s %s", idRef(ops[1]), name,
			idRef(ops[0]), idRef(ops[2]), idRef(ops[3]))
		for _, component := range ops[4:] {
			fmt.Fprintf(&sb, " %d", component)
		}

	case OpStore:
		fmt.Fprintf(&sb, "               %s %s %s", name, idRef(ops[0]), idRef(ops[1]))

	case OpSelectionMerge:
		fmt.Fprintf(&sb, "               %s %s None", name, idRef(ops[0]))

	case OpLoopMerge:
		fmt.Fprintf(&sb, "               %s %s %s None", name, idRef(ops[0]), idRef(ops[1]))

	default:
		switch at := resultAt(inst.Opcode); at {
		case 0:
			fmt.Fprintf(&sb, "               %s", name)
			for _, op := range ops {
				fmt.Fprintf(&sb, " %s", idRef(op))
			}
		case 1:
			fmt.Fprintf(&sb, "         %s = %s", idRef(ops[0]), name)
			for _, op := range ops[1:] {
				fmt.Fprintf(&sb, " %s", idRef(op))
			}
		default:
			fmt.Fprintf(&sb, "         %s = %s %s", idRef(ops[1]), name, idRef(ops[0]))
			for _, op := range ops[2:] {
				fmt.Fprintf(&sb, " %s", idRef(op))
			}
		}
	}
	return sb.String()
}
