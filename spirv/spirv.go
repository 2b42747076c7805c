package spirv

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// Word encodes the version for the module header.
func (v Version) Word() uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}

// SPIR-V magic number and generator constants
const (
	MagicNumber = 0x07230203
	GeneratorID = 0x00000000 // Unregistered generator
)

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Opcodes used by the builder, disassembler and validator.
const (
	OpNop             OpCode = 0
	OpUndef           OpCode = 1
	OpSource          OpCode = 3
	OpSourceExtension OpCode = 4
	OpName            OpCode = 5
	OpMemberName      OpCode = 6
	OpString          OpCode = 7

	OpExtension     OpCode = 10
	OpExtInstImport OpCode = 11
	OpExtInst       OpCode = 12

	OpMemoryModel   OpCode = 14
	OpEntryPoint    OpCode = 15
	OpExecutionMode OpCode = 16
	OpCapability    OpCode = 17

	OpTypeVoid         OpCode = 19
	OpTypeBool         OpCode = 20
	OpTypeInt          OpCode = 21
	OpTypeFloat        OpCode = 22
	OpTypeVector       OpCode = 23
	OpTypeMatrix       OpCode = 24
	OpTypeImage        OpCode = 25
	OpTypeSampler      OpCode = 26
	OpTypeSampledImage OpCode = 27
	OpTypeArray        OpCode = 28
	OpTypeRuntimeArray OpCode = 29
	OpTypeStruct       OpCode = 30
	OpTypePointer      OpCode = 32
	OpTypeFunction     OpCode = 33

	OpConstantTrue      OpCode = 41
	OpConstantFalse     OpCode = 42
	OpConstant          OpCode = 43
	OpConstantComposite OpCode = 44
	OpConstantNull      OpCode = 46

	OpFunction          OpCode = 54
	OpFunctionParameter OpCode = 55
	OpFunctionEnd       OpCode = 56
	OpFunctionCall      OpCode = 57

	OpVariable    OpCode = 59
	OpLoad        OpCode = 61
	OpStore       OpCode = 62
	OpAccessChain OpCode = 65

	OpDecorate       OpCode = 71
	OpMemberDecorate OpCode = 72

	OpVectorExtractDynamic OpCode = 77
	OpVectorInsertDynamic  OpCode = 78
	OpVectorShuffle        OpCode = 79
	OpCompositeConstruct   OpCode = 80
	OpCompositeExtract     OpCode = 81
	OpCompositeInsert      OpCode = 82
	OpCopyObject           OpCode = 83
	OpTranspose            OpCode = 84

	OpConvertFToU OpCode = 109
	OpConvertFToS OpCode = 110
	OpConvertSToF OpCode = 111
	OpConvertUToF OpCode = 112
	OpUConvert    OpCode = 113
	OpSConvert    OpCode = 114
	OpFConvert    OpCode = 115
	OpBitcast     OpCode = 124

	OpSNegate OpCode = 126
	OpFNegate OpCode = 127
	OpIAdd    OpCode = 128
	OpFAdd    OpCode = 129
	OpISub    OpCode = 130
	OpFSub    OpCode = 131
	OpIMul    OpCode = 132
	OpFMul    OpCode = 133
	OpUDiv    OpCode = 134
	OpSDiv    OpCode = 135
	OpFDiv    OpCode = 136
	OpUMod    OpCode = 137
	OpSRem    OpCode = 138
	OpSMod    OpCode = 139
	OpFRem    OpCode = 140
	OpFMod    OpCode = 141

	OpVectorTimesScalar OpCode = 142
	OpMatrixTimesScalar OpCode = 143
	OpVectorTimesMatrix OpCode = 144
	OpMatrixTimesVector OpCode = 145
	OpMatrixTimesMatrix OpCode = 146
	OpDot               OpCode = 148

	OpAny             OpCode = 154
	OpAll             OpCode = 155
	OpIsNan           OpCode = 156
	OpIsInf           OpCode = 157
	OpLogicalEqual    OpCode = 164
	OpLogicalNotEqual OpCode = 165
	OpLogicalOr       OpCode = 166
	OpLogicalAnd      OpCode = 167
	OpLogicalNot      OpCode = 168
	OpSelect          OpCode = 169

	OpIEqual            OpCode = 170
	OpINotEqual         OpCode = 171
	OpUGreaterThan      OpCode = 172
	OpSGreaterThan      OpCode = 173
	OpUGreaterThanEqual OpCode = 174
	OpSGreaterThanEqual OpCode = 175
	OpULessThan         OpCode = 176
	OpSLessThan         OpCode = 177
	OpULessThanEqual    OpCode = 178
	OpSLessThanEqual    OpCode = 179

	OpFOrdEqual            OpCode = 180
	OpFUnordEqual          OpCode = 181
	OpFOrdNotEqual         OpCode = 182
	OpFUnordNotEqual       OpCode = 183
	OpFOrdLessThan         OpCode = 184
	OpFOrdGreaterThan      OpCode = 186
	OpFOrdLessThanEqual    OpCode = 188
	OpFOrdGreaterThanEqual OpCode = 190

	OpShiftRightLogical    OpCode = 194
	OpShiftRightArithmetic OpCode = 195
	OpShiftLeftLogical     OpCode = 196
	OpBitwiseOr            OpCode = 197
	OpBitwiseXor           OpCode = 198
	OpBitwiseAnd           OpCode = 199
	OpNot                  OpCode = 200

	OpAtomicLoad            OpCode = 227
	OpAtomicStore           OpCode = 228
	OpAtomicExchange        OpCode = 229
	OpAtomicCompareExchange OpCode = 230
	OpAtomicIIncrement      OpCode = 232
	OpAtomicIDecrement      OpCode = 233
	OpAtomicIAdd            OpCode = 234
	OpAtomicISub            OpCode = 235
	OpAtomicSMin            OpCode = 236
	OpAtomicUMin            OpCode = 237
	OpAtomicSMax            OpCode = 238
	OpAtomicUMax            OpCode = 239
	OpAtomicAnd             OpCode = 240
	OpAtomicOr              OpCode = 241
	OpAtomicXor             OpCode = 242

	OpPhi               OpCode = 245
	OpLoopMerge         OpCode = 246
	OpSelectionMerge    OpCode = 247
	OpLabel             OpCode = 248
	OpBranch            OpCode = 249
	OpBranchConditional OpCode = 250
	OpSwitch            OpCode = 251
	OpKill              OpCode = 252
	OpReturn            OpCode = 253
	OpReturnValue       OpCode = 254
	OpUnreachable       OpCode = 255
)

// StorageClass represents a SPIR-V storage class.
type StorageClass uint32

// Storage classes
const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassCrossWorkgroup  StorageClass = 5
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassPushConstant    StorageClass = 9
	StorageClassStorageBuffer   StorageClass = 12

	// StorageClassMax is a sentinel for values that are not pointers.
	StorageClassMax StorageClass = 0xFFFFFFFF
)

// AddressingModel represents a SPIR-V addressing model.
type AddressingModel uint32

// Addressing models
const (
	AddressingModelLogical    AddressingModel = 0
	AddressingModelPhysical32 AddressingModel = 1
	AddressingModelPhysical64 AddressingModel = 2
)

// MemoryModel represents a SPIR-V memory model.
type MemoryModel uint32

// Memory models
const (
	MemoryModelSimple  MemoryModel = 0
	MemoryModelGLSL450 MemoryModel = 1
	MemoryModelOpenCL  MemoryModel = 2
	MemoryModelVulkan  MemoryModel = 3
)

// ExecutionModel represents a SPIR-V execution model (shader stage).
type ExecutionModel uint32

// Execution models
const (
	ExecutionModelVertex    ExecutionModel = 0
	ExecutionModelFragment  ExecutionModel = 4
	ExecutionModelGLCompute ExecutionModel = 5
)

// ExecutionMode represents a SPIR-V execution mode.
type ExecutionMode uint32

// Execution modes
const (
	ExecutionModeOriginUpperLeft ExecutionMode = 7
	ExecutionModeLocalSize       ExecutionMode = 17
)

// Capability represents a SPIR-V capability.
type Capability uint32

// Capabilities
const (
	CapabilityMatrix Capability = 0
	CapabilityShader Capability = 1
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

// Decorations
const (
	DecorationRelaxedPrecision Decoration = 0
	DecorationBlock            Decoration = 2
	DecorationBufferBlock      Decoration = 3
	DecorationRowMajor         Decoration = 4
	DecorationColMajor         Decoration = 5
	DecorationArrayStride      Decoration = 6
	DecorationMatrixStride     Decoration = 7
	DecorationBuiltIn          Decoration = 11
	DecorationNoPerspective    Decoration = 13
	DecorationFlat             Decoration = 14
	DecorationCoherent         Decoration = 23
	DecorationNonWritable      Decoration = 24
	DecorationLocation         Decoration = 30
	DecorationComponent        Decoration = 31
	DecorationBinding          Decoration = 33
	DecorationDescriptorSet    Decoration = 34
	DecorationOffset           Decoration = 35
)

// BuiltIn represents a SPIR-V built-in variable.
type BuiltIn uint32

// Built-in variables
const (
	BuiltInPosition             BuiltIn = 0
	BuiltInPointSize            BuiltIn = 1
	BuiltInFragCoord            BuiltIn = 15
	BuiltInFrontFacing          BuiltIn = 16
	BuiltInFragDepth            BuiltIn = 22
	BuiltInNumWorkgroups        BuiltIn = 24
	BuiltInWorkgroupSize        BuiltIn = 25
	BuiltInWorkgroupId          BuiltIn = 26
	BuiltInLocalInvocationId    BuiltIn = 27
	BuiltInGlobalInvocationId   BuiltIn = 28
	BuiltInLocalInvocationIndex BuiltIn = 29
	BuiltInVertexIndex          BuiltIn = 42
	BuiltInInstanceIndex        BuiltIn = 43
)

// FunctionControl represents SPIR-V function control flags.
type FunctionControl uint32

// Function control flags
const (
	FunctionControlNone   FunctionControl = 0
	FunctionControlInline FunctionControl = 1
)

// SelectionControl represents SPIR-V selection control flags.
type SelectionControl uint32

// Selection control flags
const (
	SelectionControlNone    SelectionControl = 0
	SelectionControlFlatten SelectionControl = 1
)

// LoopControl represents SPIR-V loop control flags.
type LoopControl uint32

// Loop control flags
const (
	LoopControlNone   LoopControl = 0
	LoopControlUnroll LoopControl = 1
)

// Scope represents a SPIR-V scope ID value for atomics and barriers.
type Scope uint32

// Scopes
const (
	ScopeCrossDevice Scope = 0
	ScopeDevice      Scope = 1
	ScopeWorkgroup   Scope = 2
	ScopeSubgroup    Scope = 3
	ScopeInvocation  Scope = 4
)

// MemorySemantics represents SPIR-V memory semantics flags.
type MemorySemantics uint32

// Memory semantics flags
const (
	MemorySemanticsNone            MemorySemantics = 0
	MemorySemanticsAcquire         MemorySemantics = 0x2
	MemorySemanticsRelease         MemorySemantics = 0x4
	MemorySemanticsAcquireRelease  MemorySemantics = 0x8
	MemorySemanticsUniformMemory   MemorySemantics = 0x40
	MemorySemanticsWorkgroupMemory MemorySemantics = 0x100
)
