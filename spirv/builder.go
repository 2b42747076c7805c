package spirv

import (
	"encoding/binary"
	"fmt"
	"math"
)

// basicBlock collects the instructions of one block of the function
// currently being built. Local variables are only valid on the entry
// block; they are emitted right after the label, before the body.
type basicBlock struct {
	label      uint32
	locals     []Instruction
	body       []Instruction
	terminated bool
}

// conditional tracks the blocks of one structured selection while it
// is being generated. The last entry of blocks is the merge block.
type conditional struct {
	blocks []uint32
	next   int
}

// ModuleBuilder builds complete SPIR-V modules.
//
// Types and constants are interned: requesting an already-declared
// type or constant returns its existing ID instead of declaring a
// duplicate.
type ModuleBuilder struct {
	// Header
	version   Version
	generator uint32
	schema    uint32

	// Sections (ordered per SPIR-V spec)
	capabilities   []Instruction
	extensions     []Instruction
	extInstImports []Instruction
	memoryModel    *Instruction
	entryPoints    []Instruction
	executionModes []Instruction
	debugNames     []Instruction // OpName, OpMemberName
	annotations    []Instruction // OpDecorate, OpMemberDecorate
	types          []Instruction // OpType*, OpConstant*
	globalVars     []Instruction // OpVariable (module scope)
	functions      []Instruction // OpFunction...OpFunctionEnd

	// Interning caches
	typeIDs     map[string]uint32
	constantIDs map[string]uint32

	// Current function state
	funcDecl     []Instruction // OpFunction and OpFunctionParameter
	blocks       []*basicBlock
	conditionals []*conditional

	// ID allocation
	nextID uint32
}

// NewModuleBuilder creates a new SPIR-V module builder.
func NewModuleBuilder(version Version) *ModuleBuilder {
	return &ModuleBuilder{
		version:     version,
		generator:   GeneratorID,
		schema:      0,
		typeIDs:     make(map[string]uint32),
		constantIDs: make(map[string]uint32),
		nextID:      1,
	}
}

// AllocID allocates a new SPIR-V ID.
func (b *ModuleBuilder) AllocID() uint32 {
	id := b.nextID
	b.nextID++
	return id
}

// Bound returns the ID bound the module header will carry.
func (b *ModuleBuilder) Bound() uint32 {
	return b.nextID
}

// AddCapability adds a capability.
func (b *ModuleBuilder) AddCapability(capability Capability) {
	builder := NewInstructionBuilder()
	builder.AddWord(uint32(capability))
	b.capabilities = append(b.capabilities, builder.Build(OpCapability))
}

// AddExtension adds an extension.
func (b *ModuleBuilder) AddExtension(name string) {
	builder := NewInstructionBuilder()
	builder.AddString(name)
	b.extensions = append(b.extensions, builder.Build(OpExtension))
}

// AddExtInstImport imports an extended instruction set.
func (b *ModuleBuilder) AddExtInstImport(name string) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(id)
	builder.AddString(name)
	b.extInstImports = append(b.extInstImports, builder.Build(OpExtInstImport))
	return id
}

// SetMemoryModel sets the memory model.
func (b *ModuleBuilder) SetMemoryModel(addressing AddressingModel, memory MemoryModel) {
	builder := NewInstructionBuilder()
	builder.AddWord(uint32(addressing))
	builder.AddWord(uint32(memory))
	inst := builder.Build(OpMemoryModel)
	b.memoryModel = &inst
}

// AddEntryPoint adds an entry point with its interface variables.
func (b *ModuleBuilder) AddEntryPoint(execModel ExecutionModel, funcID uint32, name string, interfaces []uint32) {
	builder := NewInstructionBuilder()
	builder.AddWord(uint32(execModel))
	builder.AddWord(funcID)
	builder.AddString(name)
	for _, iface := range interfaces {
		builder.AddWord(iface)
	}
	b.entryPoints = append(b.entryPoints, builder.Build(OpEntryPoint))
}

// AddExecutionMode adds an execution mode.
func (b *ModuleBuilder) AddExecutionMode(entryPoint uint32, mode ExecutionMode, params ...uint32) {
	builder := NewInstructionBuilder()
	builder.AddWord(entryPoint)
	builder.AddWord(uint32(mode))
	for _, param := range params {
		builder.AddWord(param)
	}
	b.executionModes = append(b.executionModes, builder.Build(OpExecutionMode))
}

// AddName adds a debug name.
func (b *ModuleBuilder) AddName(id uint32, name string) {
	builder := NewInstructionBuilder()
	builder.AddWord(id)
	builder.AddString(name)
	b.debugNames = append(b.debugNames, builder.Build(OpName))
}

// AddMemberName adds a debug member name.
func (b *ModuleBuilder) AddMemberName(structID, member uint32, name string) {
	builder := NewInstructionBuilder()
	builder.AddWord(structID)
	builder.AddWord(member)
	builder.AddString(name)
	b.debugNames = append(b.debugNames, builder.Build(OpMemberName))
}

// AddDecorate adds a decoration.
func (b *ModuleBuilder) AddDecorate(id uint32, decoration Decoration, params ...uint32) {
	builder := NewInstructionBuilder()
	builder.AddWord(id)
	builder.AddWord(uint32(decoration))
	for _, param := range params {
		builder.AddWord(param)
	}
	b.annotations = append(b.annotations, builder.Build(OpDecorate))
}

// AddMemberDecorate adds a member decoration.
func (b *ModuleBuilder) AddMemberDecorate(structID, member uint32, decoration Decoration, params ...uint32) {
	builder := NewInstructionBuilder()
	builder.AddWord(structID)
	builder.AddWord(member)
	builder.AddWord(uint32(decoration))
	for _, param := range params {
		builder.AddWord(param)
	}
	b.annotations = append(b.annotations, builder.Build(OpMemberDecorate))
}

// internType returns the cached ID for key, or declares a new
// instruction via declare and caches its ID.
func (b *ModuleBuilder) internType(key string, declare func(id uint32) Instruction) uint32 {
	if id, ok := b.typeIDs[key]; ok {
		return id
	}
	id := b.AllocID()
	b.types = append(b.types, declare(id))
	b.typeIDs[key] = id
	return id
}

// TypeVoid declares or returns OpTypeVoid.
func (b *ModuleBuilder) TypeVoid() uint32 {
	return b.internType("void", func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(id)
		return builder.Build(OpTypeVoid)
	})
}

// TypeBool declares or returns OpTypeBool.
func (b *ModuleBuilder) TypeBool() uint32 {
	return b.internType("bool", func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(id)
		return builder.Build(OpTypeBool)
	})
}

// TypeFloat declares or returns OpTypeFloat of the given bit width.
func (b *ModuleBuilder) TypeFloat(width uint32) uint32 {
	return b.internType(fmt.Sprintf("f%d", width), func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(id)
		builder.AddWord(width)
		return builder.Build(OpTypeFloat)
	})
}

// TypeInt declares or returns OpTypeInt of the given bit width and
// signedness.
func (b *ModuleBuilder) TypeInt(width uint32, signed bool) uint32 {
	key := fmt.Sprintf("u%d", width)
	signWord := uint32(0)
	if signed {
		key = fmt.Sprintf("i%d", width)
		signWord = 1
	}
	return b.internType(key, func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(id)
		builder.AddWord(width)
		builder.AddWord(signWord)
		return builder.Build(OpTypeInt)
	})
}

// TypeVector declares or returns OpTypeVector.
func (b *ModuleBuilder) TypeVector(componentType uint32, count uint32) uint32 {
	return b.internType(fmt.Sprintf("vec:%d:%d", componentType, count), func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(id)
		builder.AddWord(componentType)
		builder.AddWord(count)
		return builder.Build(OpTypeVector)
	})
}

// TypeMatrix declares or returns OpTypeMatrix.
func (b *ModuleBuilder) TypeMatrix(columnType uint32, columnCount uint32) uint32 {
	return b.internType(fmt.Sprintf("mat:%d:%d", columnType, columnCount), func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(id)
		builder.AddWord(columnType)
		builder.AddWord(columnCount)
		return builder.Build(OpTypeMatrix)
	})
}

// TypeArray declares or returns OpTypeArray. The length operand is a
// constant ID. A non-zero stride becomes an ArrayStride decoration and
// makes the type distinct from the undecorated one.
func (b *ModuleBuilder) TypeArray(elementType, lengthID, stride uint32) uint32 {
	key := fmt.Sprintf("arr:%d:%d:%d", elementType, lengthID, stride)
	return b.internType(key, func(id uint32) Instruction {
		if stride != 0 {
			b.AddDecorate(id, DecorationArrayStride, stride)
		}
		builder := NewInstructionBuilder()
		builder.AddWord(id)
		builder.AddWord(elementType)
		builder.AddWord(lengthID)
		return builder.Build(OpTypeArray)
	})
}

// TypeStruct declares or returns OpTypeStruct. The caller provides the
// interning key; two struct declarations with the same key share one
// declaration, so member decorations are only applied the first time.
// The returned bool is false when the struct already existed.
func (b *ModuleBuilder) TypeStruct(key string, memberTypes ...uint32) (uint32, bool) {
	if id, ok := b.typeIDs[key]; ok {
		return id, false
	}
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(id)
	for _, memberType := range memberTypes {
		builder.AddWord(memberType)
	}
	b.types = append(b.types, builder.Build(OpTypeStruct))
	b.typeIDs[key] = id
	return id, true
}

// TypeImage declares or returns OpTypeImage. Operands follow the
// instruction layout: dimensionality, depth, arrayed, multisampled,
// sampled and image format.
func (b *ModuleBuilder) TypeImage(sampledType, dim, depth, arrayed, ms, sampled, format uint32) uint32 {
	key := fmt.Sprintf("img:%d:%d:%d:%d:%d:%d:%d", sampledType, dim, depth, arrayed, ms, sampled, format)
	return b.internType(key, func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(id)
		builder.AddWord(sampledType)
		builder.AddWord(dim)
		builder.AddWord(depth)
		builder.AddWord(arrayed)
		builder.AddWord(ms)
		builder.AddWord(sampled)
		builder.AddWord(format)
		return builder.Build(OpTypeImage)
	})
}

// TypeSampledImage declares or returns OpTypeSampledImage.
func (b *ModuleBuilder) TypeSampledImage(imageType uint32) uint32 {
	return b.internType(fmt.Sprintf("simg:%d", imageType), func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(id)
		builder.AddWord(imageType)
		return builder.Build(OpTypeSampledImage)
	})
}

// TypePointer declares or returns OpTypePointer.
func (b *ModuleBuilder) TypePointer(storageClass StorageClass, baseType uint32) uint32 {
	key := fmt.Sprintf("ptr:%d:%d", storageClass, baseType)
	return b.internType(key, func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(id)
		builder.AddWord(uint32(storageClass))
		builder.AddWord(baseType)
		return builder.Build(OpTypePointer)
	})
}

// TypeFunction declares or returns OpTypeFunction.
func (b *ModuleBuilder) TypeFunction(returnType uint32, paramTypes ...uint32) uint32 {
	key := fmt.Sprintf("fn:%d:%v", returnType, paramTypes)
	return b.internType(key, func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(id)
		builder.AddWord(returnType)
		for _, paramType := range paramTypes {
			builder.AddWord(paramType)
		}
		return builder.Build(OpTypeFunction)
	})
}

// internConstant returns the cached ID for key, or declares a new
// constant instruction and caches its ID.
func (b *ModuleBuilder) internConstant(key string, declare func(id uint32) Instruction) uint32 {
	if id, ok := b.constantIDs[key]; ok {
		return id
	}
	id := b.AllocID()
	b.types = append(b.types, declare(id))
	b.constantIDs[key] = id
	return id
}

// ConstantUint declares or returns a 32-bit unsigned integer constant.
func (b *ModuleBuilder) ConstantUint(value uint32) uint32 {
	typeID := b.TypeInt(32, false)
	return b.internConstant(fmt.Sprintf("u:%d", value), func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(typeID)
		builder.AddWord(id)
		builder.AddWord(value)
		return builder.Build(OpConstant)
	})
}

// ConstantInt declares or returns a 32-bit signed integer constant.
func (b *ModuleBuilder) ConstantInt(value int32) uint32 {
	typeID := b.TypeInt(32, true)
	return b.internConstant(fmt.Sprintf("i:%d", value), func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(typeID)
		builder.AddWord(id)
		builder.AddWord(uint32(value))
		return builder.Build(OpConstant)
	})
}

// ConstantFloat declares or returns a 32-bit float constant.
func (b *ModuleBuilder) ConstantFloat(value float32) uint32 {
	typeID := b.TypeFloat(32)
	bits := math.Float32bits(value)
	return b.internConstant(fmt.Sprintf("f:%08x", bits), func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(typeID)
		builder.AddWord(id)
		builder.AddWord(bits)
		return builder.Build(OpConstant)
	})
}

// ConstantBool declares or returns OpConstantTrue or OpConstantFalse.
func (b *ModuleBuilder) ConstantBool(value bool) uint32 {
	typeID := b.TypeBool()
	key := "false"
	opcode := OpConstantFalse
	if value {
		key = "true"
		opcode = OpConstantTrue
	}
	return b.internConstant(key, func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(typeID)
		builder.AddWord(id)
		return builder.Build(opcode)
	})
}

// ConstantComposite declares or returns OpConstantComposite from
// already-declared constituent constants.
func (b *ModuleBuilder) ConstantComposite(typeID uint32, constituents ...uint32) uint32 {
	key := fmt.Sprintf("comp:%d:%v", typeID, constituents)
	return b.internConstant(key, func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(typeID)
		builder.AddWord(id)
		for _, constituent := range constituents {
			builder.AddWord(constituent)
		}
		return builder.Build(OpConstantComposite)
	})
}

// ConstantNull declares or returns OpConstantNull for the given type.
func (b *ModuleBuilder) ConstantNull(typeID uint32) uint32 {
	return b.internConstant(fmt.Sprintf("null:%d", typeID), func(id uint32) Instruction {
		builder := NewInstructionBuilder()
		builder.AddWord(typeID)
		builder.AddWord(id)
		return builder.Build(OpConstantNull)
	})
}

// GlobalVariable adds a module-scope OpVariable. initID of zero means
// no initializer.
func (b *ModuleBuilder) GlobalVariable(pointerType uint32, storageClass StorageClass, initID uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(pointerType)
	builder.AddWord(id)
	builder.AddWord(uint32(storageClass))
	if initID != 0 {
		builder.AddWord(initID)
	}
	b.globalVars = append(b.globalVars, builder.Build(OpVariable))
	return id
}

// StartFunction begins a function with the given pre-allocated ID.
// Instructions written afterwards go into the function's entry block
// until further blocks are started.
func (b *ModuleBuilder) StartFunction(funcID, returnType, funcType uint32, control FunctionControl) {
	if b.blocks != nil {
		panic("spirv: StartFunction while another function is open")
	}
	builder := NewInstructionBuilder()
	builder.AddWord(returnType)
	builder.AddWord(funcID)
	builder.AddWord(uint32(control))
	builder.AddWord(funcType)
	b.funcDecl = []Instruction{builder.Build(OpFunction)}
	b.blocks = []*basicBlock{{label: b.AllocID()}}
}

// AddParameter adds an OpFunctionParameter to the open function.
func (b *ModuleBuilder) AddParameter(typeID uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(typeID)
	builder.AddWord(id)
	b.funcDecl = append(b.funcDecl, builder.Build(OpFunctionParameter))
	return id
}

// DeclareVariable adds an OpVariable in Function storage to the entry
// block of the open function. initID of zero means no initializer.
func (b *ModuleBuilder) DeclareVariable(pointerType, initID uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(pointerType)
	builder.AddWord(id)
	builder.AddWord(uint32(StorageClassFunction))
	if initID != 0 {
		builder.AddWord(initID)
	}
	entry := b.blocks[0]
	entry.locals = append(entry.locals, builder.Build(OpVariable))
	return id
}

// EndFunction closes the open function, flushing its declaration,
// blocks and OpFunctionEnd into the module. Every block must have been
// terminated.
func (b *ModuleBuilder) EndFunction() {
	if len(b.conditionals) != 0 {
		panic("spirv: EndFunction with open conditionals")
	}
	b.functions = append(b.functions, b.funcDecl...)
	for _, block := range b.blocks {
		if !block.terminated {
			panic(fmt.Sprintf("spirv: block %%%d not terminated", block.label))
		}
		labelBuilder := NewInstructionBuilder()
		labelBuilder.AddWord(block.label)
		b.functions = append(b.functions, labelBuilder.Build(OpLabel))
		b.functions = append(b.functions, block.locals...)
		b.functions = append(b.functions, block.body...)
	}
	endBuilder := NewInstructionBuilder()
	b.functions = append(b.functions, endBuilder.Build(OpFunctionEnd))
	b.funcDecl = nil
	b.blocks = nil
}

// currentBlock returns the block instructions are being written to.
func (b *ModuleBuilder) currentBlock() *basicBlock {
	if len(b.blocks) == 0 {
		panic("spirv: instruction written outside a function")
	}
	return b.blocks[len(b.blocks)-1]
}

// IsCurrentBlockTerminated reports whether the current block already
// ends in a terminator.
func (b *ModuleBuilder) IsCurrentBlockTerminated() bool {
	return b.currentBlock().terminated
}

// write appends an instruction to the current block.
func (b *ModuleBuilder) write(inst Instruction) {
	block := b.currentBlock()
	if block.terminated {
		panic(fmt.Sprintf("spirv: write after terminator in block %%%d", block.label))
	}
	block.body = append(block.body, inst)
}

// terminate appends a terminator to the current block.
func (b *ModuleBuilder) terminate(inst Instruction) {
	b.write(inst)
	b.currentBlock().terminated = true
}

// StartConditional allocates the block labels of one structured
// selection, including the trailing merge block, and pushes it on the
// conditional stack. The labels are returned in order.
func (b *ModuleBuilder) StartConditional(blockCount int) []uint32 {
	blocks := make([]uint32, blockCount)
	for i := range blocks {
		blocks[i] = b.AllocID()
	}
	b.conditionals = append(b.conditionals, &conditional{blocks: blocks})
	return blocks
}

// NextConditionalBlock starts generation of the next block of the
// innermost open conditional and returns its label.
func (b *ModuleBuilder) NextConditionalBlock() uint32 {
	cond := b.conditionals[len(b.conditionals)-1]
	if cond.next >= len(cond.blocks) {
		panic("spirv: conditional has no more blocks")
	}
	label := cond.blocks[cond.next]
	cond.next++
	b.blocks = append(b.blocks, &basicBlock{label: label})
	return label
}

// EndConditional pops the innermost conditional. All of its blocks
// must have been generated; the merge block stays current.
func (b *ModuleBuilder) EndConditional() {
	cond := b.conditionals[len(b.conditionals)-1]
	if cond.next != len(cond.blocks) {
		panic("spirv: conditional ended with ungenerated blocks")
	}
	b.conditionals = b.conditionals[:len(b.conditionals)-1]
}

// WriteLoad writes OpLoad.
func (b *ModuleBuilder) WriteLoad(resultType, pointer uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(resultType)
	builder.AddWord(id)
	builder.AddWord(pointer)
	b.write(builder.Build(OpLoad))
	return id
}

// WriteStore writes OpStore.
func (b *ModuleBuilder) WriteStore(pointer, value uint32) {
	builder := NewInstructionBuilder()
	builder.AddWord(pointer)
	builder.AddWord(value)
	b.write(builder.Build(OpStore))
}

// WriteAccessChain writes OpAccessChain.
func (b *ModuleBuilder) WriteAccessChain(resultType, base uint32, indices []uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(resultType)
	builder.AddWord(id)
	builder.AddWord(base)
	for _, index := range indices {
		builder.AddWord(index)
	}
	b.write(builder.Build(OpAccessChain))
	return id
}

// WriteCompositeExtract writes OpCompositeExtract with literal
// indices.
func (b *ModuleBuilder) WriteCompositeExtract(resultType, composite uint32, indices []uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(resultType)
	builder.AddWord(id)
	builder.AddWord(composite)
	for _, index := range indices {
		builder.AddWord(index)
	}
	b.write(builder.Build(OpCompositeExtract))
	return id
}

// WriteCompositeConstruct writes OpCompositeConstruct.
func (b *ModuleBuilder) WriteCompositeConstruct(resultType uint32, constituents []uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(resultType)
	builder.AddWord(id)
	for _, constituent := range constituents {
		builder.AddWord(constituent)
	}
	b.write(builder.Build(OpCompositeConstruct))
	return id
}

// WriteVectorShuffle writes OpVectorShuffle.
func (b *ModuleBuilder) WriteVectorShuffle(resultType, vec1, vec2 uint32, components []uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(resultType)
	builder.AddWord(id)
	builder.AddWord(vec1)
	builder.AddWord(vec2)
	for _, component := range components {
		builder.AddWord(component)
	}
	b.write(builder.Build(OpVectorShuffle))
	return id
}

// WriteVectorExtractDynamic writes OpVectorExtractDynamic.
func (b *ModuleBuilder) WriteVectorExtractDynamic(resultType, vector, index uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(resultType)
	builder.AddWord(id)
	builder.AddWord(vector)
	builder.AddWord(index)
	b.write(builder.Build(OpVectorExtractDynamic))
	return id
}

// WriteBinaryOp writes a two-operand instruction of the usual
// type/result/operands shape.
func (b *ModuleBuilder) WriteBinaryOp(opcode OpCode, resultType, left, right uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(resultType)
	builder.AddWord(id)
	builder.AddWord(left)
	builder.AddWord(right)
	b.write(builder.Build(opcode))
	return id
}

// WriteUnaryOp writes a one-operand instruction of the usual
// type/result/operand shape.
func (b *ModuleBuilder) WriteUnaryOp(opcode OpCode, resultType, operand uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(resultType)
	builder.AddWord(id)
	builder.AddWord(operand)
	b.write(builder.Build(opcode))
	return id
}

// WriteFunctionCall writes OpFunctionCall.
func (b *ModuleBuilder) WriteFunctionCall(resultType, function uint32, args []uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(resultType)
	builder.AddWord(id)
	builder.AddWord(function)
	for _, arg := range args {
		builder.AddWord(arg)
	}
	b.write(builder.Build(OpFunctionCall))
	return id
}

// WriteAtomicOp writes an atomic instruction. The pointer is followed
// by scope and semantics constant IDs, then any value operands.
func (b *ModuleBuilder) WriteAtomicOp(opcode OpCode, resultType, pointer, scopeID, semanticsID uint32, operands ...uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(resultType)
	builder.AddWord(id)
	builder.AddWord(pointer)
	builder.AddWord(scopeID)
	builder.AddWord(semanticsID)
	for _, operand := range operands {
		builder.AddWord(operand)
	}
	b.write(builder.Build(opcode))
	return id
}

// WriteExtInst writes OpExtInst.
func (b *ModuleBuilder) WriteExtInst(resultType, set, instruction uint32, operands ...uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(resultType)
	builder.AddWord(id)
	builder.AddWord(set)
	builder.AddWord(instruction)
	for _, operand := range operands {
		builder.AddWord(operand)
	}
	b.write(builder.Build(OpExtInst))
	return id
}

// WriteSelect writes OpSelect.
func (b *ModuleBuilder) WriteSelect(resultType, condition, accept, reject uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder()
	builder.AddWord(resultType)
	builder.AddWord(id)
	builder.AddWord(condition)
	builder.AddWord(accept)
	builder.AddWord(reject)
	b.write(builder.Build(OpSelect))
	return id
}

// WriteSelectionMerge writes OpSelectionMerge.
func (b *ModuleBuilder) WriteSelectionMerge(mergeLabel uint32, control SelectionControl) {
	builder := NewInstructionBuilder()
	builder.AddWord(mergeLabel)
	builder.AddWord(uint32(control))
	b.write(builder.Build(OpSelectionMerge))
}

// WriteBranch writes OpBranch and terminates the current block.
func (b *ModuleBuilder) WriteBranch(target uint32) {
	builder := NewInstructionBuilder()
	builder.AddWord(target)
	b.terminate(builder.Build(OpBranch))
}

// WriteBranchConditional writes OpBranchConditional and terminates
// the current block.
func (b *ModuleBuilder) WriteBranchConditional(condition, trueLabel, falseLabel uint32) {
	builder := NewInstructionBuilder()
	builder.AddWord(condition)
	builder.AddWord(trueLabel)
	builder.AddWord(falseLabel)
	b.terminate(builder.Build(OpBranchConditional))
}

// WriteReturn writes OpReturn and terminates the current block.
func (b *ModuleBuilder) WriteReturn() {
	builder := NewInstructionBuilder()
	b.terminate(builder.Build(OpReturn))
}

// WriteReturnValue writes OpReturnValue and terminates the current
// block.
func (b *ModuleBuilder) WriteReturnValue(value uint32) {
	builder := NewInstructionBuilder()
	builder.AddWord(value)
	b.terminate(builder.Build(OpReturnValue))
}

// WriteKill writes OpKill and terminates the current block.
func (b *ModuleBuilder) WriteKill() {
	builder := NewInstructionBuilder()
	b.terminate(builder.Build(OpKill))
}

// WriteUnreachable writes OpUnreachable and terminates the current
// block.
func (b *ModuleBuilder) WriteUnreachable() {
	builder := NewInstructionBuilder()
	b.terminate(builder.Build(OpUnreachable))
}

// Build generates the final SPIR-V binary.
func (b *ModuleBuilder) Build() []byte {
	bound := b.nextID

	sections := [][]Instruction{
		b.capabilities,
		b.extensions,
		b.extInstImports,
	}
	if b.memoryModel != nil {
		sections = append(sections, []Instruction{*b.memoryModel})
	}
	sections = append(sections,
		b.entryPoints,
		b.executionModes,
		b.debugNames,
		b.annotations,
		b.types,
		b.globalVars,
		b.functions,
	)

	totalWords := 5
	for _, section := range sections {
		for _, inst := range section {
			totalWords += len(inst.Words) + 1
		}
	}

	buffer := make([]byte, totalWords*4)
	offset := 0

	binary.LittleEndian.PutUint32(buffer[offset:], MagicNumber)
	offset += 4
	binary.LittleEndian.PutUint32(buffer[offset:], b.version.Word())
	offset += 4
	binary.LittleEndian.PutUint32(buffer[offset:], b.generator)
	offset += 4
	binary.LittleEndian.PutUint32(buffer[offset:], bound)
	offset += 4
	binary.LittleEndian.PutUint32(buffer[offset:], b.schema)
	offset += 4

	for _, section := range sections {
		for _, inst := range section {
			for _, word := range inst.Encode() {
				binary.LittleEndian.PutUint32(buffer[offset:], word)
				offset += 4
			}
		}
	}

	return buffer
}
