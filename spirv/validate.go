package spirv

import (
	"fmt"
)

// section ranks instructions by where the SPIR-V spec allows them so
// Validate can check that the module is ordered correctly.
type section int

const (
	sectionCapability section = iota
	sectionExtension
	sectionExtInstImport
	sectionMemoryModel
	sectionEntryPoint
	sectionExecutionMode
	sectionDebug
	sectionAnnotation
	sectionTypes
	sectionFunctions
)

func instructionSection(op OpCode) section {
	switch op {
	case OpCapability:
		return sectionCapability
	case OpExtension:
		return sectionExtension
	case OpExtInstImport:
		return sectionExtInstImport
	case OpMemoryModel:
		return sectionMemoryModel
	case OpEntryPoint:
		return sectionEntryPoint
	case OpExecutionMode:
		return sectionExecutionMode
	case OpSource, OpSourceExtension, OpString, OpName, OpMemberName:
		return sectionDebug
	case OpDecorate, OpMemberDecorate:
		return sectionAnnotation
	case OpTypeVoid, OpTypeBool, OpTypeInt, OpTypeFloat, OpTypeVector,
		OpTypeMatrix, OpTypeImage, OpTypeSampler, OpTypeSampledImage,
		OpTypeArray, OpTypeRuntimeArray, OpTypeStruct, OpTypePointer,
		OpTypeFunction, OpConstantTrue, OpConstantFalse, OpConstant,
		OpConstantComposite, OpConstantNull:
		return sectionTypes
	default:
		return sectionFunctions
	}
}

func isBlockTerminator(op OpCode) bool {
	switch op {
	case OpBranch, OpBranchConditional, OpSwitch, OpKill, OpReturn,
		OpReturnValue, OpUnreachable:
		return true
	default:
		return false
	}
}

// Validate performs structural checks on a SPIR-V binary: header
// integrity, section ordering, ID bound, and function/block framing.
// It does not type-check instruction operands.
func Validate(data []byte) error {
	module, err := Parse(data)
	if err != nil {
		return err
	}
	h := module.Header

	if h.VersionMajor() != 1 {
		return fmt.Errorf("unsupported SPIR-V version %d.%d", h.VersionMajor(), h.VersionMinor())
	}
	if h.Bound == 0 {
		return fmt.Errorf("ID bound is zero")
	}

	var (
		current      section
		memoryModels int
		inFunction   bool
		inBlock      bool
		sawFunction  bool
	)

	for i, inst := range module.Instructions {
		sec := instructionSection(inst.Opcode)
		if sec < current && sec != sectionFunctions {
			return fmt.Errorf("instruction %d (%s) out of section order", i, opcodeName(inst.Opcode))
		}
		if sec > current {
			current = sec
		}

		// Result IDs must stay under the declared bound.
		if at := resultAt(inst.Opcode); at > 0 {
			if len(inst.Words) < at {
				return fmt.Errorf("instruction %d (%s) too short for its result ID", i, opcodeName(inst.Opcode))
			}
			if id := inst.Words[at-1]; id >= h.Bound {
				return fmt.Errorf("instruction %d (%s) declares ID %d outside bound %d",
					i, opcodeName(inst.Opcode), id, h.Bound)
			}
		}

		switch inst.Opcode {
		case OpMemoryModel:
			memoryModels++

		case OpFunction:
			if inFunction {
				return fmt.Errorf("instruction %d: nested OpFunction", i)
			}
			inFunction = true
			inBlock = false
			sawFunction = true

		case OpFunctionParameter:
			if !inFunction || inBlock {
				return fmt.Errorf("instruction %d: OpFunctionParameter outside function header", i)
			}

		case OpLabel:
			if !inFunction {
				return fmt.Errorf("instruction %d: OpLabel outside a function", i)
			}
			if inBlock {
				return fmt.Errorf("instruction %d: OpLabel inside an unterminated block", i)
			}
			inBlock = true

		case OpFunctionEnd:
			if !inFunction {
				return fmt.Errorf("instruction %d: OpFunctionEnd outside a function", i)
			}
			if inBlock {
				return fmt.Errorf("instruction %d: OpFunctionEnd inside an unterminated block", i)
			}
			inFunction = false

		default:
			if isBlockTerminator(inst.Opcode) {
				if !inBlock {
					return fmt.Errorf("instruction %d (%s) outside a block", i, opcodeName(inst.Opcode))
				}
				inBlock = false
			} else if inFunction && !inBlock && sec == sectionFunctions {
				return fmt.Errorf("instruction %d (%s) between blocks", i, opcodeName(inst.Opcode))
			}
		}
	}

	if memoryModels != 1 {
		return fmt.Errorf("module has %d memory models, want 1", memoryModels)
	}
	if inFunction {
		return fmt.Errorf("module ends inside a function")
	}
	if !sawFunction {
		return fmt.Errorf("module has no functions")
	}
	return nil
}

func opcodeName(op OpCode) string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op%d", op)
}
