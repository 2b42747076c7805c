package spirv

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Instruction represents a SPIR-V instruction.
type Instruction struct {
	Opcode OpCode
	Words  []uint32 // result type ID, result ID, operands
}

// Encode encodes the instruction to binary words, including the
// leading word-count/opcode word.
func (i Instruction) Encode() []uint32 {
	wordCount := uint32(len(i.Words) + 1)
	result := make([]uint32, 0, wordCount)
	result = append(result, (wordCount<<16)|uint32(i.Opcode))
	result = append(result, i.Words...)
	return result
}

// InstructionBuilder builds SPIR-V instructions.
type InstructionBuilder struct {
	words []uint32
}

// NewInstructionBuilder creates a new instruction builder.
func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{
		words: make([]uint32, 0, 8),
	}
}

// AddWord adds a word to the instruction.
func (b *InstructionBuilder) AddWord(word uint32) {
	b.words = append(b.words, word)
}

// AddString adds a null-terminated UTF-8 string padded to a word
// boundary.
func (b *InstructionBuilder) AddString(s string) {
	bytes := []byte(s)
	bytes = append(bytes, 0)
	for len(bytes)%4 != 0 {
		bytes = append(bytes, 0)
	}
	for i := 0; i < len(bytes); i += 4 {
		word := uint32(bytes[i]) |
			uint32(bytes[i+1])<<8 |
			uint32(bytes[i+2])<<16 |
			uint32(bytes[i+3])<<24
		b.words = append(b.words, word)
	}
}

// Build builds the instruction with the given opcode.
func (b *InstructionBuilder) Build(opcode OpCode) Instruction {
	return Instruction{
		Opcode: opcode,
		Words:  b.words,
	}
}

// Header is the five-word SPIR-V module header.
type Header struct {
	Magic     uint32
	Version   uint32
	Generator uint32
	Bound     uint32
	Schema    uint32
}

// VersionMajor extracts the major version from the header.
func (h Header) VersionMajor() uint8 { return uint8(h.Version >> 16) }

// VersionMinor extracts the minor version from the header.
func (h Header) VersionMinor() uint8 { return uint8(h.Version >> 8) }

// Module is a parsed SPIR-V module.
type Module struct {
	Header       Header
	Instructions []Instruction
}

// Parse decodes a SPIR-V binary into its header and instruction
// stream. It verifies the magic number and word-count integrity but
// performs no semantic validation; see Validate for structural checks.
func Parse(data []byte) (*Module, error) {
	if len(data) < 20 {
		return nil, fmt.Errorf("module too small: %d bytes", len(data))
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("module size %d is not a multiple of 4", len(data))
	}

	header := Header{
		Magic:     binary.LittleEndian.Uint32(data[0:4]),
		Version:   binary.LittleEndian.Uint32(data[4:8]),
		Generator: binary.LittleEndian.Uint32(data[8:12]),
		Bound:     binary.LittleEndian.Uint32(data[12:16]),
		Schema:    binary.LittleEndian.Uint32(data[16:20]),
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("invalid magic number: 0x%08X", header.Magic)
	}

	var instructions []Instruction
	offset := 20
	for offset < len(data) {
		word := binary.LittleEndian.Uint32(data[offset:])
		opcode := OpCode(word & 0xFFFF)
		wordCount := int(word >> 16)

		if wordCount == 0 {
			return nil, fmt.Errorf("zero word count at offset 0x%X", offset)
		}
		if offset+wordCount*4 > len(data) {
			return nil, fmt.Errorf("instruction at offset 0x%X overruns module end", offset)
		}

		words := make([]uint32, wordCount-1)
		for i := range words {
			words[i] = binary.LittleEndian.Uint32(data[offset+4+i*4:])
		}
		instructions = append(instructions, Instruction{Opcode: opcode, Words: words})
		offset += wordCount * 4
	}

	return &Module{Header: header, Instructions: instructions}, nil
}

// DecodeString decodes a null-terminated string operand starting at
// the given word. It returns the string and the number of words it
// occupied.
func DecodeString(words []uint32) (string, int) {
	var sb strings.Builder
	for i, word := range words {
		for shift := 0; shift < 32; shift += 8 {
			b := byte(word >> shift)
			if b == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(b)
		}
	}
	return sb.String(), len(words)
}
