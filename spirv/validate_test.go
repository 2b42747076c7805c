package spirv

import (
	"encoding/binary"
	"strings"
	"testing"
)

func TestValidate_GoodModule(t *testing.T) {
	if err := Validate(buildFragmentModule()); err != nil {
		t.Errorf("Valid module rejected: %v", err)
	}
}

// corrupt re-parses a module, applies edit, and re-serializes it.
func corrupt(t *testing.T, data []byte, edit func(*Module)) []byte {
	t.Helper()
	module, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	edit(module)

	words := []uint32{
		module.Header.Magic,
		module.Header.Version,
		module.Header.Generator,
		module.Header.Bound,
		module.Header.Schema,
	}
	for _, inst := range module.Instructions {
		words = append(words, inst.Encode()...)
	}
	out := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

func TestValidate_ZeroBound(t *testing.T) {
	data := corrupt(t, buildFragmentModule(), func(m *Module) {
		m.Header.Bound = 0
	})
	if err := Validate(data); err == nil {
		t.Error("Validate should reject a zero id bound")
	}
}

func TestValidate_ResultExceedsBound(t *testing.T) {
	data := corrupt(t, buildFragmentModule(), func(m *Module) {
		m.Header.Bound = 2
	})
	err := Validate(data)
	if err == nil {
		t.Fatal("Validate should reject result ids above the bound")
	}
	if !strings.Contains(err.Error(), "bound") {
		t.Errorf("Error should mention the bound: %v", err)
	}
}

func TestValidate_MissingMemoryModel(t *testing.T) {
	data := corrupt(t, buildFragmentModule(), func(m *Module) {
		kept := m.Instructions[:0]
		for _, inst := range m.Instructions {
			if inst.Opcode != OpMemoryModel {
				kept = append(kept, inst)
			}
		}
		m.Instructions = kept
	})
	if err := Validate(data); err == nil {
		t.Error("Validate should require a memory model")
	}
}

func TestValidate_SectionOrder(t *testing.T) {
	data := corrupt(t, buildFragmentModule(), func(m *Module) {
		// Move the capability to the end, after the functions.
		var capability Instruction
		kept := m.Instructions[:0]
		for _, inst := range m.Instructions {
			if inst.Opcode == OpCapability {
				capability = inst
				continue
			}
			kept = append(kept, inst)
		}
		m.Instructions = append(kept, capability)
	})
	err := Validate(data)
	if err == nil {
		t.Fatal("Validate should reject out-of-order sections")
	}
	if !strings.Contains(err.Error(), "section") {
		t.Errorf("Error should mention section order: %v", err)
	}
}

func TestValidate_UnterminatedBlock(t *testing.T) {
	data := corrupt(t, buildFragmentModule(), func(m *Module) {
		kept := m.Instructions[:0]
		for _, inst := range m.Instructions {
			if inst.Opcode == OpReturn {
				continue
			}
			kept = append(kept, inst)
		}
		m.Instructions = kept
	})
	if err := Validate(data); err == nil {
		t.Error("Validate should reject a block without a terminator")
	}
}

func TestValidate_NoFunctions(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)
	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)
	if err := Validate(builder.Build()); err == nil {
		t.Error("Validate should require at least one function")
	}
}
