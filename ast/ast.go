package ast

import "fmt"

// Basic is the basic type category of a Type.
type Basic uint8

const (
	BasicVoid Basic = iota
	BasicFloat
	BasicInt
	BasicUInt
	BasicBool
	BasicStruct
	BasicBlock // interface block
	BasicSampler2D
	BasicImage2D
)

// IsOpaque reports whether the basic type is an opaque handle type
// (samplers and images). Opaque types live in the UniformConstant
// storage class and are passed to functions without a copy.
func (b Basic) IsOpaque() bool {
	return b == BasicSampler2D || b == BasicImage2D
}

// IsNumeric reports whether the basic type has scalar components.
func (b Basic) IsNumeric() bool {
	switch b {
	case BasicFloat, BasicInt, BasicUInt, BasicBool:
		return true
	default:
		return false
	}
}

// Qualifier categorizes where a variable lives and how it may be used.
type Qualifier uint8

const (
	QualTemporary Qualifier = iota
	QualGlobal
	QualConst
	QualShaderIn
	QualShaderOut
	QualUniform
	QualBuffer
	QualShared
	QualParamIn
	QualParamOut
	QualParamInOut
	QualParamConst

	// Implicitly declared built-in inputs. Referencing a symbol with one
	// of these qualifiers declares the corresponding built-in variable.
	QualVertexID
	QualInstanceID
	QualNumWorkGroups
	QualWorkGroupID
	QualLocalInvocationID
	QualGlobalInvocationID
	QualLocalInvocationIndex
)

// IsShaderIn reports whether the qualifier denotes a shader input,
// including built-in inputs.
func (q Qualifier) IsShaderIn() bool {
	switch q {
	case QualShaderIn, QualVertexID, QualInstanceID, QualNumWorkGroups,
		QualWorkGroupID, QualLocalInvocationID, QualGlobalInvocationID,
		QualLocalInvocationIndex:
		return true
	default:
		return false
	}
}

// IsShaderOut reports whether the qualifier denotes a shader output.
func (q Qualifier) IsShaderOut() bool {
	return q == QualShaderOut
}

// BlockStorage is the memory layout rule of an interface block.
type BlockStorage uint8

const (
	// BlockStorageUnspecified applies to types outside interface blocks.
	BlockStorageUnspecified BlockStorage = iota
	// BlockStorageStd140 rounds array and struct member alignment up to 16
	// bytes.
	BlockStorageStd140
	// BlockStorageStd430 packs members at their natural alignment.
	BlockStorageStd430
)

// Type describes the type of an expression or variable.
//
// Vectors have Components > 1 and Columns == 1. Matrices have Columns > 1
// with Components counting rows (a column of a mat3x2 is a 2-vector).
// ArraySize is zero for non-arrays; runtime-sized arrays are not part of
// the input contract.
type Type struct {
	Basic      Basic
	Components uint8
	Columns    uint8
	ArraySize  uint32
	Qualifier  Qualifier

	// Struct is set when Basic is BasicStruct, Block when Basic is
	// BasicBlock.
	Struct *StructDef
	Block  *BlockDef

	// BlockStorage is the layout rule inherited from the nearest enclosing
	// interface block. The front-end does not always retain it on nested
	// field access nodes; the generator tracks it alongside the access
	// chain instead.
	BlockStorage BlockStorage

	// Location of an in/out varying, assigned by the front-end.
	Location uint32
}

// IsScalar reports whether the type is a single numeric component.
func (t Type) IsScalar() bool {
	return t.Basic.IsNumeric() && t.Components <= 1 && t.Columns <= 1 && t.ArraySize == 0
}

// IsVector reports whether the type is a vector.
func (t Type) IsVector() bool {
	return t.Basic.IsNumeric() && t.Components > 1 && t.Columns <= 1 && t.ArraySize == 0
}

// IsMatrix reports whether the type is a matrix.
func (t Type) IsMatrix() bool {
	return t.Basic == BasicFloat && t.Columns > 1 && t.ArraySize == 0
}

// IsArray reports whether the type is an array.
func (t Type) IsArray() bool { return t.ArraySize > 0 }

// Rows returns the number of rows of a matrix, or the vector size, or 1.
func (t Type) Rows() uint8 {
	if t.Components == 0 {
		return 1
	}
	return t.Components
}

// Cols returns the number of matrix columns, or 1.
func (t Type) Cols() uint8 {
	if t.Columns == 0 {
		return 1
	}
	return t.Columns
}

// ElementType returns the type of one array element.
func (t Type) ElementType() Type {
	elem := t
	elem.ArraySize = 0
	return elem
}

// ColumnType returns the type of one matrix column.
func (t Type) ColumnType() Type {
	col := t
	col.Columns = 1
	return col
}

// ComponentType returns the scalar component type of a vector or matrix.
func (t Type) ComponentType() Type {
	comp := t
	comp.Components = 1
	comp.Columns = 1
	return comp
}

// ObjectSize returns the number of scalar components occupied by a value
// of this type, counting struct fields recursively. Used to walk the
// flattened component list of a folded constant.
func (t Type) ObjectSize() uint32 {
	if t.Basic == BasicStruct {
		var size uint32
		for _, f := range t.Struct.Fields {
			size += f.Type.ObjectSize()
		}
		if t.ArraySize > 0 {
			size *= t.ArraySize
		}
		return size
	}
	size := uint32(t.Rows()) * uint32(t.Cols())
	if t.ArraySize > 0 {
		size *= t.ArraySize
	}
	return size
}

// StructDef is a struct type definition. Definitions have pointer
// identity: two fields share a type exactly when they share the same
// *StructDef.
type StructDef struct {
	Name   string
	Fields []Field
}

// Field is a member of a struct or interface block.
type Field struct {
	Name string
	Type Type
}

// BlockDef is an interface block definition (uniform or buffer block).
// Like StructDef it has pointer identity, and it doubles as the symbol
// referenced by accesses to fields of a nameless block.
type BlockDef struct {
	Name     string
	Instance string // empty for nameless blocks
	Fields   []Field
	Qual     Qualifier // QualUniform or QualBuffer
	Storage  BlockStorage
	Set      uint32
	Binding  uint32
}

// EffectiveStorage returns the declared layout rule, defaulting to
// std140 for uniform blocks and std430 for buffer blocks.
func (b *BlockDef) EffectiveStorage() BlockStorage {
	if b.Storage != BlockStorageUnspecified {
		return b.Storage
	}
	if b.Qual == QualBuffer {
		return BlockStorageStd430
	}
	return BlockStorageStd140
}

// SymbolName implements Symbol.
func (b *BlockDef) SymbolName() string { return b.Name }

// Variable is a declared variable: local, global, varying, uniform or
// function parameter. Identity is by pointer; the generator maps each
// *Variable to exactly one result id for the whole compilation.
type Variable struct {
	Name string
	T    Type

	// Binding of an opaque uniform (sampler/image).
	Binding uint32
}

// SymbolName implements Symbol.
func (v *Variable) SymbolName() string { return v.Name }

// Type returns the declared type.
func (v *Variable) Type() Type { return v.T }

// Function is a function declaration shared by its definition and all
// call sites.
type Function struct {
	Name   string
	Params []*Variable
	Return Type
}

// SymbolName implements Symbol.
func (f *Function) SymbolName() string { return f.Name }

// IsMain reports whether this is the shader entry point.
func (f *Function) IsMain() bool { return f.Name == "main" }

// Symbol is anything that can be bound to a module-level result id: a
// variable, a function, or an interface block.
type Symbol interface {
	SymbolName() string
}

// Constant is one folded scalar constant component.
type Constant struct {
	Basic Basic
	Float float32
	Int   int32
	UInt  uint32
	Bool  bool
}

// Cast converts the constant to another basic type, mirroring the
// front-end's constant folding rules. It returns false for casts between
// non-numeric types.
func (c Constant) Cast(to Basic) (Constant, bool) {
	if c.Basic == to {
		return c, true
	}
	out := Constant{Basic: to}
	var f float32
	var i int32
	var u uint32
	var b bool
	switch c.Basic {
	case BasicFloat:
		f, i, u, b = c.Float, int32(c.Float), uint32(c.Float), c.Float != 0
	case BasicInt:
		f, i, u, b = float32(c.Int), c.Int, uint32(c.Int), c.Int != 0
	case BasicUInt:
		f, i, u, b = float32(c.UInt), int32(c.UInt), c.UInt, c.UInt != 0
	case BasicBool:
		if c.Bool {
			f, i, u, b = 1, 1, 1, true
		}
	default:
		return Constant{}, false
	}
	switch to {
	case BasicFloat:
		out.Float = f
	case BasicInt:
		out.Int = i
	case BasicUInt:
		out.UInt = u
	case BasicBool:
		out.Bool = b
	default:
		return Constant{}, false
	}
	return out, true
}

// String returns a debug representation of the constant.
func (c Constant) String() string {
	switch c.Basic {
	case BasicFloat:
		return fmt.Sprintf("%g", c.Float)
	case BasicInt:
		return fmt.Sprintf("%d", c.Int)
	case BasicUInt:
		return fmt.Sprintf("%du", c.UInt)
	case BasicBool:
		return fmt.Sprintf("%t", c.Bool)
	default:
		return "?"
	}
}

// Convenience constructors used heavily by the front-end and tests.

// ScalarType returns an unqualified scalar type.
func ScalarType(basic Basic) Type {
	return Type{Basic: basic, Components: 1, Columns: 1}
}

// VectorType returns an unqualified vector type.
func VectorType(basic Basic, size uint8) Type {
	return Type{Basic: basic, Components: size, Columns: 1}
}

// MatrixType returns an unqualified float matrix type with the given
// column count and rows per column.
func MatrixType(cols, rows uint8) Type {
	return Type{Basic: BasicFloat, Components: rows, Columns: cols}
}

// FloatConst returns a float constant component.
func FloatConst(v float32) Constant { return Constant{Basic: BasicFloat, Float: v} }

// IntConst returns a signed integer constant component.
func IntConst(v int32) Constant { return Constant{Basic: BasicInt, Int: v} }

// UIntConst returns an unsigned integer constant component.
func UIntConst(v uint32) Constant { return Constant{Basic: BasicUInt, UInt: v} }

// BoolConst returns a boolean constant component.
func BoolConst(v bool) Constant { return Constant{Basic: BasicBool, Bool: v} }
