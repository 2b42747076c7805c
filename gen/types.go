package gen

import (
	"fmt"

	"github.com/gogpu/glslspv/ast"
	"github.com/gogpu/glslspv/spirv"
)

// typeID returns the SPIR-V id of an AST type, declaring it on first
// use. Types reached through an interface block carry the block's
// layout rule: arrays get stride decorations and structs get member
// offsets, which makes them distinct from their unlaid-out twins.
func (g *Generator) typeID(t ast.Type, storage ast.BlockStorage) uint32 {
	if t.IsArray() {
		element := t.ElementType()
		elementID := g.typeID(element, storage)
		lengthID := g.b.ConstantUint(t.ArraySize)
		var stride uint32
		if storage != ast.BlockStorageUnspecified {
			stride = arrayStride(element, storage)
		}
		return g.b.TypeArray(elementID, lengthID, stride)
	}

	switch t.Basic {
	case ast.BasicVoid:
		return g.b.TypeVoid()

	case ast.BasicBool:
		if t.Rows() > 1 {
			return g.b.TypeVector(g.b.TypeBool(), uint32(t.Rows()))
		}
		return g.b.TypeBool()

	case ast.BasicFloat:
		scalar := g.b.TypeFloat(32)
		if t.Cols() > 1 {
			column := g.b.TypeVector(scalar, uint32(t.Rows()))
			return g.b.TypeMatrix(column, uint32(t.Cols()))
		}
		if t.Rows() > 1 {
			return g.b.TypeVector(scalar, uint32(t.Rows()))
		}
		return scalar

	case ast.BasicInt, ast.BasicUInt:
		scalar := g.b.TypeInt(32, t.Basic == ast.BasicInt)
		if t.Rows() > 1 {
			return g.b.TypeVector(scalar, uint32(t.Rows()))
		}
		return scalar

	case ast.BasicStruct:
		return g.structTypeID(t.Struct, storage)

	case ast.BasicBlock:
		return g.blockTypeID(t.Block)

	case ast.BasicSampler2D:
		image := g.b.TypeImage(g.b.TypeFloat(32), 1 /* 2D */, 0, 0, 0, 1, 0)
		return g.b.TypeSampledImage(image)

	case ast.BasicImage2D:
		return g.b.TypeImage(g.b.TypeFloat(32), 1 /* 2D */, 0, 0, 0, 2, 0)

	default:
		panic(fmt.Sprintf("gen: unknown basic type %d", t.Basic))
	}
}

// structTypeID declares a struct type, once per definition and layout
// rule. Laid-out structs get member offsets and matrix layout
// decorations on first declaration.
func (g *Generator) structTypeID(def *ast.StructDef, storage ast.BlockStorage) uint32 {
	key := fmt.Sprintf("struct:%p:%d", def, storage)
	members := make([]uint32, len(def.Fields))
	for i, field := range def.Fields {
		members[i] = g.typeID(field.Type, storage)
	}
	id, fresh := g.b.TypeStruct(key, members...)
	if !fresh {
		return id
	}
	if storage != ast.BlockStorageUnspecified {
		g.decorateLaidOutMembers(id, def.Fields, storage)
	}
	if g.cfg.Debug {
		g.b.AddName(id, def.Name)
		for i, field := range def.Fields {
			g.b.AddMemberName(id, uint32(i), field.Name)
		}
	}
	return id
}

// blockTypeID declares the struct type backing an interface block.
func (g *Generator) blockTypeID(def *ast.BlockDef) uint32 {
	key := fmt.Sprintf("block:%p", def)
	storage := def.EffectiveStorage()
	members := make([]uint32, len(def.Fields))
	for i, field := range def.Fields {
		members[i] = g.typeID(field.Type, storage)
	}
	id, fresh := g.b.TypeStruct(key, members...)
	if !fresh {
		return id
	}
	g.b.AddDecorate(id, spirv.DecorationBlock)
	g.decorateLaidOutMembers(id, def.Fields, storage)
	if g.cfg.Debug {
		g.b.AddName(id, def.Name)
		for i, field := range def.Fields {
			g.b.AddMemberName(id, uint32(i), field.Name)
		}
	}
	return id
}

// decorateLaidOutMembers emits Offset for every member and the
// column-major layout pair for matrix members.
func (g *Generator) decorateLaidOutMembers(structID uint32, fields []ast.Field, storage ast.BlockStorage) {
	offsets := fieldOffsets(fields, storage)
	for i, field := range fields {
		g.b.AddMemberDecorate(structID, uint32(i), spirv.DecorationOffset, offsets[i])
		matrix := field.Type
		if matrix.IsArray() {
			matrix = matrix.ElementType()
		}
		if matrix.IsMatrix() {
			g.b.AddMemberDecorate(structID, uint32(i), spirv.DecorationColMajor)
			g.b.AddMemberDecorate(structID, uint32(i), spirv.DecorationMatrixStride, matrixStride(matrix, storage))
		}
	}
}

// pointerTypeID returns the id of a pointer to t in the given storage
// class.
func (g *Generator) pointerTypeID(t ast.Type, sc spirv.StorageClass, storage ast.BlockStorage) uint32 {
	return g.b.TypePointer(sc, g.typeID(t, storage))
}

// constantID interns the folded constant with the given type, built
// from the flattened scalar component list. Composite constants are
// assembled bottom-up from their scalar leaves.
func (g *Generator) constantID(t ast.Type, values []ast.Constant) uint32 {
	id, rest := g.constantFrom(t, values)
	if len(rest) != 0 {
		panic(fmt.Sprintf("gen: constant has %d extra components", len(rest)))
	}
	return id
}

// constantFrom consumes the components of one value of type t from
// the front of values and returns the remainder.
func (g *Generator) constantFrom(t ast.Type, values []ast.Constant) (uint32, []ast.Constant) {
	if t.IsArray() {
		element := t.ElementType()
		elems := make([]uint32, t.ArraySize)
		for i := range elems {
			elems[i], values = g.constantFrom(element, values)
		}
		return g.b.ConstantComposite(g.typeID(t, ast.BlockStorageUnspecified), elems...), values
	}

	switch {
	case t.Basic == ast.BasicStruct:
		fields := make([]uint32, len(t.Struct.Fields))
		for i, field := range t.Struct.Fields {
			fields[i], values = g.constantFrom(field.Type, values)
		}
		return g.b.ConstantComposite(g.typeID(t, ast.BlockStorageUnspecified), fields...), values

	case t.IsMatrix():
		column := t.ColumnType()
		cols := make([]uint32, t.Cols())
		for i := range cols {
			cols[i], values = g.constantFrom(column, values)
		}
		return g.b.ConstantComposite(g.typeID(t, ast.BlockStorageUnspecified), cols...), values

	case t.IsVector():
		component := t.ComponentType()
		comps := make([]uint32, t.Rows())
		for i := range comps {
			comps[i], values = g.constantFrom(component, values)
		}
		return g.b.ConstantComposite(g.typeID(t, ast.BlockStorageUnspecified), comps...), values

	default:
		if len(values) == 0 {
			panic("gen: constant is missing components")
		}
		return g.scalarConstantID(t.Basic, values[0]), values[1:]
	}
}

// scalarConstantID interns one scalar constant. The front-end folds
// conversions, so the component's type must already match.
func (g *Generator) scalarConstantID(basic ast.Basic, c ast.Constant) uint32 {
	if c.Basic != basic {
		panic(fmt.Sprintf("gen: constant component is %d, want %d; conversions are the front-end's job", c.Basic, basic))
	}
	switch basic {
	case ast.BasicFloat:
		return g.b.ConstantFloat(c.Float)
	case ast.BasicInt:
		return g.b.ConstantInt(c.Int)
	case ast.BasicUInt:
		return g.b.ConstantUint(c.UInt)
	case ast.BasicBool:
		return g.b.ConstantBool(c.Bool)
	default:
		panic(fmt.Sprintf("gen: non-scalar constant basic type %d", basic))
	}
}
