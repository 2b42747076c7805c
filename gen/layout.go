package gen

import (
	"fmt"

	"github.com/gogpu/glslspv/ast"
)

// sizeAlign returns the size and base alignment of a type under the
// given layout rule. Matrices lay out as arrays of their column
// vectors, so they share the array rules: std140 rounds the element
// stride up to 16 bytes, std430 uses the natural alignment.
func sizeAlign(t ast.Type, storage ast.BlockStorage) (size, align uint32) {
	if t.IsArray() {
		stride := arrayStride(t.ElementType(), storage)
		return stride * t.ArraySize, alignOf(stride, storage)
	}
	switch {
	case t.Basic == ast.BasicStruct:
		size = structSize(t.Struct.Fields, storage)
		align = structAlign(t.Struct.Fields, storage)
		return size, align
	case t.IsMatrix():
		stride := matrixStride(t, storage)
		return stride * uint32(t.Cols()), stride
	case t.IsVector():
		switch t.Rows() {
		case 2:
			return 8, 8
		case 3:
			return 12, 16
		default:
			return 16, 16
		}
	default:
		return 4, 4
	}
}

// matrixStride is the byte distance between consecutive columns.
func matrixStride(t ast.Type, storage ast.BlockStorage) uint32 {
	columnSize, columnAlign := sizeAlign(t.ColumnType(), storage)
	stride := roundUp(columnSize, columnAlign)
	return alignOf(stride, storage)
}

// arrayStride is the byte distance between consecutive elements.
func arrayStride(element ast.Type, storage ast.BlockStorage) uint32 {
	size, align := sizeAlign(element, storage)
	return alignOf(roundUp(size, align), storage)
}

// alignOf applies the std140 16-byte rounding rule to an array or
// matrix stride; std430 leaves it alone.
func alignOf(stride uint32, storage ast.BlockStorage) uint32 {
	if storage == ast.BlockStorageStd140 {
		return roundUp(stride, 16)
	}
	return stride
}

// fieldOffsets computes the byte offset of every member of a block or
// laid-out struct.
func fieldOffsets(fields []ast.Field, storage ast.BlockStorage) []uint32 {
	offsets := make([]uint32, len(fields))
	var cursor uint32
	for i, field := range fields {
		size, align := sizeAlign(field.Type, storage)
		cursor = roundUp(cursor, align)
		offsets[i] = cursor
		cursor += size
	}
	return offsets
}

// structSize is the padded size of a laid-out struct: the end of the
// last member rounded up to the struct's own alignment.
func structSize(fields []ast.Field, storage ast.BlockStorage) uint32 {
	if len(fields) == 0 {
		panic("gen: empty struct in block layout")
	}
	offsets := fieldOffsets(fields, storage)
	last, _ := sizeAlign(fields[len(fields)-1].Type, storage)
	return roundUp(offsets[len(fields)-1]+last, structAlign(fields, storage))
}

// structAlign is the largest member alignment, rounded up to 16 under
// std140.
func structAlign(fields []ast.Field, storage ast.BlockStorage) uint32 {
	var align uint32 = 1
	for _, field := range fields {
		if _, a := sizeAlign(field.Type, storage); a > align {
			align = a
		}
	}
	return alignOf(align, storage)
}

// blockSize is the total byte size of an interface block under its
// effective layout rule.
func blockSize(def *ast.BlockDef) uint32 {
	if len(def.Fields) == 0 {
		panic(fmt.Sprintf("gen: block %q has no members", def.Name))
	}
	storage := def.EffectiveStorage()
	offsets := fieldOffsets(def.Fields, storage)
	last, _ := sizeAlign(def.Fields[len(def.Fields)-1].Type, storage)
	return offsets[len(def.Fields)-1] + last
}

func roundUp(v, align uint32) uint32 {
	return (v + align - 1) / align * align
}
