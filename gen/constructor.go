package gen

import (
	"fmt"

	"github.com/gogpu/glslspv/ast"
)

// genConstructor lowers a constructor call to composite construction.
func (g *Generator) genConstructor(e *ast.ConstructorExpr) (nodeData, error) {
	t := e.T

	// Arrays and structs construct positionally from the argument
	// values.
	if t.IsArray() || t.Basic == ast.BasicStruct {
		args := make([]uint32, len(e.Args))
		for i, arg := range e.Args {
			value, err := g.genExprValue(arg)
			if err != nil {
				return nodeData{}, err
			}
			args[i] = value
		}
		id := g.b.WriteCompositeConstruct(g.typeID(t, ast.BlockStorageUnspecified), args)
		return newRValue(id, t), nil
	}

	switch {
	case t.IsScalar():
		if len(e.Args) != 1 || !typesMatch(e.Args[0].Type(), t) {
			panic(fmt.Sprintf("gen: scalar constructor with unresolved conversion (%s)", describeType(t)))
		}
		return g.genExpr(e.Args[0])

	case t.IsVector():
		return g.genVectorConstructor(e)

	case t.IsMatrix():
		if len(e.Args) == 1 {
			argType := e.Args[0].Type()
			if argType.IsScalar() {
				return g.genMatrixFromScalar(e)
			}
			if argType.IsMatrix() {
				return g.genMatrixFromMatrix(e)
			}
		}
		return g.genMatrixFromComponents(e)

	default:
		panic(fmt.Sprintf("gen: constructor for type %s", describeType(t)))
	}
}

// genVectorConstructor builds a vector from one replicated scalar or
// from the arguments' components taken left to right.
func (g *Generator) genVectorConstructor(e *ast.ConstructorExpr) (nodeData, error) {
	t := e.T
	rows := uint32(t.Rows())

	if len(e.Args) == 1 && e.Args[0].Type().IsScalar() {
		scalar, err := g.genExprValue(e.Args[0])
		if err != nil {
			return nodeData{}, err
		}
		components := make([]uint32, rows)
		for i := range components {
			components[i] = scalar
		}
		id := g.b.WriteCompositeConstruct(g.typeID(t, ast.BlockStorageUnspecified), components)
		return newRValue(id, t), nil
	}

	components, err := g.extractComponents(e.Args, rows)
	if err != nil {
		return nodeData{}, err
	}
	id := g.b.WriteCompositeConstruct(g.typeID(t, ast.BlockStorageUnspecified), components)
	return newRValue(id, t), nil
}

// genMatrixFromScalar builds a matrix with the scalar on the diagonal
// and zero elsewhere.
func (g *Generator) genMatrixFromScalar(e *ast.ConstructorExpr) (nodeData, error) {
	t := e.T
	scalar, err := g.genExprValue(e.Args[0])
	if err != nil {
		return nodeData{}, err
	}
	zero := g.b.ConstantFloat(0)

	columnType := g.typeID(t.ColumnType(), ast.BlockStorageUnspecified)
	columns := make([]uint32, t.Cols())
	for col := range columns {
		components := make([]uint32, t.Rows())
		for row := range components {
			if row == col {
				components[row] = scalar
			} else {
				components[row] = zero
			}
		}
		columns[col] = g.b.WriteCompositeConstruct(columnType, components)
	}
	id := g.b.WriteCompositeConstruct(g.typeID(t, ast.BlockStorageUnspecified), columns)
	return newRValue(id, t), nil
}

// genMatrixFromComponents builds a matrix column by column from the
// arguments' components.
func (g *Generator) genMatrixFromComponents(e *ast.ConstructorExpr) (nodeData, error) {
	t := e.T
	rows := uint32(t.Rows())
	components, err := g.extractComponents(e.Args, rows*uint32(t.Cols()))
	if err != nil {
		return nodeData{}, err
	}

	columnType := g.typeID(t.ColumnType(), ast.BlockStorageUnspecified)
	columns := make([]uint32, t.Cols())
	for col := range columns {
		columns[col] = g.b.WriteCompositeConstruct(columnType, components[uint32(col)*rows:uint32(col+1)*rows])
	}
	id := g.b.WriteCompositeConstruct(g.typeID(t, ast.BlockStorageUnspecified), columns)
	return newRValue(id, t), nil
}

// genMatrixFromMatrix builds a matrix from another matrix. A larger
// source is trimmed column by column; a smaller one is overlaid on an
// identity matrix, with 1 on the diagonal and 0 elsewhere outside the
// source.
func (g *Generator) genMatrixFromMatrix(e *ast.ConstructorExpr) (nodeData, error) {
	t := e.T
	srcType := e.Args[0].Type()
	src, err := g.genExprValue(e.Args[0])
	if err != nil {
		return nodeData{}, err
	}

	srcRows, srcCols := uint32(srcType.Rows()), uint32(srcType.Cols())
	dstRows, dstCols := uint32(t.Rows()), uint32(t.Cols())

	srcColumnType := g.typeID(srcType.ColumnType(), ast.BlockStorageUnspecified)
	dstColumnType := g.typeID(t.ColumnType(), ast.BlockStorageUnspecified)

	columns := make([]uint32, dstCols)
	if srcRows >= dstRows && srcCols >= dstCols {
		for col := uint32(0); col < dstCols; col++ {
			column := g.b.WriteCompositeExtract(srcColumnType, src, []uint32{col})
			if srcRows == dstRows {
				columns[col] = column
				continue
			}
			take := make([]uint32, dstRows)
			for row := range take {
				take[row] = uint32(row)
			}
			columns[col] = g.b.WriteVectorShuffle(dstColumnType, column, column, take)
		}
	} else {
		one := g.b.ConstantFloat(1)
		zero := g.b.ConstantFloat(0)
		for col := uint32(0); col < dstCols; col++ {
			components := make([]uint32, dstRows)
			var column uint32
			if col < srcCols {
				column = g.b.WriteCompositeExtract(srcColumnType, src, []uint32{col})
			}
			for row := uint32(0); row < dstRows; row++ {
				switch {
				case col < srcCols && row < srcRows:
					scalarType := g.typeID(t.ComponentType(), ast.BlockStorageUnspecified)
					components[row] = g.b.WriteCompositeExtract(scalarType, column, []uint32{row})
				case row == col:
					components[row] = one
				default:
					components[row] = zero
				}
			}
			columns[col] = g.b.WriteCompositeConstruct(dstColumnType, components)
		}
	}
	id := g.b.WriteCompositeConstruct(g.typeID(t, ast.BlockStorageUnspecified), columns)
	return newRValue(id, t), nil
}

// extractComponents flattens the arguments into scalar component ids,
// left to right, stopping once count components have been produced.
// Vector arguments contribute their components in order, matrix ones
// in column-major order.
func (g *Generator) extractComponents(args []ast.Expr, count uint32) ([]uint32, error) {
	components := make([]uint32, 0, count)
	for _, arg := range args {
		if uint32(len(components)) == count {
			break
		}
		value, err := g.genExprValue(arg)
		if err != nil {
			return nil, err
		}
		argType := arg.Type()

		switch {
		case argType.IsScalar():
			components = append(components, value)

		case argType.IsVector():
			scalarType := g.typeID(argType.ComponentType(), ast.BlockStorageUnspecified)
			for row := uint32(0); row < uint32(argType.Rows()) && uint32(len(components)) < count; row++ {
				components = append(components, g.b.WriteCompositeExtract(scalarType, value, []uint32{row}))
			}

		case argType.IsMatrix():
			scalarType := g.typeID(argType.ComponentType(), ast.BlockStorageUnspecified)
			for col := uint32(0); col < uint32(argType.Cols()); col++ {
				for row := uint32(0); row < uint32(argType.Rows()) && uint32(len(components)) < count; row++ {
					components = append(components, g.b.WriteCompositeExtract(scalarType, value, []uint32{col, row}))
				}
			}

		default:
			panic(fmt.Sprintf("gen: constructor argument of type %s", describeType(argType)))
		}
	}
	if uint32(len(components)) != count {
		panic(fmt.Sprintf("gen: constructor has %d components, want %d", len(components), count))
	}
	return components, nil
}

// typesMatch reports whether two types agree in shape and basic type.
func typesMatch(a, b ast.Type) bool {
	return a.Basic == b.Basic && a.Rows() == b.Rows() && a.Cols() == b.Cols() &&
		a.ArraySize == b.ArraySize
}

// describeType renders a type for panic messages.
func describeType(t ast.Type) string {
	s := fmt.Sprintf("basic=%d %dx%d", t.Basic, t.Cols(), t.Rows())
	if t.IsArray() {
		s += fmt.Sprintf("[%d]", t.ArraySize)
	}
	return s
}
