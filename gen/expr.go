package gen

import (
	"fmt"

	"github.com/gogpu/glslspv/ast"
	"github.com/gogpu/glslspv/spirv"
)

// genExpr lowers an expression to its working data. The result may be
// an address that has not been loaded yet; callers that need the value
// go through genExprValue instead.
func (g *Generator) genExpr(e ast.Expr) (nodeData, error) {
	switch x := e.(type) {
	case *ast.SymbolRef:
		return g.genSymbol(x), nil
	case *ast.ConstantExpr:
		return newRValue(g.constantID(x.T, x.Values), x.T), nil
	case *ast.SwizzleExpr:
		return g.genSwizzle(x)
	case *ast.BinaryExpr:
		return g.genBinary(x)
	case *ast.UnaryExpr:
		return g.genUnary(x)
	case *ast.TernaryExpr:
		return nodeData{}, unsupported("ternary")
	case *ast.ConstructorExpr:
		return g.genConstructor(x)
	case *ast.CallExpr:
		return g.genCall(x)
	case *ast.AtomicExpr:
		return g.genAtomic(x)
	default:
		panic(fmt.Sprintf("gen: unexpected expression %T", e))
	}
}

// genExprValue lowers an expression and resolves it to a value id.
func (g *Generator) genExprValue(e ast.Expr) (uint32, error) {
	n, err := g.genExpr(e)
	if err != nil {
		return 0, err
	}
	return g.accessChainLoad(&n), nil
}

// genSymbol resolves a symbol reference to working data: a value for
// constants and read-only parameters, an address for everything else.
func (g *Generator) genSymbol(e *ast.SymbolRef) nodeData {
	if e.Block != nil {
		blockID := g.lookup(e.Block)
		sc := spirv.StorageClassUniform
		if e.Block.Qual == ast.QualBuffer {
			sc = spirv.StorageClassStorageBuffer
		}
		storage := e.Block.EffectiveStorage()
		blockType := ast.Type{Basic: ast.BasicBlock, Block: e.Block}

		if e.T.Basic == ast.BasicBlock {
			// Named instance; fields are selected by explicit indexing.
			return newLValue(blockID, blockType, sc, storage)
		}
		// Field of a nameless block.
		n := newLValue(blockID, blockType, sc, storage)
		g.pushLiteralIndex(&n, e.FieldIndex, e.T)
		return n
	}

	v := e.Var
	q := v.T.Qualifier
	switch q {
	case ast.QualVertexID, ast.QualInstanceID, ast.QualNumWorkGroups,
		ast.QualWorkGroupID, ast.QualLocalInvocationID,
		ast.QualGlobalInvocationID, ast.QualLocalInvocationIndex:
		info := builtinFor(q)
		return newLValue(g.builtinID(q), info.t, spirv.StorageClassInput, ast.BlockStorageUnspecified)

	case ast.QualConst:
		return newRValue(g.lookup(v), v.T)

	case ast.QualParamConst:
		return newRValue(g.lookup(v), v.T)

	case ast.QualParamIn, ast.QualParamOut, ast.QualParamInOut:
		sc := spirv.StorageClassFunction
		if v.T.Basic.IsOpaque() {
			sc = spirv.StorageClassUniformConstant
		}
		return newLValue(g.lookup(v), v.T, sc, ast.BlockStorageUnspecified)

	default:
		return newLValue(g.lookup(v), v.T, storageClassFor(q), ast.BlockStorageUnspecified)
	}
}

// genSwizzle lowers a component selection. An identity swizzle is a
// no-op and passes the operand through untouched.
func (g *Generator) genSwizzle(e *ast.SwizzleExpr) (nodeData, error) {
	n, err := g.genExpr(e.Operand)
	if err != nil {
		return nodeData{}, err
	}
	if e.IsIdentity() {
		return n, nil
	}
	g.pushSwizzle(&n, e.Components)
	return n, nil
}

// literalIndexOf extracts the folded index of a direct indexing
// operation.
func literalIndexOf(e ast.Expr) uint32 {
	c, ok := e.(*ast.ConstantExpr)
	if !ok || len(c.Values) != 1 {
		panic(fmt.Sprintf("gen: direct index is not a folded constant (%T)", e))
	}
	switch c.Values[0].Basic {
	case ast.BasicInt:
		return uint32(c.Values[0].Int)
	case ast.BasicUInt:
		return c.Values[0].UInt
	default:
		panic(fmt.Sprintf("gen: direct index has non-integer type %d", c.Values[0].Basic))
	}
}

//nolint:gocognit,gocyclo,cyclop,funlen
func (g *Generator) genBinary(e *ast.BinaryExpr) (nodeData, error) {
	op := e.Op

	if op.IsIndex() {
		n, err := g.genExpr(e.Left)
		if err != nil {
			return nodeData{}, err
		}
		if op == ast.BinaryIndexDynamic {
			indexID, err := g.genExprValue(e.Right)
			if err != nil {
				return nodeData{}, err
			}
			target := n.chain.targetType
			if target.IsVector() && !target.IsArray() {
				g.pushDynamicComponent(&n, indexID)
			} else {
				g.pushDynamicIndex(&n, indexID, e.T)
			}
			return n, nil
		}
		g.pushLiteralIndex(&n, literalIndexOf(e.Right), e.T)
		return n, nil
	}

	if op == ast.BinaryAssign || op == ast.BinaryInitialize {
		lhs, err := g.genExpr(e.Left)
		if err != nil {
			return nodeData{}, err
		}
		value, err := g.genExprValue(e.Right)
		if err != nil {
			return nodeData{}, err
		}
		g.accessChainStore(&lhs, value)
		return newRValue(value, e.T), nil
	}

	if base, ok := compoundBase(op); ok {
		lhs, err := g.genExpr(e.Left)
		if err != nil {
			return nodeData{}, err
		}
		left := g.accessChainLoad(&lhs)
		right, err := g.genExprValue(e.Right)
		if err != nil {
			return nodeData{}, err
		}
		value := g.applyBinary(base, e.T, e.Left.Type(), e.Right.Type(), left, right)
		g.accessChainStore(&lhs, value)
		return newRValue(value, e.T), nil
	}

	if op == ast.BinaryComma {
		if _, err := g.genExpr(e.Left); err != nil {
			return nodeData{}, err
		}
		return g.genExpr(e.Right)
	}

	left, err := g.genExprValue(e.Left)
	if err != nil {
		return nodeData{}, err
	}
	right, err := g.genExprValue(e.Right)
	if err != nil {
		return nodeData{}, err
	}
	return newRValue(g.applyBinary(op, e.T, e.Left.Type(), e.Right.Type(), left, right), e.T), nil
}

// compoundBase maps a compound assignment to its underlying
// operation.
func compoundBase(op ast.BinaryOp) (ast.BinaryOp, bool) {
	switch op {
	case ast.BinaryAddAssign:
		return ast.BinaryAdd, true
	case ast.BinarySubAssign:
		return ast.BinarySub, true
	case ast.BinaryMulAssign:
		return ast.BinaryMul, true
	case ast.BinaryDivAssign:
		return ast.BinaryDiv, true
	case ast.BinaryModAssign:
		return ast.BinaryMod, true
	case ast.BinaryVectorTimesScalarAssign:
		return ast.BinaryVectorTimesScalar, true
	case ast.BinaryVectorTimesMatrixAssign:
		return ast.BinaryVectorTimesMatrix, true
	case ast.BinaryMatrixTimesScalarAssign:
		return ast.BinaryMatrixTimesScalar, true
	case ast.BinaryMatrixTimesMatrixAssign:
		return ast.BinaryMatrixTimesMatrix, true
	case ast.BinaryShiftLeftAssign:
		return ast.BinaryShiftLeft, true
	case ast.BinaryShiftRightAssign:
		return ast.BinaryShiftRight, true
	case ast.BinaryBitAndAssign:
		return ast.BinaryBitAnd, true
	case ast.BinaryBitXorAssign:
		return ast.BinaryBitXor, true
	case ast.BinaryBitOrAssign:
		return ast.BinaryBitOr, true
	default:
		return 0, false
	}
}

// applyBinary emits the instruction for one binary operation on
// already-loaded operands.
//
//nolint:gocognit,gocyclo,cyclop,funlen
func (g *Generator) applyBinary(op ast.BinaryOp, result, leftType, rightType ast.Type, left, right uint32) uint32 {
	resultID := g.typeID(result, ast.BlockStorageUnspecified)

	switch op {
	case ast.BinaryVectorTimesScalar:
		// Operand order is fixed by the instruction; the scalar may
		// appear on either side in the source.
		if leftType.IsScalar() {
			left, right = right, left
		}
		return g.b.WriteBinaryOp(spirv.OpVectorTimesScalar, resultID, left, right)

	case ast.BinaryMatrixTimesScalar:
		if leftType.IsScalar() {
			left, right = right, left
		}
		return g.b.WriteBinaryOp(spirv.OpMatrixTimesScalar, resultID, left, right)

	case ast.BinaryVectorTimesMatrix:
		return g.b.WriteBinaryOp(spirv.OpVectorTimesMatrix, resultID, left, right)
	case ast.BinaryMatrixTimesVector:
		return g.b.WriteBinaryOp(spirv.OpMatrixTimesVector, resultID, left, right)
	case ast.BinaryMatrixTimesMatrix:
		return g.b.WriteBinaryOp(spirv.OpMatrixTimesMatrix, resultID, left, right)

	case ast.BinaryEqual, ast.BinaryNotEqual:
		return g.genEquality(op == ast.BinaryEqual, leftType, left, right)

	case ast.BinaryLogicalAnd:
		return g.b.WriteBinaryOp(spirv.OpLogicalAnd, resultID, left, right)
	case ast.BinaryLogicalOr:
		return g.b.WriteBinaryOp(spirv.OpLogicalOr, resultID, left, right)
	}

	// Component-wise operations: a scalar operand mixed with a vector
	// one is smeared out to match.
	if result.IsVector() {
		if leftType.IsScalar() {
			left = g.smear(left, result)
		}
		if rightType.IsScalar() {
			right = g.smear(right, result)
		}
	}

	basic := leftType.Basic
	if op == ast.BinaryLess || op == ast.BinaryGreater ||
		op == ast.BinaryLessEqual || op == ast.BinaryGreaterEqual {
		return g.b.WriteBinaryOp(relationalOpcode(op, basic), resultID, left, right)
	}
	return g.b.WriteBinaryOp(arithmeticOpcode(op, result.Basic), resultID, left, right)
}

// smear replicates a scalar into a vector of the result type.
func (g *Generator) smear(scalar uint32, vec ast.Type) uint32 {
	components := make([]uint32, vec.Rows())
	for i := range components {
		components[i] = scalar
	}
	return g.b.WriteCompositeConstruct(g.typeID(vec, ast.BlockStorageUnspecified), components)
}

// genEquality emits == or !=. Vector operands compare component-wise
// and reduce with OpAll or OpAny.
func (g *Generator) genEquality(equal bool, operandType ast.Type, left, right uint32) uint32 {
	boolID := g.b.TypeBool()

	var opcode spirv.OpCode
	switch operandType.Basic {
	case ast.BasicFloat:
		if equal {
			opcode = spirv.OpFOrdEqual
		} else {
			opcode = spirv.OpFOrdNotEqual
		}
	case ast.BasicInt, ast.BasicUInt:
		if equal {
			opcode = spirv.OpIEqual
		} else {
			opcode = spirv.OpINotEqual
		}
	case ast.BasicBool:
		if equal {
			opcode = spirv.OpLogicalEqual
		} else {
			opcode = spirv.OpLogicalNotEqual
		}
	default:
		panic(fmt.Sprintf("gen: equality on non-comparable type %d", operandType.Basic))
	}

	if !operandType.IsVector() {
		return g.b.WriteBinaryOp(opcode, boolID, left, right)
	}
	boolVec := g.b.TypeVector(boolID, uint32(operandType.Rows()))
	componentwise := g.b.WriteBinaryOp(opcode, boolVec, left, right)
	if equal {
		return g.b.WriteUnaryOp(spirv.OpAll, boolID, componentwise)
	}
	return g.b.WriteUnaryOp(spirv.OpAny, boolID, componentwise)
}

func arithmeticOpcode(op ast.BinaryOp, basic ast.Basic) spirv.OpCode {
	float := basic == ast.BasicFloat
	signed := basic == ast.BasicInt

	switch op {
	case ast.BinaryAdd:
		if float {
			return spirv.OpFAdd
		}
		return spirv.OpIAdd
	case ast.BinarySub:
		if float {
			return spirv.OpFSub
		}
		return spirv.OpISub
	case ast.BinaryMul:
		if float {
			return spirv.OpFMul
		}
		return spirv.OpIMul
	case ast.BinaryDiv:
		switch {
		case float:
			return spirv.OpFDiv
		case signed:
			return spirv.OpSDiv
		default:
			return spirv.OpUDiv
		}
	case ast.BinaryMod:
		switch {
		case float:
			return spirv.OpFRem
		case signed:
			return spirv.OpSMod
		default:
			return spirv.OpUMod
		}
	case ast.BinaryShiftLeft:
		return spirv.OpShiftLeftLogical
	case ast.BinaryShiftRight:
		if signed {
			return spirv.OpShiftRightArithmetic
		}
		return spirv.OpShiftRightLogical
	case ast.BinaryBitAnd:
		return spirv.OpBitwiseAnd
	case ast.BinaryBitXor:
		return spirv.OpBitwiseXor
	case ast.BinaryBitOr:
		return spirv.OpBitwiseOr
	default:
		panic(fmt.Sprintf("gen: no opcode for binary op %d", op))
	}
}

func relationalOpcode(op ast.BinaryOp, basic ast.Basic) spirv.OpCode {
	switch basic {
	case ast.BasicFloat:
		switch op {
		case ast.BinaryLess:
			return spirv.OpFOrdLessThan
		case ast.BinaryGreater:
			return spirv.OpFOrdGreaterThan
		case ast.BinaryLessEqual:
			return spirv.OpFOrdLessThanEqual
		default:
			return spirv.OpFOrdGreaterThanEqual
		}
	case ast.BasicInt:
		switch op {
		case ast.BinaryLess:
			return spirv.OpSLessThan
		case ast.BinaryGreater:
			return spirv.OpSGreaterThan
		case ast.BinaryLessEqual:
			return spirv.OpSLessThanEqual
		default:
			return spirv.OpSGreaterThanEqual
		}
	case ast.BasicUInt:
		switch op {
		case ast.BinaryLess:
			return spirv.OpULessThan
		case ast.BinaryGreater:
			return spirv.OpUGreaterThan
		case ast.BinaryLessEqual:
			return spirv.OpULessThanEqual
		default:
			return spirv.OpUGreaterThanEqual
		}
	default:
		panic(fmt.Sprintf("gen: relational comparison on type %d", basic))
	}
}

func (g *Generator) genUnary(e *ast.UnaryExpr) (nodeData, error) {
	switch e.Op {
	case ast.UnaryPreIncrement, ast.UnaryPreDecrement,
		ast.UnaryPostIncrement, ast.UnaryPostDecrement:
		return nodeData{}, unsupported("increment/decrement")
	}

	operand, err := g.genExprValue(e.Operand)
	if err != nil {
		return nodeData{}, err
	}
	resultID := g.typeID(e.T, ast.BlockStorageUnspecified)

	var opcode spirv.OpCode
	switch e.Op {
	case ast.UnaryNegate:
		if e.T.Basic == ast.BasicFloat {
			opcode = spirv.OpFNegate
		} else {
			opcode = spirv.OpSNegate
		}
	case ast.UnaryLogicalNot:
		opcode = spirv.OpLogicalNot
	case ast.UnaryBitNot:
		opcode = spirv.OpNot
	default:
		panic(fmt.Sprintf("gen: unexpected unary op %d", e.Op))
	}
	return newRValue(g.b.WriteUnaryOp(opcode, resultID, operand), e.T), nil
}
