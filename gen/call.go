package gen

import (
	"fmt"

	"github.com/gogpu/glslspv/ast"
	"github.com/gogpu/glslspv/spirv"
)

// writeback records an out or inout argument that must be copied back
// after the call returns.
type writeback struct {
	scratch uint32
	target  nodeData
	t       ast.Type
}

// directPassable reports whether an argument can be handed to a
// pointer parameter as-is: an unindexed address in Function storage
// with no pending component selection.
func directPassable(n *nodeData) bool {
	return !n.isRValue() &&
		n.chain.storageClass == spirv.StorageClassFunction &&
		len(n.indices) == 0 &&
		n.chain.tail.kind == tailNone
}

// genCall lowers a user function call. Opaque arguments travel as
// collapsed UniformConstant pointers, read-only parameters by value,
// and everything else as Function-storage pointers, copied through a
// scratch variable when the argument does not already live in one.
func (g *Generator) genCall(e *ast.CallExpr) (nodeData, error) {
	fn := e.Fn
	if len(e.Args) != len(fn.Params) {
		panic(fmt.Sprintf("gen: call to %q with %d args, want %d", fn.Name, len(e.Args), len(fn.Params)))
	}

	args := make([]uint32, len(e.Args))
	var writebacks []writeback

	for i, arg := range e.Args {
		param := fn.Params[i]
		qual := param.T.Qualifier

		if param.T.Basic.IsOpaque() {
			n, err := g.genExpr(arg)
			if err != nil {
				return nodeData{}, err
			}
			args[i] = g.collapse(&n)
			continue
		}

		if qual == ast.QualParamConst {
			value, err := g.genExprValue(arg)
			if err != nil {
				return nodeData{}, err
			}
			args[i] = value
			continue
		}

		n, err := g.genExpr(arg)
		if err != nil {
			return nodeData{}, err
		}
		if directPassable(&n) {
			args[i] = n.baseID
			continue
		}

		ptrType := g.pointerTypeID(param.T, spirv.StorageClassFunction, ast.BlockStorageUnspecified)
		scratch := g.b.DeclareVariable(ptrType, 0)
		if g.cfg.Debug {
			g.b.AddName(scratch, "param")
		}
		if qual == ast.QualParamIn || qual == ast.QualParamInOut {
			g.b.WriteStore(scratch, g.accessChainLoad(&n))
		}
		if qual == ast.QualParamOut || qual == ast.QualParamInOut {
			writebacks = append(writebacks, writeback{scratch: scratch, target: n, t: param.T})
		}
		args[i] = scratch
	}

	returnTypeID := g.typeID(fn.Return, ast.BlockStorageUnspecified)
	result := g.b.WriteFunctionCall(returnTypeID, g.functionIDs[fn], args)

	for i := range writebacks {
		wb := &writebacks[i]
		value := g.b.WriteLoad(g.typeID(wb.t, ast.BlockStorageUnspecified), wb.scratch)
		g.accessChainStore(&wb.target, value)
	}

	return newRValue(result, fn.Return), nil
}

// genAtomic lowers an atomic built-in. The memory operand is resolved
// to an address and never loaded; scope is Device and no ordering
// semantics are requested.
func (g *Generator) genAtomic(e *ast.AtomicExpr) (nodeData, error) {
	mem, err := g.genExpr(e.Args[0])
	if err != nil {
		return nodeData{}, err
	}
	pointer := g.collapse(&mem)

	scope := g.b.ConstantUint(uint32(spirv.ScopeDevice))
	semantics := g.b.ConstantUint(uint32(spirv.MemorySemanticsNone))
	resultTypeID := g.typeID(e.T, ast.BlockStorageUnspecified)
	signed := e.T.Basic == ast.BasicInt

	if e.Op == ast.AtomicCompSwap {
		comparator, err := g.genExprValue(e.Args[1])
		if err != nil {
			return nodeData{}, err
		}
		value, err := g.genExprValue(e.Args[2])
		if err != nil {
			return nodeData{}, err
		}
		id := g.b.WriteAtomicOp(spirv.OpAtomicCompareExchange, resultTypeID,
			pointer, scope, semantics, semantics, value, comparator)
		return newRValue(id, e.T), nil
	}

	value, err := g.genExprValue(e.Args[1])
	if err != nil {
		return nodeData{}, err
	}

	var opcode spirv.OpCode
	switch e.Op {
	case ast.AtomicAdd:
		opcode = spirv.OpAtomicIAdd
	case ast.AtomicMin:
		if signed {
			opcode = spirv.OpAtomicSMin
		} else {
			opcode = spirv.OpAtomicUMin
		}
	case ast.AtomicMax:
		if signed {
			opcode = spirv.OpAtomicSMax
		} else {
			opcode = spirv.OpAtomicUMax
		}
	case ast.AtomicAnd:
		opcode = spirv.OpAtomicAnd
	case ast.AtomicOr:
		opcode = spirv.OpAtomicOr
	case ast.AtomicXor:
		opcode = spirv.OpAtomicXor
	case ast.AtomicExchange:
		opcode = spirv.OpAtomicExchange
	default:
		panic(fmt.Sprintf("gen: unexpected atomic op %d", e.Op))
	}

	id := g.b.WriteAtomicOp(opcode, resultTypeID, pointer, scope, semantics, value)
	return newRValue(id, e.T), nil
}
