package gen

import (
	"fmt"

	"github.com/gogpu/glslspv/ast"
	"github.com/gogpu/glslspv/spirv"
)

// chainIndex is one step of an access chain: either a literal index
// known at compile time or the id of a runtime-computed one.
type chainIndex struct {
	literal   uint32
	id        uint32
	isLiteral bool
}

// tailKind discriminates the deferred component selection at the end
// of an access chain. A swizzle and a dynamic component are mutually
// exclusive; pushDynamicComponent folds a pending swizzle away before
// recording the dynamic index.
type tailKind uint8

const (
	tailNone tailKind = iota
	tailSwizzle
	tailDynamic
)

// chainTail is the deferred vector-component selection of a chain.
type chainTail struct {
	kind     tailKind
	swizzles []uint32 // tailSwizzle; never length 1
	dynamic  uint32   // tailDynamic; component index value id
}

// accessChain describes how baseID plus the index list should be
// interpreted.
type accessChain struct {
	// storageClass is the memory region the chain addresses.
	// StorageClassMax means the chain holds a value, not an address.
	storageClass spirv.StorageClass

	// targetType is the type reached after applying the index list,
	// before any deferred tail.
	targetType ast.Type

	tail chainTail

	// blockStorage is the layout rule inherited from the enclosing
	// interface block, if any.
	blockStorage ast.BlockStorage

	// chainID memoizes the pointer produced by collapse.
	chainID uint32

	// allLiteral stays true until a dynamic index is pushed; it never
	// goes back.
	allLiteral bool
}

// nodeData is the per-node working data of the traversal: the base
// reference plus the accumulated access chain.
type nodeData struct {
	baseID   uint32
	baseType ast.Type // type of the base object itself
	indices  []chainIndex
	chain    accessChain
}

// isRValue reports whether the node holds a computed value rather
// than an address.
func (n *nodeData) isRValue() bool {
	return n.chain.storageClass == spirv.StorageClassMax
}

// newRValue returns working data for a computed value.
func newRValue(id uint32, t ast.Type) nodeData {
	return nodeData{
		baseID:   id,
		baseType: t,
		chain: accessChain{
			storageClass: spirv.StorageClassMax,
			targetType:   t,
			allLiteral:   true,
		},
	}
}

// newLValue returns working data for an addressable location.
func newLValue(id uint32, t ast.Type, sc spirv.StorageClass, storage ast.BlockStorage) nodeData {
	return nodeData{
		baseID:   id,
		baseType: t,
		chain: accessChain{
			storageClass: sc,
			targetType:   t,
			blockStorage: storage,
			allLiteral:   true,
		},
	}
}

// resultType returns the final type of the chain, after the deferred
// tail.
func (n *nodeData) resultType() ast.Type {
	switch n.chain.tail.kind {
	case tailSwizzle:
		return ast.VectorType(n.chain.targetType.Basic, uint8(len(n.chain.tail.swizzles)))
	case tailDynamic:
		return n.chain.targetType.ComponentType()
	default:
		return n.chain.targetType
	}
}

// pushLiteralIndex appends a statically-known index. A pending
// swizzle is folded through: indexing component i of a swizzled
// vector selects the swizzle's i-th source component.
func (g *Generator) pushLiteralIndex(n *nodeData, index uint32, newType ast.Type) {
	if n.chain.tail.kind == tailDynamic {
		panic("gen: literal index on top of a dynamic component")
	}
	if n.chain.tail.kind == tailSwizzle {
		index = n.chain.tail.swizzles[index]
		n.chain.tail = chainTail{}
	}
	n.indices = append(n.indices, chainIndex{literal: index, isLiteral: true})
	n.chain.targetType = newType
	n.chain.chainID = 0
}

// pushDynamicIndex appends a runtime-computed index, marking the
// chain non-literal for the rest of its life.
func (g *Generator) pushDynamicIndex(n *nodeData, indexID uint32, newType ast.Type) {
	if n.chain.tail.kind != tailNone {
		panic("gen: dynamic index on top of a pending component selection")
	}
	n.indices = append(n.indices, chainIndex{id: indexID})
	n.chain.targetType = newType
	n.chain.allLiteral = false
	n.chain.chainID = 0
}

// pushSwizzle records a component selection on a vector. A single
// component folds into a literal index instead; consecutive swizzles
// compose.
func (g *Generator) pushSwizzle(n *nodeData, components []uint32) {
	if len(components) == 1 {
		g.pushLiteralIndex(n, components[0], n.chain.targetType.ComponentType())
		return
	}
	if n.chain.tail.kind == tailDynamic {
		panic("gen: swizzle on top of a dynamic component")
	}
	if n.chain.tail.kind == tailSwizzle {
		composed := make([]uint32, len(components))
		for i, c := range components {
			composed[i] = n.chain.tail.swizzles[c]
		}
		components = composed
	}
	n.chain.tail = chainTail{kind: tailSwizzle, swizzles: components}
}

// pushDynamicComponent records selection of a vector component by a
// runtime-computed index.
//
// A pending swizzle is folded algebraically: the swizzle's component
// numbers become a constant vector, the runtime index selects the
// real component number from that vector, and the result is the new
// dynamic index. For a value chain whose index path is still all
// literal the dynamic component is kept separate from the index list,
// which later allows a single extract followed by one dynamic select
// with no scratch variable. In every other case it degenerates to a
// regular dynamic index.
func (g *Generator) pushDynamicComponent(n *nodeData, indexID uint32) {
	if n.chain.tail.kind == tailSwizzle {
		uintType := g.b.TypeInt(32, false)
		vecType := g.b.TypeVector(uintType, uint32(len(n.chain.tail.swizzles)))
		elems := make([]uint32, len(n.chain.tail.swizzles))
		for i, c := range n.chain.tail.swizzles {
			elems[i] = g.b.ConstantUint(c)
		}
		table := g.b.ConstantComposite(vecType, elems...)
		indexID = g.b.WriteVectorExtractDynamic(uintType, table, indexID)
		n.chain.tail = chainTail{}
	}

	if n.isRValue() && n.chain.allLiteral {
		n.chain.tail = chainTail{kind: tailDynamic, dynamic: indexID}
		return
	}
	g.pushDynamicIndex(n, indexID, n.chain.targetType.ComponentType())
}

// indexIDs converts the index list to ids, interning constants for
// the literal entries.
func (g *Generator) indexIDs(n *nodeData) []uint32 {
	ids := make([]uint32, len(n.indices))
	for i, index := range n.indices {
		if index.isLiteral {
			ids[i] = g.b.ConstantUint(index.literal)
		} else {
			ids[i] = index.id
		}
	}
	return ids
}

// collapse resolves the chain to the address of the element its
// index list describes. The addressing instruction is emitted at most
// once per node; with no indices the address is baseID itself.
func (g *Generator) collapse(n *nodeData) uint32 {
	if n.isRValue() {
		panic("gen: collapse of a value chain")
	}
	if n.chain.chainID != 0 {
		return n.chain.chainID
	}
	if len(n.indices) == 0 {
		n.chain.chainID = n.baseID
		return n.baseID
	}
	ptrType := g.b.TypePointer(n.chain.storageClass, g.typeID(n.chain.targetType, n.chain.blockStorage))
	n.chain.chainID = g.b.WriteAccessChain(ptrType, n.baseID, g.indexIDs(n))
	return n.chain.chainID
}

// accessChainLoad resolves the chain to a value.
func (g *Generator) accessChainLoad(n *nodeData) uint32 {
	targetTypeID := g.typeID(n.chain.targetType, n.chain.blockStorage)

	var value uint32
	switch {
	case n.isRValue() && len(n.indices) == 0:
		value = n.baseID

	case n.isRValue() && n.chain.allLiteral:
		literals := make([]uint32, len(n.indices))
		for i, index := range n.indices {
			literals[i] = index.literal
		}
		value = g.b.WriteCompositeExtract(targetTypeID, n.baseID, literals)

	case n.isRValue():
		// A dynamic index into a computed value needs real storage.
		// Materialize the value into a scratch variable, re-target the
		// chain at it and fall through to the address case.
		ptrType := g.b.TypePointer(spirv.StorageClassFunction, g.typeID(n.baseType, ast.BlockStorageUnspecified))
		scratch := g.b.DeclareVariable(ptrType, 0)
		if g.cfg.Debug {
			g.b.AddName(scratch, "indexable")
		}
		g.b.WriteStore(scratch, n.baseID)
		n.baseID = scratch
		n.chain.storageClass = spirv.StorageClassFunction
		n.chain.blockStorage = ast.BlockStorageUnspecified
		n.chain.chainID = 0
		fallthrough

	default:
		pointer := g.collapse(n)
		value = g.b.WriteLoad(targetTypeID, pointer)
	}

	switch n.chain.tail.kind {
	case tailSwizzle:
		value = g.b.WriteVectorShuffle(g.typeID(n.resultType(), ast.BlockStorageUnspecified),
			value, value, n.chain.tail.swizzles)
	case tailDynamic:
		value = g.b.WriteVectorExtractDynamic(g.typeID(n.resultType(), ast.BlockStorageUnspecified),
			value, n.chain.tail.dynamic)
	}
	return value
}

// accessChainStore writes a value through the chain. Only valid on
// addresses. With a pending swizzle the full vector is read, the
// value's components are substituted at the swizzled positions, and
// the result is written back.
func (g *Generator) accessChainStore(n *nodeData, value uint32) {
	if n.isRValue() {
		panic("gen: store through a value chain")
	}
	if n.chain.tail.kind == tailDynamic {
		panic("gen: store through a deferred dynamic component")
	}
	pointer := g.collapse(n)

	if n.chain.tail.kind == tailSwizzle {
		vecType := n.chain.targetType
		vecTypeID := g.typeID(vecType, n.chain.blockStorage)
		original := g.b.WriteLoad(vecTypeID, pointer)

		// Identity permutation on the untouched components; swizzled
		// positions pull from the incoming value, whose components sit
		// after the original's in the shuffle operand pair.
		rows := uint32(vecType.Rows())
		remap := make([]uint32, rows)
		for i := range remap {
			remap[i] = uint32(i)
		}
		for i, component := range n.chain.tail.swizzles {
			remap[component] = rows + uint32(i)
		}
		value = g.b.WriteVectorShuffle(vecTypeID, original, value, remap)
	}

	g.b.WriteStore(pointer, value)
}

// String makes chain state readable in panic messages.
func (c accessChain) String() string {
	switch c.tail.kind {
	case tailSwizzle:
		return fmt.Sprintf("chain{sc=%d swizzle=%v}", c.storageClass, c.tail.swizzles)
	case tailDynamic:
		return fmt.Sprintf("chain{sc=%d dynamic=%%%d}", c.storageClass, c.tail.dynamic)
	default:
		return fmt.Sprintf("chain{sc=%d}", c.storageClass)
	}
}
