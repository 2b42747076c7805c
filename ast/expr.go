package ast

// Node is any element of the tree: an expression or a statement.
type Node interface {
	node()
}

// Expr is an expression node. Every expression knows its result type,
// derived by the front-end.
type Expr interface {
	Node
	Type() Type
}

// SymbolRef references a variable, or a field of a nameless interface
// block. For the latter, Var is nil, Block identifies the block and
// FieldIndex selects the field.
type SymbolRef struct {
	T          Type
	Var        *Variable
	Block      *BlockDef
	FieldIndex uint32
}

func (*SymbolRef) node() {}

// Type implements Expr.
func (e *SymbolRef) Type() Type { return e.T }

// Symbol returns the symbol this reference resolves to: the interface
// block if any, otherwise the variable.
func (e *SymbolRef) Symbol() Symbol {
	if e.Block != nil {
		return e.Block
	}
	return e.Var
}

// ConstantExpr is a folded constant. Values holds the scalar components
// flattened in declaration order (struct fields expanded recursively,
// matrices in column-major order).
type ConstantExpr struct {
	T      Type
	Values []Constant
}

func (*ConstantExpr) node() {}

// Type implements Expr.
func (e *ConstantExpr) Type() Type { return e.T }

// SwizzleExpr selects components of a vector operand.
type SwizzleExpr struct {
	T          Type
	Operand    Expr
	Components []uint32
}

func (*SwizzleExpr) node() {}

// Type implements Expr.
func (e *SwizzleExpr) Type() Type { return e.T }

// IsIdentity reports whether the swizzle selects all components of the
// operand in order, making it a no-op.
func (e *SwizzleExpr) IsIdentity() bool {
	if len(e.Components) != int(e.Operand.Type().Rows()) {
		return false
	}
	for i, c := range e.Components {
		if c != uint32(i) {
			return false
		}
	}
	return true
}

// BinaryOp enumerates binary operations, including the indexing and
// assignment forms the generator treats specially.
type BinaryOp uint8

const (
	// BinaryIndexDirect indexes an array, vector or matrix with a folded
	// constant index.
	BinaryIndexDirect BinaryOp = iota
	// BinaryIndexDirectStruct selects a struct field by index.
	BinaryIndexDirectStruct
	// BinaryIndexDirectBlock selects an interface block field by index.
	BinaryIndexDirectBlock
	// BinaryIndexDynamic indexes with a runtime-computed value.
	BinaryIndexDynamic

	BinaryAssign
	// BinaryInitialize is an assignment produced only as the child of a
	// declaration; the generator defers it to declaration handling.
	BinaryInitialize

	BinaryAdd
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryAddAssign
	BinarySubAssign
	BinaryMulAssign
	BinaryDivAssign
	BinaryModAssign

	BinaryVectorTimesScalar
	BinaryVectorTimesScalarAssign
	BinaryVectorTimesMatrix
	BinaryVectorTimesMatrixAssign
	BinaryMatrixTimesVector
	BinaryMatrixTimesScalar
	BinaryMatrixTimesScalarAssign
	BinaryMatrixTimesMatrix
	BinaryMatrixTimesMatrixAssign

	BinaryEqual
	BinaryNotEqual
	BinaryLess
	BinaryGreater
	BinaryLessEqual
	BinaryGreaterEqual

	BinaryLogicalAnd
	BinaryLogicalOr

	BinaryShiftLeft
	BinaryShiftLeftAssign
	BinaryShiftRight
	BinaryShiftRightAssign
	BinaryBitAnd
	BinaryBitAndAssign
	BinaryBitXor
	BinaryBitXorAssign
	BinaryBitOr
	BinaryBitOrAssign

	BinaryComma
)

// IsAssignment reports whether the operation stores into its left
// operand.
func (op BinaryOp) IsAssignment() bool {
	switch op {
	case BinaryAssign, BinaryAddAssign, BinarySubAssign, BinaryMulAssign,
		BinaryDivAssign, BinaryModAssign, BinaryVectorTimesScalarAssign,
		BinaryVectorTimesMatrixAssign, BinaryMatrixTimesScalarAssign,
		BinaryMatrixTimesMatrixAssign, BinaryShiftLeftAssign,
		BinaryShiftRightAssign, BinaryBitAndAssign, BinaryBitXorAssign,
		BinaryBitOrAssign:
		return true
	default:
		return false
	}
}

// IsIndex reports whether the operation is one of the indexing forms.
func (op BinaryOp) IsIndex() bool {
	switch op {
	case BinaryIndexDirect, BinaryIndexDirectStruct, BinaryIndexDirectBlock,
		BinaryIndexDynamic:
		return true
	default:
		return false
	}
}

// BinaryExpr combines two operands.
type BinaryExpr struct {
	T     Type
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) node() {}

// Type implements Expr.
func (e *BinaryExpr) Type() Type { return e.T }

// UnaryOp enumerates unary operations.
type UnaryOp uint8

const (
	UnaryNegate UnaryOp = iota
	UnaryLogicalNot
	UnaryBitNot
	UnaryPreIncrement
	UnaryPreDecrement
	UnaryPostIncrement
	UnaryPostDecrement
)

// UnaryExpr applies a unary operation to one operand.
type UnaryExpr struct {
	T       Type
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) node() {}

// Type implements Expr.
func (e *UnaryExpr) Type() Type { return e.T }

// TernaryExpr is the ?: operator.
type TernaryExpr struct {
	T     Type
	Cond  Expr
	True  Expr
	False Expr
}

func (*TernaryExpr) node() {}

// Type implements Expr.
func (e *TernaryExpr) Type() Type { return e.T }

// ConstructorExpr builds a value of type T from the argument values.
type ConstructorExpr struct {
	T    Type
	Args []Expr
}

func (*ConstructorExpr) node() {}

// Type implements Expr.
func (e *ConstructorExpr) Type() Type { return e.T }

// CallExpr calls a user-defined function resolved by the front-end.
type CallExpr struct {
	Fn   *Function
	Args []Expr
}

func (*CallExpr) node() {}

// Type implements Expr.
func (e *CallExpr) Type() Type { return e.Fn.Return }

// AtomicOp enumerates atomic built-in functions.
type AtomicOp uint8

const (
	AtomicAdd AtomicOp = iota
	AtomicMin
	AtomicMax
	AtomicAnd
	AtomicOr
	AtomicXor
	AtomicExchange
	AtomicCompSwap
)

// AtomicExpr calls an atomic built-in. The first argument is the memory
// operand and is resolved to an address, never loaded.
type AtomicExpr struct {
	T    Type
	Op   AtomicOp
	Args []Expr
}

func (*AtomicExpr) node() {}

// Type implements Expr.
func (e *AtomicExpr) Type() Type { return e.T }

// Statements.

// Block is a brace-delimited statement sequence. Expression statements
// appear directly as Expr nodes.
type Block struct {
	Stmts []Node
}

func (*Block) node() {}

// DeclStmt declares a single variable, optionally with an initializer.
// The front-end guarantees one declarator per declaration.
type DeclStmt struct {
	Var  *Variable
	Init Expr
}

func (*DeclStmt) node() {}

// BlockDecl declares an interface block at global scope.
type BlockDecl struct {
	Block *BlockDef
}

func (*BlockDecl) node() {}

// IfStmt is a conditional with optional branches. At least one branch is
// present.
type IfStmt struct {
	Cond Expr
	Then *Block
	Else *Block
}

func (*IfStmt) node() {}

// ReturnStmt returns from the current function, with a value unless the
// function returns void.
type ReturnStmt struct {
	Value Expr
}

func (*ReturnStmt) node() {}

// DiscardStmt is the fragment discard statement.
type DiscardStmt struct{}

func (*DiscardStmt) node() {}

// BreakStmt exits the innermost loop or switch.
type BreakStmt struct{}

func (*BreakStmt) node() {}

// ContinueStmt continues the innermost loop.
type ContinueStmt struct{}

func (*ContinueStmt) node() {}

// LoopStmt is a while/for loop. Lowering it is not implemented.
type LoopStmt struct {
	Cond Expr
	Body *Block
}

func (*LoopStmt) node() {}

// SwitchStmt is a switch statement. Lowering it is not implemented.
type SwitchStmt struct {
	Value Expr
	Body  *Block
}

func (*SwitchStmt) node() {}

// FunctionDef defines a function.
type FunctionDef struct {
	Fn   *Function
	Body *Block
}

func (*FunctionDef) node() {}

// Root is the translation unit: global declarations and function
// definitions in source order.
type Root struct {
	Decls []Node
}

func (*Root) node() {}
