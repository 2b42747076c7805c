package gen

import (
	"errors"
	"fmt"

	"github.com/gogpu/glslspv/ast"
	"github.com/gogpu/glslspv/reflection"
	"github.com/gogpu/glslspv/spirv"
)

// ErrUnsupported marks constructs the generator does not lower yet:
// loops, switches, ternaries, increment and decrement, and discard.
var ErrUnsupported = errors.New("construct not supported")

func unsupported(what string) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, what)
}

// Stage is the shader stage being compiled.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
	StageCompute
)

// ExecutionModel returns the SPIR-V execution model of the stage.
func (s Stage) ExecutionModel() spirv.ExecutionModel {
	switch s {
	case StageVertex:
		return spirv.ExecutionModelVertex
	case StageFragment:
		return spirv.ExecutionModelFragment
	case StageCompute:
		return spirv.ExecutionModelGLCompute
	default:
		panic(fmt.Sprintf("gen: unknown stage %d", s))
	}
}

// String returns the lowercase stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return "unknown"
	}
}

// Config controls code generation.
type Config struct {
	Stage   Stage
	Version spirv.Version

	// Debug emits OpName/OpMemberName instructions.
	Debug bool

	// Workgroup is the compute local size; zero components default
	// to 1.
	Workgroup [3]uint32
}

// Generator lowers one translation unit to a SPIR-V module in a
// single depth-first walk.
type Generator struct {
	b   *spirv.ModuleBuilder
	cfg Config

	// symbols binds each declared symbol to its module-level id.
	// Bindings are inserted exactly once; rebinding or resolving an
	// unbound symbol is a front-end contract violation.
	symbols map[ast.Symbol]uint32

	// functionIDs are pre-allocated so calls can reference functions
	// defined later in the unit.
	functionIDs map[*ast.Function]uint32

	// builtinIDs lazily declares built-in inputs on first reference.
	builtinIDs map[ast.Qualifier]uint32

	// interfaces collects the ids listed on OpEntryPoint.
	interfaces []uint32

	entryID uint32

	info reflection.Info
}

// New creates a generator.
func New(cfg Config) *Generator {
	if cfg.Version.Word() == 0 {
		cfg.Version = spirv.Version1_3
	}
	return &Generator{
		b:           spirv.NewModuleBuilder(cfg.Version),
		cfg:         cfg,
		symbols:     make(map[ast.Symbol]uint32),
		functionIDs: make(map[*ast.Function]uint32),
		builtinIDs:  make(map[ast.Qualifier]uint32),
	}
}

// bind records the id of a symbol. Each symbol is bound exactly once.
func (g *Generator) bind(sym ast.Symbol, id uint32) {
	if _, ok := g.symbols[sym]; ok {
		panic(fmt.Sprintf("gen: symbol %q bound twice", sym.SymbolName()))
	}
	g.symbols[sym] = id
}

// lookup resolves a previously bound symbol.
func (g *Generator) lookup(sym ast.Symbol) uint32 {
	id, ok := g.symbols[sym]
	if !ok {
		panic(fmt.Sprintf("gen: reference to undeclared symbol %q", sym.SymbolName()))
	}
	return id
}

// Generate lowers the translation unit and returns the serialized
// module along with its reflection record.
func (g *Generator) Generate(root *ast.Root) ([]byte, *reflection.Info, error) {
	g.b.AddCapability(spirv.CapabilityShader)
	g.b.AddExtInstImport("GLSL.std.450")
	g.b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	g.info.Stage = g.cfg.Stage.String()
	g.info.EntryPoint = "main"

	for _, decl := range root.Decls {
		if def, ok := decl.(*ast.FunctionDef); ok {
			id := g.b.AllocID()
			g.functionIDs[def.Fn] = id
			g.bind(def.Fn, id)
		}
	}

	for _, decl := range root.Decls {
		switch d := decl.(type) {
		case *ast.BlockDecl:
			g.declareBlock(d.Block)
		case *ast.DeclStmt:
			g.declareGlobal(d)
		case *ast.FunctionDef:
			if err := g.genFunction(d); err != nil {
				return nil, nil, fmt.Errorf("function %s: %w", d.Fn.Name, err)
			}
		default:
			panic(fmt.Sprintf("gen: unexpected declaration %T", decl))
		}
	}

	if g.entryID == 0 {
		return nil, nil, errors.New("no main function")
	}
	g.b.AddEntryPoint(g.cfg.Stage.ExecutionModel(), g.entryID, "main", g.interfaces)
	switch g.cfg.Stage {
	case StageFragment:
		g.b.AddExecutionMode(g.entryID, spirv.ExecutionModeOriginUpperLeft)
	case StageCompute:
		wg := g.cfg.Workgroup
		for i := range wg {
			if wg[i] == 0 {
				wg[i] = 1
			}
		}
		g.info.Workgroup = wg
		g.b.AddExecutionMode(g.entryID, spirv.ExecutionModeLocalSize, wg[0], wg[1], wg[2])
	}

	return g.b.Build(), &g.info, nil
}

// paramTypeID returns the SPIR-V type a parameter is passed as:
// opaque uniforms travel as UniformConstant pointers, read-only
// parameters by value, everything else as Function-storage pointers.
func (g *Generator) paramTypeID(p *ast.Variable) uint32 {
	switch {
	case p.T.Basic.IsOpaque():
		return g.pointerTypeID(p.T, spirv.StorageClassUniformConstant, ast.BlockStorageUnspecified)
	case p.T.Qualifier == ast.QualParamConst:
		return g.typeID(p.T, ast.BlockStorageUnspecified)
	default:
		return g.pointerTypeID(p.T, spirv.StorageClassFunction, ast.BlockStorageUnspecified)
	}
}

func (g *Generator) genFunction(def *ast.FunctionDef) error {
	fn := def.Fn
	returnTypeID := g.typeID(fn.Return, ast.BlockStorageUnspecified)
	paramTypes := make([]uint32, len(fn.Params))
	for i, p := range fn.Params {
		paramTypes[i] = g.paramTypeID(p)
	}
	funcType := g.b.TypeFunction(returnTypeID, paramTypes...)

	id := g.functionIDs[fn]
	g.b.StartFunction(id, returnTypeID, funcType, spirv.FunctionControlNone)
	if g.cfg.Debug {
		g.b.AddName(id, fn.Name)
	}
	for i, p := range fn.Params {
		paramID := g.b.AddParameter(paramTypes[i])
		g.bind(p, paramID)
		if g.cfg.Debug {
			g.b.AddName(paramID, p.Name)
		}
	}

	if err := g.genBlock(def.Body); err != nil {
		return err
	}

	if !g.b.IsCurrentBlockTerminated() {
		if fn.Return.Basic == ast.BasicVoid {
			g.b.WriteReturn()
		} else {
			// Non-void control flow falling off the end; the source is
			// required to return on every path.
			g.b.WriteUnreachable()
		}
	}
	g.b.EndFunction()

	if fn.IsMain() {
		g.entryID = id
	}
	return nil
}

func (g *Generator) genBlock(block *ast.Block) error {
	for _, stmt := range block.Stmts {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
		if g.b.IsCurrentBlockTerminated() {
			break
		}
	}
	return nil
}

//nolint:gocognit,cyclop
func (g *Generator) genStmt(stmt ast.Node) error {
	switch s := stmt.(type) {
	case *ast.Block:
		return g.genBlock(s)

	case *ast.DeclStmt:
		return g.genLocalDecl(s)

	case ast.Expr:
		_, err := g.genExpr(s)
		return err

	case *ast.IfStmt:
		return g.genIf(s)

	case *ast.ReturnStmt:
		if s.Value == nil {
			g.b.WriteReturn()
			return nil
		}
		value, err := g.genExprValue(s.Value)
		if err != nil {
			return err
		}
		g.b.WriteReturnValue(value)
		return nil

	case *ast.DiscardStmt:
		return unsupported("discard")
	case *ast.BreakStmt:
		return unsupported("break")
	case *ast.ContinueStmt:
		return unsupported("continue")
	case *ast.LoopStmt:
		return unsupported("loop")
	case *ast.SwitchStmt:
		return unsupported("switch")

	default:
		panic(fmt.Sprintf("gen: unexpected statement %T", stmt))
	}
}

// genLocalDecl declares a function-scope variable. Constant
// initializers ride on OpVariable directly; computed ones become an
// explicit store.
func (g *Generator) genLocalDecl(s *ast.DeclStmt) error {
	ptrType := g.pointerTypeID(s.Var.T, spirv.StorageClassFunction, ast.BlockStorageUnspecified)

	if c, ok := s.Init.(*ast.ConstantExpr); ok {
		id := g.b.DeclareVariable(ptrType, g.constantID(c.T, c.Values))
		g.bind(s.Var, id)
		if g.cfg.Debug {
			g.b.AddName(id, s.Var.Name)
		}
		return nil
	}

	id := g.b.DeclareVariable(ptrType, 0)
	g.bind(s.Var, id)
	if g.cfg.Debug {
		g.b.AddName(id, s.Var.Name)
	}
	if s.Init != nil {
		value, err := g.genExprValue(s.Init)
		if err != nil {
			return err
		}
		g.b.WriteStore(id, value)
	}
	return nil
}

// genIf lowers a conditional to a structured selection: condition in
// the current block, one block per present branch, and a merge block
// every branch ends in.
func (g *Generator) genIf(s *ast.IfStmt) error {
	cond, err := g.genExprValue(s.Cond)
	if err != nil {
		return err
	}

	blockCount := 1 // merge
	if s.Then != nil {
		blockCount++
	}
	if s.Else != nil {
		blockCount++
	}
	labels := g.b.StartConditional(blockCount)
	merge := labels[len(labels)-1]

	trueTarget, falseTarget := merge, merge
	next := 0
	if s.Then != nil {
		trueTarget = labels[next]
		next++
	}
	if s.Else != nil {
		falseTarget = labels[next]
	}

	g.b.WriteSelectionMerge(merge, spirv.SelectionControlNone)
	g.b.WriteBranchConditional(cond, trueTarget, falseTarget)

	for _, branch := range []*ast.Block{s.Then, s.Else} {
		if branch == nil {
			continue
		}
		g.b.NextConditionalBlock()
		if err := g.genBlock(branch); err != nil {
			return err
		}
		if !g.b.IsCurrentBlockTerminated() {
			g.b.WriteBranch(merge)
		}
	}

	g.b.NextConditionalBlock()
	g.b.EndConditional()
	return nil
}
