package gen

import (
	"testing"

	"github.com/gogpu/glslspv/ast"
	"github.com/gogpu/glslspv/reflection"
	"github.com/gogpu/glslspv/spirv"
)

func uintT() ast.Type { return ast.ScalarType(ast.BasicUInt) }

func uintConst(v uint32) *ast.ConstantExpr {
	return &ast.ConstantExpr{T: uintT(), Values: []ast.Constant{ast.UIntConst(v)}}
}

func fieldRef(def *ast.BlockDef, index uint32, t ast.Type) *ast.SymbolRef {
	return &ast.SymbolRef{T: t, Block: def, FieldIndex: index}
}

// constantValues maps result id to value word for every OpConstant.
func constantValues(module *spirv.Module) map[uint32]uint32 {
	values := make(map[uint32]uint32)
	for _, inst := range module.Instructions {
		if inst.Opcode == spirv.OpConstant {
			values[inst.Words[1]] = inst.Words[2]
		}
	}
	return values
}

func TestUniformBlockLayout(t *testing.T) {
	def := &ast.BlockDef{
		Name: "Params",
		Fields: []ast.Field{
			{Name: "a", Type: vec3T()},
			{Name: "b", Type: floatT()},
			{Name: "m", Type: ast.MatrixType(4, 4)},
		},
		Qual: ast.QualUniform,
		Set:  1, Binding: 2,
	}
	o := &ast.Variable{Name: "o", T: located(floatT(), ast.QualShaderOut, 0)}

	g := New(Config{Stage: StageVertex})
	words, info, err := g.Generate(&ast.Root{Decls: []ast.Node{
		&ast.BlockDecl{Block: def},
		&ast.DeclStmt{Var: o},
		mainDef(assign(ref(o), fieldRef(def, 1, floatT()))),
	}})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := spirv.Validate(words); err != nil {
		t.Fatalf("Generated module is invalid: %v", err)
	}
	module := parse(t, words)

	// std140: vec3 at 0, float packs into its padding at 12, mat4 at
	// 16 with 16-byte column stride.
	wantOffsets := map[uint32]uint32{0: 0, 1: 12, 2: 16}
	var sawColMajor, sawMatrixStride bool
	for _, inst := range ops(module, spirv.OpMemberDecorate) {
		member := inst.Words[1]
		switch spirv.Decoration(inst.Words[2]) {
		case spirv.DecorationOffset:
			if want, ok := wantOffsets[member]; !ok || inst.Words[3] != want {
				t.Errorf("Member %d offset %d, want %d", member, inst.Words[3], want)
			}
			delete(wantOffsets, member)
		case spirv.DecorationColMajor:
			if member != 2 {
				t.Errorf("ColMajor on member %d, want 2", member)
			}
			sawColMajor = true
		case spirv.DecorationMatrixStride:
			if member != 2 || inst.Words[3] != 16 {
				t.Errorf("MatrixStride %d on member %d, want 16 on 2", inst.Words[3], member)
			}
			sawMatrixStride = true
		}
	}
	if len(wantOffsets) != 0 {
		t.Errorf("Missing Offset decorations for members %v", wantOffsets)
	}
	if !sawColMajor || !sawMatrixStride {
		t.Error("Matrix member missing ColMajor or MatrixStride")
	}

	var sawBlock, sawSet, sawBinding bool
	for _, inst := range ops(module, spirv.OpDecorate) {
		switch spirv.Decoration(inst.Words[1]) {
		case spirv.DecorationBlock:
			sawBlock = true
		case spirv.DecorationDescriptorSet:
			sawSet = inst.Words[2] == 1
		case spirv.DecorationBinding:
			sawBinding = inst.Words[2] == 2
		}
	}
	if !sawBlock {
		t.Error("Block struct missing Block decoration")
	}
	if !sawSet || !sawBinding {
		t.Error("Block variable missing DescriptorSet/Binding decorations")
	}

	r := (&reflection.Info{Resources: info.Resources}).Resource("Params")
	if r == nil {
		t.Fatal("Params missing from reflection")
	}
	if r.Kind != reflection.KindUniformBuffer {
		t.Errorf("Kind %q, want uniform-buffer", r.Kind)
	}
	if r.Size != 80 {
		t.Errorf("Size %d, want 80", r.Size)
	}
	if r.Set != 1 || r.Binding != 2 {
		t.Errorf("Set/binding %d/%d, want 1/2", r.Set, r.Binding)
	}
}

func TestArrayStrideByBlockStorage(t *testing.T) {
	arr := ast.Type{Basic: ast.BasicFloat, Components: 1, Columns: 1, ArraySize: 4}
	uniform := &ast.BlockDef{
		Name:   "U",
		Fields: []ast.Field{{Name: "arr", Type: arr}},
		Qual:   ast.QualUniform,
	}
	buffer := &ast.BlockDef{
		Name:    "B",
		Fields:  []ast.Field{{Name: "arr", Type: arr}},
		Qual:    ast.QualBuffer,
		Binding: 1,
	}
	o := &ast.Variable{Name: "o", T: located(floatT(), ast.QualShaderOut, 0)}

	data := compile(t, StageVertex,
		&ast.BlockDecl{Block: uniform},
		&ast.BlockDecl{Block: buffer},
		&ast.DeclStmt{Var: o},
		mainDef(assign(ref(o), &ast.BinaryExpr{
			T:     floatT(),
			Op:    ast.BinaryIndexDirect,
			Left:  fieldRef(uniform, 0, arr),
			Right: intIndex(0),
		})),
	)
	module := parse(t, data)

	strides := make(map[uint32]bool)
	for _, inst := range ops(module, spirv.OpDecorate) {
		if spirv.Decoration(inst.Words[1]) == spirv.DecorationArrayStride {
			strides[inst.Words[2]] = true
		}
	}
	// std140 rounds the float stride to 16, std430 keeps 4.
	if !strides[16] {
		t.Error("Missing std140 ArrayStride 16")
	}
	if !strides[4] {
		t.Error("Missing std430 ArrayStride 4")
	}
}

func TestNamedBlockInstanceAccess(t *testing.T) {
	def := &ast.BlockDef{
		Name:     "Camera",
		Instance: "cam",
		Fields: []ast.Field{
			{Name: "mvp", Type: ast.MatrixType(4, 4)},
			{Name: "exposure", Type: floatT()},
		},
		Qual: ast.QualUniform,
	}
	o := &ast.Variable{Name: "o", T: located(floatT(), ast.QualShaderOut, 0)}

	blockRef := &ast.SymbolRef{T: ast.Type{Basic: ast.BasicBlock, Block: def}, Block: def}
	data := compile(t, StageVertex,
		&ast.BlockDecl{Block: def},
		&ast.DeclStmt{Var: o},
		mainDef(assign(ref(o), &ast.BinaryExpr{
			T:     floatT(),
			Op:    ast.BinaryIndexDirectBlock,
			Left:  blockRef,
			Right: intIndex(1),
		})),
	)
	module := parse(t, data)

	chains := ops(module, spirv.OpAccessChain)
	if len(chains) != 1 {
		t.Fatalf("Got %d OpAccessChain, want 1", len(chains))
	}
	// One index selecting member 1.
	if got := len(chains[0].Words) - 3; got != 1 {
		t.Fatalf("Access chain has %d indices, want 1", got)
	}
	values := constantValues(module)
	if values[chains[0].Words[3]] != 1 {
		t.Errorf("Access chain index selects member %d, want 1", values[chains[0].Words[3]])
	}
}

func counterBlock() *ast.BlockDef {
	return &ast.BlockDef{
		Name:   "Counters",
		Fields: []ast.Field{{Name: "next", Type: uintT()}},
		Qual:   ast.QualBuffer,
	}
}

func TestAtomicAdd(t *testing.T) {
	def := counterBlock()
	result := localVar("id", uintT())

	data := compile(t, StageCompute,
		&ast.BlockDecl{Block: def},
		mainDef(&ast.DeclStmt{Var: result, Init: &ast.AtomicExpr{
			T:    uintT(),
			Op:   ast.AtomicAdd,
			Args: []ast.Expr{fieldRef(def, 0, uintT()), uintConst(1)},
		}}),
	)
	module := parse(t, data)

	atomics := ops(module, spirv.OpAtomicIAdd)
	if len(atomics) != 1 {
		t.Fatalf("Got %d OpAtomicIAdd, want 1", len(atomics))
	}
	values := constantValues(module)
	words := atomics[0].Words
	// type, result, pointer, scope, semantics, value
	if len(words) != 6 {
		t.Fatalf("OpAtomicIAdd has %d words, want 6", len(words))
	}
	if values[words[3]] != uint32(spirv.ScopeDevice) {
		t.Errorf("Scope constant %d, want Device (1)", values[words[3]])
	}
	if values[words[4]] != 0 {
		t.Errorf("Semantics constant %d, want None (0)", values[words[4]])
	}
	if values[words[5]] != 1 {
		t.Errorf("Operand constant %d, want 1", values[words[5]])
	}

	// The memory operand is addressed, never loaded.
	if n := len(ops(module, spirv.OpLoad)); n != 0 {
		t.Errorf("Got %d OpLoad, want 0 (atomic operand must not be loaded)", n)
	}
}

func TestAtomicCompSwapOperandOrder(t *testing.T) {
	def := counterBlock()
	result := localVar("prev", uintT())

	data := compile(t, StageCompute,
		&ast.BlockDecl{Block: def},
		mainDef(&ast.DeclStmt{Var: result, Init: &ast.AtomicExpr{
			T:  uintT(),
			Op: ast.AtomicCompSwap,
			// atomicCompSwap(mem, compare, value)
			Args: []ast.Expr{fieldRef(def, 0, uintT()), uintConst(5), uintConst(7)},
		}}),
	)
	module := parse(t, data)

	swaps := ops(module, spirv.OpAtomicCompareExchange)
	if len(swaps) != 1 {
		t.Fatalf("Got %d OpAtomicCompareExchange, want 1", len(swaps))
	}
	words := swaps[0].Words
	// type, result, pointer, scope, semEqual, semUnequal, value, comparator
	if len(words) != 8 {
		t.Fatalf("OpAtomicCompareExchange has %d words, want 8", len(words))
	}
	values := constantValues(module)
	if values[words[6]] != 7 {
		t.Errorf("Value operand %d, want 7", values[words[6]])
	}
	if values[words[7]] != 5 {
		t.Errorf("Comparator operand %d, want 5", values[words[7]])
	}
}

func TestAtomicSignedMinMax(t *testing.T) {
	def := &ast.BlockDef{
		Name:   "Stats",
		Fields: []ast.Field{{Name: "low", Type: intT()}},
		Qual:   ast.QualBuffer,
	}
	result := localVar("prev", intT())

	data := compile(t, StageCompute,
		&ast.BlockDecl{Block: def},
		mainDef(&ast.DeclStmt{Var: result, Init: &ast.AtomicExpr{
			T:    intT(),
			Op:   ast.AtomicMin,
			Args: []ast.Expr{fieldRef(def, 0, intT()), intIndex(3)},
		}}),
	)
	module := parse(t, data)

	if n := len(ops(module, spirv.OpAtomicSMin)); n != 1 {
		t.Errorf("Got %d OpAtomicSMin, want 1 for a signed operand", n)
	}
	if n := len(ops(module, spirv.OpAtomicUMin)); n != 0 {
		t.Errorf("Got %d OpAtomicUMin, want 0 for a signed operand", n)
	}
}

func TestVaryingReflection(t *testing.T) {
	v := &ast.Variable{Name: "uv", T: located(vec2T(), ast.QualShaderIn, 3)}
	o := &ast.Variable{Name: "color", T: located(vec4T(), ast.QualShaderOut, 0)}

	g := New(Config{Stage: StageFragment})
	_, info, err := g.Generate(&ast.Root{Decls: []ast.Node{
		&ast.DeclStmt{Var: v},
		&ast.DeclStmt{Var: o},
		mainDef(assign(ref(o), &ast.ConstructorExpr{
			T: vec4T(),
			Args: []ast.Expr{
				&ast.SwizzleExpr{T: vec2T(), Operand: ref(v), Components: []uint32{0, 1}},
				floatConst(0), floatConst(1),
			},
		})),
	}})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(info.Varyings) != 2 {
		t.Fatalf("Got %d varyings, want 2", len(info.Varyings))
	}
	for _, varying := range info.Varyings {
		switch varying.Name {
		case "uv":
			if !varying.Input || varying.Location != 3 {
				t.Errorf("uv: input=%v location=%d, want input at 3", varying.Input, varying.Location)
			}
		case "color":
			if varying.Input || varying.Location != 0 {
				t.Errorf("color: input=%v location=%d, want output at 0", varying.Input, varying.Location)
			}
		default:
			t.Errorf("Unexpected varying %q", varying.Name)
		}
	}
	if info.Stage != "fragment" || info.EntryPoint != "main" {
		t.Errorf("Stage %q entry %q, want fragment/main", info.Stage, info.EntryPoint)
	}
}
