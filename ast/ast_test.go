package ast

import "testing"

func TestTypeShapes(t *testing.T) {
	float := ScalarType(BasicFloat)
	if !float.IsScalar() || float.IsVector() || float.IsMatrix() {
		t.Error("ScalarType(float) should be a scalar only")
	}

	vec3 := VectorType(BasicFloat, 3)
	if !vec3.IsVector() || vec3.Rows() != 3 || vec3.Cols() != 1 {
		t.Errorf("vec3 shape %dx%d, want 1x3", vec3.Cols(), vec3.Rows())
	}

	mat3x2 := MatrixType(3, 2)
	if !mat3x2.IsMatrix() || mat3x2.Cols() != 3 || mat3x2.Rows() != 2 {
		t.Errorf("mat3x2 shape %dx%d, want 3x2", mat3x2.Cols(), mat3x2.Rows())
	}
	if col := mat3x2.ColumnType(); !col.IsVector() || col.Rows() != 2 {
		t.Error("mat3x2 column should be a 2-vector")
	}

	arr := vec3
	arr.ArraySize = 4
	if !arr.IsArray() || arr.IsVector() {
		t.Error("Array of vec3 should be an array, not a vector")
	}
	if elem := arr.ElementType(); !elem.IsVector() || elem.Rows() != 3 {
		t.Error("Array element should be vec3")
	}
}

func TestObjectSize(t *testing.T) {
	inner := &StructDef{Name: "Inner", Fields: []Field{
		{Name: "a", Type: VectorType(BasicFloat, 2)},
		{Name: "b", Type: ScalarType(BasicInt)},
	}}
	outer := Type{Basic: BasicStruct, Struct: &StructDef{Name: "Outer", Fields: []Field{
		{Name: "in", Type: Type{Basic: BasicStruct, Struct: inner}},
		{Name: "m", Type: MatrixType(2, 2)},
	}}}
	// 2 + 1 inner components, 4 matrix components
	if got := outer.ObjectSize(); got != 7 {
		t.Errorf("ObjectSize = %d, want 7", got)
	}
}

func TestConstantCast(t *testing.T) {
	c, ok := FloatConst(2.75).Cast(BasicInt)
	if !ok || c.Int != 2 {
		t.Errorf("float 2.75 to int = %d (%v), want 2", c.Int, ok)
	}

	c, ok = IntConst(-1).Cast(BasicBool)
	if !ok || !c.Bool {
		t.Error("int -1 to bool should be true")
	}

	c, ok = BoolConst(true).Cast(BasicFloat)
	if !ok || c.Float != 1 {
		t.Errorf("bool true to float = %g, want 1", c.Float)
	}

	if same, ok := UIntConst(9).Cast(BasicUInt); !ok || same.UInt != 9 {
		t.Error("Identity cast should pass through")
	}
}

func TestSwizzleIsIdentity(t *testing.T) {
	v := &SymbolRef{T: VectorType(BasicFloat, 3)}

	identity := &SwizzleExpr{T: VectorType(BasicFloat, 3), Operand: v, Components: []uint32{0, 1, 2}}
	if !identity.IsIdentity() {
		t.Error("xyz on a vec3 should be an identity swizzle")
	}

	shuffled := &SwizzleExpr{T: VectorType(BasicFloat, 3), Operand: v, Components: []uint32{2, 1, 0}}
	if shuffled.IsIdentity() {
		t.Error("zyx should not be an identity swizzle")
	}

	truncated := &SwizzleExpr{T: VectorType(BasicFloat, 2), Operand: v, Components: []uint32{0, 1}}
	if truncated.IsIdentity() {
		t.Error("xy on a vec3 should not be an identity swizzle")
	}
}

func TestBlockEffectiveStorage(t *testing.T) {
	u := &BlockDef{Name: "U", Qual: QualUniform}
	if u.EffectiveStorage() != BlockStorageStd140 {
		t.Error("Uniform block should default to std140")
	}

	b := &BlockDef{Name: "B", Qual: QualBuffer}
	if b.EffectiveStorage() != BlockStorageStd430 {
		t.Error("Buffer block should default to std430")
	}

	explicit := &BlockDef{Name: "E", Qual: QualUniform, Storage: BlockStorageStd430}
	if explicit.EffectiveStorage() != BlockStorageStd430 {
		t.Error("Explicit layout should win over the default")
	}
}

func TestQualifierClassification(t *testing.T) {
	if !QualShaderIn.IsShaderIn() || !QualVertexID.IsShaderIn() {
		t.Error("Shader inputs and built-ins should classify as shader in")
	}
	if QualShaderOut.IsShaderIn() || !QualShaderOut.IsShaderOut() {
		t.Error("QualShaderOut misclassified")
	}
	if QualTemporary.IsShaderIn() || QualTemporary.IsShaderOut() {
		t.Error("QualTemporary should be neither in nor out")
	}
}

func TestBinaryOpClassification(t *testing.T) {
	if !BinaryAddAssign.IsAssignment() || BinaryAdd.IsAssignment() {
		t.Error("IsAssignment misclassifies add forms")
	}
	if !BinaryIndexDynamic.IsIndex() || BinaryAssign.IsIndex() {
		t.Error("IsIndex misclassifies")
	}
}
