package gen

import (
	"fmt"

	"github.com/gogpu/glslspv/ast"
	"github.com/gogpu/glslspv/reflection"
	"github.com/gogpu/glslspv/spirv"
)

// storageClassFor maps a global qualifier to its storage class.
func storageClassFor(q ast.Qualifier) spirv.StorageClass {
	switch {
	case q.IsShaderIn():
		return spirv.StorageClassInput
	case q.IsShaderOut():
		return spirv.StorageClassOutput
	case q == ast.QualUniform:
		return spirv.StorageClassUniformConstant
	case q == ast.QualShared:
		return spirv.StorageClassWorkgroup
	default:
		return spirv.StorageClassPrivate
	}
}

// declareGlobal declares a module-scope variable. Constant globals
// bind to interned constants instead of variables. Non-constant
// initializers of true globals are dropped here; a front-end pass
// hoists them into main before generation.
func (g *Generator) declareGlobal(s *ast.DeclStmt) {
	v := s.Var

	if v.T.Qualifier == ast.QualConst {
		c, ok := s.Init.(*ast.ConstantExpr)
		if !ok {
			panic(fmt.Sprintf("gen: const global %q without a folded initializer", v.Name))
		}
		g.bind(v, g.constantID(c.T, c.Values))
		return
	}

	sc := storageClassFor(v.T.Qualifier)
	ptrType := g.pointerTypeID(v.T, sc, ast.BlockStorageUnspecified)

	var initID uint32
	if c, ok := s.Init.(*ast.ConstantExpr); ok {
		initID = g.constantID(c.T, c.Values)
	}
	id := g.b.GlobalVariable(ptrType, sc, initID)
	g.bind(v, id)
	if g.cfg.Debug {
		g.b.AddName(id, v.Name)
	}

	switch {
	case v.T.Qualifier == ast.QualShaderIn || v.T.Qualifier == ast.QualShaderOut:
		g.b.AddDecorate(id, spirv.DecorationLocation, v.T.Location)
		g.interfaces = append(g.interfaces, id)
		g.info.Varyings = append(g.info.Varyings, reflection.Varying{
			Name:     v.Name,
			Location: v.T.Location,
			Input:    v.T.Qualifier == ast.QualShaderIn,
		})

	case v.T.Qualifier == ast.QualUniform && v.T.Basic.IsOpaque():
		g.b.AddDecorate(id, spirv.DecorationDescriptorSet, 0)
		g.b.AddDecorate(id, spirv.DecorationBinding, v.Binding)
		kind := reflection.KindSampledImage
		if v.T.Basic == ast.BasicImage2D {
			kind = reflection.KindStorageImage
		}
		g.info.Resources = append(g.info.Resources, reflection.Resource{
			Name:    v.Name,
			Kind:    kind,
			Binding: v.Binding,
		})
	}
}

// declareBlock declares an interface block: the decorated struct type
// plus one variable in Uniform or StorageBuffer storage.
func (g *Generator) declareBlock(def *ast.BlockDef) {
	typeID := g.blockTypeID(def)

	sc := spirv.StorageClassUniform
	kind := reflection.KindUniformBuffer
	if def.Qual == ast.QualBuffer {
		sc = spirv.StorageClassStorageBuffer
		kind = reflection.KindStorageBuffer
	}

	ptrType := g.b.TypePointer(sc, typeID)
	id := g.b.GlobalVariable(ptrType, sc, 0)
	g.bind(def, id)

	g.b.AddDecorate(id, spirv.DecorationDescriptorSet, def.Set)
	g.b.AddDecorate(id, spirv.DecorationBinding, def.Binding)
	if g.cfg.Debug && def.Instance != "" {
		g.b.AddName(id, def.Instance)
	}

	g.info.Resources = append(g.info.Resources, reflection.Resource{
		Name:    def.Name,
		Kind:    kind,
		Set:     def.Set,
		Binding: def.Binding,
		Size:    blockSize(def),
	})
}
