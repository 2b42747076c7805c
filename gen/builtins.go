package gen

import (
	"fmt"

	"github.com/gogpu/glslspv/ast"
	"github.com/gogpu/glslspv/spirv"
)

// builtinInfo describes one implicitly declared shader input.
type builtinInfo struct {
	builtIn spirv.BuiltIn
	t       ast.Type
	name    string
}

func builtinFor(q ast.Qualifier) builtinInfo {
	switch q {
	case ast.QualVertexID:
		return builtinInfo{spirv.BuiltInVertexIndex, ast.ScalarType(ast.BasicInt), "gl_VertexIndex"}
	case ast.QualInstanceID:
		return builtinInfo{spirv.BuiltInInstanceIndex, ast.ScalarType(ast.BasicInt), "gl_InstanceIndex"}
	case ast.QualNumWorkGroups:
		return builtinInfo{spirv.BuiltInNumWorkgroups, ast.VectorType(ast.BasicUInt, 3), "gl_NumWorkGroups"}
	case ast.QualWorkGroupID:
		return builtinInfo{spirv.BuiltInWorkgroupId, ast.VectorType(ast.BasicUInt, 3), "gl_WorkGroupID"}
	case ast.QualLocalInvocationID:
		return builtinInfo{spirv.BuiltInLocalInvocationId, ast.VectorType(ast.BasicUInt, 3), "gl_LocalInvocationID"}
	case ast.QualGlobalInvocationID:
		return builtinInfo{spirv.BuiltInGlobalInvocationId, ast.VectorType(ast.BasicUInt, 3), "gl_GlobalInvocationID"}
	case ast.QualLocalInvocationIndex:
		return builtinInfo{spirv.BuiltInLocalInvocationIndex, ast.ScalarType(ast.BasicUInt), "gl_LocalInvocationIndex"}
	default:
		panic(fmt.Sprintf("gen: qualifier %d is not a built-in input", q))
	}
}

// builtinID declares the built-in input for the qualifier on first
// reference and returns its variable id.
func (g *Generator) builtinID(q ast.Qualifier) uint32 {
	if id, ok := g.builtinIDs[q]; ok {
		return id
	}
	info := builtinFor(q)
	ptrType := g.pointerTypeID(info.t, spirv.StorageClassInput, ast.BlockStorageUnspecified)
	id := g.b.GlobalVariable(ptrType, spirv.StorageClassInput, 0)
	g.b.AddDecorate(id, spirv.DecorationBuiltIn, uint32(info.builtIn))
	if g.cfg.Debug {
		g.b.AddName(id, info.name)
	}
	g.interfaces = append(g.interfaces, id)
	g.builtinIDs[q] = id
	return id
}
