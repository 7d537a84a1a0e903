package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout holds the byte size and alignment for a WGSL type per the WGSL specification.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}

// UniformKind is the host-visible type of a single flattened uniform field.
type UniformKind int

const (
	// UniformKindF32 is a WGSL f32.
	UniformKindF32 UniformKind = iota

	// UniformKindI32 is a WGSL i32. Sampler slots are stored in i32 fields.
	UniformKindI32

	// UniformKindU32 is a WGSL u32. Booleans are stored in u32 fields as 0 or 1.
	UniformKindU32

	// UniformKindVec2 is a WGSL vec2<f32>.
	UniformKindVec2

	// UniformKindVec3 is a WGSL vec3<f32>.
	UniformKindVec3

	// UniformKindVec4 is a WGSL vec4<f32>.
	UniformKindVec4

	// UniformKindMat4 is a WGSL mat4x4<f32>.
	UniformKindMat4
)

// String returns the WGSL spelling of the kind.
func (k UniformKind) String() string {
	switch k {
	case UniformKindF32:
		return "f32"
	case UniformKindI32:
		return "i32"
	case UniformKindU32:
		return "u32"
	case UniformKindVec2:
		return "vec2<f32>"
	case UniformKindVec3:
		return "vec3<f32>"
	case UniformKindVec4:
		return "vec4<f32>"
	case UniformKindMat4:
		return "mat4x4<f32>"
	default:
		return "unknown"
	}
}

// UniformField is one leaf of a flattened uniform struct, addressed by its dotted or indexed name
// such as "model", "material.shininess" or "lightSources[1].position".
type UniformField struct {
	Name   string
	Offset uint64
	Kind   UniformKind
}
