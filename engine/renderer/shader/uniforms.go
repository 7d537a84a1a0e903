package shader

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Uniforms is the name-addressed write surface of a shader program.
// Setters never fail: writes to unknown names or with the wrong type are dropped,
// logged and counted by the implementation.
type Uniforms interface {
	// SetMat4 writes a 4x4 matrix uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//   - m: the column-major matrix
	SetMat4(name string, m mgl32.Mat4)

	// SetVec2 writes a 2-component vector uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//   - v: the vector
	SetVec2(name string, v mgl32.Vec2)

	// SetVec3 writes a 3-component vector uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//   - v: the vector
	SetVec3(name string, v mgl32.Vec3)

	// SetVec4 writes a 4-component vector uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//   - v: the vector
	SetVec4(name string, v mgl32.Vec4)

	// SetFloat writes a scalar float uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//   - f: the value
	SetFloat(name string, f float32)

	// SetInt writes a scalar integer uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//   - i: the value
	SetInt(name string, i int32)

	// SetBool writes a boolean uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//   - b: the value
	SetBool(name string, b bool)

	// SetSampler2D points a sampler uniform at a texture slot. A negative slot means no texture.
	//
	// Parameters:
	//   - name: the uniform name
	//   - slot: the texture slot index
	SetSampler2D(name string, slot int32)
}

// UniformLayout is the flattened byte layout of one uniform buffer binding.
type UniformLayout struct {
	varName  string
	typeName string
	size     uint64
	fields   map[string]UniformField
}

func newUniformLayout(varName, typeName string, size uint64, fields []UniformField) UniformLayout {
	l := UniformLayout{
		varName:  varName,
		typeName: typeName,
		size:     size,
		fields:   make(map[string]UniformField, len(fields)),
	}
	for _, f := range fields {
		l.fields[f.Name] = f
	}
	return l
}

// VarName returns the WGSL variable name of the uniform binding.
func (l UniformLayout) VarName() string {
	return l.varName
}

// TypeName returns the WGSL struct type of the uniform binding.
func (l UniformLayout) TypeName() string {
	return l.typeName
}

// Size returns the byte size of the uniform struct.
func (l UniformLayout) Size() uint64 {
	return l.size
}

// Field looks up a flattened field by name.
//
// Parameters:
//   - name: the dotted or indexed field name
//
// Returns:
//   - UniformField: the field
//   - bool: false if the layout has no such field
func (l UniformLayout) Field(name string) (UniformField, bool) {
	f, ok := l.fields[name]
	return f, ok
}

// Fields returns every flattened field ordered by byte offset.
//
// Returns:
//   - []UniformField: the fields
func (l UniformLayout) Fields() []UniformField {
	out := make([]UniformField, 0, len(l.fields))
	for _, f := range l.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Offset < out[j].Offset
	})
	return out
}
