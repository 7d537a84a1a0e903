package shader

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// UniformBlock is a CPU-side copy of one uniform buffer. Writes land in a byte slice laid out
// exactly as the WGSL struct, ready to be copied into a GPU buffer.
type UniformBlock interface {
	Uniforms

	// Layout returns the layout the block was built from.
	//
	// Returns:
	//   - UniformLayout: the flattened layout
	Layout() UniformLayout

	// Bytes returns the current contents. The slice aliases the block and is only valid until the next write.
	//
	// Returns:
	//   - []byte: the raw uniform data
	Bytes() []byte

	// Mat4 reads a matrix field.
	//
	// Parameters:
	//   - name: the field name
	//
	// Returns:
	//   - mgl32.Mat4: the value
	//   - bool: false if the field is missing or not a mat4
	Mat4(name string) (mgl32.Mat4, bool)

	// Vec2 reads a vec2 field.
	Vec2(name string) (mgl32.Vec2, bool)

	// Vec3 reads a vec3 field.
	Vec3(name string) (mgl32.Vec3, bool)

	// Vec4 reads a vec4 field.
	Vec4(name string) (mgl32.Vec4, bool)

	// Float reads an f32 field.
	Float(name string) (float32, bool)

	// Int reads an i32 or u32 field as a signed integer.
	Int(name string) (int32, bool)

	// Bool reads a u32 or i32 field as a boolean.
	Bool(name string) (bool, bool)

	// Misses returns how many writes were dropped because the name was unknown or the type did not match.
	//
	// Returns:
	//   - int: the dropped write count
	Misses() int

	// Reset zeroes every field.
	Reset()
}

// uniformBlock is the implementation of the UniformBlock interface.
type uniformBlock struct {
	layout UniformLayout
	data   []byte
	logger *zap.Logger

	misses int
	warned map[string]struct{}
}

var _ UniformBlock = &uniformBlock{}

// NewUniformBlock creates a zeroed UniformBlock for the given layout.
//
// Parameters:
//   - layout: the flattened layout, usually from ParseUniformLayout
//   - options: functional options to configure the block
//
// Returns:
//   - UniformBlock: the new block
func NewUniformBlock(layout UniformLayout, options ...UniformBlockBuilderOption) UniformBlock {
	b := &uniformBlock{
		layout: layout,
		data:   make([]byte, layout.Size()),
		logger: zap.NewNop(),
		warned: make(map[string]struct{}),
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *uniformBlock) SetMat4(name string, m mgl32.Mat4) {
	if f, ok := b.writable(name, UniformKindMat4); ok {
		b.putFloats(f.Offset, m[:])
	}
}

func (b *uniformBlock) SetVec2(name string, v mgl32.Vec2) {
	if f, ok := b.writable(name, UniformKindVec2); ok {
		b.putFloats(f.Offset, v[:])
	}
}

func (b *uniformBlock) SetVec3(name string, v mgl32.Vec3) {
	if f, ok := b.writable(name, UniformKindVec3); ok {
		b.putFloats(f.Offset, v[:])
	}
}

func (b *uniformBlock) SetVec4(name string, v mgl32.Vec4) {
	if f, ok := b.writable(name, UniformKindVec4); ok {
		b.putFloats(f.Offset, v[:])
	}
}

func (b *uniformBlock) SetFloat(name string, v float32) {
	if f, ok := b.writable(name, UniformKindF32); ok {
		b.putFloats(f.Offset, []float32{v})
	}
}

func (b *uniformBlock) SetInt(name string, i int32) {
	if f, ok := b.writable(name, UniformKindI32, UniformKindU32); ok {
		binary.LittleEndian.PutUint32(b.data[f.Offset:], uint32(i))
	}
}

func (b *uniformBlock) SetBool(name string, v bool) {
	if f, ok := b.writable(name, UniformKindU32, UniformKindI32); ok {
		var u uint32
		if v {
			u = 1
		}
		binary.LittleEndian.PutUint32(b.data[f.Offset:], u)
	}
}

func (b *uniformBlock) SetSampler2D(name string, slot int32) {
	if f, ok := b.writable(name, UniformKindI32); ok {
		binary.LittleEndian.PutUint32(b.data[f.Offset:], uint32(slot))
	}
}

func (b *uniformBlock) Layout() UniformLayout {
	return b.layout
}

func (b *uniformBlock) Bytes() []byte {
	return b.data
}

func (b *uniformBlock) Mat4(name string) (mgl32.Mat4, bool) {
	var m mgl32.Mat4
	f, ok := b.readable(name, UniformKindMat4)
	if ok {
		b.getFloats(f.Offset, m[:])
	}
	return m, ok
}

func (b *uniformBlock) Vec2(name string) (mgl32.Vec2, bool) {
	var v mgl32.Vec2
	f, ok := b.readable(name, UniformKindVec2)
	if ok {
		b.getFloats(f.Offset, v[:])
	}
	return v, ok
}

func (b *uniformBlock) Vec3(name string) (mgl32.Vec3, bool) {
	var v mgl32.Vec3
	f, ok := b.readable(name, UniformKindVec3)
	if ok {
		b.getFloats(f.Offset, v[:])
	}
	return v, ok
}

func (b *uniformBlock) Vec4(name string) (mgl32.Vec4, bool) {
	var v mgl32.Vec4
	f, ok := b.readable(name, UniformKindVec4)
	if ok {
		b.getFloats(f.Offset, v[:])
	}
	return v, ok
}

func (b *uniformBlock) Float(name string) (float32, bool) {
	var v [1]float32
	f, ok := b.readable(name, UniformKindF32)
	if ok {
		b.getFloats(f.Offset, v[:])
	}
	return v[0], ok
}

func (b *uniformBlock) Int(name string) (int32, bool) {
	f, ok := b.readable(name, UniformKindI32, UniformKindU32)
	if !ok {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(b.data[f.Offset:])), true
}

func (b *uniformBlock) Bool(name string) (bool, bool) {
	f, ok := b.readable(name, UniformKindU32, UniformKindI32)
	if !ok {
		return false, false
	}
	return binary.LittleEndian.Uint32(b.data[f.Offset:]) != 0, true
}

func (b *uniformBlock) Misses() int {
	return b.misses
}

func (b *uniformBlock) Reset() {
	clear(b.data)
}

// writable resolves a field for a write, counting and logging the miss once per name otherwise.
func (b *uniformBlock) writable(name string, kinds ...UniformKind) (UniformField, bool) {
	f, ok := b.layout.Field(name)
	if ok && slices.Contains(kinds, f.Kind) {
		return f, true
	}

	b.misses++
	if _, seen := b.warned[name]; !seen {
		b.warned[name] = struct{}{}
		if ok {
			b.logger.Warn("uniform type mismatch, write dropped",
				zap.String("uniform", name),
				zap.Stringer("declared", f.Kind),
				zap.Stringer("written", kinds[0]))
		} else {
			b.logger.Warn("unknown uniform, write dropped",
				zap.String("uniform", name),
				zap.String("struct", b.layout.TypeName()))
		}
	}
	return UniformField{}, false
}

func (b *uniformBlock) readable(name string, kinds ...UniformKind) (UniformField, bool) {
	f, ok := b.layout.Field(name)
	if !ok || !slices.Contains(kinds, f.Kind) {
		return UniformField{}, false
	}
	return f, true
}

func (b *uniformBlock) putFloats(offset uint64, values []float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(b.data[offset+uint64(i)*4:], math.Float32bits(v))
	}
}

func (b *uniformBlock) getFloats(offset uint64, out []float32) {
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b.data[offset+uint64(i)*4:]))
	}
}
