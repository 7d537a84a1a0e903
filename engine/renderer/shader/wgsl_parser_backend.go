package shader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/stilllife/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgslPrimitiveLayoutMap maps the WGSL scalar, vector and matrix types that may appear in a
// uniform buffer to their byte size and alignment.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslPrimitiveLayoutMap = map[string]wgslTypeLayout{
	"f32": {4, 4},
	"i32": {4, 4},
	"u32": {4, 4},

	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},

	"vec2<i32>": {8, 8},
	"vec2i":     {8, 8},
	"vec4<i32>": {16, 16},
	"vec4i":     {16, 16},
	"vec2<u32>": {8, 8},
	"vec2u":     {8, 8},
	"vec4<u32>": {16, 16},
	"vec4u":     {16, 16},

	"mat3x3<f32>": {48, 16},
	"mat3x3f":     {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

// wgslUniformKindMap maps the WGSL types the host can write by name to their UniformKind.
// Types present in wgslPrimitiveLayoutMap but absent here still occupy space in the layout
// but have no setter.
var wgslUniformKindMap = map[string]UniformKind{
	"f32":         UniformKindF32,
	"i32":         UniformKindI32,
	"u32":         UniformKindU32,
	"vec2<f32>":   UniformKindVec2,
	"vec2f":       UniformKindVec2,
	"vec3<f32>":   UniformKindVec3,
	"vec3f":       UniformKindVec3,
	"vec4<f32>":   UniformKindVec4,
	"vec4f":       UniformKindVec4,
	"mat4x4<f32>": UniformKindMat4,
	"mat4x4f":     UniformKindMat4,
}

// parseArrayType splits a fixed-size WGSL array type "array<T, N>" into its element type and count.
//
// Parameters:
//   - typeName: the WGSL type name
//
// Returns:
//   - string: the element type
//   - uint64: the element count
//   - bool: false if typeName is not a fixed-size array
func parseArrayType(typeName string) (string, uint64, bool) {
	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return "", 0, false
	}
	inner = inner[:len(inner)-1]

	elem, countStr, ok := strings.Cut(inner, ",")
	if !ok {
		return "", 0, false
	}
	count, err := strconv.ParseUint(strings.TrimSpace(countStr), 10, 64)
	if err != nil {
		return "", 0, false
	}
	return strings.TrimSpace(elem), count, true
}

// resolveTypeLayout resolves a WGSL type name to its size and alignment using primitives
// and previously-computed struct layouts. Handles fixed-size arrays (array<T, N>) and returns
// false for runtime-sized arrays, which cannot live in a uniform buffer, and unknown types.
//
// Parameters:
//   - typeName: the WGSL type name to resolve, e.g. "f32", "Material", "array<LightSource, 4>"
//   - knownTypes: a map of already-resolved type names to their layouts
//
// Returns:
//   - wgslTypeLayout: the resolved layout
//   - bool: true if the type could be resolved
func resolveTypeLayout(typeName string, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if layout, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return layout, true
	}
	if layout, ok := knownTypes[typeName]; ok {
		return layout, true
	}

	elemType, count, ok := parseArrayType(typeName)
	if !ok {
		return wgslTypeLayout{}, false
	}
	elemLayout, ok := resolveTypeLayout(elemType, knownTypes)
	if !ok {
		return wgslTypeLayout{}, false
	}
	stride := common.RoundUpAlign(elemLayout.align, elemLayout.size)
	return wgslTypeLayout{count * stride, elemLayout.align}, true
}

// computeStructLayout computes the byte size and alignment of a single WGSL struct using
// WGSL struct layout rules: each field is placed at the next aligned offset, and the total
// size is rounded up to the struct's alignment (max alignment of all fields).
// Fields with @builtin attributes are skipped as they are not part of any buffer layout.
//
// Parameters:
//   - ps: the parsed struct whose layout to compute
//   - knownTypes: a map of already-resolved type names to their layouts
//
// Returns:
//   - wgslTypeLayout: the computed layout
//   - bool: true if all fields could be resolved
func computeStructLayout(ps parsedStruct, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	offset := uint64(0)
	maxAlign := uint64(1)

	for _, field := range ps.fields {
		if field.isBuiltin {
			continue
		}
		fieldLayout, ok := resolveTypeLayout(field.typeName, knownTypes)
		if !ok {
			return wgslTypeLayout{}, false
		}
		offset = common.RoundUpAlign(fieldLayout.align, offset) + fieldLayout.size
		maxAlign = max(maxAlign, fieldLayout.align)
	}

	return wgslTypeLayout{common.RoundUpAlign(maxAlign, offset), maxAlign}, true
}

// computeStructSizes computes the byte size and alignment of all parsed WGSL structs.
// Structs that embed other structs are resolved iteratively until no further progress is made.
//
// Parameters:
//   - structs: all parsed struct blocks from the WGSL source
//
// Returns:
//   - map[string]wgslTypeLayout: a map from struct name to computed layout
func computeStructSizes(structs []parsedStruct) map[string]wgslTypeLayout {
	resolved := make(map[string]wgslTypeLayout, len(structs))
	remaining := make([]parsedStruct, len(structs))
	copy(remaining, structs)

	for len(remaining) > 0 {
		progress := false
		next := remaining[:0]
		for _, ps := range remaining {
			if layout, ok := computeStructLayout(ps, resolved); ok {
				resolved[ps.name] = layout
				progress = true
			} else {
				next = append(next, ps)
			}
		}
		remaining = next
		if !progress {
			break
		}
	}

	return resolved
}

// flattenUniformType walks a WGSL type rooted at base and appends one UniformField per
// writable leaf. Struct members are joined with "." and array elements with "[i]".
//
// Parameters:
//   - prefix: the name of the value being flattened (empty for the root struct)
//   - typeName: the WGSL type of the value
//   - base: the byte offset of the value within the buffer
//   - structs: parsed structs keyed by name
//   - sizes: resolved struct layouts keyed by name
//   - out: destination slice
//
// Returns:
//   - error: error if a type cannot be resolved
func flattenUniformType(prefix, typeName string, base uint64, structs map[string]parsedStruct, sizes map[string]wgslTypeLayout, out *[]UniformField) error {
	if kind, ok := wgslUniformKindMap[typeName]; ok {
		*out = append(*out, UniformField{Name: prefix, Offset: base, Kind: kind})
		return nil
	}
	if _, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		// laid out but not host-writable
		return nil
	}

	if ps, ok := structs[typeName]; ok {
		offset := uint64(0)
		for _, f := range ps.fields {
			layout, ok := resolveTypeLayout(f.typeName, sizes)
			if !ok {
				return fmt.Errorf("unresolved type %s for field %s.%s", f.typeName, typeName, f.name)
			}
			offset = common.RoundUpAlign(layout.align, offset)
			name := f.name
			if prefix != "" {
				name = prefix + "." + f.name
			}
			if err := flattenUniformType(name, f.typeName, base+offset, structs, sizes, out); err != nil {
				return err
			}
			offset += layout.size
		}
		return nil
	}

	if elemType, count, ok := parseArrayType(typeName); ok {
		elemLayout, ok := resolveTypeLayout(elemType, sizes)
		if !ok {
			return fmt.Errorf("unresolved array element type %s", elemType)
		}
		stride := common.RoundUpAlign(elemLayout.align, elemLayout.size)
		for i := uint64(0); i < count; i++ {
			name := prefix + "[" + strconv.FormatUint(i, 10) + "]"
			if err := flattenUniformType(name, elemType, base+i*stride, structs, sizes, out); err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf("unsupported uniform type %s", typeName)
}

// classifyResource creates a wgpu.BindGroupLayoutEntry from a parsed WGSL resource declaration.
// Only the resource kinds a forward render pipeline uses are recognised: uniform and storage
// buffers, 2D sampled textures and filtering samplers.
//
// Parameters:
//   - binding: the binding index from @binding(N)
//   - visibility: the shader stage visibility flag
//   - addressSpace: the address space qualifier (e.g. "uniform"), empty for handle types
//   - typeName: the WGSL type string (e.g. "Uniforms", "texture_2d<f32>", "sampler")
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: a populated layout entry for the resource
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}

	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case strings.HasPrefix(typeName, "texture_2d"):
		entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	}

	return entry
}

// stripComments removes both single-line (//) and block (/* */) comments from WGSL source.
//
// Parameters:
//   - source: raw WGSL source string
//
// Returns:
//   - string: source with all comments removed
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

// stripLineComments removes single-line // comments from WGSL source
func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes possibly nested block comments (/* ... */) from WGSL source
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}

// isVertexInputStruct returns true if the struct has at least one @location field and no
// @builtin fields, which separates vertex inputs from vertex outputs carrying @builtin(position).
func isVertexInputStruct(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

// buildVertexBufferLayout converts a parsed vertex input struct into a tightly packed
// wgpu.VertexBufferLayout. Returns false if any field has an unrecognized type.
//
// Parameters:
//   - ps: the parsed struct containing vertex input fields
//
// Returns:
//   - wgpu.VertexBufferLayout: the constructed vertex buffer layout
//   - bool: false if a field type could not be mapped to a vertex format
func buildVertexBufferLayout(ps parsedStruct) (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(ps.fields))
	var offset uint64

	for _, f := range ps.fields {
		info, ok := wgslVertexFormatMap[f.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         info.format,
			Offset:         offset,
			ShaderLocation: uint32(f.location),
		})
		offset += info.size
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, true
}

// splitAtTopLevelCommas splits a string at commas that are not nested inside angle brackets,
// so "array<LightSource, 4>" stays a single field type.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
