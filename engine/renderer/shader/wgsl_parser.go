package shader

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslVertexFormatMap maps WGSL type names to their corresponding wgpu vertex format and byte size
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"i32":       {wgpu.VertexFormatSint32, 4},
}

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct field: optional attributes, name, colon, type.
	// The type capture is greedy to keep parameterized types like array<T, N> intact.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> u: Uniforms;
	// or handle types: @group(1) @binding(0) var objectTextureMap: texture_2d<f32>;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// bindingDecl is one @group/@binding resource declaration.
type bindingDecl struct {
	group        int
	binding      int
	addressSpace string
	varName      string
	typeName     string
}

// parseBindingDecls extracts every @group(N) @binding(M) declaration from comment-free source.
func parseBindingDecls(cleaned string) []bindingDecl {
	matches := bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1)
	decls := make([]bindingDecl, 0, len(matches))
	for _, match := range matches {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		decls = append(decls, bindingDecl{
			group:        group,
			binding:      binding,
			addressSpace: strings.TrimSpace(match[3]),
			varName:      strings.TrimSpace(match[4]),
			typeName:     strings.TrimSpace(match[5]),
		})
	}
	return decls
}

// parseVertexLayout returns the buffer layout of the first pure vertex input struct in the source.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - wgpu.VertexBufferLayout: the vertex buffer layout
//   - bool: false if the source declares no usable vertex input struct
func parseVertexLayout(source string) (wgpu.VertexBufferLayout, bool) {
	for _, ps := range parseStructBlocks(stripComments(source)) {
		if !isVertexInputStruct(ps) {
			continue
		}
		if layout, ok := buildVertexBufferLayout(ps); ok {
			return layout, true
		}
	}
	return wgpu.VertexBufferLayout{}, false
}

// parseBindGroupLayouts extracts all resource declarations from WGSL source and returns them
// as wgpu.BindGroupLayoutDescriptor values keyed by group index, entries sorted by binding.
// Buffer entries get their MinBindingSize from the bound struct's computed layout.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - visibility: the shader stage visibility flag to set on each entry
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: layout descriptors keyed by group index
func parseBindGroupLayouts(source string, visibility wgpu.ShaderStage) map[int]wgpu.BindGroupLayoutDescriptor {
	cleaned := stripComments(source)
	structSizes := computeStructSizes(parseStructBlocks(cleaned))

	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	for _, decl := range parseBindingDecls(cleaned) {
		entry := classifyResource(uint32(decl.binding), visibility, decl.addressSpace, decl.typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if layout, ok := resolveTypeLayout(decl.typeName, structSizes); ok && layout.size > 0 {
				entry.Buffer.MinBindingSize = layout.size
			}
		}
		groups[decl.group] = append(groups[decl.group], entry)
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return result
}

// parseEntryPoint extracts the entry point function name for the given stage.
// Returns an empty string if no matching entry point annotation is found.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - stage: StageVertex or StageFragment
//
// Returns:
//   - string: the entry point function name, or empty string if not found
func parseEntryPoint(source string, stage Stage) string {
	var re *regexp.Regexp
	switch stage {
	case StageVertex:
		re = vertexEntryRegex
	case StageFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}
	if match := re.FindStringSubmatch(stripComments(source)); match != nil {
		return match[1]
	}
	return ""
}

// ParseUniformLayout finds the var<uniform> declared at the given group and binding and flattens
// its struct type into individually addressable fields.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - group: the bind group index of the uniform
//   - binding: the binding index of the uniform
//
// Returns:
//   - UniformLayout: the flattened layout
//   - error: error if no uniform is declared there or its type cannot be laid out
func ParseUniformLayout(source string, group, binding int) (UniformLayout, error) {
	cleaned := stripComments(source)
	structs := parseStructBlocks(cleaned)
	sizes := computeStructSizes(structs)

	byName := make(map[string]parsedStruct, len(structs))
	for _, ps := range structs {
		byName[ps.name] = ps
	}

	for _, decl := range parseBindingDecls(cleaned) {
		if decl.group != group || decl.binding != binding {
			continue
		}
		if decl.addressSpace != "uniform" {
			return UniformLayout{}, fmt.Errorf("binding @group(%d) @binding(%d) %s is not a uniform", group, binding, decl.varName)
		}
		layout, ok := resolveTypeLayout(decl.typeName, sizes)
		if !ok {
			return UniformLayout{}, fmt.Errorf("cannot lay out uniform %s of type %s", decl.varName, decl.typeName)
		}

		var fields []UniformField
		if err := flattenUniformType("", decl.typeName, 0, byName, sizes, &fields); err != nil {
			return UniformLayout{}, fmt.Errorf("cannot flatten uniform %s: %w", decl.varName, err)
		}
		return newUniformLayout(decl.varName, decl.typeName, layout.size, fields), nil
	}

	return UniformLayout{}, fmt.Errorf("no uniform declared at @group(%d) @binding(%d)", group, binding)
}

// parseStructBlocks finds all struct { ... } blocks in the cleaned WGSL source
// and parses their fields including @location and @builtin attributes
//
// Parameters:
//   - source: WGSL source with comments already stripped
//
// Returns:
//   - []parsedStruct: all struct blocks found in the source
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}
	return structs
}

// parseStructFields parses the body of a struct block into individual fields
func parseStructFields(body string) []parsedField {
	lines := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field := parsedField{
			isBuiltin: builtinRegex.MatchString(line),
			location:  -1,
		}
		if locMatch := locationRegex.FindStringSubmatch(line); locMatch != nil {
			if loc, err := strconv.Atoi(locMatch[1]); err == nil {
				field.location = loc
			}
		}

		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		field.name = fm[1]
		field.typeName = strings.TrimSpace(fm[2])
		fields = append(fields, field)
	}

	return fields
}
