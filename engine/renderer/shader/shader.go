package shader

import (
	_ "embed"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// StillLifeSource is the WGSL program used to render the still-life scene.
//
//go:embed assets/still_life.wgsl
var StillLifeSource string

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota

	// StageFragment is the fragment stage.
	StageFragment
)

const (
	// UniformGroup is the bind group holding the per-draw uniform struct.
	UniformGroup = 0

	// UniformBinding is the binding of the per-draw uniform struct within UniformGroup.
	UniformBinding = 0

	// TextureGroup is the bind group holding the draw's texture and sampler.
	TextureGroup = 1
)

// Uniform names shared by the camera, the state pusher and the renderer.
const (
	UniformView          = "view"
	UniformProjection    = "projection"
	UniformViewPosition  = "viewPosition"
	UniformObjectColor   = "objectColor"
	UniformObjectTexture = "objectTexture"
	UniformUVScale       = "UVscale"
	UniformUseTexture    = "bUseTexture"
)

// program is the implementation of the Program interface.
type program struct {
	label              string
	source             string
	vertexEntryPoint   string
	fragmentEntryPoint string
	vertexLayout       wgpu.VertexBufferLayout
	bindGroupLayouts   map[int]wgpu.BindGroupLayoutDescriptor
	uniformLayout      UniformLayout
}

// Program is a parsed render shader: one WGSL module holding a vertex and a fragment entry point,
// a vertex input struct and a per-draw uniform struct at UniformGroup/UniformBinding.
type Program interface {
	// Label returns the program's debug label.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Source returns the WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// EntryPoint returns the entry point function name for a stage.
	//
	// Parameters:
	//   - stage: the pipeline stage
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint(stage Stage) string

	// VertexLayout returns the vertex buffer layout derived from the vertex input struct.
	//
	// Returns:
	//   - wgpu.VertexBufferLayout: the layout
	VertexLayout() wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptor returns the parsed layout descriptor for a bind group index.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, empty if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// UniformLayout returns the flattened layout of the per-draw uniform struct.
	//
	// Returns:
	//   - UniformLayout: the layout
	UniformLayout() UniformLayout
}

var _ Program = &program{}

// NewProgram parses a WGSL render shader.
//
// Parameters:
//   - label: debug label used for GPU objects created from the program
//   - source: the WGSL source
//
// Returns:
//   - Program: the parsed program
//   - error: error if an entry point, the vertex input struct or the uniform struct is missing
func NewProgram(label, source string) (Program, error) {
	p := &program{
		label:              label,
		source:             source,
		vertexEntryPoint:   parseEntryPoint(source, StageVertex),
		fragmentEntryPoint: parseEntryPoint(source, StageFragment),
		bindGroupLayouts:   parseBindGroupLayouts(source, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment),
	}
	if p.vertexEntryPoint == "" || p.fragmentEntryPoint == "" {
		return nil, fmt.Errorf("shader %s: missing @vertex or @fragment entry point", label)
	}

	layout, ok := parseVertexLayout(source)
	if !ok {
		return nil, fmt.Errorf("shader %s: no vertex input struct", label)
	}
	p.vertexLayout = layout

	uniforms, err := ParseUniformLayout(source, UniformGroup, UniformBinding)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", label, err)
	}
	p.uniformLayout = uniforms

	return p, nil
}

func (p *program) Label() string {
	return p.label
}

func (p *program) Source() string {
	return p.source
}

func (p *program) EntryPoint(stage Stage) string {
	switch stage {
	case StageVertex:
		return p.vertexEntryPoint
	case StageFragment:
		return p.fragmentEntryPoint
	default:
		return ""
	}
}

func (p *program) VertexLayout() wgpu.VertexBufferLayout {
	return p.vertexLayout
}

func (p *program) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return p.bindGroupLayouts[group]
}

func (p *program) UniformLayout() UniformLayout {
	return p.uniformLayout
}
