package scene

import (
	"github.com/Carmen-Shannon/stilllife/engine/camera"
	"github.com/Carmen-Shannon/stilllife/engine/light"
	"github.com/Carmen-Shannon/stilllife/engine/material"
	"github.com/Carmen-Shannon/stilllife/engine/texture"
	"go.uber.org/zap"
)

// SceneBuilderOption is a functional option for configuring a Scene.
type SceneBuilderOption func(*scene)

// WithStatements replaces the draw table.
//
// Parameters:
//   - statements: the statements in draw order
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithStatements(statements []DrawStatement) SceneBuilderOption {
	return func(s *scene) {
		s.statements = statements
	}
}

// WithMaterials replaces the materials defined by Prepare.
//
// Parameters:
//   - materials: the materials in definition order
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaterials(materials []material.Material) SceneBuilderOption {
	return func(s *scene) {
		s.materialDefs = materials
	}
}

// WithTextures replaces the textures registered by Prepare. Slot order follows the slice.
//
// Parameters:
//   - sources: the texture files and their tags
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTextures(sources []texture.Source) SceneBuilderOption {
	return func(s *scene) {
		s.textureSources = sources
	}
}

// WithLights replaces the lights pushed by Prepare. An empty slice renders unlit.
func WithLights(lights []light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lights = lights
	}
}

// WithCamera sets the camera pushed at the start of every Render.
func WithCamera(c camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.camera = c
	}
}

// WithLogger sets the logger shared by the scene, its texture registry and its state pusher.
//
// Parameters:
//   - l: the logger (nil keeps the no-op default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(l *zap.Logger) SceneBuilderOption {
	return func(s *scene) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDecoder replaces the image decoder used when registering textures.
func WithDecoder(d texture.Decoder) SceneBuilderOption {
	return func(s *scene) {
		s.decoder = d
	}
}

// WithTextureCapacity sets the number of texture slots.
func WithTextureCapacity(n int) SceneBuilderOption {
	return func(s *scene) {
		if n > 0 {
			s.textureCapacity = n
		}
	}
}

// WithDecodeWorkers sets how many images are decoded in parallel during Prepare.
//
// Parameters:
//   - n: the worker count, 1 or less decodes sequentially
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithDecodeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.decodeWorkers = n
	}
}

// WithLoadProgress sets a callback invoked after each texture is registered.
//
// Parameters:
//   - fn: receives the number of textures processed and the total
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLoadProgress(fn func(done, total int)) SceneBuilderOption {
	return func(s *scene) {
		s.loadProgress = fn
	}
}
