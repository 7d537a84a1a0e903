package scene

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/stilllife/engine/camera"
	"github.com/Carmen-Shannon/stilllife/engine/light"
	"github.com/Carmen-Shannon/stilllife/engine/material"
	"github.com/Carmen-Shannon/stilllife/engine/mesh"
	"github.com/Carmen-Shannon/stilllife/engine/renderer/shader"
	"github.com/Carmen-Shannon/stilllife/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var (
	// ErrNotPrepared is returned by Render before Prepare has succeeded.
	ErrNotPrepared = errors.New("scene not prepared")

	// ErrAlreadyPrepared is returned by a second Prepare.
	ErrAlreadyPrepared = errors.New("scene already prepared")

	// ErrReleased is returned by any operation after Release.
	ErrReleased = errors.New("scene released")
)

// defaultUVScale is pushed at the start of every pass so a frame never sees the tiling left by the previous one.
var defaultUVScale = mgl32.Vec2{1, 1}

// scene is the implementation of the Scene interface.
type scene struct {
	uniforms shader.Uniforms
	device   texture.Device
	meshes   mesh.Library
	camera   camera.Camera
	logger   *zap.Logger

	statements      []DrawStatement
	materialDefs    []material.Material
	textureSources  []texture.Source
	lights          []light.Light
	decoder         texture.Decoder
	textureCapacity int
	decodeWorkers   int
	loadProgress    func(done, total int)

	textures  texture.Registry
	materials material.Registry
	pusher    StatePusher

	prepared bool
	released bool
}

// Scene is a fixed, ordered table of draw statements rendered once per frame.
// The lifecycle is Prepare once, Render any number of times, then Release.
type Scene interface {
	// Prepare defines the materials, registers and binds the textures, pushes the lights and loads
	// every mesh the statements draw. Textures that fail to load are logged and skipped.
	// A failed Prepare releases what it registered, so it can be called again.
	//
	// Returns:
	//   - error: ErrAlreadyPrepared or ErrReleased, an error wrapping texture.ErrCapacityExceeded,
	//     or any material, light, bind or mesh failure
	Prepare() error

	// Render pushes the camera, if any, and executes every statement in order.
	// A failed draw does not stop the pass.
	//
	// Returns:
	//   - error: ErrNotPrepared or ErrReleased, or the joined draw failures
	Render() error

	// Release frees the scene's textures and meshes. Calling it again does nothing.
	Release()

	// Statements returns the draw table.
	//
	// Returns:
	//   - []DrawStatement: a copy of the statements
	Statements() []DrawStatement

	// Camera returns the scene's camera, nil if it has none.
	Camera() camera.Camera

	// Textures returns the texture registry.
	Textures() texture.Registry

	// Materials returns the material registry.
	Materials() material.Registry

	// Stats returns the lookup misses seen while rendering.
	//
	// Returns:
	//   - StateStats: the miss counters
	Stats() StateStats
}

var _ Scene = &scene{}

// NewScene creates a Scene drawing the still-life unless configured otherwise.
// Nothing is loaded until Prepare.
//
// Parameters:
//   - u: the active shader uniforms
//   - device: uploads and binds textures
//   - meshes: uploads and draws the primitive shapes
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(u shader.Uniforms, device texture.Device, meshes mesh.Library, options ...SceneBuilderOption) Scene {
	s := &scene{
		uniforms:        u,
		device:          device,
		meshes:          meshes,
		logger:          zap.NewNop(),
		statements:      StillLife(),
		materialDefs:    StillLifeMaterials(),
		textureSources:  StillLifeTextures(DefaultTextureDir),
		lights:          light.StillLifeRig(),
		textureCapacity: texture.DefaultCapacity,
		decodeWorkers:   1,
	}
	for _, opt := range options {
		opt(s)
	}
	s.resetRegistries()
	return s
}

// resetRegistries builds empty texture and material registries and a pusher reading from them.
func (s *scene) resetRegistries() {
	registryOpts := []texture.RegistryBuilderOption{
		texture.WithCapacity(s.textureCapacity),
		texture.WithLogger(s.logger),
		texture.WithDecodeWorkers(s.decodeWorkers),
		texture.WithProgress(s.loadProgress),
	}
	if s.decoder != nil {
		registryOpts = append(registryOpts, texture.WithDecoder(s.decoder))
	}
	s.textures = texture.NewRegistry(s.device, registryOpts...)
	s.materials = material.NewRegistry()
	s.pusher = NewStatePusher(s.uniforms, s.textures, s.materials, WithStateLogger(s.logger))
}

func (s *scene) Prepare() error {
	if s.released {
		return ErrReleased
	}
	if s.prepared {
		return ErrAlreadyPrepared
	}

	if err := s.prepare(); err != nil {
		// Uploaded textures and defined materials are dropped so a retry starts clean.
		s.textures.ReleaseAll()
		s.resetRegistries()
		return err
	}

	s.prepared = true
	s.logger.Info("scene prepared",
		zap.Int("statements", len(s.statements)),
		zap.Int("textures", s.textures.Count()),
		zap.Int("materials", s.materials.Len()),
		zap.Int("lights", len(s.lights)),
	)
	return nil
}

func (s *scene) prepare() error {
	for _, m := range s.materialDefs {
		if err := s.materials.Define(m); err != nil {
			return fmt.Errorf("failed to define materials: %w", err)
		}
	}

	if err := s.textures.RegisterAll(s.textureSources); err != nil {
		if errors.Is(err, texture.ErrCapacityExceeded) {
			return fmt.Errorf("failed to register textures: %w", err)
		}
		s.logger.Warn("some textures failed to load, affected objects sample the fallback",
			zap.Error(err),
			zap.Int("loaded", s.textures.Count()),
			zap.Int("requested", len(s.textureSources)),
		)
	}
	if err := s.textures.BindAll(); err != nil {
		return fmt.Errorf("failed to bind textures: %w", err)
	}

	if err := light.Push(s.uniforms, s.lights); err != nil {
		return fmt.Errorf("failed to push lights: %w", err)
	}

	for _, k := range meshKinds(s.statements) {
		if err := s.meshes.Load(k); err != nil {
			return fmt.Errorf("failed to load %s mesh: %w", k, err)
		}
	}
	return nil
}

func (s *scene) Render() error {
	if s.released {
		return ErrReleased
	}
	if !s.prepared {
		return ErrNotPrepared
	}

	if s.camera != nil {
		s.camera.Push(s.uniforms)
	}
	s.pusher.SetUVScale(defaultUVScale)

	var errs []error
	for _, st := range s.statements {
		s.pusher.SetTransform(st.Scale, st.Rotation, st.Position)
		s.pusher.SetFlatColor(st.Color)
		if st.UVScale != (mgl32.Vec2{}) {
			s.pusher.SetUVScale(st.UVScale)
		}
		if st.Texture != "" {
			s.pusher.SetTexture(st.Texture)
		}
		if st.Material != "" {
			s.pusher.SetMaterial(st.Material)
		}
		if err := s.meshes.Draw(st.Mesh, st.Parts); err != nil {
			errs = append(errs, fmt.Errorf("failed to draw %s: %w", st.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (s *scene) Release() {
	if s.released {
		return
	}
	s.textures.ReleaseAll()
	s.meshes.Release()
	s.released = true
}

func (s *scene) Statements() []DrawStatement {
	out := make([]DrawStatement, len(s.statements))
	copy(out, s.statements)
	return out
}

func (s *scene) Camera() camera.Camera {
	return s.camera
}

func (s *scene) Textures() texture.Registry {
	return s.textures
}

func (s *scene) Materials() material.Registry {
	return s.materials
}

func (s *scene) Stats() StateStats {
	return s.pusher.Stats()
}
