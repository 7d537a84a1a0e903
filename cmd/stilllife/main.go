package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/stilllife/common"
	"github.com/Carmen-Shannon/stilllife/engine"
	"github.com/Carmen-Shannon/stilllife/engine/camera"
	"github.com/Carmen-Shannon/stilllife/engine/config"
	"github.com/Carmen-Shannon/stilllife/engine/logger"
	"github.com/Carmen-Shannon/stilllife/engine/renderer"
	"github.com/Carmen-Shannon/stilllife/engine/scene"
	"github.com/Carmen-Shannon/stilllife/engine/window"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

func init() {
	// GLFW and the WebGPU surface must stay on the main thread.
	runtime.LockOSThread()
}

type app struct {
	cfg config.Config
	log *zap.Logger
}

func (a *app) parseFlags() error {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	configPath := fs.String("config", "", "path to a YAML config file")
	textureDir := fs.String("textures", "", "directory holding the scene textures, overrides the config")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error), overrides the config")
	profile := fs.Bool("profile", false, "log frame and memory stats periodically")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	a.cfg = config.Default()
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	a.cfg.Assets.TextureDir = common.Coalesce(*textureDir, a.cfg.Assets.TextureDir)
	a.cfg.Logging.Level = common.Coalesce(*logLevel, a.cfg.Logging.Level)
	if *profile {
		a.cfg.Profiling.Enabled = true
	}
	return a.cfg.Validate()
}

func (a *app) run() error {
	if err := a.parseFlags(); err != nil {
		return err
	}

	l, err := logger.New(a.cfg.Logging.Level, a.cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer l.Sync()
	a.log = l

	presentMode, err := renderer.ParsePresentMode(a.cfg.Renderer.PresentMode)
	if err != nil {
		return err
	}
	msaa, err := renderer.ParseMSAA(a.cfg.Renderer.MSAA)
	if err != nil {
		return err
	}

	win, err := window.NewWindow(
		window.WithTitle(a.cfg.Window.Title),
		window.WithSize(a.cfg.Window.Width, a.cfg.Window.Height),
	)
	if err != nil {
		return fmt.Errorf("failed to open window: %w", err)
	}
	defer win.Close()

	r, err := renderer.NewRenderer(win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(a.cfg.Renderer.ForceSoftware),
		renderer.WithMaxDraws(a.cfg.Renderer.MaxDrawsPerFrame),
		renderer.WithTextureSlots(a.cfg.Renderer.MaxTextureSlots),
		renderer.WithLogger(l.Named("renderer")),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Release()

	cam := camera.NewCamera(
		camera.WithFovDegrees(45),
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
		camera.WithClipPlanes(0.1, 100),
		camera.WithController(camera.NewCameraController()),
	)

	sources := scene.StillLifeTextures(a.cfg.Assets.TextureDir)
	bar := progressbar.NewOptions(len(sources),
		progressbar.OptionSetDescription("loading textures"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Close()

	sc := scene.NewScene(r.Uniforms(), r.Textures(), r.Meshes(),
		scene.WithTextures(sources),
		scene.WithCamera(cam),
		scene.WithTextureCapacity(a.cfg.Renderer.MaxTextureSlots),
		scene.WithDecodeWorkers(a.cfg.Scene.DecodeWorkers),
		scene.WithLoadProgress(loadProgress(bar, l)),
		scene.WithLogger(l.Named("scene")),
	)

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithScene(sc),
		engine.WithLogger(l),
		engine.WithTickRate(60),
		engine.WithProfiling(a.cfg.Profiling.Enabled),
		engine.WithProfilerInterval(a.cfg.Profiling.Interval),
	)

	bindInput(win, eng, cam.Controller())

	l.Info("starting",
		zap.String("textures", a.cfg.Assets.TextureDir),
		zap.String("presentMode", a.cfg.Renderer.PresentMode),
		zap.Int("msaa", a.cfg.Renderer.MSAA),
	)
	fmt.Println("Camera: A/D or Left/Right=Orbit  Up/Down=Tilt  W/S=Pan  Q/E=Down/Up  Scroll=Zoom  Drag=Orbit  Esc=Quit")

	return eng.Run()
}

func main() {
	a := app{}

	if err := a.run(); err != nil {
		fmt.Fprintf(os.Stderr, "stilllife: %v\n", err)
		os.Exit(1)
	}
}

// progressSetter is the part of a progress bar the texture loader drives.
type progressSetter interface {
	Set(num int) error
}

// loadProgress moves bar to the number of textures loaded so far.
func loadProgress(bar progressSetter, l *zap.Logger) func(done, total int) {
	return func(done, _ int) {
		if err := bar.Set(done); err != nil {
			l.Debug("failed to update load progress", zap.Error(err), zap.Int("done", done))
		}
	}
}
