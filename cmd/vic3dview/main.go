package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/simvicus/vic3d"
	"github.com/simvicus/vic3d/view3d/gpu"
	"github.com/simvicus/vic3d/view3d/nav"
	"github.com/simvicus/vic3d/view3d/project/fixture"
	"github.com/simvicus/vic3d/view3d/undo"
)

func init() {
	runtime.LockOSThread()
}

type viewer struct {
	window   *glfw.Window
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	config   *wgpu.SurfaceConfiguration
	renderer *gpu.Renderer

	scene  *vic3d.Scene
	stack  *undo.Stack
	input  *vic3d.GlfwInput
	root   *vic3d.DefaultLogger
	log    vic3d.Logger
	gpuLog vic3d.Logger
	debug  bool

	statsTime float64
}

func main() {
	configPath := flag.String("config", "", "TOML view configuration")
	debug := flag.Bool("debug", false, "Enable debug logging and profiler output")
	flag.Parse()

	log := vic3d.NewDefaultLogger("vic3dview", *debug)

	cfg := vic3d.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = vic3d.LoadConfig(*configPath)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
	}
	cfg.Debug = cfg.Debug || *debug

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(1280, 720, "SIM-VICUS 3D", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	if cfg.View.DevicePixelRatio == 0 {
		fw, _ := window.GetFramebufferSize()
		ww, _ := window.GetSize()
		if ww > 0 {
			cfg.View.DevicePixelRatio = float64(fw) / float64(ww)
		}
	}

	v := &viewer{window: window, root: log, log: log, gpuLog: log.Named("gpu"), debug: cfg.Debug}
	if err := v.init(cfg); err != nil {
		log.Errorf("init: %v", err)
		os.Exit(1)
	}
	defer v.renderer.Release()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		v.resize(width, height)
	})

	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now

		in := v.input.Poll()
		v.shortcuts(in)
		v.scene.Tick(in, dt)
		v.render()
		v.stats(now)
	}
}

func (v *viewer) init(cfg vic3d.Config) error {
	instance := wgpu.CreateInstance(nil)
	v.surface = instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(v.window))

	var err error
	v.adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: v.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return err
	}
	v.device, err = v.adapter.RequestDevice(nil)
	if err != nil {
		return err
	}

	width, height := v.window.GetFramebufferSize()
	caps := v.surface.GetCapabilities(v.adapter)
	v.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	v.surface.Configure(v.adapter, v.device, v.config)

	v.renderer, err = gpu.NewRenderer(v.device, v.config.Format, v.config.Width, v.config.Height)
	if err != nil {
		return err
	}

	p := fixture.Sample()
	v.stack = undo.NewStack(p)
	v.scene = vic3d.NewScene(p, cfg, v.stack, v.root.Named("scene"))
	v.input = vic3d.NewGlfwInput(v.window)
	v.scene.Warper = v.input

	v.scene.Events.Subscribe(func(e vic3d.Event) {
		switch e.Kind {
		case vic3d.BuffersRegenerated:
			v.upload()
		case vic3d.InputRejected:
			v.log.Warnf("%v", e.Err)
		case vic3d.VerticesPlaced:
			v.log.Infof("placed %d vertices", len(e.Vertices))
		case vic3d.MeasurementDone:
			v.log.Infof("distance %.3f m", e.Distance)
		}
	})
	v.upload()
	v.uploadGrid()
	return nil
}

func (v *viewer) upload() {
	g := v.scene.Generator
	if err := v.renderer.Upload(&g.Building, &g.Network); err != nil {
		v.log.Errorf("upload buffers: %v", err)
	}
}

func (v *viewer) uploadGrid() {
	var lines []gpu.LineVertex
	for i, g := range v.scene.Ctx.Config.GridPlanes() {
		lines = append(lines, gpu.GridLines(g, v.scene.Ctx.Config.GridColor(i))...)
	}
	if err := v.renderer.Grid.Upload(lines); err != nil {
		v.log.Errorf("upload grid: %v", err)
	}
}

func (v *viewer) resize(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	v.config.Width, v.config.Height = uint32(width), uint32(height)
	v.surface.Configure(v.adapter, v.device, v.config)
	if err := v.renderer.Resize(v.config.Width, v.config.Height); err != nil {
		v.log.Errorf("resize: %v", err)
	}
}

var standardViews = map[int]nav.StandardView{
	vic3d.KeyF1: nav.ViewTop,
	vic3d.KeyF2: nav.ViewBottom,
	vic3d.KeyF3: nav.ViewNorth,
	vic3d.KeyF4: nav.ViewSouth,
	vic3d.KeyF5: nav.ViewEast,
	vic3d.KeyF6: nav.ViewWest,
}

// shortcuts handles the keys a host window owns: undo, color modes and the
// operation buttons of a toolbar.
func (v *viewer) shortcuts(in *vic3d.Input) {
	s := v.scene
	if s.Ctx.Nav != vic3d.NavNone {
		return
	}
	var err error
	switch {
	case in.Control() && in.JustPressed[vic3d.KeyZ]:
		v.history(v.stack.Undo)
	case in.Control() && in.JustPressed[vic3d.KeyY]:
		v.history(v.stack.Redo)
	case in.JustPressed[vic3d.KeyC]:
		s.SetColorMode(s.Generator.Mode.Next())
		v.log.Infof("color mode %s", s.Generator.Mode)
	case in.JustPressed[vic3d.KeyV]:
		err = s.BeginVertexPlacement()
	case in.JustPressed[vic3d.KeyM]:
		err = s.BeginMeasuring()
	case in.JustPressed[vic3d.KeyG]:
		err = s.BeginMovingGizmo()
	case in.JustPressed[vic3d.KeyL]:
		err = s.BeginAligningGizmo()
	case in.JustPressed[vic3d.KeyK]:
		err = s.BeginThreePointRotation()
	}
	for key, view := range standardViews {
		if in.JustPressed[key] {
			err = s.SetStandardView(view)
		}
	}
	if err != nil {
		v.log.Warnf("%v", err)
	}
}

func (v *viewer) history(step func() (undo.Command, error)) {
	cmd, err := step()
	if err != nil {
		v.log.Warnf("%v", err)
		return
	}
	v.scene.Notify(cmd.Changes())
}

func (v *viewer) render() {
	s := v.scene
	v.renderer.SetCamera(s.Ctx.Camera)
	var lines []gpu.LineVertex
	if s.GizmoVisible() {
		lines = gpu.GizmoLines(s.Ctx.Gizmo, s.Ctx.AxisLock)
	}
	if err := v.renderer.Gizmo.Upload(lines); err != nil {
		v.log.Errorf("upload gizmo: %v", err)
	}

	next, err := v.surface.GetCurrentTexture()
	if err != nil {
		v.gpuLog.Errorf("surface texture: %v", err)
		return
	}
	defer next.Release()
	view, err := next.CreateView(nil)
	if err != nil {
		v.gpuLog.Errorf("texture view: %v", err)
		return
	}
	defer view.Release()

	if err := v.renderer.Render(view, s.Ctx.Config.BackgroundColor()); err != nil {
		v.gpuLog.Errorf("%v", err)
		return
	}
	v.surface.Present()
}

func (v *viewer) stats(now float64) {
	if !v.debug || now-v.statsTime < 1 {
		return
	}
	v.statsTime = now
	v.log.Debugf("\n%s", v.scene.Profiler.StatsString())
	v.scene.Profiler.Reset()
}
