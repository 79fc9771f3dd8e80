package gpu

import (
	"fmt"
	"image/color"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/simvicus/vic3d/view3d/buffers"
	"github.com/simvicus/vic3d/view3d/core"
)

const DepthFormat = wgpu.TextureFormatDepth32Float

// Renderer draws the building and network buffers, the grid and the gizmo
// into a surface texture.
type Renderer struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue
	Format wgpu.TextureFormat

	OpaquePipeline      *wgpu.RenderPipeline
	TransparentPipeline *wgpu.RenderPipeline
	LinePipeline        *wgpu.RenderPipeline

	CameraBuf *wgpu.Buffer
	CameraBG  *wgpu.BindGroup
	DepthTex  *wgpu.Texture
	DepthView *wgpu.TextureView
	Width     uint32
	Height    uint32

	Building *BufferSet
	Network  *BufferSet
	Grid     *LineSet
	Gizmo    *LineSet
}

var alphaBlend = &wgpu.BlendState{
	Color: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
	Alpha: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
}

func depthState(write bool) *wgpu.DepthStencilState {
	keep := wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}
	return &wgpu.DepthStencilState{
		Format:            DepthFormat,
		DepthWriteEnabled: write,
		DepthCompare:      wgpu.CompareFunctionLessEqual,
		StencilFront:      keep,
		StencilBack:       keep,
	}
}

// NewRenderer creates the pipelines for the given surface format and size.
func NewRenderer(device *wgpu.Device, format wgpu.TextureFormat, width, height uint32) (*Renderer, error) {
	r := &Renderer{
		Device:   device,
		Queue:    device.GetQueue(),
		Format:   format,
		Building: NewBufferSet(device, "Building"),
		Network:  NewBufferSet(device, "Network"),
		Grid:     &LineSet{Device: device, Label: "Grid"},
		Gizmo:    &LineSet{Device: device, Label: "Gizmo"},
	}

	sceneMod, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Scene VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: SceneWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("scene shader: %w", err)
	}
	lineMod, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Lines VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: LinesWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}

	// group 0: camera uniform, shared by every pipeline
	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "CameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: CameraSize,
			},
		}},
	})
	if err != nil {
		return nil, err
	}
	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}

	scenePipeline := func(label string, blend *wgpu.BlendState, depthWrite bool) (*wgpu.RenderPipeline, error) {
		return device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  label,
			Layout: layout,
			Vertex: wgpu.VertexState{
				Module:     sceneMod,
				EntryPoint: "vs_main",
				Buffers:    []wgpu.VertexBufferLayout{SceneVertexLayout()},
			},
			Fragment: &wgpu.FragmentState{
				Module:     sceneMod,
				EntryPoint: "fs_main",
				Targets: []wgpu.ColorTargetState{{
					Format:    format,
					Blend:     blend,
					WriteMask: wgpu.ColorWriteMaskAll,
				}},
			},
			Primitive: wgpu.PrimitiveState{
				Topology:  wgpu.PrimitiveTopologyTriangleList,
				FrontFace: wgpu.FrontFaceCCW,
				CullMode:  wgpu.CullModeNone,
			},
			DepthStencil: depthState(depthWrite),
			Multisample: wgpu.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		})
	}

	if r.OpaquePipeline, err = scenePipeline("Opaque Pipeline", nil, true); err != nil {
		return nil, err
	}
	if r.TransparentPipeline, err = scenePipeline("Transparent Pipeline", alphaBlend, false); err != nil {
		return nil, err
	}
	r.LinePipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Line Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     lineMod,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{LineVertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     lineMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				Blend:     alphaBlend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyLineList,
			CullMode: wgpu.CullModeNone,
		},
		DepthStencil: depthState(false),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	r.CameraBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera UB",
		Size:  CameraSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	r.CameraBG, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  bgl,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: r.CameraBuf, Size: wgpu.WholeSize}},
	})
	if err != nil {
		return nil, err
	}

	if err := r.Resize(width, height); err != nil {
		return nil, err
	}
	return r, nil
}

// Resize recreates the depth texture. A zero size (minimized window) keeps
// the old one.
func (r *Renderer) Resize(width, height uint32) error {
	if width == 0 || height == 0 || (width == r.Width && height == r.Height) {
		return nil
	}
	if r.DepthView != nil {
		r.DepthView.Release()
		r.DepthTex.Release()
	}
	var err error
	r.DepthTex, err = r.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Tex",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	r.DepthView, err = r.DepthTex.CreateView(nil)
	if err != nil {
		return err
	}
	r.Width, r.Height = width, height
	return nil
}

// Upload copies freshly generated scene buffers.
func (r *Renderer) Upload(building, network *buffers.Buffers) error {
	if _, err := r.Building.Upload(building); err != nil {
		return err
	}
	_, err := r.Network.Upload(network)
	return err
}

func (r *Renderer) SetCamera(cam *core.Camera) {
	r.Queue.WriteBuffer(r.CameraBuf, 0, EncodeCamera(cam))
}

// Render draws one frame: opaque geometry, then transparent geometry, then
// grid and gizmo lines.
func (r *Renderer) Render(view *wgpu.TextureView, clear color.RGBA) error {
	encoder, err := r.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("command encoder: %w", err)
	}
	c := rgba(clear)
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: 1},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})

	pass.SetPipeline(r.OpaquePipeline)
	pass.SetBindGroup(0, r.CameraBG, nil)
	r.Building.Draw(pass, false)
	r.Network.Draw(pass, false)

	pass.SetPipeline(r.TransparentPipeline)
	pass.SetBindGroup(0, r.CameraBG, nil)
	r.Building.Draw(pass, true)
	r.Network.Draw(pass, true)

	pass.SetPipeline(r.LinePipeline)
	pass.SetBindGroup(0, r.CameraBG, nil)
	r.Grid.Draw(pass)
	r.Gizmo.Draw(pass)

	if err := pass.End(); err != nil {
		return fmt.Errorf("render pass: %w", err)
	}
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish: %w", err)
	}
	r.Queue.Submit(cmd)
	return nil
}

func (r *Renderer) Release() {
	r.Building.Release()
	r.Network.Release()
	r.Grid.Release()
	r.Gizmo.Release()
	if r.DepthView != nil {
		r.DepthView.Release()
		r.DepthTex.Release()
	}
	r.CameraBuf.Release()
}
