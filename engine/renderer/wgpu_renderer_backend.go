package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/herogrid/common"
	"github.com/Carmen-Shannon/herogrid/engine/mesh"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// cameraBufferSize is the byte size of the camera uniform buffer: a single
	// column-major mat4x4<f32> view-projection matrix.
	cameraBufferSize = 64

	// gpuInstanceSize is the byte size of one GPUInstance as laid out in the
	// instance storage buffers: mat4x4<f32> model plus vec4<f32> color.
	gpuInstanceSize = 80
)

// wgpuRendererBackendImpl is the WebGPU implementation of rendererBackend.
type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat *wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	clearColor    wgpu.Color

	msaaTextureView  *wgpu.TextureView
	depthTextureView *wgpu.TextureView

	renderPassDescriptor *wgpu.RenderPassDescriptor

	// Grid resources created by InitGridResources.
	fillPipeline *wgpu.RenderPipeline
	edgePipeline *wgpu.RenderPipeline

	fillVertexBuffer *wgpu.Buffer
	fillIndexBuffer  *wgpu.Buffer
	fillIndexCount   uint32
	edgeVertexBuffer *wgpu.Buffer
	edgeIndexBuffer  *wgpu.Buffer
	edgeIndexCount   uint32

	cameraBuffer       *wgpu.Buffer
	fillInstanceBuffer *wgpu.Buffer
	edgeInstanceBuffer *wgpu.Buffer
	maxInstances       int

	cameraBindGroup       *wgpu.BindGroup
	fillInstanceBindGroup *wgpu.BindGroup
	edgeInstanceBindGroup *wgpu.BindGroup

	// Per-frame state held between BeginFrame and Present.
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder

	released bool
}

// rendererBackend is the per-API surface implemented by each rendering
// backend. It mirrors the Renderer interface minus the option plumbing.
type rendererBackend interface {
	ConfigureSurface(width, height int)
	SetPresentMode(mode PresentMode)
	SetClearColor(red, green, blue float32)
	InitGridResources(fill, edges mesh.Mesh, maxInstances int) error
	WriteCamera(viewProj [16]float32)
	WriteInstances(fill, edges []GPUInstance)
	BeginFrame() error
	DrawGrid(fillCount, edgeCount uint32)
	EndFrame()
	Present()
	Release()
}

var _ rendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) rendererBackend {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		clearColor:  wgpu.Color{R: 1.0, G: 1.0, B: 1.0, A: 1.0},
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	return b
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	// The render pass draws into the MSAA texture; the resolved result is
	// written to the swapchain view as the ResolveTarget.
	msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "MSAA Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   MSAASampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        *b.surfaceFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.msaaTextureView, err = msaaTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   MSAASampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	// Cached render pass descriptor for the main render target. The
	// ResolveTarget is set per-frame to the acquired swapchain view.
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          b.msaaTextureView,
				ResolveTarget: nil, // set per-frame
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       wgpu.StoreOpDiscard, // Don't store MSAA data, just resolve
				ClearValue:    b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}

	// Pipelines depend on the surface format, so they are (re)built here once
	// grid resources exist.
	if b.cameraBuffer != nil {
		if err := b.buildPipelines(); err != nil {
			panic(err)
		}
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) SetClearColor(red, green, blue float32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearColor = wgpu.Color{R: float64(red), G: float64(green), B: float64(blue), A: 1.0}
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = b.clearColor
	}
}

func (b *wgpuRendererBackendImpl) InitGridResources(fill, edges mesh.Mesh, maxInstances int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if maxInstances <= 0 {
		return errors.New("maxInstances must be positive")
	}
	if b.surfaceFormat == nil {
		return errors.New("surface must be configured before grid resources")
	}

	var err error
	if b.fillVertexBuffer, err = b.createMeshBuffer("Fill Vertex Buffer", fill.VertexData, wgpu.BufferUsageVertex); err != nil {
		return err
	}
	if b.fillIndexBuffer, err = b.createMeshBuffer("Fill Index Buffer", fill.IndexData, wgpu.BufferUsageIndex); err != nil {
		return err
	}
	b.fillIndexCount = uint32(fill.IndexCount)

	if b.edgeVertexBuffer, err = b.createMeshBuffer("Edge Vertex Buffer", edges.VertexData, wgpu.BufferUsageVertex); err != nil {
		return err
	}
	if b.edgeIndexBuffer, err = b.createMeshBuffer("Edge Index Buffer", edges.IndexData, wgpu.BufferUsageIndex); err != nil {
		return err
	}
	b.edgeIndexCount = uint32(edges.IndexCount)

	b.cameraBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Buffer",
		Size:  cameraBufferSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}

	instanceBufferSize := uint64(maxInstances) * gpuInstanceSize
	b.fillInstanceBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Fill Instance Buffer",
		Size:  instanceBufferSize,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.edgeInstanceBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Edge Instance Buffer",
		Size:  instanceBufferSize,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.maxInstances = maxInstances

	return b.buildPipelines()
}

func (b *wgpuRendererBackendImpl) createMeshBuffer(label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// buildPipelines creates the camera and instance bind groups and the two grid
// render pipelines. Called with the mutex held, after the surface format is
// known and the grid buffers exist.
func (b *wgpuRendererBackendImpl) buildPipelines() error {
	cameraLayout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: cameraBufferSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create camera bind group layout: %w", err)
	}

	instanceLayout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Instance Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeReadOnlyStorage,
					MinBindingSize: gpuInstanceSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create instance bind group layout: %w", err)
	}

	b.cameraBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera Bind Group",
		Layout: cameraLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.cameraBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create camera bind group: %w", err)
	}

	b.fillInstanceBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Fill Instance Bind Group",
		Layout: instanceLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.fillInstanceBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create fill instance bind group: %w", err)
	}

	b.edgeInstanceBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Edge Instance Bind Group",
		Layout: instanceLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.edgeInstanceBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create edge instance bind group: %w", err)
	}

	shaderModule, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Grid Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: gridShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create grid shader module: %w", err)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Grid Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{cameraLayout, instanceLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create grid pipeline layout: %w", err)
	}

	vertexLayouts := []wgpu.VertexBufferLayout{
		{
			ArrayStride: 12,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{
					Format:         wgpu.VertexFormatFloat32x3,
					Offset:         0,
					ShaderLocation: 0,
				},
			},
		},
	}

	alphaBlend := &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}

	createGridPipeline := func(label string, topology wgpu.PrimitiveTopology, cullMode wgpu.CullMode) (*wgpu.RenderPipeline, error) {
		return b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  label,
			Layout: pipelineLayout,
			Vertex: wgpu.VertexState{
				Module:     shaderModule,
				EntryPoint: "vs_main",
				Buffers:    vertexLayouts,
			},
			Fragment: &wgpu.FragmentState{
				Module:     shaderModule,
				EntryPoint: "fs_main",
				Targets: []wgpu.ColorTargetState{
					{
						Format:    *b.surfaceFormat,
						Blend:     alphaBlend,
						WriteMask: wgpu.ColorWriteMaskAll,
					},
				},
			},
			Primitive: wgpu.PrimitiveState{
				Topology:  topology,
				FrontFace: wgpu.FrontFaceCCW,
				CullMode:  cullMode,
			},
			Multisample: wgpu.MultisampleState{
				Count: MSAASampleCount,
				Mask:  0xFFFFFFFF,
			},
			DepthStencil: &wgpu.DepthStencilState{
				Format:            wgpu.TextureFormatDepth24Plus,
				DepthWriteEnabled: true,
				DepthCompare:      wgpu.CompareFunctionLess,
				StencilFront: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
				StencilBack: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
			},
		})
	}

	if b.fillPipeline, err = createGridPipeline("Grid Fill Pipeline", wgpu.PrimitiveTopologyTriangleList, wgpu.CullModeBack); err != nil {
		return fmt.Errorf("failed to create fill pipeline: %w", err)
	}
	if b.edgePipeline, err = createGridPipeline("Grid Edge Pipeline", wgpu.PrimitiveTopologyLineList, wgpu.CullModeNone); err != nil {
		return fmt.Errorf("failed to create edge pipeline: %w", err)
	}

	return nil
}

func (b *wgpuRendererBackendImpl) WriteCamera(viewProj [16]float32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cameraBuffer == nil {
		return
	}
	b.queue.WriteBuffer(b.cameraBuffer, 0, common.SliceToBytes(viewProj[:]))
}

func (b *wgpuRendererBackendImpl) WriteInstances(fill, edges []GPUInstance) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fillInstanceBuffer == nil || b.edgeInstanceBuffer == nil {
		return
	}
	if len(fill) > b.maxInstances {
		fill = fill[:b.maxInstances]
	}
	if len(edges) > b.maxInstances {
		edges = edges[:b.maxInstances]
	}
	if len(fill) > 0 {
		b.queue.WriteBuffer(b.fillInstanceBuffer, 0, common.SliceToBytes(fill))
	}
	if len(edges) > 0 {
		b.queue.WriteBuffer(b.edgeInstanceBuffer, 0, common.SliceToBytes(edges))
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Defensive: if a previous frame's surface texture is still held, avoid
	// attempting to acquire another one. This prevents wgpu-native validation
	// errors like "Surface image is already acquired" when frames overlap.
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	// The MSAA texture is the color attachment View; the swapchain view is the
	// ResolveTarget.
	b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) DrawGrid(fillCount, edgeCount uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil || b.fillPipeline == nil {
		return
	}

	b.framePass.SetBindGroup(0, b.cameraBindGroup, nil)

	if fillCount > 0 {
		b.framePass.SetPipeline(b.fillPipeline)
		b.framePass.SetBindGroup(1, b.fillInstanceBindGroup, nil)
		b.framePass.SetVertexBuffer(0, b.fillVertexBuffer, 0, wgpu.WholeSize)
		b.framePass.SetIndexBuffer(b.fillIndexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		b.framePass.DrawIndexed(b.fillIndexCount, fillCount, 0, 0, 0)
	}

	if edgeCount > 0 {
		b.framePass.SetPipeline(b.edgePipeline)
		b.framePass.SetBindGroup(1, b.edgeInstanceBindGroup, nil)
		b.framePass.SetVertexBuffer(0, b.edgeVertexBuffer, 0, wgpu.WholeSize)
		b.framePass.SetIndexBuffer(b.edgeIndexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		b.framePass.DrawIndexed(b.edgeIndexCount, edgeCount, 0, 0, 0)
	}
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}

	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return
	}
	b.released = true

	for _, buf := range []*wgpu.Buffer{
		b.fillVertexBuffer, b.fillIndexBuffer,
		b.edgeVertexBuffer, b.edgeIndexBuffer,
		b.cameraBuffer, b.fillInstanceBuffer, b.edgeInstanceBuffer,
	} {
		if buf != nil {
			buf.Release()
		}
	}
	b.fillVertexBuffer = nil
	b.fillIndexBuffer = nil
	b.edgeVertexBuffer = nil
	b.edgeIndexBuffer = nil
	b.cameraBuffer = nil
	b.fillInstanceBuffer = nil
	b.edgeInstanceBuffer = nil

	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
