package renderer

import (
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/latentecho/backdrop/common"
	"github.com/latentecho/backdrop/engine/geometry"
	"github.com/latentecho/backdrop/engine/renderer/bind_group_provider"
)

// drawUniformSize is the byte size of GPUDrawUniform.
const drawUniformSize = 80

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat   *wgpu.TextureFormat
	msaaTexture     *wgpu.Texture
	msaaTextureView *wgpu.TextureView
	configured      bool

	presentMode wgpu.PresentMode // defaults to PresentModeFifo (VSync)
	sampleCount MSAASampleCount

	shader          *wgpu.ShaderModule
	bindGroupLayout *wgpu.BindGroupLayout
	pipelineLayout  *wgpu.PipelineLayout
	linePipeline    *wgpu.RenderPipeline
	fillPipeline    *wgpu.RenderPipeline

	// meshes holds the uploaded buffers per geometry ID; each geometry has an edge and a face provider.
	meshes map[uint64][2]bind_group_provider.BindGroupProvider
	// uniforms is a pool of per-draw uniform providers, grown on demand and reused every frame.
	uniforms []bind_group_provider.BindGroupProvider
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) *wgpuRendererBackendImpl {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		meshes:      make(map[uint64][2]bind_group_provider.BindGroupProvider),
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

	capabilities := b.surface.GetCapabilities(b.adapter)
	format := capabilities.Formats[0]
	formatChanged := b.surfaceFormat == nil || *b.surfaceFormat != format
	b.surfaceFormat = &format

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	b.configured = true

	b.releaseMSAALocked()
	if b.sampleCount > MSAAOff {
		// The pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   uint32(b.sampleCount),
			Dimension:     wgpu.TextureDimension2D,
			Format:        format,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		view, err := msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
		b.msaaTexture, b.msaaTextureView = msaaTexture, view
	}

	if formatChanged || b.linePipeline == nil {
		if err := b.createPipelinesLocked(); err != nil {
			panic(err)
		}
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

// createPipelinesLocked builds the line-list (wireframe) and triangle-list (filled) pipelines
// for the current surface format. Both alpha blend and share one uniform layout.
func (b *wgpuRendererBackendImpl) createPipelinesLocked() error {
	b.releasePipelinesLocked()

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Wireframe Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: wireframeShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	b.shader = module

	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Draw Uniform Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: drawUniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	b.bindGroupLayout = layout

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Wireframe Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	b.pipelineLayout = pipelineLayout

	if b.linePipeline, err = b.createPipelineLocked("Line", wgpu.PrimitiveTopologyLineList); err != nil {
		return err
	}
	if b.fillPipeline, err = b.createPipelineLocked("Fill", wgpu.PrimitiveTopologyTriangleList); err != nil {
		return err
	}
	return nil
}

func (b *wgpuRendererBackendImpl) createPipelineLocked(label string, topology wgpu.PrimitiveTopology) (*wgpu.RenderPipeline, error) {
	blend := wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	}
	p, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Render Pipeline",
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     b.shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: 12,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     b.shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend:     &wgpu.BlendState{Color: blend, Alpha: blend},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", label, err)
	}
	return p, nil
}

// meshProvidersLocked returns the edge and face buffers for geo, uploading them on first use.
func (b *wgpuRendererBackendImpl) meshProvidersLocked(geo geometry.Geometry) ([2]bind_group_provider.BindGroupProvider, bool, error) {
	if providers, ok := b.meshes[geo.ID()]; ok {
		return providers, false, nil
	}

	vertexData := common.SliceToBytes(geo.Positions())
	var providers [2]bind_group_provider.BindGroupProvider
	for i, indices := range [2][]uint32{geo.EdgeIndices(), geo.Indices()} {
		kind := "Edges"
		if i == 1 {
			kind = "Faces"
		}
		p := bind_group_provider.NewBindGroupProvider(geo.Label() + " " + kind)
		if err := b.initMeshBuffersLocked(p, vertexData, common.SliceToBytes(indices), len(indices)); err != nil {
			p.Release()
			if providers[0] != nil {
				providers[0].Release()
			}
			return providers, false, err
		}
		providers[i] = p
	}
	b.meshes[geo.ID()] = providers
	return providers, true, nil
}

func (b *wgpuRendererBackendImpl) initMeshBuffersLocked(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	if len(vertexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: provider.Label() + " Vertex Buffer",
			Size:  uint64(len(vertexData)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		b.queue.WriteBuffer(buf, 0, vertexData)
		provider.SetVertexBuffer(buf)
	}

	if len(indexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: provider.Label() + " Index Buffer",
			Size:  uint64(len(indexData)),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		b.queue.WriteBuffer(buf, 0, indexData)
		provider.SetIndexBuffer(buf)
	}

	provider.SetIndexCount(indexCount)
	return nil
}

// uniformProviderLocked returns the i-th pooled uniform provider, creating it if needed.
func (b *wgpuRendererBackendImpl) uniformProviderLocked(i int) (bind_group_provider.BindGroupProvider, error) {
	if i < len(b.uniforms) {
		return b.uniforms[i], nil
	}

	p := bind_group_provider.NewBindGroupProvider("Draw Uniform " + strconv.Itoa(i))
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: p.Label() + " Buffer",
		Size:  drawUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	p.SetBuffer(0, buf)

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  p.Label() + " Bind Group",
		Layout: b.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		p.Release()
		return nil, err
	}
	p.SetBindGroup(bindGroup)
	b.uniforms = append(b.uniforms, p)
	return p, nil
}

// writeBuffersLocked uploads staged uniform writes to the GPU queue.
func (b *wgpuRendererBackendImpl) writeBuffersLocked(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		if buf := w.Provider.Buffer(w.Binding); buf != nil {
			b.queue.WriteBuffer(buf, w.Offset, w.Data)
		}
	}
}

func (b *wgpuRendererBackendImpl) Draw(background [4]float32, items []DrawItem) error {
	b.mu.Lock()

	if b.device == nil {
		b.mu.Unlock()
		return ErrDisposed
	}
	if !b.configured {
		b.mu.Unlock()
		return ErrSurfaceNotConfigured
	}

	type resolved struct {
		mesh    bind_group_provider.BindGroupProvider
		uniform bind_group_provider.BindGroupProvider
		line    bool
	}
	draws := make([]resolved, 0, len(items))
	writes := make([]bind_group_provider.BufferWrite, 0, len(items))
	var fresh []geometry.Geometry
	for i, item := range items {
		providers, created, err := b.meshProvidersLocked(item.Geometry)
		if err != nil {
			b.mu.Unlock()
			return fmt.Errorf("upload %s: %w", item.Geometry.Label(), err)
		}
		if created {
			fresh = append(fresh, item.Geometry)
		}
		uniform, err := b.uniformProviderLocked(i)
		if err != nil {
			b.mu.Unlock()
			return fmt.Errorf("draw uniform %d: %w", i, err)
		}
		data := GPUDrawUniform{MVP: item.MVP, Color: item.Color}
		writes = append(writes, bind_group_provider.BufferWrite{Provider: uniform, Binding: 0, Data: data.Marshal()})

		m := providers[1]
		if item.Wireframe {
			m = providers[0]
		}
		draws = append(draws, resolved{mesh: m, uniform: uniform, line: item.Wireframe})
	}
	b.writeBuffersLocked(writes)

	err := b.encodeFrameLocked(background, func(pass *wgpu.RenderPassEncoder) {
		for _, d := range draws {
			if d.mesh.IndexCount() == 0 {
				continue
			}
			if d.line {
				pass.SetPipeline(b.linePipeline)
			} else {
				pass.SetPipeline(b.fillPipeline)
			}
			pass.SetBindGroup(0, d.uniform.BindGroup(), nil)
			pass.SetVertexBuffer(0, d.mesh.VertexBuffer(), 0, wgpu.WholeSize)
			pass.SetIndexBuffer(d.mesh.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
			pass.DrawIndexed(uint32(d.mesh.IndexCount()), 1, 0, 0, 0)
		}
	})
	b.mu.Unlock()

	// Buffers follow the geometry lifetime; registration happens unlocked because
	// OnDispose may invoke the callback inline.
	for _, geo := range fresh {
		geo.OnDispose(b.releaseGeometry)
	}
	return err
}

// encodeFrameLocked acquires the swapchain texture, runs one cleared render pass, submits and presents.
func (b *wgpuRendererBackendImpl) encodeFrameLocked(background [4]float32, record func(pass *wgpu.RenderPassEncoder)) error {
	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	attachment := wgpu.RenderPassColorAttachment{
		View:    view,
		LoadOp:  wgpu.LoadOpClear,
		StoreOp: wgpu.StoreOpStore,
		ClearValue: wgpu.Color{
			R: float64(background[0]),
			G: float64(background[1]),
			B: float64(background[2]),
			A: float64(background[3]),
		},
	}
	if b.msaaTextureView != nil {
		attachment.View = b.msaaTextureView
		attachment.ResolveTarget = view
		attachment.StoreOp = wgpu.StoreOpDiscard
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{attachment},
	})
	record(pass)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) releaseGeometry(geo geometry.Geometry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	providers, ok := b.meshes[geo.ID()]
	if !ok {
		return
	}
	for _, p := range providers {
		p.Release()
	}
	delete(b.meshes, geo.ID())
}

func (b *wgpuRendererBackendImpl) releaseMSAALocked() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) releasePipelinesLocked() {
	for _, p := range b.uniforms {
		p.Release()
	}
	b.uniforms = nil
	if b.linePipeline != nil {
		b.linePipeline.Release()
		b.linePipeline = nil
	}
	if b.fillPipeline != nil {
		b.fillPipeline.Release()
		b.fillPipeline = nil
	}
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
		b.pipelineLayout = nil
	}
	if b.bindGroupLayout != nil {
		b.bindGroupLayout.Release()
		b.bindGroupLayout = nil
	}
	if b.shader != nil {
		b.shader.Release()
		b.shader = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == nil {
		return
	}

	for id, providers := range b.meshes {
		for _, p := range providers {
			p.Release()
		}
		delete(b.meshes, id)
	}
	b.releasePipelinesLocked()
	b.releaseMSAALocked()

	b.surface.Release()
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.instance.Release()
	b.surface, b.queue, b.device, b.adapter, b.instance = nil, nil, nil, nil, nil
	b.configured = false
}
