package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/verge-ml/verge/internal/matrix"
)

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Backend's shaders map.
func (b *Backend) compileShader(name, code string) *wgpu.ShaderModule {
	b.mu.RLock()
	if shader, exists := b.shaders[name]; exists {
		b.mu.RUnlock()
		return shader
	}
	b.mu.RUnlock()

	shader := b.device.CreateShaderModuleWGSL(code)

	b.mu.Lock()
	b.shaders[name] = shader
	b.mu.Unlock()

	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (b *Backend) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	b.mu.RLock()
	if pipeline, exists := b.pipelines[name]; exists {
		b.mu.RUnlock()
		return pipeline
	}
	b.mu.RUnlock()

	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")

	b.mu.Lock()
	b.pipelines[name] = pipeline
	b.mu.Unlock()

	return pipeline
}

// createBuffer creates a GPU storage buffer and uploads the initial data.
func (b *Backend) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// createUniformBuffer creates a uniform buffer with 16-byte alignment.
func (b *Backend) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// readBuffer reads data back from a GPU buffer to CPU memory.
// Uses a staging buffer since storage buffers can't be mapped directly.
func (b *Backend) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	stagingBuffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer stagingBuffer.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	err := stagingBuffer.MapAsync(b.device, wgpu.MapModeRead, 0, size)
	if err != nil {
		return nil, fmt.Errorf("webgpu: failed to map staging buffer: %w", err)
	}

	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)

	stagingBuffer.Unmap()

	return result, nil
}

// runSymm executes C = alpha*A*B + beta*C on the device, where A is the
// resident packed upper triangle of k and B, C are rhs-major blocks.
func (b *Backend) runSymm(k *kernelMatrix, alpha float64, bBlock *matrix.Dense, beta float64, c *matrix.Dense) error {
	numRHS := bBlock.Rows()

	shader := b.compileShader("symm_packed", symmPackedShader)
	pipeline := b.getOrCreatePipeline("symm_packed", shader)

	bufferB := b.createBuffer(denseFloat32Bytes(bBlock), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferB.Release()

	bufferC := b.createBuffer(denseFloat32Bytes(c), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	defer bufferC.Release()

	// Params: n, num_rhs (u32), alpha, beta (f32).
	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(k.n))
	binary.LittleEndian.PutUint32(params[4:8], uint32(numRHS))
	binary.LittleEndian.PutUint32(params[8:12], math.Float32bits(float32(alpha)))
	binary.LittleEndian.PutUint32(params[12:16], math.Float32bits(float32(beta)))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	resultSize := uint64(numRHS * k.n * 4)
	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, k.buffer, 0, uint64(k.upper.Size()*4)),
		wgpu.BufferBindingEntry(1, bufferB, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferC, 0, resultSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	// 2D dispatch: x over system rows, y over right-hand sides.
	workgroupsX := uint32(math.Ceil(float64(k.n) / 16.0))
	workgroupsY := uint32(math.Ceil(float64(numRHS) / 16.0))
	computePass.DispatchWorkgroups(workgroupsX, workgroupsY, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	resultData, err := b.readBuffer(bufferC, resultSize)
	if err != nil {
		return err
	}

	storeDenseFloat32Bytes(c, resultData)
	return nil
}

// float32Bytes converts a float64 slice into little-endian float32 bytes.
func float32Bytes(data []float64) []byte {
	out := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(float32(v)))
	}
	return out
}

// denseFloat32Bytes converts the logical entries of a block into
// little-endian float32 bytes, row-major without padding.
func denseFloat32Bytes(m *matrix.Dense) []byte {
	out := make([]byte, m.Rows()*m.Cols()*4)
	i := 0
	for r := 0; r < m.Rows(); r++ {
		for _, v := range m.Row(r) {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(float32(v)))
			i++
		}
	}
	return out
}

// storeDenseFloat32Bytes writes little-endian float32 bytes back into the
// logical entries of a block.
func storeDenseFloat32Bytes(m *matrix.Dense, data []byte) {
	i := 0
	for r := 0; r < m.Rows(); r++ {
		row := m.Row(r)
		for c := range row {
			row[c] = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
			i++
		}
	}
}
