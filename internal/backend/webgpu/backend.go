// Package webgpu implements the kernel-matrix operator contract on the GPU
// via WebGPU compute shaders. The packed upper triangle stays resident on
// the device for the whole solve; every application dispatches one SYMM
// shader and synchronizes before returning.
//
// The device works in float32; the float64 host blocks are converted at the
// boundary. This trades precision for portability and is acceptable because
// the solver recomputes the exact residual every 50 iterations.
package webgpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/verge-ml/verge/internal/kernel"
	"github.com/verge-ml/verge/internal/matrix"
	"github.com/verge-ml/verge/internal/operator"
	"github.com/verge-ml/verge/internal/parallel"
)

// Backend assembles kernel-matrix operators whose applications run on a
// WebGPU device.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Shader and pipeline cache
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline
	mu        sync.RWMutex

	cfg parallel.Config
}

// New creates a new WebGPU backend.
// Returns an error if WebGPU is not available or initialization fails.
func New() (backend *Backend, err error) {
	// Recover from panic if the wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			backend = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance, _ := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &Backend{
		instance:  instance,
		adapter:   adapter,
		device:    device,
		queue:     queue,
		shaders:   make(map[string]*wgpu.ShaderModule),
		pipelines: make(map[string]*wgpu.ComputePipeline),
		cfg:       parallel.DefaultConfig(),
	}, nil
}

// IsAvailable checks if WebGPU is available on this system.
func IsAvailable() (available bool) {
	// Recover from panic if the wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance, _ := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()

	return true
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "WebGPU"
}

// Release releases all WebGPU resources.
// Must be called when the backend is no longer needed. Operators assembled
// by this backend become invalid afterwards.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.pipelines {
		p.Release()
	}
	b.pipelines = nil

	for _, s := range b.shaders {
		s.Release()
	}
	b.shaders = nil

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// Assemble explicitly assembles the reduced kernel matrix on the host,
// uploads the packed upper triangle to the device and wraps it as a
// symmetric operator. The host copy is retained for the preconditioners.
func (b *Backend) Assemble(data *matrix.Dense, q []float64, qaCost, cost float64, p kernel.Params) (operator.Operator, error) {
	u, err := operator.AssembleUpper(data, q, qaCost, cost, p, b.cfg)
	if err != nil {
		return nil, err
	}

	packed := u.Data()
	deviceBuf := b.createBuffer(float32Bytes(packed), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	return &kernelMatrix{backend: b, upper: u, buffer: deviceBuf, n: u.Rows()}, nil
}

// kernelMatrix holds the device-resident packed upper triangle of the
// kernel matrix together with its host copy.
type kernelMatrix struct {
	backend *Backend
	upper   matrix.View
	buffer  *wgpu.Buffer
	n       int
}

// Rows returns the order of the kernel matrix.
func (k *kernelMatrix) Rows() int {
	return k.n
}

// Apply computes C = alpha*A*B + beta*C with one SYMM shader dispatch and a
// synchronous read-back. The call fully completes before returning.
func (k *kernelMatrix) Apply(alpha float64, bBlock *matrix.Dense, beta float64, c *matrix.Dense) error {
	if bBlock.Cols() != k.n || c.Cols() != k.n || bBlock.Rows() != c.Rows() {
		panic(fmt.Sprintf("webgpu: apply shape mismatch: A %dx%d, B %dx%d, C %dx%d",
			k.n, k.n, bBlock.Rows(), bBlock.Cols(), c.Rows(), c.Cols()))
	}
	return k.backend.runSymm(k, alpha, bBlock, beta, c)
}

// Release frees the device-resident kernel matrix.
func (k *kernelMatrix) Release() {
	if k.buffer != nil {
		k.buffer.Release()
		k.buffer = nil
	}
}

// Diagonal returns the kernel-matrix diagonal for the Jacobi preconditioner.
func (k *kernelMatrix) Diagonal() []float64 {
	return k.upper.Diagonal()
}

// TriangularView returns the host copy of the packed upper triangle for the
// Cholesky preconditioner.
func (k *kernelMatrix) TriangularView() matrix.View {
	return k.upper
}
