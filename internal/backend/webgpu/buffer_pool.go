//go:build windows

package webgpu

import (
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// maxPooledBuffers bounds the number of idle buffers kept for reuse.
const maxPooledBuffers = 32

// pooledBuffer wraps a GPU buffer with metadata.
type pooledBuffer struct {
	buffer *wgpu.Buffer
	size   uint64
	usage  wgpu.BufferUsage
}

// BufferPool keeps result buffers of finished reshapes for the next run.
// Reshapes of the same output shape ask for the same size, so a repeated
// program reuses its buffer instead of allocating a new one.
type BufferPool struct {
	device *wgpu.Device
	idle   []*pooledBuffer
	mu     sync.Mutex

	// Statistics
	hits   uint64
	misses uint64
}

// NewBufferPool creates a new buffer pool for the given device.
func NewBufferPool(device *wgpu.Device) *BufferPool {
	return &BufferPool{
		device: device,
		idle:   make([]*pooledBuffer, 0, maxPooledBuffers),
	}
}

// Acquire returns the smallest idle buffer of at least size bytes with the
// requested usage, or creates a new one.
func (p *BufferPool) Acquire(size uint64, usage wgpu.BufferUsage) *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()

	best := -1
	for i, pb := range p.idle {
		if pb.size < size || pb.usage&usage != usage {
			continue
		}
		if best < 0 || pb.size < p.idle[best].size {
			best = i
		}
	}
	if best >= 0 {
		buffer := p.idle[best].buffer
		p.idle = append(p.idle[:best], p.idle[best+1:]...)
		p.hits++
		return buffer
	}

	p.misses++
	return p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: usage,
		Size:  size,
	})
}

// Release returns a buffer to the pool. If the pool is full, the buffer is
// released immediately.
func (p *BufferPool) Release(buffer *wgpu.Buffer, size uint64, usage wgpu.BufferUsage) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.idle) >= maxPooledBuffers {
		buffer.Release()
		return
	}
	p.idle = append(p.idle, &pooledBuffer{buffer: buffer, size: size, usage: usage})
}

// Clear releases all pooled buffers.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, pb := range p.idle {
		pb.buffer.Release()
	}
	p.idle = p.idle[:0]
}

// Stats returns pool hits, misses and the number of idle buffers.
func (p *BufferPool) Stats() (hits, misses uint64, idle int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hits, p.misses, len(p.idle)
}
