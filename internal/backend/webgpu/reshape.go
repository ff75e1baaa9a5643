//go:build windows

package webgpu

import (
	"encoding/binary"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/born-ml/texreshape/internal/codegen/wgsl"
	"github.com/born-ml/texreshape/internal/reshape"
	"github.com/born-ml/texreshape/internal/tensor"
)

// resultUsage is the usage of result texel buffers.
const resultUsage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst

// Reshape renders p to WGSL, runs it over input and reads back the packed
// output texture.
func (b *Backend) Reshape(p *reshape.Plan, input *tensor.Texture) (*tensor.Texture, error) {
	if err := p.CheckInput(input); err != nil {
		return nil, err
	}

	code := wgsl.Reshape(p)
	shader := b.compileShader(code)
	pipeline := b.getOrCreatePipeline(code, shader)

	texels := tensor.PackedLayout(p.OutputShape).TexelCount()

	inputData := float32Bytes(input.Data)
	inputSize := uint64(len(inputData))
	bufferInput := b.createBuffer(inputData, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferInput.Release()

	//nolint:gosec // G115: Safe conversion, texel count is non-negative
	resultSize := uint64(texels * tensor.ChannelsPerTexel * 4)
	bufferResult := b.bufferPool.Acquire(resultSize, resultUsage)
	defer b.bufferPool.Release(bufferResult, resultSize, resultUsage)

	// Uniform buffer for params (size: u32)
	params := make([]byte, 16) // 16-byte aligned
	//nolint:gosec // G115: Safe conversion, texel count is non-negative
	binary.LittleEndian.PutUint32(params[0:4], uint32(texels))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(wgsl.InputBinding, bufferInput, 0, inputSize),
		wgpu.BufferBindingEntry(wgsl.ResultBinding, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(wgsl.ParamsBinding, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	// One invocation per output texel
	//nolint:gosec // G115: Safe conversion, workgroup count is non-negative
	workgroups := uint32((texels + wgsl.WorkgroupSize - 1) / wgsl.WorkgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	resultData, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return nil, err
	}

	out := tensor.NewTexture(p.OutputShape, true)
	bytesFloat32(out.Data, resultData)
	return out, nil
}
