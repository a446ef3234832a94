package runner

import (
	"fmt"
	"github.com/notargets/gocca"
	"github.com/notargets/kernelcheck/buffer"
	"unsafe"
)

// copyToDevice writes the host elements of b into mem, converting from the
// float64 host representation to the element type
func copyToDevice(b *buffer.Buffer, mem *gocca.OCCAMemory) error {
	data := b.Raw()
	n := len(data)
	if n == 0 {
		return fmt.Errorf("empty buffer")
	}

	switch b.DataType() {
	case buffer.Float64:
		mem.CopyFrom(unsafe.Pointer(&data[0]), int64(n*8))
	case buffer.Float32:
		converted := make([]float32, n)
		for i, v := range data {
			converted[i] = float32(v)
		}
		mem.CopyFrom(unsafe.Pointer(&converted[0]), int64(n*4))
	case buffer.INT32:
		converted := make([]int32, n)
		for i, v := range data {
			converted[i] = int32(buffer.INT32.Quantize(v))
		}
		mem.CopyFrom(unsafe.Pointer(&converted[0]), int64(n*4))
	case buffer.INT64:
		converted := make([]int64, n)
		for i, v := range data {
			converted[i] = int64(buffer.INT64.Quantize(v))
		}
		mem.CopyFrom(unsafe.Pointer(&converted[0]), int64(n*8))
	case buffer.Uint8:
		converted := make([]uint8, n)
		for i, v := range data {
			converted[i] = uint8(buffer.Uint8.Quantize(v))
		}
		mem.CopyFrom(unsafe.Pointer(&converted[0]), int64(n))
	default:
		return fmt.Errorf("unsupported data type %v", b.DataType())
	}
	return nil
}

// copyFromDevice reads mem back into the host elements of b
func copyFromDevice(mem *gocca.OCCAMemory, b *buffer.Buffer) error {
	data := b.Raw()
	n := len(data)
	if n == 0 {
		return fmt.Errorf("empty buffer")
	}

	switch b.DataType() {
	case buffer.Float64:
		mem.CopyTo(unsafe.Pointer(&data[0]), int64(n*8))
	case buffer.Float32:
		deviceData := make([]float32, n)
		mem.CopyTo(unsafe.Pointer(&deviceData[0]), int64(n*4))
		for i, v := range deviceData {
			data[i] = float64(v)
		}
	case buffer.INT32:
		deviceData := make([]int32, n)
		mem.CopyTo(unsafe.Pointer(&deviceData[0]), int64(n*4))
		for i, v := range deviceData {
			data[i] = float64(v)
		}
	case buffer.INT64:
		deviceData := make([]int64, n)
		mem.CopyTo(unsafe.Pointer(&deviceData[0]), int64(n*8))
		if err := int64ToHost(data, deviceData); err != nil {
			return err
		}
	case buffer.Uint8:
		deviceData := make([]uint8, n)
		mem.CopyTo(unsafe.Pointer(&deviceData[0]), int64(n))
		for i, v := range deviceData {
			data[i] = float64(v)
		}
	default:
		return fmt.Errorf("unsupported data type %v", b.DataType())
	}
	return nil
}

// int64ToHost stores device INT64 elements into the float64 host copy. A value
// beyond buffer.MaxExactInt64 would round, so it is an error rather than a
// silently inexact element.
func int64ToHost(data []float64, deviceData []int64) error {
	for i, v := range deviceData {
		if v > buffer.MaxExactInt64 || v < -buffer.MaxExactInt64 {
			return fmt.Errorf("element %d: %w", i,
				&buffer.RangeError{Value: float64(v), DataType: buffer.INT64})
		}
		data[i] = float64(v)
	}
	return nil
}
