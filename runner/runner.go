// Package runner builds generated OKL kernels on an OCCA device and runs
// them against host buffers.
package runner

import (
	"fmt"
	"github.com/notargets/gocca"
	"github.com/notargets/kernelcheck/buffer"
	"sort"
)

// Runner owns compiled kernels for one OCCA device. Builds are cached per
// kernel name, buffer shape and element type, since the preamble bakes all
// three into the source.
type Runner struct {
	Device  *gocca.OCCADevice
	Kernels map[string]*gocca.OCCAKernel
	Tile    int
}

// NewRunner creates a Runner for device
func NewRunner(device *gocca.OCCADevice) *Runner {
	if device == nil {
		panic("runner: nil Device")
	}
	return &Runner{
		Device:  device,
		Kernels: make(map[string]*gocca.OCCAKernel),
		Tile:    DefaultTile,
	}
}

func buildKey(name string, rows, cols int, dt buffer.DataType) string {
	return fmt.Sprintf("%s/%dx%d/%s", name, rows, cols, dt)
}

// BuildKernel compiles kernelSource for a rows x cols buffer of dt elements,
// or returns the cached build
func (kr *Runner) BuildKernel(kernelSource, kernelName string, rows, cols int,
	dt buffer.DataType) (*gocca.OCCAKernel, error) {
	key := buildKey(kernelName, rows, cols, dt)
	if kernel, exists := kr.Kernels[key]; exists {
		return kernel, nil
	}

	fullSource := GeneratePreamble(rows, cols, dt, kr.Tile) + "\n" + kernelSource

	var kernel *gocca.OCCAKernel
	var err error

	if kr.Device.Mode() == "OpenMP" {
		// Workaround for OCCA bug: OpenMP doesn't get default -O3 flag
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = kr.Device.BuildKernelFromString(fullSource, kernelName, props)
	} else {
		kernel, err = kr.Device.BuildKernelFromString(fullSource, kernelName, nil)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to build kernel %s: %w", kernelName, err)
	}
	if kernel == nil {
		return nil, fmt.Errorf("kernel build returned nil for %s", kernelName)
	}

	kr.Kernels[key] = kernel
	return kernel, nil
}

// Builds returns the cache keys of compiled kernels in sorted order
func (kr *Runner) Builds() []string {
	keys := make([]string, 0, len(kr.Kernels))
	for key := range kr.Kernels {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Free releases all compiled kernels. The device stays owned by the caller.
func (kr *Runner) Free() {
	for key, kernel := range kr.Kernels {
		kernel.Free()
		delete(kr.Kernels, key)
	}
}
