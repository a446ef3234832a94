package runner

import (
	"fmt"
	"github.com/notargets/kernelcheck/buffer"
	"github.com/notargets/kernelcheck/kernel"
)

// DeviceKernel is OKL source run through a Runner. It satisfies kernel.Kernel.
type DeviceKernel struct {
	runner *Runner
	name   string
	source string
}

var _ kernel.Kernel = (*DeviceKernel)(nil)

// Kernel wraps kernelSource, whose entry point is kernelName, as a kernel
// under test. The source is compiled lazily for each buffer shape it meets.
func (kr *Runner) Kernel(kernelName, kernelSource string) *DeviceKernel {
	return &DeviceKernel{runner: kr, name: kernelName, source: kernelSource}
}

// LetStmt returns test_let_stmt compiled for this runner's device
func (kr *Runner) LetStmt() *DeviceKernel {
	return kr.Kernel("test_let_stmt", LetStmtSource)
}

func (dk *DeviceKernel) Name() string { return dk.name }

// Run copies b to device memory, executes the kernel, and copies the result
// back over b. Device memory is released on every path.
func (dk *DeviceKernel) Run(b *buffer.Buffer) error {
	if err := b.Validate("run " + dk.name); err != nil {
		return err
	}
	rows, cols := b.Dims()
	dt := b.DataType()

	kern, err := dk.runner.BuildKernel(dk.source, dk.name, rows, cols, dt)
	if err != nil {
		return err
	}

	mem := dk.runner.Device.Malloc(int64(b.Len())*dt.Size(), nil, nil)
	if mem == nil {
		return fmt.Errorf("kernel %s: device allocation of %d bytes failed",
			dk.name, int64(b.Len())*dt.Size())
	}
	defer mem.Free()

	// The sentinel has to reach the device so a kernel that skips elements
	// is caught by the comparison
	if err := copyToDevice(b, mem); err != nil {
		return fmt.Errorf("pre-kernel copy failed: %w", err)
	}

	if err := kern.RunWithArgs(mem); err != nil {
		return fmt.Errorf("kernel execution failed: %w", err)
	}

	dk.runner.Device.Finish()

	if err := copyFromDevice(mem, b); err != nil {
		return fmt.Errorf("post-kernel copy failed: %w", err)
	}
	return nil
}
