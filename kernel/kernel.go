// Package kernel defines the boundary between the harness and a kernel under
// test. A kernel mutates one buffer in place and is assumed to stay inside
// the buffer's extent; the harness does not fence it.
package kernel

import (
	"fmt"
	"sort"

	"github.com/notargets/kernelcheck/buffer"
)

// Kernel is a generated computation run against an output buffer
type Kernel interface {
	Name() string
	Run(b *buffer.Buffer) error
}

// Func adapts a plain function to Kernel
type Func struct {
	KernelName string
	Fn         func(b *buffer.Buffer) error
}

func (f Func) Name() string { return f.KernelName }

func (f Func) Run(b *buffer.Buffer) error {
	if err := b.Validate("run " + f.KernelName); err != nil {
		return err
	}
	return f.Fn(b)
}

// Fill returns a kernel that sets every element to v
func Fill(name string, v float64) Kernel {
	return Func{KernelName: name, Fn: func(b *buffer.Buffer) error {
		return b.Fill(v)
	}}
}

// LeaveOne returns a kernel that sets every element to v except (row, col),
// which keeps whatever it held before the run
func LeaveOne(name string, v float64, row, col int) Kernel {
	return Func{KernelName: name, Fn: func(b *buffer.Buffer) error {
		idx := b.Index(row, col)
		keep := b.Raw()[idx]
		if err := b.Fill(v); err != nil {
			return err
		}
		b.Raw()[idx] = keep
		return nil
	}}
}

// Noop returns a kernel that leaves the buffer untouched
func Noop(name string) Kernel {
	return Func{KernelName: name, Fn: func(*buffer.Buffer) error { return nil }}
}

// LetStmt is the host rendition of the test_let_stmt kernel: it binds
// t = Let and stores t + t into every element.
type LetStmt struct {
	Let float64
}

// NewLetStmt returns the kernel with the value the regression fixture expects
func NewLetStmt() LetStmt {
	return LetStmt{Let: 10}
}

func (LetStmt) Name() string { return "test_let_stmt" }

func (k LetStmt) Run(b *buffer.Buffer) error {
	if err := b.Validate("run test_let_stmt"); err != nil {
		return err
	}
	rows, cols := b.Dims()
	dt := b.DataType()
	data := b.Raw()
	t := dt.Quantize(k.Let)
	sum := dt.Quantize(t + t)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data[r*cols+c] = sum
		}
	}
	return nil
}

// Registry maps kernel names to kernels
type Registry struct {
	kernels map[string]Kernel
}

func NewRegistry() *Registry {
	return &Registry{kernels: make(map[string]Kernel)}
}

// Register adds k under k.Name()
func (reg *Registry) Register(k Kernel) error {
	if k == nil {
		return fmt.Errorf("register: nil kernel")
	}
	name := k.Name()
	if name == "" {
		return fmt.Errorf("register: kernel has no name")
	}
	if _, exists := reg.kernels[name]; exists {
		return fmt.Errorf("kernel %s already registered", name)
	}
	reg.kernels[name] = k
	return nil
}

// Lookup returns the kernel registered as name
func (reg *Registry) Lookup(name string) (Kernel, error) {
	k, exists := reg.kernels[name]
	if !exists {
		return nil, fmt.Errorf("kernel %s not registered", name)
	}
	return k, nil
}

// Names returns the registered names in sorted order
func (reg *Registry) Names() []string {
	names := make([]string, 0, len(reg.kernels))
	for name := range reg.kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
