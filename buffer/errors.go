package buffer

import (
	"errors"
	"fmt"
)

var (
	ErrAllocation    = errors.New("buffer allocation failed")
	ErrInvalidBuffer = errors.New("invalid buffer")
	ErrShapeMismatch = errors.New("buffer shape mismatch")
	ErrOutOfRange    = errors.New("value out of range for element type")
)

// AllocationError reports invalid dimensions or storage that could not be obtained
type AllocationError struct {
	Rows, Cols int
	Reason     string
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocate %dx%d buffer: %s", e.Rows, e.Cols, e.Reason)
}

func (e *AllocationError) Is(target error) bool { return target == ErrAllocation }

// InvalidBufferError reports a nil, freed or malformed buffer passed to Op
type InvalidBufferError struct {
	Op     string
	Reason string
}

func (e *InvalidBufferError) Error() string {
	return fmt.Sprintf("%s: invalid buffer: %s", e.Op, e.Reason)
}

func (e *InvalidBufferError) Is(target error) bool { return target == ErrInvalidBuffer }

// ShapeMismatchError reports two buffers that cannot be compared element-wise
type ShapeMismatchError struct {
	Op           string
	A, B         [2]int
	TypeA, TypeB DataType
}

func (e *ShapeMismatchError) Error() string {
	if e.A == e.B {
		return fmt.Sprintf("%s: element type mismatch: %s vs %s", e.Op, e.TypeA, e.TypeB)
	}
	return fmt.Sprintf("%s: shape mismatch: %dx%d vs %dx%d",
		e.Op, e.A[0], e.A[1], e.B[0], e.B[1])
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// RangeError reports a value an element of DataType cannot hold exactly
type RangeError struct {
	Value    float64
	DataType DataType
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value %v exceeds the exact %s range of +/-%d", e.Value, e.DataType, int64(MaxExactInt64))
}

func (e *RangeError) Is(target error) bool { return target == ErrOutOfRange }
