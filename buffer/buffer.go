// Package buffer provides host-resident 2D numeric buffers that generated
// kernels are run against.
package buffer

import (
	"encoding/binary"
	"fmt"
	"github.com/zeebo/xxh3"
	"gonum.org/v1/gonum/mat"
	"io"
	"math"
	"sync/atomic"
)

// MaxElements bounds a single allocation (2 GiB of float64 host storage).
// Requests above it fail with an AllocationError; a genuine out-of-memory
// condition below it is fatal to the process, as it is for any Go allocation.
const MaxElements int64 = 1 << 28

var liveElements atomic.Int64

// LiveElements returns the number of elements held by buffers that have been
// allocated and not yet freed
func LiveElements() int64 {
	return liveElements.Load()
}

// Buffer is a row-major rows x cols array of DataType elements. Host values
// live in a gonum Dense whose raw slice has offset(r, c) = r*cols + c.
type Buffer struct {
	rows, cols int
	dataType   DataType
	dense      *mat.Dense
}

// Allocate returns a rows x cols buffer of dt elements. Contents are
// unspecified until initialized: storage is poisoned with NaN.
func Allocate(rows, cols int, dt DataType) (*Buffer, error) {
	if rows <= 0 || cols <= 0 {
		return nil, &AllocationError{Rows: rows, Cols: cols,
			Reason: "dimensions must be positive"}
	}
	if !dt.Valid() {
		return nil, &AllocationError{Rows: rows, Cols: cols,
			Reason: fmt.Sprintf("unsupported data type %s", dt)}
	}
	if int64(rows) > MaxElements/int64(cols) {
		return nil, &AllocationError{Rows: rows, Cols: cols,
			Reason: fmt.Sprintf("element count exceeds %d", MaxElements)}
	}

	data := make([]float64, rows*cols)
	nan := math.NaN()
	for i := range data {
		data[i] = nan
	}
	b := &Buffer{
		rows:     rows,
		cols:     cols,
		dataType: dt,
		dense:    mat.NewDense(rows, cols, data),
	}
	liveElements.Add(int64(rows * cols))
	return b, nil
}

// Free releases the storage. It is safe to call more than once and on nil.
func (b *Buffer) Free() {
	if b == nil || b.dense == nil {
		return
	}
	liveElements.Add(-int64(b.rows * b.cols))
	b.dense = nil
}

// Validate returns an InvalidBufferError naming op if b cannot be used
func (b *Buffer) Validate(op string) error {
	switch {
	case b == nil:
		return &InvalidBufferError{Op: op, Reason: "nil buffer"}
	case b.dense == nil:
		return &InvalidBufferError{Op: op, Reason: "storage released or never allocated"}
	case b.rows <= 0 || b.cols <= 0:
		return &InvalidBufferError{Op: op,
			Reason: fmt.Sprintf("non-positive dimensions %dx%d", b.rows, b.cols)}
	}
	return nil
}

// Dims returns the row and column counts
func (b *Buffer) Dims() (rows, cols int) {
	return b.rows, b.cols
}

// Len returns rows*cols
func (b *Buffer) Len() int {
	return b.rows * b.cols
}

// DataType returns the element type
func (b *Buffer) DataType() DataType {
	return b.dataType
}

// Index maps (r, c) to the linear row-major offset
func (b *Buffer) Index(r, c int) int {
	if r < 0 || r >= b.rows || c < 0 || c >= b.cols {
		panic(fmt.Sprintf("buffer: index (%d, %d) out of range %dx%d", r, c, b.rows, b.cols))
	}
	return r*b.cols + c
}

// At returns the element at (r, c)
func (b *Buffer) At(r, c int) float64 {
	return b.Raw()[b.Index(r, c)]
}

// Set stores v, quantized to the element type, at (r, c). Like an out of
// range index, a value the element type cannot hold exactly panics.
func (b *Buffer) Set(r, c int, v float64) {
	if err := b.dataType.CheckRange(v); err != nil {
		panic("buffer: " + err.Error())
	}
	b.Raw()[b.Index(r, c)] = b.dataType.Quantize(v)
}

// Raw returns the row-major backing slice. Writers must store values that are
// already quantized to the element type.
func (b *Buffer) Raw() []float64 {
	return b.dense.RawMatrix().Data
}

// Dense returns the host storage as a gonum matrix
func (b *Buffer) Dense() mat.Matrix {
	return b.dense
}

// Fill overwrites every element with v. An INT64 value beyond
// MaxExactInt64 returns a *RangeError and leaves the buffer untouched.
func (b *Buffer) Fill(v float64) error {
	if err := b.Validate("fill"); err != nil {
		return err
	}
	if err := b.dataType.CheckRange(v); err != nil {
		return err
	}
	q := b.dataType.Quantize(v)
	data := b.Raw()
	for i := range data {
		data[i] = q
	}
	return nil
}

// FillFunc sets every element (r, c) to f(r, c)
func (b *Buffer) FillFunc(f func(r, c int) float64) error {
	if err := b.Validate("fill"); err != nil {
		return err
	}
	data := b.Raw()
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			v := f(r, c)
			if err := b.dataType.CheckRange(v); err != nil {
				return fmt.Errorf("fill (%d, %d): %w", r, c, err)
			}
			data[r*b.cols+c] = b.dataType.Quantize(v)
		}
	}
	return nil
}

// AppendBytes appends the elements in their device representation
// (little-endian, element sized) to dst
func (b *Buffer) AppendBytes(dst []byte) []byte {
	for _, v := range b.Raw() {
		dst = appendElement(dst, b.dataType, v)
	}
	return dst
}

func appendElement(dst []byte, dt DataType, v float64) []byte {
	switch dt {
	case Float32:
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(v)))
	case INT32:
		return binary.LittleEndian.AppendUint32(dst, uint32(int32(v)))
	case INT64:
		return binary.LittleEndian.AppendUint64(dst, uint64(int64(v)))
	case Uint8:
		return append(dst, uint8(v))
	default:
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(v))
	}
}

// Checksum returns the xxh3 hash of the element bytes
func (b *Buffer) Checksum() (uint64, error) {
	if err := b.Validate("checksum"); err != nil {
		return 0, err
	}
	h := xxh3.New()
	row := make([]byte, 0, int64(b.cols)*b.dataType.Size())
	data := b.Raw()
	for r := 0; r < b.rows; r++ {
		row = row[:0]
		for _, v := range data[r*b.cols : (r+1)*b.cols] {
			row = appendElement(row, b.dataType, v)
		}
		if _, err := h.Write(row); err != nil {
			return 0, err
		}
	}
	return h.Sum64(), nil
}

// Print writes the buffer one row per line
func (b *Buffer) Print(w io.Writer) error {
	if err := b.Validate("print"); err != nil {
		return err
	}
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			sep := " "
			if c == b.cols-1 {
				sep = "\n"
			}
			if _, err := fmt.Fprintf(w, "%v%s", b.At(r, c), sep); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Buffer) String() string {
	if b == nil {
		return "Buffer(nil)"
	}
	return fmt.Sprintf("Buffer(%dx%d %s)", b.rows, b.cols, b.dataType)
}
