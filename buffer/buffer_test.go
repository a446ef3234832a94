package buffer

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate_Dimensions(t *testing.T) {
	testCases := []struct {
		name       string
		rows, cols int
		ok         bool
	}{
		{"square", 4, 4, true},
		{"row_vector", 1, 17, true},
		{"column_vector", 17, 1, true},
		{"zero_rows", 0, 4, false},
		{"zero_cols", 4, 0, false},
		{"negative_rows", -3, 4, false},
		{"negative_cols", 4, -1, false},
		{"too_many_elements", int(MaxElements), 2, false},
		{"product_above_limit", int(MaxElements / 2), 3, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Allocate(tc.rows, tc.cols, Float64)
			if !tc.ok {
				require.Error(t, err)
				assert.Nil(t, b)
				assert.True(t, errors.Is(err, ErrAllocation))
				var allocErr *AllocationError
				require.True(t, errors.As(err, &allocErr))
				assert.Equal(t, tc.rows, allocErr.Rows)
				assert.Equal(t, tc.cols, allocErr.Cols)
				return
			}
			require.NoError(t, err)
			defer b.Free()

			rows, cols := b.Dims()
			assert.Equal(t, tc.rows, rows)
			assert.Equal(t, tc.cols, cols)
			assert.Len(t, b.Raw(), tc.rows*tc.cols)
			assert.Equal(t, tc.rows*tc.cols, b.Len())
		})
	}
}

func TestAllocate_UnknownDataType(t *testing.T) {
	_, err := Allocate(2, 2, DataType(42))
	assert.ErrorIs(t, err, ErrAllocation)
}

func TestAllocate_NotZeroed(t *testing.T) {
	b, err := Allocate(3, 5, Float64)
	require.NoError(t, err)
	defer b.Free()

	for _, v := range b.Raw() {
		assert.True(t, math.IsNaN(v), "fresh storage should be poisoned, got %v", v)
	}
}

func TestIndex_RowMajor(t *testing.T) {
	b, err := Allocate(3, 7, Float64)
	require.NoError(t, err)
	defer b.Free()

	for r := 0; r < 3; r++ {
		for c := 0; c < 7; c++ {
			assert.Equal(t, r*7+c, b.Index(r, c))
		}
	}
	assert.Panics(t, func() { b.Index(3, 0) })
	assert.Panics(t, func() { b.Index(0, 7) })
	assert.Panics(t, func() { b.Index(-1, 0) })
}

func TestFill_EveryElement(t *testing.T) {
	shapes := [][2]int{{1, 1}, {4, 4}, {2, 9}, {31, 3}}
	values := []float64{0, 20, 99, -7.5}
	for _, shape := range shapes {
		for _, v := range values {
			b, err := Allocate(shape[0], shape[1], Float64)
			require.NoError(t, err)
			require.NoError(t, b.Fill(v))
			for r := 0; r < shape[0]; r++ {
				for c := 0; c < shape[1]; c++ {
					if b.At(r, c) != v {
						t.Fatalf("%dx%d fill %v: element (%d, %d) = %v", shape[0], shape[1], v, r, c, b.At(r, c))
					}
				}
			}
			b.Free()
		}
	}
}

func TestFill_InvalidBuffer(t *testing.T) {
	var nilBuf *Buffer
	err := nilBuf.Fill(1)
	assert.ErrorIs(t, err, ErrInvalidBuffer)

	b, err := Allocate(2, 2, Float64)
	require.NoError(t, err)
	b.Free()
	err = b.Fill(1)
	var invalid *InvalidBufferError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "fill", invalid.Op)

	assert.ErrorIs(t, (&Buffer{}).Fill(1), ErrInvalidBuffer)
}

func TestFill_QuantizesToElementType(t *testing.T) {
	testCases := []struct {
		dt   DataType
		in   float64
		want float64
	}{
		{Uint8, 20, 20},
		{Uint8, 300, 44},
		{Uint8, -1, 255},
		{INT32, 2.9, 2},
		{INT32, -2.9, -2},
		{INT64, 1e10, 1e10},
		{Float32, 0.1, float64(float32(0.1))},
		{Float64, 0.1, 0.1},
	}
	for _, tc := range testCases {
		t.Run(tc.dt.String(), func(t *testing.T) {
			b, err := Allocate(2, 3, tc.dt)
			require.NoError(t, err)
			defer b.Free()

			require.NoError(t, b.Fill(tc.in))
			assert.Equal(t, tc.want, b.At(1, 2))
			b.Set(0, 0, tc.in)
			assert.Equal(t, tc.want, b.At(0, 0))
		})
	}
}

func TestFillFunc(t *testing.T) {
	b, err := Allocate(3, 4, INT32)
	require.NoError(t, err)
	defer b.Free()

	require.NoError(t, b.FillFunc(func(r, c int) float64 { return float64(r*10 + c) }))
	assert.Equal(t, 0.0, b.At(0, 0))
	assert.Equal(t, 23.0, b.At(2, 3))
	assert.Equal(t, 12.0, b.Dense().At(1, 2))
}

func TestFree_TracksLiveElements(t *testing.T) {
	before := LiveElements()

	a, err := Allocate(10, 10, Float64)
	require.NoError(t, err)
	b, err := Allocate(3, 4, Uint8)
	require.NoError(t, err)
	assert.Equal(t, before+112, LiveElements())

	a.Free()
	a.Free()
	assert.Equal(t, before+12, LiveElements())
	b.Free()
	assert.Equal(t, before, LiveElements())

	assert.ErrorIs(t, a.Validate("test"), ErrInvalidBuffer)
}

func TestChecksum(t *testing.T) {
	a, err := Allocate(8, 8, Uint8)
	require.NoError(t, err)
	defer a.Free()
	b, err := Allocate(8, 8, Uint8)
	require.NoError(t, err)
	defer b.Free()

	require.NoError(t, a.Fill(20))
	require.NoError(t, b.Fill(20))
	ca, err := a.Checksum()
	require.NoError(t, err)
	cb, err := b.Checksum()
	require.NoError(t, err)
	assert.Equal(t, ca, cb)

	b.Set(7, 7, 99)
	cb, err = b.Checksum()
	require.NoError(t, err)
	assert.NotEqual(t, ca, cb)

	assert.Len(t, a.AppendBytes(nil), 64)
}

func TestPrint(t *testing.T) {
	b, err := Allocate(2, 3, INT32)
	require.NoError(t, err)
	defer b.Free()
	require.NoError(t, b.FillFunc(func(r, c int) float64 { return float64(r + c) }))

	var out bytes.Buffer
	require.NoError(t, b.Print(&out))
	assert.Equal(t, "0 1 2\n1 2 3\n", out.String())
}

func TestParseDataType(t *testing.T) {
	for dt := Float32; dt <= Uint8; dt++ {
		got, err := ParseDataType(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt, got)
	}
	_, err := ParseDataType("complex128")
	assert.Error(t, err)
}

func TestINT64_ExactRange(t *testing.T) {
	b, err := Allocate(2, 2, INT64)
	require.NoError(t, err)
	defer b.Free()

	require.NoError(t, b.Fill(MaxExactInt64))
	assert.Equal(t, float64(MaxExactInt64), b.At(1, 1))
	require.NoError(t, b.Fill(-MaxExactInt64))
	assert.Equal(t, float64(-MaxExactInt64), b.At(0, 0))

	for _, v := range []float64{MaxExactInt64 * 2, -MaxExactInt64 * 2, 1e19, math.Inf(1), math.NaN()} {
		err := b.Fill(v)
		assert.ErrorIs(t, err, ErrOutOfRange, "%v", v)
		var rangeErr *RangeError
		require.True(t, errors.As(err, &rangeErr))
		assert.Equal(t, INT64, rangeErr.DataType)
	}
	assert.Equal(t, float64(-MaxExactInt64), b.At(0, 0), "rejected fill must not write")

	err = b.FillFunc(func(r, c int) float64 {
		if r == 1 && c == 0 {
			return 1e19
		}
		return 1
	})
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.Panics(t, func() { b.Set(0, 0, 1e19) })

	// Other element types have no exactness limit on the host copy
	assert.True(t, Float64.InRange(1e19))
	assert.True(t, INT32.InRange(1e19))
}

func TestQuantize_INT64StaysInRange(t *testing.T) {
	for _, v := range []float64{1e19, math.MaxInt64, -1e19, math.Inf(1), math.Inf(-1)} {
		q := INT64.Quantize(v)
		assert.LessOrEqual(t, q, float64(MaxExactInt64), "%v", v)
		assert.GreaterOrEqual(t, q, float64(-MaxExactInt64), "%v", v)
	}
	assert.Equal(t, 0.0, INT64.Quantize(math.NaN()))
	assert.Equal(t, -7.0, INT64.Quantize(-7.9))
}
