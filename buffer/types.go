package buffer

import (
	"fmt"
	"math"
)

// DataType represents the element type a kernel reads and writes
type DataType int

const (
	Float32 DataType = iota + 1
	Float64
	INT32
	INT64
	Uint8
)

// Valid reports whether dt is a known element type
func (dt DataType) Valid() bool {
	return dt >= Float32 && dt <= Uint8
}

// Size returns the size in bytes of one element
func (dt DataType) Size() int64 {
	switch dt {
	case Float32, INT32:
		return 4
	case Float64, INT64:
		return 8
	case Uint8:
		return 1
	default:
		return 8
	}
}

// CName returns the C type name used in generated kernel source
func (dt DataType) CName() string {
	switch dt {
	case Float32:
		return "float"
	case Float64:
		return "double"
	case INT32:
		return "int"
	case INT64:
		return "long"
	case Uint8:
		return "unsigned char"
	default:
		return "double"
	}
}

// IsFloat reports whether dt is a floating point type
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case INT32:
		return "int32"
	case INT64:
		return "int64"
	case Uint8:
		return "uint8"
	default:
		return fmt.Sprintf("DataType(%d)", int(dt))
	}
}

// ParseDataType maps a name as printed by String back to a DataType
func ParseDataType(name string) (DataType, error) {
	for dt := Float32; dt <= Uint8; dt++ {
		if dt.String() == name {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", name)
}

// MaxExactInt64 is the largest INT64 magnitude the float64 host copy holds
// exactly. INT64 elements beyond it are rejected rather than rounded.
const MaxExactInt64 = 1 << 53

// InRange reports whether v, truncated toward zero, can be held exactly by an
// element of type dt. Only INT64 has values the host copy cannot represent.
func (dt DataType) InRange(v float64) bool {
	if dt != INT64 {
		return true
	}
	t := math.Trunc(v)
	return t >= -MaxExactInt64 && t <= MaxExactInt64
}

// CheckRange returns a *RangeError when v cannot be held exactly by dt
func (dt DataType) CheckRange(v float64) error {
	if dt.InRange(v) {
		return nil
	}
	return &RangeError{Value: v, DataType: dt}
}

// Quantize converts v to the value an element of type dt actually holds.
// INT32 and Uint8 truncate toward zero and wrap like a C cast of an in-range
// integer, so host values agree with whatever a device kernel stores into the
// same element. INT64 truncates and clamps to +/-MaxExactInt64; callers that
// need exactness check InRange first.
func (dt DataType) Quantize(v float64) float64 {
	switch dt {
	case Float32:
		return float64(float32(v))
	case INT32:
		return float64(int32(toInt64(v)))
	case INT64:
		return float64(max(-MaxExactInt64, min(MaxExactInt64, toInt64(v))))
	case Uint8:
		return float64(uint8(toInt64(v)))
	default:
		return v
	}
}

// toInt64 truncates v toward zero, saturating at the int64 limits
func toInt64(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= 1<<63:
		return math.MaxInt64
	case v < -(1 << 63):
		return math.MinInt64
	}
	return int64(v)
}
