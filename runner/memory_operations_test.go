package runner

import (
	"github.com/notargets/kernelcheck/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestInt64ToHost(t *testing.T) {
	t.Run("ExactRange", func(t *testing.T) {
		data := make([]float64, 3)
		deviceData := []int64{buffer.MaxExactInt64, -buffer.MaxExactInt64, 20}
		require.NoError(t, int64ToHost(data, deviceData))
		assert.Equal(t, []float64{buffer.MaxExactInt64, -buffer.MaxExactInt64, 20}, data)
	})

	// 2^53+1 and 2^53 round to the same float64; accepting the readback
	// would let a wrong kernel pass an exact comparison
	t.Run("BeyondExactRange", func(t *testing.T) {
		data := make([]float64, 2)
		err := int64ToHost(data, []int64{20, buffer.MaxExactInt64 + 1})
		assert.ErrorIs(t, err, buffer.ErrOutOfRange)
		assert.Contains(t, err.Error(), "element 1")

		err = int64ToHost(data, []int64{-buffer.MaxExactInt64 - 1})
		assert.ErrorIs(t, err, buffer.ErrOutOfRange)
	})
}
