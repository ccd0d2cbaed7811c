package graph

import "github.com/cwbudde/algo-synth/dsp/core"

// Buffer is the read-only result of one sampling call: a logical sequence of
// exactly Len() items. It is either materialized (backed by a slice owned by
// the producing node, valid until that node is sampled again) or constant
// (one repeated value, independent of batch size).
type Buffer[T any] struct {
	n        int
	constant bool
	value    T
	data     []T
}

// Constant returns a buffer of n repeated values without allocating.
func Constant[T any](value T, n int) Buffer[T] {
	if n < 0 {
		n = 0
	}

	return Buffer[T]{n: n, constant: true, value: value}
}

// FromSlice wraps data as a materialized buffer without copying.
func FromSlice[T any](data []T) Buffer[T] {
	return Buffer[T]{n: len(data), data: data}
}

// Len returns the number of logical elements.
func (b Buffer[T]) Len() int { return b.n }

// At returns the element at index i. For constant buffers any index in
// range returns the repeated value.
func (b Buffer[T]) At(i int) T {
	if b.constant {
		if i < 0 || i >= b.n {
			panic("graph: buffer index out of range")
		}

		return b.value
	}

	return b.data[i]
}

// Constant reports the repeated value when the buffer is constant.
func (b Buffer[T]) Constant() (T, bool) {
	return b.value, b.constant
}

// Data returns the backing slice when the buffer is materialized.
func (b Buffer[T]) Data() ([]T, bool) {
	if b.constant {
		return nil, false
	}

	return b.data, true
}

// CopyTo materializes the buffer into dst, reusing its capacity, and
// returns the resulting slice of length Len().
func (b Buffer[T]) CopyTo(dst []T) []T {
	dst = core.EnsureLen(dst, b.n)
	if b.constant {
		core.Fill(dst, b.value)
		return dst
	}

	copy(dst, b.data)

	return dst
}

// AppendTo appends all elements to dst and returns the extended slice.
func (b Buffer[T]) AppendTo(dst []T) []T {
	if b.constant {
		for i := 0; i < b.n; i++ {
			dst = append(dst, b.value)
		}

		return dst
	}

	return append(dst, b.data...)
}
