package core

// EnsureLen returns a slice with the requested length, reusing buf capacity
// if possible. Contents are unspecified; callers overwrite every element.
func EnsureLen[T any](buf []T, n int) []T {
	if n <= 0 {
		return buf[:0]
	}

	if cap(buf) >= n {
		return buf[:n]
	}

	return make([]T, n)
}

// Zero sets all values in buf to the zero value of T.
func Zero[T any](buf []T) {
	var zero T
	for i := range buf {
		buf[i] = zero
	}
}

// Fill sets all values in buf to v.
func Fill[T any](buf []T, v T) {
	for i := range buf {
		buf[i] = v
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto[T any](dst, src []T) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}

	copy(dst[:n], src[:n])

	return n
}
