package slice

// TruncateSafe returns at most n leading elements of s.
func TruncateSafe[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}

func Map[T, R any](s []T, fn func(T) R) []R {
	result := make([]R, 0, len(s))
	for _, v := range s {
		result = append(result, fn(v))
	}
	return result
}
