package utils

// Tail returns at most the last max elements of slice. A non-positive max returns
// the whole slice.
func Tail[T any](slice []T, max int) []T {
	if max <= 0 || len(slice) <= max {
		return slice
	}
	return slice[len(slice)-max:]
}
