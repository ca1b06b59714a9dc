package profiling

// Mode returns the most frequent value and its count. Ties go to the value
// encountered first. ok is false for an empty input.
func Mode[T comparable](values []T) (mode T, count int, ok bool) {
	counts := make(map[T]int, len(values))
	order := make([]T, 0, len(values))
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	for _, v := range order {
		if counts[v] > count {
			mode, count, ok = v, counts[v], true
		}
	}
	return mode, count, ok
}
