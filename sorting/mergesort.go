package sorting

import "cmp"

// MergeSort returns a sorted copy of s.
//
// The halves handed to the recursive calls are sub-slices of s, but nothing
// below writes through them: leaves are copied and every merge allocates.
func MergeSort[T cmp.Ordered](s []T) []T {
	if len(s) < 2 {
		result := make([]T, len(s))
		copy(result, s)
		return result
	}

	mid := len(s) / 2
	left := MergeSort(s[:mid])
	right := MergeSort(s[mid:])

	return Merge(left, right)
}

// Merge combines two sorted slices into a new sorted slice.
//
// An element is taken from left only when it is strictly less than the head
// of right, so equal elements come out of right first. The result is not
// stable.
func Merge[T cmp.Ordered](left, right []T) []T {
	result := make([]T, 0, len(left)+len(right))
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		if left[i] < right[j] {
			result = append(result, left[i])
			i++
		} else {
			result = append(result, right[j])
			j++
		}
	}

	// one side is exhausted; the other is already in order
	result = append(result, left[i:]...)
	result = append(result, right[j:]...)

	return result
}
