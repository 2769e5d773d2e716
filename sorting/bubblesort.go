package sorting

import "cmp"

// BubbleSort returns a sorted copy of s.
//
// It always makes len(s) full passes over the copy. There is no early exit
// when a pass makes no swaps, so the cost is quadratic for every input order.
func BubbleSort[T cmp.Ordered](s []T) []T {
	arr := make([]T, len(s))
	copy(arr, s)

	for range len(arr) {
		bubbleOnce(arr)
	}
	return arr
}

// bubbleOnce scans arr left to right and swaps each adjacent pair whose left
// element is not less than its right one.
func bubbleOnce[T cmp.Ordered](arr []T) {
	for i := 0; i+1 < len(arr); i++ {
		if arr[i] < arr[i+1] {
			continue
		}
		arr[i], arr[i+1] = arr[i+1], arr[i]
	}
}
