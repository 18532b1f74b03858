package ranking

// DefaultPageSize is the number of results shown per page.
const DefaultPageSize = 5

// Page returns page number (1-based) of items, clipped to the available
// items. Out-of-range pages and non-positive sizes yield nil.
func Page[T any](items []T, size, number int) []T {
	if size < 1 || number < 1 || len(items) == 0 {
		return nil
	}
	// (number-1)*size may overflow; bound the page index first.
	if number-1 > (len(items)-1)/size {
		return nil
	}
	start := (number - 1) * size
	end := start + min(size, len(items)-start)
	return items[start:end:end]
}

// TotalPages returns ceil(count/size), or 0 when there is nothing to page.
func TotalPages(count, size int) int {
	if count <= 0 || size < 1 {
		return 0
	}
	return count/size + min(count%size, 1)
}
