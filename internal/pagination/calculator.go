package pagination

// TotalPages returns ceil(total / size). An empty result set has zero pages;
// use PageCount when a display value is needed.
//
// Examples:
//   - Total 0, Size 12 -> 0
//   - Total 12, Size 12 -> 1
//   - Total 14, Size 12 -> 2
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// PageCount is TotalPages floored at 1, the upper bound for the current page.
func PageCount(total, size int) int {
	if n := TotalPages(total, size); n > 1 {
		return n
	}
	return 1
}

// Bounds returns the half-open [start, end) range of page (1-based) within a
// sequence of total items.
func Bounds(page, size, total int) (int, int) {
	start := (page - 1) * size
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}

// Clamp keeps page inside [1, max(totalPages, 1)].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Chunk splits items into consecutive rows of size, preserving order. Every
// row has size elements except possibly the last.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	rows := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		rows = append(rows, items[i:end:end])
	}
	return rows
}
