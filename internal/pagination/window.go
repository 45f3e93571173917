package pagination

// WindowSize is the number of page buttons the admin tables show.
const WindowSize = 5

// Window returns the visible page numbers for a pager: a window of size
// centered on current, clamped to [1, totalPages], shrinking from the end
// when near either boundary. All four admin tables share this exact shape.
func Window(current, totalPages, size int) []int {
	if totalPages < 1 || size < 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	start := current - size/2
	if start < 1 {
		start = 1
	}
	end := start + size - 1
	if end > totalPages {
		end = totalPages
		start = end - size + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
