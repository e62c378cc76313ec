package browse

// DefaultPageSize is the 3x3 image grid. It is a configuration value, not an
// algorithmic constraint; the server config may override it.
const DefaultPageSize = 9

// Paginate slices items for one page of a fixed-size grid.
//
// totalPages is max(1, ceil(len(items)/pageSize)), so an empty list still has
// exactly one (empty) page. An out-of-range requested page is clamped into
// [1, totalPages] rather than treated as an error; the page actually served
// is returned as effective. Concatenating every page in order reproduces
// items exactly once.
func Paginate[T any](items []T, pageSize, requested int) (page []T, effective, totalPages int) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	totalPages = (len(items) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	effective = requested
	if effective < 1 {
		effective = 1
	}
	if effective > totalPages {
		effective = totalPages
	}

	start := (effective - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], effective, totalPages
}
