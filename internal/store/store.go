// Package store holds per-resource state containers backing the admin
// tables: the current page of items, the last error, and the filter and
// pagination state the next fetch merges with.
package store

const (
	DefaultPageIndex = 1
	DefaultPageSize  = 10
)

func normalizePage(pageIndex, pageSize int) (int, int) {
	if pageIndex < 1 {
		pageIndex = DefaultPageIndex
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = DefaultPageSize
	}
	return pageIndex, pageSize
}
