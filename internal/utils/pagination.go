// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

// HasNextPage reports whether another zero-based page exists after page,
// given the page size and the total item count.
//
// Example:
//
//	utils.HasNextPage(0, 5, 12) // true, pages 1 and 2 follow
//	utils.HasNextPage(2, 5, 12) // false
func HasNextPage(page, pageSize int, total int64) bool {
	if page < 0 || pageSize <= 0 {
		return false
	}
	return int64(page+1)*int64(pageSize) < total
}

// TotalPages returns the number of pages required to show total items.
// Zero totals and non-positive page sizes yield zero pages.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
