package query

// PageSize is the number of transactions per list page.
const PageSize = 10

// PageCount returns the number of pages needed for n matches. It is at
// least 1 so an empty list still has a page to show.
func PageCount(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// Paginate returns the 1-indexed page of list. Pages outside the range are
// empty rather than an error.
func Paginate[T any](list []T, page int) []T {
	if page < 1 {
		return []T{}
	}
	start := (page - 1) * PageSize
	if start >= len(list) {
		return []T{}
	}
	end := min(start+PageSize, len(list))
	return list[start:end:end]
}

// ClampPage keeps page within [1, PageCount(n)].
func ClampPage(page, n int) int {
	return max(1, min(page, PageCount(n)))
}
