package runtable

// PageSize is the number of rows shown per page
const PageSize = 20

// GlobalIndex is a row position within the whole collection
type GlobalIndex int

// NoSelection means no row is selected
const NoSelection GlobalIndex = -1

// PageIndex is a row position within the current page
type PageIndex int

// Global converts a page-local index on the given 1-indexed page
func (i PageIndex) Global(page int) GlobalIndex {
	return GlobalIndex(pageStart(page) + int(i))
}

// TotalPages returns the page count for n rows, never less than 1
func TotalPages(n int) int {
	return max(1, (n+PageSize-1)/PageSize)
}

// ClampPage bounds page to [1, total]
func ClampPage(page, total int) int {
	return max(1, min(total, page))
}

func pageStart(page int) int {
	return (page - 1) * PageSize
}

// pageWindow returns the [start, end) bounds of page within n rows
func pageWindow(page, n int) (int, int) {
	start := min(pageStart(page), n)
	end := min(start+PageSize, n)
	return start, end
}
