package domain

const MaxPageSize = 100

// Page is one slice of a paged listing. Page numbers start at 1.
type Page[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int
}

// Offset returns the row offset for a 1-based page.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}
