package entity

// ListQuery carries the free-text search and ordering of list endpoints.
// Ordering is a column name optionally prefixed by "-" for descending order.
type ListQuery struct {
	Search   string
	Ordering string
}
