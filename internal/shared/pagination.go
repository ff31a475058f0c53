package shared

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Pagination carries normalized limit/offset values for listings.
type Pagination struct {
	Limit  int
	Offset int
}

// NewPagination clamps raw limit/offset values to sane bounds.
func NewPagination(limit, offset int) Pagination {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}
