package query

// PaginationMeta describes one page of a result set.
// Invariants: totalPages = ceil(total/limit), hasNext = page < totalPages,
// hasPrev = page > 1. They hold for total = 0 as well.
type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// PaginatedResult is the envelope every list-style read returns.
type PaginatedResult[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// Paginate computes page metadata. page and limit must already be validated
// positive integers; total is a non-negative count.
func Paginate(total int64, page, limit int) PaginationMeta {
	var totalPages int64
	if total > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return PaginationMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    int64(page) < totalPages,
		HasPrev:    page > 1,
	}
}
