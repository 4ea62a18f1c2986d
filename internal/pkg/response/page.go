package response

// PageResponse is the standard wrapper for list endpoints.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewPageResponse converts each record with toItem and wraps the result.
// Items is never nil, so an empty page encodes as [] rather than null.
func NewPageResponse[S, T any](records []S, toItem func(S) T, page, pageSize, total int) PageResponse[T] {
	items := make([]T, len(records))
	for i, r := range records {
		items[i] = toItem(r)
	}

	return PageResponse[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
}
