package shared

// Default and maximum page sizes of every list operation
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is the 1-based page a list operation asks for
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize clamps paging values into a usable range
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset of the page
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Paginated is one page of a list together with its paging metadata
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated wraps items, never returning a nil slice
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// MapPaginated converts the items of a page while keeping paging metadata
func MapPaginated[T, R any](p Paginated[T], fn func(T) R) Paginated[R] {
	out := make([]R, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return Paginated[R]{
		Items:      out,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}
