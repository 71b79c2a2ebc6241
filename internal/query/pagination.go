package query

import "fault-service/internal/model"

type PageSize int

const (
	PageSize4  PageSize = 4
	PageSize5  PageSize = 5
	PageSize10 PageSize = 10

	DefaultPageSize = PageSize5
)

// PageSizes lists the allowed sizes in ascending order.
var PageSizes = []PageSize{PageSize4, PageSize5, PageSize10}

// ParsePageSize maps a requested size onto the allow-list; anything else,
// including zero for "not given", yields the default.
func ParsePageSize(n int) (PageSize, bool) {
	switch PageSize(n) {
	case PageSize4, PageSize5, PageSize10:
		return PageSize(n), true
	default:
		return DefaultPageSize, false
	}
}

type PageRequest struct {
	Page    int
	PerPage int
}

// ResolvePage clamps the request against total matching rows. Page always
// lies in [1, max(totalPages, 1)].
func ResolvePage(req PageRequest, total int64) model.PageInfo {
	size, _ := ParsePageSize(req.PerPage)
	perPage := int(size)

	page := req.Page
	if page < 1 {
		page = 1
	}

	if total < 0 {
		total = 0
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	switch {
	case totalPages == 0:
		page = 1
	case page > totalPages:
		page = totalPages
	}

	return model.PageInfo{
		Page:       page,
		PerPage:    perPage,
		Offset:     (page - 1) * perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}
