package services

import "gorm.io/gorm"

const DefaultPageSize = 25

// Page is one window of an ordered result set. Out-of-range pages carry an
// empty Items slice rather than an error.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
	HasNext  bool  `json:"has_next"`
	HasPrev  bool  `json:"has_prev"`
	NextNum  int   `json:"next_num,omitempty"`
	PrevNum  int   `json:"prev_num,omitempty"`
}

func (p *Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

func newPage[T any](items []T, page, pageSize int, total int64) *Page[T] {
	p := &Page[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasPrev:  page > 1,
	}
	p.HasNext = int64(page) < int64(p.TotalPages())
	if p.HasNext {
		p.NextNum = page + 1
	}
	if p.HasPrev {
		p.PrevNum = page - 1
	}
	return p
}

// paginate counts q and then fetches the requested window. The ordering
// (and any preloads) are applied by finish so the count query stays plain;
// offset and limit are applied after ordering, in the same statement.
func paginate[T any](q *gorm.DB, page, pageSize int, finish func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	page, pageSize = normalizePage(page, pageSize)
	base := q.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	items := make([]T, 0)
	if int64(page-1) < (total+int64(pageSize)-1)/int64(pageSize) {
		find := base
		if finish != nil {
			find = finish(find)
		}
		if err := find.Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error; err != nil {
			return nil, err
		}
	}

	return newPage(items, page, pageSize, total), nil
}
