package repositories

import "gorm.io/gorm"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type PageRequest struct {
	Page    int
	PerPage int
}

func (p PageRequest) normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Page is a slice of results plus the numbers a client needs to walk the rest.
type Page[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// Paginate counts q, then loads the requested window of it into a Page. q must not carry
// preloads of its own; they are applied to the window query only.
func Paginate[T any](q *gorm.DB, req PageRequest, preloads ...string) (*Page[T], error) {
	req = req.normalize()

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	out := make([]T, 0, req.PerPage)
	offset := (req.Page - 1) * req.PerPage
	if err := withPreloads(q, preloads).Offset(offset).Limit(req.PerPage).Find(&out).Error; err != nil {
		return nil, err
	}

	last := int((total + int64(req.PerPage) - 1) / int64(req.PerPage))
	if last < 1 {
		last = 1
	}
	return &Page[T]{Data: out, CurrentPage: req.Page, PerPage: req.PerPage, Total: total, LastPage: last}, nil
}
