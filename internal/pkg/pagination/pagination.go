package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params is a 1-based page request.
type Params struct {
	Page     int
	PageSize int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Normalize clamps out of range values to the defaults.
func (p Params) Normalize() Params {
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

// FromQuery reads page and pageSize query parameters.
func FromQuery(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("pageSize"))
	return Params{Page: page, PageSize: size}.Normalize()
}
