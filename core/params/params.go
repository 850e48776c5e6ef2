package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type QueryParams struct {
	PageNumber int
	PageSize   int
}

// FromContext reads page/page_size query parameters, clamping them to sane
// bounds.
func FromContext(c echo.Context) QueryParams {
	p := QueryParams{PageNumber: 1, PageSize: defaultPageSize}

	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		p.PageNumber = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 {
		p.PageSize = v
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}
