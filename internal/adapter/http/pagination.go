package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pager reads page/page_size query parameters. Pages start at 1.
type Pager struct {
	DefaultSize int
	MaxSize     int
}

func (p Pager) parse(c echo.Context) (page, size int, ok bool, err error) {
	page, size = 1, p.DefaultSize
	if size <= 0 {
		size = 20
	}
	if raw := c.QueryParam("page"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 1 {
			return 0, 0, false, badRequest(c, "page must be a positive integer")
		}
		page = n
	}
	if raw := c.QueryParam("page_size"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 1 {
			return 0, 0, false, badRequest(c, "page_size must be a positive integer")
		}
		size = n
	}
	if p.MaxSize > 0 && size > p.MaxSize {
		size = p.MaxSize
	}
	return page, size, true, nil
}

// paginate slices items as skip (page-1)*size, take size.
func paginate[T any](items []T, page, size int) Page[T] {
	out := Page[T]{
		Data:       []T{},
		Pagination: Pagination{Page: page, PageSize: size, TotalCount: len(items)},
	}
	if page < 1 || size < 1 {
		return out
	}
	// compare page counts before multiplying so a huge page cannot overflow start
	pages := len(items) / size
	if len(items)%size != 0 {
		pages++
	}
	if page > pages {
		return out
	}
	start := (page - 1) * size
	out.Data = items[start : start+min(size, len(items)-start)]
	return out
}

// listPage validates the paging parameters, runs fetch and writes one page.
func listPage[T any](c echo.Context, p Pager, fetch func() ([]T, error)) error {
	page, size, ok, err := p.parse(c)
	if !ok {
		return err
	}
	items, err := fetch()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, paginate(items, page, size))
}
