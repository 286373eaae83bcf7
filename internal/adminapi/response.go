package adminapi

import (
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/talkincode/storefront/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Response is the envelope of every JSON reply.
type Response struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ListResponse is the envelope of paginated list replies.
type ListResponse struct {
	Code     string      `json:"code"`
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Code: "OK", Data: data})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, Response{Code: code, Message: message, Details: details})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, ListResponse{Code: "OK", Data: data, Total: total, Page: page, PageSize: pageSize})
}

// parsePagination accepts perPage and the legacy pageSize parameter.
func parsePagination(c echo.Context) (int, int) {
	page := cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	size := cast.ToInt(c.QueryParam("perPage"))
	if size == 0 {
		size = cast.ToInt(c.QueryParam("pageSize"))
	}
	if size < 1 || size > 500 {
		size = 20
	}
	return page, size
}

// pageOf returns the requested page of items.
func pageOf[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func listPaged[T any](c echo.Context, items []T) error {
	page, size := parsePagination(c)
	return paged(c, pageOf(items, page, size), int64(len(items)), page, size)
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return cast.ToInt64E(strings.TrimSpace(c.Param(name)))
}

// bindPatch reads the body as a partial update. The same body is decoded
// into payload and validated, so only well-formed fields reach the store.
func bindPatch(c echo.Context, payload interface{}) (store.Patch, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	patch := store.Patch{}
	if err := json.Unmarshal(body, &patch); err != nil {
		return nil, err
	}
	if payload != nil {
		if err := json.Unmarshal(body, payload); err != nil {
			return nil, err
		}
		if err := c.Validate(payload); err != nil {
			return nil, err
		}
	}
	return patch, nil
}

// bindCreate binds and validates a create payload.
func bindCreate(c echo.Context, payload interface{}) error {
	if err := c.Bind(payload); err != nil {
		return err
	}
	return c.Validate(payload)
}

// matches reports whether any of the fields contains q, case-insensitively.
func matches(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
