package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type OrderResponse struct {
	Success bool                `json:"success"`
	Order   usecase.OrderOutput `json:"order"`
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorResponse{Success: false, Error: msg})
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return errorJSON(c, he.Status, he.Message)
	}

	//500
	return errorJSON(c, http.StatusInternalServerError, "internal error")
}

// page/limit/status/sortBy/sortOrder（とadminのsearch/customerId）を読む
func parseListQuery(c echo.Context, admin bool) (usecase.OrderListQuery, error) {
	q := usecase.OrderListQuery{
		Status:    c.QueryParam("status"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
		Page:      1,
		Limit:     10,
	}

	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return q, usecase.NewHTTPError(http.StatusBadRequest, "invalid page")
		}
		q.Page = p
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return q, usecase.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		q.Limit = l
	}

	if admin {
		q.Search = c.QueryParam("search")
		if v := c.QueryParam("customerId"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return q, usecase.NewHTTPError(http.StatusBadRequest, "invalid customerId")
			}
			q.CustomerID = &id
		}
	}
	return q, nil
}
