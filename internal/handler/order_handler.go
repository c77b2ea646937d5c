package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type OrderCreatedResponse struct {
	Success bool                 `json:"success"`
	Order   usecase.OrderSummary `json:"order"`
}

// g は認証済みの /api グループ。createにだけ回数制限をかける。
func (h *OrderHandler) RegisterRoutes(g *echo.Group, createLimit echo.MiddlewareFunc) {
	g.POST("/orders", h.create, createLimit)
	g.GET("/orders", h.list)
	g.GET("/orders/:id", h.detail)
}

func (h *OrderHandler) create(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), id, req.toInput())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, OrderCreatedResponse{Success: true, Order: out.Summary()})
}

func (h *OrderHandler) list(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	q, err := parseListQuery(c, false)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), id, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	out, err := h.uc.GetMyOrderDetail(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, OrderResponse{Success: true, Order: out})
}
