package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type AuditLogsResponse struct {
	Success bool                     `json:"success"`
	Logs    []usecase.AuditLogOutput `json:"logs"`
}

// admin は AdminRoleGuard 済みの /api/admin グループ
func (h *AdminOrderHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/orders", h.list)
	admin.POST("/orders", h.create)
	admin.GET("/orders/:id", h.detail)
	admin.PUT("/orders/:id", h.updateStatus)
	admin.POST("/orders/:id/cancel", h.cancel)
	admin.DELETE("/orders/:id", h.delete)
	admin.GET("/orders/:id/audit-logs", h.auditLogs)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	q, err := parseListQuery(c, true)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), actor, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) create(c echo.Context) error {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	var req AdminOrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.Create(c.Request().Context(), actor, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, OrderResponse{Success: true, Order: out})
}

func (h *AdminOrderHandler) detail(c echo.Context) error {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	out, err := h.uc.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, OrderResponse{Success: true, Order: out})
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	//操作した管理者（監査ログ用）
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.UpdateStatus(
		c.Request().Context(),
		actor,
		c.Param("id"),
		usecase.AdminUpdateOrderStatusInput{Status: req.Status},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OrderResponse{Success: true, Order: out})
}

func (h *AdminOrderHandler) cancel(c echo.Context) error {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	out, err := h.uc.Cancel(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, OrderResponse{Success: true, Order: out})
}

func (h *AdminOrderHandler) delete(c echo.Context) error {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	if err := h.uc.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "deleted"})
}

func (h *AdminOrderHandler) auditLogs(c echo.Context) error {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	logs, err := h.uc.AuditLogs(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, AuditLogsResponse{Success: true, Logs: logs})
}
