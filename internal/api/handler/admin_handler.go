package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace-api/internal/api/metrics"
	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

// AdminHandler groups the administrator-only operations.
type AdminHandler struct {
	identity  ports.IdentityService
	approvals ports.ApprovalService
}

func NewAdminHandler(identity ports.IdentityService, approvals ports.ApprovalService) *AdminHandler {
	return &AdminHandler{identity: identity, approvals: approvals}
}

// Approve handles POST /v1/admin/accounts/:id/approve.
//
// @Summary      Approve a pending administrator
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  accountResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/accounts/{id}/approve [post]
func (h *AdminHandler) Approve(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	acct, err := h.approvals.Approve(c.Request().Context(), id, claims)
	if err != nil {
		return err
	}

	metrics.AdminApprovalsTotal.Inc()
	return c.JSON(http.StatusOK, toAccountResponse(acct))
}

// Delete handles DELETE /v1/admin/accounts/:id.
//
// @Summary      Delete an account
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  int  true  "Account ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/accounts/{id} [delete]
func (h *AdminHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.identity.DeleteAccount(c.Request().Context(), id, claims.Role); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByRole handles GET /v1/admin/accounts?role=.
//
// @Summary      List accounts by role
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role  query     string  true  "Role"
// @Success      200   {array}   accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/accounts [get]
func (h *AdminHandler) ListByRole(c echo.Context) error {
	role := domain.Role(c.QueryParam("role"))
	accounts, err := h.identity.ListByRole(c.Request().Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponses(accounts))
}
