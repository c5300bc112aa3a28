package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

// AccountHandler serves profile reads and updates. Only the owner or an
// administrator may touch an account.
type AccountHandler struct {
	identity ports.IdentityService
}

func NewAccountHandler(identity ports.IdentityService) *AccountHandler {
	return &AccountHandler{identity: identity}
}

// Get handles GET /v1/accounts/:id.
//
// @Summary      Get an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  accountResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/accounts/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	acct, err := h.authorized(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(acct))
}

// Update handles PATCH /v1/accounts/:id. Role and mobile number cannot be changed here.
//
// @Summary      Update an account profile
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Account ID"
// @Param        body  body      updateAccountRequest  true  "Profile fields"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/accounts/{id} [patch]
func (h *AccountHandler) Update(c echo.Context) error {
	var req updateAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	acct, err := h.authorized(c)
	if err != nil {
		return err
	}

	updated, err := h.identity.UpdateAccount(c.Request().Context(), acct.ID, toAccountUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(updated))
}

func (h *AccountHandler) authorized(c echo.Context) (*domain.Account, error) {
	claims, err := ctxClaims(c)
	if err != nil {
		return nil, err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return nil, err
	}

	acct, err := h.identity.GetAccount(c.Request().Context(), domain.AccountLookup{ID: id})
	if err != nil {
		return nil, err
	}
	if !claims.IsAdmin() && acct.MobileNumber != claims.Subject {
		return nil, domain.ErrForbidden
	}
	return acct, nil
}
