package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace-api/internal/api/metrics"
	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

type AuthHandler struct {
	identity ports.IdentityService
	session  ports.SessionService
}

func NewAuthHandler(identity ports.IdentityService, session ports.SessionService) *AuthHandler {
	return &AuthHandler{identity: identity, session: session}
}

// Register creates a new account. Asking for the admin role without the
// elevation secret yields a pending_admin account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerAccountRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	acct, err := h.identity.RegisterAccount(c.Request().Context(), toRegisterAccountInput(req))
	if err != nil {
		return err
	}

	metrics.AccountsRegisteredTotal.WithLabelValues(string(acct.Role)).Inc()
	return c.JSON(http.StatusCreated, toAccountResponse(acct))
}

// SendCode issues a one-time login code to a mobile number.
//
// @Summary      Send a one-time login code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      sendCodeRequest  true  "Mobile number"
// @Success      202   {object}  statusResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/send-code [post]
func (h *AuthHandler) SendCode(c echo.Context) error {
	var req sendCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.session.SendCode(c.Request().Context(), req.MobileNumber); err != nil {
		metrics.CodesIssuedTotal.WithLabelValues("failed").Inc()
		return err
	}

	metrics.CodesIssuedTotal.WithLabelValues("sent").Inc()
	return c.JSON(http.StatusAccepted, statusResponse{Status: "code sent"})
}

// Login exchanges a mobile number and one-time code for a bearer token.
//
// @Summary      Login with a one-time code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Mobile number and code"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.session.Authenticate(c.Request().Context(), req.MobileNumber, req.Code)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me returns the identity carried by the bearer token. The role is the one
// captured at login, which is what authorization decisions use.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  identityResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identityResponse{
		MobileNumber: claims.Subject,
		Role:         string(claims.Role),
		ExpiresAt:    claims.ExpiresAt,
	})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, domain.ErrNotFound):
		return "unknown_account"
	default:
		return "error"
	}
}
