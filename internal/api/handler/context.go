package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace-api/internal/api/middleware"
	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

// ctxClaims extracts the claims injected by the Auth middleware. A missing
// subject means the middleware did not run on this route.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.Subject == "" {
		return domain.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// callerAccount resolves the account behind the token subject.
func callerAccount(c echo.Context, identity ports.IdentityService) (*domain.Account, domain.Claims, error) {
	claims, err := ctxClaims(c)
	if err != nil {
		return nil, claims, err
	}
	acct, err := identity.GetAccount(c.Request().Context(), domain.AccountLookup{MobileNumber: claims.Subject})
	if err != nil {
		return nil, claims, err
	}
	return acct, claims, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidArgument, name)
	}
	return id, nil
}

// bindAndValidate binds the body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
