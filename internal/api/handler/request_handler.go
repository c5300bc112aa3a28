package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace-api/internal/api/metrics"
	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

// RequestHandler serves request submission and lookup. The caller owns what
// it submits; administrators see every request.
type RequestHandler struct {
	requests ports.RequestService
	identity ports.IdentityService
}

func NewRequestHandler(requests ports.RequestService, identity ports.IdentityService) *RequestHandler {
	return &RequestHandler{requests: requests, identity: identity}
}

// Submit handles POST /v1/requests.
//
// @Summary      Submit a request
// @Description  The request is stored only when at least one executor serves its category.
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitRequestRequest  true  "Request details"
// @Success      201   {object}  requestResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/requests [post]
func (h *RequestHandler) Submit(c echo.Context) error {
	var req submitRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	owner, _, err := callerAccount(c, h.identity)
	if err != nil {
		return err
	}

	matched, err := h.requests.SubmitRequest(c.Request().Context(), toSubmitRequestInput(req, &owner.ID))
	if err != nil {
		if errors.Is(err, domain.ErrNoExecutorsAvailable) {
			metrics.RequestsSubmittedTotal.WithLabelValues("no_executors").Inc()
		}
		return err
	}

	metrics.RequestsSubmittedTotal.WithLabelValues("matched").Inc()
	metrics.MatchedExecutors.Observe(float64(len(matched.Executors)))
	return c.JSON(http.StatusCreated, toRequestResponse(matched))
}

// Get handles GET /v1/requests/:id.
//
// @Summary      Get a request with its matching executors
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  requestResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/requests/{id} [get]
func (h *RequestHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	caller, claims, err := callerAccount(c, h.identity)
	if err != nil {
		return err
	}

	matched, err := h.requests.GetRequest(c.Request().Context(), id)
	if err != nil {
		return err
	}
	// Other callers' requests look missing so ids cannot be probed.
	if !claims.IsAdmin() && !ownedBy(matched.Request, caller.ID) {
		return domain.ErrRequestNotFound
	}
	return c.JSON(http.StatusOK, toRequestResponse(matched))
}

// List handles GET /v1/requests. Non-admin callers only see their own requests.
//
// @Summary      List requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        owner_id  query     int     false  "Owner account ID (admin only)"
// @Param        status    query     string  false  "open, pending or closed"
// @Success      200       {array}   requestResponse
// @Failure      400       {object}  errorResponse
// @Router       /v1/requests [get]
func (h *RequestHandler) List(c echo.Context) error {
	caller, claims, err := callerAccount(c, h.identity)
	if err != nil {
		return err
	}

	filter := ports.ListRequestsFilter{Status: domain.RequestStatus(c.QueryParam("status"))}
	switch {
	case !claims.IsAdmin():
		filter.OwnerID = caller.ID
	case c.QueryParam("owner_id") != "":
		ownerID, err := strconv.ParseInt(c.QueryParam("owner_id"), 10, 64)
		if err != nil || ownerID <= 0 {
			return fmt.Errorf("%w: owner_id must be a positive integer", domain.ErrInvalidArgument)
		}
		filter.OwnerID = ownerID
	}

	matched, err := h.requests.ListRequests(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponses(matched))
}

func ownedBy(r *domain.Request, accountID int64) bool {
	return r.OwnerID != nil && *r.OwnerID == accountID
}
