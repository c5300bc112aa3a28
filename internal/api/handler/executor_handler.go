package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace-api/internal/api/metrics"
	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

type ExecutorHandler struct {
	identity ports.IdentityService
	requests ports.RequestService
}

func NewExecutorHandler(identity ports.IdentityService, requests ports.RequestService) *ExecutorHandler {
	return &ExecutorHandler{identity: identity, requests: requests}
}

// Register handles POST /v1/executors.
//
// @Summary      Register an executor
// @Tags         executors
// @Accept       json
// @Produce      json
// @Param        body  body      registerExecutorRequest  true  "Executor details"
// @Success      201   {object}  executorResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/executors [post]
func (h *ExecutorHandler) Register(c echo.Context) error {
	var req registerExecutorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	exec, err := h.identity.RegisterExecutor(c.Request().Context(), toRegisterExecutorInput(req))
	if err != nil {
		return err
	}

	metrics.ExecutorsRegisteredTotal.Inc()
	return c.JSON(http.StatusCreated, toExecutorResponse(exec))
}

// ListByCategory handles GET /v1/executors?category=.
//
// @Summary      List executors serving a category
// @Tags         executors
// @Produce      json
// @Security     BearerAuth
// @Param        category  query     string  true  "Category (matched exactly)"
// @Success      200       {array}   executorResponse
// @Failure      400       {object}  errorResponse
// @Router       /v1/executors [get]
func (h *ExecutorHandler) ListByCategory(c echo.Context) error {
	category := c.QueryParam("category")
	if category == "" {
		return fmt.Errorf("%w: category is required", domain.ErrInvalidArgument)
	}

	executors, err := h.requests.MatchExecutors(c.Request().Context(), category)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExecutorResponses(executors))
}
