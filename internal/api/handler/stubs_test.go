package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace-api/internal/api/middleware"
	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

type stubIdentity struct {
	registerFn         func(ctx context.Context, in ports.RegisterAccountInput) (*domain.Account, error)
	getFn              func(ctx context.Context, by domain.AccountLookup) (*domain.Account, error)
	updateFn           func(ctx context.Context, id int64, upd domain.AccountUpdate) (*domain.Account, error)
	deleteFn           func(ctx context.Context, id int64, role domain.Role) error
	listByRoleFn       func(ctx context.Context, role domain.Role) ([]*domain.Account, error)
	registerExecutorFn func(ctx context.Context, in ports.RegisterExecutorInput) (*domain.Executor, error)
}

func (s *stubIdentity) RegisterAccount(ctx context.Context, in ports.RegisterAccountInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubIdentity) GetAccount(ctx context.Context, by domain.AccountLookup) (*domain.Account, error) {
	return s.getFn(ctx, by)
}

func (s *stubIdentity) UpdateAccount(ctx context.Context, id int64, upd domain.AccountUpdate) (*domain.Account, error) {
	return s.updateFn(ctx, id, upd)
}

func (s *stubIdentity) DeleteAccount(ctx context.Context, id int64, role domain.Role) error {
	return s.deleteFn(ctx, id, role)
}

func (s *stubIdentity) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error) {
	return s.listByRoleFn(ctx, role)
}

func (s *stubIdentity) RegisterExecutor(ctx context.Context, in ports.RegisterExecutorInput) (*domain.Executor, error) {
	return s.registerExecutorFn(ctx, in)
}

type stubSession struct {
	sendCodeFn     func(ctx context.Context, mobile string) error
	authenticateFn func(ctx context.Context, mobile, code string) (string, error)
}

func (s *stubSession) IssueToken(string, domain.Role) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubSession) DecodeToken(string) (domain.Claims, error) {
	return domain.Claims{}, errors.New("not implemented")
}

func (s *stubSession) SendCode(ctx context.Context, mobile string) error {
	return s.sendCodeFn(ctx, mobile)
}

func (s *stubSession) Authenticate(ctx context.Context, mobile, code string) (string, error) {
	return s.authenticateFn(ctx, mobile, code)
}

type stubApprovals struct {
	approveFn func(ctx context.Context, id int64, approver domain.Claims) (*domain.Account, error)
}

func (s *stubApprovals) Approve(ctx context.Context, id int64, approver domain.Claims) (*domain.Account, error) {
	return s.approveFn(ctx, id, approver)
}

type stubRequests struct {
	submitFn func(ctx context.Context, in ports.SubmitRequestInput) (*domain.MatchedRequest, error)
	matchFn  func(ctx context.Context, category string) ([]*domain.Executor, error)
	getFn    func(ctx context.Context, id int64) (*domain.MatchedRequest, error)
	listFn   func(ctx context.Context, filter ports.ListRequestsFilter) ([]*domain.MatchedRequest, error)
}

func (s *stubRequests) SubmitRequest(ctx context.Context, in ports.SubmitRequestInput) (*domain.MatchedRequest, error) {
	return s.submitFn(ctx, in)
}

func (s *stubRequests) MatchExecutors(ctx context.Context, category string) ([]*domain.Executor, error) {
	return s.matchFn(ctx, category)
}

func (s *stubRequests) GetRequest(ctx context.Context, id int64) (*domain.MatchedRequest, error) {
	return s.getFn(ctx, id)
}

func (s *stubRequests) ListRequests(ctx context.Context, filter ports.ListRequestsFilter) ([]*domain.MatchedRequest, error) {
	return s.listFn(ctx, filter)
}

// newContext builds an echo context with the validator installed and, when
// claims is non-nil, the claims the Auth middleware would have set.
func newContext(method, target string, body io.Reader, claims *domain.Claims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(middleware.ClaimsKey, *claims)
	}
	return c, rec
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func clientAccount(id int64, mobile string) *domain.Account {
	return &domain.Account{ID: id, MobileNumber: mobile, Name: "Client", Role: domain.RoleClient}
}

var (
	clientClaims = &domain.Claims{Subject: "555000", Role: domain.RoleClient}
	adminClaims  = &domain.Claims{Subject: "999000", Role: domain.RoleAdmin}
)
