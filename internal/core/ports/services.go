package ports

import (
	"context"

	"github.com/servicehub/marketplace-api/internal/core/domain"
)

// RegisterAccountInput carries the data needed to register an account.
type RegisterAccountInput struct {
	MobileNumber string
	Name         string
	Email        *string
	CompanyName  *string
	Password     *string
	Role         domain.Role // empty means client
	Location     *string
	// ElevationSecret lets an admin registration skip the approval workflow.
	ElevationSecret string
}

// RegisterExecutorInput carries the data needed to register an executor.
type RegisterExecutorInput struct {
	MobileNumber string
	Name         *string
	Email        *string
	CompanyName  *string
	Password     string
	Role         string
	Group        string
}

// IdentityService owns accounts and executor profiles.
type IdentityService interface {
	RegisterAccount(ctx context.Context, in RegisterAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, by domain.AccountLookup) (*domain.Account, error)
	UpdateAccount(ctx context.Context, id int64, upd domain.AccountUpdate) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id int64, requesterRole domain.Role) error
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error)
	RegisterExecutor(ctx context.Context, in RegisterExecutorInput) (*domain.Executor, error)
}

// SessionService issues and validates session tokens.
type SessionService interface {
	IssueToken(subject string, role domain.Role) (string, error)
	DecodeToken(token string) (domain.Claims, error)
	SendCode(ctx context.Context, mobile string) error
	Authenticate(ctx context.Context, mobile, code string) (string, error)
}

// TokenDecoder is the subset of SessionService the auth middleware needs.
type TokenDecoder interface {
	DecodeToken(token string) (domain.Claims, error)
}

// ApprovalService promotes pending administrators.
type ApprovalService interface {
	Approve(ctx context.Context, accountID int64, approver domain.Claims) (*domain.Account, error)
}

// SubmitRequestInput carries the data needed to submit a request.
type SubmitRequestInput struct {
	Title          string
	Description    string
	Category       string
	OwnerID        *int64
	Budget         *int64
	EstimatedHours *int
	PreferredDay   *string
	PreferredTime  *string // "HH:MM"
}

// RequestService owns requests and executor matching.
type RequestService interface {
	SubmitRequest(ctx context.Context, in SubmitRequestInput) (*domain.MatchedRequest, error)
	MatchExecutors(ctx context.Context, category string) ([]*domain.Executor, error)
	GetRequest(ctx context.Context, id int64) (*domain.MatchedRequest, error)
	ListRequests(ctx context.Context, filter ListRequestsFilter) ([]*domain.MatchedRequest, error)
}
