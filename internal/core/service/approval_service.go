package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/rs/zerolog"

	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

// ApprovalService gates the transition into the admin role.
//
//	request admin ──(elevation secret ok)──────────────▶ admin
//	request admin ──(no/wrong secret)──▶ pending_admin ──(Approve by admin)──▶ admin
//
// There is no transition out of pending_admin other than Approve.
type ApprovalService struct {
	accounts        ports.AccountRepository
	elevationSecret string
	logger          zerolog.Logger
}

// NewApprovalService returns an ApprovalService. An empty elevationSecret
// disables direct admin creation.
func NewApprovalService(accounts ports.AccountRepository, elevationSecret string, logger zerolog.Logger) *ApprovalService {
	return &ApprovalService{accounts: accounts, elevationSecret: elevationSecret, logger: logger}
}

// ResolveRequestedRole returns the role an account is actually created with.
func (s *ApprovalService) ResolveRequestedRole(requested domain.Role, secret string) domain.Role {
	if requested != domain.RoleAdmin {
		return requested
	}
	if s.elevationSecret != "" &&
		subtle.ConstantTimeCompare([]byte(secret), []byte(s.elevationSecret)) == 1 {
		return domain.RoleAdmin
	}
	return domain.RolePendingAdmin
}

// Approve promotes a pending_admin account to admin. The approver must hold the
// admin role; the target must exist and currently be pending_admin.
func (s *ApprovalService) Approve(ctx context.Context, accountID int64, approver domain.Claims) (*domain.Account, error) {
	if !approver.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	acct, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoPendingAdmin
		}
		return nil, err
	}
	if acct.Role != domain.RolePendingAdmin {
		return nil, domain.ErrNoPendingAdmin
	}

	if err := s.accounts.UpdateRole(ctx, accountID, domain.RolePendingAdmin, domain.RoleAdmin); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Approved or deleted concurrently.
			return nil, domain.ErrNoPendingAdmin
		}
		return nil, err
	}
	acct.Role = domain.RoleAdmin

	s.logger.Info().
		Int64("account_id", accountID).
		Str("approved_by", approver.Subject).
		Msg("admin approved")

	return acct, nil
}
