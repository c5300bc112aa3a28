package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

// IdentityService owns Account and Executor entities.
type IdentityService struct {
	accounts  ports.AccountRepository
	executors ports.ExecutorRepository
	approvals *ApprovalService
	roles     domain.RoleSet
	logger    zerolog.Logger
}

func NewIdentityService(
	accounts ports.AccountRepository,
	executors ports.ExecutorRepository,
	approvals *ApprovalService,
	roles domain.RoleSet,
	logger zerolog.Logger,
) *IdentityService {
	if len(roles) == 0 {
		roles = domain.DefaultRoles
	}
	return &IdentityService{
		accounts:  accounts,
		executors: executors,
		approvals: approvals,
		roles:     roles,
		logger:    logger,
	}
}

// RegisterAccount creates a new account. Requesting the admin role goes through
// the approval workflow: without a valid elevation secret the account is created
// as pending_admin.
//
// The mobile/email pre-check gives a fast answer; the store's unique index is
// what actually guards concurrent registrations.
func (s *IdentityService) RegisterAccount(ctx context.Context, in ports.RegisterAccountInput) (*domain.Account, error) {
	mobile := strings.TrimSpace(in.MobileNumber)
	if mobile == "" {
		return nil, fmt.Errorf("%w: mobile number is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}

	role := in.Role
	if role == "" {
		role = domain.RoleClient
	}
	if !s.roles.Contains(role) {
		return nil, fmt.Errorf("%w: choose from %v", domain.ErrInvalidRole, s.roles.Strings())
	}
	role = s.approvals.ResolveRequestedRole(role, in.ElevationSecret)

	email := optional(in.Email)
	if err := s.ensureMobileFree(ctx, mobile); err != nil {
		return nil, err
	}
	if email != nil {
		if err := s.ensureEmailFree(ctx, *email, 0); err != nil {
			return nil, err
		}
	}

	hash, err := HashSecret(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acct := &domain.Account{
		MobileNumber: mobile,
		Name:         in.Name,
		Email:        email,
		CompanyName:  optional(in.CompanyName),
		Location:     optional(in.Location),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("account_id", acct.ID).
		Str("role", string(acct.Role)).
		Msg("account registered")

	return acct, nil
}

// GetAccount looks an account up by ID first, then by mobile number.
// At least one selector is required; no match is domain.ErrAccountNotFound.
func (s *IdentityService) GetAccount(ctx context.Context, by domain.AccountLookup) (*domain.Account, error) {
	mobile := strings.TrimSpace(by.MobileNumber)
	if by.ID == 0 && mobile == "" {
		return nil, domain.ErrMissingSelector
	}

	if by.ID != 0 {
		acct, err := s.accounts.FindByID(ctx, by.ID)
		if err == nil {
			return acct, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	if mobile == "" {
		return nil, domain.ErrAccountNotFound
	}
	return s.accounts.FindByMobileNumber(ctx, mobile)
}

// UpdateAccount applies the provided profile fields. Empty strings are ignored.
func (s *IdentityService) UpdateAccount(ctx context.Context, id int64, upd domain.AccountUpdate) (*domain.Account, error) {
	acct, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	upd = domain.AccountUpdate{
		Name:        optional(upd.Name),
		Email:       optional(upd.Email),
		CompanyName: optional(upd.CompanyName),
		Location:    optional(upd.Location),
	}
	if upd.Email != nil {
		if err := s.ensureEmailFree(ctx, *upd.Email, id); err != nil {
			return nil, err
		}
	}

	upd.Apply(acct)
	acct.UpdatedAt = time.Now().UTC()
	if err := s.accounts.Update(ctx, acct); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("account_id", id).Msg("account updated")
	return acct, nil
}

// DeleteAccount removes an account. Only administrators may delete.
func (s *IdentityService) DeleteAccount(ctx context.Context, id int64, requesterRole domain.Role) error {
	if requesterRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("account_id", id).Msg("account deleted")
	return nil
}

// ListByRole returns every account holding role. An empty result is
// domain.ErrNoAccountsInRole, not an empty list.
func (s *IdentityService) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error) {
	if !s.roles.Contains(role) {
		return nil, fmt.Errorf("%w: choose from %v", domain.ErrInvalidRole, s.roles.Strings())
	}
	accounts, err := s.accounts.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, domain.ErrNoAccountsInRole
	}
	return accounts, nil
}

// RegisterExecutor creates an executor profile. Unlike accounts, executors
// must have a password, a skill role and a group.
func (s *IdentityService) RegisterExecutor(ctx context.Context, in ports.RegisterExecutorInput) (*domain.Executor, error) {
	mobile := strings.TrimSpace(in.MobileNumber)
	switch {
	case mobile == "":
		return nil, fmt.Errorf("%w: mobile number is required", domain.ErrInvalidArgument)
	case in.Password == "":
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidArgument)
	case in.Role == "":
		return nil, fmt.Errorf("%w: role is required", domain.ErrInvalidArgument)
	case in.Group == "":
		return nil, fmt.Errorf("%w: group is required", domain.ErrInvalidArgument)
	}

	_, err := s.executors.FindByMobileNumber(ctx, mobile)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateIdentity
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	hash, err := HashSecret(&in.Password)
	if err != nil {
		return nil, err
	}

	exec := &domain.Executor{
		MobileNumber: mobile,
		Name:         optional(in.Name),
		Email:        optional(in.Email),
		CompanyName:  optional(in.CompanyName),
		PasswordHash: *hash,
		Role:         in.Role,
		Group:        in.Group,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.executors.Create(ctx, exec); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("executor_id", exec.ID).
		Str("role", exec.Role).
		Str("group", exec.Group).
		Msg("executor registered")

	return exec, nil
}

func (s *IdentityService) ensureMobileFree(ctx context.Context, mobile string) error {
	_, err := s.accounts.FindByMobileNumber(ctx, mobile)
	switch {
	case err == nil:
		return domain.ErrDuplicateIdentity
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}

// ensureEmailFree fails when email belongs to an account other than selfID.
func (s *IdentityService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	other, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if other.ID == selfID {
			return nil
		}
		return domain.ErrDuplicateIdentity
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}

// optional maps a nil or blank string to nil.
func optional(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
