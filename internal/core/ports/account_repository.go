package ports

import (
	"context"

	"github.com/servicehub/marketplace-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
// Implementations return domain.ErrAccountNotFound when nothing matches and
// domain.ErrDuplicateIdentity when a unique constraint rejects a write.
type AccountRepository interface {
	// Create inserts the account and sets its assigned ID.
	Create(ctx context.Context, a *domain.Account) error
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	FindByMobileNumber(ctx context.Context, mobile string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error)
	// Update persists the profile fields (name, email, company, location).
	Update(ctx context.Context, a *domain.Account) error
	// UpdateRole changes the role only when the stored role equals from.
	UpdateRole(ctx context.Context, id int64, from, to domain.Role) error
	Delete(ctx context.Context, id int64) error
}

// ExecutorRepository defines persistence operations for executor profiles.
type ExecutorRepository interface {
	Create(ctx context.Context, e *domain.Executor) error
	FindByMobileNumber(ctx context.Context, mobile string) (*domain.Executor, error)
	// ListByRole returns executors whose role equals role exactly (case-sensitive).
	ListByRole(ctx context.Context, role string) ([]*domain.Executor, error)
}
