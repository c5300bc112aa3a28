package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/servicehub/marketplace-api/internal/core/domain"
)

const executorColumns = `id, mobile_number, name, email, company_name, password_hash, role, executor_group, created_at`

// ExecutorRepository implements ports.ExecutorRepository on PostgreSQL.
type ExecutorRepository struct {
	db *sqlx.DB
}

func NewExecutorRepository(db *sqlx.DB) *ExecutorRepository {
	return &ExecutorRepository{db: db}
}

func (r *ExecutorRepository) Create(ctx context.Context, e *domain.Executor) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `INSERT INTO executors
		(mobile_number, name, email, company_name, password_hash, role, executor_group, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.db.QueryRowxContext(ctx, q,
		e.MobileNumber, e.Name, e.Email, e.CompanyName, e.PasswordHash, e.Role, e.Group, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateIdentity
		}
		return fmt.Errorf("insert executor: %w", err)
	}
	return nil
}

func (r *ExecutorRepository) FindByMobileNumber(ctx context.Context, mobile string) (*domain.Executor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Executor
	err := r.db.GetContext(ctx, &e, `SELECT `+executorColumns+` FROM executors WHERE mobile_number = $1`, mobile)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrExecutorNotFound
		}
		return nil, fmt.Errorf("find executor: %w", err)
	}
	return &e, nil
}

// ListByRole uses plain "=" so matching stays case-sensitive.
func (r *ExecutorRepository) ListByRole(ctx context.Context, role string) ([]*domain.Executor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out []*domain.Executor
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+executorColumns+` FROM executors WHERE role = $1 ORDER BY id`, role)
	if err != nil {
		return nil, fmt.Errorf("list executors: %w", err)
	}
	return out, nil
}
