package ports

import (
	"context"

	"github.com/servicehub/marketplace-api/internal/core/domain"
)

// ListRequestsFilter narrows ListRequests. Zero values mean "no filter".
type ListRequestsFilter struct {
	OwnerID int64
	Status  domain.RequestStatus
}

// RequestRepository defines persistence operations for requests.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.Request) error
	FindByID(ctx context.Context, id int64) (*domain.Request, error)
	// List returns requests ordered by id ascending.
	List(ctx context.Context, filter ListRequestsFilter) ([]*domain.Request, error)
}
