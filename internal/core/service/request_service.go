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

const preferredTimeLayout = "15:04"

// RequestService owns requests and the category → executor matching.
type RequestService struct {
	requests  ports.RequestRepository
	accounts  ports.AccountRepository
	executors ports.ExecutorRepository
	logger    zerolog.Logger
}

func NewRequestService(
	requests ports.RequestRepository,
	accounts ports.AccountRepository,
	executors ports.ExecutorRepository,
	logger zerolog.Logger,
) *RequestService {
	return &RequestService{
		requests:  requests,
		accounts:  accounts,
		executors: executors,
		logger:    logger,
	}
}

// SubmitRequest validates and stores a new request. A request is only accepted
// when at least one executor serves its category; otherwise nothing is stored
// and domain.ErrNoExecutorsAvailable is returned.
func (s *RequestService) SubmitRequest(ctx context.Context, in ports.SubmitRequestInput) (*domain.MatchedRequest, error) {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	case strings.TrimSpace(in.Description) == "":
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidArgument)
	case in.Category == "":
		return nil, fmt.Errorf("%w: category is required", domain.ErrInvalidArgument)
	case in.Budget != nil && *in.Budget < 0:
		return nil, fmt.Errorf("%w: budget must not be negative", domain.ErrInvalidArgument)
	case in.EstimatedHours != nil && *in.EstimatedHours < 0:
		return nil, fmt.Errorf("%w: estimated hours must not be negative", domain.ErrInvalidArgument)
	}

	preferredTime, err := normalizePreferredTime(in.PreferredTime)
	if err != nil {
		return nil, err
	}

	if in.OwnerID != nil {
		if _, err := s.accounts.FindByID(ctx, *in.OwnerID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrOwnerNotFound
			}
			return nil, err
		}
	}

	executors, err := s.MatchExecutors(ctx, in.Category)
	if err != nil {
		return nil, err
	}
	if len(executors) == 0 {
		s.logger.Info().Str("category", in.Category).Msg("request rejected: no executors")
		return nil, fmt.Errorf("%w: %q", domain.ErrNoExecutorsAvailable, in.Category)
	}

	req := &domain.Request{
		OwnerID:        in.OwnerID,
		Title:          in.Title,
		Description:    in.Description,
		Status:         domain.RequestOpen,
		Category:       in.Category,
		Budget:         in.Budget,
		EstimatedHours: in.EstimatedHours,
		PreferredDay:   optional(in.PreferredDay),
		PreferredTime:  preferredTime,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("request_id", req.ID).
		Str("category", req.Category).
		Int("matched_executors", len(executors)).
		Msg("request submitted")

	return &domain.MatchedRequest{Request: req, Executors: executors}, nil
}

// MatchExecutors returns the executors whose role equals category exactly.
// No match is an empty slice, not an error.
func (s *RequestService) MatchExecutors(ctx context.Context, category string) ([]*domain.Executor, error) {
	executors, err := s.executors.ListByRole(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("match executors: %w", err)
	}
	if executors == nil {
		executors = []*domain.Executor{}
	}
	return executors, nil
}

// GetRequest returns a request with its currently matching executors.
func (s *RequestService) GetRequest(ctx context.Context, id int64) (*domain.MatchedRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	executors, err := s.MatchExecutors(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	return &domain.MatchedRequest{Request: req, Executors: executors}, nil
}

// ListRequests returns requests with their matches, recomputed on every call.
// Within one call each category is looked up once.
func (s *RequestService) ListRequests(ctx context.Context, filter ports.ListRequestsFilter) ([]*domain.MatchedRequest, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, filter.Status)
	}

	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]*domain.Executor)
	out := make([]*domain.MatchedRequest, 0, len(requests))
	for _, req := range requests {
		executors, seen := byCategory[req.Category]
		if !seen {
			executors, err = s.MatchExecutors(ctx, req.Category)
			if err != nil {
				return nil, err
			}
			byCategory[req.Category] = executors
		}
		out = append(out, &domain.MatchedRequest{Request: req, Executors: executors})
	}
	return out, nil
}

func normalizePreferredTime(raw *string) (*string, error) {
	raw = optional(raw)
	if raw == nil {
		return nil, nil
	}
	t, err := time.Parse(preferredTimeLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, fmt.Errorf("%w: preferred time must be HH:MM", domain.ErrInvalidArgument)
	}
	formatted := t.Format(preferredTimeLayout)
	return &formatted, nil
}
