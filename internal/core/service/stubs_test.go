package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories (mirror the unique constraints of the real stores)
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	byID      map[int64]*domain.Account
	nextID    int64
	createErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[int64]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	clone := *a
	return &clone
}

func (r *stubAccountRepo) conflicts(a *domain.Account) bool {
	for id, other := range r.byID {
		if id == a.ID {
			continue
		}
		if other.MobileNumber == a.MobileNumber {
			return true
		}
		if a.Email != nil && other.Email != nil && *a.Email == *other.Email {
			return true
		}
	}
	return false
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) error {
	if r.createErr != nil {
		return r.createErr
	}
	if r.conflicts(a) {
		return domain.ErrDuplicateIdentity
	}
	r.nextID++
	a.ID = r.nextID
	r.byID[a.ID] = cloneAccount(a)
	return nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByMobileNumber(_ context.Context, mobile string) (*domain.Account, error) {
	for _, a := range r.byID {
		if a.MobileNumber == mobile {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.byID {
		if a.Email != nil && *a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range r.byID {
		if a.Role == role {
			out = append(out, cloneAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubAccountRepo) Update(_ context.Context, a *domain.Account) error {
	if _, ok := r.byID[a.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	if r.conflicts(a) {
		return domain.ErrDuplicateIdentity
	}
	r.byID[a.ID] = cloneAccount(a)
	return nil
}

func (r *stubAccountRepo) UpdateRole(_ context.Context, id int64, from, to domain.Role) error {
	a, ok := r.byID[id]
	if !ok || a.Role != from {
		return domain.ErrAccountNotFound
	}
	a.Role = to
	return nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubExecutorRepo struct {
	items   []*domain.Executor
	listErr error
	lists   int // number of ListByRole calls
}

func (r *stubExecutorRepo) Create(_ context.Context, e *domain.Executor) error {
	for _, other := range r.items {
		if other.MobileNumber == e.MobileNumber {
			return domain.ErrDuplicateIdentity
		}
	}
	e.ID = int64(len(r.items) + 1)
	clone := *e
	r.items = append(r.items, &clone)
	return nil
}

func (r *stubExecutorRepo) FindByMobileNumber(_ context.Context, mobile string) (*domain.Executor, error) {
	for _, e := range r.items {
		if e.MobileNumber == mobile {
			clone := *e
			return &clone, nil
		}
	}
	return nil, domain.ErrExecutorNotFound
}

func (r *stubExecutorRepo) ListByRole(_ context.Context, role string) ([]*domain.Executor, error) {
	r.lists++
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Executor
	for _, e := range r.items {
		if e.Role == role {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

type stubRequestRepo struct {
	items []*domain.Request
}

func (r *stubRequestRepo) Create(_ context.Context, req *domain.Request) error {
	req.ID = int64(len(r.items) + 1)
	clone := *req
	r.items = append(r.items, &clone)
	return nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id int64) (*domain.Request, error) {
	for _, req := range r.items {
		if req.ID == id {
			clone := *req
			return &clone, nil
		}
	}
	return nil, domain.ErrRequestNotFound
}

func (r *stubRequestRepo) List(_ context.Context, f ports.ListRequestsFilter) ([]*domain.Request, error) {
	var out []*domain.Request
	for _, req := range r.items {
		if f.OwnerID != 0 && (req.OwnerID == nil || *req.OwnerID != f.OwnerID) {
			continue
		}
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		clone := *req
		out = append(out, &clone)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Code store / sender stubs
// ---------------------------------------------------------------------------

type mapCodeStore struct {
	mu    sync.Mutex
	codes map[string]int
}

func newMapCodeStore() *mapCodeStore {
	return &mapCodeStore{codes: make(map[string]int)}
}

func (s *mapCodeStore) Put(_ context.Context, key string, code int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[key] = code
	return nil
}

func (s *mapCodeStore) Get(_ context.Context, key string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[key]
	return code, ok, nil
}

type recordingSender struct {
	last map[string]int
	err  error
}

func newRecordingSender() *recordingSender {
	return &recordingSender{last: make(map[string]int)}
}

func (s *recordingSender) SendCode(_ context.Context, mobile string, code int) error {
	if s.err != nil {
		return s.err
	}
	s.last[mobile] = code
	return nil
}

var errStorage = errors.New("storage unavailable")

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }
