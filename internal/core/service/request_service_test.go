package service

import (
	"context"
	"errors"
	"testing"

	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

type requestFixture struct {
	svc       *RequestService
	requests  *stubRequestRepo
	accounts  *stubAccountRepo
	executors *stubExecutorRepo
}

func newRequestFixture() *requestFixture {
	accounts := newStubAccountRepo()
	executors := &stubExecutorRepo{}
	requests := &stubRequestRepo{}
	for i, e := range []struct{ role, name string }{
		{"IT", "Ivan"},
		{"IT", "Olga"},
		{"HR", "Petr"},
	} {
		name := e.name
		_ = executors.Create(context.Background(), &domain.Executor{
			MobileNumber: string(rune('a' + i)),
			Name:         &name,
			Role:         e.role,
			Group:        "g",
		})
	}
	return &requestFixture{
		svc:       NewRequestService(requests, accounts, executors, discardLogger),
		requests:  requests,
		accounts:  accounts,
		executors: executors,
	}
}

func validRequest(category string) ports.SubmitRequestInput {
	return ports.SubmitRequestInput{
		Title:       "Printer broken",
		Description: "Office printer jams on every page",
		Category:    category,
	}
}

func TestRequestService_MatchExecutors_ExactCaseSensitive(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()

	it, err := f.svc.MatchExecutors(ctx, "IT")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(it) != 2 {
		t.Fatalf("expected 2 IT executors, got %d", len(it))
	}
	for _, e := range it {
		if e.Role != "IT" {
			t.Fatalf("unexpected executor role %q", e.Role)
		}
	}

	for _, category := range []string{"it", "It", "IT ", "Legal"} {
		got, err := f.svc.MatchExecutors(ctx, category)
		if err != nil {
			t.Fatalf("match %q: %v", category, err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("category %q: expected empty non-nil slice, got %v", category, got)
		}
	}
}

func TestRequestService_Submit_Success(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()

	in := validRequest("IT")
	in.Budget = int64Ptr(500)
	in.PreferredDay = strPtr("Monday")
	in.PreferredTime = strPtr("9:30")

	got, err := f.svc.SubmitRequest(ctx, in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Request.ID != 1 || got.Request.Status != domain.RequestOpen {
		t.Fatalf("unexpected request: %+v", got.Request)
	}
	if got.Request.OwnerID != nil {
		t.Fatalf("expected anonymous request")
	}
	if got.Request.PreferredTime == nil || *got.Request.PreferredTime != "09:30" {
		t.Fatalf("expected normalized preferred time, got %v", got.Request.PreferredTime)
	}
	if len(got.Executors) != 2 {
		t.Fatalf("expected 2 matched executors, got %d", len(got.Executors))
	}
}

func TestRequestService_Submit_NoExecutors(t *testing.T) {
	f := newRequestFixture()

	_, err := f.svc.SubmitRequest(context.Background(), validRequest("it"))
	if !errors.Is(err, domain.ErrNoExecutorsAvailable) {
		t.Fatalf("expected ErrNoExecutorsAvailable, got %v", err)
	}
	if len(f.requests.items) != 0 {
		t.Fatalf("rejected request must not be stored")
	}
}

func TestRequestService_Submit_Owner(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()
	owner := &domain.Account{MobileNumber: "555", Name: "A", Role: domain.RoleClient}
	_ = f.accounts.Create(ctx, owner)

	in := validRequest("HR")
	in.OwnerID = &owner.ID
	got, err := f.svc.SubmitRequest(ctx, in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Request.OwnerID == nil || *got.Request.OwnerID != owner.ID {
		t.Fatalf("owner not recorded: %+v", got.Request)
	}

	in.OwnerID = int64Ptr(404)
	if _, err := f.svc.SubmitRequest(ctx, in); !errors.Is(err, domain.ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestRequestService_Submit_Validation(t *testing.T) {
	f := newRequestFixture()

	mutations := map[string]func(*ports.SubmitRequestInput){
		"title":          func(in *ports.SubmitRequestInput) { in.Title = " " },
		"description":    func(in *ports.SubmitRequestInput) { in.Description = "" },
		"category":       func(in *ports.SubmitRequestInput) { in.Category = "" },
		"budget":         func(in *ports.SubmitRequestInput) { in.Budget = int64Ptr(-1) },
		"hours":          func(in *ports.SubmitRequestInput) { h := -2; in.EstimatedHours = &h },
		"preferred time": func(in *ports.SubmitRequestInput) { in.PreferredTime = strPtr("noon") },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			in := validRequest("IT")
			mutate(&in)
			if _, err := f.svc.SubmitRequest(context.Background(), in); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestRequestService_GetRequest(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()
	created, _ := f.svc.SubmitRequest(ctx, validRequest("HR"))

	got, err := f.svc.GetRequest(ctx, created.Request.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Request.Title != "Printer broken" || len(got.Executors) != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}

	if _, err := f.svc.GetRequest(ctx, 99); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestRequestService_GetRequest_EmptyMatchIsNotAnError(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()
	created, _ := f.svc.SubmitRequest(ctx, validRequest("HR"))

	// The only HR executor leaves after the request was accepted.
	f.executors.items = f.executors.items[:2]

	got, err := f.svc.GetRequest(ctx, created.Request.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Executors) != 0 {
		t.Fatalf("expected no executors, got %d", len(got.Executors))
	}
}

func TestRequestService_ListRequests(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()
	_, _ = f.svc.SubmitRequest(ctx, validRequest("IT"))
	_, _ = f.svc.SubmitRequest(ctx, validRequest("IT"))
	_, _ = f.svc.SubmitRequest(ctx, validRequest("HR"))
	f.executors.lists = 0

	got, err := f.svc.ListRequests(ctx, ports.ListRequestsFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(got))
	}
	if len(got[0].Executors) != 2 || len(got[2].Executors) != 1 {
		t.Fatalf("unexpected matches: %d, %d", len(got[0].Executors), len(got[2].Executors))
	}
	if f.executors.lists != 2 {
		t.Fatalf("expected one executor lookup per category, got %d", f.executors.lists)
	}

	// Matches are recomputed on every call.
	_ = f.executors.Create(ctx, &domain.Executor{MobileNumber: "z", Role: "HR", Group: "g"})
	again, _ := f.svc.ListRequests(ctx, ports.ListRequestsFilter{})
	if len(again[2].Executors) != 2 {
		t.Fatalf("expected new executor to be matched, got %d", len(again[2].Executors))
	}
}

func TestRequestService_ListRequests_Filters(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()
	owner := &domain.Account{MobileNumber: "555", Name: "A", Role: domain.RoleClient}
	_ = f.accounts.Create(ctx, owner)

	in := validRequest("IT")
	in.OwnerID = &owner.ID
	_, _ = f.svc.SubmitRequest(ctx, in)
	_, _ = f.svc.SubmitRequest(ctx, validRequest("IT"))

	mine, err := f.svc.ListRequests(ctx, ports.ListRequestsFilter{OwnerID: owner.ID})
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected 1 owned request, got %d, %v", len(mine), err)
	}

	closed, err := f.svc.ListRequests(ctx, ports.ListRequestsFilter{Status: domain.RequestClosed})
	if err != nil || len(closed) != 0 {
		t.Fatalf("expected no closed requests, got %d, %v", len(closed), err)
	}

	if _, err := f.svc.ListRequests(ctx, ports.ListRequestsFilter{Status: "archived"}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRequestService_StorageErrorPropagates(t *testing.T) {
	f := newRequestFixture()
	f.executors.listErr = errStorage

	_, err := f.svc.SubmitRequest(context.Background(), validRequest("IT"))
	if !errors.Is(err, errStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
