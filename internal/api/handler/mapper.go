package handler

import (
	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterAccountInput(req registerAccountRequest) ports.RegisterAccountInput {
	return ports.RegisterAccountInput{
		MobileNumber:    req.MobileNumber,
		Name:            req.Name,
		Email:           req.Email,
		CompanyName:     req.CompanyName,
		Password:        req.Password,
		Role:            domain.Role(req.Role),
		Location:        req.Location,
		ElevationSecret: req.AdminSecret,
	}
}

func toAccountUpdate(req updateAccountRequest) domain.AccountUpdate {
	return domain.AccountUpdate{
		Name:        req.Name,
		Email:       req.Email,
		CompanyName: req.CompanyName,
		Location:    req.Location,
	}
}

func toRegisterExecutorInput(req registerExecutorRequest) ports.RegisterExecutorInput {
	return ports.RegisterExecutorInput{
		MobileNumber: req.MobileNumber,
		Name:         req.Name,
		Email:        req.Email,
		CompanyName:  req.CompanyName,
		Password:     req.Password,
		Role:         req.Role,
		Group:        req.Group,
	}
}

func toSubmitRequestInput(req submitRequestRequest, ownerID *int64) ports.SubmitRequestInput {
	return ports.SubmitRequestInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		OwnerID:        ownerID,
		Budget:         req.Budget,
		EstimatedHours: req.EstimatedHours,
		PreferredDay:   req.PreferredDay,
		PreferredTime:  req.PreferredTime,
	}
}

// --- Domain → Response ---

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:           a.ID,
		MobileNumber: a.MobileNumber,
		Name:         a.Name,
		Email:        a.Email,
		CompanyName:  a.CompanyName,
		Location:     a.Location,
		Role:         string(a.Role),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func toAccountResponses(accounts []*domain.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out
}

func toExecutorResponse(e *domain.Executor) executorResponse {
	return executorResponse{
		ID:           e.ID,
		MobileNumber: e.MobileNumber,
		Name:         e.Name,
		Role:         e.Role,
		Group:        e.Group,
	}
}

func toExecutorResponses(executors []*domain.Executor) []executorResponse {
	out := make([]executorResponse, 0, len(executors))
	for _, e := range executors {
		out = append(out, toExecutorResponse(e))
	}
	return out
}

func toRequestResponse(m *domain.MatchedRequest) requestResponse {
	r := m.Request
	assigned := make([]assignedExecutor, 0, len(m.Executors))
	for _, e := range m.Executors {
		assigned = append(assigned, assignedExecutor{ID: e.ID, Name: e.Name})
	}
	return requestResponse{
		ID:                r.ID,
		OwnerID:           r.OwnerID,
		Title:             r.Title,
		Description:       r.Description,
		Status:            string(r.Status),
		Category:          r.Category,
		Budget:            r.Budget,
		EstimatedHours:    r.EstimatedHours,
		PreferredDay:      r.PreferredDay,
		PreferredTime:     r.PreferredTime,
		CreatedAt:         r.CreatedAt,
		AssignedExecutors: assigned,
	}
}

func toRequestResponses(ms []*domain.MatchedRequest) []requestResponse {
	out := make([]requestResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toRequestResponse(m))
	}
	return out
}
