package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerAccountRequest struct {
	MobileNumber string  `json:"mobile_number" validate:"required,max=32"`
	Name         string  `json:"name"          validate:"required,max=128"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	CompanyName  *string `json:"company_name"  validate:"omitempty,max=128"`
	Password     *string `json:"password"`
	Role         string  `json:"role"`
	Location     *string `json:"location"      validate:"omitempty,max=256"`
	// AdminSecret lets an operator create an admin without approval.
	AdminSecret string `json:"admin_secret,omitempty"`
}

type sendCodeRequest struct {
	MobileNumber string `json:"mobile_number" validate:"required"`
}

type loginRequest struct {
	MobileNumber string `json:"mobile_number" validate:"required"`
	Code         string `json:"code"          validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type identityResponse struct {
	MobileNumber string    `json:"mobile_number"`
	Role         string    `json:"role"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// --- Accounts ---

type accountResponse struct {
	ID           int64     `json:"id"`
	MobileNumber string    `json:"mobile_number"`
	Name         string    `json:"name"`
	Email        *string   `json:"email,omitempty"`
	CompanyName  *string   `json:"company_name,omitempty"`
	Location     *string   `json:"location,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type updateAccountRequest struct {
	Name        *string `json:"name"         validate:"omitempty,max=128"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	CompanyName *string `json:"company_name" validate:"omitempty,max=128"`
	Location    *string `json:"location"     validate:"omitempty,max=256"`
}

// --- Executors ---

type registerExecutorRequest struct {
	MobileNumber string  `json:"mobile_number" validate:"required,max=32"`
	Name         *string `json:"name"          validate:"omitempty,max=128"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	CompanyName  *string `json:"company_name"  validate:"omitempty,max=128"`
	Password     string  `json:"password"      validate:"required"`
	Role         string  `json:"role"          validate:"required"`
	Group        string  `json:"group"         validate:"required"`
}

type executorResponse struct {
	ID           int64   `json:"id"`
	MobileNumber string  `json:"mobile_number"`
	Name         *string `json:"name,omitempty"`
	Role         string  `json:"role"`
	Group        string  `json:"group"`
}

// --- Requests ---

type submitRequestRequest struct {
	Title          string  `json:"title"           validate:"required,max=256"`
	Description    string  `json:"description"     validate:"required"`
	Category       string  `json:"category"        validate:"required"`
	Budget         *int64  `json:"budget"          validate:"omitempty,gte=0"`
	EstimatedHours *int    `json:"estimated_hours" validate:"omitempty,gte=0"`
	PreferredDay   *string `json:"preferred_day"   validate:"omitempty,max=32"`
	PreferredTime  *string `json:"preferred_time"`
}

type assignedExecutor struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

type requestResponse struct {
	ID                int64              `json:"id"`
	OwnerID           *int64             `json:"owner_id,omitempty"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Status            string             `json:"status"`
	Category          string             `json:"category"`
	Budget            *int64             `json:"budget,omitempty"`
	EstimatedHours    *int               `json:"estimated_hours,omitempty"`
	PreferredDay      *string            `json:"preferred_day,omitempty"`
	PreferredTime     *string            `json:"preferred_time,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	AssignedExecutors []assignedExecutor `json:"assigned_executors"`
}
