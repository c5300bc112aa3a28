package domain

import "time"

// RequestStatus represents the lifecycle state of a Request.
type RequestStatus string

const (
	RequestOpen    RequestStatus = "open"
	RequestPending RequestStatus = "pending"
	RequestClosed  RequestStatus = "closed"
)

// Valid reports whether s is one of the known statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestOpen, RequestPending, RequestClosed:
		return true
	}
	return false
}

// Request is a unit of work submitted by an account (or anonymously).
// Category is free text and is matched verbatim against Executor.Role.
type Request struct {
	ID             int64         `json:"id" bson:"_id" db:"id"`
	OwnerID        *int64        `json:"owner_id,omitempty" bson:"owner_id,omitempty" db:"owner_id"`
	Title          string        `json:"title" bson:"title" db:"title"`
	Description    string        `json:"description" bson:"description" db:"description"`
	Status         RequestStatus `json:"status" bson:"status" db:"status"`
	Category       string        `json:"category" bson:"category" db:"category"`
	Budget         *int64        `json:"budget,omitempty" bson:"budget,omitempty" db:"budget"`
	EstimatedHours *int          `json:"estimated_hours,omitempty" bson:"estimated_hours,omitempty" db:"estimated_hours"`
	PreferredDay   *string       `json:"preferred_day,omitempty" bson:"preferred_day,omitempty" db:"preferred_day"`
	PreferredTime  *string       `json:"preferred_time,omitempty" bson:"preferred_time,omitempty" db:"preferred_time"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at" db:"created_at"`
}

// MatchedRequest pairs a request with the executors whose role equals its category.
// Matches are computed on read and never persisted.
type MatchedRequest struct {
	Request   *Request
	Executors []*Executor
}
