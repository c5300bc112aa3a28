package domain

import (
	"slices"
	"time"
)

// Role is the privilege level of an Account.
type Role string

const (
	RoleClient       Role = "client"
	RoleExecutor     Role = "executor"
	RoleAdmin        Role = "admin"
	RolePendingAdmin Role = "pending_admin"
)

// DefaultRoles is the role set used when none is configured.
var DefaultRoles = []Role{RoleClient, RoleExecutor, RoleAdmin, RolePendingAdmin}

// RoleSet is the enumerated set of roles an Account may hold.
type RoleSet []Role

// Contains reports whether r is a member of the set.
func (s RoleSet) Contains(r Role) bool {
	return slices.Contains(s, r)
}

// Strings returns the roles as plain strings, in configured order.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

// Account is the identity used by clients, executors-as-clients and administrators.
// MobileNumber and Role are immutable after creation except through admin approval.
type Account struct {
	ID           int64     `json:"id" bson:"_id" db:"id"`
	MobileNumber string    `json:"mobile_number" bson:"mobile_number" db:"mobile_number"`
	Name         string    `json:"name" bson:"name" db:"name"`
	Email        *string   `json:"email,omitempty" bson:"email,omitempty" db:"email"`
	CompanyName  *string   `json:"company_name,omitempty" bson:"company_name,omitempty" db:"company_name"`
	Location     *string   `json:"location,omitempty" bson:"location,omitempty" db:"location"`
	PasswordHash *string   `json:"-" bson:"password_hash,omitempty" db:"password_hash"`
	Role         Role      `json:"role" bson:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at" db:"updated_at"`
}

// AccountLookup selects an account by id, falling back to mobile number.
type AccountLookup struct {
	ID           int64
	MobileNumber string
}

// AccountUpdate carries the profile fields a caller may change. Nil fields are left untouched.
type AccountUpdate struct {
	Name        *string
	Email       *string
	CompanyName *string
	Location    *string
}

// Apply copies the non-nil fields of u onto a.
func (u AccountUpdate) Apply(a *Account) {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Email != nil {
		a.Email = u.Email
	}
	if u.CompanyName != nil {
		a.CompanyName = u.CompanyName
	}
	if u.Location != nil {
		a.Location = u.Location
	}
}
