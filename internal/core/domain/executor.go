package domain

import "time"

// Executor is a service provider. Role names the skill category it serves
// (e.g. "IT", "HR") and lives in a different namespace from Account.Role.
type Executor struct {
	ID           int64     `json:"id" bson:"_id" db:"id"`
	MobileNumber string    `json:"mobile_number" bson:"mobile_number" db:"mobile_number"`
	Name         *string   `json:"name,omitempty" bson:"name,omitempty" db:"name"`
	Email        *string   `json:"email,omitempty" bson:"email,omitempty" db:"email"`
	CompanyName  *string   `json:"company_name,omitempty" bson:"company_name,omitempty" db:"company_name"`
	PasswordHash string    `json:"-" bson:"password_hash" db:"password_hash"`
	Role         string    `json:"role" bson:"role" db:"role"`
	Group        string    `json:"group" bson:"group" db:"executor_group"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}
