package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Email     string    `json:"email" db:"email" example:"admin@esisa.ac.ma"`             // User's email address
	Password  string    `json:"-" db:"password"`                                          // User's hashed password (excluded from JSON)
	FirstName string    `json:"firstName" db:"first_name" example:"Yassine"`              // User's first name
	LastName  string    `json:"lastName" db:"last_name" example:"Alaoui"`                 // User's last name
	Role      Role      `json:"role" db:"role" example:"user"`                            // User's role (admin or user)
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`                   // Whether the account may log in
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the user was created
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"` // Timestamp when the user was last updated
}
