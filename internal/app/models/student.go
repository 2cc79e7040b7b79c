package models

import (
	"time"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID             int64         `json:"id" db:"id"`
	StudentID      string        `json:"studentId" db:"student_id" example:"ESISA-2024-001"` // Externally visible student code
	FirstName      string        `json:"firstName" db:"first_name"`
	LastName       string        `json:"lastName" db:"last_name"`
	Email          string        `json:"email" db:"email"`
	Phone          string        `json:"phone" db:"phone"`
	DateOfBirth    *time.Time    `json:"dateOfBirth,omitempty" db:"date_of_birth"` // Pointer for potential NULL
	Gender         Gender        `json:"gender" db:"gender"`
	Address        string        `json:"address" db:"address"`
	Department     string        `json:"department" db:"department"`
	Program        string        `json:"program" db:"program"`
	Year           int           `json:"year" db:"year"`         // Study year, 1-5
	Semester       int           `json:"semester" db:"semester"` // Semester within the year, 1-2
	EnrollmentDate time.Time     `json:"enrollmentDate" db:"enrollment_date"`
	GPA            *float64      `json:"gpa" db:"gpa"` // Nullable, 0.0-4.0
	Status         StudentStatus `json:"status" db:"status"`
	CreatedByID    *int64        `json:"createdById,omitempty" db:"created_by_id"` // Weak reference to the creating user
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time     `json:"updatedAt" db:"updated_at"`

	// Relation (populated when needed)
	CreatedBy *UserSummary `json:"createdBy,omitempty"`
}

// UserSummary is the subset of user fields embedded in student responses
type UserSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}
