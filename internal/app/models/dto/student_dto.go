package dto

import "github.com/esisa/student-records/internal/app/models"

// CreateStudentRequest carries the full set of fields for a new student
// record. Dates are date-only strings (YYYY-MM-DD).
type CreateStudentRequest struct {
	StudentID      string   `json:"studentId" binding:"required"`
	FirstName      string   `json:"firstName" binding:"required"`
	LastName       string   `json:"lastName" binding:"required"`
	Email          string   `json:"email" binding:"required"`
	Phone          string   `json:"phone"`
	DateOfBirth    string   `json:"dateOfBirth"`
	Gender         string   `json:"gender" binding:"required"`
	Address        string   `json:"address"`
	Department     string   `json:"department" binding:"required"`
	Program        string   `json:"program" binding:"required"`
	Year           int      `json:"year" binding:"required"`
	Semester       int      `json:"semester" binding:"required"`
	EnrollmentDate string   `json:"enrollmentDate"`
	GPA            *float64 `json:"gpa"`
	Status         string   `json:"status" binding:"required"`
}

// UpdateStudentRequest is the partial-update shape; every field is optional
// and nil fields leave the stored value untouched.
type UpdateStudentRequest struct {
	StudentID      *string  `json:"studentId,omitempty"`
	FirstName      *string  `json:"firstName,omitempty"`
	LastName       *string  `json:"lastName,omitempty"`
	Email          *string  `json:"email,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	DateOfBirth    *string  `json:"dateOfBirth,omitempty"`
	Gender         *string  `json:"gender,omitempty"`
	Address        *string  `json:"address,omitempty"`
	Department     *string  `json:"department,omitempty"`
	Program        *string  `json:"program,omitempty"`
	Year           *int     `json:"year,omitempty"`
	Semester       *int     `json:"semester,omitempty"`
	EnrollmentDate *string  `json:"enrollmentDate,omitempty"`
	GPA            *float64 `json:"gpa,omitempty"`
	Status         *string  `json:"status,omitempty"`
}

// StudentSortField is the closed set of sortable columns. Sorting is
// restricted to this allow-list so caller-controlled strings never reach
// the query builder.
type StudentSortField string

const (
	SortByStudentID      StudentSortField = "studentId"
	SortByFirstName      StudentSortField = "firstName"
	SortByLastName       StudentSortField = "lastName"
	SortByEmail          StudentSortField = "email"
	SortByProgram        StudentSortField = "program"
	SortByYear           StudentSortField = "year"
	SortByGPA            StudentSortField = "gpa"
	SortByStatus         StudentSortField = "status"
	SortByEnrollmentDate StudentSortField = "enrollmentDate"
	SortByCreatedAt      StudentSortField = "createdAt"
)

// studentSortColumns maps API sort fields to database columns
var studentSortColumns = map[StudentSortField]string{
	SortByStudentID:      "student_id",
	SortByFirstName:      "first_name",
	SortByLastName:       "last_name",
	SortByEmail:          "email",
	SortByProgram:        "program",
	SortByYear:           "year",
	SortByGPA:            "gpa",
	SortByStatus:         "status",
	SortByEnrollmentDate: "enrollment_date",
	SortByCreatedAt:      "created_at",
}

// Column resolves the database column for a sort field; ok is false for
// anything outside the allow-list.
func (f StudentSortField) Column() (string, bool) {
	col, ok := studentSortColumns[f]
	return col, ok
}

// StudentListParams captures search, filter, sort and pagination for the
// student list operation.
type StudentListParams struct {
	Search    string           `form:"search"`
	Status    string           `form:"status"`
	Program   string           `form:"program"`
	SortBy    StudentSortField `form:"sortBy"`
	SortOrder string           `form:"sortOrder"`
	Page      int              `form:"page,default=1"`
	Limit     int              `form:"limit,default=10"`
}

// StudentListResponse is the paginated list payload
type StudentListResponse struct {
	Students   []models.Student `json:"students"`
	Pagination PaginationInfo   `json:"pagination"`
}

// NextStudentIDResponse carries a proposed student code
type NextStudentIDResponse struct {
	StudentID string `json:"studentId" example:"ESISA-2025-004"`
}
