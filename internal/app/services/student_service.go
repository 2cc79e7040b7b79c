package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/app/models/dto"
	"github.com/esisa/student-records/internal/app/repositories"
	"github.com/esisa/student-records/internal/pkg/apperrors"
	"github.com/esisa/student-records/internal/pkg/dberrors"
	"github.com/esisa/student-records/internal/pkg/helpers"
	"github.com/esisa/student-records/internal/pkg/validation"
)

// StudentService handles the student record lifecycle: listing with search,
// filter and sort, reads, creation, partial updates and deletion.
type StudentService struct {
	students StudentStore
	audit    *auditRecorder
}

// NewStudentService creates a new student service
func NewStudentService(students StudentStore, logs SecurityLogStore) *StudentService {
	return &StudentService{
		students: students,
		audit:    newAuditRecorder(logs),
	}
}

// List returns a page of student records. Sort fields outside the allow-list
// and unknown status filters are rejected rather than silently ignored.
func (s *StudentService) List(ctx context.Context, params dto.StudentListParams) (*dto.StudentListResponse, error) {
	verr := apperrors.NewValidationError()

	if params.Status != "" && !models.StudentStatus(params.Status).IsValid() {
		verr.Add("status", "must be one of: active, graduated, suspended, withdrawn")
	}

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = dto.SortByCreatedAt
	}
	sortColumn, ok := sortBy.Column()
	if !ok {
		verr.Add("sortBy", fmt.Sprintf("unsupported sort field: %s", params.SortBy))
	}

	sortOrder := strings.ToLower(params.SortOrder)
	switch sortOrder {
	case "":
		sortOrder = "desc"
	case "asc", "desc":
	default:
		verr.Add("sortOrder", "must be 'asc' or 'desc'")
	}

	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Limit)

	filter := repositories.StudentFilter{
		Search:  strings.TrimSpace(params.Search),
		Status:  params.Status,
		Program: strings.TrimSpace(params.Program),
	}

	students, total, err := s.students.List(ctx, filter, sortColumn, sortOrder, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	return &dto.StudentListResponse{
		Students:   students,
		Pagination: helpers.NewPaginationInfo(total, params.Page, limit),
	}, nil
}

// GetByID returns a single student record with the creating user attached
func (s *StudentService) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

// Create inserts a new student record attributed to the acting user.
// Student code and email conflicts are reported separately so the client
// knows which field to fix.
func (s *StudentService) Create(ctx context.Context, req *dto.CreateStudentRequest, actor models.Actor, meta RequestMeta) (*models.Student, error) {
	student, err := s.buildStudent(req)
	if err != nil {
		return nil, err
	}

	if err := s.checkUniqueness(ctx, student.StudentID, student.Email, 0); err != nil {
		return nil, err
	}

	student.CreatedByID = &actor.ID

	if err := s.students.Create(ctx, student); err != nil {
		return nil, s.mapDuplicateError(err, fmt.Errorf("failed to create student: %w", err))
	}

	s.audit.record(ctx, models.ActionCreateStudent, &actor.ID, meta,
		fmt.Sprintf("Created student %s (%s %s)", student.StudentID, student.FirstName, student.LastName))
	return student, nil
}

// Update applies a partial update to an existing record. The current row is
// read first; uniqueness is only re-checked for values that actually change.
func (s *StudentService) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest, actor models.Actor, meta RequestMeta) (*models.Student, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prevStudentID, prevEmail := student.StudentID, student.Email

	if err := s.applyPatch(student, req); err != nil {
		return nil, err
	}

	// Only re-check fields that actually changed
	checkStudentID, checkEmail := "", ""
	if student.StudentID != prevStudentID {
		checkStudentID = student.StudentID
	}
	if student.Email != prevEmail {
		checkEmail = student.Email
	}
	if err := s.checkUniqueness(ctx, checkStudentID, checkEmail, id); err != nil {
		return nil, err
	}

	if err := s.students.Update(ctx, student); err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, s.mapDuplicateError(err, fmt.Errorf("failed to update student: %w", err))
	}

	s.audit.record(ctx, models.ActionUpdateStudent, &actor.ID, meta,
		fmt.Sprintf("Updated student %s", student.StudentID))
	return student, nil
}

// Delete removes a student record. Admin only.
func (s *StudentService) Delete(ctx context.Context, id int64, actor models.Actor, meta RequestMeta) error {
	if !actor.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}

	student, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("failed to delete student: %w", err)
	}

	s.audit.record(ctx, models.ActionDeleteStudent, &actor.ID, meta,
		fmt.Sprintf("Deleted student %s (%s %s)", student.StudentID, student.FirstName, student.LastName))
	return nil
}

// NextStudentID proposes the next free student code for the current year
func (s *StudentService) NextStudentID(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("%s-%d", helpers.StudentIDPrefix, time.Now().Year())
	last, err := s.students.LastStudentIDForPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to look up last student code: %w", err)
	}
	return helpers.NextStudentID(last), nil
}

// buildStudent validates a create request and assembles the model
func (s *StudentService) buildStudent(req *dto.CreateStudentRequest) (*models.Student, error) {
	verr := apperrors.NewValidationError()

	studentID := strings.TrimSpace(req.StudentID)
	if !validation.IsValidStudentID(studentID) {
		verr.Add("studentId", "must match the pattern PREFIX-YYYY-NNN, e.g. ESISA-2024-001")
	}
	if reason, ok := validation.CheckName(req.FirstName); !ok {
		verr.Add("firstName", reason)
	}
	if reason, ok := validation.CheckName(req.LastName); !ok {
		verr.Add("lastName", reason)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.IsValidEmail(email) {
		verr.Add("email", "must be a valid email address")
	}
	if len(req.Phone) > validation.PhoneMaxLength {
		verr.Add("phone", fmt.Sprintf("must be at most %d characters", validation.PhoneMaxLength))
	}
	gender := models.Gender(req.Gender)
	if !gender.IsValid() {
		verr.Add("gender", "must be one of: male, female, other")
	}
	if strings.TrimSpace(req.Department) == "" {
		verr.Add("department", "is required")
	}
	if strings.TrimSpace(req.Program) == "" {
		verr.Add("program", "is required")
	}
	if reason, ok := validation.CheckYear(req.Year); !ok {
		verr.Add("year", reason)
	}
	if reason, ok := validation.CheckSemester(req.Semester); !ok {
		verr.Add("semester", reason)
	}
	if reason, ok := validation.CheckGPA(req.GPA); !ok {
		verr.Add("gpa", reason)
	}
	status := models.StudentStatus(req.Status)
	if !status.IsValid() {
		verr.Add("status", "must be one of: active, graduated, suspended, withdrawn")
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != "" {
		parsed, err := validation.ParseDateOnly(req.DateOfBirth)
		if err != nil {
			verr.Add("dateOfBirth", err.Error())
		} else {
			dateOfBirth = &parsed
		}
	}

	enrollmentDate := time.Now()
	if req.EnrollmentDate != "" {
		parsed, err := validation.ParseDateOnly(req.EnrollmentDate)
		if err != nil {
			verr.Add("enrollmentDate", err.Error())
		} else {
			enrollmentDate = parsed
		}
	}

	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	return &models.Student{
		StudentID:      studentID,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          email,
		Phone:          strings.TrimSpace(req.Phone),
		DateOfBirth:    dateOfBirth,
		Gender:         gender,
		Address:        strings.TrimSpace(req.Address),
		Department:     strings.TrimSpace(req.Department),
		Program:        strings.TrimSpace(req.Program),
		Year:           req.Year,
		Semester:       req.Semester,
		EnrollmentDate: enrollmentDate,
		GPA:            req.GPA,
		Status:         status,
	}, nil
}

// applyPatch merges an update request into the loaded record, validating
// each present field
func (s *StudentService) applyPatch(student *models.Student, req *dto.UpdateStudentRequest) error {
	verr := apperrors.NewValidationError()

	if req.StudentID != nil {
		studentID := strings.TrimSpace(*req.StudentID)
		if !validation.IsValidStudentID(studentID) {
			verr.Add("studentId", "must match the pattern PREFIX-YYYY-NNN, e.g. ESISA-2024-001")
		} else {
			student.StudentID = studentID
		}
	}
	if req.FirstName != nil {
		if reason, ok := validation.CheckName(*req.FirstName); !ok {
			verr.Add("firstName", reason)
		} else {
			student.FirstName = strings.TrimSpace(*req.FirstName)
		}
	}
	if req.LastName != nil {
		if reason, ok := validation.CheckName(*req.LastName); !ok {
			verr.Add("lastName", reason)
		} else {
			student.LastName = strings.TrimSpace(*req.LastName)
		}
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !validation.IsValidEmail(email) {
			verr.Add("email", "must be a valid email address")
		} else {
			student.Email = email
		}
	}
	if req.Phone != nil {
		if len(*req.Phone) > validation.PhoneMaxLength {
			verr.Add("phone", fmt.Sprintf("must be at most %d characters", validation.PhoneMaxLength))
		} else {
			student.Phone = strings.TrimSpace(*req.Phone)
		}
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			student.DateOfBirth = nil
		} else if parsed, err := validation.ParseDateOnly(*req.DateOfBirth); err != nil {
			verr.Add("dateOfBirth", err.Error())
		} else {
			student.DateOfBirth = &parsed
		}
	}
	if req.Gender != nil {
		gender := models.Gender(*req.Gender)
		if !gender.IsValid() {
			verr.Add("gender", "must be one of: male, female, other")
		} else {
			student.Gender = gender
		}
	}
	if req.Address != nil {
		student.Address = strings.TrimSpace(*req.Address)
	}
	if req.Department != nil {
		if strings.TrimSpace(*req.Department) == "" {
			verr.Add("department", "cannot be empty")
		} else {
			student.Department = strings.TrimSpace(*req.Department)
		}
	}
	if req.Program != nil {
		if strings.TrimSpace(*req.Program) == "" {
			verr.Add("program", "cannot be empty")
		} else {
			student.Program = strings.TrimSpace(*req.Program)
		}
	}
	if req.Year != nil {
		if reason, ok := validation.CheckYear(*req.Year); !ok {
			verr.Add("year", reason)
		} else {
			student.Year = *req.Year
		}
	}
	if req.Semester != nil {
		if reason, ok := validation.CheckSemester(*req.Semester); !ok {
			verr.Add("semester", reason)
		} else {
			student.Semester = *req.Semester
		}
	}
	if req.EnrollmentDate != nil {
		if parsed, err := validation.ParseDateOnly(*req.EnrollmentDate); err != nil {
			verr.Add("enrollmentDate", err.Error())
		} else {
			student.EnrollmentDate = parsed
		}
	}
	if req.GPA != nil {
		if reason, ok := validation.CheckGPA(req.GPA); !ok {
			verr.Add("gpa", reason)
		} else {
			student.GPA = req.GPA
		}
	}
	if req.Status != nil {
		status := models.StudentStatus(*req.Status)
		if !status.IsValid() {
			verr.Add("status", "must be one of: active, graduated, suspended, withdrawn")
		} else {
			student.Status = status
		}
	}

	return verr.ErrOrNil()
}

// checkUniqueness verifies student code and email availability, excluding
// the record itself on updates. Empty values are skipped.
func (s *StudentService) checkUniqueness(ctx context.Context, studentID, email string, excludeID int64) error {
	if studentID != "" {
		taken, err := s.students.StudentIDExists(ctx, studentID, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check student code availability: %w", err)
		}
		if taken {
			return apperrors.ErrStudentIDAlreadyExists
		}
	}
	if email != "" {
		taken, err := s.students.EmailExists(ctx, email, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check email availability: %w", err)
		}
		if taken {
			return apperrors.ErrStudentEmailAlreadyInUse
		}
	}
	return nil
}

// mapDuplicateError resolves a unique-constraint violation to the matching
// conflict error, falling back to the given error otherwise
func (s *StudentService) mapDuplicateError(err, fallback error) error {
	if dberrors.IsDuplicateConstraintError(err, "students_student_id_key") {
		return apperrors.ErrStudentIDAlreadyExists
	}
	if dberrors.IsDuplicateConstraintError(err, "students_email_key") {
		return apperrors.ErrStudentEmailAlreadyInUse
	}
	return fallback
}
