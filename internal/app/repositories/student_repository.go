package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/esisa/student-records/internal/app/models"
)

// Student error types
var (
	ErrStudentNotFound = errors.New("student not found")
)

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

var studentColumns = []string{
	"s.id", "s.student_id", "s.first_name", "s.last_name", "s.email", "s.phone",
	"s.date_of_birth", "s.gender", "s.address", "s.department", "s.program",
	"s.year", "s.semester", "s.enrollment_date", "s.gpa", "s.status",
	"s.created_by_id", "s.created_at", "s.updated_at",
}

// StudentFilter carries the persistence-level list filters. Search matches
// first name, last name, email and student code as substrings (OR); status
// and program are exact matches combined with AND.
type StudentFilter struct {
	Search  string
	Status  string
	Program string
}

func applyStudentFilter(query squirrel.SelectBuilder, filter StudentFilter) squirrel.SelectBuilder {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"s.first_name": pattern},
			squirrel.ILike{"s.last_name": pattern},
			squirrel.ILike{"s.email": pattern},
			squirrel.ILike{"s.student_id": pattern},
		})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"s.status": filter.Status})
	}
	if filter.Program != "" {
		query = query.Where(squirrel.Eq{"s.program": filter.Program})
	}
	return query
}

// List retrieves students with filtering, ordering and pagination. The total
// comes from its own count query so that a page past the last row still
// reports how many rows match. The sort column must come from the
// service-level allow-list; it is interpolated into the ORDER BY clause and
// must never be caller-controlled.
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter, sortColumn, sortOrder string, offset uint64, limit int) ([]models.Student, int64, error) {
	countQuery := applyStudentFilter(squirrel.Select("COUNT(*)").
		From("students s").
		PlaceholderFormat(squirrel.Dollar), filter)

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	query := applyStudentFilter(squirrel.Select(studentColumns...).
		From("students s").
		PlaceholderFormat(squirrel.Dollar), filter).
		OrderBy(fmt.Sprintf("s.%s %s", sortColumn, sortOrder)).
		Limit(uint64(limit)).
		Offset(offset)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var students []models.Student

	for rows.Next() {
		var student models.Student
		err := rows.Scan(
			&student.ID,
			&student.StudentID,
			&student.FirstName,
			&student.LastName,
			&student.Email,
			&student.Phone,
			&student.DateOfBirth,
			&student.Gender,
			&student.Address,
			&student.Department,
			&student.Program,
			&student.Year,
			&student.Semester,
			&student.EnrollmentDate,
			&student.GPA,
			&student.Status,
			&student.CreatedByID,
			&student.CreatedAt,
			&student.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// GetByID retrieves a student by ID together with a summary of the
// creating user when the weak reference is still resolvable.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `
		SELECT s.id, s.student_id, s.first_name, s.last_name, s.email, s.phone,
		       s.date_of_birth, s.gender, s.address, s.department, s.program,
		       s.year, s.semester, s.enrollment_date, s.gpa, s.status,
		       s.created_by_id, s.created_at, s.updated_at,
		       u.id, u.first_name, u.last_name, u.email
		FROM students s
		LEFT JOIN users u ON u.id = s.created_by_id
		WHERE s.id = $1
	`

	var student models.Student
	var creatorID *int64
	var creatorFirst, creatorLast, creatorEmail *string

	err := r.db.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.StudentID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.Phone,
		&student.DateOfBirth,
		&student.Gender,
		&student.Address,
		&student.Department,
		&student.Program,
		&student.Year,
		&student.Semester,
		&student.EnrollmentDate,
		&student.GPA,
		&student.Status,
		&student.CreatedByID,
		&student.CreatedAt,
		&student.UpdatedAt,
		&creatorID,
		&creatorFirst,
		&creatorLast,
		&creatorEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	if creatorID != nil {
		student.CreatedBy = &models.UserSummary{
			ID:        *creatorID,
			FirstName: *creatorFirst,
			LastName:  *creatorLast,
			Email:     *creatorEmail,
		}
	}

	return &student, nil
}

// StudentIDExists checks if any student other than excludeID holds the
// given student code. Pass excludeID 0 for create-time checks.
func (r *StudentRepository) StudentIDExists(ctx context.Context, studentID string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM students WHERE student_id = $1 AND id != $2)`,
		studentID, excludeID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking student ID existence: %w", err)
	}

	return exists, nil
}

// EmailExists checks if any student other than excludeID holds the given
// email. Pass excludeID 0 for create-time checks.
func (r *StudentRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM students WHERE email = $1 AND id != $2)`,
		email, excludeID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking student email existence: %w", err)
	}

	return exists, nil
}

// Create inserts a new student and fills in the generated id and timestamps
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := squirrel.Insert("students").
		Columns("student_id", "first_name", "last_name", "email", "phone",
			"date_of_birth", "gender", "address", "department", "program",
			"year", "semester", "enrollment_date", "gpa", "status", "created_by_id").
		Values(student.StudentID, student.FirstName, student.LastName, student.Email, student.Phone,
			student.DateOfBirth, student.Gender, student.Address, student.Department, student.Program,
			student.Year, student.Semester, student.EnrollmentDate, student.GPA, student.Status, student.CreatedByID).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		return err
	}

	return nil
}

// Update persists the full student row and refreshes updated_at
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	query := squirrel.Update("students").
		Set("student_id", student.StudentID).
		Set("first_name", student.FirstName).
		Set("last_name", student.LastName).
		Set("email", student.Email).
		Set("phone", student.Phone).
		Set("date_of_birth", student.DateOfBirth).
		Set("gender", student.Gender).
		Set("address", student.Address).
		Set("department", student.Department).
		Set("program", student.Program).
		Set("year", student.Year).
		Set("semester", student.Semester).
		Set("enrollment_date", student.EnrollmentDate).
		Set("gpa", student.GPA).
		Set("status", student.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ?", student.ID).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStudentNotFound
		}
		return err
	}

	return nil
}

// Delete removes a student by ID
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}

	return nil
}

// CountByCreator returns how many student records a given user created
func (r *StudentRepository) CountByCreator(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE created_by_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting created students: %w", err)
	}
	return count, nil
}

// LastStudentIDForPrefix returns the highest student code starting with the
// given prefix (e.g. "ESISA-2024-"), or empty when no such code exists.
func (r *StudentRepository) LastStudentIDForPrefix(ctx context.Context, prefix string) (string, error) {
	var last string
	err := r.db.QueryRow(ctx, `
		SELECT student_id FROM students
		WHERE student_id LIKE $1 || '%'
		ORDER BY student_id DESC
		LIMIT 1`, prefix).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("error retrieving last student code: %w", err)
	}
	return last, nil
}
