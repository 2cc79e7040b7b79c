package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/app/models/dto"
)

// StatisticsRepository runs the read-only aggregation queries behind the
// dashboard. Each figure is computed by its own query; consistency across
// them holds for any quiescent snapshot of the students table.
type StatisticsRepository struct {
	db *pgxpool.Pool
}

// NewStatisticsRepository creates a new StatisticsRepository
func NewStatisticsRepository(db *pgxpool.Pool) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// CountAll returns the total number of student records
func (r *StatisticsRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// CountByStatus returns the number of students in one status
func (r *StatisticsRepository) CountByStatus(ctx context.Context, status models.StudentStatus) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting students by status: %w", err)
	}
	return count, nil
}

// CountByProgram groups student counts by the program column. The output is
// labeled "department" downstream; the grouping key is intentionally the
// program field, matching the behavior the dashboards were built against.
func (r *StatisticsRepository) CountByProgram(ctx context.Context) ([]dto.DepartmentCount, error) {
	query := `
		SELECT COALESCE(NULLIF(program, ''), 'Unknown'), COUNT(*)
		FROM students
		GROUP BY 1
		ORDER BY 2 DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error grouping students by program: %w", err)
	}
	defer rows.Close()

	var counts []dto.DepartmentCount
	for rows.Next() {
		var c dto.DepartmentCount
		if err := rows.Scan(&c.Department, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// CountByYear groups student counts by study year
func (r *StatisticsRepository) CountByYear(ctx context.Context) ([]dto.YearCount, error) {
	query := `
		SELECT year, COUNT(*)
		FROM students
		GROUP BY year
		ORDER BY year
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error grouping students by year: %w", err)
	}
	defer rows.Close()

	var counts []dto.YearCount
	for rows.Next() {
		var c dto.YearCount
		if err := rows.Scan(&c.Year, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// RecentStudents retrieves the newest student records with a reduced field set
func (r *StatisticsRepository) RecentStudents(ctx context.Context, limit int) ([]dto.RecentStudent, error) {
	query := `
		SELECT id, student_id, first_name, last_name, email, program, status, created_at
		FROM students
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error retrieving recent students: %w", err)
	}
	defer rows.Close()

	var students []dto.RecentStudent
	for rows.Next() {
		var s dto.RecentStudent
		if err := rows.Scan(&s.ID, &s.StudentID, &s.FirstName, &s.LastName, &s.Email, &s.Program, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Department = s.Program
		students = append(students, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// AverageGPA returns the mean GPA over students that have one recorded,
// or nil when no student has a GPA.
func (r *StatisticsRepository) AverageGPA(ctx context.Context) (*float64, error) {
	var avg *float64
	err := r.db.QueryRow(ctx, `SELECT AVG(gpa) FROM students WHERE gpa IS NOT NULL`).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("error computing average GPA: %w", err)
	}
	return avg, nil
}

// GPADistribution returns the four-bucket histogram over recorded GPAs
func (r *StatisticsRepository) GPADistribution(ctx context.Context) (dto.GPADistribution, error) {
	var dist dto.GPADistribution
	query := `
		SELECT
			COUNT(*) FILTER (WHERE gpa >= 3.5),
			COUNT(*) FILTER (WHERE gpa >= 3.0 AND gpa < 3.5),
			COUNT(*) FILTER (WHERE gpa >= 2.5 AND gpa < 3.0),
			COUNT(*) FILTER (WHERE gpa < 2.5)
		FROM students
		WHERE gpa IS NOT NULL
	`

	err := r.db.QueryRow(ctx, query).Scan(&dist.Excellent, &dist.Good, &dist.Average, &dist.BelowAverage)
	if err != nil {
		return dist, fmt.Errorf("error computing GPA distribution: %w", err)
	}

	return dist, nil
}
