package services

import (
	"context"

	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/app/models/dto"
	"github.com/esisa/student-records/internal/app/repositories"
)

// Services defined in this package:
// - AuthService: registration, login and session token issuance
// - UserService: account reads, profile/admin updates and deletion
// - StudentService: student record CRUD, search and listing
// - StatisticsService: read-only dashboard aggregation

// The store interfaces below describe what each service needs from the
// persistence gateway. The pgx repositories satisfy them; tests substitute
// in-memory fakes.

// UserStore is the persistence surface used for user accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	EmailExistsForOther(ctx context.Context, email string, excludeID int64) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

// StudentStore is the persistence surface used for student records
type StudentStore interface {
	List(ctx context.Context, filter repositories.StudentFilter, sortColumn, sortOrder string, offset uint64, limit int) ([]models.Student, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	StudentIDExists(ctx context.Context, studentID string, excludeID int64) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
	CountByCreator(ctx context.Context, userID int64) (int64, error)
	LastStudentIDForPrefix(ctx context.Context, prefix string) (string, error)
}

// StatisticsStore is the persistence surface behind the dashboard aggregate
type StatisticsStore interface {
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.StudentStatus) (int64, error)
	CountByProgram(ctx context.Context) ([]dto.DepartmentCount, error)
	CountByYear(ctx context.Context) ([]dto.YearCount, error)
	RecentStudents(ctx context.Context, limit int) ([]dto.RecentStudent, error)
	AverageGPA(ctx context.Context) (*float64, error)
	GPADistribution(ctx context.Context) (dto.GPADistribution, error)
}

// SecurityLogStore is the append-only audit sink. Entries are never updated
// or deleted; ListRecent exists for operational inspection.
type SecurityLogStore interface {
	Insert(ctx context.Context, entry *models.SecurityLog) error
	ListRecent(ctx context.Context, limit int) ([]models.SecurityLog, error)
}
