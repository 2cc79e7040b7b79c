package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	StudentRepository     *StudentRepository
	SecurityLogRepository *SecurityLogRepository
	StatisticsRepository  *StatisticsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		StudentRepository:     NewStudentRepository(db),
		SecurityLogRepository: NewSecurityLogRepository(db),
		StatisticsRepository:  NewStatisticsRepository(db),
	}
}
