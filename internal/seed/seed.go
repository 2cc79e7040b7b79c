package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/esisa/student-records/internal/app/models"
	appRepos "github.com/esisa/student-records/internal/app/repositories"
	"github.com/esisa/student-records/internal/pkg/auth"
)

// Default accounts created on first startup. The admin account is the only
// way into the system before anyone registers.
var defaultUsers = []struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      appModels.Role
}{
	{"admin@esisa.ac.ma", "Admin@123", "Admin", "ESISA", appModels.RoleAdmin},
	{"user@esisa.ac.ma", "User@123", "Utilisateur", "Standard", appModels.RoleUser},
	{"professor@esisa.ac.ma", "Prof@123", "Jean", "Dupont", appModels.RoleUser},
}

func dob(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func gpa(v float64) *float64 { return &v }

// Demo students give a fresh install something to show on the dashboard.
// The set deliberately spans statuses, programs and enrollment years so the
// statistics endpoint has non-trivial aggregates from day one.
var demoStudents = []appModels.Student{
	{
		StudentID: "ESISA-2024-001", FirstName: "Ahmed", LastName: "Benali",
		Email: "ahmed.benali@student.esisa.ac.ma", Phone: "+212 6 12 34 56 78",
		DateOfBirth: dob(2000, time.May, 15), Gender: appModels.GenderMale,
		Address: "123 Avenue Mohammed V, Fès",
		Department: "Engineering", Program: "Computer Science",
		Year: 3, Semester: 1, GPA: gpa(3.7), Status: appModels.StatusActive,
	},
	{
		StudentID: "ESISA-2024-002", FirstName: "Fatima", LastName: "Zahra",
		Email: "fatima.zahra@student.esisa.ac.ma", Phone: "+212 6 23 45 67 89",
		DateOfBirth: dob(2001, time.March, 22), Gender: appModels.GenderFemale,
		Address: "45 Rue des Fleurs, Casablanca",
		Department: "Engineering", Program: "Software Engineering",
		Year: 2, Semester: 1, GPA: gpa(3.9), Status: appModels.StatusActive,
	},
	{
		StudentID: "ESISA-2024-003", FirstName: "Omar", LastName: "Khattabi",
		Email: "omar.khattabi@student.esisa.ac.ma", Phone: "+212 6 34 56 78 90",
		DateOfBirth: dob(1999, time.November, 8), Gender: appModels.GenderMale,
		Address: "78 Boulevard Hassan II, Rabat",
		Department: "Engineering", Program: "Data Science",
		Year: 4, Semester: 2, GPA: gpa(3.5), Status: appModels.StatusActive,
	},
	{
		StudentID: "ESISA-2024-004", FirstName: "Sara", LastName: "El Amrani",
		Email: "sara.elamrani@student.esisa.ac.ma", Phone: "+212 6 45 67 89 01",
		DateOfBirth: dob(2002, time.July, 30), Gender: appModels.GenderFemale,
		Address: "12 Rue Ibn Sina, Marrakech",
		Department: "Engineering", Program: "Computer Science",
		Year: 1, Semester: 1, GPA: gpa(3.2), Status: appModels.StatusActive,
	},
	{
		StudentID: "ESISA-2024-005", FirstName: "Youssef", LastName: "Mansouri",
		Email: "youssef.mansouri@student.esisa.ac.ma", Phone: "+212 6 56 78 90 12",
		DateOfBirth: dob(2000, time.January, 12), Gender: appModels.GenderMale,
		Address: "90 Avenue FAR, Tangier",
		Department: "Engineering", Program: "Cybersecurity",
		Year: 3, Semester: 2, GPA: gpa(3.8), Status: appModels.StatusActive,
	},
	{
		StudentID: "ESISA-2023-010", FirstName: "Khadija", LastName: "Bennani",
		Email: "khadija.bennani@student.esisa.ac.ma", Phone: "+212 6 67 89 01 23",
		DateOfBirth: dob(1998, time.September, 5), Gender: appModels.GenderFemale,
		Address: "34 Rue Allal Ben Abdellah, Fès",
		Department: "Engineering", Program: "Software Engineering",
		Year: 5, Semester: 2, GPA: gpa(3.95), Status: appModels.StatusGraduated,
	},
	{
		StudentID: "ESISA-2022-015", FirstName: "Amine", LastName: "Chraibi",
		Email: "amine.chraibi@student.esisa.ac.ma", Phone: "+212 6 90 12 34 56",
		DateOfBirth: dob(1999, time.June, 14), Gender: appModels.GenderMale,
		Address: "67 Avenue Mohammed VI, Agadir",
		Department: "Engineering", Program: "Cybersecurity",
		Year: 4, Semester: 1, GPA: gpa(2.8), Status: appModels.StatusSuspended,
	},
}

// CreateDefaultData creates the default accounts and demo students if they
// don't exist. Safe to run on every startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	studentRepo := appRepos.NewStudentRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default accounts...")
	var finalErr error

	for _, u := range defaultUsers {
		exists, err := userRepo.EmailExists(ctx, u.Email)
		if err != nil {
			lgr.Error().Err(err).Str("email", u.Email).Msg("Error checking default account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if exists {
			continue
		}

		hashed, err := auth.HashPassword(u.Password)
		if err != nil {
			finalErr = errors.Join(finalErr, fmt.Errorf("failed to hash default password: %w", err))
			continue
		}

		user := &appModels.User{
			Email:     u.Email,
			Password:  hashed,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      u.Role,
			IsActive:  true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			lgr.Error().Err(err).Str("email", u.Email).Msg("Error creating default account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("email", u.Email).Str("role", string(u.Role)).Msg("Default account created")
	}

	admin, err := userRepo.GetByEmail(ctx, defaultUsers[0].Email)
	if err != nil {
		// Without the admin account we can't attribute the demo records.
		return errors.Join(finalErr, fmt.Errorf("failed to load admin account for seeding: %w", err))
	}

	created := 0
	for _, s := range demoStudents {
		exists, err := studentRepo.StudentIDExists(ctx, s.StudentID, 0)
		if err != nil {
			lgr.Error().Err(err).Str("studentId", s.StudentID).Msg("Error checking demo student")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if exists {
			continue
		}

		student := s
		student.EnrollmentDate = time.Now()
		student.CreatedByID = &admin.ID
		if err := studentRepo.Create(ctx, &student); err != nil {
			lgr.Error().Err(err).Str("studentId", s.StudentID).Msg("Error creating demo student")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		created++
	}
	if created > 0 {
		lgr.Info().Int("count", created).Msg("Demo students created")
	}

	return finalErr
}
