package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/app/models/dto"
	"github.com/esisa/student-records/internal/app/repositories"
)

// In-memory store fakes backing the service tests. They implement the same
// error contract as the pgx repositories.

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (s *fakeUserStore) add(user models.User) *models.User {
	if user.ID == 0 {
		user.ID = s.nextID
	}
	if user.ID >= s.nextID {
		s.nextID = user.ID + 1
	}
	stored := user
	s.users[stored.ID] = &stored
	return &stored
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return duplicateKeyError("users_email_key")
		}
	}
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (s *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) EmailExistsForOther(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, u := range s.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) Update(_ context.Context, user *models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

type fakeStudentStore struct {
	students map[int64]*models.Student
	nextID   int64
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: make(map[int64]*models.Student), nextID: 1}
}

func (s *fakeStudentStore) add(student models.Student) *models.Student {
	if student.ID == 0 {
		student.ID = s.nextID
	}
	if student.ID >= s.nextID {
		s.nextID = student.ID + 1
	}
	stored := student
	s.students[stored.ID] = &stored
	return &stored
}

func (s *fakeStudentStore) List(_ context.Context, filter repositories.StudentFilter, sortColumn, sortOrder string, offset uint64, limit int) ([]models.Student, int64, error) {
	var matched []models.Student
	for _, st := range s.students {
		if filter.Status != "" && string(st.Status) != filter.Status {
			continue
		}
		if filter.Program != "" && st.Program != filter.Program {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			haystack := strings.ToLower(st.StudentID + " " + st.FirstName + " " + st.LastName + " " + st.Email)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		matched = append(matched, *st)
	}

	sort.Slice(matched, func(i, j int) bool {
		less := matched[i].ID < matched[j].ID
		if sortOrder == "desc" {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	if offset >= uint64(len(matched)) {
		return []models.Student{}, total, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (s *fakeStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	student, ok := s.students[id]
	if !ok {
		return nil, repositories.ErrStudentNotFound
	}
	copied := *student
	return &copied, nil
}

func (s *fakeStudentStore) StudentIDExists(_ context.Context, studentID string, excludeID int64) (bool, error) {
	for _, st := range s.students {
		if st.StudentID == studentID && st.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStudentStore) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, st := range s.students {
		if st.Email == email && st.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStudentStore) Create(_ context.Context, student *models.Student) error {
	for _, st := range s.students {
		if st.StudentID == student.StudentID {
			return duplicateKeyError("students_student_id_key")
		}
		if st.Email == student.Email {
			return duplicateKeyError("students_email_key")
		}
	}
	student.ID = s.nextID
	s.nextID++
	student.CreatedAt = time.Now()
	student.UpdatedAt = student.CreatedAt
	stored := *student
	s.students[student.ID] = &stored
	return nil
}

func (s *fakeStudentStore) Update(_ context.Context, student *models.Student) error {
	if _, ok := s.students[student.ID]; !ok {
		return repositories.ErrStudentNotFound
	}
	student.UpdatedAt = time.Now()
	stored := *student
	s.students[student.ID] = &stored
	return nil
}

func (s *fakeStudentStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.students[id]; !ok {
		return repositories.ErrStudentNotFound
	}
	delete(s.students, id)
	return nil
}

func (s *fakeStudentStore) CountByCreator(_ context.Context, userID int64) (int64, error) {
	var count int64
	for _, st := range s.students {
		if st.CreatedByID != nil && *st.CreatedByID == userID {
			count++
		}
	}
	return count, nil
}

func (s *fakeStudentStore) LastStudentIDForPrefix(_ context.Context, prefix string) (string, error) {
	var last string
	for _, st := range s.students {
		if strings.HasPrefix(st.StudentID, prefix) && st.StudentID > last {
			last = st.StudentID
		}
	}
	return last, nil
}

type fakeSecurityLogStore struct {
	entries []models.SecurityLog
	failing bool
}

func (s *fakeSecurityLogStore) Insert(_ context.Context, entry *models.SecurityLog) error {
	if s.failing {
		return errAuditDown
	}
	entry.ID = int64(len(s.entries) + 1)
	entry.CreatedAt = time.Now()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *fakeSecurityLogStore) ListRecent(_ context.Context, limit int) ([]models.SecurityLog, error) {
	if s.failing {
		return nil, errAuditDown
	}
	out := make([]models.SecurityLog, 0, limit)
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

func (s *fakeSecurityLogStore) actions() []string {
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeStatisticsStore struct {
	total        int64
	byStatus     map[models.StudentStatus]int64
	byProgram    []dto.DepartmentCount
	byYear       []dto.YearCount
	recent       []dto.RecentStudent
	averageGPA   *float64
	distribution dto.GPADistribution
}

func (s *fakeStatisticsStore) CountAll(context.Context) (int64, error) { return s.total, nil }

func (s *fakeStatisticsStore) CountByStatus(_ context.Context, status models.StudentStatus) (int64, error) {
	return s.byStatus[status], nil
}

func (s *fakeStatisticsStore) CountByProgram(context.Context) ([]dto.DepartmentCount, error) {
	return s.byProgram, nil
}

func (s *fakeStatisticsStore) CountByYear(context.Context) ([]dto.YearCount, error) {
	return s.byYear, nil
}

func (s *fakeStatisticsStore) RecentStudents(_ context.Context, limit int) ([]dto.RecentStudent, error) {
	if len(s.recent) > limit {
		return s.recent[:limit], nil
	}
	return s.recent, nil
}

func (s *fakeStatisticsStore) AverageGPA(context.Context) (*float64, error) {
	return s.averageGPA, nil
}

func (s *fakeStatisticsStore) GPADistribution(context.Context) (dto.GPADistribution, error) {
	return s.distribution, nil
}
