package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/app/models/dto"
	"github.com/esisa/student-records/internal/pkg/apperrors"
)

func newStudentFixture() (*StudentService, *fakeStudentStore, *fakeSecurityLogStore) {
	students := newFakeStudentStore()
	logs := &fakeSecurityLogStore{}
	return NewStudentService(students, logs), students, logs
}

func validCreateRequest() *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		StudentID:   "ESISA-2025-001",
		FirstName:   "Yassine",
		LastName:    "Alaoui",
		Email:       "yassine.alaoui@esisa.ac.ma",
		Phone:       "+212600000000",
		DateOfBirth: "2004-05-17",
		Gender:      "male",
		Address:     "Fès",
		Department:  "Informatique",
		Program:     "Génie Logiciel",
		Year:        2,
		Semester:    1,
		GPA:         floatPtr(3.4),
		Status:      "active",
	}
}

func TestCreateStudentRecordsCreator(t *testing.T) {
	svc, students, logs := newStudentFixture()
	actor := userActor(7)

	student, err := svc.Create(context.Background(), validCreateRequest(), actor, RequestMeta{IPAddress: "10.0.0.9"})
	require.NoError(t, err)

	require.NotNil(t, student.CreatedByID)
	assert.Equal(t, int64(7), *student.CreatedByID)
	require.NotNil(t, student.DateOfBirth)
	assert.Equal(t, 2004, student.DateOfBirth.Year())
	assert.False(t, student.EnrollmentDate.IsZero(), "enrollment date defaults to now")

	stored, err := students.GetByID(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, "ESISA-2025-001", stored.StudentID)

	require.Len(t, logs.entries, 1)
	assert.Equal(t, models.ActionCreateStudent, logs.entries[0].Action)
	assert.Contains(t, logs.entries[0].Details, "ESISA-2025-001")
}

func TestCreateStudentDistinguishesConflicts(t *testing.T) {
	svc, students, _ := newStudentFixture()
	students.add(models.Student{StudentID: "ESISA-2025-001", Email: "first@esisa.ac.ma"})

	// Same student code, different email
	req := validCreateRequest()
	req.Email = "other@esisa.ac.ma"
	_, err := svc.Create(context.Background(), req, userActor(1), RequestMeta{})
	assert.ErrorIs(t, err, apperrors.ErrStudentIDAlreadyExists)

	// Different student code, same email
	req = validCreateRequest()
	req.StudentID = "ESISA-2025-777"
	req.Email = "first@esisa.ac.ma"
	_, err = svc.Create(context.Background(), req, userActor(1), RequestMeta{})
	assert.ErrorIs(t, err, apperrors.ErrStudentEmailAlreadyInUse)
}

func TestCreateStudentValidationAggregatesFields(t *testing.T) {
	svc, _, _ := newStudentFixture()

	req := validCreateRequest()
	req.StudentID = "bad-code"
	req.Email = "not-an-email"
	req.Year = 9
	req.Semester = 3
	req.GPA = floatPtr(4.5)
	req.Status = "expelled"
	req.DateOfBirth = "17/05/2004"

	_, err := svc.Create(context.Background(), req, userActor(1), RequestMeta{})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"studentId", "email", "year", "semester", "gpa", "status", "dateOfBirth"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestUpdateStudentPartialPatch(t *testing.T) {
	svc, students, logs := newStudentFixture()
	s := students.add(models.Student{
		StudentID: "ESISA-2025-001", FirstName: "Yassine", LastName: "Alaoui",
		Email: "yassine@esisa.ac.ma", Gender: models.GenderMale,
		Department: "Informatique", Program: "Génie Logiciel",
		Year: 2, Semester: 1, Status: models.StatusActive,
	})

	updated, err := svc.Update(context.Background(), s.ID, &dto.UpdateStudentRequest{
		Year:   intPtr(3),
		GPA:    floatPtr(3.8),
		Status: strPtr("graduated"),
	}, userActor(1), RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, 3, updated.Year)
	assert.Equal(t, models.StatusGraduated, updated.Status)
	require.NotNil(t, updated.GPA)
	assert.InDelta(t, 3.8, *updated.GPA, 0.001)
	assert.Equal(t, "Yassine", updated.FirstName, "absent fields stay untouched")
	assert.Equal(t, []string{models.ActionUpdateStudent}, logs.actions())
}

func TestUpdateStudentUniquenessOnlyForChangedValues(t *testing.T) {
	svc, students, _ := newStudentFixture()
	students.add(models.Student{StudentID: "ESISA-2025-001", Email: "one@esisa.ac.ma"})
	s := students.add(models.Student{
		StudentID: "ESISA-2025-002", Email: "two@esisa.ac.ma",
		FirstName: "Deux", LastName: "Test", Gender: models.GenderFemale,
		Department: "Informatique", Program: "Réseaux",
		Year: 1, Semester: 1, Status: models.StatusActive,
	})

	// Re-submitting the record's own identifiers is not a conflict
	_, err := svc.Update(context.Background(), s.ID, &dto.UpdateStudentRequest{
		StudentID: strPtr("ESISA-2025-002"),
		Email:     strPtr("two@esisa.ac.ma"),
	}, userActor(1), RequestMeta{})
	assert.NoError(t, err)

	// Moving onto another record's code is
	_, err = svc.Update(context.Background(), s.ID, &dto.UpdateStudentRequest{
		StudentID: strPtr("ESISA-2025-001"),
	}, userActor(1), RequestMeta{})
	assert.ErrorIs(t, err, apperrors.ErrStudentIDAlreadyExists)

	_, err = svc.Update(context.Background(), s.ID, &dto.UpdateStudentRequest{
		Email: strPtr("one@esisa.ac.ma"),
	}, userActor(1), RequestMeta{})
	assert.ErrorIs(t, err, apperrors.ErrStudentEmailAlreadyInUse)
}

func TestUpdateStudentNotFound(t *testing.T) {
	svc, _, _ := newStudentFixture()

	_, err := svc.Update(context.Background(), 404, &dto.UpdateStudentRequest{
		Year: intPtr(2),
	}, userActor(1), RequestMeta{})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestDeleteStudentAdminOnly(t *testing.T) {
	svc, students, logs := newStudentFixture()
	s := students.add(models.Student{StudentID: "ESISA-2025-001", Email: "x@esisa.ac.ma"})

	err := svc.Delete(context.Background(), s.ID, userActor(1), RequestMeta{})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Empty(t, logs.actions())

	err = svc.Delete(context.Background(), s.ID, adminActor(99), RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, []string{models.ActionDeleteStudent}, logs.actions())

	err = svc.Delete(context.Background(), s.ID, adminActor(99), RequestMeta{})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestListStudentsPagination(t *testing.T) {
	svc, students, _ := newStudentFixture()
	for i := 1; i <= 25; i++ {
		students.add(models.Student{
			StudentID: fmt.Sprintf("ESISA-2025-%03d", i),
			Email:     fmt.Sprintf("s%d@esisa.ac.ma", i),
			Status:    models.StatusActive,
		})
	}

	result, err := svc.List(context.Background(), dto.StudentListParams{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, result.Students, 10)
	assert.Equal(t, int64(25), result.Pagination.Total)
	assert.Equal(t, 2, result.Pagination.Page)
	assert.Equal(t, 3, result.Pagination.TotalPages)
}

func TestListStudentsPageBeyondLastKeepsTotal(t *testing.T) {
	svc, students, _ := newStudentFixture()
	for i := 1; i <= 25; i++ {
		students.add(models.Student{
			StudentID: fmt.Sprintf("ESISA-2025-%03d", i),
			Email:     fmt.Sprintf("s%d@esisa.ac.ma", i),
			Status:    models.StatusActive,
		})
	}

	// A page past the last row returns no records but still reports the
	// true match count, so clients can recover to a valid page.
	result, err := svc.List(context.Background(), dto.StudentListParams{Page: 4, Limit: 10})
	require.NoError(t, err)

	assert.Empty(t, result.Students)
	assert.Equal(t, int64(25), result.Pagination.Total)
	assert.Equal(t, 4, result.Pagination.Page)
	assert.Equal(t, 3, result.Pagination.TotalPages)
}

func TestListStudentsRejectsUnknownSortAndStatus(t *testing.T) {
	svc, _, _ := newStudentFixture()

	_, err := svc.List(context.Background(), dto.StudentListParams{SortBy: "password"})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "sortBy")

	_, err = svc.List(context.Background(), dto.StudentListParams{Status: "expelled"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "status")

	_, err = svc.List(context.Background(), dto.StudentListParams{SortOrder: "sideways"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "sortOrder")
}

func TestListStudentsFilters(t *testing.T) {
	svc, students, _ := newStudentFixture()
	students.add(models.Student{StudentID: "ESISA-2025-001", Email: "a@esisa.ac.ma", Status: models.StatusActive, Program: "Génie Logiciel"})
	students.add(models.Student{StudentID: "ESISA-2025-002", Email: "b@esisa.ac.ma", Status: models.StatusGraduated, Program: "Réseaux"})
	students.add(models.Student{StudentID: "ESISA-2025-003", Email: "c@esisa.ac.ma", Status: models.StatusActive, Program: "Réseaux"})

	result, err := svc.List(context.Background(), dto.StudentListParams{Status: "active", Program: "Réseaux"})
	require.NoError(t, err)
	require.Len(t, result.Students, 1)
	assert.Equal(t, "ESISA-2025-003", result.Students[0].StudentID)
}

func TestNextStudentID(t *testing.T) {
	svc, students, _ := newStudentFixture()
	year := time.Now().Year()

	next, err := svc.NextStudentID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ESISA-%d-001", year), next)

	students.add(models.Student{
		StudentID: fmt.Sprintf("ESISA-%d-004", year),
		Email:     "last@esisa.ac.ma",
	})
	next, err = svc.NextStudentID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ESISA-%d-005", year), next)
}
