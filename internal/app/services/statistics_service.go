package services

import (
	"context"
	"fmt"
	"math"

	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/app/models/dto"
)

// recentStudentsLimit is how many newest records the dashboard shows
const recentStudentsLimit = 5

// StatisticsService assembles the read-only dashboard aggregate
type StatisticsService struct {
	stats StatisticsStore
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(stats StatisticsStore) *StatisticsService {
	return &StatisticsService{stats: stats}
}

// Compute gathers the full dashboard payload. Each aggregate is an
// independent query; they are not a transactional snapshot.
func (s *StatisticsService) Compute(ctx context.Context) (*dto.StatisticsResponse, error) {
	total, err := s.stats.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}

	var byStatus dto.StatusCounts
	for _, status := range models.AllStudentStatuses {
		count, err := s.stats.CountByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("failed to count students by status: %w", err)
		}
		switch status {
		case models.StatusActive:
			byStatus.Active = count
		case models.StatusGraduated:
			byStatus.Graduated = count
		case models.StatusSuspended:
			byStatus.Suspended = count
		case models.StatusWithdrawn:
			byStatus.Withdrawn = count
		}
	}

	byDepartment, err := s.stats.CountByProgram(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to group students by program: %w", err)
	}

	byYear, err := s.stats.CountByYear(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to group students by year: %w", err)
	}

	recent, err := s.stats.RecentStudents(ctx, recentStudentsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent students: %w", err)
	}

	averageGPA, err := s.stats.AverageGPA(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average GPA: %w", err)
	}
	if averageGPA != nil {
		rounded := math.Round(*averageGPA*100) / 100
		averageGPA = &rounded
	}

	distribution, err := s.stats.GPADistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute GPA distribution: %w", err)
	}

	return &dto.StatisticsResponse{
		Total:           total,
		ByStatus:        byStatus,
		ByDepartment:    byDepartment,
		ByYear:          byYear,
		RecentStudents:  recent,
		AverageGPA:      averageGPA,
		GPADistribution: distribution,
	}, nil
}
