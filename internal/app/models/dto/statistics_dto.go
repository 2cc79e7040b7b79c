package dto

import "time"

// StatusCounts holds the per-status student counts
type StatusCounts struct {
	Active    int64 `json:"active"`
	Graduated int64 `json:"graduated"`
	Suspended int64 `json:"suspended"`
	Withdrawn int64 `json:"withdrawn"`
}

// DepartmentCount is one row of the by-department aggregate. The grouping
// key is actually the program column; the "department" label is kept for
// compatibility with the dashboards consuming this payload.
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

// YearCount is one row of the by-year aggregate
type YearCount struct {
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

// RecentStudent is the reduced field set of a recently created student
type RecentStudent struct {
	ID         int64     `json:"id"`
	StudentID  string    `json:"studentId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Program    string    `json:"program"`
	Department string    `json:"department"` // Alias of program, kept for compatibility
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GPADistribution is the four-bucket GPA histogram: excellent >=3.5,
// good [3.0,3.5), average [2.5,3.0), belowAverage <2.5.
type GPADistribution struct {
	Excellent    int64 `json:"excellent"`
	Good         int64 `json:"good"`
	Average      int64 `json:"average"`
	BelowAverage int64 `json:"belowAverage"`
}

// StatisticsResponse is the full dashboard aggregate
type StatisticsResponse struct {
	Total           int64             `json:"total"`
	ByStatus        StatusCounts      `json:"byStatus"`
	ByDepartment    []DepartmentCount `json:"byDepartment"`
	ByYear          []YearCount       `json:"byYear"`
	RecentStudents  []RecentStudent   `json:"recentStudents"`
	AverageGPA      *float64          `json:"averageGpa"` // Null when no student has a recorded GPA
	GPADistribution GPADistribution   `json:"gpaDistribution"`
}
