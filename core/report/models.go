package report

import (
	"context"
	"errors"
)

var (
	// errors
	ErrSeriesMismatch = errors.New("analytics series dates and rates are not index-aligned")
)

// Series is a date-aligned sequence of historical attendance rates for a
// class: Dates[i] corresponds to Rates[i]. Fetched, never mutated.
type Series struct {
	Dates []string  `json:"dates"`
	Rates []float64 `json:"rates"` // percentages in [0, 100]
}

// DayBreakdown reconstructs one day's counts from its reported rate. This is
// an approximation: it assumes the source computed rate as present/total*100,
// so the reconstruction is lossy only through rounding.
type DayBreakdown struct {
	Date         string  `json:"date"`
	PresentCount int     `json:"presentCount"`
	AbsentCount  int     `json:"absentCount"`
	Rate         float64 `json:"rate"`
}

// Report is computed, not stored: re-derived in full on every fetch.
type Report struct {
	ClassID       string         `json:"class_id"`
	TotalStudents int            `json:"totalStudents"`
	AverageRate   float64        `json:"averageRate"`
	MaxRate       float64        `json:"maxRate"`
	MinRate       float64        `json:"minRate"`
	Days          []DayBreakdown `json:"days"`
}

type (
	Repository interface {
		QueryAnalytics(ctx context.Context, classID string) (Series, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Fetch pulls the class's analytics series and derives a full Report.
func (svc *Service) Fetch(ctx context.Context, classID string, totalStudents int) (Report, error) {
	series, err := svc.repo.QueryAnalytics(ctx, classID)
	if err != nil {
		return Report{}, err
	}
	return Build(classID, series, totalStudents)
}
