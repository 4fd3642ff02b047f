package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/observa/core"
	"github.com/trezcool/observa/core/observation"
	"github.com/trezcool/observa/core/teacher"
)

func CreateTeacher(
	t *testing.T,
	repo teacher.Repository,
	name, schoolID string,
	coordinatorID *string,
	tenure teacher.Tenure,
	isActive bool,
	createdAt ...time.Time,
) teacher.Teacher {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	tchr, err := repo.CreateTeacher(context.Background(), teacher.Teacher{
		FullName:      name,
		SchoolID:      schoolID,
		CoordinatorID: coordinatorID,
		TenureStatus:  tenure,
		IsActive:      isActive,
		CreatedAt:     tstamp,
		UpdatedAt:     tstamp,
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tchr
}

func CreateObservation(
	t *testing.T,
	repo observation.Repository,
	teacherID, observerID string,
	createdAt time.Time,
	scores map[string]float64,
) observation.Observation {
	data := observation.TemplateData{Indicators: make(map[string]observation.IndicatorScore, len(scores))}
	for id, s := range scores {
		data.Indicators[id] = observation.IndicatorScore{Score: s}
	}
	obs, err := repo.CreateObservation(context.Background(), observation.Observation{
		TeacherID:    teacherID,
		ObserverID:   observerID,
		TemplateID:   observation.DanielsonTemplateID,
		TemplateData: data,
		Score:        data.AverageScore(),
		CreatedAt:    createdAt.UTC(),
	})
	if err != nil {
		t.Fatalf("CreateObservation() failed: %v", err)
	}
	return obs
}

func StrPtr(s string) *string { return &s }

// Logger records error messages and drops everything else.
type Logger struct {
	mu     sync.Mutex
	Errors []string
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) Debug(string, ...interface{}) {}
func (l *Logger) Info(string, ...interface{})  {}
func (l *Logger) Warn(string, ...interface{})  {}
func (l *Logger) Fatal(string, ...interface{}) {}

func (l *Logger) Error(msg string, _ ...interface{}) {
	l.mu.Lock()
	l.Errors = append(l.Errors, msg)
	l.mu.Unlock()
}
