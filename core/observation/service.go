package observation

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/observa/core"
	"github.com/trezcool/observa/core/teacher"
)

var (
	// errors
	ErrNotFound        = errors.New("observation not found")
	ErrTeacherInactive = errors.New("teacher is not active")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateObservation(ctx context.Context, o Observation) (Observation, error)
		GetObservation(ctx context.Context, id string) (Observation, error)
		// QueryObservations applies AND operation on available QueryFilter fields, ordered by CreatedAt.
		QueryObservations(ctx context.Context, filter QueryFilter) ([]Observation, error)
	}

	Service struct {
		repo        Repository
		teacherRepo teacher.Repository
	}
)

func NewService(repo Repository, teacherRepo teacher.Repository) *Service {
	return &Service{repo: repo, teacherRepo: teacherRepo}
}

// Create records an observation of an active teacher, stamping its creation time and score.
func (svc *Service) Create(ctx context.Context, no NewObservation) (Observation, error) {
	if err := no.Validate(); err != nil {
		return Observation{}, err
	}

	t, err := svc.teacherRepo.GetTeacher(ctx, no.TeacherID)
	if err != nil {
		if errors.Cause(err) == teacher.ErrNotFound {
			return Observation{}, core.NewValidationError(err, core.FieldError{Field: "teacher_id", Error: err.Error()})
		}
		return Observation{}, errors.Wrap(err, "fetching teacher")
	}
	if !t.IsActive {
		return Observation{}, core.NewValidationError(ErrTeacherInactive, core.FieldError{Field: "teacher_id", Error: ErrTeacherInactive.Error()})
	}

	o := Observation{
		TeacherID:    t.ID,
		ObserverID:   no.ObserverID,
		TemplateID:   DanielsonTemplateID,
		TemplateData: no.TemplateData,
		Score:        no.TemplateData.AverageScore(),
		CreatedAt:    NowFunc().UTC(),
	}
	o, err = svc.repo.CreateObservation(ctx, o)
	if err != nil {
		return Observation{}, errors.Wrap(err, "inserting observation")
	}
	return o, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Observation, error) {
	return svc.repo.GetObservation(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Observation, error) {
	return svc.repo.QueryObservations(ctx, filter)
}
