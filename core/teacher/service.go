package teacher

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/observa/core"
)

var (
	// errors
	ErrNotFound        = errors.New("teacher not found")
	ErrHasObservations = errors.New("teacher has recorded observations")
	ErrSimilarName     = errors.New("a teacher with a similar name already exists in this school")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		GetTeacher(ctx context.Context, id string) (Teacher, error)
		// QueryTeachers applies AND operation on available QueryFilter fields, ordered by FullName.
		QueryTeachers(ctx context.Context, filter QueryFilter) ([]Teacher, error)
		UpdateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		// DeleteTeacher returns ErrHasObservations when observations reference the teacher.
		DeleteTeacher(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// checkSimilarName rejects names too close to an existing teacher of the same school.
func (svc *Service) checkSimilarName(ctx context.Context, nt NewTeacher) error {
	existing, err := svc.repo.QueryTeachers(ctx, QueryFilter{SchoolID: nt.SchoolID})
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	for _, t := range existing {
		if nameSimilarity(t.FullName, nt.FullName) >= similarNameRatio {
			return core.NewValidationError(ErrSimilarName, core.FieldError{Field: "full_name", Error: ErrSimilarName.Error()})
		}
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	if err := nt.Validate(); err != nil {
		return Teacher{}, err
	}
	if err := svc.checkSimilarName(ctx, nt); err != nil {
		return Teacher{}, err
	}

	now := NowFunc().UTC()
	t := Teacher{
		FullName:      nt.FullName,
		Email:         nt.Email,
		SchoolID:      nt.SchoolID,
		CoordinatorID: nt.CoordinatorID,
		TenureStatus:  nt.TenureStatus,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	t, err := svc.repo.CreateTeacher(ctx, t)
	if err != nil {
		return Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return t, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Teacher, error) {
	filter.Clean()
	if err := core.Validate.Struct(filter); err != nil {
		return nil, err
	}
	return svc.repo.QueryTeachers(ctx, filter)
}

func (svc *Service) update(ctx context.Context, id string, mutate func(t *Teacher)) (Teacher, error) {
	t, err := svc.repo.GetTeacher(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	mutate(&t)
	t.UpdatedAt = NowFunc().UTC()
	t, err = svc.repo.UpdateTeacher(ctx, t)
	if err != nil {
		return Teacher{}, errors.Wrap(err, "updating teacher")
	}
	return t, nil
}

// Reassign moves a teacher under another coordinator; nil or empty unassigns it.
func (svc *Service) Reassign(ctx context.Context, id string, coordinatorID *string) (Teacher, error) {
	if coordinatorID != nil {
		if cid := core.CleanString(*coordinatorID); cid != "" {
			coordinatorID = &cid
		} else {
			coordinatorID = nil
		}
	}
	return svc.update(ctx, id, func(t *Teacher) { t.CoordinatorID = coordinatorID })
}

// ToggleTenure switches between New and Tenured, changing the required cadence.
func (svc *Service) ToggleTenure(ctx context.Context, id string) (Teacher, error) {
	return svc.update(ctx, id, func(t *Teacher) { t.TenureStatus = t.TenureStatus.Toggle() })
}

func (svc *Service) SetActive(ctx context.Context, id string, active bool) (Teacher, error) {
	return svc.update(ctx, id, func(t *Teacher) { t.IsActive = active })
}

// Delete removes a teacher. Teachers with observation history are deactivated instead,
// in which case deactivated is true.
func (svc *Service) Delete(ctx context.Context, id string) (deactivated bool, err error) {
	err = svc.repo.DeleteTeacher(ctx, id)
	if err == nil {
		return false, nil
	}
	if errors.Cause(err) != ErrHasObservations {
		return false, err
	}
	if _, err = svc.SetActive(ctx, id, false); err != nil {
		return false, errors.Wrap(err, "deactivating teacher")
	}
	return true, nil
}
