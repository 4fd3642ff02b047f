package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/observa/core/observation"
)

type observationRepository struct {
	db *DB
}

var _ observation.Repository = (*observationRepository)(nil) // interface compliance check

func NewObservationRepository(db *DB) observation.Repository {
	return &observationRepository{db: db}
}

func (repo *observationRepository) CreateObservation(_ context.Context, o observation.Observation) (observation.Observation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	repo.db.observations[o.ID] = &o
	return o, nil
}

func (repo *observationRepository) GetObservation(_ context.Context, id string) (observation.Observation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if o, ok := repo.db.observations[id]; ok {
		return *o, nil
	}
	return observation.Observation{}, observation.ErrNotFound
}

func (repo *observationRepository) QueryObservations(_ context.Context, filter observation.QueryFilter) ([]observation.Observation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	obs := make([]observation.Observation, 0, len(repo.db.observations))
	for _, o := range repo.db.observations {
		if filter.Match(*o) {
			obs = append(obs, *o)
		}
	}
	sort.Slice(obs, func(i, j int) bool { return obs[i].CreatedAt.Before(obs[j].CreatedAt) })
	return obs, nil
}
