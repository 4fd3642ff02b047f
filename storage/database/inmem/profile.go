package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/observa/core/profile"
)

type profileRepository struct {
	db *DB
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *DB) profile.Repository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) GetProfile(_ context.Context, id string) (profile.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.profiles[id]; ok {
		return *p, nil
	}
	return profile.Profile{}, profile.ErrNotFound
}

func (repo *profileRepository) QueryCoordinators(_ context.Context, schoolID string) ([]profile.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	coords := make([]profile.Profile, 0)
	for _, p := range repo.db.profiles {
		if p.IsCoordinator() && (schoolID == "" || p.SchoolID == schoolID) {
			coords = append(coords, *p)
		}
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].FullName < coords[j].FullName })
	return coords, nil
}
