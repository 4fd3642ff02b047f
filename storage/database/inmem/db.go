package inmemdb

import (
	"sync"

	"github.com/trezcool/observa/core/observation"
	"github.com/trezcool/observa/core/profile"
	"github.com/trezcool/observa/core/teacher"
)

// DB is a process-local store used by tests and the DEV api.
// A single lock guards every table so cross-table checks stay consistent.
type DB struct {
	sync.RWMutex
	profiles     map[string]*profile.Profile
	teachers     map[string]*teacher.Teacher
	observations map[string]*observation.Observation
}

func Open() (*DB, error) {
	db := &DB{
		profiles:     make(map[string]*profile.Profile),
		teachers:     make(map[string]*teacher.Teacher),
		observations: make(map[string]*observation.Observation),
	}
	return db, nil
}

// AddProfiles upserts staff profiles; profiles are managed by the auth provider.
func (db *DB) AddProfiles(profiles ...profile.Profile) {
	db.Lock()
	defer db.Unlock()
	for i := range profiles {
		p := profiles[i]
		db.profiles[p.ID] = &p
	}
}

func (db *DB) hasObservations(teacherID string) bool {
	for _, o := range db.observations {
		if o.TeacherID == teacherID {
			return true
		}
	}
	return false
}
