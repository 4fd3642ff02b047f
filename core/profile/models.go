package profile

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/observa/core"
)

// Roles
const (
	RoleAdmin       = "admin"
	RoleRector      = "rector"
	RoleDirector    = "director"
	RoleCoordinator = "coordinator"
)

var (
	AllRoles = []string{RoleAdmin, RoleRector, RoleDirector, RoleCoordinator}

	// errors
	ErrNotFound = errors.New("profile not found")
)

// Profile is a staff member: admins and rectors see every school,
// directors see their own school, coordinators observe teachers.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	SchoolID string `json:"school_id,omitempty"`
}

func (p Profile) DisplayName() string { return core.ShortName(p.FullName, p.Email) }

func (p Profile) IsCoordinator() bool { return p.Role == RoleCoordinator }

func (p Profile) IsDirector() bool { return p.Role == RoleDirector }

// CanManageTeachers reports whether p may create, reassign or delete teachers.
func (p Profile) CanManageTeachers() bool {
	return p.Role == RoleAdmin || p.Role == RoleRector || p.Role == RoleDirector
}

type Repository interface {
	GetProfile(ctx context.Context, id string) (Profile, error)
	// QueryCoordinators returns coordinators ordered by name, restricted to schoolID when set.
	QueryCoordinators(ctx context.Context, schoolID string) ([]Profile, error)
}
