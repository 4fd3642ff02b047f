package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/observa/core"
	"github.com/trezcool/observa/core/profile"
)

const profilesTable = "profiles"

var profileColumns = []string{"id", "full_name", "email", "role", "school_id"}

type profileRow struct {
	ID       string `db:"id"`
	FullName string `db:"full_name"`
	Email    string `db:"email"`
	Role     string `db:"role"`
	SchoolID string `db:"school_id"`
}

func (row profileRow) profile() profile.Profile {
	return profile.Profile(row)
}

type profileRepository struct {
	exec core.DBExecutor
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(exec core.DBExecutor) profile.Repository {
	return &profileRepository{exec: exec}
}

func (repo *profileRepository) GetProfile(ctx context.Context, id string) (profile.Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return profile.Profile{}, profile.ErrNotFound
	}

	q, args, err := psql.Select(profileColumns...).From(profilesTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "building select")
	}

	var row profileRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, q, args...); err != nil {
		return profile.Profile{}, trapNoRowsErr(err, profile.ErrNotFound, "finding profile by ID")
	}
	return row.profile(), nil
}

func (repo *profileRepository) QueryCoordinators(ctx context.Context, schoolID string) ([]profile.Profile, error) {
	sb := psql.Select(profileColumns...).From(profilesTable).Where(sq.Eq{"role": profile.RoleCoordinator})
	if schoolID != "" {
		sb = sb.Where(sq.Eq{"school_id": schoolID})
	}

	q, args, err := sb.OrderBy(core.DBOrdering{Field: "full_name", Ascending: true}.String()).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select")
	}

	var rows []profileRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying coordinators")
	}
	coords := make([]profile.Profile, 0, len(rows))
	for _, row := range rows {
		coords = append(coords, row.profile())
	}
	return coords, nil
}
