package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/observa/core"
	"github.com/trezcool/observa/core/observation"
)

const observationsTable = "observations"

var observationColumns = []string{"id", "teacher_id", "observer_id", "template_id", "template_data", "score", "created_at"}

type observationRow struct {
	ID           string                   `db:"id"`
	TeacherID    string                   `db:"teacher_id"`
	ObserverID   null.String              `db:"observer_id"`
	TemplateID   string                   `db:"template_id"`
	TemplateData observation.TemplateData `db:"template_data"`
	Score        float64                  `db:"score"`
	CreatedAt    time.Time                `db:"created_at"`
}

func (row observationRow) observation() observation.Observation {
	return observation.Observation{
		ID:           row.ID,
		TeacherID:    row.TeacherID,
		ObserverID:   row.ObserverID.String,
		TemplateID:   row.TemplateID,
		TemplateData: row.TemplateData,
		Score:        row.Score,
		CreatedAt:    row.CreatedAt.UTC(),
	}
}

type observationRepository struct {
	exec core.DBExecutor
}

var _ observation.Repository = (*observationRepository)(nil) // interface compliance check

func NewObservationRepository(exec core.DBExecutor) observation.Repository {
	return &observationRepository{exec: exec}
}

func (repo *observationRepository) CreateObservation(ctx context.Context, o observation.Observation) (observation.Observation, error) {
	q, args, err := psql.Insert(observationsTable).
		Columns(observationColumns...).
		Values(uuid.NewString(), o.TeacherID, null.NewString(o.ObserverID, o.ObserverID != ""), o.TemplateID, o.TemplateData, o.Score, o.CreatedAt.UTC()).
		Suffix("RETURNING " + columnList(observationColumns)).
		ToSql()
	if err != nil {
		return observation.Observation{}, errors.Wrap(err, "building insert")
	}

	var row observationRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, q, args...); err != nil {
		return observation.Observation{}, errors.Wrap(err, "inserting observation")
	}
	return row.observation(), nil
}

func (repo *observationRepository) GetObservation(ctx context.Context, id string) (observation.Observation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return observation.Observation{}, observation.ErrNotFound
	}

	q, args, err := psql.Select(observationColumns...).From(observationsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return observation.Observation{}, errors.Wrap(err, "building select")
	}

	var row observationRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, q, args...); err != nil {
		return observation.Observation{}, trapNoRowsErr(err, observation.ErrNotFound, "finding observation by ID")
	}
	return row.observation(), nil
}

func (repo *observationRepository) QueryObservations(ctx context.Context, filter observation.QueryFilter) ([]observation.Observation, error) {
	sb := psql.Select(observationColumns...).From(observationsTable)

	if filter.TeacherIDs != nil {
		sb = sb.Where(sq.Eq{"teacher_id": validUUIDs(filter.TeacherIDs)})
	}
	if filter.ObserverID != "" {
		sb = sb.Where(sq.Eq{"observer_id": filter.ObserverID})
	}
	if !filter.From.IsZero() {
		sb = sb.Where(sq.GtOrEq{"created_at": filter.From.UTC()})
	}
	if !filter.To.IsZero() {
		sb = sb.Where(sq.LtOrEq{"created_at": filter.To.UTC()})
	}

	q, args, err := sb.OrderBy(core.DBOrdering{Field: "created_at", Ascending: true}.String()).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select")
	}

	var rows []observationRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying observations")
	}
	obs := make([]observation.Observation, 0, len(rows))
	for _, row := range rows {
		obs = append(obs, row.observation())
	}
	return obs, nil
}
