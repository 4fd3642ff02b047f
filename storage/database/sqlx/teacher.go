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
	"github.com/trezcool/observa/core/teacher"
)

const teachersTable = "teachers"

var teacherColumns = []string{"id", "full_name", "email", "school_id", "coordinator_id", "tenure_status", "is_active", "created_at", "updated_at"}

type teacherRow struct {
	ID            string      `db:"id"`
	FullName      string      `db:"full_name"`
	Email         null.String `db:"email"`
	SchoolID      string      `db:"school_id"`
	CoordinatorID null.String `db:"coordinator_id"`
	TenureStatus  string      `db:"tenure_status"`
	IsActive      bool        `db:"is_active"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func toTeacherRow(t teacher.Teacher) teacherRow {
	return teacherRow{
		ID:            t.ID,
		FullName:      t.FullName,
		Email:         null.NewString(t.Email, t.Email != ""),
		SchoolID:      t.SchoolID,
		CoordinatorID: null.StringFromPtr(t.CoordinatorID),
		TenureStatus:  string(t.TenureStatus),
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt.UTC(),
		UpdatedAt:     t.UpdatedAt.UTC(),
	}
}

func (row teacherRow) teacher() teacher.Teacher {
	return teacher.Teacher{
		ID:            row.ID,
		FullName:      row.FullName,
		Email:         row.Email.String,
		SchoolID:      row.SchoolID,
		CoordinatorID: row.CoordinatorID.Ptr(),
		TenureStatus:  teacher.Tenure(row.TenureStatus),
		IsActive:      row.IsActive,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
}

type teacherRepository struct {
	exec core.DBExecutor
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(exec core.DBExecutor) teacher.Repository {
	return &teacherRepository{exec: exec}
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	t.ID = uuid.NewString()
	row := toTeacherRow(t)

	q, args, err := psql.Insert(teachersTable).
		Columns(teacherColumns...).
		Values(row.ID, row.FullName, row.Email, row.SchoolID, row.CoordinatorID, row.TenureStatus, row.IsActive, row.CreatedAt, row.UpdatedAt).
		Suffix("RETURNING " + columnList(teacherColumns)).
		ToSql()
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "building insert")
	}

	var created teacherRow
	if err = sqlx.GetContext(ctx, repo.exec, &created, q, args...); err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return created.teacher(), nil
}

func (repo *teacherRepository) GetTeacher(ctx context.Context, id string) (teacher.Teacher, error) {
	if _, err := uuid.Parse(id); err != nil {
		return teacher.Teacher{}, teacher.ErrNotFound
	}

	q, args, err := psql.Select(teacherColumns...).From(teachersTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "building select")
	}

	var row teacherRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, q, args...); err != nil {
		return teacher.Teacher{}, trapNoRowsErr(err, teacher.ErrNotFound, "finding teacher by ID")
	}
	return row.teacher(), nil
}

func (repo *teacherRepository) QueryTeachers(ctx context.Context, filter teacher.QueryFilter) ([]teacher.Teacher, error) {
	sb := psql.Select(teacherColumns...).From(teachersTable)

	// teachers with FullName or Email matching the search keyword
	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		sb = sb.Where(sq.Or{sq.ILike{"full_name": val}, sq.ILike{"email": val}})
	}
	if filter.SchoolID != "" {
		sb = sb.Where(sq.Eq{"school_id": filter.SchoolID})
	}
	if filter.CoordinatorIDs != nil {
		sb = sb.Where(sq.Eq{"coordinator_id": validUUIDs(filter.CoordinatorIDs)})
	}
	switch filter.Assignment {
	case teacher.AssignmentAssigned:
		sb = sb.Where(sq.NotEq{"coordinator_id": nil})
	case teacher.AssignmentUnassigned:
		sb = sb.Where(sq.Eq{"coordinator_id": nil})
	}
	if filter.IsActive != nil {
		sb = sb.Where(sq.Eq{"is_active": *filter.IsActive})
	}

	q, args, err := sb.OrderBy(core.DBOrdering{Field: "full_name", Ascending: true}.String()).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select")
	}

	var rows []teacherRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, row.teacher())
	}
	return teachers, nil
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	if _, err := uuid.Parse(t.ID); err != nil {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	row := toTeacherRow(t)

	q, args, err := psql.Update(teachersTable).
		SetMap(map[string]interface{}{
			"full_name":      row.FullName,
			"email":          row.Email,
			"school_id":      row.SchoolID,
			"coordinator_id": row.CoordinatorID,
			"tenure_status":  row.TenureStatus,
			"is_active":      row.IsActive,
			"updated_at":     row.UpdatedAt,
		}).
		Where(sq.Eq{"id": row.ID}).
		Suffix("RETURNING " + columnList(teacherColumns)).
		ToSql()
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "building update")
	}

	var updated teacherRow
	if err = sqlx.GetContext(ctx, repo.exec, &updated, q, args...); err != nil {
		return teacher.Teacher{}, trapNoRowsErr(err, teacher.ErrNotFound, "updating teacher")
	}
	return updated.teacher(), nil
}

func (repo *teacherRepository) DeleteTeacher(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return teacher.ErrNotFound
	}

	q, args, err := psql.Delete(teachersTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building delete")
	}

	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		if isFKViolation(err) {
			return teacher.ErrHasObservations
		}
		return errors.Wrap(err, "deleting teacher")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	if cnt == 0 {
		return teacher.ErrNotFound
	}
	return nil
}
