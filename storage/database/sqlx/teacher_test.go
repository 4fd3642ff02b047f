package sqlxrepos

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/observa/core/teacher"
)

const (
	teacherID     = "0b6c1a3e-7f57-4f3e-9a52-0f3e2d1c9b11"
	coordinatorID = "5d1e8a27-2c4b-4b8e-8f0a-6a9c3e7d2b44"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func teacherRows() *sqlmock.Rows {
	return sqlmock.NewRows(teacherColumns)
}

func TestTeacherRepository_CreateTeacher(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTeacherRepository(db)
	now := time.Date(2024, time.November, 6, 12, 0, 0, 0, time.UTC)
	coord := coordinatorID

	mock.ExpectQuery(`INSERT INTO teachers \(id,full_name,email,school_id,coordinator_id,tenure_status,is_active,created_at,updated_at\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8,\$9\) RETURNING id, full_name`).
		WithArgs(sqlmock.AnyArg(), "Juan Pérez", nil, "norte", coordinatorID, "new", true, now, now).
		WillReturnRows(teacherRows().AddRow(teacherID, "Juan Pérez", nil, "norte", coordinatorID, "new", true, now, now))

	got, err := repo.CreateTeacher(context.Background(), teacher.Teacher{
		FullName:      "Juan Pérez",
		SchoolID:      "norte",
		CoordinatorID: &coord,
		TenureStatus:  teacher.TenureNew,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	require.NoError(t, err)
	assert.Equal(t, teacherID, got.ID)
	assert.Equal(t, "", got.Email)
	require.NotNil(t, got.CoordinatorID)
	assert.Equal(t, coordinatorID, *got.CoordinatorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepository_GetTeacher(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTeacherRepository(db)
	ctx := context.Background()
	now := time.Date(2024, time.November, 6, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, full_name, (.+) FROM teachers WHERE id = \$1`).
		WithArgs(teacherID).
		WillReturnRows(teacherRows().AddRow(teacherID, "Sofía Herrera", "sofia@school.mx", "sur", nil, "tenured", true, now, now))
	got, err := repo.GetTeacher(ctx, teacherID)
	require.NoError(t, err)
	assert.Equal(t, teacher.TenureTenured, got.TenureStatus)
	assert.Nil(t, got.CoordinatorID)
	assert.Equal(t, "sofia@school.mx", got.Email)

	mock.ExpectQuery(`SELECT (.+) FROM teachers WHERE id = \$1`).
		WithArgs(teacherID).
		WillReturnRows(teacherRows())
	_, err = repo.GetTeacher(ctx, teacherID)
	assert.Equal(t, teacher.ErrNotFound, err)

	_, err = repo.GetTeacher(ctx, "not-a-uuid")
	assert.Equal(t, teacher.ErrNotFound, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepository_QueryTeachers(t *testing.T) {
	active := true

	tests := []struct {
		name     string
		filter   teacher.QueryFilter
		wantSQL  string
		wantArgs []driver.Value
	}{
		{
			name:    "no filter",
			wantSQL: `SELECT (.+) FROM teachers ORDER BY full_name ASC`,
		},
		{
			name:     "search, school and active",
			filter:   teacher.QueryFilter{Search: "pérez", SchoolID: "norte", IsActive: &active},
			wantSQL:  `SELECT (.+) FROM teachers WHERE \(full_name ILIKE \$1 OR email ILIKE \$2\) AND school_id = \$3 AND is_active = \$4 ORDER BY full_name ASC`,
			wantArgs: []driver.Value{"%pérez%", "%pérez%", "norte", true},
		},
		{
			name:     "coordinators",
			filter:   teacher.QueryFilter{CoordinatorIDs: []string{coordinatorID, "bogus"}},
			wantSQL:  `SELECT (.+) FROM teachers WHERE coordinator_id IN \(\$1\) ORDER BY full_name ASC`,
			wantArgs: []driver.Value{coordinatorID},
		},
		{
			name:    "unassigned",
			filter:  teacher.QueryFilter{Assignment: teacher.AssignmentUnassigned},
			wantSQL: `SELECT (.+) FROM teachers WHERE coordinator_id IS NULL ORDER BY full_name ASC`,
		},
		{
			name:    "assigned",
			filter:  teacher.QueryFilter{Assignment: teacher.AssignmentAssigned},
			wantSQL: `SELECT (.+) FROM teachers WHERE coordinator_id IS NOT NULL ORDER BY full_name ASC`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			now := time.Now().UTC()
			exp := mock.ExpectQuery(tt.wantSQL)
			if tt.wantArgs != nil {
				exp = exp.WithArgs(tt.wantArgs...)
			}
			exp.WillReturnRows(teacherRows().
				AddRow(teacherID, "Juan Pérez", nil, "norte", coordinatorID, "new", true, now, now))

			got, err := NewTeacherRepository(db).QueryTeachers(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Len(t, got, 1)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTeacherRepository_UpdateTeacher(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTeacherRepository(db)
	now := time.Date(2024, time.November, 6, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE teachers SET (.+) WHERE id = \$8 RETURNING (.+)`).
		WillReturnRows(teacherRows().AddRow(teacherID, "Juan Pérez", nil, "norte", nil, "tenured", false, now, now))

	got, err := repo.UpdateTeacher(context.Background(), teacher.Teacher{
		ID: teacherID, FullName: "Juan Pérez", SchoolID: "norte", TenureStatus: teacher.TenureTenured, UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.False(t, got.HasCoordinator())

	mock.ExpectQuery(`UPDATE teachers SET (.+) RETURNING (.+)`).WillReturnRows(teacherRows())
	_, err = repo.UpdateTeacher(context.Background(), teacher.Teacher{ID: teacherID})
	assert.Equal(t, teacher.ErrNotFound, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepository_DeleteTeacher(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		result  func(exp *sqlmock.ExpectedExec)
		wantErr error
	}{
		{name: "deleted", id: teacherID, result: func(exp *sqlmock.ExpectedExec) { exp.WillReturnResult(sqlmock.NewResult(0, 1)) }},
		{name: "missing", id: teacherID, result: func(exp *sqlmock.ExpectedExec) { exp.WillReturnResult(sqlmock.NewResult(0, 0)) }, wantErr: teacher.ErrNotFound},
		{name: "has observations", id: teacherID, result: func(exp *sqlmock.ExpectedExec) {
			exp.WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})
		}, wantErr: teacher.ErrHasObservations},
		{name: "invalid id", id: "nope", wantErr: teacher.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			if tt.result != nil {
				tt.result(mock.ExpectExec(`DELETE FROM teachers WHERE id = \$1`).WithArgs(tt.id))
			}
			err := NewTeacherRepository(db).DeleteTeacher(context.Background(), tt.id)
			if errors.Cause(err) != tt.wantErr {
				t.Errorf("DeleteTeacher() error = %v, wantErr %v", err, tt.wantErr)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
