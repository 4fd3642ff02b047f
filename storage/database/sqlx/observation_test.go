package sqlxrepos

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/observa/core/observation"
	"github.com/trezcool/observa/core/profile"
)

const observationID = "9a3f6c2d-1b4e-4c7a-8e5f-2d6b9a1c3e77"

func TestObservationRepository_CreateObservation(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2024, time.November, 6, 12, 0, 0, 0, time.UTC)
	data := observation.TemplateData{Indicators: map[string]observation.IndicatorScore{"1a": {Score: 3}}}

	mock.ExpectQuery(`INSERT INTO observations \(id,teacher_id,observer_id,template_id,template_data,score,created_at\) VALUES (.+) RETURNING (.+)`).
		WithArgs(sqlmock.AnyArg(), teacherID, coordinatorID, observation.DanielsonTemplateID, sqlmock.AnyArg(), 3.0, now).
		WillReturnRows(sqlmock.NewRows(observationColumns).
			AddRow(observationID, teacherID, coordinatorID, observation.DanielsonTemplateID, []byte(`{"1a": {"score": 3}, "metadata": {}}`), 3.0, now))

	got, err := NewObservationRepository(db).CreateObservation(context.Background(), observation.Observation{
		TeacherID:    teacherID,
		ObserverID:   coordinatorID,
		TemplateID:   observation.DanielsonTemplateID,
		TemplateData: data,
		Score:        3,
		CreatedAt:    now,
	})
	require.NoError(t, err)
	assert.Equal(t, observationID, got.ID)
	assert.Equal(t, data, got.TemplateData)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestObservationRepository_QueryObservations(t *testing.T) {
	from := time.Date(2024, time.October, 28, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.November, 10, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name    string
		filter  observation.QueryFilter
		wantSQL string
	}{
		{name: "no filter", wantSQL: `SELECT (.+) FROM observations ORDER BY created_at ASC`},
		{name: "no teachers", filter: observation.QueryFilter{TeacherIDs: []string{}}, wantSQL: `SELECT (.+) FROM observations WHERE \(1=0\) ORDER BY created_at ASC`},
		{
			name:    "teachers and range",
			filter:  observation.QueryFilter{TeacherIDs: []string{teacherID}, From: from, To: to},
			wantSQL: `SELECT (.+) FROM observations WHERE teacher_id IN \(\$1\) AND created_at >= \$2 AND created_at <= \$3 ORDER BY created_at ASC`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			mock.ExpectQuery(tt.wantSQL).
				WillReturnRows(sqlmock.NewRows(observationColumns).
					AddRow(observationID, teacherID, nil, observation.DanielsonTemplateID, []byte(`{"2a": 4}`), 4.0, from))

			got, err := NewObservationRepository(db).QueryObservations(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "", got[0].ObserverID)
			assert.Equal(t, float64(4), got[0].TemplateData.Indicators["2a"].Score)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestObservationRepository_GetObservation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewObservationRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM observations WHERE id = \$1`).
		WithArgs(observationID).
		WillReturnRows(sqlmock.NewRows(observationColumns))
	_, err := repo.GetObservation(context.Background(), observationID)
	assert.Equal(t, observation.ErrNotFound, err)

	_, err = repo.GetObservation(context.Background(), "nope")
	assert.Equal(t, observation.ErrNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, full_name, email, role, school_id FROM profiles WHERE role = \$1 AND school_id = \$2 ORDER BY full_name ASC`).
		WithArgs(profile.RoleCoordinator, "norte").
		WillReturnRows(sqlmock.NewRows(profileColumns).
			AddRow(coordinatorID, "Laura Méndez", "laura@school.mx", profile.RoleCoordinator, "norte"))
	coords, err := repo.QueryCoordinators(ctx, "norte")
	require.NoError(t, err)
	require.Len(t, coords, 1)
	assert.True(t, coords[0].IsCoordinator())

	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE role = \$1 ORDER BY full_name ASC`).
		WithArgs(profile.RoleCoordinator).
		WillReturnRows(sqlmock.NewRows(profileColumns))
	coords, err = repo.QueryCoordinators(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, coords)

	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE id = \$1`).
		WithArgs(coordinatorID).
		WillReturnRows(sqlmock.NewRows(profileColumns).
			AddRow(coordinatorID, "Laura Méndez", "laura@school.mx", profile.RoleCoordinator, "norte"))
	p, err := repo.GetProfile(ctx, coordinatorID)
	require.NoError(t, err)
	assert.Equal(t, "Laura Méndez", p.FullName)

	_, err = repo.GetProfile(ctx, "nope")
	assert.Equal(t, profile.ErrNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
