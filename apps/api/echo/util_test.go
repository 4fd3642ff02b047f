package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	. "github.com/trezcool/observa/apps/api/echo"
	"github.com/trezcool/observa/core"
	"github.com/trezcool/observa/core/compliance"
	"github.com/trezcool/observa/core/observation"
	"github.com/trezcool/observa/core/profile"
	"github.com/trezcool/observa/core/teacher"
	emailsvc "github.com/trezcool/observa/services/email"
	metricsvc "github.com/trezcool/observa/services/metrics"
	inmemdb "github.com/trezcool/observa/storage/database/inmem"
	"github.com/trezcool/observa/tests"
)

var (
	ctxBg = context.Background()
	now   = time.Date(2024, time.November, 6, 12, 0, 0, 0, time.UTC) // wednesday, week 10

	admin    = profile.Profile{ID: "a1", FullName: "Admin", Email: "admin@school.mx", Role: profile.RoleAdmin}
	director = profile.Profile{ID: "d1", FullName: "Director Norte", Role: profile.RoleDirector, SchoolID: "norte"}
	coord1   = profile.Profile{ID: "c1", FullName: "Laura Méndez", Email: "laura@school.mx", Role: profile.RoleCoordinator, SchoolID: "norte"}
	coord2   = profile.Profile{ID: "c2", FullName: "Carlos Ríos", Email: "carlos@school.mx", Role: profile.RoleCoordinator, SchoolID: "norte"}
	coord3   = profile.Profile{ID: "c3", FullName: "Elena Vega", Email: "elena@school.mx", Role: profile.RoleCoordinator, SchoolID: "sur"}
)

type fixture struct {
	app         Server
	db          *inmemdb.DB
	teacherRepo teacher.Repository
	obsRepo     observation.Repository
	logger      *testutil.Logger
	teachers    map[string]teacher.Teacher // by first name
}

type setupOption func(*setupDeps)

type setupDeps struct {
	teacherRepo teacher.Repository
}

func withTeacherRepo(repo teacher.Repository) setupOption {
	return func(d *setupDeps) { d.teacherRepo = repo }
}

// setup seeds two schools: norte (c1: Ana, Juan, Sofía; c2: Luis) and sur (c3: Marta).
// Ana, Sofía and Marta are observed within their window.
func setup(t *testing.T, opts ...setupOption) *fixture {
	t.Helper()
	compliance.NowFunc = func() time.Time { return now }
	observation.NowFunc = func() time.Time { return now }
	t.Cleanup(func() {
		compliance.NowFunc = time.Now
		observation.NowFunc = time.Now
	})

	db, err := inmemdb.Open()
	require.NoError(t, err)
	db.AddProfiles(admin, director, coord1, coord2, coord3)

	f := &fixture{
		db:          db,
		teacherRepo: inmemdb.NewTeacherRepository(db),
		obsRepo:     inmemdb.NewObservationRepository(db),
		logger:      new(testutil.Logger),
		teachers:    make(map[string]teacher.Teacher),
	}
	created := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		name, school, coord string
		tenure              teacher.Tenure
	}{
		{"Ana Ruiz", "norte", "c1", teacher.TenureNew},
		{"Juan Pérez", "norte", "c1", teacher.TenureNew},
		{"Sofía Herrera", "norte", "c1", teacher.TenureTenured},
		{"Luis Gómez", "norte", "c2", teacher.TenureNew},
		{"Marta Díaz", "sur", "c3", teacher.TenureTenured},
	} {
		tchr := testutil.CreateTeacher(t, f.teacherRepo, tc.name, tc.school, testutil.StrPtr(tc.coord), tc.tenure, true, created)
		f.teachers[strings.Fields(tc.name)[0]] = tchr
	}
	scores := map[string]float64{"1a": 3, "2b": 4}
	testutil.CreateObservation(t, f.obsRepo, f.teachers["Ana"].ID, "c1", time.Date(2024, time.November, 5, 10, 0, 0, 0, time.UTC), scores)
	testutil.CreateObservation(t, f.obsRepo, f.teachers["Sofía"].ID, "c1", time.Date(2024, time.October, 29, 9, 30, 0, 0, time.UTC), scores)
	testutil.CreateObservation(t, f.obsRepo, f.teachers["Marta"].ID, "c3", time.Date(2024, time.November, 4, 9, 0, 0, 0, time.UTC), scores)

	deps := setupDeps{teacherRepo: f.teacherRepo}
	for _, opt := range opts {
		opt(&deps)
	}

	conf := &core.Config{AppName: "Observa", TestMode: true, Timezone: "UTC"}
	profileRepo := inmemdb.NewProfileRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, f.logger)

	f.app = NewServer(&Options{
		Conf:           conf,
		Logger:         f.logger,
		DisableReqLogs: true,
		ProfileRepo:    profileRepo,
		TeacherSvc:     teacher.NewService(f.teacherRepo),
		ObservationSvc: observation.NewService(f.obsRepo, f.teacherRepo),
		ComplianceSvc: compliance.NewService(
			conf, profileRepo, deps.teacherRepo, f.obsRepo, mailSvc, metricsvc.NewRecorder(), f.logger,
		),
		Metrics: metricsvc.NewRecorder().Handler(),
	})
	return f
}

func (f *fixture) do(method, path string, viewer *profile.Profile, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newRequest(method, path, viewer, data...)
	f.app.ServeHTTP(rec, req)
	return rec
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	viewer   *profile.Profile
	wantCode int
	wantData []byte
}

func newRequest(method, path string, viewer *profile.Profile, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if viewer != nil {
		req.Header.Set("X-Profile-ID", viewer.ID)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}
