package compliance

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/observa/core"
	"github.com/trezcool/observa/core/observation"
	"github.com/trezcool/observa/core/period"
	"github.com/trezcool/observa/core/profile"
	"github.com/trezcool/observa/core/teacher"
)

const (
	reminderTemplate = "compliance_reminder"

	// observations are fetched from this long before the earliest window
	observationLookback = 30 * 24 * time.Hour
)

var (
	ErrUnknownDomain = errors.New("unknown rubric domain")

	NowFunc = time.Now // mockable
)

type (
	// Recorder receives the outcome of every computation.
	Recorder interface {
		RecordSummary(kind period.Kind, sum Summary)
		RecordFetchFailure(source string)
	}

	Reminder struct {
		Coordinator   CoordinatorCompliance `json:"coordinator"`
		Pending       []TeacherStatus       `json:"pending"`
		RemainingDays int                   `json:"remaining_days"`
		Urgency       period.Urgency        `json:"urgency_level"`
	}

	Service struct {
		loc         *time.Location
		profileRepo profile.Repository
		teacherRepo teacher.Repository
		obsRepo     observation.Repository
		mailSvc     core.EmailService
		recorder    Recorder
		logger      core.Logger
	}
)

func NewService(
	conf *core.Config,
	profileRepo profile.Repository,
	teacherRepo teacher.Repository,
	obsRepo observation.Repository,
	mailSvc core.EmailService,
	recorder Recorder,
	logger core.Logger,
) *Service {
	return &Service{
		loc:         conf.Location(),
		profileRepo: profileRepo,
		teacherRepo: teacherRepo,
		obsRepo:     obsRepo,
		mailSvc:     mailSvc,
		recorder:    recorder,
		logger:      logger,
	}
}

// Calendar captures now once, in the configured school timezone.
func (svc *Service) Calendar() period.Calendar {
	return period.At(NowFunc().In(svc.loc))
}

func (svc *Service) unavailable(source string, err error) error {
	svc.recorder.RecordFetchFailure(source)
	err = core.NewDataUnavailableError(source, err)
	svc.logger.Error("compliance snapshot", err, map[string]interface{}{"source": source})
	return err
}

// fetchSnapshot loads, in one batch, the records a computation of scope needs.
// Observations are only loaded from `from` onwards.
func (svc *Service) fetchSnapshot(ctx context.Context, scope Scope, from time.Time) (Snapshot, error) {
	var snap Snapshot

	coords, err := svc.profileRepo.QueryCoordinators(ctx, scope.SchoolID)
	if err != nil {
		return Snapshot{}, svc.unavailable("coordinators", err)
	}
	for _, c := range coords {
		if scope.includesCoordinator(c) {
			snap.Coordinators = append(snap.Coordinators, c)
		}
	}

	active := true
	filter := teacher.QueryFilter{IsActive: &active, SchoolID: scope.SchoolID}
	if scope.CoordinatorID != "" {
		filter.CoordinatorIDs = []string{scope.CoordinatorID}
	}
	if snap.Teachers, err = svc.teacherRepo.QueryTeachers(ctx, filter); err != nil {
		return Snapshot{}, svc.unavailable("teachers", err)
	}
	if len(snap.Teachers) == 0 {
		return snap, nil
	}

	ids := make([]string, 0, len(snap.Teachers))
	for _, t := range snap.Teachers {
		ids = append(ids, t.ID)
	}
	snap.Observations, err = svc.obsRepo.QueryObservations(ctx, observation.QueryFilter{TeacherIDs: ids, From: from.UTC()})
	if err != nil {
		return Snapshot{}, svc.unavailable("observations", err)
	}
	return snap, nil
}

func earliest(periods ...period.Period) time.Time {
	first := periods[0].Start
	for _, p := range periods[1:] {
		if p.Start.Before(first) {
			first = p.Start
		}
	}
	return first.Add(-observationLookback)
}

// Current computes the compliance of the viewer's scope for a period:
// the current one of kind when number is nil.
func (svc *Service) Current(ctx context.Context, viewer profile.Profile, campus string, kind period.Kind, number *int) (Summary, error) {
	return svc.current(ctx, svc.Calendar(), viewer, campus, kind, number)
}

func (svc *Service) current(ctx context.Context, cal period.Calendar, viewer profile.Profile, campus string, kind period.Kind, number *int) (Summary, error) {
	p := cal.Current(kind)
	if number != nil {
		p = cal.Range(kind, *number)
	}
	week, fortnight := WindowsFor(cal, p)

	scope := ScopeFor(viewer, campus)
	snap, err := svc.fetchSnapshot(ctx, scope, earliest(week, fortnight))
	if err != nil {
		return Summary{}, err
	}

	sum := Compute(snap, scope, week, fortnight)
	svc.recorder.RecordSummary(kind, sum)
	return sum, nil
}

func clampCount(count int) int {
	switch {
	case count < 1:
		return DefaultTrendCount
	case count > MaxTrendCount:
		return MaxTrendCount
	}
	return count
}

// trendSnapshot fetches the records covering the count periods ending at the current one.
func (svc *Service) trendSnapshot(ctx context.Context, cal period.Calendar, scope Scope, kind period.Kind, count int) (Snapshot, error) {
	first := cal.Recent(kind, count)[0]
	week, fortnight := WindowsFor(cal, first)
	return svc.fetchSnapshot(ctx, scope, earliest(first, week, fortnight))
}

// Trend builds the compliance rate series of the viewer's scope over the last count periods.
func (svc *Service) Trend(ctx context.Context, viewer profile.Profile, campus string, kind period.Kind, count int) ([]TrendPoint, error) {
	cal := svc.Calendar()
	count = clampCount(count)
	scope := ScopeFor(viewer, campus)

	snap, err := svc.trendSnapshot(ctx, cal, scope, kind, count)
	if err != nil {
		return nil, err
	}
	return BuildTrend(cal, kind, count, ComplianceMetric(cal, snap, scope)), nil
}

// DomainTrend builds the average score series of a rubric domain over the
// observations of the viewer's scope.
func (svc *Service) DomainTrend(ctx context.Context, viewer profile.Profile, campus string, kind period.Kind, count int, domainID string) ([]TrendPoint, error) {
	if _, ok := observation.Danielson.Domain(domainID); !ok {
		return nil, core.NewValidationError(ErrUnknownDomain, core.FieldError{Field: "domain", Error: ErrUnknownDomain.Error()})
	}
	cal := svc.Calendar()
	count = clampCount(count)
	scope := ScopeFor(viewer, campus)

	snap, err := svc.trendSnapshot(ctx, cal, scope, kind, count)
	if err != nil {
		return nil, err
	}
	return BuildTrend(cal, kind, count, DomainScoreMetric(snap.scopedObservations(scope), domainID)), nil
}

// scopedObservations keeps the observations of active teachers visible in scope.
func (s Snapshot) scopedObservations(scope Scope) []observation.Observation {
	coords := make(map[string]bool, len(s.Coordinators))
	for _, c := range s.Coordinators {
		if scope.includesCoordinator(c) {
			coords[c.ID] = true
		}
	}
	visible := make(map[string]bool, len(s.Teachers))
	for _, t := range s.Teachers {
		if !t.IsActive || !scope.includesTeacher(t) {
			continue
		}
		if (t.HasCoordinator() && coords[*t.CoordinatorID]) || (!t.HasCoordinator() && scope.includesUnassigned(t)) {
			visible[t.ID] = true
		}
	}
	obs := make([]observation.Observation, 0, len(s.Observations))
	for _, o := range s.Observations {
		if visible[o.TeacherID] {
			obs = append(obs, o)
		}
	}
	return obs
}

// RemainingDays counts the work days left in a period, the current one when number is nil.
func (svc *Service) RemainingDays(kind period.Kind, number *int) period.RemainingDays {
	return svc.Calendar().RemainingWorkDays(kind, number)
}

// PendingReminders lists the coordinators of the viewer's scope whose pending
// teachers have an urgency of high or more left in their window.
func (svc *Service) PendingReminders(ctx context.Context, viewer profile.Profile, campus string) ([]Reminder, error) {
	cal := svc.Calendar()
	sum, err := svc.current(ctx, cal, viewer, campus, period.Weekly, nil)
	if err != nil {
		return nil, err
	}

	remaining := map[period.Kind]period.RemainingDays{
		period.Weekly:      cal.RemainingWorkDays(period.Weekly, &sum.Week.Number),
		period.Fortnightly: cal.RemainingWorkDays(period.Fortnightly, &sum.Fortnight.Number),
	}

	reminders := make([]Reminder, 0)
	for _, cc := range sum.Coordinators {
		if !cc.HasPending() {
			continue
		}
		r := Reminder{Coordinator: cc, Urgency: period.UrgencyLow, RemainingDays: -1}
		for _, ts := range cc.Teachers {
			if ts.Compliant {
				continue
			}
			r.Pending = append(r.Pending, ts)
			rd := remaining[ts.Cadence]
			if rd.Urgency.AtLeast(r.Urgency) {
				r.Urgency = rd.Urgency
			}
			if r.RemainingDays < 0 || rd.RemainingCount < r.RemainingDays {
				r.RemainingDays = rd.RemainingCount
			}
		}
		if r.Urgency.AtLeast(period.UrgencyHigh) {
			reminders = append(reminders, r)
		}
	}
	return reminders, nil
}

// SendReminders emails every coordinator returned by PendingReminders, unless dryRun.
func (svc *Service) SendReminders(ctx context.Context, viewer profile.Profile, campus string, dryRun bool) ([]Reminder, error) {
	reminders, err := svc.PendingReminders(ctx, viewer, campus)
	if err != nil {
		return nil, err
	}
	if dryRun || len(reminders) == 0 {
		return reminders, nil
	}

	msgs := make([]*core.EmailMessage, 0, len(reminders))
	for _, r := range reminders {
		if r.Coordinator.CoordinatorEmail == "" {
			svc.logger.Warn("compliance reminder: coordinator without email", map[string]interface{}{"coordinator_id": r.Coordinator.CoordinatorID})
			continue
		}
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{{Name: r.Coordinator.CoordinatorName, Address: r.Coordinator.CoordinatorEmail}},
			Subject:      "Observaciones pendientes",
			TemplateName: reminderTemplate,
			TemplateData: r,
		})
	}
	svc.mailSvc.SendMessages(msgs...)
	return reminders, nil
}
