package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/observa/core"
	"github.com/trezcool/observa/core/compliance"
	"github.com/trezcool/observa/core/period"
)

const (
	defaultPeriodCount = 4
	maxPeriodCount     = 52
)

type periodApi struct {
	svc *compliance.Service
}

func registerPeriodAPI(g *echo.Group, svc *compliance.Service) {
	api := periodApi{svc: svc}

	pg := g.Group("/periods")
	pg.GET("/current", api.current)
	pg.GET("/weeks", api.schoolWeeks)
	pg.GET("/weeks/:n", api.week)
	pg.GET("/fortnights", api.schoolFortnights)
	pg.GET("/fortnights/:n", api.fortnight)
	pg.GET("/upcoming", api.upcoming)
	pg.GET("/recent", api.recent)
	pg.GET("/remaining-days", api.remainingDays)
}

type CurrentPeriodsResponse struct {
	SchoolYear      string        `json:"school_year"`
	Today           string        `json:"today"`
	Week            period.Period `json:"week"`
	Fortnight       period.Period `json:"fortnight"`
	CanObserveToday bool          `json:"can_observe_today"`
	NextWorkDay     string        `json:"next_work_day"`
}

func (api *periodApi) current(ctx echo.Context) error {
	cal := api.svc.Calendar()
	return ctx.JSON(http.StatusOK, CurrentPeriodsResponse{
		SchoolYear:      cal.SchoolYear().Name(),
		Today:           cal.Today().Format(dateLayout),
		Week:            cal.Current(period.Weekly),
		Fortnight:       cal.Current(period.Fortnightly),
		CanObserveToday: cal.CanObserveToday(),
		NextWorkDay:     cal.NextWorkDay().Format(dateLayout),
	})
}

func (api *periodApi) schoolWeeks(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Calendar().SchoolWeeks())
}

func (api *periodApi) schoolFortnights(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Calendar().SchoolFortnights())
}

func (api *periodApi) week(ctx echo.Context) error {
	n, err := numberParam(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.Calendar().WeekRange(n))
}

func (api *periodApi) fortnight(ctx echo.Context) error {
	n, err := numberParam(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.Calendar().FortnightRange(n))
}

func (api *periodApi) upcoming(ctx echo.Context) error {
	var params periodParams
	if err := params.Bind(ctx); err != nil {
		return errors.Wrap(err, "binding period params")
	}
	return ctx.JSON(http.StatusOK, api.svc.Calendar().Upcoming(params.Kind, periodCount(params.Count)))
}

func (api *periodApi) recent(ctx echo.Context) error {
	var params periodParams
	if err := params.Bind(ctx); err != nil {
		return errors.Wrap(err, "binding period params")
	}
	return ctx.JSON(http.StatusOK, api.svc.Calendar().Recent(params.Kind, periodCount(params.Count)))
}

func (api *periodApi) remainingDays(ctx echo.Context) error {
	var params periodParams
	if err := params.Bind(ctx); err != nil {
		return errors.Wrap(err, "binding period params")
	}
	return ctx.JSON(http.StatusOK, newRemainingDaysResponse(api.svc.RemainingDays(params.Kind, params.Number)))
}

const dateLayout = "2006-01-02"

type RemainingDaysResponse struct {
	period.RemainingDays
	RemainingDates []string `json:"remaining_dates"`
}

func newRemainingDaysResponse(rd period.RemainingDays) RemainingDaysResponse {
	dates := make([]string, 0, len(rd.RemainingDates))
	for _, d := range rd.RemainingDates {
		dates = append(dates, d.Format(dateLayout))
	}
	return RemainingDaysResponse{RemainingDays: rd, RemainingDates: dates}
}

func numberParam(ctx echo.Context) (int, error) {
	n, err := strconv.Atoi(ctx.Param("n"))
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "n", Error: "must be a whole number"})
	}
	return n, nil
}

func periodCount(count int) int {
	switch {
	case count < 1:
		return defaultPeriodCount
	case count > maxPeriodCount:
		return maxPeriodCount
	}
	return count
}

