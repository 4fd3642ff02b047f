package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/observa/core/compliance"
	"github.com/trezcool/observa/core/period"
)

type complianceApi struct {
	svc *compliance.Service
}

func registerComplianceAPI(g *echo.Group, svc *compliance.Service) {
	api := complianceApi{svc: svc}

	cg := g.Group("/compliance")
	cg.GET("", api.current)
	cg.GET("/trend", api.trend)
	cg.GET("/domains/trend", api.domainTrend)
	cg.GET("/reminders", api.reminders)
	cg.POST("/reminders", api.sendReminders, managerMiddleware())
}

type TrendResponse struct {
	Kind      period.Kind             `json:"kind"`
	Domain    string                  `json:"domain,omitempty"`
	Direction compliance.Direction    `json:"direction"`
	Points    []compliance.TrendPoint `json:"points"`
}

func (api *complianceApi) current(ctx echo.Context) error {
	var params periodParams
	if err := params.Bind(ctx); err != nil {
		return errors.Wrap(err, "binding period params")
	}
	viewer, err := getContextViewer(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context viewer")
	}

	sum, err := api.svc.Current(ctx.Request().Context(), viewer, params.Campus, params.Kind, params.Number)
	if err != nil {
		return errors.Wrap(err, "computing compliance")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *complianceApi) trend(ctx echo.Context) error {
	var params periodParams
	if err := params.Bind(ctx); err != nil {
		return errors.Wrap(err, "binding period params")
	}
	viewer, err := getContextViewer(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context viewer")
	}

	points, err := api.svc.Trend(ctx.Request().Context(), viewer, params.Campus, params.Kind, params.Count)
	if err != nil {
		return errors.Wrap(err, "building compliance trend")
	}
	return ctx.JSON(http.StatusOK, TrendResponse{
		Kind:      params.Kind,
		Direction: compliance.DirectionOf(points),
		Points:    points,
	})
}

func (api *complianceApi) domainTrend(ctx echo.Context) error {
	var params periodParams
	if err := params.Bind(ctx); err != nil {
		return errors.Wrap(err, "binding period params")
	}
	viewer, err := getContextViewer(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context viewer")
	}

	domain := ctx.QueryParam("domain")
	points, err := api.svc.DomainTrend(ctx.Request().Context(), viewer, params.Campus, params.Kind, params.Count, domain)
	if err != nil {
		return errors.Wrap(err, "building domain trend")
	}
	return ctx.JSON(http.StatusOK, TrendResponse{
		Kind:      params.Kind,
		Domain:    domain,
		Direction: compliance.DirectionOf(points),
		Points:    points,
	})
}

func (api *complianceApi) reminders(ctx echo.Context) error {
	viewer, err := getContextViewer(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context viewer")
	}

	reminders, err := api.svc.PendingReminders(ctx.Request().Context(), viewer, ctx.QueryParam("campus"))
	if err != nil {
		return errors.Wrap(err, "listing pending reminders")
	}
	return ctx.JSON(http.StatusOK, reminders)
}

func (api *complianceApi) sendReminders(ctx echo.Context) error {
	var campus string
	var dryRun bool
	b := echo.QueryParamsBinder(ctx).String("campus", &campus).Bool("dry_run", &dryRun)
	if err := b.BindError(); err != nil {
		return errors.Wrap(err, "binding reminder params")
	}
	viewer, err := getContextViewer(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context viewer")
	}

	reminders, err := api.svc.SendReminders(ctx.Request().Context(), viewer, campus, dryRun)
	if err != nil {
		return errors.Wrap(err, "sending reminders")
	}
	return ctx.JSON(http.StatusOK, reminders)
}
