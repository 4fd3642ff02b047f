package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/observa/core/observation"
	"github.com/trezcool/observa/core/profile"
)

type observationApi struct {
	svc *observation.Service
}

func registerObservationAPI(g *echo.Group, svc *observation.Service) {
	api := observationApi{svc: svc}

	g.GET("/rubric", api.rubric)

	og := g.Group("/observations")
	og.GET("", api.query)
	og.POST("", api.create)
	og.GET("/:id", api.retrieve)
}

// Handlers

func (api *observationApi) rubric(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, observation.Danielson)
}

func (api *observationApi) query(ctx echo.Context) error {
	var filter observation.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	viewer, err := getContextViewer(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context viewer")
	}
	if viewer.Role == profile.RoleCoordinator {
		filter.ObserverID = viewer.ID
	}

	obs, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying observations")
	}
	if obs == nil {
		obs = []observation.Observation{}
	}
	return ctx.JSON(http.StatusOK, obs)
}

func (api *observationApi) create(ctx echo.Context) error {
	var data observation.NewObservation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewObservation")
	}
	viewer, err := getContextViewer(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context viewer")
	}
	data.ObserverID = viewer.ID

	o, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording observation")
	}
	return ctx.JSON(http.StatusCreated, o)
}

func (api *observationApi) retrieve(ctx echo.Context) error {
	viewer, err := getContextViewer(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context viewer")
	}
	o, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding observation by ID")
	}
	if viewer.Role == profile.RoleCoordinator && o.ObserverID != viewer.ID {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, o)
}
