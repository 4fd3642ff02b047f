package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/observa/core"
	"github.com/trezcool/observa/core/profile"
	"github.com/trezcool/observa/core/teacher"
)

const contextObjectKey = "object"

var (
	errTeacherNotFoundInCtx = errors.New("teacher object not found in echo.Context")
	errNotACoordinator      = "coordinator not found"
	errOtherSchool          = "coordinator belongs to another school"
)

type teacherApi struct {
	svc         *teacher.Service
	profileRepo profile.Repository
}

func registerTeacherAPI(g *echo.Group, svc *teacher.Service, profileRepo profile.Repository) {
	api := teacherApi{svc: svc, profileRepo: profileRepo}

	tg := g.Group("/teachers")
	tg.GET("", api.query)
	tg.POST("", api.create, managerMiddleware())

	// detail endpoints
	dg := tg.Group("/:id", visibleTeacherMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("/coordinator", api.reassign, managerMiddleware())
	dg.POST("/tenure", api.toggleTenure, managerMiddleware())
	dg.PUT("/active", api.setActive, managerMiddleware())
	dg.DELETE("", api.destroy, managerMiddleware())
}

type (
	ReassignRequest struct {
		CoordinatorID *string `json:"coordinator_id"`
	}

	SetActiveRequest struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}

	DeleteResponse struct {
		Deactivated bool `json:"deactivated"`
	}
)

// Handlers

func (api *teacherApi) query(ctx echo.Context) error {
	var filter teacher.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	viewer, err := getContextViewer(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context viewer")
	}
	restrictTeacherFilter(viewer, &filter)

	teachers, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []teacher.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	viewer, err := getContextViewer(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context viewer")
	}
	if viewer.IsDirector() {
		data.SchoolID = viewer.SchoolID
	}
	if err = api.checkCoordinator(ctx, data.CoordinatorID, core.CleanString(data.SchoolID)); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	t, err := getContextTeacher(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) reassign(ctx echo.Context) error {
	t, err := getContextTeacher(ctx)
	if err != nil {
		return err
	}
	var data ReassignRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReassignRequest")
	}
	if err = api.checkCoordinator(ctx, data.CoordinatorID, t.SchoolID); err != nil {
		return err
	}

	t, err = api.svc.Reassign(ctx.Request().Context(), t.ID, data.CoordinatorID)
	if err != nil {
		return errors.Wrap(err, "reassigning teacher")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) toggleTenure(ctx echo.Context) error {
	t, err := getContextTeacher(ctx)
	if err != nil {
		return err
	}
	t, err = api.svc.ToggleTenure(ctx.Request().Context(), t.ID)
	if err != nil {
		return errors.Wrap(err, "toggling teacher tenure")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) setActive(ctx echo.Context) error {
	t, err := getContextTeacher(ctx)
	if err != nil {
		return err
	}
	var data SetActiveRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetActiveRequest")
	}
	if err = core.Validate.Struct(data); err != nil {
		return err
	}

	t, err = api.svc.SetActive(ctx.Request().Context(), t.ID, *data.IsActive)
	if err != nil {
		return errors.Wrap(err, "updating teacher status")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	t, err := getContextTeacher(ctx)
	if err != nil {
		return err
	}
	deactivated, err := api.svc.Delete(ctx.Request().Context(), t.ID)
	if err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	if !deactivated {
		return ctx.NoContent(http.StatusNoContent)
	}
	return ctx.JSON(http.StatusOK, DeleteResponse{Deactivated: true})
}

// checkCoordinator rejects assignments to profiles that are not coordinators,
// and to coordinators of a school other than schoolID.
func (api *teacherApi) checkCoordinator(ctx echo.Context, coordinatorID *string, schoolID string) error {
	if coordinatorID == nil || core.CleanString(*coordinatorID) == "" {
		return nil
	}
	p, err := api.profileRepo.GetProfile(ctx.Request().Context(), core.CleanString(*coordinatorID))
	if err != nil && errors.Cause(err) != profile.ErrNotFound {
		return errors.Wrap(err, "finding coordinator by ID")
	}
	if err != nil || !p.IsCoordinator() {
		return core.NewValidationError(nil, core.FieldError{Field: "coordinator_id", Error: errNotACoordinator})
	}
	if schoolID != "" && p.SchoolID != schoolID {
		return core.NewValidationError(nil, core.FieldError{Field: "coordinator_id", Error: errOtherSchool})
	}
	return nil
}

// restrictTeacherFilter narrows filter to the teachers viewer may see.
func restrictTeacherFilter(viewer profile.Profile, filter *teacher.QueryFilter) {
	switch viewer.Role {
	case profile.RoleCoordinator:
		filter.CoordinatorIDs = []string{viewer.ID}
		filter.SchoolID = viewer.SchoolID
	case profile.RoleDirector:
		filter.SchoolID = viewer.SchoolID
	}
}

func canSeeTeacher(viewer profile.Profile, t teacher.Teacher) bool {
	switch viewer.Role {
	case profile.RoleCoordinator:
		return t.IsCoordinatedBy(viewer.ID)
	case profile.RoleDirector:
		return t.SchoolID == viewer.SchoolID
	}
	return true
}

func visibleTeacherMiddleware(svc *teacher.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			viewer, err := getContextViewer(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context viewer")
			}

			t, err := svc.Get(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == teacher.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding teacher by ID")
			}
			if !canSeeTeacher(viewer, t) {
				return errHttpNotFound
			}
			ctx.Set(contextObjectKey, t)
			return next(ctx)
		}
	}
}

func getContextTeacher(ctx echo.Context) (teacher.Teacher, error) {
	t, ok := ctx.Get(contextObjectKey).(teacher.Teacher)
	if !ok {
		return teacher.Teacher{}, errors.Wrap(errTeacherNotFoundInCtx, "retrieving object from context")
	}
	return t, nil
}
