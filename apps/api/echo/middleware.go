package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/observa/core/profile"
)

const (
	// profileHeader is set by the auth gateway once the session is verified.
	profileHeader = "X-Profile-ID"

	contextViewerKey = "viewer"
)

var errViewerNotFoundInCtx = errors.New("viewer not found in echo.Context")

// viewerMiddleware resolves the profile of the authenticated caller.
func viewerMiddleware(repo profile.Repository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id := ctx.Request().Header.Get(profileHeader)
			if id == "" {
				return errUnauthorized
			}
			viewer, err := repo.GetProfile(ctx.Request().Context(), id)
			if err != nil {
				if errors.Cause(err) == profile.ErrNotFound {
					return errUnauthorized
				}
				return errors.Wrap(err, "finding profile by ID")
			}
			ctx.Set(contextViewerKey, viewer)
			return next(ctx)
		}
	}
}

// managerMiddleware restricts a route to profiles that manage teachers.
func managerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			viewer, err := getContextViewer(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context viewer")
			}
			if !viewer.CanManageTeachers() {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

func getContextViewer(ctx echo.Context) (profile.Profile, error) {
	viewer, ok := ctx.Get(contextViewerKey).(profile.Profile)
	if !ok {
		return profile.Profile{}, errViewerNotFoundInCtx
	}
	return viewer, nil
}

// logArgs returns the request, and the viewer if any, as logger args.
func logArgs(ctx echo.Context) []interface{} {
	args := []interface{}{ctx.Request()}
	if viewer, err := getContextViewer(ctx); err == nil {
		args = append(args, viewer)
	}
	return args
}
