package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/observa/core/period"
)

// periodParams are the query parameters shared by the period and compliance endpoints.
type periodParams struct {
	Kind   period.Kind
	Number *int
	Count  int
	Campus string
}

func (pp *periodParams) Bind(ctx echo.Context) error {
	var kind string
	var number int
	b := echo.QueryParamsBinder(ctx).
		String("kind", &kind).
		Int("number", &number).
		Int("count", &pp.Count).
		String("campus", &pp.Campus)
	if err := b.BindError(); err != nil {
		return err
	}

	k, err := period.ParseKind(kind)
	if err != nil {
		return err
	}
	pp.Kind = k
	if ctx.QueryParam("number") != "" {
		pp.Number = &number
	}
	return nil
}
