package httpapi

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weather-lookup/internal/chart"
	"github.com/i474232898/weather-lookup/internal/query"
	"github.com/i474232898/weather-lookup/internal/theme"
)

var validate = validator.New()

// Querier is the query surface the handlers need; *query.Controller satisfies it.
type Querier interface {
	Submit(ctx context.Context, key string) (query.State, error)
	State() query.State
	LastGood() (query.Result, bool)
	History() []string
}

// Deps bundles what the routes read and drive.
type Deps struct {
	Queries Querier
	Theme   *theme.Signal
	Style   *theme.Bridge
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")

	v1.Post("/query", func(c *fiber.Ctx) error {
		var req queryRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		req.Q = strings.TrimSpace(req.Q)
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "query must not be empty")
		}

		st, err := deps.Queries.Submit(c.UserContext(), req.Q)
		switch {
		case err == nil:
			return c.JSON(st)
		case errors.Is(err, query.ErrEmptyQuery):
			return fiber.NewError(fiber.StatusBadRequest, "query must not be empty")
		case errors.Is(err, query.ErrSuperseded):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":   true,
				"message": "query superseded by a newer one",
				"state":   st,
			})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":   true,
				"message": st.Reason,
				"state":   st,
			})
		}
	})

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(deps.Queries.State())
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"entries": deps.Queries.History(),
		})
	})

	v1.Get("/style", func(c *fiber.Ctx) error {
		return c.JSON(styleResponse(deps))
	})

	v1.Put("/theme", func(c *fiber.Ctx) error {
		var req themeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "dark is required")
		}
		deps.Theme.Set(*req.Dark)
		return c.JSON(styleResponse(deps))
	})

	v1.Post("/theme/toggle", func(c *fiber.Ctx) error {
		deps.Theme.Toggle()
		return c.JSON(styleResponse(deps))
	})

	v1.Get("/chart", func(c *fiber.Ctx) error {
		res, ok := deps.Queries.LastGood()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no forecast to chart yet")
		}
		return c.JSON(chart.Build(res.Forecast, deps.Style.Params()))
	})
}

type queryRequest struct {
	Q string `json:"q" validate:"required"`
}

type themeRequest struct {
	Dark *bool `json:"dark" validate:"required"`
}

func styleResponse(deps Deps) fiber.Map {
	params := deps.Style.Params()
	return fiber.Map{
		"style":       params,
		"toggleLabel": theme.ToggleLabel(params.Dark),
	}
}
