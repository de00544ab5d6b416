package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/i474232898/weather-glance/internal/icons"
	"github.com/i474232898/weather-glance/internal/render"
	"github.com/i474232898/weather-glance/internal/screen"
	"github.com/i474232898/weather-glance/internal/store"
)

var validate = validator.New()

// StateReader is the read side of the screen store.
type StateReader interface {
	Latest() (screen.State, error)
	History() []screen.State
}

// screenResponse is the JSON form of the screen.
type screenResponse struct {
	RunID        string              `json:"runId,omitempty"`
	Phase        screen.Phase        `json:"phase"`
	Error        screen.ErrorKind    `json:"error,omitempty"`
	RegionSource screen.RegionSource `json:"regionSource,omitempty"`
	UpdatedAt    string              `json:"updatedAt"`
	View         render.View         `json:"view"`
}

func newScreenResponse(state screen.State, table *icons.Table) screenResponse {
	return screenResponse{
		RunID:        state.RunID,
		Phase:        state.Phase,
		Error:        state.Error,
		RegionSource: state.RegionSource,
		UpdatedAt:    state.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		View:         render.Build(state, table),
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. metrics may be
// nil to leave /metrics unregistered.
func RegisterRoutes(app *fiber.App, states StateReader, table *icons.Table, metrics http.Handler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-glance",
		})
	})

	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}

	v1 := app.Group("/api/v1")

	v1.Get("/screen", func(c *fiber.Ctx) error {
		state, err := latest(states)
		if err != nil {
			return err
		}
		return c.JSON(newScreenResponse(state, table))
	})

	v1.Get("/screen/pages/:page", func(c *fiber.Ctx) error {
		var req pageQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		state, err := latest(states)
		if err != nil {
			return err
		}
		if state.Phase != screen.PhaseLoaded {
			return fiber.NewError(fiber.StatusServiceUnavailable, "screen is "+string(state.Phase))
		}

		view := render.Build(state, table)
		if req.Page > len(view.Cards) {
			return fiber.NewError(fiber.StatusNotFound, "page out of range")
		}

		return c.JSON(fiber.Map{
			"label": view.Label,
			"card":  view.Cards[req.Page-1],
		})
	})

	v1.Get("/screen/history", func(c *fiber.Ctx) error {
		history := states.History()
		out := make([]screenResponse, 0, len(history))
		for _, s := range history {
			out = append(out, newScreenResponse(s, table))
		}
		return c.JSON(fiber.Map{
			"states": out,
		})
	})
}

func latest(states StateReader) (screen.State, error) {
	state, err := states.Latest()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return screen.State{}, fiber.NewError(fiber.StatusServiceUnavailable, "screen not initialised")
		}
		return screen.State{}, fiber.NewError(fiber.StatusInternalServerError, "failed to read screen state")
	}
	return state, nil
}

// pageQuery holds the path parameter of the page endpoint.
type pageQuery struct {
	Page int `validate:"gte=1"`
}

func (q *pageQuery) bind(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Params("page"))
	if err != nil {
		return errors.New("page must be an integer")
	}
	q.Page = page
	return validate.Struct(q)
}
