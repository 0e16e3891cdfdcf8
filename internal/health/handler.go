package health

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/pipeline"
)

// Stepper reports the pipeline position for the readiness payload.
type Stepper interface {
	Step() pipeline.Step
}

// Engines names the recognition and synthesis backends selected at
// startup, so a probe can tell a degraded instance from a healthy one.
type Engines struct {
	Recognition string `json:"recognition"` // "sidecar" or "disabled"
	Synthesis   string `json:"synthesis"`   // "xtts" or "system"
}

type Handler struct {
	stepper Stepper
	engines Engines
}

func NewHandler(stepper Stepper, engines Engines) *Handler {
	return &Handler{stepper: stepper, engines: engines}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Liveness)
	e.GET("/readyz", h.Readiness)
}

func (h *Handler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type readiness struct {
	Status       string  `json:"status"`
	PipelineStep string  `json:"pipelineStep"`
	Engines      Engines `json:"engines"`
}

func (h *Handler) Readiness(c echo.Context) error {
	status := "ok"
	if h.engines.Recognition == "disabled" {
		status = "degraded"
	}
	return c.JSON(http.StatusOK, readiness{
		Status:       status,
		PipelineStep: string(h.stepper.Step()),
		Engines:      h.engines,
	})
}
