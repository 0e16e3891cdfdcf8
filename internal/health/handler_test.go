package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/pipeline"
)

type fixedStepper pipeline.Step

func (s fixedStepper) Step() pipeline.Step { return pipeline.Step(s) }

func serve(t *testing.T, h *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.Register(e)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLiveness(t *testing.T) {
	h := NewHandler(fixedStepper(pipeline.StepIdle), Engines{Recognition: "sidecar", Synthesis: "xtts"})
	rec := serve(t, h, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestReadiness_ReportsStepAndEngines(t *testing.T) {
	h := NewHandler(fixedStepper(pipeline.StepSpeaking), Engines{Recognition: "sidecar", Synthesis: "system"})
	rec := serve(t, h, "/readyz")

	var body readiness
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Status != "ok" || body.PipelineStep != "speaking" || body.Engines.Synthesis != "system" {
		t.Errorf("readiness = %+v", body)
	}
}

func TestReadiness_DegradedWithoutRecognition(t *testing.T) {
	h := NewHandler(fixedStepper(pipeline.StepIdle), Engines{Recognition: "disabled", Synthesis: "xtts"})
	rec := serve(t, h, "/readyz")

	var body readiness
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Status != "degraded" {
		t.Errorf("status = %q, want degraded", body.Status)
	}
}
