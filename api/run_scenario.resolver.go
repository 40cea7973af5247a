package api

import (
	"context"
	"fmt"
	"io"

	"github.com/jeffnemesis/gcam-core/internal/app"
	"github.com/jeffnemesis/gcam-core/internal/config"
	"github.com/jeffnemesis/gcam-core/internal/logger"

	"github.com/gin-gonic/gin"
)

type runScenarioResponse struct {
	RunID     string           `json:"runId"`
	Scenario  string           `json:"scenario"`
	Periods   []periodResponse `json:"periods"`
	ResultURL string           `json:"resultUrl"`
}

type periodResponse struct {
	Period     int     `json:"period"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
	MaxChange  float64 `json:"maxRelChange"`
	Calibrated bool    `json:"calibrated"`
}

// runScenario accepts a YAML scenario as the request body, solves it, and
// returns the run id plus per-period convergence diagnostics.
func (m *ApiHandler) runScenario(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	scenario, err := config.Parse(body)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	ctx := context.WithValue(c.Request.Context(), logger.ContextKey, m.Log)
	out, err := m.RunHandler.Run(ctx, app.RunInput{Scenario: scenario})
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	m.storeRun(out)

	resp := runScenarioResponse{
		RunID:     out.RunID.String(),
		Scenario:  out.Scenario,
		ResultURL: fmt.Sprintf("/runs/%s", out.RunID),
	}
	for _, p := range out.Result.Periods {
		resp.Periods = append(resp.Periods, periodResponse{
			Period:     p.Period,
			Iterations: p.Iterations,
			Converged:  p.Converged,
			MaxChange:  p.MaxRelChange,
			Calibrated: p.Calibrated,
		})
	}

	c.JSON(200, resp)
}
