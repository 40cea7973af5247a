package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type getRunResponse struct {
	RunID    string      `json:"runId"`
	Scenario string      `json:"scenario"`
	Rows     interface{} `json:"rows"`
}

// getRun returns the per-sector, per-period result rows of a completed run.
func (m *ApiHandler) getRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid run id: %w", err), c, 400)
		return
	}

	out, ok := m.lookupRun(id)
	if !ok {
		returnErrorJsonCode(fmt.Errorf("no run with id %s", id), c, 404)
		return
	}

	c.JSON(200, getRunResponse{
		RunID:    out.RunID.String(),
		Scenario: out.Scenario,
		Rows:     out.Rows,
	})
}
