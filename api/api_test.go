package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jeffnemesis/gcam-core/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const scenarioYaml = `
name: api-test
years: [1990, 2005]
regions:
  - name: USA
    sectors:
      - name: electricity
        unit: EJ
        subsectors:
          - name: turbine
            share_weight: 1.0
            non_energy_cost: 3.0
    demands:
      - good: electricity
        base_service: 100
`

func newTestRouter(t *testing.T) (*gin.Engine, *ApiHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := &ApiHandler{
		Log:  zap.NewNop().Sugar(),
		runs: map[uuid.UUID]*app.RunOutput{},
	}

	router := gin.New()
	router.POST("/runScenario", handler.runScenario)
	router.GET("/runs/:id", handler.getRun)
	return router, handler
}

func TestRunScenarioEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/runScenario", strings.NewReader(scenarioYaml))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RunID     string `json:"runId"`
		Scenario  string `json:"scenario"`
		ResultURL string `json:"resultUrl"`
		Periods   []struct {
			Converged bool `json:"converged"`
		} `json:"periods"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "api-test", resp.Scenario)
	require.Len(t, resp.Periods, 2)
	require.True(t, resp.Periods[0].Converged)

	_, err := uuid.Parse(resp.RunID)
	require.NoError(t, err)
	require.Equal(t, "/runs/"+resp.RunID, resp.ResultURL)

	// The completed run is retrievable.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, resp.ResultURL, nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "electricity")
}

func TestRunScenarioEndpoint_badScenario(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/runScenario", strings.NewReader("years: [1990]"))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "error")
}

func TestGetRunEndpoint_errors(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("malformed id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/runs/not-a-uuid", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/runs/"+uuid.NewString(), nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
