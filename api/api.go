package api

import (
	"fmt"
	"sync"

	"github.com/jeffnemesis/gcam-core/internal/app"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApiHandler serves scenario runs over HTTP. Completed runs are kept in
// memory keyed by run id; the model itself has no persistence layer.
type ApiHandler struct {
	RunHandler app.RunHandler
	Log        *zap.SugaredLogger

	mu   sync.Mutex
	runs map[uuid.UUID]*app.RunOutput
}

func (m *ApiHandler) StartApi(port int) error {
	if m.runs == nil {
		m.runs = map[uuid.UUID]*app.RunOutput{}
	}

	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "gcam-core model api"})
	})
	router.POST("/runScenario", m.runScenario)
	router.GET("/runs/:id", m.getRun)

	return router.Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	c.AbortWithStatusJSON(500, gin.H{
		"error": err.Error(),
	})
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func (m *ApiHandler) storeRun(out *app.RunOutput) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[out.RunID] = out
}

func (m *ApiHandler) lookupRun(id uuid.UUID) (*app.RunOutput, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out, ok := m.runs[id]
	return out, ok
}
