package modules

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// HealthModule serves GET /liveness and GET /readiness.
type HealthModule struct {
	Checks map[string]Check
}

func NewHealthModule(checks map[string]Check) *HealthModule {
	return &HealthModule{Checks: checks}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/liveness", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	rg.GET("/readiness", m.readiness)
}

func (m *HealthModule) readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	result := make(map[string]string, len(m.Checks))
	for name, check := range m.Checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			result[name] = err.Error()
			continue
		}
		result[name] = "ok"
	}
	c.JSON(status, result)
}
