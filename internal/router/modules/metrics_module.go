package modules

import (
	"fmt"
	"runtime"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsModule exposes GET /metrics in Prometheus text format.
type MetricsModule struct {
	Set       *metrics.Set
	buildInfo string
}

func NewMetricsModule(set *metrics.Set, appName string) *MetricsModule {
	return &MetricsModule{
		Set:       set,
		buildInfo: fmt.Sprintf("build_info{goversion=%q,app=%q} 1\n", runtime.Version(), appName),
	}
}

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/metrics", func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		_, _ = fmt.Fprint(c.Writer, m.buildInfo)
		m.Set.WritePrometheus(c.Writer)
		metrics.WriteProcessMetrics(c.Writer)
	})
}
