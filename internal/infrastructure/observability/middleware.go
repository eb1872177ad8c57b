package observability

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// RequestLogger registra cada requisição e sua duração por rota
func RequestLogger(log logger.Logger, metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		if metrics != nil {
			metrics.ObserveRequest(route, elapsed)
		}

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"tenant_id", c.GetString("tenant_id"),
		}
		switch {
		case status >= 500:
			log.Error("requisição com erro", fields...)
		case status >= 400:
			log.Warn("requisição rejeitada", fields...)
		default:
			log.Debug("requisição", fields...)
		}
	}
}
