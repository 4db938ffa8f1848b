package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sitework-backend/internal/observability"
)

// Routes left out of request metrics so scrapes and probes don't dominate them.
var unmeteredRoutes = map[string]bool{
	"/metrics":     true,
	"/healthcheck": true,
}

// Metrics records request count, latency and in-flight requests per route
// template. A nil m disables it.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || unmeteredRoutes[c.Request.URL.Path] {
			c.Next()
			return
		}
		m.ApiInflightInc()
		began := time.Now()
		c.Next()
		m.ApiInflightDec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(began))
	}
}
