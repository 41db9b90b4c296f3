package monitoring

import (
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// requestCounters aggregates traffic seen by RequestMetricsMiddleware.
type requestCounters struct {
	active       atomic.Int64
	total        atomic.Uint64
	clientErrors atomic.Uint64
	serverErrors atomic.Uint64
}

// requestStats is a point-in-time copy of requestCounters.
type requestStats struct {
	Active       int64
	Total        uint64
	ClientErrors uint64
	ServerErrors uint64
}

var requests requestCounters

// RequestMetricsMiddleware counts in-flight and finished requests, with
// 4xx and 5xx responses tallied separately.
func RequestMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requests.active.Add(1)
		defer requests.active.Add(-1)

		c.Next()

		requests.total.Add(1)
		switch status := c.Writer.Status(); {
		case status >= 500:
			requests.serverErrors.Add(1)
		case status >= 400:
			requests.clientErrors.Add(1)
		}
	}
}

func (r *requestCounters) stats() requestStats {
	return requestStats{
		Active:       r.active.Load(),
		Total:        r.total.Load(),
		ClientErrors: r.clientErrors.Load(),
		ServerErrors: r.serverErrors.Load(),
	}
}
