package handlers

import (
	"net/http"

	"bookreview/utils"

	"github.com/gin-gonic/gin"
)

// HealthSource exposes the latest dependency snapshot.
type HealthSource interface {
	Status() utils.HealthStatus
}

// HealthHandler reports 200 when every dependency answered the last probe
// and 503 otherwise.
func HealthHandler(src HealthSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := src.Status()
		healthy := status.Mongo
		for _, ok := range status.Redis {
			healthy = healthy && ok
		}
		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"success": healthy,
			"status":  status,
		})
	}
}
