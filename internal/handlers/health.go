package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charlesng35/reviewerdesk/pkg/response"
)

const healthPingTimeout = 2 * time.Second

// Health reports readiness; with a database handle it also pings the connection pool.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := gin.H{"status": "ok", "checked_at": time.Now().UTC()}
		if db == nil {
			response.Success(c, http.StatusOK, payload)
			return
		}

		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(requestContext(c), healthPingTimeout)
			err = sqlDB.PingContext(ctx)
			cancel()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"status":  "degraded",
				"checks":  gin.H{"database": err.Error()},
			})
			return
		}

		payload["checks"] = gin.H{"database": "ok"}
		response.Success(c, http.StatusOK, payload)
	}
}
