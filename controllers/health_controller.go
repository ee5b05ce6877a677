package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/forms-app/config"
)

const healthPingTimeout = 2 * time.Second

// HealthCheck reports whether the database answers a ping in time.
func HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	started := time.Now()
	dbStatus := "ok"
	if sqlDB, err := config.DB.DB(); err != nil {
		dbStatus = "unavailable"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unreachable"
	}

	if dbStatus != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": dbStatus})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"db":        dbStatus,
		"latencyMs": time.Since(started).Milliseconds(),
	})
}
