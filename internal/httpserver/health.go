package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"

	"reminder-assistant/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthMessage = "Reminder assistant is up"
	HealthVersion = "1.0.0"
	ServiceName   = "reminder-assistant"

	// staleTickAfter marks the one-minute scheduler as stalled.
	staleTickAfter = 3 * time.Minute
)

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// readyCheck handles readiness check. Returns ready if server is up.
// @Summary Readiness Check
// @Description Check if the API is ready to serve traffic
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is ready"
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "ready",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// statusCheck reports when the in-process scheduler last ticked.
// @Summary Scheduler Status
// @Description Last scheduler tick, when the scheduler runs in this process
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "Scheduler status"
// @Failure 503 {object} response.Resp "Scheduler stalled"
// @Router /status [get]
func (srv HTTPServer) statusCheck(c *gin.Context) {
	body := gin.H{
		"service":   ServiceName,
		"scheduler": "disabled",
	}
	if srv.status == nil {
		response.OK(c, body)
		return
	}

	last, ok := srv.status.LastTick()
	if !ok {
		body["scheduler"] = "waiting"
		response.OK(c, body)
		return
	}

	body["last_tick"] = response.DateTime(last)
	if srv.now().Sub(last) > staleTickAfter {
		body["scheduler"] = "stalled"
		srv.l.Warnf(c.Request.Context(), "httpserver.statusCheck: last scheduler tick at %s", last.UTC().Format(time.RFC3339))
		response.Unavailable(c, body)
		return
	}
	body["scheduler"] = "running"
	response.OK(c, body)
}
