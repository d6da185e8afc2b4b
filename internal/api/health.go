package api

import "github.com/gin-gonic/gin"

// HealthHandler provides liveness and readiness endpoints for the service.
//
// Responsibilities:
//   - /healthz: Basic liveness probe (always returns 200 OK).
//   - /readyz: Readiness probe (depends on upstream reachability).
type HealthHandler struct {
	pings []func() error // one reachability check per upstream
}

// NewHealthHandler constructs a HealthHandler from upstream ping functions,
// typically cheap HEAD requests against the NSE and Yahoo hosts.
func NewHealthHandler(pings ...func() error) *HealthHandler {
	return &HealthHandler{pings: pings}
}

// Register mounts the health and readiness endpoints into the provided Gin router.
//
// Routes:
//   - GET /healthz: Always returns 200 OK.
//   - GET /readyz: Returns 200 OK if every upstream ping succeeds, 503 otherwise.
func (h *HealthHandler) Register(r *gin.Engine) {
	// Liveness probe (just checks if the service is up)
	// @Summary      Liveness probe
	// @Description  Always returns OK if the service is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Readiness probe (checks upstream reachability)
	// @Summary      Readiness probe
	// @Description  Returns ready if the upstream market-data hosts are reachable
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Failure      503  {object}  map[string]string
	// @Router       /readyz [get]
	r.GET("/readyz", func(c *gin.Context) {
		for _, ping := range h.pings {
			if ping != nil && ping() != nil {
				c.JSON(503, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(200, gin.H{"status": "ready"})
	})
}
