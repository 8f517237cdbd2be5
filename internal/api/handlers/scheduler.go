package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chourmovs/azursmartmix-control/internal/metrics"
	"github.com/chourmovs/azursmartmix-control/internal/schedulerapi"
)

// SchedulerProxy abstracts the scheduler API client.
type SchedulerProxy interface {
	Health(ctx context.Context) schedulerapi.Result
	NowPlaying(ctx context.Context) schedulerapi.Result
	Upcoming(ctx context.Context, n int) schedulerapi.Result
}

// SchedulerHandler proxies the scheduler service's own HTTP API.
type SchedulerHandler struct {
	proxy SchedulerProxy
}

func NewSchedulerHandler(proxy SchedulerProxy) *SchedulerHandler {
	return &SchedulerHandler{proxy: proxy}
}

func (h *SchedulerHandler) Health(c *gin.Context) {
	res := h.proxy.Health(c.Request.Context())
	if !res.OK {
		metrics.ObserveUpstreamError("scheduler_api")
	}
	c.JSON(http.StatusOK, res)
}

func (h *SchedulerHandler) NowPlaying(c *gin.Context) {
	c.JSON(http.StatusOK, h.proxy.NowPlaying(c.Request.Context()))
}

func (h *SchedulerHandler) Upcoming(c *gin.Context) {
	n := 10
	if raw := c.Query("n"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			n = v
		}
	}
	if n < 1 {
		n = 1
	}
	if n > 50 {
		n = 50
	}
	c.JSON(http.StatusOK, h.proxy.Upcoming(c.Request.Context(), n))
}
