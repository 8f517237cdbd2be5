package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chourmovs/azursmartmix-control/internal/config"
	"github.com/chourmovs/azursmartmix-control/internal/containers"
	"github.com/chourmovs/azursmartmix-control/internal/metrics"
)

// LogsHandler serves raw container log tails as plain text.
type LogsHandler struct {
	cfg  *config.Config
	log  *zap.Logger
	logs LogSource
}

func NewLogsHandler(cfg *config.Config, logger *zap.Logger, logs LogSource) *LogsHandler {
	return &LogsHandler{cfg: cfg, log: logger, logs: logs}
}

// Tail handles GET /logs?service=engine|scheduler|<container>&tail=N.
// Fetch failures come back as sentinel text in a 200 body, not an error
// status: the console pane renders whatever it gets.
func (h *LogsHandler) Tail(c *gin.Context) {
	service := c.Query("service")
	if service == "" {
		c.String(http.StatusBadRequest, "missing service parameter\n")
		return
	}

	name := service
	switch service {
	case "engine":
		name = h.cfg.Containers.Engine
	case "scheduler":
		name = h.cfg.Containers.Scheduler
	}

	tail := h.cfg.Logs.TailDefault
	if raw := c.Query("tail"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			tail = n
		}
	}
	if tail < 1 {
		tail = 1
	}
	if tail > h.cfg.Logs.TailMax {
		tail = h.cfg.Logs.TailMax
	}

	text, err := h.logs.TailLogs(c.Request.Context(), name, tail)
	if err != nil {
		metrics.ObserveUpstreamError("docker")
		h.log.Warn("log tail failed", zap.String("container", name), zap.Error(err))
		c.String(http.StatusOK, containers.ErrorPrefix+"docker error: "+err.Error()+"\n")
		return
	}
	c.String(http.StatusOK, text)
}
