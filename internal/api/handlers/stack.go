package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chourmovs/azursmartmix-control/internal/compose"
	"github.com/chourmovs/azursmartmix-control/internal/config"
	"github.com/chourmovs/azursmartmix-control/internal/metrics"
)

// StackRunner abstracts the compose subprocess wrapper.
type StackRunner interface {
	Up(ctx context.Context) compose.RunResult
	Down(ctx context.Context) compose.RunResult
	Recreate(ctx context.Context) compose.RunResult
	RemoveImage(ctx context.Context, ref string) compose.RunResult
}

// StackHandler exposes the mutating stack operations. Every response is the
// raw subprocess transcript so the operator sees exactly what happened.
type StackHandler struct {
	cfg    *config.Config
	log    *zap.Logger
	runner StackRunner
	state  *State
}

func NewStackHandler(cfg *config.Config, logger *zap.Logger, runner StackRunner, state *State) *StackHandler {
	return &StackHandler{cfg: cfg, log: logger, runner: runner, state: state}
}

func (h *StackHandler) Up(c *gin.Context) {
	h.respond(c, "up", h.runner.Up(c.Request.Context()))
}

func (h *StackHandler) Down(c *gin.Context) {
	h.respond(c, "down", h.runner.Down(c.Request.Context()))
}

// Restart recreates the containers so pending env/image changes take
// effect; a clean run clears the restart banner.
func (h *StackHandler) Restart(c *gin.Context) {
	res := h.runner.Recreate(c.Request.Context())
	if res.OK {
		h.state.Clear()
	}
	h.respond(c, "restart", res)
}

// PurgeImage drops the cached engine image for one tag.
func (h *StackHandler) PurgeImage(c *gin.Context) {
	tag := c.Query("tag")
	if tag == "" {
		tag = "latest"
	}
	res := h.runner.RemoveImage(c.Request.Context(), h.cfg.Compose.ImageRepo+":"+tag)
	h.respond(c, "purge_image", res)
}

// ApplyTag persists a new engine image tag into the compose env file.
// Takes effect on the next recreate.
func (h *StackHandler) ApplyTag(c *gin.Context) {
	var body struct {
		Tag string `json:"tag"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Tag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing tag"})
		return
	}

	res := compose.WriteEnvFile(h.cfg.Compose.EnvFile, map[string]string{
		h.cfg.Compose.TagKey: body.Tag,
	})
	if res.OK {
		h.state.Raise("image tag changed to " + body.Tag + "; restart required")
		h.log.Info("image tag applied", zap.String("tag", body.Tag))
	}
	c.JSON(http.StatusOK, res)
}

func (h *StackHandler) respond(c *gin.Context, op string, res compose.RunResult) {
	metrics.ObserveComposeOp(op, res.OK, float64(res.DurationMS)/1000.0)
	c.String(http.StatusOK, res.Transcript())
}
