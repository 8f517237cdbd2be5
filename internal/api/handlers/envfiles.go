package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chourmovs/azursmartmix-control/internal/compose"
	"github.com/chourmovs/azursmartmix-control/internal/config"
)

// EnvHandler serves the compose-declared environments (read-only) and the
// editable .env file docker compose interpolates from.
type EnvHandler struct {
	cfg   *config.Config
	log   *zap.Logger
	state *State
}

func NewEnvHandler(cfg *config.Config, logger *zap.Logger, state *State) *EnvHandler {
	return &EnvHandler{cfg: cfg, log: logger, state: state}
}

// ComposeEnv handles GET /compose/env?service=<name>.
func (h *EnvHandler) ComposeEnv(c *gin.Context) {
	service := c.Query("service")
	if service == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing service parameter"})
		return
	}
	c.JSON(http.StatusOK, compose.ReadServiceEnv(h.cfg.Compose.Path, service))
}

func (h *EnvHandler) EngineComposeEnv(c *gin.Context) {
	c.JSON(http.StatusOK, compose.ReadServiceEnv(h.cfg.Compose.Path, h.cfg.Compose.ServiceEngine))
}

func (h *EnvHandler) SchedulerComposeEnv(c *gin.Context) {
	c.JSON(http.StatusOK, compose.ReadServiceEnv(h.cfg.Compose.Path, h.cfg.Compose.ServiceScheduler))
}

// EngineEnv returns the current editable env: compose-declared values
// overlaid with the .env file's.
func (h *EnvHandler) EngineEnv(c *gin.Context) {
	res := compose.ReadServiceEnv(h.cfg.Compose.Path, h.cfg.Compose.ServiceEngine)

	overlay, err := compose.ReadEnvFile(h.cfg.Compose.EnvFile)
	if err != nil {
		h.log.Warn("env file read failed", zap.String("path", h.cfg.Compose.EnvFile), zap.Error(err))
	}
	for k, v := range overlay {
		res.Environment[k] = v
	}
	c.JSON(http.StatusOK, res)
}

// SaveEngineEnv writes edited values into the .env file and raises the
// restart banner. Compose picks the file up on the next recreate.
func (h *EnvHandler) SaveEngineEnv(c *gin.Context) {
	var body struct {
		Environment map[string]string `json:"environment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.Environment) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing environment"})
		return
	}

	res := compose.WriteEnvFile(h.cfg.Compose.EnvFile, body.Environment)
	if res.OK {
		h.state.Raise("engine env updated; restart required for changes to take effect")
		h.log.Info("engine env saved", zap.Int("keys", res.Updated))
	}
	c.JSON(http.StatusOK, res)
}
