package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chourmovs/azursmartmix-control/internal/config"
	"github.com/chourmovs/azursmartmix-control/internal/containers"
	"github.com/chourmovs/azursmartmix-control/internal/icecast"
	"github.com/chourmovs/azursmartmix-control/internal/metrics"
	"github.com/chourmovs/azursmartmix-control/internal/nowplaying"
)

// Collaborator interfaces. Handlers receive these instead of concrete
// clients so the reconciliation path stays testable with fakes.
type StatusSource interface {
	Ping(ctx context.Context) bool
	Inspect(ctx context.Context, name string) (*containers.Info, error)
}

type LogSource interface {
	TailLogs(ctx context.Context, name string, tail int) (string, error)
}

type MetadataSource interface {
	NowPlaying(ctx context.Context) icecast.NowPlaying
}

// PanelHandler serves the reconciled dashboard views: runtime status,
// now-playing, upcoming queue and the restart banner.
type PanelHandler struct {
	cfg    *config.Config
	log    *zap.Logger
	status StatusSource
	logs   LogSource
	ice    MetadataSource
	state  *State
}

func NewPanelHandler(cfg *config.Config, logger *zap.Logger, status StatusSource, logs LogSource, ice MetadataSource, state *State) *PanelHandler {
	return &PanelHandler{cfg: cfg, log: logger, status: status, logs: logs, ice: ice, state: state}
}

// Runtime returns the combined container summary for both roles.
func (h *PanelHandler) Runtime(c *gin.Context) {
	ctx := c.Request.Context()
	ping := h.status.Ping(ctx)

	engine := h.inspectQuiet(ctx, h.cfg.Containers.Engine)
	sched := h.inspectQuiet(ctx, h.cfg.Containers.Scheduler)

	c.JSON(http.StatusOK, containers.Summarize(
		time.Now(), ping,
		h.cfg.Containers.Engine, engine,
		h.cfg.Containers.Scheduler, sched,
	))
}

// inspectQuiet degrades a failed inspect to "missing": one broken role must
// not prevent reporting the other.
func (h *PanelHandler) inspectQuiet(ctx context.Context, name string) *containers.Info {
	info, err := h.status.Inspect(ctx, name)
	if err != nil {
		metrics.ObserveUpstreamError("docker")
		h.log.Warn("container inspect failed", zap.String("container", name), zap.Error(err))
		return nil
	}
	return info
}

// IcecastNow returns raw Icecast metadata for the configured mount.
func (h *PanelHandler) IcecastNow(c *gin.Context) {
	np := h.ice.NowPlaying(c.Request.Context())
	if !np.OK {
		metrics.ObserveUpstreamError("icecast")
	}
	c.JSON(http.StatusOK, np)
}

type nowResponse struct {
	nowplaying.Snapshot
	Mount        string `json:"mount"`
	Listeners    *int   `json:"listeners,omitempty"`
	Bitrate      *int   `json:"bitrate,omitempty"`
	IcecastOK    bool   `json:"icecast_ok"`
	IcecastError string `json:"icecast_error,omitempty"`
}

// Now runs the full reconciliation: Icecast metadata cross-referenced with
// the scheduler and engine log tails.
func (h *PanelHandler) Now(c *gin.Context) {
	ctx := c.Request.Context()

	np := h.ice.NowPlaying(ctx)
	if !np.OK {
		metrics.ObserveUpstreamError("icecast")
	}

	schedLog, schedErr := h.logs.TailLogs(ctx, h.cfg.Containers.Scheduler, h.cfg.Logs.TailDefault)
	if schedErr != nil {
		metrics.ObserveUpstreamError("scheduler_logs")
	}
	engLog, engErr := h.logs.TailLogs(ctx, h.cfg.Containers.Engine, h.cfg.Logs.TailDefault)
	if engErr != nil {
		metrics.ObserveUpstreamError("engine_logs")
	}

	snap := nowplaying.Reconcile(nowplaying.Inputs{
		ObservedTitle:   np.Title,
		SchedulerLog:    schedLog,
		SchedulerLogErr: schedErr,
		EngineLog:       engLog,
		EngineLogErr:    engErr,
		Now:             time.Now(),
	}, nowplaying.Options{
		UpcomingLimit: h.cfg.Reconcile.UpcomingLimit,
		RecentWindow:  time.Duration(h.cfg.Reconcile.RecentWindowSeconds) * time.Second,
	})
	metrics.ObserveReconcile(snap.NowMode)

	c.JSON(http.StatusOK, nowResponse{
		Snapshot:     snap,
		Mount:        np.Mount,
		Listeners:    np.Listeners,
		Bitrate:      np.Bitrate,
		IcecastOK:    np.OK,
		IcecastError: np.Error,
	})
}

// Upcoming returns the resolved queue after the currently observed track.
func (h *PanelHandler) Upcoming(c *gin.Context) {
	ctx := c.Request.Context()

	limit := h.cfg.Reconcile.UpcomingLimit
	if raw := c.Query("n"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	np := h.ice.NowPlaying(ctx)
	schedLog, schedErr := h.logs.TailLogs(ctx, h.cfg.Containers.Scheduler, h.cfg.Logs.TailDefault)
	if schedErr != nil {
		metrics.ObserveUpstreamError("scheduler_logs")
		c.JSON(http.StatusOK, nowplaying.UpcomingResult{Error: schedErr.Error(), Upcoming: []nowplaying.NextEntry{}})
		return
	}

	parsed := nowplaying.ExtractSchedulerNext(schedLog, nil)
	c.JSON(http.StatusOK, nowplaying.ResolveUpcoming(np.Title, parsed.Entries, limit))
}

// NowPlayingUnified prefers Icecast and falls back to the engine's
// preprocessing-queue titles when Icecast is down.
func (h *PanelHandler) NowPlayingUnified(c *gin.Context) {
	ctx := c.Request.Context()

	np := h.ice.NowPlaying(ctx)
	if np.OK {
		c.JSON(http.StatusOK, gin.H{"ok": true, "preferred": "icecast", "icecast": np})
		return
	}
	metrics.ObserveUpstreamError("icecast")

	engLog, engErr := h.logs.TailLogs(ctx, h.cfg.Containers.Engine, h.cfg.Logs.TailDefault)
	titles := nowplaying.ExtractPreprocessTitles(engLog, engErr)

	var title string
	if len(titles.Titles) > 0 {
		title = titles.Titles[len(titles.Titles)-1]
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":          titles.OK && title != "",
		"preferred":   "engine_logs",
		"icecast":     np,
		"engine_logs": titles,
		"title":       title,
	})
}

// NeedRestart reports whether config drift requires a stack restart.
func (h *PanelHandler) NeedRestart(c *gin.Context) {
	need, reason := h.state.NeedRestart()
	c.JSON(http.StatusOK, gin.H{"need_restart": need, "reason": reason})
}

func (h *PanelHandler) ClearNeedRestart(c *gin.Context) {
	h.state.Clear()
	c.JSON(http.StatusOK, gin.H{"need_restart": false})
}
