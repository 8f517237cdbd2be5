package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chourmovs/azursmartmix-control/internal/config"
	"github.com/chourmovs/azursmartmix-control/internal/containers"
	"github.com/chourmovs/azursmartmix-control/internal/icecast"
)

type fakeStatus struct {
	ping bool
	info map[string]*containers.Info
	err  error
}

func (f *fakeStatus) Ping(ctx context.Context) bool { return f.ping }

func (f *fakeStatus) Inspect(ctx context.Context, name string) (*containers.Info, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.info[name], nil
}

type fakeLogs struct {
	byName map[string]string
	err    error
}

func (f *fakeLogs) TailLogs(ctx context.Context, name string, tail int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.byName[name], nil
}

type fakeIce struct {
	np icecast.NowPlaying
}

func (f *fakeIce) NowPlaying(ctx context.Context) icecast.NowPlaying { return f.np }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Containers.Engine = "azursmartmix_engine"
	cfg.Containers.Scheduler = "azursmartmix_scheduler"
	cfg.Logs.TailDefault = 400
	cfg.Logs.TailMax = 2000
	cfg.Reconcile.UpcomingLimit = 10
	cfg.Reconcile.RecentWindowSeconds = 10
	return cfg
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body []byte) map[string]any {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: status %d, body %s", method, path, w.Code, w.Body.String())
	}
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json: %v (%s)", err, w.Body.String())
	}
	return out
}

func TestPanelNowPromotesStaleIcecastTitle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	schedLog := `2024-05-01 20:00:00,000 NEXT | title="old_song" | playlist="evening"
2024-05-01 20:03:00,000 NEXT | title="new_song" | playlist="evening"
2024-05-01 20:06:00,000 NEXT | title="third_song" | playlist="night"`

	h := NewPanelHandler(testConfig(), zap.NewNop(),
		&fakeStatus{ping: true},
		&fakeLogs{byName: map[string]string{"azursmartmix_scheduler": schedLog}},
		&fakeIce{np: icecast.NowPlaying{OK: true, Mount: "/gst-test.mp3", Title: "Old Song"}},
		NewState())

	router := gin.New()
	router.GET("/panel/now", h.Now)

	out := performJSON(t, router, http.MethodGet, "/panel/now", nil)
	if out["now_mode"] != "promoted_from_upcoming" {
		t.Errorf("now_mode = %v", out["now_mode"])
	}
	if out["title_effective"] != "new_song" {
		t.Errorf("title_effective = %v", out["title_effective"])
	}
	if out["title_observed"] != "Old Song" {
		t.Errorf("title_observed = %v", out["title_observed"])
	}
	if out["icecast_ok"] != true {
		t.Errorf("icecast_ok = %v", out["icecast_ok"])
	}
}

func TestPanelNowDegradesOnLogFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewPanelHandler(testConfig(), zap.NewNop(),
		&fakeStatus{},
		&fakeLogs{err: errors.New("docker unreachable")},
		&fakeIce{np: icecast.NowPlaying{OK: true, Title: "Some Song"}},
		NewState())

	router := gin.New()
	router.GET("/panel/now", h.Now)

	out := performJSON(t, router, http.MethodGet, "/panel/now", nil)
	if out["ok"] != false {
		t.Errorf("ok = %v, want degraded snapshot", out["ok"])
	}
	if out["title_effective"] != "Some Song" {
		t.Errorf("icecast metadata must survive a log failure, got %v", out["title_effective"])
	}
}

func TestPanelRuntimeMissingRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewPanelHandler(testConfig(), zap.NewNop(),
		&fakeStatus{ping: true, info: map[string]*containers.Info{
			"azursmartmix_scheduler": {Name: "azursmartmix_scheduler", Status: "running"},
		}},
		&fakeLogs{}, &fakeIce{}, NewState())

	router := gin.New()
	router.GET("/panel/runtime", h.Runtime)

	out := performJSON(t, router, http.MethodGet, "/panel/runtime", nil)
	engine, _ := out["engine"].(map[string]any)
	sched, _ := out["scheduler"].(map[string]any)
	if engine == nil || engine["present"] != false || engine["status"] != "missing" {
		t.Errorf("engine = %v", engine)
	}
	if sched == nil || sched["present"] != true {
		t.Errorf("scheduler = %v", sched)
	}
	if out["docker_ping"] != true {
		t.Errorf("docker_ping = %v", out["docker_ping"])
	}
}

func TestPanelUnifiedFallsBackToEngineLogs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engLog := "preprocess: 1. First_Track.mp3\npreprocess: 2. Current_Track.mp3"
	h := NewPanelHandler(testConfig(), zap.NewNop(),
		&fakeStatus{},
		&fakeLogs{byName: map[string]string{"azursmartmix_engine": engLog}},
		&fakeIce{np: icecast.NowPlaying{Error: "connection refused"}},
		NewState())

	router := gin.New()
	router.GET("/now_playing", h.NowPlayingUnified)

	out := performJSON(t, router, http.MethodGet, "/now_playing", nil)
	if out["preferred"] != "engine_logs" {
		t.Errorf("preferred = %v", out["preferred"])
	}
	if out["title"] != "Current Track" {
		t.Errorf("title = %v, want the most recent preprocess title", out["title"])
	}
}

func TestNeedRestartLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	state := NewState()
	h := NewPanelHandler(testConfig(), zap.NewNop(), &fakeStatus{}, &fakeLogs{}, &fakeIce{}, state)

	router := gin.New()
	router.GET("/panel/need_restart", h.NeedRestart)
	router.POST("/panel/need_restart/clear", h.ClearNeedRestart)

	out := performJSON(t, router, http.MethodGet, "/panel/need_restart", nil)
	if out["need_restart"] != false {
		t.Fatalf("fresh state: %v", out)
	}

	state.Raise("engine env updated")
	out = performJSON(t, router, http.MethodGet, "/panel/need_restart", nil)
	if out["need_restart"] != true || out["reason"] != "engine env updated" {
		t.Fatalf("raised state: %v", out)
	}

	performJSON(t, router, http.MethodPost, "/panel/need_restart/clear", nil)
	out = performJSON(t, router, http.MethodGet, "/panel/need_restart", nil)
	if out["need_restart"] != false {
		t.Fatalf("cleared state: %v", out)
	}
}
