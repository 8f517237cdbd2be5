package containers

import (
	"time"

	"github.com/dustin/go-humanize"
)

// RoleSummary is what the dashboard shows for one stack role (engine or
// scheduler). A missing container is reported, not hidden.
type RoleSummary struct {
	Present       bool   `json:"present"`
	Name          string `json:"name"`
	ID            string `json:"id,omitempty"`
	Image         string `json:"image,omitempty"`
	Status        string `json:"status"`
	Health        string `json:"health,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	StartedAt     string `json:"started_at,omitempty"`
	AgeSeconds    *int64 `json:"age_seconds,omitempty"`
	UptimeSeconds *int64 `json:"uptime_seconds,omitempty"`
	Age           string `json:"age,omitempty"`
	Uptime        string `json:"uptime,omitempty"`
}

// RuntimeSummary combines both roles plus daemon reachability.
type RuntimeSummary struct {
	NowUTC     string      `json:"now_utc"`
	DockerPing bool        `json:"docker_ping"`
	Engine     RoleSummary `json:"engine"`
	Scheduler  RoleSummary `json:"scheduler"`
}

// SummarizeRole converts raw container facts into the per-role summary.
// Unparsable timestamps leave the derived fields nil rather than failing
// the whole summary.
func SummarizeRole(now time.Time, name string, info *Info) RoleSummary {
	if info == nil {
		return RoleSummary{Name: name, Status: "missing"}
	}
	s := RoleSummary{
		Present:   true,
		Name:      info.Name,
		ID:        info.ID,
		Image:     info.Image,
		Status:    info.Status,
		Health:    info.Health,
		CreatedAt: info.CreatedAt,
		StartedAt: info.StartedAt,
	}
	if t, ok := parseDockerTime(info.CreatedAt); ok {
		age := int64(now.Sub(t) / time.Second)
		s.AgeSeconds = &age
		s.Age = humanize.RelTime(t, now, "ago", "from now")
	}
	if t, ok := parseDockerTime(info.StartedAt); ok {
		up := int64(now.Sub(t) / time.Second)
		s.UptimeSeconds = &up
		s.Uptime = humanize.RelTime(t, now, "ago", "from now")
	}
	return s
}

// Summarize builds the combined runtime view. One role failing to resolve
// never hides the other.
func Summarize(now time.Time, ping bool, engineName string, engine *Info, schedName string, sched *Info) RuntimeSummary {
	return RuntimeSummary{
		NowUTC:     now.UTC().Format(time.RFC3339),
		DockerPing: ping,
		Engine:     SummarizeRole(now, engineName, engine),
		Scheduler:  SummarizeRole(now, schedName, sched),
	}
}

func parseDockerTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}
