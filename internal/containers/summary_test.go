package containers

import (
	"testing"
	"time"
)

func TestSummarizeRoleMissing(t *testing.T) {
	s := SummarizeRole(time.Now(), "azursmartmix_engine", nil)
	if s.Present {
		t.Fatal("missing container must report present=false")
	}
	if s.Name != "azursmartmix_engine" || s.Status != "missing" {
		t.Errorf("name=%q status=%q", s.Name, s.Status)
	}
	if s.AgeSeconds != nil || s.UptimeSeconds != nil {
		t.Error("missing container must carry no derived fields")
	}
}

func TestSummarizeRoleAgeAndUptime(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	info := &Info{
		Name:      "azursmartmix_engine",
		Status:    "running",
		Health:    "healthy",
		CreatedAt: "2024-05-01T10:00:00.000000000Z",
		StartedAt: "2024-05-01T11:59:00.000000000Z",
	}
	s := SummarizeRole(now, "azursmartmix_engine", info)
	if !s.Present {
		t.Fatal("expected present")
	}
	if s.AgeSeconds == nil || *s.AgeSeconds != 7200 {
		t.Errorf("age_seconds = %v, want 7200", s.AgeSeconds)
	}
	if s.UptimeSeconds == nil || *s.UptimeSeconds != 60 {
		t.Errorf("uptime_seconds = %v, want 60", s.UptimeSeconds)
	}
	if s.Age == "" || s.Uptime == "" {
		t.Error("humanized fields must be set when timestamps parse")
	}
}

func TestSummarizeRoleUnparsableTimestamps(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name      string
		createdAt string
		startedAt string
	}{
		{"Garbage", "not-a-time", "also-not"},
		{"Empty", "", ""},
		{"Never Started", "2024-05-01T10:00:00Z", "0001-01-01T00:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SummarizeRole(now, "x", &Info{Name: "x", Status: "created", CreatedAt: tt.createdAt, StartedAt: tt.startedAt})
			if s.UptimeSeconds != nil {
				t.Errorf("uptime_seconds = %v, want nil", s.UptimeSeconds)
			}
			if tt.createdAt == "2024-05-01T10:00:00Z" {
				if s.AgeSeconds == nil {
					t.Error("valid created_at must still yield age")
				}
			} else if s.AgeSeconds != nil {
				t.Errorf("age_seconds = %v, want nil", s.AgeSeconds)
			}
		})
	}
}

func TestSummarizeIndependentRoles(t *testing.T) {
	now := time.Now()
	sum := Summarize(now, false, "eng", nil, "sched", &Info{Name: "sched", Status: "running"})
	if sum.Engine.Present {
		t.Error("engine should be missing")
	}
	if !sum.Scheduler.Present {
		t.Error("scheduler lookup must not be hidden by the missing engine")
	}
	if sum.DockerPing {
		t.Error("ping flag must pass through")
	}
}
