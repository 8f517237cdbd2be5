package icecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// NowPlaying is a snapshot of currently-playing metadata for one mount.
// Failures are encoded in OK/Error, never raised: the dashboard renders a
// placeholder instead of an error page.
type NowPlaying struct {
	OK           bool     `json:"ok"`
	Error        string   `json:"error,omitempty"`
	Mount        string   `json:"mount"`
	Title        string   `json:"title,omitempty"`
	Artist       string   `json:"artist,omitempty"`
	Listeners    *int     `json:"listeners,omitempty"`
	ListenerPeak *int     `json:"listener_peak,omitempty"`
	Bitrate      *int     `json:"bitrate,omitempty"`
	ServerName   string   `json:"server_name,omitempty"`
	Genre        string   `json:"genre,omitempty"`
	Available    []string `json:"available,omitempty"`
}

// Client polls Icecast's status endpoint (usually /status-json.xsl, which
// serves JSON despite the extension) for one mount's metadata.
type Client struct {
	base       string
	statusPath string
	mount      string
	http       *http.Client
	log        *zap.Logger
}

func New(scheme, host string, port int, statusPath, mount string, logger *zap.Logger) *Client {
	if scheme == "" {
		scheme = "http"
	}
	if statusPath == "" {
		statusPath = "/status-json.xsl"
	}
	if !strings.HasPrefix(mount, "/") {
		mount = "/" + mount
	}
	return &Client{
		base:       fmt.Sprintf("%s://%s:%d", scheme, host, port),
		statusPath: statusPath,
		mount:      mount,
		http:       &http.Client{Timeout: 2500 * time.Millisecond},
		log:        logger,
	}
}

type source struct {
	Mount        string `json:"mount"`
	ListenURL    string `json:"listenurl"`
	Title        string `json:"title"`
	YPPlaying    string `json:"yp_currently_playing"`
	Artist       string `json:"artist"`
	Listeners    *int   `json:"listeners"`
	ListenerPeak *int   `json:"listener_peak"`
	Bitrate      *int   `json:"bitrate"`
	ServerName   string `json:"server_name"`
	Genre        string `json:"genre"`
}

// sourceList tolerates Icecast serving "source" as either a single object
// (one mount) or an array (several mounts).
type sourceList []source

func (s *sourceList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var arr []source
		if err := json.Unmarshal(b, &arr); err != nil {
			return err
		}
		*s = arr
		return nil
	}
	var one source
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*s = sourceList{one}
	return nil
}

type statusPayload struct {
	Icestats struct {
		Source sourceList `json:"source"`
	} `json:"icestats"`
}

// NowPlaying fetches the status document and extracts the configured mount.
// Mount matching prefers the explicit "mount" field and falls back to a
// listenurl suffix match, since Icecast versions differ on which they set.
func (c *Client) NowPlaying(ctx context.Context) NowPlaying {
	url := c.base + c.statusPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NowPlaying{Error: err.Error(), Mount: c.mount}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("icecast status fetch failed", zap.String("url", url), zap.Error(err))
		return NowPlaying{Error: err.Error(), Mount: c.mount}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NowPlaying{Error: fmt.Sprintf("status %d", resp.StatusCode), Mount: c.mount}
	}

	var payload statusPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return NowPlaying{Error: err.Error(), Mount: c.mount}
	}

	var match *source
	available := make([]string, 0, len(payload.Icestats.Source))
	for i := range payload.Icestats.Source {
		s := &payload.Icestats.Source[i]
		label := s.Mount
		if label == "" {
			label = s.ListenURL
		}
		if label == "" {
			label = "unknown"
		}
		available = append(available, label)

		if s.Mount != "" {
			if s.Mount == c.mount {
				match = s
				break
			}
		} else if strings.HasSuffix(s.ListenURL, c.mount) {
			match = s
			break
		}
	}

	if match == nil {
		return NowPlaying{
			Error:     "mount not found in status",
			Mount:     c.mount,
			Available: available,
		}
	}

	title := match.Title
	if title == "" {
		title = match.YPPlaying
	}
	return NowPlaying{
		OK:           true,
		Mount:        c.mount,
		Title:        title,
		Artist:       match.Artist,
		Listeners:    match.Listeners,
		ListenerPeak: match.ListenerPeak,
		Bitrate:      match.Bitrate,
		ServerName:   match.ServerName,
		Genre:        match.Genre,
	}
}
