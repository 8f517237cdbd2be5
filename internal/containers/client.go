package containers

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"go.uber.org/zap"
)

// ErrorPrefix marks error-sentinel text returned in place of log output on
// the plain-text log endpoint. Consumers treat any tail starting with it as
// a failed fetch.
const ErrorPrefix = "[control] "

// Info is a read-only snapshot of one container's lifecycle facts.
type Info struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	Image     string `json:"image"`
	Status    string `json:"status"`
	Health    string `json:"health,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	StartedAt string `json:"started_at,omitempty"`
}

// Client wraps the Docker SDK for read-only introspection: status, health
// and bounded log tails. It never mutates containers.
type Client struct {
	api *client.Client
	log *zap.Logger
}

// New connects via DOCKER_HOST or the default socket.
func New(logger *zap.Logger) (*Client, error) {
	api, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	return &Client{api: api, log: logger}, nil
}

// Ping reports daemon reachability.
func (c *Client) Ping(ctx context.Context) bool {
	_, err := c.api.Ping(ctx)
	if err != nil {
		c.log.Debug("docker ping failed", zap.Error(err))
	}
	return err == nil
}

// Inspect returns lifecycle facts for a container, or (nil, nil) when the
// container does not exist.
func (c *Client) Inspect(ctx context.Context, name string) (*Info, error) {
	inspect, err := c.api.ContainerInspect(ctx, name)
	if err != nil {
		if client.IsErrNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	info := &Info{
		Name:      name,
		CreatedAt: inspect.Created,
	}
	if len(inspect.ID) >= 12 {
		info.ID = inspect.ID[:12]
	} else {
		info.ID = inspect.ID
	}
	if inspect.Config != nil {
		info.Image = inspect.Config.Image
	}
	if inspect.State != nil {
		info.Status = inspect.State.Status
		info.StartedAt = inspect.State.StartedAt
		if inspect.State.Health != nil {
			info.Health = inspect.State.Health.Status
		}
	}
	if info.Status == "" {
		info.Status = "unknown"
	}
	return info, nil
}

// TailLogs returns the last tail lines of combined stdout/stderr, each line
// prefixed with the daemon's timestamp, oldest first.
func (c *Client) TailLogs(ctx context.Context, name string, tail int) (string, error) {
	rc, err := c.api.ContainerLogs(ctx, name, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Timestamps: true,
		Tail:       strconv.Itoa(tail),
	})
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	// Non-TTY containers multiplex stdout/stderr; TTY ones stream raw text.
	var buf bytes.Buffer
	if _, err := stdcopy.StdCopy(&buf, &buf, bytes.NewReader(raw)); err != nil {
		return string(raw), nil
	}
	return buf.String(), nil
}
