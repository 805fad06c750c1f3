package asana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/leadveramedia/Jarvis/internal/logging"
)

const defaultHTTPTimeout = 30 * time.Second

// Client creates tasks in one fixed Asana project.
type Client struct {
	accessToken string
	projectGID  string
	apiBase     string
	client      *http.Client
	logger      *slog.Logger
}

// ClientConfig configures an Asana client.
type ClientConfig struct {
	AccessToken string
	ProjectGID  string
	APIBase     string
}

// NewClient creates an Asana client. A missing token or project GID is
// a configuration error reported immediately, before any network call.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("asana: access token is required")
	}
	if cfg.ProjectGID == "" {
		return nil, fmt.Errorf("asana: project GID is required")
	}
	if cfg.APIBase == "" {
		cfg.APIBase = "https://app.asana.com/api/1.0"
	}
	return &Client{
		accessToken: cfg.AccessToken,
		projectGID:  cfg.ProjectGID,
		apiBase:     cfg.APIBase,
		client:      &http.Client{Timeout: defaultHTTPTimeout},
		logger:      logging.WithService(slog.Default(), "asana"),
	}, nil
}

// CreateTask creates a task in the configured project. Only the fields
// needed for logging are requested back. Failures never propagate as
// errors; they come back as a TaskResult with OK=false so the caller
// can log and move on to the next email.
func (c *Client) CreateTask(ctx context.Context, req TaskRequest) TaskResult {
	body, err := json.Marshal(createTaskBody{
		Data: taskData{
			Name:      req.Name,
			Notes:     req.Notes,
			Projects:  []string{c.projectGID},
			Assignee:  req.AssigneeGID,
			Followers: req.FollowerGIDs,
		},
	})
	if err != nil {
		return c.failure("failed to encode task", err)
	}

	url := c.apiBase + "/tasks?opt_fields=gid,name,permalink_url"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return c.failure("failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return c.failure("request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.failure("failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.failure(fmt.Sprintf("API returned %d: %s", resp.StatusCode, apiErrorMessage(respBody)), nil)
	}

	var created createTaskResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return c.failure("failed to decode response", err)
	}

	return TaskResult{
		OK:        true,
		GID:       created.Data.GID,
		Name:      created.Data.Name,
		Permalink: created.Data.PermalinkURL,
	}
}

// failure logs and packages an error as a TaskResult.
func (c *Client) failure(msg string, err error) TaskResult {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	c.logger.Error("task creation failed",
		logging.Operation("create_task"), logging.Status(logging.StatusError),
		slog.String("detail", msg))
	return TaskResult{Err: msg}
}

// apiErrorMessage pulls the first message out of Asana's error envelope,
// falling back to the raw body.
func apiErrorMessage(body []byte) string {
	var decoded errorResponse
	if err := json.Unmarshal(body, &decoded); err == nil && len(decoded.Errors) > 0 {
		return decoded.Errors[0].Message
	}
	const max = 256
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}
