package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amonks/focus/reward"
	"github.com/amonks/focus/task"
	"github.com/amonks/focus/tracker"
)

// Client calls focus RPCs.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the given address or URL.
func NewClient(addr string) *Client {
	baseURL := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return &Client{baseURL: baseURL, client: &http.Client{}}
}

// List returns the tasks along with the current capacity and stats.
func (c *Client) List(ctx context.Context) ([]task.Task, task.Load, reward.Stats, error) {
	var response listResponse
	if err := c.post(ctx, "/tasks/list", emptyRequest{}, &response); err != nil {
		return nil, task.Load{}, reward.Stats{}, err
	}
	return response.Tasks, response.Capacity, response.Stats, nil
}

// Add creates a task from free text. Positive minutes override the parsed
// duration.
func (c *Client) Add(ctx context.Context, text string, minutes int) (task.Task, error) {
	return c.taskCall(ctx, "/tasks/add", addRequest{Text: text, Minutes: minutes})
}

// ToggleComplete flips a task's completed flag.
func (c *Client) ToggleComplete(ctx context.Context, id string) (task.Task, error) {
	return c.taskCall(ctx, "/tasks/complete", idRequest{ID: id})
}

// ToggleTimer starts or pauses a task's countdown.
func (c *Client) ToggleTimer(ctx context.Context, id string) (task.Task, error) {
	return c.taskCall(ctx, "/tasks/timer", idRequest{ID: id})
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id string) (task.Task, error) {
	return c.taskCall(ctx, "/tasks/delete", idRequest{ID: id})
}

// Parse previews how text would be turned into a task.
func (c *Client) Parse(ctx context.Context, text string, minutes int) (task.Draft, error) {
	var response parseResponse
	if err := c.post(ctx, "/tasks/parse", parseRequest{Text: text, Minutes: minutes}, &response); err != nil {
		return task.Draft{}, err
	}
	return response.Draft, nil
}

// Stats returns the user's progression.
func (c *Client) Stats(ctx context.Context) (reward.Stats, error) {
	var response statsResponse
	if err := c.post(ctx, "/stats", emptyRequest{}, &response); err != nil {
		return reward.Stats{}, err
	}
	return response.Stats, nil
}

// Suggest asks for a short task to work on next.
func (c *Client) Suggest(ctx context.Context) (task.Task, bool, error) {
	var response suggestResponse
	if err := c.post(ctx, "/suggest", emptyRequest{}, &response); err != nil {
		return task.Task{}, false, err
	}
	if !response.Found || response.Task == nil {
		return task.Task{}, false, nil
	}
	return *response.Task, true, nil
}

// Capacity returns the daily budget and load. A non-nil minutes sets the
// budget first.
func (c *Client) Capacity(ctx context.Context, minutes *int) (int, task.Load, error) {
	var response capacityResponse
	if err := c.post(ctx, "/capacity", capacityRequest{Minutes: minutes}, &response); err != nil {
		return 0, task.Load{}, err
	}
	return response.Minutes, response.Capacity, nil
}

// Notifications drains the notifications buffered since the last call.
func (c *Client) Notifications(ctx context.Context) ([]tracker.Notification, error) {
	var response notificationsResponse
	if err := c.post(ctx, "/notifications", emptyRequest{}, &response); err != nil {
		return nil, err
	}
	return response.Notifications, nil
}

func (c *Client) taskCall(ctx context.Context, path string, payload any) (task.Task, error) {
	var response taskResponse
	if err := c.post(ctx, path, payload, &response); err != nil {
		return task.Task{}, err
	}
	return response.Task, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, dest any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return readErrorResponse(resp)
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

func readErrorResponse(resp *http.Response) error {
	var payload map[string]string
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&payload); err == nil {
		if message, ok := payload["error"]; ok {
			return fmt.Errorf("focus error: %s", message)
		}
	}
	return fmt.Errorf("focus error: %s", resp.Status)
}
