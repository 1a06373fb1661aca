package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amonks/focus/reward"
	"github.com/amonks/focus/task"
	"github.com/amonks/focus/tracker"
)

func postJSON(ctx context.Context, client *http.Client, baseURL, path string, payload any, dest any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
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
			return fmt.Errorf("%s", message)
		}
	}
	return fmt.Errorf("focus error: %s", resp.Status)
}

type emptyRequest struct{}

type addRequest struct {
	Text    string `json:"text"`
	Minutes int    `json:"minutes,omitempty"`
}

type idRequest struct {
	ID string `json:"id"`
}

type capacityRequest struct {
	Minutes *int `json:"minutes,omitempty"`
}

type listResponse struct {
	Tasks    []task.Task  `json:"tasks"`
	Capacity task.Load    `json:"capacity"`
	Stats    reward.Stats `json:"stats"`
}

type taskResponse struct {
	Task task.Task `json:"task"`
}

type suggestResponse struct {
	Found bool       `json:"found"`
	Task  *task.Task `json:"task,omitempty"`
}

type capacityResponse struct {
	Minutes  int       `json:"minutes"`
	Capacity task.Load `json:"capacity"`
}

type notificationsResponse struct {
	Notifications []tracker.Notification `json:"notifications"`
}
