package server

import (
	"github.com/amonks/focus/reward"
	"github.com/amonks/focus/task"
	"github.com/amonks/focus/tracker"
)

type emptyRequest struct{}

type addRequest struct {
	Text string `json:"text"`

	// Minutes overrides the parsed duration when positive.
	Minutes int `json:"minutes,omitempty"`
}

type idRequest struct {
	ID string `json:"id"`
}

type parseRequest struct {
	Text    string `json:"text"`
	Minutes int    `json:"minutes,omitempty"`
}

type capacityRequest struct {
	// Minutes sets the budget when present.
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

type parseResponse struct {
	Draft task.Draft `json:"draft"`
}

type statsResponse struct {
	Stats reward.Stats `json:"stats"`
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
