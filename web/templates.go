package web

import (
	"html/template"

	"github.com/amonks/focus/internal/ui"
	"github.com/amonks/focus/task"
)

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"eq":                 func(a, b string) bool { return a == b },
		"formatTime":         formatTime,
		"formatOptionalTime": formatOptionalTime,
		"clock":              ui.FormatClock,
		"minutes":            ui.FormatMinutes,
		"capacitySummary":    ui.CapacitySummary,
		"capacityWidth":      capacityWidth,
		"percent":            func(fraction float64) int { return int(fraction * 100) },
		"stars":              stars,
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

func stars(d task.Difficulty) string {
	out := ""
	for i := task.DifficultyEasy; i <= d && i <= task.DifficultyHard; i++ {
		out += "★"
	}
	return out
}

func capacityWidth(load task.Load) int {
	percent := load.Percent()
	if percent > 100 {
		return 100
	}
	return percent
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  {{if .Running}}<meta http-equiv="refresh" content="5">{{end}}
  <title>Focus</title>
  <style>
    :root {
      color-scheme: light;
    }
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: radial-gradient(circle at top left, #f4efe3 0%, #fcfaf6 55%, #f6f2e8 100%);
    }
    header {
      padding: 16px 24px;
      border-bottom: 1px solid #d7cdbd;
      background: rgba(255, 255, 255, 0.72);
      backdrop-filter: blur(6px);
    }
    header h1 {
      margin: 0 0 8px 0;
      font-size: 20px;
      letter-spacing: 0.02em;
    }
    .tabs {
      display: flex;
      gap: 12px;
    }
    .tab {
      padding: 8px 14px;
      border-radius: 999px;
      text-decoration: none;
      color: #5b5148;
      border: 1px solid transparent;
    }
    .tab.active {
      color: #1d1712;
      border-color: #d1c6b6;
      background: #f5efe4;
      font-weight: 600;
    }
    main {
      display: flex;
      gap: 18px;
      padding: 18px 24px 28px;
    }
    .pane {
      background: #ffffff;
      border: 1px solid #d7cdbd;
      border-radius: 14px;
      box-shadow: 0 8px 24px rgba(60, 45, 30, 0.08);
    }
    .list-pane {
      width: 35%;
      min-width: 240px;
      padding: 16px;
      display: flex;
      flex-direction: column;
      gap: 12px;
    }
    .detail-pane {
      flex: 1;
      padding: 18px 22px 22px;
    }
    .list-actions {
      display: flex;
      justify-content: space-between;
      align-items: center;
      gap: 12px;
    }
    .button-link {
      display: inline-block;
      padding: 6px 12px;
      border-radius: 8px;
      border: 1px solid #cbbfae;
      background: #f7f2e8;
      text-decoration: none;
      color: #2b2520;
      font-size: 14px;
    }
    .item-list {
      list-style: none;
      padding: 0;
      margin: 0;
      display: flex;
      flex-direction: column;
      gap: 8px;
      overflow-y: auto;
    }
    .list-item a {
      display: block;
      padding: 10px 12px;
      border-radius: 10px;
      border: 1px solid transparent;
      text-decoration: none;
      color: inherit;
    }
    .list-item.active a {
      border-color: #c7baa8;
      background: #f6f0e6;
    }
    .item-title {
      font-weight: 600;
      display: block;
    }
    .item-meta {
      color: #72685f;
      font-size: 12px;
    }
    .field {
      display: flex;
      flex-direction: column;
      gap: 6px;
      margin-bottom: 12px;
    }
    input[type="text"],
    select {
      width: 100%;
      padding: 8px 10px;
      border-radius: 8px;
      border: 1px solid #cbbfae;
      font-family: inherit;
      font-size: 14px;
      background: #fffdf9;
      box-sizing: border-box;
    }
    .actions {
      display: flex;
      flex-wrap: wrap;
      gap: 10px;
      margin-top: 16px;
    }
    button {
      padding: 8px 14px;
      border-radius: 8px;
      border: 1px solid #bfb3a2;
      background: #efe6d7;
      font-family: inherit;
      cursor: pointer;
    }
    button.danger {
      background: #f4d7d2;
      border-color: #d7a7a1;
    }
    .readonly {
      display: grid;
      grid-template-columns: 140px 1fr;
      gap: 6px 12px;
      font-size: 14px;
      margin: 16px 0 8px;
    }
    .readonly dt {
      font-weight: 600;
      color: #4f4540;
    }
    .readonly dd {
      margin: 0;
      color: #2b2520;
    }
    .error {
      padding: 10px 12px;
      border-radius: 8px;
      background: #f7d9d6;
      border: 1px solid #d9a7a2;
      margin-bottom: 12px;
      color: #5b1d17;
    }
    .muted {
      color: #72685f;
    }
    .urgent {
      color: #a3271b;
      font-weight: 600;
    }
    .done .item-title {
      text-decoration: line-through;
      color: #72685f;
    }
    .running {
      color: #2f6b3a;
      font-weight: 600;
    }
    .bar {
      height: 8px;
      border-radius: 999px;
      background: #eee5d6;
      overflow: hidden;
      margin: 8px 0 16px;
    }
    .bar span {
      display: block;
      height: 100%;
      background: #8aa37a;
    }
    .bar.over span {
      background: #d08a5c;
    }
    .message {
      padding: 10px 12px;
      border-radius: 8px;
      background: #e9f0e1;
      border: 1px solid #b9ca9f;
      margin-bottom: 12px;
    }
    .notifications {
      list-style: none;
      padding: 0;
      margin: 0;
      font-size: 14px;
    }
    .inline {
      display: flex;
      gap: 8px;
      align-items: center;
    }
    @media (max-width: 900px) {
      main {
        flex-direction: column;
      }
      .list-pane {
        width: auto;
      }
    }
  </style>
</head>
<body>
  <header>
    <h1>Focus</h1>
    <div class="item-meta">
      Level {{.Stats.Level}} · {{.Stats.CurrentXP}}/{{.Stats.NextLevelXP}} XP · {{capacitySummary .Capacity}}
    </div>
    <div class="bar {{if .Capacity.Over}}over{{end}}"><span style="width: {{capacityWidth .Capacity}}%"></span></div>
  </header>
  <main>
    <section class="pane list-pane">
      <div class="list-actions">
        <strong>Tasks</strong>
        <form method="post" action="/web/suggest">
          <button type="submit">Suggest</button>
        </form>
      </div>
      <form method="post" action="/web/tasks/add">
        <div class="field">
          <label for="task-text">New task</label>
          <input id="task-text" type="text" name="text" value="{{.AddText}}" placeholder="Report 45min" required>
        </div>
        <div class="inline">
          <select name="minutes" aria-label="Duration">
            {{range .DurationOptions}}
              <option value="{{.Value}}" {{if .Selected}}selected{{end}}>{{.Label}}</option>
            {{end}}
          </select>
          <button type="submit">Add</button>
        </div>
      </form>
      <ul class="item-list">
        {{range .Tasks}}
          <li class="list-item {{if eq .ID $.SelectedTaskID}}active{{end}} {{if .Completed}}done{{end}}">
            <a href="/web/?id={{.ID}}">
              <span class="item-title">{{.Title}}</span>
              <span class="item-meta">
                <span class="{{if .Urgent}}urgent{{else if .TimerRunning}}running{{end}}">{{clock .TimeLeft}}</span>
                · {{.Category}} · {{stars .Difficulty}} · {{.RewardPoints}} XP
              </span>
            </a>
          </li>
        {{else}}
          <li class="muted">No tasks yet.</li>
        {{end}}
      </ul>
      <form method="post" action="/web/capacity" class="inline">
        <label for="capacity">Daily capacity</label>
        <select id="capacity" name="minutes">
          {{range .CapacityOptions}}
            <option value="{{.Value}}" {{if .Selected}}selected{{end}}>{{.Label}}</option>
          {{end}}
        </select>
        <button type="submit">Set</button>
      </form>
    </section>
    <section class="pane detail-pane">
      {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
      {{if .Message}}<div class="message">{{.Message}}</div>{{end}}
      {{if .SelectedTask}}
        <h2>{{.SelectedTask.Title}}</h2>
        <div class="bar"><span style="width: {{percent .SelectedTask.Progress}}%"></span></div>
        <dl class="readonly">
          <dt>Time left</dt><dd class="{{if .SelectedTask.Urgent}}urgent{{end}}">{{clock .SelectedTask.TimeLeft}} of {{minutes .SelectedTask.InitialTime}}</dd>
          <dt>Status</dt><dd>{{if .SelectedTask.Completed}}done{{else if .SelectedTask.TimerRunning}}running{{else}}open{{end}}</dd>
          <dt>Category</dt><dd>{{.SelectedTask.Category}}</dd>
          <dt>Difficulty</dt><dd>{{.SelectedTask.Difficulty.Name}} {{stars .SelectedTask.Difficulty}}</dd>
          <dt>Reward</dt><dd>{{.SelectedTask.RewardPoints}} XP{{if .SelectedTask.Rewarded}} (granted){{end}}</dd>
          <dt>ID</dt><dd>{{.SelectedTask.ID}}</dd>
          <dt>Created</dt><dd>{{formatTime .SelectedTask.CreatedAt}}</dd>
          <dt>Completed</dt><dd>{{formatOptionalTime .SelectedTask.CompletedAt}}</dd>
        </dl>
        <div class="actions">
          {{if not .SelectedTask.Completed}}
            <form method="post" action="/web/tasks/timer?id={{.SelectedTask.ID}}">
              <button type="submit">{{if .SelectedTask.TimerRunning}}Pause{{else}}Start{{end}} timer</button>
            </form>
          {{end}}
          <form method="post" action="/web/tasks/complete?id={{.SelectedTask.ID}}">
            <button type="submit">{{if .SelectedTask.Completed}}Reopen{{else}}Complete{{end}}</button>
          </form>
          <form method="post" action="/web/tasks/delete?id={{.SelectedTask.ID}}">
            <button class="danger" type="submit">Delete</button>
          </form>
        </div>
      {{else}}
        <p class="muted">No task selected.</p>
      {{end}}
      <h3>Notifications</h3>
      <ul class="notifications">
        {{range .Notifications}}
          <li>{{.String}}</li>
        {{else}}
          <li class="muted">Nothing yet.</li>
        {{end}}
      </ul>
    </section>
  </main>
</body>
</html>
`
