package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadveramedia/Jarvis/internal/config"
)

var testTeam = config.TeamConfig{
	Members: []config.Member{
		{Name: "Anna", GID: "1001", Focus: "Google Ads, social media"},
		{Name: "Max", GID: "1002", Focus: "Client projects"},
		{Name: "Roger", GID: "1003", Focus: "Operations, technical issues"},
	},
	DefaultAssignee: "Roger",
}

// fakeModel returns a canned response or error.
type fakeModel struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeModel) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestEvaluateActionable(t *testing.T) {
	model := &fakeModel{
		response: `{"is_actionable": true, "task_name": "Fix login bug", "task_notes": "Users cannot log in", "assignee": "Anna"}`,
	}
	e := NewEvaluator(model, testTeam)

	eval := e.Evaluate(context.Background(), "Login broken", "it fails", "user@example.com")

	assert.True(t, eval.IsActionable)
	assert.Equal(t, "Fix login bug", eval.TaskName)
	assert.Equal(t, "Users cannot log in", eval.TaskNotes)
	assert.Equal(t, "Anna", eval.Assignee)
	assert.Equal(t, "1001", eval.AssigneeGID)
}

func TestEvaluateStripsCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{
			name:     "json fence",
			response: "```json\n{\"is_actionable\": true, \"task_name\": \"T\", \"task_notes\": \"N\", \"assignee\": \"Max\"}\n```",
		},
		{
			name:     "bare fence",
			response: "```\n{\"is_actionable\": true, \"task_name\": \"T\", \"task_notes\": \"N\", \"assignee\": \"Max\"}\n```",
		},
		{
			name:     "surrounding whitespace",
			response: "  \n{\"is_actionable\": true, \"task_name\": \"T\", \"task_notes\": \"N\", \"assignee\": \"Max\"}\n  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(&fakeModel{response: tt.response}, testTeam)
			eval := e.Evaluate(context.Background(), "s", "b", "x@y.com")

			assert.True(t, eval.IsActionable)
			assert.Equal(t, "Max", eval.Assignee)
			assert.Equal(t, "1002", eval.AssigneeGID)
		})
	}
}

func TestEvaluateUnknownAssigneeClampedToDefault(t *testing.T) {
	model := &fakeModel{
		response: `{"is_actionable": true, "task_name": "T", "task_notes": "N", "assignee": "Beyoncé"}`,
	}
	e := NewEvaluator(model, testTeam)

	eval := e.Evaluate(context.Background(), "s", "b", "x@y.com")

	assert.True(t, eval.IsActionable)
	assert.Equal(t, "Roger", eval.Assignee)
	assert.Equal(t, "1003", eval.AssigneeGID)
}

func TestEvaluateMalformedResponseReturnsDefault(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "Sorry, I can't help with that."},
		{"truncated json", `{"is_actionable": true, "task_na`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(&fakeModel{response: tt.response}, testTeam)
			eval := e.Evaluate(context.Background(), "s", "b", "x@y.com")

			assert.False(t, eval.IsActionable)
			assert.Empty(t, eval.TaskName)
			assert.Empty(t, eval.TaskNotes)
			assert.Equal(t, "Roger", eval.Assignee)
			assert.Equal(t, "1003", eval.AssigneeGID)
		})
	}
}

func TestEvaluateTransportFaultReturnsDefault(t *testing.T) {
	e := NewEvaluator(&fakeModel{err: errors.New("connection reset")}, testTeam)

	eval := e.Evaluate(context.Background(), "s", "b", "x@y.com")

	assert.False(t, eval.IsActionable)
	assert.Equal(t, "Roger", eval.Assignee)
	assert.Equal(t, "1003", eval.AssigneeGID)
}

func TestBuildPromptEmbedsEmailAndRoster(t *testing.T) {
	model := &fakeModel{response: `{"is_actionable": false, "task_name": "", "task_notes": "", "assignee": "Roger"}`}
	e := NewEvaluator(model, testTeam)

	e.Evaluate(context.Background(), "Quarterly numbers", "see attached", "cfo@corp.com")

	if assert.Len(t, model.prompts, 1) {
		prompt := model.prompts[0]
		assert.Contains(t, prompt, "Subject: Quarterly numbers")
		assert.Contains(t, prompt, "From: cfo@corp.com")
		assert.Contains(t, prompt, "Body: see attached")
		assert.Contains(t, prompt, "- Anna: Google Ads, social media")
		assert.Contains(t, prompt, "- Roger: Operations, technical issues (DEFAULT if unclear)")
		assert.Contains(t, prompt, `"Anna" or "Max" or "Roger"`)
		assert.True(t, strings.Contains(prompt, "Respond ONLY with a valid JSON object"))
	}
}
