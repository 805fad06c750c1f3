package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leadveramedia/Jarvis/internal/config"
	"github.com/leadveramedia/Jarvis/internal/logging"
)

// CompletionModel is the single-turn completion call the evaluator
// depends on. *Client implements it; tests substitute a fake.
type CompletionModel interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Evaluator turns one email into an Evaluation using a completion model
// and the static team roster.
type Evaluator struct {
	model  CompletionModel
	team   config.TeamConfig
	logger *slog.Logger
}

// NewEvaluator creates an Evaluator for the given model and roster.
func NewEvaluator(model CompletionModel, team config.TeamConfig) *Evaluator {
	return &Evaluator{
		model:  model,
		team:   team,
		logger: logging.WithService(slog.Default(), "gemini"),
	}
}

// Evaluate asks the model whether the email warrants a task. It never
// returns an error: transport faults, malformed responses and unknown
// assignees all collapse into the safe default Evaluation so the caller
// always receives something well-formed.
func (e *Evaluator) Evaluate(ctx context.Context, subject, body, sender string) Evaluation {
	prompt := e.buildPrompt(subject, body, sender)

	text, err := e.model.GenerateContent(ctx, prompt)
	if err != nil {
		e.logger.Warn("evaluation failed, using default",
			logging.Operation("evaluate"), logging.Err(err))
		return e.defaultEvaluation()
	}

	eval, err := e.parseEvaluation(text)
	if err != nil {
		e.logger.Warn("could not parse model response, using default",
			logging.Operation("evaluate"), logging.Err(err))
		return e.defaultEvaluation()
	}

	return eval
}

// defaultEvaluation is the safe fallback: not actionable, assigned to
// the default roster member.
func (e *Evaluator) defaultEvaluation() Evaluation {
	def := e.team.Default()
	return Evaluation{
		IsActionable: false,
		Assignee:     def.Name,
		AssigneeGID:  def.GID,
	}
}

// parseEvaluation decodes the model's response. The prompt demands bare
// JSON but models wrap it in code fences anyway, so the fences are
// stripped before decoding. The assignee is clamped to the roster.
func (e *Evaluator) parseEvaluation(text string) (Evaluation, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var eval Evaluation
	if err := json.Unmarshal([]byte(cleaned), &eval); err != nil {
		return Evaluation{}, fmt.Errorf("invalid JSON in model response: %w", err)
	}

	member, ok := e.team.Lookup(eval.Assignee)
	if !ok {
		member = e.team.Default()
	}
	eval.Assignee = member.Name
	eval.AssigneeGID = member.GID

	return eval, nil
}

// buildPrompt embeds the email and the roster in the fixed rubric.
func (e *Evaluator) buildPrompt(subject, body, sender string) string {
	var roster strings.Builder
	var names []string
	for _, m := range e.team.Members {
		names = append(names, fmt.Sprintf("%q", m.Name))
		fmt.Fprintf(&roster, "- %s: %s", m.Name, m.Focus)
		if m.Name == e.team.DefaultAssignee {
			roster.WriteString(" (DEFAULT if unclear)")
		}
		roster.WriteString("\n")
	}

	return fmt.Sprintf(`You are an executive assistant. Analyze the following email and determine:
1. Is this email actionable? (requires a task to be created)
2. If actionable, create a concise task name
3. If actionable, summarize what needs to be done
4. Assign to the appropriate team member

Emails that are NOT actionable:
- Newsletter updates, marketing emails, spam
- Simple "thank you" or acknowledgment emails
- Automated notifications that don't require action
- FYI/informational emails with no action needed

Emails that ARE actionable:
- Requests for meetings or calls
- Bug reports or technical issues
- Direct questions requiring response
- Tasks or deliverable requests
- Client requests or feedback needing action

TEAM MEMBERS - Assign based on context:
%s
EMAIL TO ANALYZE:
From: %s
Subject: %s
Body: %s

Respond ONLY with a valid JSON object (no markdown, no code blocks):
{"is_actionable": true or false, "task_name": "concise task title or empty string", "task_notes": "brief summary of what needs to be done or empty string", "assignee": %s}
`, roster.String(), sender, subject, body, strings.Join(names, " or "))
}
