package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/leadveramedia/Jarvis/internal/asana"
	"github.com/leadveramedia/Jarvis/internal/config"
	"github.com/leadveramedia/Jarvis/internal/gemini"
	"github.com/leadveramedia/Jarvis/internal/gmail"
	"github.com/leadveramedia/Jarvis/internal/logging"
)

// Mailbox lists unread messages and clears their unread flag.
type Mailbox interface {
	ListUnread(ctx context.Context, limit int64) ([]gmail.Email, error)
	MarkRead(ctx context.Context, id string) error
}

// Classifier judges whether one email warrants a task.
type Classifier interface {
	Evaluate(ctx context.Context, subject, body, sender string) gemini.Evaluation
}

// TaskTracker creates tasks in the shared project.
type TaskTracker interface {
	CreateTask(ctx context.Context, req asana.TaskRequest) asana.TaskResult
}

// Options control one run.
type Options struct {
	FetchLimit int64

	PriorityBypass  bool
	PriorityDomains []string

	FilterUnsubscribe  bool
	UnsubscribePhrases []string

	// DryRun evaluates and reports but performs no writes: no tasks are
	// created and nothing is marked read.
	DryRun bool
}

// Stats are the run counters printed in the summary.
type Stats struct {
	Processed int
	Created   int
	Skipped   int
}

// Pipeline composes the three clients into one sequential pass.
type Pipeline struct {
	mailbox    Mailbox
	classifier Classifier
	tracker    TaskTracker
	team       config.TeamConfig
	opts       Options
	out        io.Writer
	logger     *slog.Logger
}

// New creates a Pipeline. The writer receives the operator-facing
// progress lines and summary block (normally stdout).
func New(mailbox Mailbox, classifier Classifier, tracker TaskTracker, team config.TeamConfig, opts Options, out io.Writer) *Pipeline {
	return &Pipeline{
		mailbox:    mailbox,
		classifier: classifier,
		tracker:    tracker,
		team:       team,
		opts:       opts,
		out:        out,
		logger:     logging.WithService(slog.Default(), "pipeline"),
	}
}

// Run processes whatever is currently unread, up to the fetch limit, and
// prints a summary. It returns the run counters; the only error is a
// failure to list the inbox at all.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	fmt.Fprintln(p.out, strings.Repeat("=", 60))
	fmt.Fprintln(p.out, "Email-to-Asana Automation")
	fmt.Fprintln(p.out, strings.Repeat("=", 60))

	fmt.Fprintln(p.out, "\nFetching unread emails...")
	emails, err := p.mailbox.ListUnread(ctx, p.opts.FetchLimit)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch unread emails: %w", err)
	}

	if len(emails) == 0 {
		fmt.Fprintln(p.out, "No unread emails found.")
		fmt.Fprintln(p.out, "\nDone!")
		return stats, nil
	}

	fmt.Fprintf(p.out, "Found %d unread email(s).\n", len(emails))
	stats.Processed = len(emails)

	for i, email := range emails {
		fmt.Fprintf(p.out, "\n--- Email %d/%d ---\n", i+1, len(emails))
		fmt.Fprintf(p.out, "From: %s\n", email.Sender)
		fmt.Fprintf(p.out, "Subject: %s\n", clip(email.Subject, 60))

		p.logger.Debug("processing email",
			logging.MessageID(email.ID), logging.Domain(email.Sender))

		// Marketing mail is marked read and dropped before any
		// classification happens.
		if p.opts.FilterUnsubscribe && hasUnsubscribeMarker(email.Content(), p.opts.UnsubscribePhrases) {
			fmt.Fprintln(p.out, "  -> Marketing email (has unsubscribe link), skipping.")
			stats.Skipped++
			p.markRead(ctx, email.ID)
			continue
		}

		if domain, ok := p.prioritySender(email.Sender); ok {
			p.processPriority(ctx, email, domain, &stats)
		} else {
			p.processClassified(ctx, email, &stats)
		}

		// Regardless of the outcome above, the email leaves the unread
		// set so the next run does not see it again.
		p.markRead(ctx, email.ID)
	}

	fmt.Fprintln(p.out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintln(p.out, "SUMMARY")
	fmt.Fprintln(p.out, strings.Repeat("=", 60))
	fmt.Fprintf(p.out, "Emails processed: %d\n", stats.Processed)
	fmt.Fprintf(p.out, "Tasks created: %d\n", stats.Created)
	fmt.Fprintf(p.out, "Emails skipped: %d\n", stats.Skipped)
	fmt.Fprintln(p.out, "\nDone!")

	return stats, nil
}

// processPriority creates one task for a priority-domain sender with the
// whole roster as followers. The classifier is deliberately bypassed:
// priority mail always produces a task regardless of content.
func (p *Pipeline) processPriority(ctx context.Context, email gmail.Email, domain string, stats *Stats) {
	fmt.Fprintln(p.out, "  -> PRIORITY SENDER: Creating task for all team members")

	summary := fmt.Sprintf("Priority email from %s - please review and take action as needed.", domain)
	req := asana.TaskRequest{
		Name:         "[Priority] " + prefix(email.Subject, 50),
		Notes:        buildTaskNotes(email, summary),
		FollowerGIDs: p.team.GIDs(),
	}

	if p.opts.DryRun {
		fmt.Fprintf(p.out, "  -> [dry-run] would create task: %s\n", req.Name)
		stats.Created++
		return
	}

	result := p.tracker.CreateTask(ctx, req)
	if result.OK {
		fmt.Fprintln(p.out, "  -> Task created with all team members as followers")
		stats.Created++
	} else {
		fmt.Fprintf(p.out, "  -> ERROR creating task: %s\n", result.Err)
	}
}

// processClassified runs the classifier and creates a task for
// actionable mail.
func (p *Pipeline) processClassified(ctx context.Context, email gmail.Email, stats *Stats) {
	fmt.Fprintln(p.out, "Evaluating with Gemini...")
	eval := p.classifier.Evaluate(ctx, email.Subject, email.Content(), email.Sender)

	if !eval.IsActionable {
		fmt.Fprintln(p.out, "  -> Not actionable, skipping.")
		stats.Skipped++
		return
	}

	fmt.Fprintf(p.out, "  -> ACTIONABLE: Creating task for %s\n", eval.Assignee)

	req := asana.TaskRequest{
		Name:        eval.TaskName,
		Notes:       buildTaskNotes(email, eval.TaskNotes),
		AssigneeGID: eval.AssigneeGID,
	}

	if p.opts.DryRun {
		fmt.Fprintf(p.out, "  -> [dry-run] would create task: %s (assignee: %s)\n", req.Name, eval.Assignee)
		stats.Created++
		return
	}

	result := p.tracker.CreateTask(ctx, req)
	if result.OK {
		fmt.Fprintf(p.out, "  -> Task created: %s\n", result.Name)
		fmt.Fprintf(p.out, "  -> Assigned to: %s\n", eval.Assignee)
		if result.Permalink != "" {
			fmt.Fprintf(p.out, "  -> URL: %s\n", result.Permalink)
		}
		stats.Created++
	} else {
		fmt.Fprintf(p.out, "  -> ERROR creating task: %s\n", result.Err)
	}
}

// markRead clears the unread flag, best effort. A failure is a warning,
// never a run failure: the worst case is reprocessing (and a possible
// duplicate task) on the next invocation.
func (p *Pipeline) markRead(ctx context.Context, id string) {
	if p.opts.DryRun {
		fmt.Fprintln(p.out, "  -> [dry-run] would mark as read.")
		return
	}
	if err := p.mailbox.MarkRead(ctx, id); err != nil {
		fmt.Fprintln(p.out, "  -> Warning: Failed to mark as read.")
		p.logger.Warn("failed to mark email as read",
			logging.MessageID(id), logging.Err(err))
		return
	}
	fmt.Fprintln(p.out, "  -> Marked as read.")
}

// prioritySender reports whether the sender matches one of the
// configured priority domains (case-insensitive substring) and which.
func (p *Pipeline) prioritySender(sender string) (string, bool) {
	if !p.opts.PriorityBypass {
		return "", false
	}
	senderLower := strings.ToLower(sender)
	for _, domain := range p.opts.PriorityDomains {
		if domain != "" && strings.Contains(senderLower, strings.ToLower(domain)) {
			return domain, true
		}
	}
	return "", false
}

// hasUnsubscribeMarker reports whether the body contains any of the
// opt-out phrases, case-insensitively.
func hasUnsubscribeMarker(body string, phrases []string) bool {
	if body == "" {
		return false
	}
	bodyLower := strings.ToLower(body)
	for _, phrase := range phrases {
		if phrase != "" && strings.Contains(bodyLower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// buildTaskNotes assembles the task description: sender and date for
// context, the summary, and the original subject and message ID as a
// traceability trailer.
func buildTaskNotes(email gmail.Email, summary string) string {
	date := email.Date
	if date == "" {
		date = "Unknown"
	}
	return fmt.Sprintf("From: %s\nDate: %s\n\n%s\n\n---\nOriginal subject: %s\nMessage-ID: %s",
		email.Sender, date, summary, email.Subject, email.ID)
}

// clip shortens s to max runes, appending an ellipsis when it cuts.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// prefix returns at most max runes of s with no marker; used for the
// priority task name where the fixed prefix already signals truncation.
func prefix(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
