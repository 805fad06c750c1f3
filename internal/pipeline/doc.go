// Package pipeline runs a single pass over the unread inbox: fetch,
// filter, classify, create tasks, mark read, summarize.
//
// Processing is strictly sequential, one email at a time. Per-email
// failures (malformed classification, failed task creation, failed
// mark-read) are logged and counted but never abort the batch; only a
// failure to list the inbox at all ends the run early.
//
// Two branches are independently toggleable: the priority-domain bypass
// (mail from a configured domain always becomes one task with the whole
// roster as followers, without consulting the classifier) and the
// unsubscribe filter (marketing mail is marked read and skipped without
// classification).
package pipeline
