// Package gemini evaluates emails with the Gemini API.
//
// The Evaluator builds a single-turn prompt from an email's subject,
// body and sender plus the configured team roster, and parses the
// model's response into an Evaluation.
//
// Model output is untrusted input: responses are decoded as strict JSON
// (after stripping code fences), unknown assignees are clamped to the
// configured default member, and any transport or parse failure yields
// the safe not-actionable default. Evaluate never returns an error.
package gemini
