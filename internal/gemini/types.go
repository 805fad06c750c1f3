package gemini

// Evaluation is the structured judgment for one email. TaskName and
// TaskNotes are empty when the email is not actionable. Assignee is
// always one of the configured roster names, with its Asana GID
// resolved alongside.
type Evaluation struct {
	IsActionable bool   `json:"is_actionable"`
	TaskName     string `json:"task_name"`
	TaskNotes    string `json:"task_notes"`
	Assignee     string `json:"assignee"`
	AssigneeGID  string `json:"-"`
}
