package asana

// TaskRequest describes the task to create. AssigneeGID and
// FollowerGIDs are optional.
type TaskRequest struct {
	Name         string
	Notes        string
	AssigneeGID  string
	FollowerGIDs []string
}

// TaskResult reports the outcome of one create-task call. On success OK
// is true and GID, Name and Permalink are populated; on failure Err
// holds a human-readable description.
type TaskResult struct {
	OK        bool
	GID       string
	Name      string
	Permalink string
	Err       string
}

// createTaskBody is the request envelope the Asana API expects.
type createTaskBody struct {
	Data taskData `json:"data"`
}

type taskData struct {
	Name      string   `json:"name"`
	Notes     string   `json:"notes"`
	Projects  []string `json:"projects"`
	Assignee  string   `json:"assignee,omitempty"`
	Followers []string `json:"followers,omitempty"`
}

// createTaskResponse is the subset of the response selected via
// opt_fields.
type createTaskResponse struct {
	Data struct {
		GID          string `json:"gid"`
		Name         string `json:"name"`
		PermalinkURL string `json:"permalink_url"`
	} `json:"data"`
}

// errorResponse is Asana's error envelope.
type errorResponse struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}
