// Package asana creates tasks in a single Asana project.
//
// The client authenticates with a static personal access token and is
// scoped to one project GID, both required at construction so that a
// misconfigured deployment fails before any network activity.
//
// CreateTask converts every backend or transport failure into a
// TaskResult value rather than returning an error: one failed task must
// not abort the rest of the batch.
package asana
