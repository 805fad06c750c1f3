package asana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{
		AccessToken: "test-token",
		ProjectGID:  "4242",
		APIBase:     srv.URL,
	})
	require.NoError(t, err)
	return c
}

func TestNewClientFailsFast(t *testing.T) {
	tests := []struct {
		name        string
		cfg         ClientConfig
		errContains string
	}{
		{
			name:        "missing token",
			cfg:         ClientConfig{ProjectGID: "4242"},
			errContains: "access token is required",
		},
		{
			name:        "missing project",
			cfg:         ClientConfig{AccessToken: "tok"},
			errContains: "project GID is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestCreateTask(t *testing.T) {
	var gotAuth, gotOptFields string
	var gotBody createTaskBody

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotOptFields = r.URL.Query().Get("opt_fields")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data": {"gid": "777", "name": "Fix login bug", "permalink_url": "https://app.asana.com/0/4242/777"}}`))
	})

	result := c.CreateTask(context.Background(), TaskRequest{
		Name:        "Fix login bug",
		Notes:       "Users cannot log in",
		AssigneeGID: "1001",
	})

	require.True(t, result.OK, "unexpected failure: %s", result.Err)
	assert.Equal(t, "777", result.GID)
	assert.Equal(t, "Fix login bug", result.Name)
	assert.Equal(t, "https://app.asana.com/0/4242/777", result.Permalink)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "gid,name,permalink_url", gotOptFields)
	assert.Equal(t, "Fix login bug", gotBody.Data.Name)
	assert.Equal(t, []string{"4242"}, gotBody.Data.Projects)
	assert.Equal(t, "1001", gotBody.Data.Assignee)
	assert.Empty(t, gotBody.Data.Followers)
}

func TestCreateTaskWithFollowers(t *testing.T) {
	var gotBody createTaskBody

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data": {"gid": "778", "name": "[Priority] Review", "permalink_url": ""}}`))
	})

	result := c.CreateTask(context.Background(), TaskRequest{
		Name:         "[Priority] Review",
		Notes:        "please review",
		FollowerGIDs: []string{"1001", "1002", "1003"},
	})

	require.True(t, result.OK)
	assert.Empty(t, gotBody.Data.Assignee)
	assert.Equal(t, []string{"1001", "1002", "1003"}, gotBody.Data.Followers)
}

func TestCreateTaskAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors": [{"message": "Not a member of this project"}]}`))
	})

	result := c.CreateTask(context.Background(), TaskRequest{Name: "T", Notes: "N"})

	assert.False(t, result.OK)
	assert.Contains(t, result.Err, "403")
	assert.Contains(t, result.Err, "Not a member of this project")
}

func TestCreateTaskTransportErrorDoesNotPanic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c, err := NewClient(ClientConfig{AccessToken: "t", ProjectGID: "p", APIBase: srv.URL})
	require.NoError(t, err)

	result := c.CreateTask(context.Background(), TaskRequest{Name: "T"})

	assert.False(t, result.OK)
	assert.Contains(t, result.Err, "request failed")
}

func TestCreateTaskGarbageResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway error</html>`))
	})

	result := c.CreateTask(context.Background(), TaskRequest{Name: "T"})

	assert.False(t, result.OK)
	assert.Contains(t, result.Err, "failed to decode response")
}
