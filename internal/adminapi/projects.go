package adminapi

import (
	"net/url"
	"strconv"
)

// ListProjects returns up to limit projects, optionally including archived.
func (c *Client) ListProjects(includeArchived bool, limit int) ([]Project, error) {
	q := url.Values{}
	q.Set("include_archived", strconv.FormatBool(includeArchived))
	items, err := c.fetchAllPages("/projects", q, limit)
	if err != nil {
		return nil, err
	}
	return decodeAll[Project](items)
}

// GetProject fetches a single project.
func (c *Client) GetProject(projectID string) (*Project, error) {
	var p Project
	if err := c.doJSON("GET", "/projects/"+url.PathEscape(projectID), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject creates a new project with the given display name.
func (c *Client) CreateProject(name string) (*Project, error) {
	var p Project
	if err := c.doJSON("POST", "/projects", nil, map[string]string{"name": name}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ArchiveProject archives a project. Archived projects keep their records
// but reject new API traffic.
func (c *Client) ArchiveProject(projectID string) (*Project, error) {
	var p Project
	if err := c.doJSON("POST", "/projects/"+url.PathEscape(projectID)+"/archive", nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjectUsers returns up to limit members of a project.
func (c *Client) ListProjectUsers(projectID string, limit int) ([]ProjectUser, error) {
	items, err := c.fetchAllPages("/projects/"+url.PathEscape(projectID)+"/users", nil, limit)
	if err != nil {
		return nil, err
	}
	return decodeAll[ProjectUser](items)
}

// AddProjectUser adds an organization user to a project with a role
// (owner or member).
func (c *Client) AddProjectUser(projectID, userID, role string) (*ProjectUser, error) {
	var pu ProjectUser
	body := map[string]string{"user_id": userID, "role": role}
	if err := c.doJSON("POST", "/projects/"+url.PathEscape(projectID)+"/users", nil, body, &pu); err != nil {
		return nil, err
	}
	return &pu, nil
}

// DeleteProjectUser removes a user from a project.
func (c *Client) DeleteProjectUser(projectID, userID string) error {
	path := "/projects/" + url.PathEscape(projectID) + "/users/" + url.PathEscape(userID)
	return c.doJSON("DELETE", path, nil, nil, nil)
}
