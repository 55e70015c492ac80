package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"cloudtask/tasks-service/models"

	"github.com/sony/gobreaker"
)

// ProjectsClient talks to the projects service over HTTP. Every call goes
// through a circuit breaker so a dead projects service fails fast instead of
// tying up request handlers.
type ProjectsClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewProjectsClient(baseURL string, httpClient *http.Client, breaker *gobreaker.CircuitBreaker) *ProjectsClient {
	return &ProjectsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		breaker:    breaker,
	}
}

// GetProjectMembers fetches the project's current member list. The snapshot
// is fetched fresh on every call; membership changes are visible to the next
// call immediately.
func (c *ProjectsClient) GetProjectMembers(ctx context.Context, projectID string) ([]models.Member, error) {
	url := fmt.Sprintf("%s/api/projects/%s/members", c.baseURL, projectID)

	body, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrProjectNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("projects service returned %s", resp.Status)
		}

		var members []models.Member
		if err := json.NewDecoder(resp.Body).Decode(&members); err != nil {
			return nil, fmt.Errorf("failed to decode project members: %w", err)
		}
		return members, nil
	})
	if err != nil {
		return nil, err
	}

	return body.([]models.Member), nil
}

// ProjectExists checks whether the projects service knows the given project.
func (c *ProjectsClient) ProjectExists(ctx context.Context, projectID string) (bool, error) {
	url := fmt.Sprintf("%s/api/projects/%s", c.baseURL, projectID)

	exists, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			return true, nil
		case http.StatusNotFound:
			return false, nil
		default:
			return nil, fmt.Errorf("projects service returned %s", resp.Status)
		}
	})
	if err != nil {
		return false, err
	}

	return exists.(bool), nil
}
