// Package canvas is a minimal client for the Canvas LMS REST API, covering
// the assignment listing the marking reminders are built from.
package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

var ErrTokenMissing = errors.New("canvas: api token missing")

const perPage = 100

type Assignment struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	HTMLURL           string     `json:"html_url"`
	Description       string     `json:"description"`
	NeedsGradingCount int        `json:"needs_grading_count"`
	DueAt             *time.Time `json:"due_at"`
}

type APIClient struct {
	httpClient http.Client
	baseURL    string
	token      string
}

func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		token:   token,
	}
}

// ListAssignments fetches every assignment of a course, following the
// page-number pagination Canvas uses.
func (c *APIClient) ListAssignments(ctx context.Context, courseID string) ([]*Assignment, error) {
	if c.token == "" {
		return nil, ErrTokenMissing
	}

	var assignments []*Assignment
	for page := 1; ; page++ {
		batch, err := c.listAssignmentsPage(ctx, courseID, page)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, batch...)
		if len(batch) < perPage {
			return assignments, nil
		}
	}
}

func (c *APIClient) listAssignmentsPage(ctx context.Context, courseID string, page int) ([]*Assignment, error) {
	values := url.Values{}
	values.Add("per_page", fmt.Sprint(perPage))
	values.Add("page", fmt.Sprint(page))

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/api/v1/courses/%s/assignments?%s", c.baseURL, courseID, values.Encode()),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Authorization", "Bearer "+c.token)

	slog.InfoContext(ctx, "canvas request", "method", request.Method, "url", request.URL.String())

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("canvas: unexpected status %d listing assignments of course %s", response.StatusCode, courseID)
	}

	var assignments []*Assignment
	if err := json.NewDecoder(response.Body).Decode(&assignments); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return assignments, nil
}
