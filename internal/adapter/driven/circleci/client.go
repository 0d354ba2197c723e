// Package circleci implements the CIJobFetcher port against the CircleCI
// v1.1 job API and the private raw-output endpoint that serves step logs.
package circleci

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prpilot/prpilot/internal/domain/model"
	"github.com/prpilot/prpilot/internal/domain/port/driven"
)

var _ driven.CIJobFetcher = (*Client)(nil)

// Client calls the CircleCI API with a personal token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a CircleCI client authenticated with the given token.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://circleci.com",
		token:      token,
	}
}

// NewClientWithBaseURL creates a Client against a custom endpoint.
// This constructor is intended for testing against an httptest server.
func NewClientWithBaseURL(httpClient *http.Client, baseURL, token string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
	}
}

type jobDetailsResponse struct {
	Steps []struct {
		Name    string `json:"name"`
		Actions []struct {
			Index  int   `json:"index"`
			Step   int   `json:"step"`
			Failed *bool `json:"failed"`
		} `json:"actions"`
	} `json:"steps"`
	Workflows struct {
		JobName string `json:"job_name"`
	} `json:"workflows"`
}

// FetchJobDetails retrieves a job's name and step list from the v1.1 API.
func (c *Client) FetchJobDetails(ctx context.Context, job model.CIJobInfo) (model.CIJobDetails, error) {
	url := fmt.Sprintf("%s/api/v1.1/project/%s/%d", c.baseURL, job.ProjectSlug(), job.JobNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.CIJobDetails{}, fmt.Errorf("creating job details request: %w", err)
	}
	req.Header.Set("Circle-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.CIJobDetails{}, fmt.Errorf("fetching job %d: %w", job.JobNumber, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return model.CIJobDetails{}, fmt.Errorf("job not found: %d", job.JobNumber)
	case resp.StatusCode == http.StatusTooManyRequests:
		return model.CIJobDetails{}, fmt.Errorf("circleci API rate limited")
	case resp.StatusCode != http.StatusOK:
		return model.CIJobDetails{}, fmt.Errorf("circleci API error: HTTP %d", resp.StatusCode)
	}

	var details jobDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return model.CIJobDetails{}, fmt.Errorf("parsing job details: %w", err)
	}

	result := model.CIJobDetails{JobName: details.Workflows.JobName}
	for _, step := range details.Steps {
		s := model.CIJobStep{Name: step.Name}
		for _, action := range step.Actions {
			failed := action.Failed != nil && *action.Failed
			s.Actions = append(s.Actions, model.CIStepAction{
				Index:  action.Index,
				Step:   action.Step,
				Failed: failed,
			})
		}
		result.Steps = append(result.Steps, s)
	}
	return result, nil
}

// FetchStepOutput retrieves the stdout and stderr streams of one step action
// from the private raw-output endpoint. A stream that cannot be fetched
// degrades to empty: partial logs are still worth showing, and the endpoint
// routinely 404s for streams a step never wrote to.
func (c *Client) FetchStepOutput(ctx context.Context, job model.CIJobInfo, actionIndex, step int) (model.CIStepOutput, error) {
	base := fmt.Sprintf("%s/api/private/output/raw/%s/%d", c.baseURL, job.ProjectSlug(), job.JobNumber)

	stdout := c.fetchRaw(ctx, fmt.Sprintf("%s/output/%d/%d", base, actionIndex, step))
	stderr := c.fetchRaw(ctx, fmt.Sprintf("%s/error/%d/%d", base, actionIndex, step))

	return model.CIStepOutput{Stdout: stdout, Stderr: stderr}, nil
}

func (c *Client) fetchRaw(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Circle-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("fetching step output failed", "url", url, "error", err)
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("reading step output failed", "url", url, "error", err)
		return ""
	}
	return string(body)
}
