// Package greenhouse reads postings from the public Greenhouse job board API.
package greenhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/jobtext"
)

// DefaultBaseURL is the Greenhouse job board API.
const DefaultBaseURL = "https://boards-api.greenhouse.io"

// DefaultTimeout bounds one API request.
const DefaultTimeout = 10 * time.Second

var _ jobtext.JobBoard = (*Client)(nil)

// StatusError is returned for a non-200 API response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("greenhouse: HTTP %d for %s", e.StatusCode, e.URL)
}

// Client is a Greenhouse job board API client.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type jobResponse struct {
	Title    string `json:"title"`
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	Departments []struct {
		Name string `json:"name"`
	} `json:"departments"`
	Content     string `json:"content"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
}

// FetchJob issues one request for a job. It never retries.
func (c *Client) FetchJob(ctx context.Context, boardToken, jobID string) (*jobtext.BoardJob, error) {
	if boardToken == "" || jobID == "" {
		return nil, jobtext.Errorf(jobtext.EINVALID, "board token and job ID required")
	}
	u := fmt.Sprintf("%s/v1/boards/%s/jobs/%s", c.baseURL, url.PathEscape(boardToken), url.PathEscape(jobID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: u}
	}

	var body jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("greenhouse decode failed: %w", err)
	}

	job := &jobtext.BoardJob{
		Title:       body.Title,
		Location:    body.Location.Name,
		ContentHTML: html.UnescapeString(body.Content),
		URL:         body.AbsoluteURL,
		UpdatedAt:   body.UpdatedAt,
	}
	for _, d := range body.Departments {
		if d.Name != "" {
			job.Departments = append(job.Departments, d.Name)
		}
	}
	return job, nil
}
