package hrflow

import (
	"fmt"
	"net/url"

	"github.com/mitchellh/mapstructure"
)

const (
	storingJobsPath = "/jobs/storing"
	storingJobPath  = "/job/indexing"
)

// JobSummary is the reshaped listing entry returned to API consumers.
type JobSummary struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
}

// Job is a stored job posting as the provider returns it.
type Job struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Skills   []Skill `json:"skills"`
	Tags     []Tag   `json:"tags"`
	Location struct {
		Text string `json:"text"`
	} `json:"location"`
}

type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Skill is a named skill attached to a profile or a job.
type Skill struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Title returns the job name with the provider's default applied.
func (j *Job) Title() string {
	if j.Name == "" {
		return "Untitled"
	}
	return j.Name
}

// ListJobs fetches jobs from the configured board and reshapes them for
// listing. Company comes from the first tag, location defaults to Remote.
func (c *Client) ListJobs() ([]JobSummary, error) {
	q := url.Values{}
	q.Set("board_keys", keysParam(c.boardKey))
	q.Set("limit", listLimit)

	data, err := c.getData(storingJobsPath, q)
	if err != nil {
		return nil, fmt.Errorf("fetching jobs: %w", err)
	}

	var jobs []*Job
	cfg := &mapstructure.DecoderConfig{
		Result:  &jobs,
		TagName: "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decoding jobs: %w", err)
	}

	summaries := make([]JobSummary, 0, len(jobs))
	for _, job := range jobs {
		summary := JobSummary{
			Key:      job.Key,
			Title:    job.Title(),
			Location: "Remote",
		}
		if len(job.Tags) > 0 {
			summary.Company = job.Tags[0].Value
		}
		if job.Location.Text != "" {
			summary.Location = job.Location.Text
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// GetJob fetches a single job by key from the configured board.
func (c *Client) GetJob(key string) (*Job, error) {
	q := url.Values{}
	q.Set("board_key", c.boardKey)
	q.Set("key", key)

	data, err := c.getData(storingJobPath, q)
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", key, err)
	}

	var job *Job
	cfg := &mapstructure.DecoderConfig{
		Result:  &job,
		TagName: "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decoding job %s: %w", key, err)
	}

	return job, nil
}
