package domain

import (
	"strings"
	"time"
)

const TableJobs = "jobs"

const (
	JobStatusActive  = "active"
	JobStatusDraft   = "draft"
	JobStatusFilled  = "filled"
	JobStatusExpired = "expired"

	// DeadlineLayout is the form format of a job deadline.
	DeadlineLayout = "2006-01-02"
)

var JobStatuses = []string{JobStatusActive, JobStatusDraft, JobStatusFilled, JobStatusExpired}

var JobFilters = []string{FilterAll, JobStatusActive, JobStatusDraft, JobStatusExpired}

type Job struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location,omitempty"`
	Description     string   `json:"description"`
	Requirements    []string `json:"requirements"`
	SalaryRange     string   `json:"salary_range,omitempty"`
	Deadline        string   `json:"deadline,omitempty"`
	Status          string   `json:"status"`
	ApplicantsCount int      `json:"applicants_count"`
	CreatedAt       string   `json:"created_at"`
}

func (j Job) StatusValue() string { return j.Status }
func (j Job) RecordID() string    { return j.ID }

type JobDraft struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	SalaryRange  string   `json:"salary_range"`
	Deadline     string   `json:"deadline"`
	Status       string   `json:"status"`
}

func (d JobDraft) Normalize() JobDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Company = strings.TrimSpace(d.Company)
	d.Location = strings.TrimSpace(d.Location)
	d.Description = strings.TrimSpace(d.Description)
	d.SalaryRange = strings.TrimSpace(d.SalaryRange)
	d.Deadline = strings.TrimSpace(d.Deadline)
	d.Status = strings.ToLower(strings.TrimSpace(d.Status))

	reqs := make([]string, 0, len(d.Requirements))
	for _, r := range d.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			reqs = append(reqs, r)
		}
	}
	d.Requirements = reqs
	return d
}

func (d JobDraft) Validate() error {
	if err := required("Missing fields", "Title and company are required.",
		map[string]string{"title": d.Title, "company": d.Company}, "title", "company"); err != nil {
		return err
	}
	if d.Deadline != "" {
		if _, err := time.Parse(DeadlineLayout, d.Deadline); err != nil {
			return &ValidationError{Title: "Invalid deadline", Fields: []string{"deadline"},
				Msg: "deadline must be YYYY-MM-DD"}
		}
	}
	if d.Status != "" && !contains(JobStatuses, d.Status) {
		return &ValidationError{Title: "Invalid status", Fields: []string{"status"},
			Msg: "status must be one of " + strings.Join(JobStatuses, ", ")}
	}
	return nil
}

// Fields returns the mutable columns. Empty optional columns are nil;
// requirements is never nil since the column is NOT NULL.
func (d JobDraft) Fields() map[string]any {
	reqs := d.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	f := map[string]any{
		"title":        d.Title,
		"company":      d.Company,
		"location":     optional(d.Location),
		"description":  d.Description,
		"requirements": reqs,
		"salary_range": optional(d.SalaryRange),
		"deadline":     optional(d.Deadline),
	}
	if d.Status != "" {
		f["status"] = d.Status
	}
	return f
}

func DraftFromJob(j Job) JobDraft {
	return JobDraft{
		Title:        j.Title,
		Company:      j.Company,
		Location:     j.Location,
		Description:  j.Description,
		Requirements: append([]string(nil), j.Requirements...),
		SalaryRange:  j.SalaryRange,
		Deadline:     j.Deadline,
		Status:       j.Status,
	}
}
