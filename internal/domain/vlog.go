package domain

import "strings"

const TableVlogs = "vlogs"

const (
	VlogStatusDraft      = "draft"
	VlogStatusProcessing = "processing"
	VlogStatusPublished  = "published"
	VlogStatusArchived   = "archived"
)

var VlogStatuses = []string{VlogStatusDraft, VlogStatusProcessing, VlogStatusPublished, VlogStatusArchived}

var VlogFilters = []string{FilterAll, VlogStatusPublished, VlogStatusDraft, VlogStatusProcessing}

type Vlog struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoURL     string `json:"video_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Duration     string `json:"duration,omitempty"`
	Status       string `json:"status"`
	ViewsCount   int    `json:"views_count"`
	UserID       string `json:"user_id,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func (v Vlog) StatusValue() string { return v.Status }
func (v Vlog) RecordID() string    { return v.ID }

// VlogDraft is the form state of the add and edit screens.
type VlogDraft struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     string `json:"duration"`
	Status       string `json:"status"`
}

func (d VlogDraft) Normalize() VlogDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.VideoURL = strings.TrimSpace(d.VideoURL)
	d.ThumbnailURL = strings.TrimSpace(d.ThumbnailURL)
	d.Duration = strings.TrimSpace(d.Duration)
	d.Status = strings.ToLower(strings.TrimSpace(d.Status))
	return d
}

func (d VlogDraft) Validate() error {
	if err := required("Title Required", "Please enter a title for the vlog.",
		map[string]string{"title": d.Title}, "title"); err != nil {
		return err
	}
	if d.Status != "" && !contains(VlogStatuses, d.Status) {
		return &ValidationError{Title: "Invalid status", Fields: []string{"status"},
			Msg: "status must be one of " + strings.Join(VlogStatuses, ", ")}
	}
	return nil
}

// Fields returns the mutable columns written by an edit. Empty optional
// columns are nil.
func (d VlogDraft) Fields() map[string]any {
	f := map[string]any{
		"title":         d.Title,
		"description":   d.Description,
		"video_url":     optional(d.VideoURL),
		"thumbnail_url": optional(d.ThumbnailURL),
		"duration":      optional(d.Duration),
	}
	if d.Status != "" {
		f["status"] = d.Status
	}
	return f
}

func DraftFromVlog(v Vlog) VlogDraft {
	return VlogDraft{
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
		Status:       v.Status,
	}
}
