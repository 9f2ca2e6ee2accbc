package domain

import (
	"fmt"
	"strings"
)

const TableLeads = "leads"

const (
	LeadNew         = "new"
	LeadContacted   = "contacted"
	LeadNegotiating = "negotiating"
	LeadBooked      = "booked"
	LeadLost        = "lost"

	// FilterArchived lists only the archived leads.
	FilterArchived = "archived"
)

var LeadStatuses = []string{LeadNew, LeadContacted, LeadNegotiating, LeadBooked, LeadLost}

// LeadFilters are the chips on the inquiries screen.
var LeadFilters = []string{FilterAll, LeadNew, LeadContacted, LeadBooked}

// Lead is an inbound inquiry submitted from the public site.
type Lead struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	EventType  string `json:"event_type"`
	EventDate  string `json:"event_date,omitempty"`
	GuestCount int    `json:"guest_count,omitempty"`
	Message    string `json:"message"`
	Status     string `json:"status"`
	IsArchived bool   `json:"is_archived"`
	CreatedAt  string `json:"created_at"`
}

func (l Lead) StatusValue() string { return l.Status }
func (l Lead) RecordID() string    { return l.ID }

func ValidLeadStatus(s string) bool { return contains(LeadStatuses, s) }

// CheckLeadStatus validates a status before it is written verbatim.
func CheckLeadStatus(s string) error {
	s = strings.TrimSpace(s)
	if !ValidLeadStatus(s) {
		return &ValidationError{
			Title:  "Invalid status",
			Fields: []string{"status"},
			Msg:    fmt.Sprintf("status must be one of %s", strings.Join(LeadStatuses, ", ")),
		}
	}
	return nil
}

// FilterLeads applies a lead chip. Status chips filter on status alone,
// archived or not. FilterArchived is an extra view of the archived leads.
func FilterLeads(leads []Lead, filter string) []Lead {
	if strings.ToLower(strings.TrimSpace(filter)) != FilterArchived {
		return FilterByStatus(leads, filter)
	}
	out := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if l.IsArchived {
			out = append(out, l)
		}
	}
	return out
}
