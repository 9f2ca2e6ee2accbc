package screens

import (
	"context"
	"strings"

	"welux-admin/internal/backend"
	"welux-admin/internal/domain"
	"welux-admin/internal/events"
	"welux-admin/internal/nav"
)

// Leads is the inquiries inbox.
type Leads struct {
	*List[domain.Lead]
	hub *events.Hub

	expanded string
}

func NewLeads(tables backend.Tables, n nav.Navigator, hub *events.Hub) *Leads {
	accepted := append([]string{domain.FilterArchived}, domain.LeadStatuses...)
	return &Leads{
		List: newList(tables, n, listConfig[domain.Lead]{
			table:    domain.TableLeads,
			filters:  domain.LeadFilters,
			accepted: accepted,
			apply:    domain.FilterLeads,
		}),
		hub: hub,
	}
}

// ToggleExpand opens the card for id, or closes it if already open.
// It returns the expanded id ("" when none).
func (l *Leads) ToggleExpand(id string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.expanded == id {
		l.expanded = ""
	} else {
		l.expanded = id
	}
	return l.expanded
}

func (l *Leads) Expanded() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.expanded
}

// SetStatus moves a lead through the pipeline.
func (l *Leads) SetStatus(ctx context.Context, id, status string) (domain.Lead, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if err := domain.CheckLeadStatus(status); err != nil {
		l.setAlert(alertFor("Update Failed", err))
		return domain.Lead{}, err
	}
	return l.update(ctx, id, map[string]any{"status": status})
}

// Archive flags a lead. It stays under its status chip and also shows
// under the archived chip.
func (l *Leads) Archive(ctx context.Context, id string) (domain.Lead, error) {
	return l.update(ctx, id, map[string]any{"is_archived": true})
}

// update writes one lead. Writes are not tracked as in-flight loads, so
// a refresh neither cancels one nor is made stale by one.
func (l *Leads) update(ctx context.Context, id string, fields map[string]any) (domain.Lead, error) {
	var lead domain.Lead
	err := l.tables.Update(ctx, domain.TableLeads, id, fields, &lead)

	l.mu.Lock()
	if err != nil {
		l.alert = alertFor("Update Failed", err)
		l.mu.Unlock()
		return domain.Lead{}, err
	}
	l.wroteLocked(lead)
	l.mu.Unlock()

	l.hub.Emit("", events.TypeLeadUpdated, lead)
	return lead, nil
}

func (l *Leads) setAlert(a *Alert) {
	l.mu.Lock()
	l.alert = a
	l.mu.Unlock()
}
