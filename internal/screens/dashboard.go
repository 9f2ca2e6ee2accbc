package screens

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"welux-admin/internal/backend"
	"welux-admin/internal/domain"
	"welux-admin/internal/report"
)

type Summary struct {
	TotalLeads  int               `json:"total_leads"`
	NewLeads    int               `json:"new_leads"`
	StreamLabel string            `json:"stream_label"`
	StreamLive  bool              `json:"stream_live"`
	VideoTitle  string            `json:"video_title,omitempty"`
	Growth      []report.DayCount `json:"growth"`
}

type DashboardState struct {
	Loading bool     `json:"loading"`
	Summary *Summary `json:"summary,omitempty"`
	Alert   *Alert   `json:"alert,omitempty"`
}

// Dashboard summarizes leads and the stream.
type Dashboard struct {
	tables backend.Tables
	days   int
	now    func() time.Time

	mu      sync.Mutex
	fl      inflight
	summary *Summary
	alert   *Alert
}

// NewDashboard charts the last days days of leads.
func NewDashboard(tables backend.Tables, days int) *Dashboard {
	if days <= 0 {
		days = 7
	}
	return &Dashboard{tables: tables, days: days, now: time.Now}
}

func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	ctx, gen := d.fl.begin(ctx)
	d.mu.Unlock()

	var (
		leads  []domain.Lead
		stream domain.StreamConfig
		hasCfg bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.tables.SelectAll(gctx, domain.TableLeads, backend.NewestFirst, &leads)
	})
	g.Go(func() error {
		cfg, err := FetchStream(gctx, d.tables)
		if errors.Is(err, backend.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		stream, hasCfg = cfg, true
		return nil
	})
	err := g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.fl.finish(gen) {
		return ErrStale
	}
	if err != nil {
		d.alert = alertFor("Error", err)
		return err
	}

	sum := &Summary{StreamLabel: domain.LabelOffline}
	for _, l := range leads {
		sum.TotalLeads++
		if l.Status == domain.LeadNew {
			sum.NewLeads++
		}
	}
	if hasCfg {
		sum.StreamLabel = stream.StatusLabel()
		sum.StreamLive = stream.IsLive
		sum.VideoTitle = stream.VideoTitle
	}
	sum.Growth = report.LeadGrowth(leads, d.days, d.now())
	d.summary = sum
	d.alert = nil
	return nil
}

func (d *Dashboard) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := DashboardState{Loading: d.summary == nil && d.alert == nil, Alert: d.alert}
	if d.summary != nil {
		cp := *d.summary
		st.Summary = &cp
	}
	return st
}

// Chart renders the lead-growth bars of the last Load.
func (d *Dashboard) Chart(w io.Writer) error {
	d.mu.Lock()
	var growth []report.DayCount
	if d.summary != nil {
		growth = d.summary.Growth
	}
	days, now := d.days, d.now()
	d.mu.Unlock()

	if growth == nil {
		growth = report.LeadGrowth(nil, days, now)
	}
	return report.GrowthPNG(w, growth)
}

func (d *Dashboard) Unmount() {
	d.mu.Lock()
	d.fl.stop()
	d.mu.Unlock()
}
