package report

import (
	"bytes"
	"testing"
	"time"

	"welux-admin/internal/domain"
)

func TestLeadGrowthBucketsByDay(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC)
	leads := []domain.Lead{
		{CreatedAt: "2026-10-17T08:00:00Z"},
		{CreatedAt: "2026-10-17T23:59:00Z"},
		{CreatedAt: "2026-10-15T10:00:00Z"},
		{CreatedAt: "2026-10-01T10:00:00Z"}, // outside window
		{CreatedAt: "yesterday"},
	}

	got := LeadGrowth(leads, 3, now)
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	want := []DayCount{{"2026-10-15", 1}, {"2026-10-16", 0}, {"2026-10-17", 2}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	}
}

func TestGrowthPNGRendersEmptyWindow(t *testing.T) {
	var buf bytes.Buffer
	counts := LeadGrowth(nil, 5, time.Now())
	if err := GrowthPNG(&buf, counts); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatal("expected PNG output")
	}
}

func TestLeadsPDF(t *testing.T) {
	var buf bytes.Buffer
	leads := []domain.Lead{{
		FullName: "Ama Owusu", Email: "ama@example.com", EventType: "Wedding",
		EventDate: "2026-12-12", GuestCount: 150, Status: domain.LeadNew,
		Message: "Looking for a full-day package.", CreatedAt: "2026-10-17T08:00:00Z",
	}}
	if err := LeadsPDF(&buf, leads, "new", time.Now()); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("expected PDF output")
	}
}
