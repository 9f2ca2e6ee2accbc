package screens

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"welux-admin/internal/backend"
	"welux-admin/internal/domain"
	"welux-admin/internal/events"
	"welux-admin/internal/youtube"
)

// TitleLookup resolves a video title. The stream screen works without one.
type TitleLookup interface {
	Title(ctx context.Context, videoID string) (string, error)
}

// LatestStream is the ordering that picks the singleton stream row.
var LatestStream = backend.Order{Column: "updated_at"}

// FetchStream reads the singleton stream row.
func FetchStream(ctx context.Context, tables backend.Tables) (domain.StreamConfig, error) {
	var rows []domain.StreamConfig
	if err := tables.SelectAll(ctx, domain.TableStreamConfig, LatestStream, &rows); err != nil {
		return domain.StreamConfig{}, err
	}
	if len(rows) == 0 {
		return domain.StreamConfig{}, backend.ErrNotFound
	}
	return rows[0], nil
}

type StreamState struct {
	Loading  bool                 `json:"loading"`
	Saving   bool                 `json:"saving"`
	Config   *domain.StreamConfig `json:"config,omitempty"`
	Label    string               `json:"label"`
	WatchURL string               `json:"watch_url,omitempty"`
	Alert    *Alert               `json:"alert,omitempty"`
}

// Stream is the livestream control screen. Every write is an unconditional
// overwrite of the singleton row.
type Stream struct {
	tables backend.Tables
	hub    *events.Hub
	titles TitleLookup
	now    func() time.Time

	mu      sync.Mutex
	fl      inflight // loads
	wgen    uint64 // last write issued
	wseq    uint64 // writes applied
	cfg     *domain.StreamConfig
	loading bool
	saving  bool
	alert   *Alert
}

// NewStream builds the screen. titles may be nil to disable title lookup.
func NewStream(tables backend.Tables, hub *events.Hub, titles TitleLookup) *Stream {
	return &Stream{tables: tables, hub: hub, titles: titles, now: time.Now, loading: true}
}

func (s *Stream) Load(ctx context.Context) error {
	s.mu.Lock()
	ctx, gen := s.fl.begin(ctx)
	since := s.wseq
	s.mu.Unlock()

	cfg, err := FetchStream(ctx, s.tables)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fl.finish(gen) {
		return ErrStale
	}
	s.loading = false
	if s.wseq != since && s.cfg != nil {
		// A write landed while this read was out; its row is newer.
		return nil
	}
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			s.cfg = nil
			s.alert = &Alert{Title: "Not Found", Message: "No stream is configured."}
			return err
		}
		s.alert = alertFor("Error", err)
		return err
	}
	s.cfg = &cfg
	return nil
}

// ToggleLive flips the live flag.
func (s *Stream) ToggleLive(ctx context.Context) (domain.StreamConfig, error) {
	s.mu.Lock()
	if s.cfg == nil {
		s.mu.Unlock()
		return domain.StreamConfig{}, backend.ErrNotFound
	}
	id, live := s.cfg.ID, !s.cfg.IsLive
	s.mu.Unlock()

	return s.write(ctx, id, map[string]any{
		"is_live":    live,
		"updated_at": domain.Timestamp(s.now()),
	})
}

// UpdateSource points the stream at a new video. input is an 11-character
// id or a YouTube URL. The live flag is left alone.
func (s *Stream) UpdateSource(ctx context.Context, input string) (domain.StreamConfig, error) {
	videoID, err := youtube.ParseVideoID(input)
	if err != nil {
		s.mu.Lock()
		s.alert = alertFor("Invalid source", err)
		s.mu.Unlock()
		return domain.StreamConfig{}, err
	}

	s.mu.Lock()
	if s.cfg == nil {
		s.mu.Unlock()
		return domain.StreamConfig{}, backend.ErrNotFound
	}
	id := s.cfg.ID
	s.mu.Unlock()

	title := ""
	if s.titles != nil {
		t, err := s.titles.Title(ctx, videoID)
		if err != nil {
			log.Printf("level=warn msg=\"video title lookup failed\" video_id=%s err=%v", videoID, err)
		} else {
			title = t
		}
	}

	return s.write(ctx, id, map[string]any{
		"video_id":    videoID,
		"video_title": title,
		"updated_at":  domain.Timestamp(s.now()),
	})
}

// write never cancels another request. Only the newest write updates the
// displayed row, so an older reply cannot overwrite a newer one.
func (s *Stream) write(ctx context.Context, id string, fields map[string]any) (domain.StreamConfig, error) {
	s.mu.Lock()
	s.wgen++
	gen := s.wgen
	s.saving = true
	s.mu.Unlock()

	var cfg domain.StreamConfig
	err := s.tables.Update(ctx, domain.TableStreamConfig, id, fields, &cfg)

	s.mu.Lock()
	current := gen == s.wgen
	if current {
		s.saving = false
	}
	if err != nil {
		if current {
			s.alert = alertFor("Error", err)
		}
		s.mu.Unlock()
		return domain.StreamConfig{}, err
	}
	if current {
		s.cfg = &cfg
		s.wseq++
	}
	s.mu.Unlock()

	s.hub.Emit("", events.TypeStreamChanged, cfg)
	return cfg, nil
}

func (s *Stream) StatusLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return domain.LabelOffline
	}
	return s.cfg.StatusLabel()
}

func (s *Stream) State() StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := StreamState{Loading: s.loading, Saving: s.saving, Label: domain.LabelOffline, Alert: s.alert}
	if s.cfg != nil {
		cp := *s.cfg
		st.Config = &cp
		st.Label = cp.StatusLabel()
		if cp.VideoID != "" {
			st.WatchURL = youtube.WatchURL(cp.VideoID)
		}
	}
	return st
}

func (s *Stream) Unmount() {
	s.mu.Lock()
	s.fl.stop()
	s.wgen++
	s.saving = false
	s.mu.Unlock()
}
