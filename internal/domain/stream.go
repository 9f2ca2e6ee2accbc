package domain

import "time"

const TableStreamConfig = "stream_config"

const (
	LabelOnAir   = "ON AIR"
	LabelOffline = "OFFLINE"
)

// StreamConfig is the singleton row behind the public livestream.
type StreamConfig struct {
	ID             string `json:"id"`
	VideoID        string `json:"video_id"`
	VideoTitle     string `json:"video_title"`
	Platform       string `json:"platform"`
	IsLive         bool   `json:"is_live"`
	CurrentViewers int    `json:"current_viewers"`
	LastPing       string `json:"last_ping,omitempty"`
	UpdatedAt      string `json:"updated_at"`
}

func (s StreamConfig) StatusLabel() string {
	if s.IsLive {
		return LabelOnAir
	}
	return LabelOffline
}

// Timestamp formats t the way every updated_at write does.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
