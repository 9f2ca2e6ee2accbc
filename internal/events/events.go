package events

import (
	"encoding/json"
	"time"
)

// Event types pushed to the UI shell over SSE.
const (
	TypePing          = "ping"
	TypeAuthChanged   = "auth_changed"
	TypeLeadCreated   = "lead_created"
	TypeLeadUpdated   = "lead_updated"
	TypeVlogCreated   = "vlog_created"
	TypeVlogUpdated   = "vlog_updated"
	TypeVlogDeleted   = "vlog_deleted"
	TypeJobCreated    = "job_created"
	TypeJobUpdated    = "job_updated"
	TypeJobDeleted    = "job_deleted"
	TypeStreamChanged = "stream_changed"
	TypeNavChanged    = "nav_changed"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
